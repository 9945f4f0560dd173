// README: Trip handlers: generate, list, view, delete, links.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/editor"
	"voyager/internal/modules/itinerary"
	"voyager/internal/modules/trips"
)

type Generator interface {
	Generate(ctx context.Context, req itinerary.Request) (*itinerary.Trip, error)
}

type TripHandler struct {
	gen   Generator
	trips Collections
	edits *editor.Sessions
}

func NewTripHandler(gen Generator, col Collections, edits *editor.Sessions) *TripHandler {
	return &TripHandler{gen: gen, trips: col, edits: edits}
}

type tripResponse struct {
	Trip *itinerary.Trip `json:"trip"`
	Paid bool            `json:"paid"`
}

// Generate handles POST /api/trips/generate.
func (h *TripHandler) Generate(c *gin.Context) {
	var req itinerary.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ctx := c.Request.Context()
	t, err := h.gen.Generate(ctx, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	res, err := managerFor(c, h.trips).AddTrip(ctx, t)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, tripResponse{Trip: res.Trip, Paid: res.Paid})
}

// List handles GET /api/trips. A failed reload still answers with the last
// known list, flagged as stale.
func (h *TripHandler) List(c *gin.Context) {
	m := managerFor(c, h.trips)
	err := m.Load(c.Request.Context())
	stale := errors.Is(err, trips.ErrPersistence)
	if err != nil && !stale {
		writeServiceError(c, err)
		return
	}
	free, ferr := m.NextTripFree(c.Request.Context())
	writeJSON(c, http.StatusOK, gin.H{
		"trips":        m.Trips(),
		"stale":        stale,
		"nextTripFree": ferr == nil && free,
	})
}

// Get handles GET /api/trips/:id and marks the trip as selected.
func (h *TripHandler) Get(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := managerFor(c, h.trips).Select(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Delete handles DELETE /api/trips/:id and forgets the trip's edit session.
func (h *TripHandler) Delete(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	if err := managerFor(c, h.trips).DeleteTrip(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	if h.edits != nil {
		h.edits.Drop(middleware.CallerUID(c), id)
	}
	c.Status(http.StatusNoContent)
}

// Links handles GET /api/trips/:id/links.
func (h *TripHandler) Links(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := managerFor(c, h.trips).Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"links": itinerary.Links(t)})
}
