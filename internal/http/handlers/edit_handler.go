// README: Edit handlers: AI edit session (open, submit, cancel) and manual activities.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/editor"
	"voyager/internal/modules/itinerary"
)

type EditHandler struct {
	trips    Collections
	sessions *editor.Sessions
}

func NewEditHandler(col Collections, sessions *editor.Sessions) *EditHandler {
	return &EditHandler{trips: col, sessions: sessions}
}

// Open handles POST /api/trips/:id/edit: IDLE -> PROMPTING, returns the quote.
func (h *EditHandler) Open(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := managerFor(c, h.trips).Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sess := h.sessions.Get(middleware.CallerUID(c), t)
	if _, err := sess.Open(t); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

// State handles GET /api/trips/:id/edit.
func (h *EditHandler) State(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	sess, found := h.sessions.Lookup(middleware.CallerUID(c), id)
	if !found {
		writeJSON(c, http.StatusOK, editor.Snapshot{TripID: id, State: editor.StateIdle})
		return
	}
	writeJSON(c, http.StatusOK, sess.Snapshot())
}

type submitReq struct {
	Prompt string `json:"prompt"`
}

// Submit handles POST /api/trips/:id/edit/submit. The edit runs against the
// collection's current copy of the trip. A failed edit, or a finished edit
// that could not be saved, leaves the session in PROMPTING with the prompt
// kept so the client can offer a retry.
func (h *EditHandler) Submit(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sess, found := h.sessions.Lookup(middleware.CallerUID(c), id)
	if !found {
		writeServiceError(c, editor.ErrInvalidState)
		return
	}

	ctx := c.Request.Context()
	m := managerFor(c, h.trips)
	current, err := m.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	res, err := sess.Submit(ctx, current, req.Prompt)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := m.UpdateTrip(ctx, res.Trip); err != nil {
		_ = sess.SaveFailed(req.Prompt, res, err)
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tripResponse{Trip: res.Trip, Paid: res.Paid})
}

// Cancel handles DELETE /api/trips/:id/edit.
func (h *EditHandler) Cancel(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	if sess, found := h.sessions.Lookup(middleware.CallerUID(c), id); found {
		if err := sess.Cancel(); err != nil {
			writeServiceError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// AddActivity handles POST /api/trips/:id/days/:day/activities. :day is the
// 1-based day number. A blank title or time adds nothing.
func (h *EditHandler) AddActivity(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		writeError(c, http.StatusBadRequest, "invalid day")
		return
	}
	var a itinerary.Activity
	if err := c.ShouldBindJSON(&a); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx := c.Request.Context()
	m := managerFor(c, h.trips)
	t, err := m.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if day > len(t.Itinerary) {
		writeError(c, http.StatusBadRequest, "invalid day")
		return
	}
	updated, added := editor.AddActivity(t, day-1, a)
	if added {
		if err := m.UpdateTrip(ctx, updated); err != nil {
			writeServiceError(c, err)
			return
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"trip": updated, "added": added})
}
