// README: Location handler: reverse geocoding for the planner's departure field.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyager/internal/modules/location"
	"voyager/internal/types"
)

type Resolver interface {
	Resolve(ctx context.Context, p types.Point) (location.Place, error)
}

type LocationHandler struct {
	location Resolver
}

func NewLocationHandler(svc Resolver) *LocationHandler {
	return &LocationHandler{location: svc}
}

// Reverse handles GET /api/location/reverse?lat=&lng=.
func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	place, err := h.location.Resolve(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, place)
}
