// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/auth"
	"voyager/internal/modules/editor"
	"voyager/internal/modules/itinerary"
	"voyager/internal/modules/location"
	"voyager/internal/modules/trips"
	"voyager/internal/types"
)

// errorResponse tells the client whether offering a retry makes sense.
type errorResponse struct {
	Error string `json:"error"`
	Retry bool   `json:"retry"`
}

// Collections hands out the per-user trip manager.
type Collections interface {
	Get(ctx context.Context, uid string) *trips.Manager
}

// isValidID accepts the UUIDs the service generates plus older
// alphanumeric ids, hyphens allowed.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func tripID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return "", false
	}
	return types.ID(id), true
}

// managerFor returns the caller's trip manager.
func managerFor(c *gin.Context, col Collections) *trips.Manager {
	return col.Get(c.Request.Context(), middleware.CallerUID(c))
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRetryable(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg, Retry: true})
}

// writeServiceError maps module errors to statuses and user-facing messages.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, itinerary.ErrBadRequest), errors.Is(err, auth.ErrBadRequest),
		errors.Is(err, editor.ErrEmptyPrompt), errors.Is(err, location.ErrInvalidPoint),
		errors.Is(err, itinerary.ErrInvalidTrip):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, editor.ErrMergeFailure):
		writeRetryable(c, http.StatusUnprocessableEntity, "Couldn't apply that change. Try rephrasing it.")
	case errors.Is(err, itinerary.ErrParse):
		writeRetryable(c, http.StatusBadGateway, "The planner returned an unusable itinerary. Please try again.")
	case errors.Is(err, itinerary.ErrTransport):
		writeRetryable(c, http.StatusServiceUnavailable, "The planner is unavailable right now. Please try again.")
	case errors.Is(err, editor.ErrBusy), errors.Is(err, editor.ErrInvalidState),
		errors.Is(err, itinerary.ErrConversationBusy):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrPayment), errors.Is(err, trips.ErrPayment):
		writeRetryable(c, http.StatusPaymentRequired, "Payment was not completed.")
	case errors.Is(err, trips.ErrNotFound), errors.Is(err, itinerary.ErrConversationNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trips.ErrPersistence):
		writeRetryable(c, http.StatusServiceUnavailable, "Couldn't save your trips. Please try again.")
	case errors.Is(err, location.ErrLocationUnavailable):
		writeError(c, http.StatusServiceUnavailable, "Couldn't detect your location.")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrUnavailable):
		writeRetryable(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
