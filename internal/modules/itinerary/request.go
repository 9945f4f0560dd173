package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

// Stops returns the destinations with blank entries removed, in order.
func (r Request) Stops() []string {
	trimmed := lo.Map(r.Destinations, func(d string, _ int) string { return strings.TrimSpace(d) })
	return lo.Compact(trimmed)
}

// Validate mirrors the planner form checks: an origin, at least one stop and
// a date range that does not run backwards.
func (r Request) Validate() error {
	if strings.TrimSpace(r.DepartureLocation) == "" {
		return fmt.Errorf("%w: departure location is required", ErrBadRequest)
	}
	if len(r.Stops()) == 0 {
		return fmt.Errorf("%w: at least one destination is required", ErrBadRequest)
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrBadRequest)
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end date must be YYYY-MM-DD", ErrBadRequest)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date is before start date", ErrBadRequest)
	}
	if r.Travelers < 0 {
		return fmt.Errorf("%w: travelers must not be negative", ErrBadRequest)
	}
	return nil
}
