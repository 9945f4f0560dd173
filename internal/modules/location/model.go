// README: Reverse-geocoded place for a departure coordinate.
package location

import (
	"errors"

	"voyager/internal/types"
)

// UnknownLocation stands in for a city the geocoder could not name.
const UnknownLocation = "Unknown Location"

var (
	// ErrLocationUnavailable is advisory: the caller shows it briefly and the
	// user types the departure by hand.
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrInvalidPoint        = errors.New("coordinates out of range")
)

type Place struct {
	Point       types.Point `json:"coordinates"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	FullAddress string      `json:"fullAddress"`
	Timezone    string      `json:"timezone,omitempty"`
}
