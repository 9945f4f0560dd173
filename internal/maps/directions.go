package maps

import (
	"net/url"
	"strings"
)

// DirectionsURL returns a Google Maps route link to destination, or "" when
// the location is too short to be meaningful.
func DirectionsURL(destination string) string {
	destination = strings.TrimSpace(destination)
	if len(destination) <= 3 {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", destination)
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
