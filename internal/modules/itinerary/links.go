package itinerary

import (
	"net/url"
	"strings"

	"voyager/internal/maps"
)

// ActivityLinks are the resolved outbound links for one activity.
type ActivityLinks struct {
	Day        int    `json:"day"`
	Index      int    `json:"index"`
	Title      string `json:"title"`
	BookingURL string `json:"bookingUrl,omitempty"`
	MapURL     string `json:"mapUrl,omitempty"`
}

// UsableBookingURL reports whether a stored link can be shown as is: present,
// longer than 15 characters and not a generic web-search page.
func UsableBookingURL(u string) bool {
	u = strings.TrimSpace(u)
	return u != "" && len(u) > 15 && !strings.Contains(u, "google.com/search")
}

// BookingLink returns the activity's own link when usable, otherwise a dated
// aggregator search for flights, hotels and ground transport. Other types
// get no link.
func BookingLink(t *Trip, day DailyPlan, a Activity) string {
	if UsableBookingURL(a.BookingURL) {
		return strings.TrimSpace(a.BookingURL)
	}
	date := day.Date
	if date == "" {
		date = t.StartDate
	}
	switch a.Type {
	case ActivityFlight:
		q := url.Values{}
		q.Set("q", a.Title)
		q.Set("departure_date", date)
		return "https://www.skyscanner.com/transport/flights/search?" + q.Encode()
	case ActivityHotel:
		q := url.Values{}
		q.Set("ss", strings.TrimSpace(a.Title+" "+a.Location))
		q.Set("checkin", date)
		q.Set("checkout", t.EndDate)
		return "https://www.booking.com/searchresults.html?" + q.Encode()
	case ActivityTransport:
		q := url.Values{}
		q.Set("departureDate", date)
		return "https://www.thetrainline.com/search/" + url.PathEscape(a.Location) + "?" + q.Encode()
	}
	return ""
}

// Links resolves booking and map links for every activity in the trip.
func Links(t *Trip) []ActivityLinks {
	var out []ActivityLinks
	for _, d := range t.Itinerary {
		for i, a := range d.Activities {
			out = append(out, ActivityLinks{
				Day:        d.Day,
				Index:      i,
				Title:      a.Title,
				BookingURL: BookingLink(t, d, a),
				MapURL:     maps.DirectionsURL(a.Location),
			})
		}
	}
	return out
}
