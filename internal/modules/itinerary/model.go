// README: Trip aggregate, daily plans, activities and the generation request.
package itinerary

import "voyager/internal/types"

type ActivityType string

const (
	ActivityFlight      ActivityType = "FLIGHT"
	ActivityHotel       ActivityType = "HOTEL"
	ActivityRestaurant  ActivityType = "RESTAURANT"
	ActivitySightseeing ActivityType = "SIGHTSEEING"
	ActivityTransport   ActivityType = "TRANSPORT"
	ActivityOther       ActivityType = "OTHER"
)

// ActivityTypes is the closed set of activity kinds, in schema order.
var ActivityTypes = []ActivityType{
	ActivityFlight,
	ActivityHotel,
	ActivityRestaurant,
	ActivitySightseeing,
	ActivityTransport,
	ActivityOther,
}

func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// GroundingLink is a citation attached by the model.
type GroundingLink struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type Activity struct {
	Time          string          `json:"time"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location,omitempty"`
	Type          ActivityType    `json:"type"`
	CostEstimate  string          `json:"costEstimate,omitempty"`
	BookingURL    string          `json:"bookingUrl,omitempty"`
	GroundingURLs []GroundingLink `json:"groundingUrls,omitempty"`
}

type DailyPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

type Trip struct {
	ID                types.ID        `json:"id"`
	Name              string          `json:"name"`
	DepartureLocation string          `json:"departureLocation"`
	Destination       string          `json:"destination"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	Summary           string          `json:"summary"`
	ImageURL          string          `json:"imageUrl"`
	DestinationImages []string        `json:"destinationImages,omitempty"`
	Itinerary         []DailyPlan     `json:"itinerary"`
	EditCount         int             `json:"editCount"`
	Sources           []GroundingLink `json:"sources"`
	OriginalRequest   *Request        `json:"originalRequest,omitempty"`
	TotalBudget       string          `json:"totalBudget,omitempty"`
	Currency          string          `json:"currency,omitempty"`
}

// Clone returns a deep copy of t.
func (t *Trip) Clone() *Trip {
	if t == nil {
		return nil
	}
	c := *t
	c.DestinationImages = append([]string(nil), t.DestinationImages...)
	c.Sources = append([]GroundingLink(nil), t.Sources...)
	c.Itinerary = make([]DailyPlan, len(t.Itinerary))
	for i, d := range t.Itinerary {
		c.Itinerary[i] = d.clone()
	}
	if t.OriginalRequest != nil {
		r := *t.OriginalRequest
		r.Destinations = append([]string(nil), t.OriginalRequest.Destinations...)
		c.OriginalRequest = &r
	}
	return &c
}

func (d DailyPlan) clone() DailyPlan {
	acts := make([]Activity, len(d.Activities))
	for i, a := range d.Activities {
		a.GroundingURLs = append([]GroundingLink(nil), a.GroundingURLs...)
		acts[i] = a
	}
	d.Activities = acts
	return d
}

// Request is the planner form input. It is not persisted on its own.
type Request struct {
	DepartureLocation string       `json:"departureLocation"`
	DepartureGeo      *types.Point `json:"departureGeo,omitempty"`
	Destinations      []string     `json:"destinations"`
	StartDate         string       `json:"startDate"`
	EndDate           string       `json:"endDate"`
	TransportType     string       `json:"transportType"`
	TransportOption   string       `json:"transportOption,omitempty"`
	Travelers         int          `json:"travelers"`
	TotalBudget       string       `json:"totalBudget"`
	Goals             string       `json:"goals"`
}
