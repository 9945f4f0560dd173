package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Wire shapes use pointers so that missing required fields can be told apart
// from zero values.
type wireActivity struct {
	Time          *string         `json:"time"`
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Location      *string         `json:"location"`
	Type          *string         `json:"type"`
	CostEstimate  *string         `json:"costEstimate"`
	BookingURL    *string         `json:"bookingUrl"`
	GroundingURLs []GroundingLink `json:"groundingUrls"`
}

type wireDay struct {
	Day        *int            `json:"day"`
	Date       *string         `json:"date"`
	Theme      *string         `json:"theme"`
	Activities *[]wireActivity `json:"activities"`
}

type wireTrip struct {
	Name              *string    `json:"name"`
	DepartureLocation *string    `json:"departureLocation"`
	Destination       *string    `json:"destination"`
	StartDate         *string    `json:"startDate"`
	EndDate           *string    `json:"endDate"`
	Summary           *string    `json:"summary"`
	ImageURL          *string    `json:"imageUrl"`
	DestinationImages *[]string  `json:"destinationImages"`
	Itinerary         *[]wireDay `json:"itinerary"`
}

// DecodeTrip parses a model payload into a Trip. Required fields must be
// present; unknown activity types, malformed times, day gaps and dates outside
// the trip range are rejected. Identity, sources and edit count are left for
// the caller to assign.
func DecodeTrip(data []byte) (*Trip, error) {
	var w wireTrip
	if err := unmarshalPayload(data, &w); err != nil {
		return nil, err
	}

	t := &Trip{Sources: []GroundingLink{}}
	var err error
	if t.Name, err = requireString("name", w.Name); err != nil {
		return nil, err
	}
	if t.DepartureLocation, err = requireString("departureLocation", w.DepartureLocation); err != nil {
		return nil, err
	}
	if t.Destination, err = requireString("destination", w.Destination); err != nil {
		return nil, err
	}
	if t.StartDate, err = requireString("startDate", w.StartDate); err != nil {
		return nil, err
	}
	if t.EndDate, err = requireString("endDate", w.EndDate); err != nil {
		return nil, err
	}
	t.Summary = deref(w.Summary)
	t.ImageURL = strings.TrimSpace(deref(w.ImageURL))
	if w.DestinationImages != nil {
		t.DestinationImages = *w.DestinationImages
	}

	if w.Itinerary == nil {
		return nil, invalid("itinerary is required")
	}
	if t.Itinerary, err = decodeDays(*w.Itinerary); err != nil {
		return nil, err
	}
	if err := ValidateTrip(t); err != nil {
		return nil, err
	}
	return t, nil
}

// DecodeItinerary parses a stored itinerary column.
func DecodeItinerary(data []byte, startDate, endDate string) ([]DailyPlan, error) {
	var days []wireDay
	if err := unmarshalPayload(data, &days); err != nil {
		return nil, err
	}
	out, err := decodeDays(days)
	if err != nil {
		return nil, err
	}
	if err := ValidateItinerary(out, startDate, endDate); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateTrip checks the trip-level date range and the itinerary invariants.
func ValidateTrip(t *Trip) error {
	return ValidateItinerary(t.Itinerary, t.StartDate, t.EndDate)
}

// ValidateItinerary sorts days by number and activities by time, then checks
// that day numbers run 1..n without gaps or duplicates and that every date
// falls inside [startDate, endDate].
func ValidateItinerary(days []DailyPlan, startDate, endDate string) error {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return invalid("startDate %q is not YYYY-MM-DD", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return invalid("endDate %q is not YYYY-MM-DD", endDate)
	}
	if end.Before(start) {
		return invalid("endDate %s is before startDate %s", endDate, startDate)
	}
	if len(days) == 0 {
		return invalid("itinerary is empty")
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	for i := range days {
		d := &days[i]
		if d.Day != i+1 {
			return invalid("day numbers must run 1..%d without gaps, found %d at position %d", len(days), d.Day, i+1)
		}
		date, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			return invalid("day %d date %q is not YYYY-MM-DD", d.Day, d.Date)
		}
		if date.Before(start) || date.After(end) {
			return invalid("day %d date %s is outside %s..%s", d.Day, d.Date, startDate, endDate)
		}
		SortActivities(d.Activities)
	}
	return nil
}

// SortActivities orders activities by time, keeping insertion order for ties.
func SortActivities(acts []Activity) {
	sort.SliceStable(acts, func(i, j int) bool { return acts[i].Time < acts[j].Time })
}

func decodeDays(in []wireDay) ([]DailyPlan, error) {
	out := make([]DailyPlan, 0, len(in))
	for i, wd := range in {
		if wd.Day == nil {
			return nil, invalid("itinerary[%d].day is required", i)
		}
		if wd.Date == nil {
			return nil, invalid("itinerary[%d].date is required", i)
		}
		if wd.Activities == nil {
			return nil, invalid("itinerary[%d].activities is required", i)
		}
		d := DailyPlan{
			Day:        *wd.Day,
			Date:       strings.TrimSpace(*wd.Date),
			Theme:      deref(wd.Theme),
			Activities: make([]Activity, 0, len(*wd.Activities)),
		}
		for j, wa := range *wd.Activities {
			a, err := decodeActivity(wa)
			if err != nil {
				return nil, fmt.Errorf("itinerary[%d].activities[%d]: %w", i, j, err)
			}
			d.Activities = append(d.Activities, a)
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeActivity(w wireActivity) (Activity, error) {
	title := strings.TrimSpace(deref(w.Title))
	if title == "" {
		return Activity{}, invalid("title is required")
	}
	tm, ok := CanonicalTime(deref(w.Time))
	if !ok {
		return Activity{}, invalid("time %q is not HH:MM", deref(w.Time))
	}
	typ := ActivityType(strings.ToUpper(strings.TrimSpace(deref(w.Type))))
	if !typ.Valid() {
		return Activity{}, invalid("unknown activity type %q", deref(w.Type))
	}
	return Activity{
		Time:          tm,
		Title:         title,
		Description:   deref(w.Description),
		Location:      strings.TrimSpace(deref(w.Location)),
		Type:          typ,
		CostEstimate:  deref(w.CostEstimate),
		BookingURL:    strings.TrimSpace(deref(w.BookingURL)),
		GroundingURLs: w.GroundingURLs,
	}, nil
}

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// CanonicalTime accepts "H:MM" or "HH:MM" on a 24-hour clock and returns the
// zero-padded form.
func CanonicalTime(s string) (string, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2]), true
}

// unmarshalPayload parses a model or stored payload into its wire shape.
// Fields outside the wire shape are ignored: edit replies echo the whole
// snapshot back, id, editCount and sources included. Validation of the
// fields that matter happens after parsing.
func unmarshalPayload(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func requireString(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", invalid("%s is required", field)
	}
	return strings.TrimSpace(*v), nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
