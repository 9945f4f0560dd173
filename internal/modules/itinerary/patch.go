package itinerary

import "strings"

// Patch is the subset of trip fields a model edit may change. Nil means the
// reply did not mention the field.
type Patch struct {
	Name              *string
	Summary           *string
	Destination       *string
	DepartureLocation *string
	StartDate         *string
	EndDate           *string
	ImageURL          *string
	DestinationImages []string
	Itinerary         []DailyPlan
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return p.Name == nil && p.Summary == nil && p.Destination == nil &&
		p.DepartureLocation == nil && p.StartDate == nil && p.EndDate == nil &&
		p.ImageURL == nil && p.DestinationImages == nil && p.Itinerary == nil
}

// DecodePatch parses an edit reply. Only whitelisted fields are read; blank
// strings count as absent. Day ranges are checked after the patch is applied.
func DecodePatch(data []byte) (*Patch, error) {
	var w wireTrip
	if err := unmarshalPayload(data, &w); err != nil {
		return nil, err
	}
	p := &Patch{
		Name:              nonBlank(w.Name),
		Summary:           nonBlank(w.Summary),
		Destination:       nonBlank(w.Destination),
		DepartureLocation: nonBlank(w.DepartureLocation),
		StartDate:         nonBlank(w.StartDate),
		EndDate:           nonBlank(w.EndDate),
		ImageURL:          nonBlank(w.ImageURL),
	}
	if w.DestinationImages != nil {
		p.DestinationImages = append([]string{}, (*w.DestinationImages)...)
	}
	if w.Itinerary != nil {
		days, err := decodeDays(*w.Itinerary)
		if err != nil {
			return nil, err
		}
		if len(days) == 0 {
			return nil, invalid("itinerary is empty")
		}
		p.Itinerary = days
	}
	if p.Empty() {
		return nil, invalid("reply changes no editable field")
	}
	return p, nil
}

// Apply overlays p onto a copy of t. Identity, edit count, sources and the
// original request are never taken from the patch.
func (p *Patch) Apply(t *Trip) (*Trip, error) {
	out := t.Clone()
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.Name, p.Name)
	set(&out.Summary, p.Summary)
	set(&out.Destination, p.Destination)
	set(&out.DepartureLocation, p.DepartureLocation)
	set(&out.StartDate, p.StartDate)
	set(&out.EndDate, p.EndDate)
	set(&out.ImageURL, p.ImageURL)
	if p.DestinationImages != nil {
		out.DestinationImages = append([]string{}, p.DestinationImages...)
	}
	if p.Itinerary != nil {
		out.Itinerary = make([]DailyPlan, len(p.Itinerary))
		for i, d := range p.Itinerary {
			out.Itinerary[i] = d.clone()
		}
	}
	applyImageDefaults(out)
	if err := ValidateTrip(out); err != nil {
		return nil, err
	}
	return out, nil
}

func nonBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
