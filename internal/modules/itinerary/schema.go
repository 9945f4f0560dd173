package itinerary

import (
	"github.com/samber/lo"

	"voyager/internal/ai"
)

// TripSchema is the structured-output contract shared by generation, edits
// and chat finalization.
func TripSchema() *ai.Schema {
	str := func(desc string) *ai.Schema { return &ai.Schema{Type: ai.TypeString, Description: desc} }

	activity := &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"time":         str("24-hour HH:MM"),
			"title":        str(""),
			"description":  str(""),
			"location":     str("Specific place name and city."),
			"costEstimate": str("Display string, e.g. \"€25 per person\"."),
			"bookingUrl":   str("Dated, location-specific booking or search URL. Never invented."),
			"type": {
				Type: ai.TypeString,
				Enum: lo.Map(ActivityTypes, func(t ActivityType, _ int) string { return string(t) }),
			},
		},
		Required: []string{"time", "title", "description", "type", "bookingUrl", "location"},
	}

	day := &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"day":        {Type: ai.TypeInteger},
			"date":       str("YYYY-MM-DD"),
			"theme":      str(""),
			"activities": {Type: ai.TypeArray, Items: activity},
		},
		Required: []string{"day", "date", "theme", "activities"},
	}

	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"name":              str(""),
			"departureLocation": str(""),
			"destination":       str(""),
			"startDate":         str("YYYY-MM-DD"),
			"endDate":           str("YYYY-MM-DD"),
			"summary":           str(""),
			"imageUrl":          str("A valid public URL of a high-quality photo representing the MAIN destination."),
			"destinationImages": {
				Type:        ai.TypeArray,
				Description: "One distinct high-quality image URL for each major destination in the itinerary. For vague requests these must show the specific places chosen.",
				Items:       &ai.Schema{Type: ai.TypeString},
			},
			"itinerary": {Type: ai.TypeArray, Items: day},
		},
		Required: []string{"name", "departureLocation", "destination", "startDate", "endDate", "summary", "itinerary", "imageUrl"},
	}
}
