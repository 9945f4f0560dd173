package maps

import (
	"testing"

	"googlemaps.github.io/maps"
)

func TestDirectionsURL(t *testing.T) {
	if got := DirectionsURL("Eiffel Tower, Paris"); got != "https://www.google.com/maps/dir/?api=1&destination=Eiffel+Tower%2C+Paris" {
		t.Errorf("unexpected url %q", got)
	}
	if got := DirectionsURL(" NY "); got != "" {
		t.Errorf("expected no link for short location, got %q", got)
	}
}

func TestAddressFromResults(t *testing.T) {
	results := []maps.GeocodingResult{
		{
			FormattedAddress: "10 Downing St, London SW1A 2AA, UK",
			AddressComponents: []maps.AddressComponent{
				{LongName: "London", Types: []string{"postal_town"}},
				{LongName: "United Kingdom", Types: []string{"country", "political"}},
			},
		},
	}
	addr := addressFromResults(results)
	if addr.City != "London" || addr.Country != "United Kingdom" {
		t.Fatalf("unexpected address %+v", addr)
	}

	results[0].AddressComponents = append(results[0].AddressComponents,
		maps.AddressComponent{LongName: "Westminster", Types: []string{"locality"}})
	if got := addressFromResults(results).City; got != "Westminster" {
		t.Errorf("locality should win over postal_town, got %q", got)
	}
}
