package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"voyager/internal/types"
)

// ErrNoResults is returned when the geocoder has nothing for a coordinate.
var ErrNoResults = errors.New("maps: no geocoding results")

// Address is the part of a reverse-geocoding result the app uses.
type Address struct {
	City             string
	Country          string
	FormattedAddress string
}

// Geocoder handles reverse geocoding through the Google Geocoding API.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a new Geocoder with the given API Key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// ReverseGeocode resolves a coordinate to a city and country.
func (g *Geocoder) ReverseGeocode(ctx context.Context, p types.Point) (Address, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: "en",
	})
	if err != nil {
		return Address{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return Address{}, ErrNoResults
	}
	return addressFromResults(results), nil
}

// cityTypes lists component types in the order they are preferred as "city".
var cityTypes = []string{"locality", "postal_town", "sublocality", "administrative_area_level_3", "administrative_area_level_2"}

func addressFromResults(results []maps.GeocodingResult) Address {
	addr := Address{FormattedAddress: results[0].FormattedAddress}
	for _, want := range cityTypes {
		if addr.City = findComponent(results, want); addr.City != "" {
			break
		}
	}
	addr.Country = findComponent(results, "country")
	return addr
}

func findComponent(results []maps.GeocodingResult, typ string) string {
	for _, r := range results {
		for _, c := range r.AddressComponents {
			for _, t := range c.Types {
				if t == typ {
					return c.LongName
				}
			}
		}
	}
	return ""
}
