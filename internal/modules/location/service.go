// README: Location service resolves coordinates to a city with caching and timezone lookup.
package location

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"voyager/internal/maps"
	"voyager/internal/types"
)

type Geocoder interface {
	ReverseGeocode(ctx context.Context, p types.Point) (maps.Address, error)
}

// ZoneFinder maps a coordinate to an IANA zone name ("" when unknown).
type ZoneFinder interface {
	GetTimezoneName(lng, lat float64) string
}

const cacheTTL = 24 * time.Hour

type Service struct {
	geocoder Geocoder
	zones    ZoneFinder
	cache    *cache.Cache
	log      *slog.Logger
}

// NewService builds the resolver. zones may be nil.
func NewService(geocoder Geocoder, zones ZoneFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		geocoder: geocoder,
		zones:    zones,
		cache:    cache.New(cacheTTL, time.Hour),
		log:      logger.With("module", "location"),
	}
}

// Resolve reverse-geocodes p. Results are cached on a grid of roughly one
// kilometre so repeated lookups from the same area skip the geocoder.
func (s *Service) Resolve(ctx context.Context, p types.Point) (Place, error) {
	if !validPoint(p) {
		return Place{}, ErrInvalidPoint
	}
	key := cacheKey(p)
	if v, ok := s.cache.Get(key); ok {
		place := v.(Place)
		place.Point = p
		return place, nil
	}
	if s.geocoder == nil {
		return Place{}, ErrLocationUnavailable
	}

	addr, err := s.geocoder.ReverseGeocode(ctx, p)
	if err != nil {
		s.log.WarnContext(ctx, "reverse geocoding failed", "lat", p.Lat, "lng", p.Lng, "err", err)
		return Place{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	place := Place{
		Point:   p,
		City:    strings.TrimSpace(addr.City),
		Country: strings.TrimSpace(addr.Country),
	}
	if place.City == "" {
		place.City = UnknownLocation
	}
	place.FullAddress = FullAddress(place.City, place.Country)
	if s.zones != nil {
		place.Timezone = s.zones.GetTimezoneName(p.Lng, p.Lat)
	}
	s.cache.SetDefault(key, place)
	return place, nil
}

// FullAddress joins city and country as "city, country" without dangling commas.
func FullAddress(city, country string) string {
	s := city + ", " + country
	s = strings.TrimPrefix(s, ", ")
	return strings.TrimSuffix(s, ", ")
}

func validPoint(p types.Point) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func cacheKey(p types.Point) string {
	return fmt.Sprintf("%.2f,%.2f", p.Lat, p.Lng)
}
