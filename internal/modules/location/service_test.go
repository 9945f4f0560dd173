package location

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/internal/maps"
	"voyager/internal/types"
)

type fakeGeocoder struct {
	addr  maps.Address
	err   error
	calls int
}

func (f *fakeGeocoder) ReverseGeocode(context.Context, types.Point) (maps.Address, error) {
	f.calls++
	return f.addr, f.err
}

type fixedZone string

func (z fixedZone) GetTimezoneName(float64, float64) string { return string(z) }

func TestResolve(t *testing.T) {
	geo := &fakeGeocoder{addr: maps.Address{City: "Boston", Country: "United States"}}
	svc := NewService(geo, fixedZone("America/New_York"), nil)

	place, err := svc.Resolve(context.Background(), types.Point{Lat: 42.3601, Lng: -71.0589})
	require.NoError(t, err)
	assert.Equal(t, "Boston", place.City)
	assert.Equal(t, "Boston, United States", place.FullAddress)
	assert.Equal(t, "America/New_York", place.Timezone)
	assert.Equal(t, 42.3601, place.Point.Lat)
}

func TestResolveCachesNearbyLookups(t *testing.T) {
	geo := &fakeGeocoder{addr: maps.Address{City: "Boston", Country: "United States"}}
	svc := NewService(geo, nil, nil)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, types.Point{Lat: 42.3601, Lng: -71.0589})
	require.NoError(t, err)
	place, err := svc.Resolve(ctx, types.Point{Lat: 42.3612, Lng: -71.0571})
	require.NoError(t, err)

	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, 42.3612, place.Point.Lat)
}

func TestResolveUnknownCity(t *testing.T) {
	svc := NewService(&fakeGeocoder{addr: maps.Address{Country: "Iceland"}}, nil, nil)

	place, err := svc.Resolve(context.Background(), types.Point{Lat: 64.9, Lng: -18.6})
	require.NoError(t, err)
	assert.Equal(t, UnknownLocation, place.City)
	assert.Equal(t, "Unknown Location, Iceland", place.FullAddress)
}

func TestResolveFailures(t *testing.T) {
	svc := NewService(&fakeGeocoder{err: errors.New("quota")}, nil, nil)
	_, err := svc.Resolve(context.Background(), types.Point{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, ErrLocationUnavailable)

	_, err = svc.Resolve(context.Background(), types.Point{Lat: 91, Lng: 0})
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = NewService(nil, nil, nil).Resolve(context.Background(), types.Point{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestFullAddress(t *testing.T) {
	assert.Equal(t, "Paris, France", FullAddress("Paris", "France"))
	assert.Equal(t, "Paris", FullAddress("Paris", ""))
	assert.Equal(t, "France", FullAddress("", "France"))
}
