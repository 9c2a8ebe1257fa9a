// Package mock provides a geocode.Geocoder test double.
package mock

import (
	"context"
	"sync"

	"github.com/xhyrom/jim/pkg/provider/geocode"
)

// Geocoder is a mock geocode.Geocoder returning configured locations.
// Safe for concurrent use.
type Geocoder struct {
	mu sync.Mutex

	// GeocodeResult is returned by Geocode; nil means "not found".
	GeocodeResult *geocode.Location

	// LocateResult is returned by Locate; nil means "no estimate".
	LocateResult *geocode.Location

	// Err, if non-nil, is returned by both methods.
	Err error

	// GeocodedPlaces records every place name passed to Geocode.
	GeocodedPlaces []string
}

// Geocode implements geocode.Geocoder.
func (g *Geocoder) Geocode(ctx context.Context, place string) (*geocode.Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.GeocodedPlaces = append(g.GeocodedPlaces, place)
	if g.Err != nil {
		return nil, g.Err
	}
	if g.GeocodeResult == nil {
		return nil, nil
	}
	loc := *g.GeocodeResult
	return &loc, nil
}

// Locate implements geocode.Geocoder.
func (g *Geocoder) Locate(ctx context.Context) (*geocode.Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	if g.LocateResult == nil {
		return nil, nil
	}
	loc := *g.LocateResult
	return &loc, nil
}

var _ geocode.Geocoder = (*Geocoder)(nil)
