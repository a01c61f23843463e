// Package geocode converts between addresses and points through a
// Nominatim-compatible service.
package geocode

import (
	"context"
	"errors"
)

// ErrNoResult is returned when the service knows no match.
var ErrNoResult = errors.New("geocode: no result")

type Place struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type Client interface {
	// Search resolves free text to candidate places, best first.
	Search(ctx context.Context, query string) ([]Place, error)
	// Reverse resolves a point to its postal address.
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}
