package geocode

import (
	"context"
	"fmt"
	"strings"
)

type mockClient struct{}

// NewMock answers without any network access, for development without a
// geocoding endpoint.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Search(_ context.Context, query string) ([]Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrNoResult
	}
	// Ankara, Kızılay
	return []Place{{DisplayName: strings.TrimSpace(query), Lat: 39.920770, Lng: 32.854110}}, nil
}

func (m *mockClient) Reverse(_ context.Context, lat, lng float64) (string, error) {
	return fmt.Sprintf("%.5f, %.5f", lat, lng), nil
}
