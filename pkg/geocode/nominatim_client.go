package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type nominatim struct {
	endpoint  string
	userAgent string
	httpc     *http.Client
}

// NewNominatim talks to endpoint, e.g. https://nominatim.openstreetmap.org.
// The public instance requires an identifying User-Agent.
func NewNominatim(endpoint, userAgent string) Client {
	return &nominatim{
		endpoint:  strings.TrimRight(endpoint, "/"),
		userAgent: userAgent,
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *nominatim) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("format", "jsonv2")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "tr")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode: %s answered %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoResult
	}
	var out []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := c.get(ctx, "/search", url.Values{"q": {query}, "limit": {"5"}}, &out); err != nil {
		return nil, err
	}
	places := make([]Place, 0, len(out))
	for _, o := range out {
		lat, errLat := strconv.ParseFloat(o.Lat, 64)
		lng, errLng := strconv.ParseFloat(o.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		places = append(places, Place{DisplayName: o.DisplayName, Lat: lat, Lng: lng})
	}
	if len(places) == 0 {
		return nil, ErrNoResult
	}
	return places, nil
}

func (c *nominatim) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	var out struct {
		DisplayName string `json:"display_name"`
		Error       string `json:"error"`
	}
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon": {strconv.FormatFloat(lng, 'f', 6, 64)},
	}
	if err := c.get(ctx, "/reverse", q, &out); err != nil {
		return "", err
	}
	if out.Error != "" || out.DisplayName == "" {
		return "", ErrNoResult
	}
	return out.DisplayName, nil
}
