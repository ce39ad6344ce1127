package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stellium/internal/domain/astro"
)

// GeocoderConfig contains configuration for the geocoder client.
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Geocoder resolves place names against a Nominatim-compatible HTTP API.
// Resolution is best-effort and first-result-wins; there is no
// disambiguation.
type Geocoder struct {
	client *http.Client
	config GeocoderConfig
}

// NewGeocoder creates a new geocoder client.
func NewGeocoder(config GeocoderConfig) *Geocoder {
	return &Geocoder{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

// searchResult is one candidate from the provider. Coordinates arrive as
// strings in the Nominatim JSON format.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode implements astro.Geocoder.
func (g *Geocoder) Geocode(ctx context.Context, place string) (*astro.Coordinate, error) {
	if strings.TrimSpace(place) == "" {
		return nil, fmt.Errorf("%w: birth place", astro.ErrMissingInput)
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		strings.TrimRight(g.config.BaseURL, "/"), url.QueryEscape(place))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", g.config.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, astro.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing geocoder latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing geocoder longitude: %w", err)
	}

	return &astro.Coordinate{Latitude: lat, Longitude: lon}, nil
}
