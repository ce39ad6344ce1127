package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellium/internal/domain/astro"
)

func newTestGeocoder(baseURL string) *Geocoder {
	return NewGeocoder(GeocoderConfig{
		BaseURL:   baseURL,
		UserAgent: "stellium-test",
		Timeout:   2 * time.Second,
	})
}

func TestGeocodeFirstResultWins(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"lat":"41.0082","lon":"28.9784","display_name":"Istanbul"},
			{"lat":"40.0000","lon":"29.0000","display_name":"Somewhere else"}
		]`))
	}))
	defer server.Close()

	coord, err := newTestGeocoder(server.URL).Geocode(context.Background(), "Istanbul")
	require.NoError(t, err)

	assert.Equal(t, "Istanbul", gotQuery)
	assert.Equal(t, "stellium-test", gotAgent)
	assert.Equal(t, 41.0082, coord.Latitude)
	assert.Equal(t, 28.9784, coord.Longitude)
}

func TestGeocodeNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newTestGeocoder(server.URL).Geocode(context.Background(), "Nowheresville")
	assert.True(t, errors.Is(err, astro.ErrLocationNotFound))
}

func TestGeocodeEmptyPlace(t *testing.T) {
	_, err := newTestGeocoder("http://localhost").Geocode(context.Background(), "   ")
	assert.True(t, errors.Is(err, astro.ErrMissingInput))
}

func TestGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestGeocoder(server.URL).Geocode(context.Background(), "Istanbul")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, astro.ErrLocationNotFound))
}

func TestGeocodeMalformedCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"not-a-number","lon":"28.9784"}]`))
	}))
	defer server.Close()

	_, err := newTestGeocoder(server.URL).Geocode(context.Background(), "Istanbul")
	assert.Error(t, err)
}
