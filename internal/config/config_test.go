package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "stellium", cfg.Database.Database)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoder.BaseURL)
	assert.Equal(t, "charts", cfg.Chart.EventsTopic)
	assert.False(t, cfg.Chart.UseFallbackLocation)
	assert.Equal(t, 10*time.Second, cfg.Geocoder.Timeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CHART_USE_FALLBACK_LOCATION", "true")
	t.Setenv("CHART_FALLBACK_LATITUDE", "41.01")
	t.Setenv("EPHEMERIS_DATA_DIR", "/data/vsop87")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.True(t, cfg.Chart.UseFallbackLocation)
	assert.Equal(t, 41.01, cfg.Chart.FallbackLatitude)
	assert.Equal(t, "/data/vsop87", cfg.Ephemeris.DataDir)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "-1")

	_, err := Load()
	assert.Error(t, err)
}
