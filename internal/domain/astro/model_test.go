package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAt(t *testing.T) {
	tests := []struct {
		longitude float64
		want      string
	}{
		{0, "Aries"},
		{29.99, "Aries"},
		{30, "Taurus"},
		{120, "Leo"},
		{359.99, "Pisces"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignAt(tt.longitude), "longitude %v", tt.longitude)
	}
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, Coordinate{Latitude: 0, Longitude: 0}.Valid())
	assert.True(t, Coordinate{Latitude: 90, Longitude: -180}.Valid())
	assert.True(t, Coordinate{Latitude: -90, Longitude: 179.99}.Valid())

	// Longitude 180 is excluded per the sidereal time conversion.
	assert.False(t, Coordinate{Latitude: 0, Longitude: 180}.Valid())
	assert.False(t, Coordinate{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, Coordinate{Latitude: 0, Longitude: -180.1}.Valid())
}

func TestBodyIsAngle(t *testing.T) {
	assert.True(t, Ascendant.IsAngle())
	assert.True(t, Midheaven.IsAngle())
	assert.True(t, Vertex.IsAngle())
	for _, body := range Planets {
		assert.False(t, body.IsAngle(), string(body))
	}
}

func TestPlanetsOrderIsStable(t *testing.T) {
	want := [...]Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
	assert.Equal(t, want, Planets)
}
