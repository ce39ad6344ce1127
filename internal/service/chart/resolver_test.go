package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stellium/internal/domain/astro"
)

func TestUTCOffsetInsideDSTBox(t *testing.T) {
	box := astro.Coordinate{Latitude: 39, Longitude: 35}

	tests := []struct {
		name             string
		year, month, day int
		want             int
	}{
		{"summer before cutover", 1990, 7, 1, 3},
		{"winter before cutover", 1990, 1, 15, 2},
		{"march before DST start", 1995, 3, 24, 2},
		{"march after DST start", 1995, 3, 25, 3},
		{"october still DST", 2000, 10, 31, 3},
		{"november standard time", 2000, 11, 1, 2},
		{"cutover day", 2016, 9, 7, 3},
		{"winter after cutover", 2017, 1, 1, 3},
		{"far after cutover", 2023, 12, 25, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utcOffsetHours(box, tt.year, tt.month, tt.day))
		})
	}
}

func TestUTCOffsetLongitudeFallback(t *testing.T) {
	// Same longitude as the box but south of it: the coarse estimate wins.
	assert.Equal(t, 2, utcOffsetHours(astro.Coordinate{Latitude: 10, Longitude: 35}, 1990, 7, 1))

	assert.Equal(t, 0, utcOffsetHours(astro.Coordinate{Latitude: 51.5, Longitude: -0.1}, 1990, 7, 1))
	assert.Equal(t, -8, utcOffsetHours(astro.Coordinate{Latitude: 47.6, Longitude: -122.3}, 1990, 7, 1))
	assert.Equal(t, 9, utcOffsetHours(astro.Coordinate{Latitude: 35.7, Longitude: 139.7}, 1990, 7, 1))
}

func TestUTCOffsetDSTBoxBeatsLongitudeEstimate(t *testing.T) {
	// The longitude estimate for lon 35 would give 2; the box rule gives 3.
	coord := astro.Coordinate{Latitude: 39, Longitude: 35}
	assert.Equal(t, 3, utcOffsetHours(coord, 1990, 7, 1))
}

func TestResolveUTCKnownTime(t *testing.T) {
	moment := astro.BirthMoment{
		Year: 1992, Month: 1, Day: 10,
		Hour: 14, Minute: 30, TimeKnown: true,
	}
	utc, offset := resolveUTC(moment, astro.Coordinate{Latitude: 51.5, Longitude: -0.1})

	assert.Equal(t, 0, offset)
	assert.Equal(t, time.Date(1992, 1, 10, 14, 30, 0, 0, time.UTC), utc)
}

func TestResolveUTCDefaultsToNoon(t *testing.T) {
	moment := astro.BirthMoment{Year: 1990, Month: 7, Day: 1}
	utc, offset := resolveUTC(moment, astro.Coordinate{Latitude: 39, Longitude: 35})

	assert.Equal(t, 3, offset)
	assert.Equal(t, time.Date(1990, 7, 1, 9, 0, 0, 0, time.UTC), utc)
}

func TestResolveUTCCrossesMidnight(t *testing.T) {
	moment := astro.BirthMoment{
		Year: 1990, Month: 7, Day: 1,
		Hour: 0, Minute: 30, TimeKnown: true,
	}
	utc, offset := resolveUTC(moment, astro.Coordinate{Latitude: 39, Longitude: 35})

	assert.Equal(t, 3, offset)
	assert.Equal(t, time.Date(1990, 6, 30, 21, 30, 0, 0, time.UTC), utc)
}

func TestResolveUTCDeterministic(t *testing.T) {
	moment := astro.BirthMoment{Year: 1985, Month: 3, Day: 26, Hour: 6, Minute: 45, TimeKnown: true}
	coord := astro.Coordinate{Latitude: 41, Longitude: 29}

	a, offA := resolveUTC(moment, coord)
	b, offB := resolveUTC(moment, coord)
	assert.Equal(t, a, b)
	assert.Equal(t, offA, offB)
}
