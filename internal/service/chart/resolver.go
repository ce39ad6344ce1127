package chart

import (
	"math"
	"time"

	"stellium/internal/domain/astro"
)

// The special offset region: a bounding box standing in for a single
// country/timezone with its own DST history.
const (
	dstBoxLatMin = 36.0
	dstBoxLatMax = 42.0
	dstBoxLonMin = 26.0
	dstBoxLonMax = 45.0
)

// The region moved to a permanent +3 offset on this date; DST rules only
// apply to earlier dates.
const (
	permanentOffsetYear  = 2016
	permanentOffsetMonth = 9
	permanentOffsetDay   = 7
)

// resolveUTC converts a civil birth moment at a coordinate into a UTC instant
// and the offset applied, in whole hours. When the birth time is unknown the
// civil time defaults to local noon; callers surface that as a
// reduced-confidence flag.
func resolveUTC(m astro.BirthMoment, coord astro.Coordinate) (time.Time, int) {
	hour, minute := m.Hour, m.Minute
	if !m.TimeKnown {
		hour, minute = 12, 0
	}
	offset := utcOffsetHours(coord, m.Year, m.Month, m.Day)
	local := time.Date(m.Year, time.Month(m.Month), m.Day, hour, minute, 0, 0, time.UTC)
	return local.Add(-time.Duration(offset) * time.Hour), offset
}

// utcOffsetHours estimates the UTC offset for a coordinate and civil date.
// Inside the bounding box a DST-aware rule applies; elsewhere the coarse
// longitude-based estimate round(lon/15) is used. The estimate is a pure
// function of its inputs so resolution stays deterministic.
func utcOffsetHours(coord astro.Coordinate, year, month, day int) int {
	inBox := coord.Latitude >= dstBoxLatMin && coord.Latitude <= dstBoxLatMax &&
		coord.Longitude >= dstBoxLonMin && coord.Longitude <= dstBoxLonMax
	if !inBox {
		return int(math.Round(coord.Longitude / 15))
	}

	switch {
	case year > permanentOffsetYear:
		return 3
	case year == permanentOffsetYear &&
		(month > permanentOffsetMonth || (month == permanentOffsetMonth && day >= permanentOffsetDay)):
		return 3
	case month >= 4 && month <= 10:
		return 3
	case month == 3 && day >= 25:
		return 3
	default:
		return 2
	}
}
