package astro

import (
	"context"
	"errors"
	"time"
)

// Domain errors. Collaborator failures are translated into these at the
// pipeline boundary; no raw provider errors propagate to handlers.
var (
	// ErrMissingInput indicates the birth date or location input is absent
	// or out of range. Computation fails fast with no partial result.
	ErrMissingInput = errors.New("missing required birth input")

	// ErrLocationNotFound indicates geocoding returned no candidates.
	ErrLocationNotFound = errors.New("location not found")

	// ErrEphemerisFailure indicates the underlying position provider
	// failed or returned invalid data.
	ErrEphemerisFailure = errors.New("ephemeris provider failure")

	// ErrDegenerateLatitude indicates a latitude too close to a pole for
	// the horizon-ecliptic intersection to be numerically meaningful.
	ErrDegenerateLatitude = errors.New("latitude too close to the pole")

	// ErrProfileNotFound indicates no stored profile matches the given ID.
	ErrProfileNotFound = errors.New("profile not found")
)

// Ephemeris provides geocentric ecliptic longitudes for tracked bodies.
type Ephemeris interface {
	// Longitude returns the ecliptic longitude of body at the given UTC
	// instant, in degrees normalized to [0,360).
	Longitude(ctx context.Context, body Body, utc time.Time) (float64, error)
}

// Geocoder resolves a place name to coordinates. Resolution is best-effort
// and first-result-wins; an empty result set is ErrLocationNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Coordinate, error)
}

// ChartRequest is the input to a chart computation. When Coordinate is set it
// takes precedence and no geocoding occurs; otherwise the moment's place is
// geocoded, and a configured fallback coordinate may stand in as a last
// resort.
type ChartRequest struct {
	Moment     BirthMoment
	Coordinate *Coordinate
}

// Service is the natal chart computation port.
type Service interface {
	// ComputeChart runs the full pipeline: resolve the UTC instant and
	// coordinates, fetch body longitudes, derive angles and Placidus
	// houses, and assemble the chart with its aspects. The computation is
	// pure: identical inputs yield identical charts.
	ComputeChart(ctx context.Context, req ChartRequest) (*NatalChart, error)
}
