// Package ephemeris adapts the meeus astronomical library to the narrow
// longitude-provider contract the chart pipeline needs.
package ephemeris

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/solar"

	"stellium/internal/domain/astro"
)

// planetIndex maps bodies served by the generic VSOP87 path to the library's
// planet constants. Sun and Moon are deliberately absent: the generic path is
// not valid for either and they get bespoke calls.
var planetIndex = map[astro.Body]int{
	astro.Mercury: pp.Mercury,
	astro.Venus:   pp.Venus,
	astro.Mars:    pp.Mars,
	astro.Jupiter: pp.Jupiter,
	astro.Saturn:  pp.Saturn,
	astro.Uranus:  pp.Uranus,
	astro.Neptune: pp.Neptune,
}

// Meeus computes geocentric ecliptic longitudes from the VSOP87 planetary
// theory and the library's solar, lunar and Pluto theories.
type Meeus struct {
	earth *pp.V87Planet

	mu      sync.Mutex
	planets map[astro.Body]*pp.V87Planet
}

// NewMeeus loads the VSOP87 Earth data needed for every geocentric
// conversion. dataDir points at the directory holding the VSOP87 data files;
// when empty, the library's own VSOP87 environment convention applies.
// Planet theories are loaded lazily on first use.
func NewMeeus(dataDir string) (*Meeus, error) {
	if dataDir != "" {
		os.Setenv("VSOP87", dataDir)
	}
	earth, err := pp.LoadPlanet(pp.Earth)
	if err != nil {
		return nil, fmt.Errorf("loading VSOP87 earth data: %w", err)
	}
	return &Meeus{
		earth:   earth,
		planets: make(map[astro.Body]*pp.V87Planet),
	}, nil
}

// Longitude implements astro.Ephemeris. Sun and Moon use their dedicated
// theories; the other bodies go through the heliocentric-to-geocentric
// transform. The call is single-shot and idempotent; retries are the
// caller's concern.
func (m *Meeus) Longitude(ctx context.Context, body astro.Body, utc time.Time) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	jde := julian.TimeToJD(utc.UTC())

	switch body {
	case astro.Sun:
		return normalize(solar.ApparentLongitude(base.J2000Century(jde)).Deg()), nil
	case astro.Moon:
		// Full geocentric position, of which only the longitude is kept.
		lon, _, _ := moonposition.Position(jde)
		return normalize(lon.Deg()), nil
	case astro.Pluto:
		l, b, r := pluto.Heliocentric(jde)
		return m.geocentric(l.Rad(), b.Rad(), r, jde), nil
	default:
		p, err := m.planet(body)
		if err != nil {
			return 0, err
		}
		l, b, r := p.Position(jde)
		return m.geocentric(l.Rad(), b.Rad(), r, jde), nil
	}
}

// planet returns the lazily loaded VSOP87 theory for a generic-path body.
func (m *Meeus) planet(body astro.Body) (*pp.V87Planet, error) {
	idx, ok := planetIndex[body]
	if !ok {
		return nil, fmt.Errorf("unsupported body %q", body)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.planets[body]; ok {
		return p, nil
	}
	p, err := pp.LoadPlanet(idx)
	if err != nil {
		return nil, fmt.Errorf("loading VSOP87 data for %s: %w", body, err)
	}
	m.planets[body] = p
	return p, nil
}

// geocentric converts heliocentric ecliptic coordinates (radians, AU) into a
// geocentric ecliptic longitude in degrees.
func (m *Meeus) geocentric(l, b, r, jde float64) float64 {
	l0, b0, r0 := m.earth.Position(jde)
	x := r*math.Cos(b)*math.Cos(l) - r0*math.Cos(b0.Rad())*math.Cos(l0.Rad())
	y := r*math.Cos(b)*math.Sin(l) - r0*math.Cos(b0.Rad())*math.Sin(l0.Rad())
	return normalize(math.Atan2(y, x) * 180 / math.Pi)
}

func normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
