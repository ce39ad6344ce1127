package chart

import (
	"math"
	"time"

	"stellium/internal/domain/astro"
)

const (
	// placidusTolerance is the convergence threshold for intermediate cusp
	// iteration, in degrees of ecliptic longitude.
	placidusTolerance = 0.001

	// placidusMaxIterations caps the fixed-point iteration. Exceeding the
	// cap yields a best-effort cusp and a chart warning, never a failure:
	// Placidus legitimately fails to converge at high latitudes.
	placidusMaxIterations = 50

	// degenerateLatitude is the cutoff beyond which tan(lat) makes the
	// ascendant and cusp formulas numerically meaningless.
	degenerateLatitude = 89.9
)

// chartAngles holds everything the engine derives from an instant and a
// coordinate: the horoscope angles and the twelve Placidus house cusps.
type chartAngles struct {
	Ascendant float64
	Midheaven float64
	Vertex    float64
	Cusps     [12]float64
	Converged bool

	SiderealTime float64
	Obliquity    float64
}

// computeAngles derives the local sidereal time, obliquity, angles and house
// cusps for a UTC instant at a coordinate.
func computeAngles(utc time.Time, coord astro.Coordinate) (*chartAngles, error) {
	if math.Abs(coord.Latitude) >= degenerateLatitude {
		return nil, astro.ErrDegenerateLatitude
	}

	jd := julianDate(utc)
	obl := obliquity(jd)
	lst := localSiderealTime(utc, coord.Longitude)

	mc := midheaven(lst, obl)
	asc := ascendant(lst, coord.Latitude, obl)
	vx := vertex(lst, coord.Latitude, obl)

	cusps, converged := placidusHouses(lst, coord.Latitude, obl, asc, mc)

	return &chartAngles{
		Ascendant:    asc,
		Midheaven:    mc,
		Vertex:       vx,
		Cusps:        cusps,
		Converged:    converged,
		SiderealTime: lst,
		Obliquity:    obl,
	}, nil
}

// julianDate converts a UTC instant to a Julian Date on the Gregorian
// calendar, with the fractional day taken from the time of day. January and
// February are shifted into the preceding year for the century correction.
func julianDate(t time.Time) float64 {
	y := t.Year()
	m := int(t.Month())
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Floor(float64(y) / 100)
	b := 2 - a + math.Floor(a/4)
	day := float64(t.Day()) +
		(float64(t.Hour())+float64(t.Minute())/60+float64(t.Second())/3600)/24

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		day + b - 1524.5
}

// obliquity returns the mean obliquity of the ecliptic in degrees, from a
// third-order polynomial in Julian centuries since J2000.0.
func obliquity(jd float64) float64 {
	t := (jd - 2451545.0) / 36525.0
	return 23.439291 - 0.0130042*t - 1.64e-7*t*t + 5.036e-7*t*t*t
}

// localSiderealTime returns the local sidereal time in degrees for an east
// longitude, normalized to [0,360).
func localSiderealTime(t time.Time, longitude float64) float64 {
	jd := julianDate(t)
	tc := (jd - 2451545.0) / 36525.0
	gmst := 280.46061837 + 360.98564736629*(jd-2451545.0) +
		0.000387933*tc*tc - tc*tc*tc/38710000.0
	return normalize(gmst + longitude)
}

// midheaven returns the ecliptic longitude of the local meridian.
func midheaven(lst, obl float64) float64 {
	lstR := radians(lst)
	oblR := radians(obl)
	return normalize(degrees(math.Atan2(math.Sin(lstR), math.Cos(lstR)*math.Cos(oblR))))
}

// ascendant returns the ecliptic longitude rising on the eastern horizon.
// The formula is undefined as |lat| approaches 90; callers guard with
// degenerateLatitude before reaching this.
func ascendant(lst, lat, obl float64) float64 {
	lstR := radians(lst)
	latR := radians(lat)
	oblR := radians(obl)
	y := math.Cos(lstR)
	x := -(math.Sin(oblR)*math.Tan(latR) + math.Cos(oblR)*math.Sin(lstR))
	return normalize(degrees(math.Atan2(y, x)))
}

// vertex returns the ecliptic longitude of the vertex: the ascendant formula
// evaluated at the antimeridian with the co-latitude.
func vertex(lst, lat, obl float64) float64 {
	return ascendant(normalize(lst+180), 90-lat, obl)
}

// placidusHouses computes the twelve house cusps. Only six cusps are solved:
// 1 and 10 are the ascendant and midheaven, 11, 12, 2 and 3 are found by
// iteration, and 4 through 9 mirror their opposites exactly. The second
// return value is false when any iteration hit the cap.
func placidusHouses(lst, lat, obl, asc, mc float64) ([12]float64, bool) {
	var cusps [12]float64
	cusps[0] = asc
	cusps[9] = mc

	// Initial guesses interpolate linearly along the known quadrants:
	// MC to ASC for houses 11 and 12, ASC to IC for houses 2 and 3.
	ic := normalize(mc + 180)
	arcDay := normalize(asc - mc)
	arcNight := normalize(ic - asc)

	converged := true
	var ok bool
	cusps[10], ok = placidusCusp(1.0/3.0, true, lst, lat, obl, normalize(mc+arcDay/3))
	converged = converged && ok
	cusps[11], ok = placidusCusp(2.0/3.0, true, lst, lat, obl, normalize(mc+2*arcDay/3))
	converged = converged && ok
	cusps[1], ok = placidusCusp(1.0/3.0, false, lst, lat, obl, normalize(asc+arcNight/3))
	converged = converged && ok
	cusps[2], ok = placidusCusp(2.0/3.0, false, lst, lat, obl, normalize(asc+2*arcNight/3))
	converged = converged && ok

	cusps[3] = normalize(cusps[9] + 180)
	cusps[4] = normalize(cusps[10] + 180)
	cusps[5] = normalize(cusps[11] + 180)
	cusps[6] = normalize(cusps[0] + 180)
	cusps[7] = normalize(cusps[1] + 180)
	cusps[8] = normalize(cusps[2] + 180)

	return cusps, converged
}

// placidusCusp solves one intermediate cusp by fixed-point iteration. Each
// pass derives the declination of the candidate longitude, the diurnal or
// nocturnal semi-arc from it, a target right ascension a fraction of the way
// along that arc from the sidereal time, and converts the target back to an
// ecliptic longitude. Returns the cusp and whether the iteration converged.
func placidusCusp(fraction float64, aboveHorizon bool, lst, lat, obl, guess float64) (float64, bool) {
	latR := radians(lat)
	oblR := radians(obl)
	lon := guess

	for i := 0; i < placidusMaxIterations; i++ {
		dec := math.Asin(math.Sin(oblR) * math.Sin(radians(lon)))
		semiDay := degrees(math.Acos(clamp(-math.Tan(dec)*math.Tan(latR), -1, 1)))

		var ra float64
		if aboveHorizon {
			ra = lst + fraction*semiDay
		} else {
			ra = lst + 180 - (1-fraction)*(180-semiDay)
		}

		raR := radians(ra)
		next := normalize(degrees(math.Atan2(math.Sin(raR), math.Cos(raR)*math.Cos(oblR))))
		if math.Abs(wrapDelta(next-lon)) < placidusTolerance {
			return next, true
		}
		lon = next
	}
	return lon, false
}

// houseOf returns the 1-based house whose forward arc from cusp i to cusp i+1
// contains the longitude, handling arcs that cross 0. The twelve cusps tile
// the circle, so the house-1 fallback should be unreachable.
func houseOf(longitude float64, cusps [12]float64) int {
	lon := normalize(longitude)
	for i := 0; i < 12; i++ {
		lo := cusps[i]
		hi := cusps[(i+1)%12]
		if lo <= hi {
			if lon >= lo && lon < hi {
				return i + 1
			}
		} else if lon >= lo || lon < hi {
			return i + 1
		}
	}
	return 1
}

// normalize wraps an angle in degrees into [0,360).
func normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// wrapDelta folds an angle difference into [-180,180].
func wrapDelta(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
