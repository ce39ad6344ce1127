package astro

import (
	"math"
	"time"
)

// Body identifies a tracked celestial body.
type Body string

// The tracked body set is closed: the ten classical and modern bodies plus
// the synthetic angles derived from the horoscope itself.
const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"
	Uranus  Body = "Uranus"
	Neptune Body = "Neptune"
	Pluto   Body = "Pluto"

	Ascendant Body = "Ascendant"
	Midheaven Body = "Midheaven"
	Vertex    Body = "Vertex"
)

// Planets lists the non-angle bodies in chart order. The order is part of the
// observable contract: aspect pairs are enumerated in this order.
var Planets = [...]Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto,
}

// IsAngle reports whether b is one of the synthetic angle bodies, which define
// house boundaries and are excluded from aspect pairing.
func (b Body) IsAngle() bool {
	return b == Ascendant || b == Midheaven || b == Vertex
}

// Signs lists the twelve zodiac signs in order from Aries, which begins at
// ecliptic longitude 0.
var Signs = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// SignAt returns the zodiac sign containing the given ecliptic longitude.
func SignAt(longitude float64) string {
	idx := int(math.Floor(longitude/30)) % 12
	if idx < 0 {
		idx += 12
	}
	return Signs[idx]
}

// AspectType names an angular relationship between two bodies.
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
)

// AspectDefinition pairs a canonical aspect angle with its orb tolerance.
type AspectDefinition struct {
	Type  AspectType
	Angle float64
	Orb   float64
}

// AspectTable is the ordered aspect definition table. Detection tests the
// definitions in this exact order and the first match wins, so the ordering
// governs which label a boundary separation receives.
var AspectTable = [...]AspectDefinition{
	{Conjunction, 0, 8},
	{Sextile, 60, 6},
	{Square, 90, 7},
	{Trine, 120, 8},
	{Opposition, 180, 8},
}

// BirthMoment is a civil birth date and time at a named place. When the birth
// time is unknown, TimeKnown is false and computation defaults to local noon.
type BirthMoment struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int

	TimeKnown bool
	Place     string
}

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within the calculable range.
// Longitude 180 is excluded per the sidereal time conversion.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude < 180
}

// BodyPosition is a body's ecliptic longitude with its derived sign, degree
// within sign, and house assignment. Angle bodies carry no house since they
// define the house boundaries themselves.
type BodyPosition struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
	Degree    float64 `json:"degree"`
	House     int     `json:"house,omitempty"`
}

// HouseCusp is one of the twelve house boundaries.
type HouseCusp struct {
	House     int     `json:"house"`
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
	Degree    float64 `json:"degree"`
}

// Aspect is an angular relationship between two bodies: the matched aspect
// type, the orb (deviation from the exact angle), and the raw folded
// separation.
type Aspect struct {
	BodyA      string     `json:"body_a"`
	BodyB      string     `json:"body_b"`
	Type       AspectType `json:"type"`
	Orb        float64    `json:"orb"`
	Separation float64    `json:"separation"`
}

// NatalChart is the full computed chart. It is built fresh on every request
// and never mutated after construction; any input change means
// recompute-and-replace.
type NatalChart struct {
	SunSign    string `json:"sun_sign"`
	MoonSign   string `json:"moon_sign"`
	RisingSign string `json:"rising_sign"`

	Planets   []BodyPosition `json:"planets"`
	Ascendant BodyPosition   `json:"ascendant"`
	Midheaven BodyPosition   `json:"midheaven"`
	Vertex    BodyPosition   `json:"vertex"`
	Houses    []HouseCusp    `json:"houses"`
	Aspects   []Aspect       `json:"aspects"`

	Coordinates Coordinate `json:"coordinates"`
	UTCOffset   int        `json:"utc_offset"`
	HouseSystem string     `json:"house_system"`

	// Confidence flags. A chart computed from an unknown birth time has
	// materially wrong angles, cusps and Moon position; that is surfaced
	// here rather than hidden.
	TimeEstimated     bool     `json:"time_estimated"`
	LocationEstimated bool     `json:"location_estimated,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Profile is a stored birth profile with the derived summary fields that the
// caller persists. The computation core itself never writes storage.
type Profile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DateOfBirth string  `json:"date_of_birth"`
	BirthTime   string  `json:"birth_time,omitempty"`
	BirthPlace  string  `json:"birth_place"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	SunSign       string `json:"sun_sign"`
	MoonSign      string `json:"moon_sign"`
	RisingSign    string `json:"rising_sign"`
	TimeEstimated bool   `json:"time_estimated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
