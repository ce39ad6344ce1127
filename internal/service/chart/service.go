package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/nats-io/nats.go"

	"stellium/internal/domain/astro"
)

// warningNotConverged flags a chart whose intermediate Placidus cusps are
// best-effort because the iteration hit its cap.
const warningNotConverged = "placidus_not_converged"

// ServiceConfig contains configuration for the chart service.
type ServiceConfig struct {
	// EventsTopic is the NATS subject prefix for chart events.
	EventsTopic string

	// FallbackCoordinate, when set, is used for requests that carry
	// neither coordinates nor a resolvable place. Charts computed from it
	// are flagged location_estimated.
	FallbackCoordinate *astro.Coordinate
}

// Service implements astro.Service: the unified natal chart pipeline. The
// same engine serves both supplied-coordinate and geocoded requests; there is
// no separate approximate path.
type Service struct {
	ephemeris astro.Ephemeris
	geocoder  astro.Geocoder
	eventBus  *nats.Conn
	config    ServiceConfig
}

// NewService creates a new chart service. The event bus may be nil, in which
// case no events are published.
func NewService(ephemeris astro.Ephemeris, geocoder astro.Geocoder, eventBus *nats.Conn, config ServiceConfig) *Service {
	return &Service{
		ephemeris: ephemeris,
		geocoder:  geocoder,
		eventBus:  eventBus,
		config:    config,
	}
}

// ComputeChart runs the full pipeline for one birth moment. All computation
// is pure and stateless; identical inputs produce identical charts.
func (s *Service) ComputeChart(ctx context.Context, req astro.ChartRequest) (*astro.NatalChart, error) {
	if req.Moment.Year == 0 || req.Moment.Month == 0 || req.Moment.Day == 0 {
		return nil, fmt.Errorf("%w: date of birth", astro.ErrMissingInput)
	}
	if req.Moment.Month < 1 || req.Moment.Month > 12 || req.Moment.Day < 1 || req.Moment.Day > 31 {
		return nil, fmt.Errorf("%w: date of birth out of range", astro.ErrMissingInput)
	}

	coord, locationEstimated, err := s.resolveCoordinate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: coordinate out of range", astro.ErrMissingInput)
	}

	utc, offset := resolveUTC(req.Moment, *coord)

	angles, err := computeAngles(utc, *coord)
	if err != nil {
		return nil, err
	}

	positions := make([]astro.BodyPosition, 0, len(astro.Planets)+2)
	for _, body := range astro.Planets {
		lon, err := s.ephemeris.Longitude(ctx, body, utc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", astro.ErrEphemerisFailure, body, err)
		}
		positions = append(positions, bodyPosition(body, lon, houseOf(lon, angles.Cusps)))
	}

	chart := assemble(positions, angles, *coord, offset)
	chart.TimeEstimated = !req.Moment.TimeKnown
	chart.LocationEstimated = locationEstimated

	s.publishComputed(chart)

	return chart, nil
}

// resolveCoordinate picks the coordinate source: supplied coordinates win,
// then the geocoded place, then the configured fallback.
func (s *Service) resolveCoordinate(ctx context.Context, req astro.ChartRequest) (*astro.Coordinate, bool, error) {
	if req.Coordinate != nil {
		return req.Coordinate, false, nil
	}
	if req.Moment.Place != "" {
		coord, err := s.geocoder.Geocode(ctx, req.Moment.Place)
		if err != nil {
			return nil, false, err
		}
		return coord, false, nil
	}
	if s.config.FallbackCoordinate != nil {
		return s.config.FallbackCoordinate, true, nil
	}
	return nil, false, fmt.Errorf("%w: birth place or coordinates", astro.ErrMissingInput)
}

// assemble combines body longitudes, angles and cusps into the final chart.
// The ascendant and midheaven also appear in the planets list as synthetic
// entries, without houses.
func assemble(positions []astro.BodyPosition, angles *chartAngles, coord astro.Coordinate, offset int) *astro.NatalChart {
	asc := bodyPosition(astro.Ascendant, angles.Ascendant, 0)
	mc := bodyPosition(astro.Midheaven, angles.Midheaven, 0)
	vx := bodyPosition(astro.Vertex, angles.Vertex, 0)

	houses := make([]astro.HouseCusp, 0, 12)
	for i, lon := range angles.Cusps {
		houses = append(houses, astro.HouseCusp{
			House:     i + 1,
			Longitude: lon,
			Sign:      astro.SignAt(lon),
			Degree:    degreeInSign(lon),
		})
	}

	chart := &astro.NatalChart{
		Planets:     append(positions, asc, mc),
		Ascendant:   asc,
		Midheaven:   mc,
		Vertex:      vx,
		Houses:      houses,
		Coordinates: coord,
		UTCOffset:   offset,
		HouseSystem: "Placidus",
	}
	chart.Aspects = Aspects(chart.Planets)

	for _, p := range positions {
		switch astro.Body(p.Name) {
		case astro.Sun:
			chart.SunSign = p.Sign
		case astro.Moon:
			chart.MoonSign = p.Sign
		}
	}
	chart.RisingSign = asc.Sign

	if !angles.Converged {
		chart.Warnings = append(chart.Warnings, warningNotConverged)
	}
	return chart
}

// bodyPosition pairs a longitude with its sign, degree within sign and house.
func bodyPosition(body astro.Body, longitude float64, house int) astro.BodyPosition {
	lon := normalize(longitude)
	return astro.BodyPosition{
		Name:      string(body),
		Longitude: lon,
		Sign:      astro.SignAt(lon),
		Degree:    degreeInSign(lon),
		House:     house,
	}
}

// degreeInSign returns the degree within the sign, rounded to two decimals.
func degreeInSign(longitude float64) float64 {
	return math.Round(math.Mod(normalize(longitude), 30)*100) / 100
}

// publishComputed emits a chart summary for downstream collaborators
// (presentation, narrative generation). Publish failures are logged, not
// surfaced: the chart itself is already computed.
func (s *Service) publishComputed(chart *astro.NatalChart) {
	if s.eventBus == nil {
		return
	}

	event := map[string]interface{}{
		"sun_sign":       chart.SunSign,
		"moon_sign":      chart.MoonSign,
		"rising_sign":    chart.RisingSign,
		"time_estimated": chart.TimeEstimated,
		"computed_at":    time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal chart event: %v", err)
		return
	}

	topic := fmt.Sprintf("%s.computed", s.config.EventsTopic)
	if err := s.eventBus.Publish(topic, data); err != nil {
		log.Printf("Failed to publish chart event: %v", err)
	}
}
