package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"stellium/internal/domain/astro"
	"stellium/internal/service/chart"
)

// ChartHandler handles natal chart computation requests
type ChartHandler struct {
	service astro.Service
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service astro.Service) *ChartHandler {
	return &ChartHandler{
		service: service,
	}
}

// chartRequest is the JSON body for chart computation. Either a birth place
// or explicit coordinates must be supplied; coordinates win when both are.
type chartRequest struct {
	DateOfBirth string   `json:"date_of_birth"`
	BirthTime   string   `json:"birth_time,omitempty"`
	BirthPlace  string   `json:"birth_place,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// toDomain parses the request into a domain chart request.
func (r chartRequest) toDomain() (astro.ChartRequest, error) {
	moment, err := parseBirthMoment(r.DateOfBirth, r.BirthTime, r.BirthPlace)
	if err != nil {
		return astro.ChartRequest{}, err
	}

	req := astro.ChartRequest{Moment: moment}
	if r.Latitude != nil && r.Longitude != nil {
		req.Coordinate = &astro.Coordinate{
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		}
	}
	return req, nil
}

// parseBirthMoment parses civil date and optional time strings into a birth
// moment. An absent time leaves TimeKnown false; computation then defaults
// to local noon and the chart carries a reduced-confidence flag.
func parseBirthMoment(dateOfBirth, birthTime, place string) (astro.BirthMoment, error) {
	if dateOfBirth == "" {
		return astro.BirthMoment{}, astro.ErrMissingInput
	}
	date, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return astro.BirthMoment{}, astro.ErrMissingInput
	}

	moment := astro.BirthMoment{
		Year:  date.Year(),
		Month: int(date.Month()),
		Day:   date.Day(),
		Place: place,
	}

	if birthTime != "" {
		clock, err := time.Parse("15:04", birthTime)
		if err != nil {
			return astro.BirthMoment{}, astro.ErrMissingInput
		}
		moment.Hour = clock.Hour()
		moment.Minute = clock.Minute()
		moment.TimeKnown = true
	}

	return moment, nil
}

// ComputeChart computes a natal chart from the request body
func (h *ChartHandler) ComputeChart(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid birth data", err)
		return
	}

	natal, err := h.service.ComputeChart(r.Context(), domainReq)
	if err != nil {
		respondWithChartError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, natal)
}

// aspectsRequest carries body positions for standalone aspect detection.
type aspectsRequest struct {
	Planets []astro.BodyPosition `json:"planets"`
}

// DetectAspects runs aspect detection over supplied body positions
func (h *ChartHandler) DetectAspects(w http.ResponseWriter, r *http.Request) {
	var req aspectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Planets) == 0 {
		respondWithError(w, http.StatusBadRequest, "Missing planet positions", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"aspects": chart.Aspects(req.Planets),
	})
}

// respondWithChartError maps pipeline error kinds onto HTTP statuses.
func respondWithChartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, astro.ErrMissingInput):
		respondWithError(w, http.StatusBadRequest, "Missing or invalid birth data", err)
	case errors.Is(err, astro.ErrLocationNotFound):
		respondWithError(w, http.StatusNotFound, "Birth place could not be resolved", err)
	case errors.Is(err, astro.ErrDegenerateLatitude):
		respondWithError(w, http.StatusUnprocessableEntity, "Latitude too close to the pole for house computation", err)
	case errors.Is(err, astro.ErrEphemerisFailure):
		respondWithError(w, http.StatusBadGateway, "Ephemeris provider failure", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Failed to compute chart", err)
	}
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
