package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"stellium/internal/domain/astro"
)

// ProfileStore defines the storage the profile handler depends on.
type ProfileStore interface {
	SaveProfile(ctx context.Context, p astro.Profile) error
	GetProfile(ctx context.Context, id string) (*astro.Profile, error)
	ListProfiles(ctx context.Context, limit int) ([]astro.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// ProfileHandler handles birth profile requests
type ProfileHandler struct {
	service astro.Service
	store   ProfileStore
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service astro.Service, store ProfileStore) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		store:   store,
	}
}

// profileRequest is the JSON body for profile creation.
type profileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	BirthTime   string `json:"birth_time,omitempty"`
	BirthPlace  string `json:"birth_place"`
}

// profileResponse pairs the stored profile with its freshly computed chart.
type profileResponse struct {
	Profile *astro.Profile    `json:"profile"`
	Chart   *astro.NatalChart `json:"chart"`
}

// CreateProfile computes a chart for the submitted birth data and persists
// the profile with its derived sun, moon and rising signs.
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BirthPlace == "" {
		respondWithError(w, http.StatusBadRequest, "Missing birth place", nil)
		return
	}

	moment, err := parseBirthMoment(req.DateOfBirth, req.BirthTime, req.BirthPlace)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid birth data", err)
		return
	}

	natal, err := h.service.ComputeChart(r.Context(), astro.ChartRequest{Moment: moment})
	if err != nil {
		respondWithChartError(w, err)
		return
	}

	profile := astro.Profile{
		ID:            uuid.New().String(),
		Name:          req.Name,
		DateOfBirth:   req.DateOfBirth,
		BirthTime:     req.BirthTime,
		BirthPlace:    req.BirthPlace,
		Latitude:      natal.Coordinates.Latitude,
		Longitude:     natal.Coordinates.Longitude,
		SunSign:       natal.SunSign,
		MoonSign:      natal.MoonSign,
		RisingSign:    natal.RisingSign,
		TimeEstimated: natal.TimeEstimated,
	}

	if err := h.store.SaveProfile(r.Context(), profile); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, profileResponse{
		Profile: &profile,
		Chart:   natal,
	})
}

// GetProfile returns a stored profile by ID
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing profile ID", nil)
		return
	}

	profile, err := h.store.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, astro.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get profile", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// ListProfiles returns stored profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	profiles, err := h.store.ListProfiles(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list profiles", err)
		return
	}

	respondWithJSON(w, http.StatusOK, profiles)
}

// GetProfileChart recomputes the chart for a stored profile on demand. The
// stored coordinates are reused, so no geocoding round trip occurs.
func (h *ProfileHandler) GetProfileChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing profile ID", nil)
		return
	}

	profile, err := h.store.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, astro.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get profile", err)
		}
		return
	}

	moment, err := parseBirthMoment(profile.DateOfBirth, profile.BirthTime, profile.BirthPlace)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Stored profile has invalid birth data", err)
		return
	}

	natal, err := h.service.ComputeChart(r.Context(), astro.ChartRequest{
		Moment: moment,
		Coordinate: &astro.Coordinate{
			Latitude:  profile.Latitude,
			Longitude: profile.Longitude,
		},
	})
	if err != nil {
		respondWithChartError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, natal)
}

// DeleteProfile removes a stored profile
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing profile ID", nil)
		return
	}

	if err := h.store.DeleteProfile(r.Context(), id); err != nil {
		if errors.Is(err, astro.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete profile", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
