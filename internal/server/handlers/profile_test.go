package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellium/internal/domain/astro"
)

type memoryProfileStore struct {
	profiles map[string]astro.Profile
}

func newMemoryProfileStore() *memoryProfileStore {
	return &memoryProfileStore{profiles: map[string]astro.Profile{}}
}

func (s *memoryProfileStore) SaveProfile(ctx context.Context, p astro.Profile) error {
	s.profiles[p.ID] = p
	return nil
}

func (s *memoryProfileStore) GetProfile(ctx context.Context, id string) (*astro.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, astro.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memoryProfileStore) ListProfiles(ctx context.Context, limit int) ([]astro.Profile, error) {
	profiles := []astro.Profile{}
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *memoryProfileStore) DeleteProfile(ctx context.Context, id string) error {
	if _, ok := s.profiles[id]; !ok {
		return astro.ErrProfileNotFound
	}
	delete(s.profiles, id)
	return nil
}

func profileRouter(service astro.Service, store ProfileStore) *chi.Mux {
	handler := NewProfileHandler(service, store)
	router := chi.NewRouter()
	router.Get("/profiles", handler.ListProfiles)
	router.Post("/profiles", handler.CreateProfile)
	router.Get("/profiles/{id}", handler.GetProfile)
	router.Delete("/profiles/{id}", handler.DeleteProfile)
	router.Get("/profiles/{id}/chart", handler.GetProfileChart)
	return router
}

func TestCreateProfilePersistsDerivedSigns(t *testing.T) {
	svc := &stubChartService{chart: stubChart()}
	store := newMemoryProfileStore()
	router := profileRouter(svc, store)

	body := `{"name":"Deniz","date_of_birth":"1990-07-01","birth_time":"10:30","birth_place":"Ankara"}`
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Profile astro.Profile     `json:"profile"`
		Chart   *astro.NatalChart `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.NotEmpty(t, got.Profile.ID)
	assert.Equal(t, "Cancer", got.Profile.SunSign)
	assert.Equal(t, "Pisces", got.Profile.MoonSign)
	assert.Equal(t, "Virgo", got.Profile.RisingSign)
	assert.Equal(t, 39.0, got.Profile.Latitude)
	require.NotNil(t, got.Chart)

	stored, err := store.GetProfile(context.Background(), got.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancer", stored.SunSign)
}

func TestCreateProfileMissingPlace(t *testing.T) {
	router := profileRouter(&stubChartService{chart: stubChart()}, newMemoryProfileStore())

	body := `{"name":"Deniz","date_of_birth":"1990-07-01"}`
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProfileLocationNotFound(t *testing.T) {
	router := profileRouter(&stubChartService{err: astro.ErrLocationNotFound}, newMemoryProfileStore())

	body := `{"name":"Deniz","date_of_birth":"1990-07-01","birth_place":"Nowheresville"}`
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileNotFound(t *testing.T) {
	router := profileRouter(&stubChartService{}, newMemoryProfileStore())

	req := httptest.NewRequest(http.MethodGet, "/profiles/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileChartUsesStoredCoordinates(t *testing.T) {
	svc := &stubChartService{chart: stubChart()}
	store := newMemoryProfileStore()
	store.profiles["abc"] = astro.Profile{
		ID:          "abc",
		Name:        "Deniz",
		DateOfBirth: "1990-07-01",
		BirthTime:   "10:30",
		BirthPlace:  "Ankara",
		Latitude:    39.93,
		Longitude:   32.86,
	}
	router := profileRouter(svc, store)

	req := httptest.NewRequest(http.MethodGet, "/profiles/abc/chart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq.Coordinate)
	assert.Equal(t, 39.93, svc.gotReq.Coordinate.Latitude)
	assert.True(t, svc.gotReq.Moment.TimeKnown)
}

func TestDeleteProfile(t *testing.T) {
	store := newMemoryProfileStore()
	store.profiles["abc"] = astro.Profile{ID: "abc"}
	router := profileRouter(&stubChartService{}, store)

	req := httptest.NewRequest(http.MethodDelete, "/profiles/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.profiles)
}
