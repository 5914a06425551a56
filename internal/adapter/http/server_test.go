package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/facility-finder/internal/adapter/http"
	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
	"github.com/couchcryptid/facility-finder/internal/search"
)

// --- mocks ---

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type stubGeocoder struct {
	candidates []domain.GeocodeCandidate
	err        error
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string, _ int) ([]domain.GeocodeCandidate, error) {
	return g.candidates, g.err
}

type stubCatalog struct {
	defs []domain.CategoryDefinition
}

func (c *stubCatalog) FetchCategories(_ context.Context) ([]domain.CategoryDefinition, error) {
	return c.defs, nil
}

type stubPlaces struct {
	results []domain.FacilityResult
	lastRadius float64
	lastPage   domain.Page
}

func (p *stubPlaces) NearbySearch(_ context.Context, _ domain.Coordinates, radiusMeters float64, _ int64, page domain.Page) ([]domain.FacilityResult, error) {
	p.lastRadius = radiusMeters
	p.lastPage = page
	return p.results, nil
}

type memoryHistory struct {
	saves   []domain.HistoryRecord
	listErr error
}

func (h *memoryHistory) Save(_ context.Context, userID string, q domain.SearchQuery) error {
	h.saves = append(h.saves, domain.HistoryRecord{
		ID:        fmt.Sprintf("rec-%d", len(h.saves)+1),
		UserID:    userID,
		Query:     q,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	return nil
}

func (h *memoryHistory) List(_ context.Context, userID string) ([]domain.HistoryRecord, error) {
	if h.listErr != nil {
		return nil, h.listErr
	}
	var out []domain.HistoryRecord
	for i := len(h.saves) - 1; i >= 0; i-- {
		if h.saves[i].UserID == userID {
			out = append(out, h.saves[i])
		}
	}
	return out, nil
}

type capturingPublisher struct {
	outcomes []domain.SearchOutcome
	err      error
}

func (p *capturingPublisher) PublishOutcome(_ context.Context, o domain.SearchOutcome) error {
	p.outcomes = append(p.outcomes, o)
	return p.err
}

type fixture struct {
	places    *stubPlaces
	history   *memoryHistory
	publisher *capturingPublisher
	srv       *httpadapter.Server
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	geocoder := &stubGeocoder{candidates: []domain.GeocodeCandidate{{
		Label:       "1 Main St, Springfield",
		Coordinates: domain.Coordinates{Lat: 40.0, Lon: -73.0},
		Score:       0.9,
	}}}
	catalog := &stubCatalog{defs: []domain.CategoryDefinition{
		{ID: 7321, Name: "hospital", Synonyms: []string{"medical center"}},
	}}
	places := &stubPlaces{results: []domain.FacilityResult{
		{ID: "poi-1", Name: "Springfield General", Address: "2 Elm St", DistanceMeters: 800},
	}}

	addresses := search.NewAddressResolver(geocoder, logger)
	orch := search.NewOrchestrator(
		addresses,
		search.NewCategoryResolver(catalog, metrics, logger),
		places,
		metrics,
		logger,
	)

	history := &memoryHistory{}
	publisher := &capturingPublisher{}
	srv := httpadapter.NewServer(":0", httpadapter.Options{
		Orchestrator: orch,
		Addresses:    addresses,
		History:      history,
		Publisher:    publisher,
		Ready:        &mockReadiness{},
		PageSize:     9,
		SuggestLimit: 5,
	}, logger)

	return &fixture{places: places, history: history, publisher: publisher, srv: srv}
}

func (f *fixture) get(target string, headers map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	f.srv.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestSearchReturnsResults(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/search?address=1+Main+St&radius=2&type=hospital", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []domain.FacilityResult `json:"results"`
		Query   domain.SearchQuery      `json:"query"`
		Failure string                  `json:"failure"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Springfield General", body.Results[0].Name)
	assert.Empty(t, body.Failure)
	assert.Equal(t, domain.SearchQuery{Address: "1 Main St", RadiusKm: 2, Category: "hospital"}, body.Query)

	assert.Equal(t, 2000.0, f.places.lastRadius)
	assert.Equal(t, domain.Page{Limit: 9, Offset: 0}, f.places.lastPage)
}

func TestSearchFailureStaysHTTP200(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/search?address=1+Main+St&radius=2&type=urologist", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown_category", body["failure"])
}

func TestSearchNonNumericRadiusIsIncompleteInput(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/search?address=1+Main+St&radius=abc&type=hospital", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "incomplete_input", body["failure"])
}

func TestSearchPagination(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/search?address=1+Main+St&radius=2&type=hospital&limit=5&ofs=18", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Page{Limit: 5, Offset: 18}, f.places.lastPage)
}

func TestSearchLimitCappedAtPageSize(t *testing.T) {
	f := newFixture()

	f.get("/api/search?address=1+Main+St&radius=2&type=hospital&limit=500", nil)

	assert.Equal(t, domain.Page{Limit: 9, Offset: 0}, f.places.lastPage)
}

func TestSearchSavesHistoryForIdentifiedUser(t *testing.T) {
	f := newFixture()

	f.get("/api/search?address=1+Main+St&radius=2&type=hospital", map[string]string{"X-User-ID": "user-1"})

	require.Len(t, f.history.saves, 1)
	assert.Equal(t, "user-1", f.history.saves[0].UserID)
	assert.Equal(t, domain.SearchQuery{Address: "1 Main St", RadiusKm: 2, Category: "hospital"}, f.history.saves[0].Query)
}

func TestSearchAnonymousSkipsHistory(t *testing.T) {
	f := newFixture()

	f.get("/api/search?address=1+Main+St&radius=2&type=hospital", nil)

	assert.Empty(t, f.history.saves)
}

func TestSearchFailedOutcomeNotSaved(t *testing.T) {
	f := newFixture()

	f.get("/api/search?address=1+Main+St&radius=2&type=urologist", map[string]string{"X-User-ID": "user-1"})

	assert.Empty(t, f.history.saves)
}

func TestSearchPublishesOutcome(t *testing.T) {
	f := newFixture()

	f.get("/api/search?address=1+Main+St&radius=2&type=hospital", nil)

	require.Len(t, f.publisher.outcomes, 1)
	assert.True(t, f.publisher.outcomes[0].Success())
}

func TestSearchPublishErrorDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.publisher.err = fmt.Errorf("broker down")

	rec := f.get("/api/search?address=1+Main+St&radius=2&type=hospital", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReplayRunsStoredQuery(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/replay?address=1+Main+St&radius=2&type=hospital", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2000.0, f.places.lastRadius, "replayed radius converts once")
}

func TestReplayRejectsIncompleteRecord(t *testing.T) {
	f := newFixture()

	for _, target := range []string{
		"/api/replay?radius=2&type=hospital",
		"/api/replay?address=1+Main+St&type=hospital",
		"/api/replay?address=1+Main+St&radius=0&type=hospital",
		"/api/replay?address=1+Main+St&radius=abc&type=hospital",
	} {
		rec := f.get(target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSuggestReturnsCandidates(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/suggest?q=1+Main", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Suggestions []domain.GeocodeCandidate `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "1 Main St, Springfield", body.Suggestions[0].Label)
}

func TestSuggestEmptyQuery(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/suggest?q=", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())
}

func TestHistoryRequiresUser(t *testing.T) {
	f := newFixture()

	rec := f.get("/api/history", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryListsSavedSearchesWithReplayLinks(t *testing.T) {
	f := newFixture()
	headers := map[string]string{"X-User-ID": "user-1"}

	f.get("/api/search?address=1+Main+St&radius=2&type=hospital", headers)

	rec := f.get("/api/history", headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []struct {
			ID     string             `json:"id"`
			Query  domain.SearchQuery `json:"query"`
			Replay string             `json:"replay"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.History, 1)
	assert.Equal(t, "address=1+Main+St&radius=2&type=hospital", body.History[0].Replay)
}

func TestHistoryStoreError(t *testing.T) {
	f := newFixture()
	f.history.listErr = fmt.Errorf("db locked")

	rec := f.get("/api/history", map[string]string{"X-User-ID": "user-1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthzReturns200(t *testing.T) {
	f := newFixture()

	rec := f.get("/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httpadapter.NewServer(":0", httpadapter.Options{
		Ready: &mockReadiness{err: fmt.Errorf("not ready yet")},
	}, logger)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.get("/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
