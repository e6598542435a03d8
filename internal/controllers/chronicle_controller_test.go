package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/almanac"
	"chronicle/internal/models"
	"chronicle/internal/store"
	"chronicle/internal/structures"
	"chronicle/internal/testutil"
)

// mapCache implements providers.CacheProviderInterface over a plain map.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *mapCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
}

// stubView scripts the state machine behind the HTTP surface.
type stubView struct {
	mu         sync.Mutex
	state      models.FetchState
	snapshot   models.DailyView
	selectErr  error
	loadCalls  int
	retryCalls int
	selected   []int
}

func (s *stubView) Load(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCalls++
}

func (s *stubView) Retry(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCalls++
}

func (s *stubView) Select(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append(s.selected, index)
	return s.selectErr
}

func (s *stubView) Snapshot() models.DailyView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *stubView) State() models.FetchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubView) Teardown() {}

func (s *stubView) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCalls, s.retryCalls
}

type controllerFixture struct {
	controller *ChronicleController
	view       *stubView
	cache      *mapCache
	archive    *store.ImageArchive
}

func newControllerFixture(t *testing.T, view *stubView, archiveDir string) *controllerFixture {
	t.Helper()
	comp, err := store.NewZstdCompressor()
	require.NoError(t, err)
	conf := &structures.Config{
		Chronicle: structures.ChronicleConfig{ArchiveDir: archiveDir, ArchiveTTL: time.Hour},
	}
	archive := store.NewImageArchive(conf, comp, &testutil.MockLogger{})
	cache := newMapCache()
	clock := testutil.NewFixedClock(time.Date(2024, 2, 4, 10, 0, 0, 0, time.UTC))
	return &controllerFixture{
		controller: NewChronicleController(&testutil.MockLogger{}, view, cache, archive, clock),
		view:       view,
		cache:      cache,
		archive:    archive,
	}
}

func TestToday_ReturnsSnapshotAndKicksIdleLoad(t *testing.T) {
	view := &stubView{
		state: models.StateIdle,
		snapshot: models.DailyView{
			State:   "IDLE",
			DateKey: "2024-2-4",
		},
	}
	fx := newControllerFixture(t, view, "")

	rec := httptest.NewRecorder()
	fx.controller.Today(rec, httptest.NewRequest(http.MethodGet, "/today", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.DailyView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "IDLE", resp.State)
	assert.Equal(t, "2024-2-4", resp.DateKey)

	assert.Eventually(t, func() bool {
		loads, _ := view.calls()
		return loads == 1
	}, time.Second, 5*time.Millisecond, "idle state must trigger a background load")
}

func TestToday_NoLoadWhenAlreadyRunning(t *testing.T) {
	view := &stubView{
		state:    models.StateLoadingText,
		snapshot: models.DailyView{State: "LOADING_TEXT"},
	}
	fx := newControllerFixture(t, view, "")

	rec := httptest.NewRecorder()
	fx.controller.Today(rec, httptest.NewRequest(http.MethodGet, "/today", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	loads, _ := view.calls()
	assert.Zero(t, loads)
}

func TestRetry_ConflictsOutsideErrorState(t *testing.T) {
	for _, state := range []models.FetchState{
		models.StateIdle, models.StateLoadingText, models.StateLoadingImage, models.StateSuccess,
	} {
		fx := newControllerFixture(t, &stubView{state: state}, "")

		rec := httptest.NewRecorder()
		fx.controller.Retry(rec, httptest.NewRequest(http.MethodPost, "/retry", nil))

		assert.Equal(t, http.StatusConflict, rec.Code, state.String())
	}
}

func TestRetry_AcceptedFromErrorState(t *testing.T) {
	view := &stubView{state: models.StateError}
	fx := newControllerFixture(t, view, "")

	rec := httptest.NewRecorder()
	fx.controller.Retry(rec, httptest.NewRequest(http.MethodPost, "/retry", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Eventually(t, func() bool {
		_, retries := view.calls()
		return retries == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSelect_BadIndexParam(t *testing.T) {
	fx := newControllerFixture(t, &stubView{state: models.StateSuccess}, "")

	rec := httptest.NewRecorder()
	fx.controller.Select(rec, httptest.NewRequest(http.MethodGet, "/today/select?i=two", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	fx.controller.Select(rec, httptest.NewRequest(http.MethodGet, "/today/select", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelect_ServiceErrorConflicts(t *testing.T) {
	view := &stubView{state: models.StateSuccess, selectErr: assert.AnError}
	fx := newControllerFixture(t, view, "")

	rec := httptest.NewRecorder()
	fx.controller.Select(rec, httptest.NewRequest(http.MethodGet, "/today/select?i=7", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []int{7}, view.selected)
}

func TestSelect_ReturnsUpdatedSnapshot(t *testing.T) {
	view := &stubView{
		state:    models.StateSuccess,
		snapshot: models.DailyView{State: "SUCCESS", Selected: 1},
	}
	fx := newControllerFixture(t, view, "")

	rec := httptest.NewRecorder()
	fx.controller.Select(rec, httptest.NewRequest(http.MethodGet, "/today/select?i=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.DailyView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Selected)
}

func TestCalendar_ServesGrid(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, "")

	rec := httptest.NewRecorder()
	fx.controller.Calendar(rec, httptest.NewRequest(http.MethodGet, "/calendar?year=2024&month=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var grid almanac.Grid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grid))
	assert.Equal(t, 2024, grid.Year)
	assert.Equal(t, 2, grid.Month)
	// February 2024 opens on a Thursday: three leading blanks, then 1..29.
	require.Len(t, grid.Cells, 32)
	assert.Equal(t, []int{0, 0, 0, 1}, grid.Cells[:4])
	assert.Equal(t, 29, grid.Cells[31])
}

func TestCalendar_DefaultsToCurrentMonth(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, "")

	rec := httptest.NewRecorder()
	fx.controller.Calendar(rec, httptest.NewRequest(http.MethodGet, "/calendar", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var grid almanac.Grid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grid))
	assert.Equal(t, 2024, grid.Year)
	assert.Equal(t, 2, grid.Month)
}

func TestCalendar_InvalidParams(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, "")

	for _, target := range []string{
		"/calendar?year=abc",
		"/calendar?month=0",
		"/calendar?month=13",
		"/calendar?month=x",
	} {
		rec := httptest.NewRecorder()
		fx.controller.Calendar(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCalendar_SecondRequestServedFromCache(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, "")
	req := httptest.NewRequest(http.MethodGet, "/calendar?year=2024&month=2", nil)

	first := httptest.NewRecorder()
	fx.controller.Calendar(first, req)
	second := httptest.NewRecorder()
	fx.controller.Calendar(second, req)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, fx.cache.sets, "second response must come from the cache")
	_, ok := fx.cache.Get("grid:2024-2")
	assert.True(t, ok)
}

func TestAlmanac_ServesDatePartsAndSolarTerm(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, "")

	rec := httptest.NewRecorder()
	fx.controller.Almanac(rec, httptest.NewRequest(http.MethodGet, "/almanac?date=2024-02-04", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Date      almanac.DateParts `json:"date"`
		SolarTerm almanac.SolarTerm `json:"solarTerm"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "立春", resp.SolarTerm.Name)
	assert.Equal(t, "Start of Spring", resp.SolarTerm.EnName)
	assert.Equal(t, "周日", resp.Date.WeekdayName)
}

func TestAlmanac_InvalidDate(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, "")

	rec := httptest.NewRecorder()
	fx.controller.Almanac(rec, httptest.NewRequest(http.MethodGet, "/almanac?date=04-02-2024", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchive_ListsDays(t *testing.T) {
	fx := newControllerFixture(t, &stubView{}, t.TempDir())
	fx.archive.Save("2024-2-3", "solarterm", "data:image/png;base64,AAAA")
	fx.archive.Save("2024-2-4", "solarterm", "data:image/png;base64,BBBB")

	rec := httptest.NewRecorder()
	fx.controller.Archive(rec, httptest.NewRequest(http.MethodGet, "/archive", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Days []string `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Days, 2)
}
