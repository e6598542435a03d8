package providers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRouterProvider_RegistersRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/today", okHandler())
	rp.Post("/retry", okHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/today", routes[0].Url)
	assert.Equal(t, "/retry", routes[1].Url)
}

func TestRouterProvider_MethodGuard(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/today", okHandler())
	rp.Post("/retry", okHandler())
	routes := rp.GetRoutes()

	rec := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/today", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/today", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/retry", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// recordingMetrics captures middleware observations.
type recordingMetrics struct {
	mu        sync.Mutex
	endpoints []string
	statuses  []int
}

func (m *recordingMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endpoints = append(m.endpoints, endpoint)
	m.statuses = append(m.statuses, status)
}
func (m *recordingMetrics) ObserveRequestDuration(string, time.Duration)  {}
func (m *recordingMetrics) IncCacheHits()                                 {}
func (m *recordingMetrics) IncCacheMisses()                               {}
func (m *recordingMetrics) IncDayCacheHits()                              {}
func (m *recordingMetrics) IncDayCacheMisses()                            {}
func (m *recordingMetrics) IncGenerationCalls(string, string)             {}
func (m *recordingMetrics) ObserveGenerationDuration(string, time.Duration) {}
func (m *recordingMetrics) SetFetchState(int)                             {}

func TestMetricsMiddleware_RecordsEndpointAndStatus(t *testing.T) {
	metrics := &recordingMetrics{}
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/retry", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, metrics.endpoints, 1)
	assert.Equal(t, "/retry", metrics.endpoints[0])
	assert.Equal(t, http.StatusConflict, metrics.statuses[0])
}

func TestMetricsMiddleware_DefaultsToOK(t *testing.T) {
	metrics := &recordingMetrics{}
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("body without explicit status"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/today", nil))

	require.Len(t, metrics.statuses, 1)
	assert.Equal(t, http.StatusOK, metrics.statuses[0])
}
