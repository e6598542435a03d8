package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"chronicle/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncDayCacheHits()
	IncDayCacheMisses()
	IncGenerationCalls(kind, outcome string)
	ObserveGenerationDuration(kind string, duration time.Duration)
	SetFetchState(state int)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	dayCacheHits       prometheus.Counter
	dayCacheMisses     prometheus.Counter
	generationCalls    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	fetchState         prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncDayCacheHits() {
	m.dayCacheHits.Inc()
}

func (m *MetricsProvider) IncDayCacheMisses() {
	m.dayCacheMisses.Inc()
}

func (m *MetricsProvider) IncGenerationCalls(kind, outcome string) {
	m.generationCalls.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsProvider) ObserveGenerationDuration(kind string, duration time.Duration) {
	m.generationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetFetchState(state int) {
	m.fetchState.Set(float64(state))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chronicle_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_response_cache_hits_total",
			Help: "Total number of HTTP response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_response_cache_misses_total",
			Help: "Total number of HTTP response cache misses",
		}),

		dayCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_day_cache_hits_total",
			Help: "Total number of day-scoped cache hits",
		}),

		dayCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_day_cache_misses_total",
			Help: "Total number of day-scoped cache misses",
		}),

		generationCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_generation_calls_total",
			Help: "Remote generation calls by kind and outcome",
		}, []string{"kind", "outcome"}),

		generationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chronicle_generation_duration_seconds",
			Help:    "Remote generation call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		fetchState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chronicle_fetch_state",
			Help: "Current view fetch state (0=idle 1=text 2=image 3=success 4=error)",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncDayCacheHits()                                  {}
func (n *noopMetrics) IncDayCacheMisses()                                {}
func (n *noopMetrics) IncGenerationCalls(_, _ string)                    {}
func (n *noopMetrics) ObserveGenerationDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetFetchState(_ int)                               {}
