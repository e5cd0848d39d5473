package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lifestats/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveLoadDuration(source string, duration time.Duration)
	SetRecordsTotal(source string, count int)
	AddSkippedRecords(source string, count int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	loadDuration    *prometheus.HistogramVec
	recordsTotal    *prometheus.GaugeVec
	skippedTotal    *prometheus.CounterVec
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

func (m *MetricsProvider) ObserveLoadDuration(source string, duration time.Duration) {
	m.loadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetRecordsTotal(source string, count int) {
	m.recordsTotal.WithLabelValues(source).Set(float64(count))
}

func (m *MetricsProvider) AddSkippedRecords(source string, count int) {
	if count > 0 {
		m.skippedTotal.WithLabelValues(source).Add(float64(count))
	}
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
			Name: "lifestats_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifestats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifestats_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifestats_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		loadDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifestats_load_duration_seconds",
			Help:    "Time spent loading and parsing an export",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),

		recordsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lifestats_records_total",
			Help: "Number of records in the last load of an export",
		}, []string{"source"}),

		skippedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifestats_skipped_records_total",
			Help: "Export entries dropped because they could not be attributed",
		}, []string{"source"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveLoadDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) SetRecordsTotal(_ string, _ int)                  {}
func (n *noopMetrics) AddSkippedRecords(_ string, _ int)                {}
