package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

const metricsNamespace = "sales_dashboard"

// timing keeps a count and a nanosecond sum so the JSON summary can report averages.
type timing struct {
	count uint64
	nanos uint64
}

func (t *timing) add(d time.Duration) {
	atomic.AddUint64(&t.count, 1)
	atomic.AddUint64(&t.nanos, uint64(d.Nanoseconds()))
}

func (t *timing) load() (uint64, float64) {
	count := atomic.LoadUint64(&t.count)
	if count == 0 {
		return 0, 0
	}
	return count, float64(atomic.LoadUint64(&t.nanos)) / float64(count) / float64(time.Millisecond)
}

// MetricsService owns a private Prometheus registry plus the running totals behind the JSON summary.
// Every method is safe on a nil receiver.
type MetricsService struct {
	handler http.Handler

	httpDuration  *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	cacheLatency  prometheus.Histogram
	cacheWrites   prometheus.Histogram
	cacheRatio    prometheus.Gauge
	dbDuration    *prometheus.HistogramVec
	taskFailures  *prometheus.CounterVec
	otpDeliveries *prometheus.CounterVec
	exports       *prometheus.CounterVec

	requests  timing
	queries   timing
	hits      uint64
	misses    uint64
	failureMu sync.Mutex
	failures  map[string]uint64
}

// NewMetricsService builds the collectors on a fresh registry, so instances never collide.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &MetricsService{
		handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template",
		}, []string{"method", "path", "status"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome",
		}, []string{"result"}),
		cacheLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cache_read_seconds",
			Help:      "Result cache read latency",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheWrites: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cache_write_seconds",
			Help:      "Result cache write latency",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hit_ratio",
			Help:      "Share of result cache lookups that hit",
		}),
		dbDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "record_query_duration_seconds",
			Help:      "Record fetch latency by table",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		taskFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "task_failures_total",
			Help:      "Page sections that fell back to their default value",
		}, []string{"task"}),
		otpDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "otp_deliveries_total",
			Help:      "Verification code deliveries by outcome",
		}, []string{"outcome"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "exports_total",
			Help:      "Generated exports by kind and format",
		}, []string{"kind", "format"}),
		failures: make(map[string]uint64),
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Live goroutines",
	}, func() float64 { return float64(runtime.NumGoroutine()) })
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.requests.add(duration)
}

// RecordCacheOperation records a cache read and refreshes the hit ratio gauge.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.hits, 1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.misses, 1)
	}
	m.cacheRatio.Set(m.hitRatio())
}

// ObserveCacheWrite records a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrites.Observe(duration.Seconds())
}

// ObserveDBQuery records one record fetch.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.queries.add(duration)
}

// RecordTaskFailure counts a page section that degraded to its default.
func (m *MetricsService) RecordTaskFailure(task string) {
	if m == nil {
		return
	}
	m.taskFailures.WithLabelValues(task).Inc()
	m.failureMu.Lock()
	m.failures[task]++
	m.failureMu.Unlock()
}

// RecordOTPDelivery counts a verification code delivery attempt.
func (m *MetricsService) RecordOTPDelivery(outcome string) {
	if m == nil {
		return
	}
	m.otpDeliveries.WithLabelValues(outcome).Inc()
}

// RecordExport counts a generated export.
func (m *MetricsService) RecordExport(kind, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(kind, format).Inc()
}

// Snapshot returns the running totals served by the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{TaskFailures: map[string]uint64{}}
	}
	requests, avgRequest := m.requests.load()
	queries, avgQuery := m.queries.load()

	m.failureMu.Lock()
	failures := make(map[string]uint64, len(m.failures))
	for task, n := range m.failures {
		failures[task] = n
	}
	m.failureMu.Unlock()

	return models.SystemMetrics{
		CacheHitRatio:            m.hitRatio(),
		CacheHits:                atomic.LoadUint64(&m.hits),
		CacheMisses:              atomic.LoadUint64(&m.misses),
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequest,
		DBQueryCount:             queries,
		AverageDBQueryDurationMs: avgQuery,
		TaskFailures:             failures,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func (m *MetricsService) hitRatio() float64 {
	hits := atomic.LoadUint64(&m.hits)
	total := hits + atomic.LoadUint64(&m.misses)
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
