package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/netpay-engine/config"
)

// Outcome labels for computations.
const (
	OutcomeOK          = "ok"
	OutcomeClientError = "client_error"
	OutcomeError       = "error"
)

// Cache result labels.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	computations     *prometheus.CounterVec
	computeDuration  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	projectionPoints prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	pruneRemoved     prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics(cfg config.Config) *Metrics {
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName(cfg),
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "netpay_computations_total",
			Help:        "Net salary computations by fiscal year and outcome.",
			ConstLabels: constLabels,
		}, []string{"year", "outcome"}),
		computeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "netpay_compute_duration_seconds",
			Help:        "Latency of engine operations.",
			Buckets:     []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "netpay_cache_lookups_total",
			Help:        "Memo cache lookups by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		projectionPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "netpay_projection_points_total",
			Help:        "Grid points evaluated by projection sweeps.",
			ConstLabels: constLabels,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "netpay_http_requests_total",
			Help:        "HTTP requests by method, route pattern and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "netpay_http_request_duration_seconds",
			Help:        "HTTP request latency by route pattern.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		pruneRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "netpay_cache_pruned_total",
			Help:        "Cached computations removed by the prune job.",
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.computations,
		m.computeDuration,
		m.cacheLookups,
		m.projectionPoints,
		m.httpRequests,
		m.httpDuration,
		m.pruneRemoved,
	)
	return m
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveComputation counts one computation for year.
func (m *Metrics) ObserveComputation(year int, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(strconv.Itoa(year), outcome).Inc()
	m.computeDuration.WithLabelValues("compute").Observe(elapsed.Seconds())
}

// ObserveProjection records a finished sweep.
func (m *Metrics) ObserveProjection(points int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.projectionPoints.Add(float64(points))
	m.computeDuration.WithLabelValues("projection").Observe(elapsed.Seconds())
}

// ObserveCache counts one memo lookup.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObservePrune counts rows removed by the prune job.
func (m *Metrics) ObservePrune(removed int64) {
	if m == nil || removed <= 0 {
		return
	}
	m.pruneRemoved.Add(float64(removed))
}

// ObserveHTTP records one served request. route is the chi pattern, not the
// raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
