package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles prometheus collectors used by the dashboard service.
// All record methods are safe on a nil receiver.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDurationSec  *prometheus.HistogramVec
	UpstreamRequests    *prometheus.CounterVec
	UpstreamDurationSec *prometheus.HistogramVec
	CacheLookups        *prometheus.CounterVec
	FixtureFallbacks    *prometheus.CounterVec
	WorkHoursFailures   prometheus.Counter
	RateLimitDropped    prometheus.Counter
}

func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_dashboard_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_dashboard_upstream_requests_total",
			Help: "Total number of ticketing API requests by outcome.",
		}, []string{"endpoint", "status"}),
		UpstreamDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_dashboard_upstream_request_duration_seconds",
			Help:    "Ticketing API request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_dashboard_cache_lookups_total",
			Help: "Cache lookups by result.",
		}, []string{"result"}),
		FixtureFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_dashboard_fixture_fallbacks_total",
			Help: "Reports served from a fixture instead of live data.",
		}, []string{"report"}),
		WorkHoursFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "support_dashboard_workhours_failures_total",
			Help: "Per-ticket work hours fetches that failed and counted as zero.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "support_dashboard_ratelimit_dropped_total",
			Help: "Total number of requests dropped by rate limiter.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.UpstreamRequests,
		m.UpstreamDurationSec,
		m.CacheLookups,
		m.FixtureFallbacks,
		m.WorkHoursFailures,
		m.RateLimitDropped,
	)

	return m
}

// Handler exposes the registry in prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveUpstream(path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	endpoint := NormalizeUpstreamPath(path)
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(endpoint, label).Inc()
	m.UpstreamDurationSec.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) FixtureFallback(reportName string) {
	if m != nil {
		m.FixtureFallbacks.WithLabelValues(reportName).Inc()
	}
}

func (m *Metrics) WorkHoursFailure() {
	if m != nil {
		m.WorkHoursFailures.Inc()
	}
}

func (m *Metrics) RateLimited() {
	if m != nil {
		m.RateLimitDropped.Inc()
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// NormalizeUpstreamPath collapses ticket ids so label cardinality stays bounded.
func NormalizeUpstreamPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func normalizeRoute(path string) string {
	switch path {
	case "/api/v1/dashboard", "/api/v1/monthly-review", "/healthz", "/readyz", "/metrics":
		return path
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
