// Package metrics exposes Prometheus metrics for comparisons and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docrecon/internal/domain"
)

// Metrics holds the registry and every collector. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	comparisonsTotal   *prometheus.CounterVec
	comparisonDuration prometheus.Histogram
	itemsTotal         *prometheus.CounterVec
	alertsTotal        *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	sideEffectFailures *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrecon_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docrecon_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		comparisonsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrecon_comparisons_total",
			Help: "Completed comparisons by highest item severity.",
		}, []string{"highest_severity"}),
		comparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "docrecon_comparison_duration_seconds",
			Help:    "Time spent reconciling one document pair.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrecon_comparison_items_total",
			Help: "Compared items by discrepancy status.",
		}, []string{"status"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrecon_alerts_total",
			Help: "Synthesized alerts by level.",
		}, []string{"level"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrecon_comparison_cache_lookups_total",
			Help: "Comparison cache lookups by result.",
		}, []string{"result"}),
		sideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrecon_side_effect_failures_total",
			Help: "Failed best-effort steps after a comparison (archive, notify, cache).",
		}, []string{"step"}),
	}
	registry.MustRegister(
		m.requestsTotal, m.requestDuration,
		m.comparisonsTotal, m.comparisonDuration, m.itemsTotal, m.alertsTotal,
		m.cacheLookups, m.sideEffectFailures,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registerer exposes the registry for additional collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveComparison records one finished comparison and its alerts.
func (m *Metrics) ObserveComparison(c *domain.DocumentComparison, alerts []domain.Alert, elapsed time.Duration) {
	if m == nil || c == nil {
		return
	}
	m.comparisonsTotal.WithLabelValues(string(c.HighestSeverity())).Inc()
	m.comparisonDuration.Observe(elapsed.Seconds())
	for _, item := range c.ItemLevelComparison {
		m.itemsTotal.WithLabelValues(string(item.Status)).Inc()
	}
	for _, a := range alerts {
		m.alertsTotal.WithLabelValues(string(a.Level)).Inc()
	}
}

// CacheLookup records a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SideEffectFailed records a failed archive, notify or cache step.
func (m *Metrics) SideEffectFailed(step string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(step).Inc()
}
