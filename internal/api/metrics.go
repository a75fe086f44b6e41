package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments the serve mode exports. Each
// server owns its registry so tests can build several without duplicate
// registration panics.
type Metrics struct {
	registry *prometheus.Registry

	AuditsTotal   prometheus.Counter
	AuditErrors   *prometheus.CounterVec
	AuditDuration prometheus.Histogram
	HTTPRequests  *prometheus.CounterVec
}

// NewMetrics builds the instrument set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		AuditsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "audits_total",
			Help: "Total number of completed audits.",
		}),
		AuditErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_errors_total",
			Help: "Total number of failed audits by error type.",
		}, []string{"type"}),
		AuditDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audit_duration_seconds",
			Help:    "Wall time of a full audit, fetch through scoring.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "path", "status"}),
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAudit records one finished audit. errType is empty on success.
func (m *Metrics) ObserveAudit(duration time.Duration, errType string) {
	if errType != "" {
		m.AuditErrors.WithLabelValues(errType).Inc()
		return
	}
	m.AuditsTotal.Inc()
	m.AuditDuration.Observe(duration.Seconds())
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
