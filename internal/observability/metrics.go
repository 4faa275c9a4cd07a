package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the portal's Prometheus instruments.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	LoginsTotal     *prometheus.CounterVec
	LogoutsTotal    *prometheus.CounterVec
	SessionsSwept   prometheus.Counter
}

// NewMetrics creates and registers all metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "srw_portal_requests_total",
			Help: "Total HTTP requests handled by the portal.",
		}, []string{"path", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "srw_portal_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "srw_portal_errors_total",
			Help: "Total request errors by domain error code.",
		}, []string{"path", "method", "code"}),
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "srw_portal_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		LogoutsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "srw_portal_logouts_total",
			Help: "Logouts by outcome (remote_ok or local_only).",
		}, []string{"outcome"}),
		SessionsSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "srw_portal_sessions_swept_total",
			Help: "Expired or idle browser sessions cleaned by the sweeper.",
		}),
	}
}

// RecordRequest increments counters for a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordLogin counts a login attempt outcome ("ok" or "failed").
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// RecordLogout counts a logout outcome.
func (m *Metrics) RecordLogout(outcome string) {
	if m == nil {
		return
	}
	m.LogoutsTotal.WithLabelValues(outcome).Inc()
}

// RecordSweep counts sessions cleaned by the sweeper.
func (m *Metrics) RecordSweep(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.SessionsSwept.Add(float64(count))
}
