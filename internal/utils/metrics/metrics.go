package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Bus metrics
	BusRequestsTotal   *prometheus.CounterVec
	BusRequestDuration *prometheus.HistogramVec

	// Saga metrics
	SagaRunsTotal          *prometheus.CounterVec
	SagaCompensationsTotal *prometheus.CounterVec

	// Auth metrics
	AuthEventsTotal *prometheus.CounterVec

	// Mail metrics
	MailSendsTotal *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "teamtodo"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Bus metrics
		BusRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "requests_total",
				Help:      "Total number of bus request/reply calls",
			},
			[]string{"pattern", "status"}, // status: ok, error, timeout
		),
		BusRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "request_duration_seconds",
				Help:      "Bus call duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"pattern"},
		),

		// Saga metrics
		SagaRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "saga",
				Name:      "runs_total",
				Help:      "Total number of saga executions",
			},
			[]string{"saga", "outcome"}, // outcome: ok, compensated, inconsistent
		),
		SagaCompensationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "saga",
				Name:      "compensations_total",
				Help:      "Total number of compensation steps executed",
			},
			[]string{"saga", "step", "status"}, // status: ok, failed
		),

		// Auth metrics
		AuthEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Total number of auth events",
			},
			[]string{"event"}, // event: register, login_success, login_failed, token_invalid
		),

		// Mail metrics
		MailSendsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mail",
				Name:      "sends_total",
				Help:      "Total number of mail deliveries attempted",
			},
			[]string{"type", "status"},
		),

		// Cache metrics
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBusRequest records a bus request/reply call.
func (m *Metrics) RecordBusRequest(pattern, status string, duration time.Duration) {
	m.BusRequestsTotal.WithLabelValues(pattern, status).Inc()
	m.BusRequestDuration.WithLabelValues(pattern).Observe(duration.Seconds())
}

// RecordSagaRun records a completed saga execution.
func (m *Metrics) RecordSagaRun(saga, outcome string) {
	m.SagaRunsTotal.WithLabelValues(saga, outcome).Inc()
}

// RecordCompensation records a compensation step.
func (m *Metrics) RecordCompensation(saga, step string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.SagaCompensationsTotal.WithLabelValues(saga, step, status).Inc()
}

// RecordAuthEvent records an auth event.
func (m *Metrics) RecordAuthEvent(event string) {
	m.AuthEventsTotal.WithLabelValues(event).Inc()
}

// RecordMailSend records a mail delivery attempt.
func (m *Metrics) RecordMailSend(mailType, status string) {
	m.MailSendsTotal.WithLabelValues(mailType, status).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
