package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds client-side metrics for API calls and the auth flow.
type Metrics struct {
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	AuthEvents         *prometheus.CounterVec
}

// New creates and registers metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neomovies",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Remote API requests by method, outcome and HTTP status.",
		}, []string{"method", "outcome", "status"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neomovies",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of remote API requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neomovies",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Auth flow actions by outcome.",
		}, []string{"action", "outcome"}),
	}

	reg.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.AuthEvents,
	)

	return m
}

// ObserveRequest records one finished API request.
func (m *Metrics) ObserveRequest(method, outcome string, status int, d time.Duration) {
	m.APIRequests.WithLabelValues(method, outcome, strconv.Itoa(status)).Inc()
	m.APIRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveAuth records one finished auth action.
func (m *Metrics) ObserveAuth(action, outcome string) {
	m.AuthEvents.WithLabelValues(action, outcome).Inc()
}
