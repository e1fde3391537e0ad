package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shapedtime/neomovies/internal/auth"
)

// StateSource reports the current auth state.
type StateSource interface {
	State() auth.State
}

// SessionCollector implements prometheus.Collector for the auth state.
// It reads the state lazily on each scrape.
type SessionCollector struct {
	source StateSource
	state  *prometheus.Desc
}

var sessionStates = []auth.State{
	auth.StateAnonymous,
	auth.StatePendingVerification,
	auth.StateAuthenticated,
}

func NewSessionCollector(src StateSource) *SessionCollector {
	return &SessionCollector{
		source: src,
		state: prometheus.NewDesc(
			"neomovies_session_state",
			"1 for the current auth state, 0 for the others.",
			[]string{"state"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.state
}

// Collect implements prometheus.Collector.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	current := c.source.State()
	for _, s := range sessionStates {
		v := 0.0
		if s == current {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, v, string(s))
	}
}
