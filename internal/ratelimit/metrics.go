package ratelimit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Check outcomes recorded in metrics.
const (
	OutcomeAllowed    = "allowed"
	OutcomeDenied     = "denied"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
)

// OtherPrefix is the prefix label for checks whose prefix was not registered with NewMetrics.
const OtherPrefix = "other"

// Metrics records limiter activity. A nil *Metrics is valid and records nothing.
// Only prefixes passed to NewMetrics get their own label value.
type Metrics struct {
	checks   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	known    map[string]struct{}
}

// NewMetrics creates the limiter metrics and registers them with reg.
// Checks under any prefix not listed in prefixes are labelled OtherPrefix.
func NewMetrics(reg prometheus.Registerer, prefixes ...string) *Metrics {
	known := make(map[string]struct{}, len(prefixes))
	for _, p := range prefixes {
		known[p] = struct{}{}
	}

	m := &Metrics{
		known: known,
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimit_checks_total",
				Help: "Total number of rate limit checks by prefix and outcome",
			},
			[]string{"prefix", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ratelimit_check_duration_seconds",
				Help:    "Latency of the counter store round-trip",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"prefix"},
		),
	}

	reg.MustRegister(m.checks, m.duration)

	return m
}

func (m *Metrics) observe(prefix, outcome string) {
	if m == nil {
		return
	}

	m.checks.WithLabelValues(m.label(prefix), outcome).Inc()
}

func (m *Metrics) observeDuration(prefix string, d time.Duration) {
	if m == nil {
		return
	}

	m.duration.WithLabelValues(m.label(prefix)).Observe(d.Seconds())
}

func (m *Metrics) label(prefix string) string {
	if _, ok := m.known[prefix]; ok {
		return prefix
	}

	return OtherPrefix
}
