package costguard

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cost guard decisions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics creates the cost guard metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costguard_decisions_total",
				Help: "Cost guard decisions by category, tier and outcome",
			},
			[]string{"category", "tier", "outcome"},
		),
	}

	reg.MustRegister(m.decisions)

	return m
}

func (m *Metrics) observe(category Category, tier Tier, allowed bool) {
	if m == nil {
		return
	}

	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}

	m.decisions.WithLabelValues(string(category), string(tier), outcome).Inc()
}
