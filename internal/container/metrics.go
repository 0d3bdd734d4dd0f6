package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

// MetricsPackage provides the Prometheus registry and the limiter and cost guard metrics.
// Limiter metrics label only the configured policy and cost guard prefixes.
func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return reg, nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.Metrics, error) {
		policy := do.MustInvoke[*ratelimit.Policy](i)
		prefixes := append(policy.Prefixes(), costguard.Prefixes()...)

		return ratelimit.NewMetrics(do.MustInvoke[*prometheus.Registry](i), prefixes...), nil
	})

	do.Provide(i, func(i *do.Injector) (*costguard.Metrics, error) {
		return costguard.NewMetrics(do.MustInvoke[*prometheus.Registry](i)), nil
	})
}
