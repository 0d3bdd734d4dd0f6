package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/handlers"
	"github.com/serroba/tour-admission/internal/health"
	"github.com/serroba/tour-admission/internal/messaging"
	"github.com/serroba/tour-admission/internal/middleware"
	"github.com/serroba/tour-admission/internal/ratelimit"
	"go.uber.org/zap"
)

const requestIDLength = 21

// HTTPPackage provides the chi router and the huma API with every route and middleware registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Handle("/metrics", promhttp.HandlerFor(
			do.MustInvoke[*prometheus.Registry](i),
			promhttp.HandlerOpts{},
		))

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i).Named("http")
		router := do.MustInvoke[*chi.Mux](i)

		newID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Tour Admission", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api, newID))
		api.UseMiddleware(middleware.RateLimiter(
			api,
			do.MustInvoke[ratelimit.Limiter](i),
			do.MustInvoke[ratelimit.RuleResolver](i),
			do.MustInvoke[messaging.Publish[events.RateLimitDenied]](i),
			logger,
		))
		api.UseMiddleware(middleware.CostGuard(api, do.MustInvoke[*costguard.Guard](i), logger))

		handlers.RegisterRoutes(api, handlers.Handlers{
			Admission: handlers.NewAdmissionHandler(do.MustInvoke[ratelimit.Limiter](i)),
			Cost:      handlers.NewCostHandler(),
			Reviews: handlers.NewReviewHandler(
				do.MustInvoke[messaging.Publish[events.ReviewSubmitted]](i), logger),
			Notifications: handlers.NewNotificationHandler(
				do.MustInvoke[messaging.Publish[events.NotificationRequested]](i), logger),
		})

		health.RegisterRoutes(api, newHealthHandler(i, opts))

		return api, nil
	})
}

func newHealthHandler(i *do.Injector, opts *Options) *health.Handler {
	var postgres health.Checker
	if opts.DatabaseURL != "" {
		postgres = health.NewPostgresChecker(do.MustInvoke[*PostgresConnection](i).Pool)
	}

	return health.NewHandler(health.NewRedisChecker(do.MustInvoke[*RedisConnection](i).Client), postgres, opts.FailureMode())
}
