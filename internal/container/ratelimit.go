package container

import (
	"context"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/tour-admission/internal/ratelimit"
	"github.com/serroba/tour-admission/internal/store"
	"go.uber.org/zap"
)

// RateLimitPackage provides the counter store, the policy, the limiter and,
// for stores that need it, the expired window sweeper.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StoreMemory:
			return store.NewRateLimitMemoryStore(), nil
		case StoreRedis:
			return store.NewRateLimitRedisStore(do.MustInvoke[*RedisConnection](i).Client), nil
		case StorePostgres:
			pg := store.NewRateLimitPostgresStore(do.MustInvoke[*PostgresConnection](i).Pool)
			if err := pg.EnsureSchema(context.Background()); err != nil {
				return nil, fmt.Errorf("create rate limit schema: %w", err)
			}

			return pg, nil
		default:
			return nil, fmt.Errorf("unknown counter store %q", opts.Store)
		}
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.Policy, error) {
		policy := NewPolicy(do.MustInvoke[*Options](i))
		if err := policy.Validate(); err != nil {
			do.MustInvoke[*zap.Logger](i).Warn("rate limit policy has invalid rules, matching requests will be denied",
				zap.Error(err))
		}

		return policy, nil
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)

		limiterOpts := []ratelimit.Option{
			ratelimit.WithFailureMode(opts.FailureMode()),
			ratelimit.WithMetrics(do.MustInvoke[*ratelimit.Metrics](i)),
		}
		if opts.FailureMode() == ratelimit.FailLocal {
			limiterOpts = append(limiterOpts, ratelimit.WithFallbackStore(store.NewRateLimitMemoryStore()))
		}

		return ratelimit.NewFixedWindowLimiter(
			do.MustInvoke[ratelimit.Store](i),
			do.MustInvoke[*zap.Logger](i).Named("ratelimit"),
			limiterOpts...,
		), nil
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.RuleResolver, error) {
		return ratelimit.NewOperationRuleResolver(do.MustInvoke[*ratelimit.Policy](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.Sweeper, error) {
		opts := do.MustInvoke[*Options](i)

		pruner, ok := do.MustInvoke[ratelimit.Store](i).(ratelimit.Pruner)
		if !ok || opts.SweepInterval <= 0 {
			// Nothing to sweep: Redis expires windows itself.
			return nil, nil
		}

		return ratelimit.NewSweeper(pruner, seconds(opts.SweepInterval), do.MustInvoke[*zap.Logger](i)), nil
	})
}

// NewPolicy builds the deployment rules from options.
func NewPolicy(opts *Options) *ratelimit.Policy {
	return ratelimit.NewPolicyBuilder().
		AddRule(ratelimit.PrefixRead, int64(opts.ReadLimit), seconds(opts.ReadWindow)).
		AddRule(ratelimit.PrefixWrite, int64(opts.WriteLimit), seconds(opts.WriteWindow)).
		AddRule(ratelimit.PrefixPublicReviews, int64(opts.ReviewLimit), seconds(opts.ReviewWindow)).
		AddRule(ratelimit.PrefixNotificationsSend, int64(opts.NotificationLimit), seconds(opts.NotificationWindow)).
		Build()
}

// FailureMode returns the limiter's behavior when the counter store is unavailable.
func (o *Options) FailureMode() ratelimit.FailureMode {
	switch {
	case o.FailClosed:
		return ratelimit.FailClosed
	case o.LocalFallback:
		return ratelimit.FailLocal
	default:
		return ratelimit.FailOpen
	}
}
