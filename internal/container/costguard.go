package container

import (
	"github.com/samber/do"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/messaging"
	"github.com/serroba/tour-admission/internal/ratelimit"
	"github.com/serroba/tour-admission/internal/store"
	"go.uber.org/zap"
)

// CostGuardPackage provides the tier resolver and the cost guard.
// Tiers come from PostgreSQL behind a Redis cache when a database is configured,
// otherwise from the Tiers option, with DefaultTier for unlisted organizations
// unless StrictTiers is set.
func CostGuardPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (costguard.TierResolver, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.DatabaseURL == "" {
			tiers, err := costguard.ParseTierMap(opts.Tiers)
			if err != nil {
				return nil, err
			}

			if opts.StrictTiers {
				return costguard.NewStrictTierResolver(tiers), nil
			}

			return costguard.NewStaticTierResolver(tiers, costguard.ParseTier(opts.DefaultTier)), nil
		}

		resolver := store.NewPostgresTierResolver(do.MustInvoke[*PostgresConnection](i).Pool)
		if opts.TierCacheTTL <= 0 {
			return resolver, nil
		}

		return store.NewRedisTierCache(resolver, do.MustInvoke[*RedisConnection](i).Client, seconds(opts.TierCacheTTL)), nil
	})

	do.Provide(i, func(i *do.Injector) (*costguard.Guard, error) {
		return costguard.NewGuard(
			do.MustInvoke[ratelimit.Limiter](i),
			do.MustInvoke[costguard.TierResolver](i),
			costguard.DefaultLimits(),
			do.MustInvoke[messaging.Publish[events.Metering]](i),
			do.MustInvoke[*zap.Logger](i).Named("costguard"),
			do.MustInvoke[*costguard.Metrics](i),
		), nil
	})
}
