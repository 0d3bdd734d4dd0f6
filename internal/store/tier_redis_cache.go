package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tour-admission/internal/costguard"
)

// notFoundMarker is cached for organizations the underlying resolver does not know.
const notFoundMarker = "-"

// RedisTierCache wraps a TierResolver with a Redis read-through cache.
type RedisTierCache struct {
	resolver costguard.TierResolver
	client   redis.Cmdable
	prefix   string
	ttl      time.Duration
}

// NewRedisTierCache creates a new Redis-cached tier resolver decorator.
func NewRedisTierCache(resolver costguard.TierResolver, client redis.Cmdable, ttl time.Duration) *RedisTierCache {
	return &RedisTierCache{
		resolver: resolver,
		client:   client,
		prefix:   "org_tier:",
		ttl:      ttl,
	}
}

// ResolveTier checks the cache first and falls back to the wrapped resolver on a miss.
// Cache errors are treated as misses.
func (c *RedisTierCache) ResolveTier(ctx context.Context, organizationID string) (costguard.Tier, error) {
	key := c.prefix + organizationID

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if cached == notFoundMarker {
			return "", costguard.ErrOrganizationNotFound
		}

		return costguard.ParseTier(cached), nil
	}

	tier, err := c.resolver.ResolveTier(ctx, organizationID)

	switch {
	case err == nil:
		_ = c.client.Set(ctx, key, string(tier), c.ttl).Err()

		return tier, nil
	case errors.Is(err, costguard.ErrOrganizationNotFound):
		_ = c.client.Set(ctx, key, notFoundMarker, c.ttl).Err()

		return "", err
	default:
		return "", err
	}
}

// Compile-time check.
var _ costguard.TierResolver = (*RedisTierCache)(nil)
