//go:build integration

package store_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/ratelimit"
	"github.com/serroba/tour-admission/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return client
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	s := store.NewRateLimitRedisStore(client)

	t.Run("increments within window", func(t *testing.T) {
		key := ratelimit.BuildKey("it:redis", "incr")
		defer client.Del(ctx, key)

		first, err := s.Hit(ctx, key, time.Minute)
		require.NoError(t, err)

		second, err := s.Hit(ctx, key, time.Minute)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.Count)
		assert.Equal(t, int64(2), second.Count)
		assert.Equal(t, first.Start, second.Start)

		ttl, err := client.PTTL(ctx, key).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("resets after window", func(t *testing.T) {
		key := ratelimit.BuildKey("it:redis", "reset")
		defer client.Del(ctx, key)

		_, _ = s.Hit(ctx, key, 100*time.Millisecond)
		_, _ = s.Hit(ctx, key, 100*time.Millisecond)

		time.Sleep(150 * time.Millisecond)

		w, err := s.Hit(ctx, key, 100*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int64(1), w.Count)
	})

	t.Run("admits exactly limit under concurrency", func(t *testing.T) {
		const limit = 20

		prefix := "it:redis:concurrent"
		defer client.Del(ctx, ratelimit.BuildKey(prefix, "shared"))

		limiter := ratelimit.NewFixedWindowLimiter(s, zap.NewNop())

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)

		for range 2 * limit {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if limiter.Check(ctx, "shared", limit, time.Minute, prefix).Success {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, limit, allowed)
	})
}

func TestRedisTierCacheIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()

	backing := &countingResolver{
		resolver: costguard.NewStrictTierResolver(map[string]costguard.Tier{"org-pro": costguard.TierPro}),
	}
	cache := store.NewRedisTierCache(backing, client, time.Minute)

	defer client.Del(ctx, "org_tier:org-pro", "org_tier:org-missing")

	t.Run("caches resolved tiers", func(t *testing.T) {
		for range 3 {
			tier, err := cache.ResolveTier(ctx, "org-pro")
			require.NoError(t, err)
			assert.Equal(t, costguard.TierPro, tier)
		}

		assert.Equal(t, 1, backing.calls["org-pro"])
	})

	t.Run("caches unknown organizations", func(t *testing.T) {
		for range 2 {
			_, err := cache.ResolveTier(ctx, "org-missing")
			assert.ErrorIs(t, err, costguard.ErrOrganizationNotFound)
		}

		assert.Equal(t, 1, backing.calls["org-missing"])
	})

	t.Run("expired entries are resolved again", func(t *testing.T) {
		require.NoError(t, client.Del(ctx, "org_tier:org-pro").Err())

		_, err := cache.ResolveTier(ctx, "org-pro")
		require.NoError(t, err)
		assert.Equal(t, 2, backing.calls["org-pro"])
	})
}

type countingResolver struct {
	resolver costguard.TierResolver
	calls    map[string]int
}

func (r *countingResolver) ResolveTier(ctx context.Context, organizationID string) (costguard.Tier, error) {
	if r.calls == nil {
		r.calls = make(map[string]int)
	}

	r.calls[organizationID]++

	return r.resolver.ResolveTier(ctx, organizationID)
}
