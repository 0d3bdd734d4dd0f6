package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/tour-admission/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestRateLimitMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("records and counts hits", func(t *testing.T) {
		clock := newManualClock()
		s := store.NewRateLimitMemoryStore(store.WithMemoryClock(clock.Now))

		for i := int64(1); i <= 3; i++ {
			w, err := s.Hit(ctx, "key1", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, i, w.Count)
			assert.Equal(t, clock.Now(), w.Start)
			assert.Equal(t, time.Minute, w.Length)
		}
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Hit(ctx, "key1", time.Minute)
		_, _ = s.Hit(ctx, "key1", time.Minute)

		w, err := s.Hit(ctx, "key2", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), w.Count, "key2 should have its own counter")
	})

	t.Run("window starts at first hit and resets at its end", func(t *testing.T) {
		clock := newManualClock()
		s := store.NewRateLimitMemoryStore(store.WithMemoryClock(clock.Now))
		start := clock.Now()

		_, _ = s.Hit(ctx, "key1", time.Second)
		clock.Advance(999 * time.Millisecond)

		w, err := s.Hit(ctx, "key1", time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(2), w.Count)
		assert.Equal(t, start, w.Start)

		clock.Advance(time.Millisecond)

		w, err = s.Hit(ctx, "key1", time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), w.Count)
		assert.Equal(t, start.Add(time.Second), w.Start)
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Hit(cancelled, "key1", time.Minute)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("prune removes only expired windows", func(t *testing.T) {
		clock := newManualClock()
		s := store.NewRateLimitMemoryStore(store.WithMemoryClock(clock.Now))

		_, _ = s.Hit(ctx, "short", time.Second)
		_, _ = s.Hit(ctx, "long", time.Hour)
		clock.Advance(2 * time.Second)

		removed, err := s.Prune(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("sweeps expired windows once threshold is reached", func(t *testing.T) {
		clock := newManualClock()
		s := store.NewRateLimitMemoryStore(
			store.WithMemoryClock(clock.Now),
			store.WithCleanupThreshold(10),
		)

		for i := range 9 {
			_, _ = s.Hit(ctx, fmt.Sprintf("old-%d", i), time.Second)
		}

		clock.Advance(time.Minute)

		_, err := s.Hit(ctx, "fresh", time.Second)

		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("concurrent hits are counted exactly once each", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		const n = 200

		var wg sync.WaitGroup

		counts := make(chan int64, n)

		for range n {
			wg.Add(1)

			go func() {
				defer wg.Done()

				w, err := s.Hit(ctx, "shared", time.Minute)
				if err == nil {
					counts <- w.Count
				}
			}()
		}

		wg.Wait()
		close(counts)

		seen := make(map[int64]bool, n)
		for c := range counts {
			seen[c] = true
		}

		assert.Len(t, seen, n)
		assert.True(t, seen[1])
		assert.True(t, seen[n])
	})
}
