package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/tour-admission/internal/ratelimit"
)

// DefaultMemoryCleanupThreshold is the window count above which Hit sweeps expired entries.
const DefaultMemoryCleanupThreshold = 5000

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// It is atomic within a single process only.
type RateLimitMemoryStore struct {
	mu               sync.Mutex
	windows          map[string]ratelimit.Window
	now              func() time.Time
	cleanupThreshold int
}

// MemoryOption configures a RateLimitMemoryStore.
type MemoryOption func(*RateLimitMemoryStore)

// WithMemoryClock sets the clock used as the store's notion of now.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *RateLimitMemoryStore) {
		s.now = now
	}
}

// WithCleanupThreshold sets how many windows may accumulate before expired ones are swept on write.
func WithCleanupThreshold(n int) MemoryOption {
	return func(s *RateLimitMemoryStore) {
		s.cleanupThreshold = n
	}
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore(opts ...MemoryOption) *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{
		windows:          make(map[string]ratelimit.Window),
		now:              time.Now,
		cleanupThreshold: DefaultMemoryCleanupThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RateLimitMemoryStore) Hit(ctx context.Context, key string, window time.Duration) (ratelimit.Window, error) {
	if err := ctx.Err(); err != nil {
		return ratelimit.Window{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	w, ok := s.windows[key]
	// The window length is the caller's, not the stored one.
	w.Length = window

	if !ok || w.Expired(now) {
		w = ratelimit.Window{Key: key, Count: 1, Start: now, Length: window}
	} else {
		w.Count++
	}

	s.windows[key] = w

	if len(s.windows) >= s.cleanupThreshold {
		s.pruneLocked(now)
	}

	return w, nil
}

// Prune removes expired windows.
func (s *RateLimitMemoryStore) Prune(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pruneLocked(s.now()), nil
}

// Len returns the number of windows currently held.
func (s *RateLimitMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.windows)
}

func (s *RateLimitMemoryStore) pruneLocked(now time.Time) int64 {
	var removed int64

	for key, w := range s.windows {
		if w.Expired(now) {
			delete(s.windows, key)

			removed++
		}
	}

	return removed
}

// Compile-time checks.
var (
	_ ratelimit.Store  = (*RateLimitMemoryStore)(nil)
	_ ratelimit.Pruner = (*RateLimitMemoryStore)(nil)
)
