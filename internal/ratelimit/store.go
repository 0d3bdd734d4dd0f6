package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit counter storage.
type Store interface {
	// Hit atomically records one call for key and returns the window after the increment.
	// A missing or expired window is replaced by a fresh one with Count 1 starting now,
	// where now is taken from the store's own clock whenever the store has one.
	// Implementations must never split this into a read followed by a write.
	Hit(ctx context.Context, key string, window time.Duration) (Window, error)
}

// Pruner is implemented by stores that keep expired windows around until swept.
type Pruner interface {
	// Prune deletes expired windows and returns how many were removed.
	Prune(ctx context.Context) (int64, error)
}
