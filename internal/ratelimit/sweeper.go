package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically prunes expired windows from a Pruner.
// Stale windows are superseded in place on their next hit, so sweeping only bounds storage growth.
type Sweeper struct {
	pruner   Pruner
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(pruner Pruner, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		pruner:   pruner,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.loop(ctx)

	return nil
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Warn("failed to prune expired rate limit windows", zap.Error(err))

		return
	}

	if removed > 0 {
		s.logger.Debug("pruned expired rate limit windows", zap.Int64("removed", removed))
	}
}

// Shutdown stops the sweep loop and waits for it to exit. It is safe on a nil or unstarted Sweeper.
func (s *Sweeper) Shutdown() error {
	if s == nil || s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}
