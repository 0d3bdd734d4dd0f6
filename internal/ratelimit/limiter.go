package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Limiter defines the interface for admission control.
type Limiter interface {
	// Check records one call for identifier under prefix and reports whether it is admitted.
	// It never returns an error: store failures are resolved by the limiter's FailureMode.
	Check(ctx context.Context, identifier string, limit int64, window time.Duration, prefix string) Result
}

// FixedWindowLimiter implements Limiter with fixed windows that start at the first call.
// A burst of up to 2*limit calls is possible across a window boundary.
type FixedWindowLimiter struct {
	store    Store
	fallback Store
	mode     FailureMode
	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a FixedWindowLimiter.
type Option func(*FixedWindowLimiter)

// WithFailureMode sets how store failures are resolved. The default is FailOpen.
func WithFailureMode(mode FailureMode) Option {
	return func(l *FixedWindowLimiter) {
		l.mode = mode
	}
}

// WithFallbackStore sets the process-local store used by FailLocal.
func WithFallbackStore(s Store) Option {
	return func(l *FixedWindowLimiter) {
		l.fallback = s
	}
}

// WithMetrics records check outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(l *FixedWindowLimiter) {
		l.metrics = m
	}
}

// WithClock overrides the clock used for fallback results.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindowLimiter) {
		l.now = now
	}
}

// NewFixedWindowLimiter creates a limiter backed by store.
func NewFixedWindowLimiter(store Store, logger *zap.Logger, opts ...Option) *FixedWindowLimiter {
	l := &FixedWindowLimiter{
		store:  store,
		mode:   FailOpen,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Mode returns the configured failure mode.
func (l *FixedWindowLimiter) Mode() FailureMode {
	return l.mode
}

func (l *FixedWindowLimiter) Check(
	ctx context.Context, identifier string, limit int64, window time.Duration, prefix string,
) Result {
	rule := Rule{Prefix: prefix, Limit: limit, Window: window}

	if err := rule.Validate(); err != nil {
		l.logger.Warn("denying check with invalid rule",
			zap.String("prefix", prefix),
			zap.Int64("limit", limit),
			zap.Duration("window", window),
			zap.Error(err),
		)
		l.metrics.observe(prefix, OutcomeInvalid)

		return l.invalidResult(rule)
	}

	key := BuildKey(prefix, identifier)

	started := time.Now()
	w, err := l.store.Hit(ctx, key, window)
	l.metrics.observeDuration(prefix, time.Since(started))

	if err != nil {
		return l.storeFailure(ctx, rule, key, err)
	}

	result := rule.Evaluate(w)

	if result.Success {
		l.metrics.observe(prefix, OutcomeAllowed)
	} else {
		l.metrics.observe(prefix, OutcomeDenied)
	}

	return result
}

func (l *FixedWindowLimiter) invalidResult(rule Rule) Result {
	reset := l.now()
	if rule.Window > 0 {
		reset = reset.Add(rule.Window)
	}

	return Result{
		Success:   false,
		Limit:     rule.Limit,
		Remaining: 0,
		Reset:     reset,
	}
}

func (l *FixedWindowLimiter) storeFailure(ctx context.Context, rule Rule, key string, err error) Result {
	l.logger.Error("rate limit store unavailable",
		zap.String("prefix", rule.Prefix),
		zap.String("key", key),
		zap.Stringer("failure_mode", l.mode),
		zap.Error(err),
	)
	l.metrics.observe(rule.Prefix, OutcomeStoreError)

	if l.mode == FailLocal && l.fallback != nil {
		// The primary may have failed on ctx's deadline; the local count must still happen.
		w, ferr := l.fallback.Hit(context.WithoutCancel(ctx), key, rule.Window)
		if ferr == nil {
			return rule.Evaluate(w)
		}

		l.logger.Error("local fallback store failed, admitting",
			zap.String("prefix", rule.Prefix),
			zap.String("key", key),
			zap.Error(ferr),
		)
	}

	reset := l.now().Add(rule.Window)

	if l.mode == FailClosed {
		return Result{Success: false, Limit: rule.Limit, Remaining: 0, Reset: reset}
	}

	return Result{Success: true, Limit: rule.Limit, Remaining: rule.Limit, Reset: reset}
}
