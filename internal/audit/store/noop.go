package store

import (
	"context"

	"github.com/serroba/tour-admission/internal/audit"
	"github.com/serroba/tour-admission/internal/events"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of audit.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op audit store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveDenial(_ context.Context, event *events.RateLimitDenied) error {
	n.logger.Info("rate limit denial received",
		zap.String("id", event.ID),
		zap.String("prefix", event.Prefix),
		zap.String("identifier", event.Identifier),
		zap.String("path", event.Path),
		zap.Int64("limit", event.Limit),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}

func (n *Noop) SaveMetering(_ context.Context, event *events.Metering) error {
	n.logger.Info("metering event received",
		zap.String("id", event.ID),
		zap.String("organizationId", event.OrganizationID),
		zap.String("category", event.Category),
		zap.String("tier", event.Tier),
		zap.String("status", event.Status),
		zap.String("reason", event.Reason),
		zap.Int64("remainingDaily", event.RemainingDaily),
	)

	return nil
}

// Compile-time check.
var _ audit.Store = (*Noop)(nil)
