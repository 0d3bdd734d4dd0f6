// Package audit persists rate limit denials and cost metering decisions.
package audit

import (
	"context"

	"github.com/serroba/tour-admission/internal/events"
)

// Store defines the interface for persisting audit events.
// Implementations must tolerate redelivery of the same event.
type Store interface {
	SaveDenial(ctx context.Context, event *events.RateLimitDenied) error
	SaveMetering(ctx context.Context, event *events.Metering) error
}
