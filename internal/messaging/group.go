package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable represents a component that can be started and shutdown.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup manages multiple runnables that share one subscriber.
type ConsumerGroup struct {
	members    []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a new consumer group.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a runnable to the group.
func (g *ConsumerGroup) Add(members ...Runnable) {
	g.members = append(g.members, members...)
}

// Len returns the number of registered runnables.
func (g *ConsumerGroup) Len() int {
	return len(g.members)
}

// Start starts all members in registration order.
// If one fails, the members already started are shut down in reverse order.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, member := range g.members {
		if err := member.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.members[j].Shutdown()
			}

			return fmt.Errorf("failed to start consumer %d: %w", i, err)
		}
	}

	g.logger.Info("consumer group started", zap.Int("count", len(g.members)))

	return nil
}

// Shutdown stops all members in reverse order, then closes the subscriber.
// Every member is stopped even if some fail; all errors are returned joined.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	var errs []error

	for i := len(g.members) - 1; i >= 0; i-- {
		if err := g.members[i].Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := g.subscriber.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
