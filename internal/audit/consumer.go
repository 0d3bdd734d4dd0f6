package audit

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/messaging"
	"go.uber.org/zap"
)

// saveTimeout bounds a single audit write.
const saveTimeout = 10 * time.Second

// NewConsumers creates one consumer per audited topic, all writing to store.
func NewConsumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	timeout := messaging.WithHandlerTimeout(saveTimeout)

	return []messaging.Runnable{
		messaging.NewConsumer[events.RateLimitDenied](
			subscriber, events.TopicRateLimitDenied, store.SaveDenial, logger, timeout),
		messaging.NewConsumer[events.Metering](
			subscriber, events.TopicMetering, store.SaveMetering, logger, timeout),
	}
}
