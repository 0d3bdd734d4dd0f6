package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/tour-admission/internal/audit"
	auditstore "github.com/serroba/tour-admission/internal/audit/store"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/messaging"
	"go.uber.org/zap"
)

// PublisherGroupPackage provides the Redis stream publisher and a typed publish function per event.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client:     do.MustInvoke[*RedisConnection](i).Client,
				Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
			},
			messaging.NewZapLoggerAdapter(do.MustInvoke[*zap.Logger](i)),
		)
		if err != nil {
			return nil, fmt.Errorf("create redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	providePublish[events.RateLimitDenied](i, events.TopicRateLimitDenied)
	providePublish[events.Metering](i, events.TopicMetering)
	providePublish[events.ReviewSubmitted](i, events.TopicReviewSubmitted)
	providePublish[events.NotificationRequested](i, events.TopicNotificationRequested)
}

func providePublish[T any](i *do.Injector, topic string) {
	do.Provide(i, func(i *do.Injector) (messaging.Publish[T], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[T](group.Publisher(), topic), nil
	})
}

// ConsumerGroupPackage provides the audit consumer group reading from Redis streams.
// Events are written to PostgreSQL when a database is configured, otherwise logged.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (audit.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.DatabaseURL == "" {
			return auditstore.NewNoop(logger.Named("audit")), nil
		}

		pg := auditstore.NewPostgres(do.MustInvoke[*PostgresConnection](i).Pool)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("create audit schema: %w", err)
		}

		return pg, nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*RedisConnection](i).Client,
				Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
				ConsumerGroup: opts.ConsumerGroup,
			},
			messaging.NewZapLoggerAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create redis stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(audit.NewConsumers(subscriber, do.MustInvoke[audit.Store](i), logger.Named("audit"))...)

		return group, nil
	})
}
