package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/messaging"
	"go.uber.org/zap"
)

// NotificationHandler queues admin notification requests.
type NotificationHandler struct {
	publish messaging.Publish[events.NotificationRequested]
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(
	publish messaging.Publish[events.NotificationRequested],
	logger *zap.Logger,
) *NotificationHandler {
	return &NotificationHandler{publish: publish, logger: logger, now: time.Now}
}

// Send queues a notification to a user (by id or email) or to every traveller on a trip.
func (h *NotificationHandler) Send(ctx context.Context, req *SendNotificationRequest) (*AcceptedResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	body := req.Body
	if body.TripID == "" && body.UserID == "" && body.Email == "" {
		return nil, huma.Error400BadRequest("one of tripId, userId or email is required")
	}

	title := strings.TrimSpace(body.Title)
	message := strings.TrimSpace(body.Body)

	if title == "" || message == "" {
		return nil, huma.Error400BadRequest("title and body are required")
	}

	notificationType := strings.TrimSpace(body.Type)
	if notificationType == "" {
		notificationType = "manual"
	}

	event := &events.NotificationRequested{
		ID:          uuid.NewString(),
		RequestedBy: meta.UserID,
		Type:        notificationType,
		TripID:      body.TripID,
		UserID:      body.UserID,
		Email:       strings.ToLower(strings.TrimSpace(body.Email)),
		Title:       title,
		Body:        message,
		Data:        body.Data,
		RequestedAt: h.now(),
	}

	if err := h.publish(ctx, event); err != nil {
		h.logger.Error("failed to publish notification request",
			zap.String("id", event.ID),
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)

		return nil, huma.Error503ServiceUnavailable("notification could not be queued, please retry")
	}

	h.logger.Info("notification queued",
		zap.String("id", event.ID),
		zap.String("requested_by", meta.UserID),
		zap.String("type", notificationType),
		zap.String("request_id", meta.RequestID),
	)

	return accepted(event.ID), nil
}
