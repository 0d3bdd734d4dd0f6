package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/messaging"
	"go.uber.org/zap"
)

const defaultReviewerName = "Guest"

// ReviewHandler accepts public reviews submitted through share links.
type ReviewHandler struct {
	publish messaging.Publish[events.ReviewSubmitted]
	logger  *zap.Logger
	now     func() time.Time
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(publish messaging.Publish[events.ReviewSubmitted], logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{publish: publish, logger: logger, now: time.Now}
}

// Submit queues a review for persistence. Token resolution and duplicate
// detection happen downstream in the review workers.
func (h *ReviewHandler) Submit(ctx context.Context, req *SubmitReviewRequest) (*AcceptedResponse, error) {
	reviewer := strings.TrimSpace(req.Body.ReviewerName)
	if reviewer == "" {
		reviewer = defaultReviewerName
	}

	meta := RequestMetaFromContext(ctx)
	event := &events.ReviewSubmitted{
		ID:           uuid.NewString(),
		ShareToken:   req.Token,
		Rating:       req.Body.Rating,
		Comment:      strings.TrimSpace(req.Body.Comment),
		ReviewerName: reviewer,
		TripName:     strings.TrimSpace(req.Body.TripName),
		Destination:  strings.TrimSpace(req.Body.Destination),
		ClientIP:     meta.ClientIP,
		SubmittedAt:  h.now(),
	}

	if err := h.publish(ctx, event); err != nil {
		h.logger.Error("failed to publish review",
			zap.String("id", event.ID),
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)

		return nil, huma.Error503ServiceUnavailable("review could not be queued, please retry")
	}

	return accepted(event.ID), nil
}

func accepted(id string) *AcceptedResponse {
	resp := &AcceptedResponse{Status: http.StatusAccepted}
	resp.Body.ID = id
	resp.Body.Status = "queued"

	return resp
}
