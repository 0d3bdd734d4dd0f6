// Package events defines the messages this service publishes.
package events

import "time"

const (
	TopicRateLimitDenied       = "ratelimit.denied"
	TopicMetering              = "ratelimit.metering"
	TopicReviewSubmitted       = "reviews.submitted"
	TopicNotificationRequested = "notifications.requested"
)

// Metering statuses.
const (
	StatusAllowed = "allowed"
	StatusDenied  = "denied"
)

// RateLimitDenied is emitted when the HTTP middleware rejects a request.
type RateLimitDenied struct {
	ID         string    `json:"id"`
	Prefix     string    `json:"prefix"`
	Identifier string    `json:"identifier"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Limit      int64     `json:"limit"`
	Reset      time.Time `json:"reset"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Metering records a cost guard decision for a billable third-party call.
type Metering struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	Category       string    `json:"category"`
	Tier           string    `json:"tier"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason"`
	RemainingDaily int64     `json:"remainingDaily"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// ReviewSubmitted carries a public review accepted for asynchronous persistence.
type ReviewSubmitted struct {
	ID           string    `json:"id"`
	ShareToken   string    `json:"shareToken"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"reviewerName"`
	TripName     string    `json:"tripName,omitempty"`
	Destination  string    `json:"destination,omitempty"`
	ClientIP     string    `json:"clientIp"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// NotificationRequested carries an admin notification request for the delivery workers.
type NotificationRequested struct {
	ID          string            `json:"id"`
	RequestedBy string            `json:"requestedBy"`
	Type        string            `json:"type"`
	TripID      string            `json:"tripId,omitempty"`
	UserID      string            `json:"userId,omitempty"`
	Email       string            `json:"email,omitempty"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
	RequestedAt time.Time         `json:"requestedAt"`
}
