package handlers

// CheckRequest is the request body for an admission check.
type CheckRequest struct {
	Body struct {
		Identifier string `doc:"Caller or resource being throttled; blank means unknown" example:"198.51.100.4:shareToken123" json:"identifier,omitempty" maxLength:"512"`
		Limit      int64  `doc:"Maximum admitted calls per window"                      example:"5"                           json:"limit"`
		WindowMs   int64  `doc:"Window length in milliseconds"                          example:"1000"                        json:"windowMs"              maximum:"9223372036854"`
		Prefix     string `doc:"Namespace of the limit"                                 example:"social:reviews:public"       json:"prefix"                maxLength:"200"`
	}
}

// RateLimitHeaders are the rate limit headers returned by the admission API.
type RateLimitHeaders struct {
	Limit      string `doc:"Configured limit"                          header:"X-RateLimit-Limit"`
	Remaining  string `doc:"Calls left in the current window"          header:"X-RateLimit-Remaining"`
	Reset      string `doc:"Window end, epoch milliseconds"            header:"X-RateLimit-Reset"`
	RetryAfter string `doc:"Seconds to wait before retrying when denied" header:"Retry-After"`
}

// CheckResponse is the verdict for an admission check.
type CheckResponse struct {
	Headers RateLimitHeaders
	Body    struct {
		Success    bool  `doc:"Whether the call is admitted"                 json:"success"`
		Limit      int64 `doc:"Configured limit"                             json:"limit"`
		Remaining  int64 `doc:"Calls left in the current window"             json:"remaining"`
		Reset      int64 `doc:"Window end, epoch milliseconds"               json:"reset"`
		RetryAfter int64 `doc:"Seconds to wait before retrying, when denied" json:"retryAfter,omitempty"`
	}
}

// QuotaStatus reports one quota of a cost guard decision.
type QuotaStatus struct {
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Reset     int64 `doc:"Epoch milliseconds" json:"reset"`
}

// CostAdmitResponse is returned when a billable call is admitted.
type CostAdmitResponse struct {
	Body struct {
		Allowed  bool        `json:"allowed"`
		Category string      `example:"amadeus" json:"category"`
		Tier     string      `example:"pro"     json:"tier"`
		Burst    QuotaStatus `json:"burst"`
		Daily    QuotaStatus `json:"daily"`
	}
}

// SubmitReviewRequest is a public review submitted through a share link.
type SubmitReviewRequest struct {
	Token string `doc:"Share token of the itinerary or proposal" path:"token" pattern:"^[A-Za-z0-9_-]{8,200}$"`
	Body  struct {
		Rating       int    `json:"rating"                 maximum:"5"   minimum:"1"`
		Comment      string `json:"comment"                maxLength:"2000" minLength:"2"`
		ReviewerName string `json:"reviewerName,omitempty" maxLength:"120"  minLength:"2"`
		TripName     string `json:"tripName,omitempty"     maxLength:"160"`
		Destination  string `json:"destination,omitempty"  maxLength:"120"`
	}
}

// AcceptedResponse acknowledges a request queued for asynchronous processing.
type AcceptedResponse struct {
	Status int
	Body   struct {
		ID     string `doc:"Event id"  json:"id"`
		Status string `example:"queued" json:"status"`
	}
}

// SendNotificationRequest asks the delivery workers to notify a user or every traveller on a trip.
type SendNotificationRequest struct {
	Body struct {
		Type   string            `default:"manual"   json:"type,omitempty"   maxLength:"40"`
		TripID string            `json:"tripId,omitempty" pattern:"^[a-zA-Z0-9_-]{6,80}$"`
		UserID string            `json:"userId,omitempty" pattern:"^[a-zA-Z0-9_-]{6,80}$"`
		Email  string            `format:"email"     json:"email,omitempty"  maxLength:"254"`
		Title  string            `json:"title"       maxLength:"160"         minLength:"1"`
		Body   string            `json:"body"        maxLength:"4000"        minLength:"1"`
		Data   map[string]string `json:"data,omitempty" maxProperties:"20"`
	}
}
