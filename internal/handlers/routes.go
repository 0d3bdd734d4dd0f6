package handlers

import (
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

// Handlers groups the handlers served by the API.
type Handlers struct {
	Admission     *AdmissionHandler
	Cost          *CostHandler
	Reviews       *ReviewHandler
	Notifications *NotificationHandler
}

// RegisterRoutes registers all API routes with their rate limit and cost guard metadata.
func RegisterRoutes(api huma.API, h Handlers) {
	// The admission API is the limiter itself; callers are trusted services.
	huma.Register(api, huma.Operation{
		OperationID: "check-rate-limit",
		Method:      http.MethodPost,
		Path:        "/v1/ratelimit/check",
		Summary:     "Check a rate limit",
		Description: "Records one call for the identifier under the prefix and returns whether it is admitted.",
		Tags:        []string{"Rate limiting"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Admission.Check)

	for _, category := range costguard.Categories() {
		huma.Register(api, huma.Operation{
			OperationID: fmt.Sprintf("admit-%s", category),
			Method:      http.MethodPost,
			Path:        fmt.Sprintf("/v1/cost/%s/admit", category),
			Summary:     fmt.Sprintf("Admit a billable %s call", category),
			Description: "Consumes one burst and one daily slot of the organization's quota.",
			Tags:        []string{"Cost guard"},
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
				costguard.MetadataKey: category,
			},
		}, h.Cost.Admit)
	}

	// Limited per client IP and share token, so one visitor cannot exhaust a link for others.
	huma.Register(api, huma.Operation{
		OperationID:   "submit-public-review",
		Method:        http.MethodPost,
		Path:          "/v1/public/reviews/{token}",
		Summary:       "Submit a public review",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusAccepted,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Prefix: ratelimit.PrefixPublicReviews,
				Key:    ratelimit.KeyClientIPParam,
				Param:  "token",
			},
		},
	}, h.Reviews.Submit)

	huma.Register(api, huma.Operation{
		OperationID:   "send-notification",
		Method:        http.MethodPost,
		Path:          "/v1/notifications/send",
		Summary:       "Queue a notification",
		Tags:          []string{"Notifications"},
		DefaultStatus: http.StatusAccepted,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Prefix: ratelimit.PrefixNotificationsSend,
				Key:    ratelimit.KeyUser,
			},
		},
	}, h.Notifications.Send)
}
