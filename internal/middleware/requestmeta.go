package middleware

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/handlers"
)

// RequestMeta is a middleware that adds request id, client IP, user-agent and
// caller identity to the request context. Incoming X-Request-ID values are
// kept; otherwise newID generates one. The id is echoed in the response.
func RequestMeta(_ huma.API, newID func() string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := strings.TrimSpace(ctx.Header(handlers.HeaderRequestID))
		if requestID == "" {
			requestID = newID()
		}

		meta := handlers.RequestMeta{
			RequestID:      requestID,
			ClientIP:       ClientIP(ctx),
			UserAgent:      ctx.Header("User-Agent"),
			UserID:         strings.TrimSpace(ctx.Header(handlers.HeaderUserID)),
			OrganizationID: strings.TrimSpace(ctx.Header(handlers.HeaderOrganizationID)),
		}

		ctx.SetHeader(handlers.HeaderRequestID, requestID)

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
