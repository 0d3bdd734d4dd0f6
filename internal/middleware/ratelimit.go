package middleware

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/tour-admission/internal/events"
	"github.com/serroba/tour-admission/internal/handlers"
	"github.com/serroba/tour-admission/internal/messaging"
	"github.com/serroba/tour-admission/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware that admits or rejects requests using limiter.
//
// The rule and identifier source come from resolver, which reads per-endpoint
// configuration from operation metadata (ratelimit.MetadataKey) and otherwise
// falls back to read/write scopes. Rate limit headers are set on every limited
// response; denied requests also get Retry-After and a 429.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	resolver ratelimit.RuleResolver,
	publishDenied messaging.Publish[events.RateLimitDenied],
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		binding, ok := resolver.Resolve(ctx)
		if !ok {
			next(ctx)

			return
		}

		rule := binding.Rule
		identifier := identify(ctx, binding)

		result := limiter.Check(ctx.Context(), identifier, rule.Limit, rule.Window, rule.Prefix)
		SetRateLimitHeaders(ctx, result)

		if result.Success {
			next(ctx)

			return
		}

		now := time.Now()
		SetRetryAfter(ctx, result.RetryAfter(now))

		path := operationPath(ctx)

		logger.Warn("rate limit exceeded",
			zap.String("prefix", rule.Prefix),
			zap.String("identifier", identifier),
			zap.String("method", ctx.Method()),
			zap.String("path", path),
			zap.Int64("limit", result.Limit),
			zap.Duration("window", rule.Window),
		)

		event := &events.RateLimitDenied{
			ID:         uuid.NewString(),
			Prefix:     rule.Prefix,
			Identifier: identifier,
			Method:     ctx.Method(),
			Path:       path,
			Limit:      result.Limit,
			Reset:      result.Reset,
			RequestID:  handlers.RequestMetaFromContext(ctx.Context()).RequestID,
			OccurredAt: now,
		}

		if err := publishDenied(ctx.Context(), event); err != nil {
			logger.Error("failed to publish denial event",
				zap.String("prefix", rule.Prefix),
				zap.Error(err),
			)
		}

		_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")
	}
}

// identify derives the limiter identifier for the binding's key source.
func identify(ctx huma.Context, binding ratelimit.Binding) string {
	switch binding.Key {
	case ratelimit.KeyUser:
		return ratelimit.NormalizeIdentifier(ctx.Header(handlers.HeaderUserID))
	case ratelimit.KeyClientIPParam:
		return ratelimit.JoinIdentifier(ClientIP(ctx), ctx.Param(binding.Param))
	default:
		return ClientIP(ctx)
	}
}

// operationPath returns the route template, or "" outside a registered operation.
func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
