package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/handlers"
	"go.uber.org/zap"
)

// CostGuard returns a Huma middleware that enforces tier quotas on operations
// whose metadata names a costguard.Category under costguard.MetadataKey.
//
// Daily quota state is reported in the X-RateLimit-* headers and burst state in
// X-RateLimit-Burst-*. Allowed decisions are stored in the request context.
func CostGuard(
	api huma.API,
	guard *costguard.Guard,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		category, ok := operationCategory(ctx)
		if !ok {
			next(ctx)

			return
		}

		subject := costguard.Subject{
			UserID:         strings.TrimSpace(ctx.Header(handlers.HeaderUserID)),
			OrganizationID: strings.TrimSpace(ctx.Header(handlers.HeaderOrganizationID)),
		}

		if subject.UserID == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "unauthorized")

			return
		}

		if subject.OrganizationID == "" {
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, "organization not configured")

			return
		}

		decision, err := guard.Check(ctx.Context(), subject, category)
		if err != nil {
			writeGuardError(api, ctx, err, logger)

			return
		}

		SetRateLimitHeaders(ctx, decision.Daily)
		SetBurstHeaders(ctx, decision.Burst)

		if !decision.Allowed {
			SetRetryAfter(ctx, decision.RetryAfter(time.Now()))

			var details []error
			if plan := decision.Tier.UpgradePlan(); plan != "" {
				details = append(details, &huma.ErrorDetail{
					Message:  "upgrade to raise this quota",
					Location: "tier",
					Value:    plan,
				})
			}

			msg := fmt.Sprintf("%s for %s on the %s tier", decision.Reason, category, decision.Tier)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg, details...)

			return
		}

		ctx = huma.WithContext(ctx, costguard.ContextWithDecision(ctx.Context(), decision))

		next(ctx)
	}
}

func operationCategory(ctx huma.Context) (costguard.Category, bool) {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return "", false
	}

	category, ok := op.Metadata[costguard.MetadataKey].(costguard.Category)

	return category, ok
}

func writeGuardError(api huma.API, ctx huma.Context, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, costguard.ErrOrganizationNotFound):
		_ = huma.WriteErr(api, ctx, http.StatusForbidden, "organization not found")
	case errors.Is(err, costguard.ErrUnknownCategory):
		_ = huma.WriteErr(api, ctx, http.StatusNotFound, "unknown cost category")
	default:
		logger.Error("cost guard check failed", zap.Error(err))
		_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")
	}
}
