package middleware

import (
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

// Rate limit response headers.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"

	burstHeaderPrefix = "X-RateLimit-Burst-"
)

// SetRateLimitHeaders writes the limit, remaining and reset (epoch milliseconds) headers for result.
func SetRateLimitHeaders(ctx huma.Context, result ratelimit.Result) {
	setHeaders(ctx, "X-RateLimit-", result)
}

// SetBurstHeaders writes result under the X-RateLimit-Burst-* headers.
func SetBurstHeaders(ctx huma.Context, result ratelimit.Result) {
	setHeaders(ctx, burstHeaderPrefix, result)
}

// SetRetryAfter writes the Retry-After header in whole seconds.
func SetRetryAfter(ctx huma.Context, wait time.Duration) {
	seconds := max(int64((wait+time.Second-1)/time.Second), 1)
	ctx.SetHeader(HeaderRetryAfter, strconv.FormatInt(seconds, 10))
}

func setHeaders(ctx huma.Context, prefix string, result ratelimit.Result) {
	ctx.SetHeader(prefix+"Limit", strconv.FormatInt(result.Limit, 10))
	ctx.SetHeader(prefix+"Remaining", strconv.FormatInt(result.Remaining, 10))
	ctx.SetHeader(prefix+"Reset", strconv.FormatInt(result.ResetMillis(), 10))
}
