package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/serroba/tour-admission/internal/ratelimit"
)

// AdmissionHandler exposes the shared limiter to services that do not link this module.
type AdmissionHandler struct {
	limiter ratelimit.Limiter
	now     func() time.Time
}

// NewAdmissionHandler creates a new admission handler.
func NewAdmissionHandler(limiter ratelimit.Limiter) *AdmissionHandler {
	return &AdmissionHandler{limiter: limiter, now: time.Now}
}

// Check records one call and returns the verdict. Denials are a 200 with success=false;
// invalid limits, windows or prefixes, including windows too long to represent,
// are denied rather than rejected.
func (h *AdmissionHandler) Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error) {
	window := ratelimit.WindowFromMillis(req.Body.WindowMs)

	result := h.limiter.Check(ctx, req.Body.Identifier, req.Body.Limit, window, req.Body.Prefix)

	resp := &CheckResponse{}
	resp.Headers.Limit = strconv.FormatInt(result.Limit, 10)
	resp.Headers.Remaining = strconv.FormatInt(result.Remaining, 10)
	resp.Headers.Reset = strconv.FormatInt(result.ResetMillis(), 10)

	resp.Body.Success = result.Success
	resp.Body.Limit = result.Limit
	resp.Body.Remaining = result.Remaining
	resp.Body.Reset = result.ResetMillis()

	if !result.Success {
		resp.Headers.RetryAfter = result.RetryAfterHeader(h.now())
		resp.Body.RetryAfter = int64(result.RetryAfter(h.now()) / time.Second)
	}

	return resp, nil
}
