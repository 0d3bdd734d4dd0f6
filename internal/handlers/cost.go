package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/costguard"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

// CostHandler reports cost guard admissions. The check itself runs in the CostGuard middleware.
type CostHandler struct{}

// NewCostHandler creates a new cost handler.
func NewCostHandler() *CostHandler {
	return &CostHandler{}
}

// Admit returns the decision stored by the cost guard for this request.
func (h *CostHandler) Admit(ctx context.Context, _ *struct{}) (*CostAdmitResponse, error) {
	decision := costguard.DecisionFromContext(ctx)
	if decision == nil {
		return nil, huma.Error500InternalServerError("cost guard did not run")
	}

	resp := &CostAdmitResponse{}
	resp.Body.Allowed = decision.Allowed
	resp.Body.Category = string(decision.Category)
	resp.Body.Tier = string(decision.Tier)
	resp.Body.Burst = quotaStatus(decision.Burst)
	resp.Body.Daily = quotaStatus(decision.Daily)

	return resp, nil
}

func quotaStatus(r ratelimit.Result) QuotaStatus {
	return QuotaStatus{Limit: r.Limit, Remaining: r.Remaining, Reset: r.ResetMillis()}
}
