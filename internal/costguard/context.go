package costguard

import "context"

// MetadataKey is the operation metadata key holding the Category that guards an endpoint.
const MetadataKey = "costCategory"

type decisionKey struct{}

// ContextWithDecision stores an allowed decision for the guarded handler.
func ContextWithDecision(ctx context.Context, d *Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, d)
}

// DecisionFromContext returns the decision stored by ContextWithDecision, or nil.
func DecisionFromContext(ctx context.Context) *Decision {
	d, _ := ctx.Value(decisionKey{}).(*Decision)

	return d
}
