package ratelimit

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Scope categorizes a request when no endpoint-specific rule is configured.
type Scope string

const (
	// ScopeRead applies to read operations (GET, HEAD, OPTIONS).
	ScopeRead Scope = "read"
	// ScopeWrite applies to write operations (POST, PUT, PATCH, DELETE).
	ScopeWrite Scope = "write"
)

// Prefix returns the policy prefix for the scope.
func (s Scope) Prefix() string {
	if s == ScopeRead {
		return PrefixRead
	}

	return PrefixWrite
}

// KeySource selects how the identifier is derived from a request.
type KeySource string

const (
	// KeyClientIP identifies callers by client IP.
	KeyClientIP KeySource = "ip"
	// KeyClientIPParam scopes the limit to one resource per client: "ip:<param>".
	KeyClientIPParam KeySource = "ip+param"
	// KeyUser identifies callers by the authenticated user id.
	KeyUser KeySource = "user"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limit configuration.
// This can be attached to Huma operations via the Metadata field.
type EndpointConfig struct {
	// Prefix names the policy rule for this endpoint.
	Prefix string

	// Limit and Window override the policy rule when Limit is non-zero.
	// A negative Limit is kept as-is and denies every request.
	Limit  int64
	Window time.Duration

	// Key selects the identifier source. Empty means KeyClientIP.
	Key KeySource

	// Param is the path parameter combined with the client IP for KeyClientIPParam.
	Param string

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// Binding is a resolved rule together with how to identify the caller.
type Binding struct {
	Rule  Rule
	Key   KeySource
	Param string
}

// RuleResolver determines which rule applies to a given request.
// It returns false when the request is not rate limited.
type RuleResolver interface {
	Resolve(ctx huma.Context) (Binding, bool)
}

// MethodScopeResolver resolves rules based on HTTP method.
// GET, HEAD, OPTIONS use the read rule; all other methods use the write rule.
type MethodScopeResolver struct {
	policy *Policy
}

// NewMethodScopeResolver creates a new method-based resolver.
func NewMethodScopeResolver(policy *Policy) *MethodScopeResolver {
	return &MethodScopeResolver{policy: policy}
}

// ScopeFor returns the scope for an HTTP method.
func ScopeFor(method string) Scope {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return ScopeRead
	default:
		return ScopeWrite
	}
}

// Resolve returns the read or write rule keyed by client IP.
func (r *MethodScopeResolver) Resolve(ctx huma.Context) (Binding, bool) {
	return Binding{Rule: r.lookup(ScopeFor(ctx.Method()).Prefix()), Key: KeyClientIP}, true
}

// lookup returns the policy rule for prefix. A missing rule yields a zero limit,
// which the limiter treats as a configuration error and denies.
func (r *MethodScopeResolver) lookup(prefix string) Rule {
	if rule, ok := r.policy.Rule(prefix); ok {
		return rule
	}

	return Rule{Prefix: prefix}
}

// OperationRuleResolver resolves rules from operation metadata first,
// then falls back to method-based detection.
type OperationRuleResolver struct {
	fallback *MethodScopeResolver
}

// NewOperationRuleResolver creates a new operation-aware resolver.
func NewOperationRuleResolver(policy *Policy) *OperationRuleResolver {
	return &OperationRuleResolver{
		fallback: NewMethodScopeResolver(policy),
	}
}

// Resolve returns the binding for a request, checking operation metadata first.
func (r *OperationRuleResolver) Resolve(ctx huma.Context) (Binding, bool) {
	cfg := GetEndpointConfig(ctx)
	if cfg == nil {
		return r.fallback.Resolve(ctx)
	}

	if cfg.Disabled {
		return Binding{}, false
	}

	key := cfg.Key
	if key == "" {
		key = KeyClientIP
	}

	if cfg.Limit != 0 {
		return Binding{
			Rule:  Rule{Prefix: cfg.Prefix, Limit: cfg.Limit, Window: cfg.Window},
			Key:   key,
			Param: cfg.Param,
		}, true
	}

	if cfg.Prefix == "" {
		binding, ok := r.fallback.Resolve(ctx)
		binding.Key = key
		binding.Param = cfg.Param

		return binding, ok
	}

	return Binding{Rule: r.fallback.lookup(cfg.Prefix), Key: key, Param: cfg.Param}, true
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
