package ratelimit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidLimit  = errors.New("rate limit must be positive")
	ErrInvalidWindow = errors.New("rate limit window must be positive")
	ErrMissingPrefix = errors.New("rate limit prefix is required")
)

// Well-known prefixes for the routes this service protects.
const (
	PrefixRead              = "http:read"
	PrefixWrite             = "http:write"
	PrefixPublicReviews     = "social:reviews:public"
	PrefixNotificationsSend = "api:notifications:send"
)

// Rule is the deployment configuration for one protected operation.
type Rule struct {
	Prefix string
	Limit  int64
	Window time.Duration
}

// Validate reports whether the rule can be enforced.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Prefix) == "" {
		return ErrMissingPrefix
	}

	if r.Limit <= 0 {
		return fmt.Errorf("%w: got %d for %q", ErrInvalidLimit, r.Limit, r.Prefix)
	}

	if r.Window <= 0 {
		return fmt.Errorf("%w: got %s for %q", ErrInvalidWindow, r.Window, r.Prefix)
	}

	return nil
}

// Evaluate turns a post-increment window into a verdict.
// Reset is derived from the rule's window, since limits may change between deployments.
func (r Rule) Evaluate(w Window) Result {
	return Result{
		Success:   w.Count <= r.Limit,
		Limit:     r.Limit,
		Remaining: max(0, r.Limit-w.Count),
		Reset:     w.Start.Add(r.Window),
	}
}

// String renders the rule for logs and error messages.
func (r Rule) String() string {
	return fmt.Sprintf("%s: %d per %s", r.Prefix, r.Limit, r.Window)
}

// Policy holds the configured rules, keyed by prefix.
type Policy struct {
	Rules map[string]Rule
}

// Rule returns the configured rule for prefix.
func (p *Policy) Rule(prefix string) (Rule, bool) {
	if p == nil {
		return Rule{}, false
	}

	r, ok := p.Rules[prefix]

	return r, ok
}

// Prefixes returns the configured prefixes in sorted order.
func (p *Policy) Prefixes() []string {
	if p == nil {
		return nil
	}

	out := make([]string, 0, len(p.Rules))
	for prefix := range p.Rules {
		out = append(out, prefix)
	}

	sort.Strings(out)

	return out
}

// PolicyBuilder assembles a Policy.
type PolicyBuilder struct {
	rules map[string]Rule
}

// NewPolicyBuilder creates an empty policy builder.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{rules: make(map[string]Rule)}
}

// AddRule registers a rule, replacing any earlier rule with the same prefix.
func (b *PolicyBuilder) AddRule(prefix string, limit int64, window time.Duration) *PolicyBuilder {
	b.rules[prefix] = Rule{Prefix: prefix, Limit: limit, Window: window}

	return b
}

// Build returns the policy. Invalid rules are kept: the limiter denies on them.
func (b *PolicyBuilder) Build() *Policy {
	rules := make(map[string]Rule, len(b.rules))
	for k, v := range b.rules {
		rules[k] = v
	}

	return &Policy{Rules: rules}
}

// Validate returns every rule error in the policy joined together.
func (p *Policy) Validate() error {
	var errs []error

	for _, r := range p.Rules {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
