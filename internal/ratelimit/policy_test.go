package ratelimit_test

import (
	"testing"
	"time"

	"github.com/serroba/tour-admission/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule ratelimit.Rule
		err  error
	}{
		{name: "valid", rule: ratelimit.Rule{Prefix: "p", Limit: 1, Window: time.Second}},
		{name: "missing prefix", rule: ratelimit.Rule{Limit: 1, Window: time.Second}, err: ratelimit.ErrMissingPrefix},
		{name: "zero limit", rule: ratelimit.Rule{Prefix: "p", Window: time.Second}, err: ratelimit.ErrInvalidLimit},
		{name: "zero window", rule: ratelimit.Rule{Prefix: "p", Limit: 1}, err: ratelimit.ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.rule.Validate()
			if tt.err == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRule_Evaluate(t *testing.T) {
	t.Parallel()

	start := time.UnixMilli(1_700_000_000_000)
	rule := ratelimit.Rule{Prefix: "p", Limit: 2, Window: time.Minute}

	at := func(count int64) ratelimit.Result {
		return rule.Evaluate(ratelimit.Window{Count: count, Start: start, Length: time.Minute})
	}

	assert.Equal(t, ratelimit.Result{Success: true, Limit: 2, Remaining: 1, Reset: start.Add(time.Minute)}, at(1))
	assert.Equal(t, ratelimit.Result{Success: true, Limit: 2, Remaining: 0, Reset: start.Add(time.Minute)}, at(2))
	assert.Equal(t, ratelimit.Result{Success: false, Limit: 2, Remaining: 0, Reset: start.Add(time.Minute)}, at(7))
}

func TestPolicyBuilder(t *testing.T) {
	t.Parallel()

	policy := ratelimit.NewPolicyBuilder().
		AddRule(ratelimit.PrefixNotificationsSend, 40, 5*time.Minute).
		AddRule(ratelimit.PrefixPublicReviews, 8, 15*time.Minute).
		AddRule(ratelimit.PrefixPublicReviews, 10, 15*time.Minute).
		Build()

	rule, ok := policy.Rule(ratelimit.PrefixPublicReviews)
	require.True(t, ok)
	assert.Equal(t, int64(10), rule.Limit, "later rules replace earlier ones")

	_, ok = policy.Rule("missing")
	assert.False(t, ok)
	assert.NoError(t, policy.Validate())
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	policy := ratelimit.NewPolicyBuilder().
		AddRule("bad:limit", 0, time.Minute).
		AddRule("bad:window", 5, 0).
		AddRule("ok", 5, time.Minute).
		Build()

	err := policy.Validate()

	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidWindow)
}

func TestPolicy_NilRule(t *testing.T) {
	t.Parallel()

	var policy *ratelimit.Policy

	_, ok := policy.Rule(ratelimit.PrefixRead)

	assert.False(t, ok)
}

func TestPolicy_Prefixes(t *testing.T) {
	t.Parallel()

	policy := ratelimit.NewPolicyBuilder().
		AddRule(ratelimit.PrefixWrite, 60, time.Minute).
		AddRule(ratelimit.PrefixPublicReviews, 8, 15*time.Minute).
		AddRule(ratelimit.PrefixRead, 300, time.Minute).
		Build()

	assert.Equal(t, []string{
		ratelimit.PrefixRead,
		ratelimit.PrefixWrite,
		ratelimit.PrefixPublicReviews,
	}, policy.Prefixes())

	var empty *ratelimit.Policy
	assert.Empty(t, empty.Prefixes())
}
