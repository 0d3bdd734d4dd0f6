package ratelimit_test

import (
	"testing"
	"time"

	"github.com/serroba/tour-admission/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestWindow_Expired(t *testing.T) {
	t.Parallel()

	start := time.UnixMilli(1_700_000_000_000)
	w := ratelimit.Window{Count: 1, Start: start, Length: time.Second}

	assert.Equal(t, start.Add(time.Second), w.Reset())
	assert.False(t, w.Expired(start.Add(999*time.Millisecond)))
	assert.True(t, w.Expired(start.Add(time.Second)))
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name   string
		reset  time.Time
		header string
	}{
		{name: "rounds up partial seconds", reset: now.Add(1500 * time.Millisecond), header: "2"},
		{name: "exact seconds", reset: now.Add(3 * time.Second), header: "3"},
		{name: "at least one second", reset: now.Add(10 * time.Millisecond), header: "1"},
		{name: "reset already passed", reset: now.Add(-time.Second), header: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := ratelimit.Result{Reset: tt.reset}

			assert.Equal(t, tt.header, r.RetryAfterHeader(now))
		})
	}
}

func TestResult_ResetMillis(t *testing.T) {
	t.Parallel()

	r := ratelimit.Result{Reset: time.UnixMilli(1_700_000_001_000)}

	assert.Equal(t, int64(1_700_000_001_000), r.ResetMillis())
}

func TestWindowFromMillis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ms       int64
		expected time.Duration
	}{
		{name: "one second", ms: 1000, expected: time.Second},
		{name: "zero", ms: 0, expected: 0},
		{name: "negative", ms: -5, expected: -5 * time.Millisecond},
		{name: "largest representable", ms: ratelimit.MaxWindowMillis, expected: time.Duration(ratelimit.MaxWindowMillis) * time.Millisecond},
		{name: "overflow", ms: ratelimit.MaxWindowMillis + 1, expected: 0},
		{name: "far overflow", ms: 18_446_744_073_710, expected: 0},
		{name: "negative overflow", ms: -ratelimit.MaxWindowMillis - 1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ratelimit.WindowFromMillis(tt.ms))
		})
	}
}
