package ratelimit

import (
	"math"
	"strconv"
	"time"
)

// MaxWindowMillis is the longest window, in milliseconds, that fits in a time.Duration.
const MaxWindowMillis = math.MaxInt64 / int64(time.Millisecond)

// WindowFromMillis converts a window in milliseconds to a Duration.
// Values that do not fit yield 0, which Rule.Validate rejects.
func WindowFromMillis(ms int64) time.Duration {
	if ms > MaxWindowMillis || ms < -MaxWindowMillis {
		return 0
	}

	return time.Duration(ms) * time.Millisecond
}

// Window is the persisted counter for one key.
// Windows are fixed-length from their first hit, not aligned to the clock.
type Window struct {
	Key    string
	Count  int64
	Start  time.Time
	Length time.Duration
}

// Reset returns the instant at which the window expires.
func (w Window) Reset() time.Time {
	return w.Start.Add(w.Length)
}

// Expired reports whether now is at or past the end of the window.
func (w Window) Expired(now time.Time) bool {
	return !now.Before(w.Reset())
}

// Result is the verdict returned for a single check.
type Result struct {
	Success   bool
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// ResetMillis returns Reset as milliseconds since the Unix epoch.
func (r Result) ResetMillis() int64 {
	return r.Reset.UnixMilli()
}

// RetryAfter returns the whole-second wait until Reset, never less than one second.
func (r Result) RetryAfter(now time.Time) time.Duration {
	wait := r.Reset.Sub(now)
	seconds := (wait + time.Second - 1) / time.Second

	if seconds < 1 {
		seconds = 1
	}

	return seconds * time.Second
}

// RetryAfterHeader formats RetryAfter for the Retry-After header.
func (r Result) RetryAfterHeader(now time.Time) string {
	return strconv.FormatInt(int64(r.RetryAfter(now)/time.Second), 10)
}
