package ratelimit

import "fmt"

// FailureMode decides the verdict when the store cannot be reached.
type FailureMode int

const (
	// FailOpen admits the request when the store fails. This is the default so that
	// a counter outage never takes the protected routes down with it.
	FailOpen FailureMode = iota
	// FailClosed denies the request when the store fails.
	FailClosed
	// FailLocal counts the request in a process-local fallback store when the
	// shared store fails. Each replica then enforces the limit on its own, so the
	// effective limit across the fleet is limit times the replica count.
	// Without a fallback store, or when it fails too, the request is admitted.
	FailLocal
)

func (m FailureMode) String() string {
	switch m {
	case FailOpen:
		return "open"
	case FailClosed:
		return "closed"
	case FailLocal:
		return "local"
	default:
		return fmt.Sprintf("FailureMode(%d)", int(m))
	}
}
