package ratelimit

import (
	"strconv"
	"strings"
)

// UnknownIdentifier is used when a caller cannot be identified, so that all
// anonymous callers share one bucket instead of bypassing the limit.
const UnknownIdentifier = "unknown"

const keyNamespace = "rl"

// BuildKey combines prefix and identifier into a storage key.
// The prefix is length-prefixed, so "a:b"+"c" and "a"+"b:c" never collide.
func BuildKey(prefix, identifier string) string {
	var b strings.Builder

	b.Grow(len(keyNamespace) + len(prefix) + len(identifier) + 8)
	b.WriteString(keyNamespace)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(len(prefix)))
	b.WriteByte(':')
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(NormalizeIdentifier(identifier))

	return b.String()
}

// NormalizeIdentifier trims identifier and substitutes UnknownIdentifier when it is blank.
func NormalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return UnknownIdentifier
	}

	return identifier
}

// JoinIdentifier builds a composite identifier such as "ip:token".
// Blank parts are replaced with UnknownIdentifier.
func JoinIdentifier(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = NormalizeIdentifier(p)
	}

	return strings.Join(normalized, ":")
}
