package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tour-admission/internal/ratelimit"
)

// ClientIP extracts the client IP from the request, considering proxies.
// It returns ratelimit.UnknownIdentifier when no address can be found.
func ClientIP(ctx huma.Context) string {
	// First X-Forwarded-For entry is the original client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(ctx.Header("X-Real-IP")); xri != "" {
		return xri
	}

	if addr := ctx.RemoteAddr(); addr != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return addr
		}

		return host
	}

	return ratelimit.UnknownIdentifier
}
