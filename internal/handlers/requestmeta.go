package handlers

import "context"

// Identity and tracing headers. Identity headers are set by the trusted gateway in front of this service.
const (
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Organization-ID"
	HeaderRequestID      = "X-Request-ID"
)

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for handlers and events.
type RequestMeta struct {
	RequestID      string
	ClientIP       string
	UserAgent      string
	UserID         string
	OrganizationID string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
