package api

import "context"

type requestIDContextKey struct{}
type userAgentContextKey struct{}

// WithRequestID attaches a caller-chosen request identifier to ctx. The
// client forwards it as the X-Request-ID header instead of generating one,
// which lets a UI correlate its own traces with server logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// WithUserAgent attaches a User-Agent override to ctx for the wrapped
// requests. When absent the client's configured agent string is used.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, userAgent)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func userAgentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	userAgent, _ := ctx.Value(userAgentContextKey{}).(string)
	return userAgent
}
