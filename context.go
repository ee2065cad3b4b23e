package deemo

import (
	"context"

	"github.com/deemo-app/deemo-go/api"
)

// WithRequestID attaches a caller-chosen request identifier to ctx. The API
// client forwards it as the X-Request-ID header on every request issued
// under this context instead of generating one.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return api.WithRequestID(ctx, requestID)
}

// WithUserAgent attaches a User-Agent override to ctx for requests issued
// under it. When absent the configured agent string is used.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return api.WithUserAgent(ctx, userAgent)
}
