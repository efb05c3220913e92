// Package trace keeps the request id of an inbound request in its context so outbound calls
// to the upstream API can carry the same id.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// HeaderRequestID is used both on inbound requests and on calls to the upstream.
const HeaderRequestID = "X-Request-Id"

type ctxKey struct{}

// GenerateID returns a fresh random request id.
func GenerateID() string {
	return uuid.NewString()
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the stored id or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
