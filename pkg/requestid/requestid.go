// Package requestid carries the per-request correlation id through contexts,
// so HTTP middleware, services and event publishers agree on one value.
package requestid

import "context"

type contextKey struct{}

// Header is the HTTP header the id is read from and echoed in.
const Header = "X-Request-ID"

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns "" when no id was attached.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}
