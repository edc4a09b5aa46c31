package mongo

import (
	"context"
	"time"
)

// WithTimeout bounds a single query. Inside a transaction the session
// context is returned unchanged with a no-op cancel, since wrapping a
// SessionContext detaches the operation from its session.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if InSession(ctx) {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}
