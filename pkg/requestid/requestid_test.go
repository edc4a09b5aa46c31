package requestid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))

	ctx := WithID(context.Background(), "req-1")
	assert.Equal(t, "req-1", FromContext(ctx))

	// a plain string key does not collide with ours
	ctx = context.WithValue(context.Background(), "request_id", "other")
	assert.Empty(t, FromContext(ctx))
}
