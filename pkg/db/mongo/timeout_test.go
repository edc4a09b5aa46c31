package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)

	parent, parentCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer parentCancel()
	parentDeadline, _ := parent.Deadline()

	child, childCancel := WithTimeout(parent, time.Hour)
	defer childCancel()
	childDeadline, _ := child.Deadline()
	assert.Equal(t, parentDeadline, childDeadline, "shorter parent deadline wins")
}
