package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder(t *testing.T) {
	msg := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]string{"status": "pending"}).
		WithEventType("booking.created").
		WithSource("bookings").
		WithCorrelationID("req-1").
		Build()

	assert.Equal(t, "booking-1", msg.Key)
	assert.JSONEq(t, `{"status":"pending"}`, string(msg.Value))
	assert.Equal(t, "booking.created", msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.NotEmpty(t, msg.GetEventID())
	_, err := time.Parse(time.RFC3339, msg.Headers[HeaderTimestamp])
	assert.NoError(t, err)
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	assert.Equal(t, 0, msg.GetRetryCount())

	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
	assert.Equal(t, "12", msg.Headers[HeaderRetryCount])
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "explicit transient", err: NewTransientError("db down", nil), want: ErrorTypeTransient},
		{name: "wrapped permanent", err: fmt.Errorf("handler: %w", NewPermanentError("bad json", nil)), want: ErrorTypePermanent},
		{name: "business", err: NewBusinessError("already cancelled", nil), want: ErrorTypeBusiness},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: ErrorTypeTransient},
		{name: "connection refused text", err: errors.New("dial tcp: Connection Refused"), want: ErrorTypeTransient},
		{name: "unknown", err: errors.New("something odd"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestRunWithRetry(t *testing.T) {
	ctx := context.Background()
	newMsg := func() Message {
		return NewMessage().WithKey("k").WithRawValue([]byte(`{}`)).Build()
	}

	t.Run("transient then success", func(t *testing.T) {
		calls := 0
		var dead []error
		err := runWithRetry(ctx, func(context.Context, Message) error {
			calls++
			if calls < 3 {
				return NewTransientError("timeout", nil)
			}
			return nil
		}, newMsg(), 3, 0, func(_ context.Context, _ Message, err error) { dead = append(dead, err) })

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Empty(t, dead)
	})

	t.Run("transient exhausts retries", func(t *testing.T) {
		calls := 0
		var dead []error
		err := runWithRetry(ctx, func(context.Context, Message) error {
			calls++
			return NewTransientError("timeout", nil)
		}, newMsg(), 2, 0, func(_ context.Context, _ Message, err error) { dead = append(dead, err) })

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Len(t, dead, 1)
	})

	t.Run("permanent goes straight to dlq", func(t *testing.T) {
		calls := 0
		var dead []error
		err := runWithRetry(ctx, func(context.Context, Message) error {
			calls++
			return NewPermanentError("bad payload", nil)
		}, newMsg(), 5, 0, func(_ context.Context, _ Message, err error) { dead = append(dead, err) })

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Len(t, dead, 1)
	})

	t.Run("business errors are dropped", func(t *testing.T) {
		var dead []error
		err := runWithRetry(ctx, func(context.Context, Message) error {
			return NewBusinessError("booking already cancelled", nil)
		}, newMsg(), 5, 0, func(_ context.Context, _ Message, err error) { dead = append(dead, err) })

		require.Error(t, err)
		assert.Empty(t, dead)
	})
}
