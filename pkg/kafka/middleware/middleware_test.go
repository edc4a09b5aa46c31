package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"dialoom/pkg/kafka"
	"dialoom/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	ctx := context.Background()
	msg := kafka.NewMessage().WithKey("b1").WithRawValue([]byte(`{}`)).Build()

	publish := m.ProducerMiddleware()
	_ = publish(ctx, msg, func(context.Context, kafka.Message) error { return nil })
	_ = publish(ctx, msg, func(context.Context, kafka.Message) error { return errors.New("broker down") })

	consume := m.ConsumerMiddleware()
	_ = consume(ctx, msg, func(context.Context, kafka.Message) error { return nil })

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.Published)
	assert.Equal(t, int64(1), s.PublishFailed)
	assert.Equal(t, int64(1), s.Consumed)
	assert.Equal(t, int64(0), s.ConsumeFailed)
	assert.Len(t, s.LogAttrs(), 12)
}

func TestLoggingMiddleware_PassesErrorThrough(t *testing.T) {
	ctx := context.Background()
	msg := kafka.NewMessage().WithKey("b1").WithEventType("booking.created").Build()
	want := errors.New("boom")

	err := LoggingProducerMiddleware(logger.NewNop())(ctx, msg, func(context.Context, kafka.Message) error { return want })
	assert.ErrorIs(t, err, want)

	err = LoggingConsumerMiddleware(logger.NewNop())(ctx, msg, func(context.Context, kafka.Message) error { return nil })
	assert.NoError(t, err)
}
