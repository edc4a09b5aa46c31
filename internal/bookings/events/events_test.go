package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dialoom/pkg/kafka"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"
	"dialoom/pkg/requestid"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	b := &model.Booking{
		ID:        "2b0f5c1e-4c1a-4e43-9a43-0f6f3c2d8d11",
		HostID:    "host1",
		GuestID:   "guest1",
		Status:    model.BookingPending,
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
		Price:     decimal.RequireFromString("50.00"),
		Currency:  "EUR",
		UpdatedAt: start.Add(-24 * time.Hour),
	}

	producer := &mockProducer{}
	producer.On("Publish", mock.Anything, mock.MatchedBy(func(msg kafka.Message) bool {
		return msg.Key == b.ID &&
			msg.GetEventType() == BookingCreated &&
			msg.GetCorrelationID() == "req-1" &&
			msg.Headers[kafka.HeaderSource] == Source
	})).Return(nil).Once()

	ctx := requestid.WithID(context.Background(), "req-1")
	err := NewKafkaPublisher(producer, logger.NewNop()).Publish(ctx, BookingCreated, b)
	require.NoError(t, err)
	producer.AssertExpectations(t)

	msg := producer.Calls[0].Arguments.Get(1).(kafka.Message)
	var payload BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "guest1", payload.GuestID)
	assert.True(t, payload.Price.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, model.BookingPending, payload.Status)
}

func TestTypeFor(t *testing.T) {
	assert.Equal(t, BookingCreated, TypeFor(model.BookingPending))
	assert.Equal(t, BookingConfirmed, TypeFor(model.BookingConfirmed))
	assert.Equal(t, BookingCancelled, TypeFor(model.BookingCancelled))
	assert.Equal(t, BookingCompleted, TypeFor(model.BookingCompleted))
}

func TestNoopPublisher(t *testing.T) {
	err := NewNoopPublisher(logger.NewNop()).Publish(context.Background(), BookingCreated, &model.Booking{ID: "x"})
	assert.NoError(t, err)
}
