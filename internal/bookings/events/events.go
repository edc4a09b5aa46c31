package events

import (
	"context"
	"time"

	"dialoom/pkg/kafka"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"
	"dialoom/pkg/requestid"

	"github.com/shopspring/decimal"
)

const (
	Source        = "bookings"
	SchemaVersion = "1"

	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// TypeFor maps a booking status to the event announcing it.
func TypeFor(status model.BookingStatus) string {
	switch status {
	case model.BookingConfirmed:
		return BookingConfirmed
	case model.BookingCancelled:
		return BookingCancelled
	case model.BookingCompleted:
		return BookingCompleted
	default:
		return BookingCreated
	}
}

// BookingEvent is the payload written to the bookings topic. Notification
// and payment services consume it.
type BookingEvent struct {
	BookingID          string                 `json:"bookingId"`
	HostID             string                 `json:"hostId"`
	GuestID            string                 `json:"guestId"`
	Status             model.BookingStatus    `json:"status"`
	StartAt            time.Time              `json:"startAt"`
	EndAt              time.Time              `json:"endAt"`
	Price              decimal.Decimal        `json:"price"`
	Currency           string                 `json:"currency"`
	SelectedServices   model.SelectedServices `json:"selectedServices"`
	PaymentID          string                 `json:"paymentId,omitempty"`
	CancelledBy        string                 `json:"cancelledBy,omitempty"`
	CancellationReason string                 `json:"cancellationReason,omitempty"`
	OccurredAt         time.Time              `json:"occurredAt"`
}

func NewBookingEvent(b *model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:          b.ID,
		HostID:             b.HostID,
		GuestID:            b.GuestID,
		Status:             b.Status,
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		Price:              b.Price,
		Currency:           b.Currency,
		SelectedServices:   b.SelectedServices,
		PaymentID:          b.PaymentID,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		OccurredAt:         b.UpdatedAt,
	}
}

type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer MessagePublisher
	log      *logger.Logger
}

func NewKafkaPublisher(producer MessagePublisher, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, log: log}
}

// Publish keys the message by booking id so all events of one booking land
// on the same partition in order.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, b *model.Booking) error {
	builder := kafka.NewMessage().
		WithKey(b.ID).
		WithValue(NewBookingEvent(b)).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source)

	if rid := requestid.FromContext(ctx); rid != "" {
		builder = builder.WithCorrelationID(rid)
	}

	return p.producer.Publish(ctx, builder.Build())
}

// NoopPublisher is used when KAFKA_ENABLED is false.
type NoopPublisher struct {
	log *logger.Logger
}

func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(_ context.Context, eventType string, b *model.Booking) error {
	p.log.Debug("Event publishing disabled, dropping event", "event_type", eventType, "booking_id", b.ID)
	return nil
}
