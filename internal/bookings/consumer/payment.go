// Package consumer applies payment outcomes published by the payments
// service to bookings.
package consumer

import (
	"context"
	"errors"
	"fmt"

	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/kafka"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"
)

const (
	PaymentCaptured = "payment.captured"
	PaymentFailed   = "payment.failed"
)

// PaymentEvent is the payload of the payments topic.
type PaymentEvent struct {
	Type      string `json:"type,omitempty"`
	BookingID string `json:"bookingId"`
	PaymentID string `json:"paymentId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// BookingTransitions is the part of the booking service payments drive.
type BookingTransitions interface {
	Confirm(ctx context.Context, id string, paymentID string) (*model.Booking, error)
	CancelUnpaid(ctx context.Context, id string, reason string) (*model.Booking, error)
}

type PaymentHandler struct {
	bookings BookingTransitions
	log      *logger.Logger
}

func NewPaymentHandler(bookings BookingTransitions, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		bookings: bookings,
		log:      log,
	}
}

// Handle is a kafka.MessageHandler. The event type is read from the
// event-type header and falls back to the payload.
func (h *PaymentHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event PaymentEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid payment event payload", err).
			WithDetail("offset", msg.Offset)
	}

	eventType := msg.GetEventType()
	if eventType == "" {
		eventType = event.Type
	}

	switch eventType {
	case PaymentCaptured:
		if event.BookingID == "" || event.PaymentID == "" {
			return kafka.NewPermanentError("payment.captured requires bookingId and paymentId", nil)
		}
		booking, err := h.bookings.Confirm(ctx, event.BookingID, event.PaymentID)
		if err != nil {
			return classify(eventType, event.BookingID, err)
		}
		h.log.Info("Booking confirmed by payment",
			"booking_id", booking.ID,
			"payment_id", event.PaymentID,
			"correlation_id", msg.GetCorrelationID(),
		)
		return nil

	case PaymentFailed:
		if event.BookingID == "" {
			return kafka.NewPermanentError("payment.failed requires bookingId", nil)
		}
		reason := event.Reason
		if reason == "" {
			reason = "payment failed"
		}
		booking, err := h.bookings.CancelUnpaid(ctx, event.BookingID, reason)
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			// the payment already settled the booking one way or another
			h.log.Info("Ignoring payment failure for booking no longer pending",
				"booking_id", event.BookingID,
				"correlation_id", msg.GetCorrelationID(),
			)
			return nil
		}
		if err != nil {
			return classify(eventType, event.BookingID, err)
		}
		h.log.Info("Booking cancelled after failed payment",
			"booking_id", booking.ID,
			"correlation_id", msg.GetCorrelationID(),
		)
		return nil

	default:
		h.log.Debug("Ignoring payment event", "event_type", eventType, "offset", msg.Offset)
		return nil
	}
}

// classify maps service errors onto the consumer's retry policy: state
// conflicts are business outcomes, bad references are permanent, everything
// else is retried.
func classify(eventType, bookingID string, err error) error {
	message := fmt.Sprintf("%s for booking %s", eventType, bookingID)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return kafka.NewTransientError(message, err)
	}

	switch appErr.Code {
	case apperrors.CodeConflict:
		return kafka.NewBusinessError(message, err)
	case apperrors.CodeNotFound, apperrors.CodeInvalidInput, apperrors.CodeForbidden:
		return kafka.NewPermanentError(message, err)
	default:
		return kafka.NewTransientError(message, err)
	}
}
