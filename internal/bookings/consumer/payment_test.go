package consumer

import (
	"context"
	"errors"
	"testing"

	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/kafka"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTransitions struct {
	mock.Mock
}

func (m *mockTransitions) Confirm(ctx context.Context, id string, paymentID string) (*model.Booking, error) {
	args := m.Called(ctx, id, paymentID)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockTransitions) CancelUnpaid(ctx context.Context, id string, reason string) (*model.Booking, error) {
	args := m.Called(ctx, id, reason)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func paymentMessage(eventType string, payload any) kafka.Message {
	b := kafka.NewMessage().WithKey("b1").WithValue(payload)
	if eventType != "" {
		b = b.WithEventType(eventType)
	}
	return b.Build()
}

func TestHandle_CapturedConfirms(t *testing.T) {
	svc := new(mockTransitions)
	svc.On("Confirm", mock.Anything, "b1", "pay_1").
		Return(&model.Booking{ID: "b1", Status: model.BookingConfirmed}, nil)

	h := NewPaymentHandler(svc, logger.NewNop())
	err := h.Handle(context.Background(), paymentMessage(PaymentCaptured, PaymentEvent{BookingID: "b1", PaymentID: "pay_1"}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestHandle_TypeFromPayload(t *testing.T) {
	svc := new(mockTransitions)
	svc.On("Confirm", mock.Anything, "b1", "pay_1").
		Return(&model.Booking{ID: "b1", Status: model.BookingConfirmed}, nil)

	h := NewPaymentHandler(svc, logger.NewNop())
	err := h.Handle(context.Background(), paymentMessage("", PaymentEvent{Type: PaymentCaptured, BookingID: "b1", PaymentID: "pay_1"}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestHandle_FailedCancelsUnpaidBooking(t *testing.T) {
	svc := new(mockTransitions)
	svc.On("CancelUnpaid", mock.Anything, "b1", "card declined").
		Return(&model.Booking{ID: "b1", Status: model.BookingCancelled}, nil)

	h := NewPaymentHandler(svc, logger.NewNop())
	err := h.Handle(context.Background(), paymentMessage(PaymentFailed, PaymentEvent{BookingID: "b1", Reason: "card declined"}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestHandle_FailedDefaultReason(t *testing.T) {
	svc := new(mockTransitions)
	svc.On("CancelUnpaid", mock.Anything, "b1", "payment failed").
		Return(&model.Booking{ID: "b1", Status: model.BookingCancelled}, nil)

	h := NewPaymentHandler(svc, logger.NewNop())
	require.NoError(t, h.Handle(context.Background(), paymentMessage(PaymentFailed, PaymentEvent{BookingID: "b1"})))
	svc.AssertExpectations(t)
}

func TestHandle_FailedAfterCaptureIsNoop(t *testing.T) {
	svc := new(mockTransitions)
	svc.On("CancelUnpaid", mock.Anything, "b1", "payment failed").
		Return(nil, apperrors.Conflict("Booking is confirmed and no longer awaiting payment"))

	h := NewPaymentHandler(svc, logger.NewNop())
	err := h.Handle(context.Background(), paymentMessage(PaymentFailed, PaymentEvent{BookingID: "b1"}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestHandle_UnknownEventIgnored(t *testing.T) {
	svc := new(mockTransitions)

	h := NewPaymentHandler(svc, logger.NewNop())
	err := h.Handle(context.Background(), paymentMessage("payment.refunded", PaymentEvent{BookingID: "b1"}))

	require.NoError(t, err)
	svc.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "CancelUnpaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_BadPayloadIsPermanent(t *testing.T) {
	h := NewPaymentHandler(new(mockTransitions), logger.NewNop())

	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{"not json", kafka.NewMessage().WithEventType(PaymentCaptured).WithRawValue([]byte("{oops")).Build()},
		{"captured without payment", paymentMessage(PaymentCaptured, PaymentEvent{BookingID: "b1"})},
		{"captured without booking", paymentMessage(PaymentCaptured, PaymentEvent{PaymentID: "pay_1"})},
		{"failed without booking", paymentMessage(PaymentFailed, PaymentEvent{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Handle(context.Background(), tt.msg)
			require.Error(t, err)
			assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
		})
	}
}

func TestHandle_ServiceErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want kafka.ErrorType
	}{
		{"state conflict", apperrors.Conflict("Booking cannot move from cancelled to confirmed"), kafka.ErrorTypeBusiness},
		{"unknown booking", apperrors.NotFoundWithID("Booking", "b1"), kafka.ErrorTypePermanent},
		{"malformed id", apperrors.InvalidInput("Invalid booking ID format"), kafka.ErrorTypePermanent},
		{"database down", apperrors.Internal("Failed to update booking", errors.New("socket closed")), kafka.ErrorTypeTransient},
		{"plain error", errors.New("boom"), kafka.ErrorTypeTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockTransitions)
			svc.On("Confirm", mock.Anything, "b1", "pay_1").Return(nil, tt.err)

			h := NewPaymentHandler(svc, logger.NewNop())
			err := h.Handle(context.Background(), paymentMessage(PaymentCaptured, PaymentEvent{BookingID: "b1", PaymentID: "pay_1"}))

			require.Error(t, err)
			assert.Equal(t, tt.want, kafka.ClassifyError(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
