package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return slices.Contains(bookingTransitions[s], next)
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type SelectedServices struct {
	ScreenSharing bool `json:"screenSharing" bson:"screen_sharing"`
	Translation   bool `json:"translation" bson:"translation"`
	Recording     bool `json:"recording" bson:"recording"`
	Transcription bool `json:"transcription" bson:"transcription"`
}

func (s SelectedServices) Names() []string {
	var names []string
	if s.ScreenSharing {
		names = append(names, "screenSharing")
	}
	if s.Translation {
		names = append(names, "translation")
	}
	if s.Recording {
		names = append(names, "recording")
	}
	if s.Transcription {
		names = append(names, "transcription")
	}
	return names
}

type Booking struct {
	ID                 string           `json:"id" bson:"_id"`
	HostID             string           `json:"hostId" bson:"host_id"`
	GuestID            string           `json:"guestId" bson:"guest_id"`
	ScheduledDate      string           `json:"scheduledDate" bson:"scheduled_date"`
	StartTime          string           `json:"startTime" bson:"start_time"`
	Duration           int              `json:"duration" bson:"duration"`
	Price              decimal.Decimal  `json:"price" bson:"price"`
	Currency           string           `json:"currency" bson:"currency"`
	Status             BookingStatus    `json:"status" bson:"status"`
	SelectedServices   SelectedServices `json:"selectedServices" bson:"selected_services"`
	StartAt            time.Time        `json:"startAt" bson:"start_at"`
	EndAt              time.Time        `json:"endAt" bson:"end_at"`
	PaymentID          string           `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	CancelledBy        string           `json:"cancelledBy,omitempty" bson:"cancelled_by,omitempty"`
	CancellationReason string           `json:"cancellationReason,omitempty" bson:"cancellation_reason,omitempty"`
	CreatedAt          time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time        `json:"updatedAt" bson:"updated_at"`
}

// Overlaps uses half-open intervals: a booking ending at 11:00 does not
// overlap one starting at 11:00.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

func (b *Booking) IsParticipant(userID string) bool {
	return userID != "" && (b.HostID == userID || b.GuestID == userID)
}

// BookingRequest is the input of the creation pipeline. GuestID comes from
// the authenticated session, never from the body.
type BookingRequest struct {
	GuestID          string           `json:"-" validate:"required,max=128"`
	HostID           string           `json:"hostId" validate:"required,max=128"`
	ScheduledDate    string           `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	StartTime        string           `json:"startTime" validate:"required,datetime=15:04"`
	Duration         int              `json:"duration" validate:"required,min=15,max=480"`
	Price            decimal.Decimal  `json:"price"`
	SelectedServices SelectedServices `json:"selectedServices"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type BusySlot struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// Requester identifies who is calling a service operation.
type Requester struct {
	UserID  string
	IsAdmin bool
}

type ParticipantRole string

const (
	RoleGuest ParticipantRole = "guest"
	RoleHost  ParticipantRole = "host"
)

// StatusChange is applied atomically and only if the booking still has the
// expected status.
type StatusChange struct {
	From               BookingStatus
	To                 BookingStatus
	PaymentID          string
	CancelledBy        string
	CancellationReason string
	At                 time.Time
}
