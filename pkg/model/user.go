package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type HostVerificationStatus string

const (
	HostUnregistered HostVerificationStatus = "unregistered"
	HostRegistered   HostVerificationStatus = "registered"
	HostVerified     HostVerificationStatus = "verified"
)

// AddOnRates holds the flat per-session price of each optional service.
type AddOnRates struct {
	ScreenSharing decimal.Decimal `json:"screenSharing" bson:"screen_sharing"`
	Translation   decimal.Decimal `json:"translation" bson:"translation"`
	Recording     decimal.Decimal `json:"recording" bson:"recording"`
	Transcription decimal.Decimal `json:"transcription" bson:"transcription"`
}

// RateCard is what a host publishes; booking prices are recomputed from it.
type RateCard struct {
	HourlyRate decimal.Decimal `json:"hourlyRate" bson:"hourly_rate"`
	Currency   string          `json:"currency" bson:"currency" validate:"required,iso4217"`
	AddOns     AddOnRates      `json:"addOns" bson:"add_ons"`
}

type User struct {
	ID                     string                 `json:"id" bson:"_id" validate:"required,max=128"`
	Email                  string                 `json:"email" bson:"email" validate:"required,email"`
	IsAdmin                bool                   `json:"isAdmin" bson:"is_admin"`
	HostVerificationStatus HostVerificationStatus `json:"hostVerificationStatus" bson:"host_verification_status" validate:"omitempty,oneof=unregistered registered verified"`
	TimeZone               string                 `json:"timeZone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	RateCard               *RateCard              `json:"rateCard,omitempty" bson:"rate_card,omitempty" validate:"omitempty"`
	CreatedAt              time.Time              `json:"createdAt" bson:"created_at"`
}

// VerificationStatus treats a missing status as unregistered.
func (u *User) VerificationStatus() HostVerificationStatus {
	if u.HostVerificationStatus == "" {
		return HostUnregistered
	}
	return u.HostVerificationStatus
}

func (u *User) IsVerifiedHost() bool {
	return u.VerificationStatus() == HostVerified
}

// HostProfile is the part of a host record any authenticated user may read.
type HostProfile struct {
	ID                     string                 `json:"id"`
	HostVerificationStatus HostVerificationStatus `json:"hostVerificationStatus"`
	TimeZone               string                 `json:"timeZone,omitempty"`
	RateCard               *RateCard              `json:"rateCard,omitempty"`
}

func (u *User) PublicProfile() HostProfile {
	return HostProfile{
		ID:                     u.ID,
		HostVerificationStatus: u.VerificationStatus(),
		TimeZone:               u.TimeZone,
		RateCard:               u.RateCard,
	}
}
