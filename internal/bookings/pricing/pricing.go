// Package pricing recomputes what a session should cost from the host's
// published rate card.
//
// expected = hourlyRate * duration / 60 + sum(selected add-on rates)
//
// rounded half-to-even to cents. A supplied price is accepted when it is
// within the configured tolerance of the expected one.
package pricing

import (
	"errors"
	"fmt"

	"dialoom/pkg/model"

	"github.com/shopspring/decimal"
)

var ErrNoRateCard = errors.New("host has no rate card")

var minutesPerHour = decimal.NewFromInt(60)

// MismatchError carries both amounts so the client can show the right price.
type MismatchError struct {
	Expected decimal.Decimal
	Supplied decimal.Decimal
	Currency string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("price %s does not match expected %s %s", e.Supplied.StringFixed(2), e.Expected.StringFixed(2), e.Currency)
}

type Quote struct {
	Expected decimal.Decimal
	Currency string
}

type RateCardCalculator struct {
	tolerance decimal.Decimal
}

func NewRateCardCalculator(tolerance decimal.Decimal) *RateCardCalculator {
	return &RateCardCalculator{tolerance: tolerance.Abs()}
}

func (c *RateCardCalculator) Expected(host *model.User, duration int, services model.SelectedServices) (Quote, error) {
	if host == nil || host.RateCard == nil {
		return Quote{}, ErrNoRateCard
	}
	card := host.RateCard

	total := card.HourlyRate.Mul(decimal.NewFromInt(int64(duration))).Div(minutesPerHour)
	if services.ScreenSharing {
		total = total.Add(card.AddOns.ScreenSharing)
	}
	if services.Translation {
		total = total.Add(card.AddOns.Translation)
	}
	if services.Recording {
		total = total.Add(card.AddOns.Recording)
	}
	if services.Transcription {
		total = total.Add(card.AddOns.Transcription)
	}

	return Quote{
		Expected: total.RoundBank(2),
		Currency: card.Currency,
	}, nil
}

// Check returns the quote when the supplied price is acceptable, or a
// *MismatchError when it is not.
func (c *RateCardCalculator) Check(host *model.User, req *model.BookingRequest) (Quote, error) {
	quote, err := c.Expected(host, req.Duration, req.SelectedServices)
	if err != nil {
		return Quote{}, err
	}

	if req.Price.Sub(quote.Expected).Abs().GreaterThan(c.tolerance) {
		return quote, &MismatchError{
			Expected: quote.Expected,
			Supplied: req.Price,
			Currency: quote.Currency,
		}
	}
	return quote, nil
}
