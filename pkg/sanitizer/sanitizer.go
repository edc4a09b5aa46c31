package sanitizer

import (
	"strings"
	"unicode"

	"dialoom/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func SanitizeID(input string) string {
	return strings.TrimSpace(input)
}

func SanitizeFreeText(input string) string {
	p := Pipeline{
		dropControl,
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeBookingRequest normalizes the fields of a create request in place.
func SanitizeBookingRequest(req *model.BookingRequest) {
	req.GuestID = SanitizeID(req.GuestID)
	req.HostID = SanitizeID(req.HostID)
	req.ScheduledDate = NormalizeDate(req.ScheduledDate)
	req.StartTime = NormalizeClock(req.StartTime)
}
