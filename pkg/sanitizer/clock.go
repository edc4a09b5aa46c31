package sanitizer

import (
	"regexp"
	"strings"
)

var reShortHour = regexp.MustCompile(`^(\d):([0-5]\d)$`)

// NormalizeClock zero-pads single digit hours. Anything else is only trimmed.
func NormalizeClock(input string) string {
	s := strings.TrimSpace(input)
	if m := reShortHour.FindStringSubmatch(s); m != nil {
		return "0" + m[1] + ":" + m[2]
	}
	return s
}

func NormalizeDate(input string) string {
	return strings.TrimSpace(input)
}
