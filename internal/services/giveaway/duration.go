package giveaway

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

var durationUnits = map[rune]time.Duration{
	'd': 24 * time.Hour,
	'h': time.Hour,
	'm': time.Minute,
	's': time.Second,
}

// ParseDuration parses a window like "1d 2h 3m 4s" or "1d2h". Each part is a
// whole number followed by one of d, h, m or s. The total must be positive.
func ParseDuration(text string) (time.Duration, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return 0, ErrInvalidDuration
	}

	var (
		total  time.Duration
		digits strings.Builder
	)
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if digits.Len() > 0 {
				return 0, ErrInvalidDuration
			}
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		default:
			unit, ok := durationUnits[r]
			if !ok || digits.Len() == 0 {
				return 0, ErrInvalidDuration
			}
			n, err := strconv.ParseInt(digits.String(), 10, 64)
			if err != nil || n > int64(maxDuration/unit) {
				return 0, ErrInvalidDuration
			}
			total += time.Duration(n) * unit
			if total > maxDuration {
				return 0, ErrInvalidDuration
			}
			digits.Reset()
		}
	}

	if digits.Len() > 0 || total <= 0 {
		return 0, ErrInvalidDuration
	}

	return total, nil
}

// maxDuration keeps EndsAt well inside the range of Unix seconds
const maxDuration = 10 * 365 * 24 * time.Hour
