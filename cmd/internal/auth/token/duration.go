package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// unitScale maps duration unit spellings to their length in milliseconds.
// Fractional values are supported ("1.5 hours"), so scales are float64.
var unitScale = map[string]float64{
	"ms": 1, "msec": 1, "msecs": 1, "millisecond": 1, "milliseconds": 1,
	"s": 1000, "sec": 1000, "secs": 1000, "second": 1000, "seconds": 1000,
	"m": 60 * 1000, "min": 60 * 1000, "mins": 60 * 1000, "minute": 60 * 1000, "minutes": 60 * 1000,
	"h": 3600 * 1000, "hr": 3600 * 1000, "hrs": 3600 * 1000, "hour": 3600 * 1000, "hours": 3600 * 1000,
	"d": 24 * 3600 * 1000, "day": 24 * 3600 * 1000, "days": 24 * 3600 * 1000,
	"w": 7 * 24 * 3600 * 1000, "week": 7 * 24 * 3600 * 1000, "weeks": 7 * 24 * 3600 * 1000,
}

// ParseDuration parses a human-readable duration string into a Duration.
//
// Accepted forms:
//   - "<number> <unit>" or "<number><unit>": "15 minutes", "1 week", "2.5hrs"
//   - bare "<number>": interpreted as milliseconds ("900000")
//
// The result must be positive. Unknown units or malformed numbers return
// ErrBadDuration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadDuration)
	}

	// Split the leading number from the trailing unit word.
	i := 0
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || (i == 0 && (c == '+' || c == '-')) {
			i++
			continue
		}
		break
	}

	numPart := s[:i]
	unitPart := strings.TrimSpace(s[i:])

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}

	scale := float64(1) // bare number = milliseconds
	if unitPart != "" {
		var ok bool
		scale, ok = unitScale[unitPart]
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit %q", ErrBadDuration, unitPart)
		}
	}

	millis := n * scale
	if millis <= 0 {
		return 0, fmt.Errorf("%w: non-positive %q", ErrBadDuration, s)
	}

	return time.Duration(millis * float64(time.Millisecond)), nil
}
