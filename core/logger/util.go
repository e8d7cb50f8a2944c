package logger

import (
	"fmt"
	"strings"
	"time"
)

// Took is the millisecond-rounded time since start.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to milliseconds; negative durations log as 0.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Preview joins at most limit values for a log field and counts the rest,
// e.g. "a, b (+3 more)".
func Preview(values []string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	rest := len(values) - limit
	if limit == 0 {
		return fmt.Sprintf("(+%d more)", rest)
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(values[:limit], ", "), rest)
}
