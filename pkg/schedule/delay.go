package schedule

import (
	"fmt"
	"math"
	"time"
)

// Accepted civil date-time layouts, most specific first.
var civilLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DelaySeconds converts a civil date-time string, interpreted as wall-clock
// time in loc, into a delay relative to now, rounded to the nearest whole
// second. The zone rules of the target date apply, so dates across DST
// transitions resolve correctly. A nil loc means UTC.
//
// Returns ErrInvalidDueDate when the string does not parse and
// ErrDueDateInPast when the computed delay is negative. A delay of exactly
// zero is valid.
func DelaySeconds(dueDate string, loc *time.Location, now time.Time) (int64, error) {
	if loc == nil {
		loc = time.UTC
	}

	due, err := parseCivil(dueDate, loc)
	if err != nil {
		return 0, err
	}

	delay := int64(math.Round(due.Sub(now).Seconds()))
	if delay < 0 {
		return 0, ErrDueDateInPast
	}
	return delay, nil
}

func parseCivil(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range civilLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, value)
}
