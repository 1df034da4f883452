package schedule

import (
	"fmt"
	"time"
)

// FormatLocalDate renders the date using its local year/month/day
// components. UTC conversion must not happen here: a naive round trip
// through UTC shifts dates near midnight in non-UTC timezones.
func FormatLocalDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// BackendDayOfWeek maps time.Weekday (0=Sunday..6=Saturday) to the
// backend convention (1=Monday..6=Saturday, 7=Sunday).
func BackendDayOfWeek(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// TruncateToMinute drops a trailing seconds component: "09:30:00" ->
// "09:30". Shorter strings pass through unchanged.
func TruncateToMinute(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// Times of day are parsed against an arbitrary fixed reference date;
// only the clock component matters.
var refDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func parseClock(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return refDate.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
	}

	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", s, err)
	}

	return refDate.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}
