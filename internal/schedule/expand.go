package schedule

import (
	"sort"
	"time"
)

// ExpandSlots converts availability windows into the sorted set of
// 30-minute slot start times they cover. Inactive windows and durations
// with a missing or unparseable bound contribute nothing. Duplicate times
// across windows collapse.
//
// A duration whose end parses before its start is ambiguous. If the end
// hour is before noon and numerically smaller than the start hour, the
// record is treated as a mistaken 12-hour entry and 12 hours are added to
// the end ("09:00"-"02:00" means 9AM-2PM). Otherwise the duration is a
// genuine overnight window and the end advances one calendar day. This
// mirrors how the booking frontend has always read such records; do not
// "fix" it without a data migration.
func ExpandSlots(windows []AvailabilityWindow) []string {
	set := make(map[string]struct{})

	for _, w := range windows {
		if !w.Active {
			continue
		}

		for _, d := range w.Durations {
			if d.StartTime == "" || d.EndTime == "" {
				continue
			}

			start, err := parseClock(d.StartTime)
			if err != nil {
				continue
			}
			end, err := parseClock(d.EndTime)
			if err != nil {
				continue
			}

			if end.Before(start) {
				if end.Hour() < 12 && end.Hour() < start.Hour() {
					end = end.Add(12 * time.Hour)
				} else {
					end = end.AddDate(0, 0, 1)
				}
			}

			// End boundary is exclusive: a 09:00-10:00 duration yields
			// 09:00 and 09:30 only.
			for cur := start; cur.Before(end); cur = cur.Add(SlotDuration) {
				set[cur.Format("15:04")] = struct{}{}
			}
		}
	}

	slots := make([]string, 0, len(set))
	for t := range set {
		slots = append(slots, t)
	}

	// Lexical sort is chronological: zero-padded 24-hour strings.
	sort.Strings(slots)

	return slots
}

// WindowsForDate filters windows down to those applying to the given
// date's weekday.
func WindowsForDate(windows []AvailabilityWindow, date time.Time) []AvailabilityWindow {
	day := BackendDayOfWeek(date.Weekday())

	matched := make([]AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		if w.DayOfWeek == day {
			matched = append(matched, w)
		}
	}

	return matched
}
