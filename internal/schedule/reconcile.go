package schedule

import (
	"sort"
	"strings"
	"time"
)

// Occupies reports whether an appointment with the given status holds its
// slot. Both the backend vocabulary (SCHEDULED, CHECKED_IN, COMPLETED,
// CANCELLED) and the legacy lower-case view-model vocabulary (pending,
// checked-in, cancelled) are accepted; only cancelled appointments free
// their slot.
func Occupies(status string) bool {
	normalized := strings.ToUpper(strings.ReplaceAll(status, "-", "_"))
	return normalized != "CANCELLED"
}

// ReconcileDay merges slot availability with booked appointments for one
// date. Two sources can supply the day's slots: explicit per-date records
// (authoritative when non-empty) or window expansion (fallback). The two
// are never blended for the same cell.
//
// Appointments for other dates are ignored. Missing collections behave as
// empty; the result is always best-effort, never an error.
func ReconcileDay(date time.Time, expanded []string, appointments []Appointment, explicit []TimeSlotRecord) CalendarCell {
	dateStr := FormatLocalDate(date)

	var slotTimes []string
	var availSet map[string]bool

	if len(explicit) > 0 {
		availSet = make(map[string]bool, len(explicit))
		seen := make(map[string]struct{}, len(explicit))
		for _, rec := range explicit {
			t := TruncateToMinute(rec.StartTime)
			if strings.EqualFold(rec.Status, "available") {
				availSet[t] = true
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			slotTimes = append(slotTimes, t)
		}
		sort.Strings(slotTimes)
	} else {
		slotTimes = expanded
		availSet = make(map[string]bool, len(expanded))
		for _, t := range expanded {
			availSet[t] = true
		}
	}

	// An appointment counts even when its time is outside the slot set;
	// duplicates at one time all count but the slot is booked once.
	booked := make(map[string]bool)
	appointmentCount := 0
	for _, a := range appointments {
		if a.AppointmentDate != dateStr {
			continue
		}
		if !Occupies(a.Status) {
			continue
		}
		appointmentCount++
		booked[TruncateToMinute(a.StartTime)] = true
	}

	slots := make([]TimeSlot, 0, len(slotTimes))
	for _, t := range slotTimes {
		status := SlotUnavailable
		switch {
		case booked[t]:
			status = SlotBooked
		case availSet[t]:
			status = SlotAvailable
		}
		slots = append(slots, TimeSlot{Time: t, Status: status})
	}

	available := len(slotTimes) - appointmentCount
	if available < 0 {
		available = 0
	}

	return CalendarCell{
		Date:             date,
		IsCurrentPeriod:  true,
		Slots:            slots,
		AppointmentCount: appointmentCount,
		AvailableCount:   available,
	}
}
