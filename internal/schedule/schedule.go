// Package schedule derives bookable time slots and calendar grids from
// weekly availability windows and booked appointments. Everything here is
// pure: no I/O, no clocks, no caches. Callers fetch the records and hand
// them in as plain data.
package schedule

import "time"

// SlotDuration is the fixed booking granularity.
const SlotDuration = 30 * time.Minute

// Duration is one contiguous working period inside an availability window,
// as wall-clock strings ("HH:MM" or "HH:MM:SS").
type Duration struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityWindow is a recurring weekly rule describing when a doctor
// can be booked. DayOfWeek follows the backend convention: 1=Monday ..
// 7=Sunday.
type AvailabilityWindow struct {
	DayOfWeek int        `json:"day_of_week"`
	Active    bool       `json:"active"`
	Durations []Duration `json:"durations"`
}

// TimeSlotRecord is an explicit, date-scoped slot row provided by the
// backend. When present for a date it is authoritative and window
// expansion is not consulted.
type TimeSlotRecord struct {
	StartTime string `json:"start_time"`
	Status    string `json:"status"`
}

// Appointment is a booked visit, read-only to this package.
type Appointment struct {
	AppointmentDate string `json:"appointment_date"` // YYYY-MM-DD, local
	StartTime       string `json:"start_time"`
	Status          string `json:"status"`
	PatientName     string `json:"patient_name,omitempty"`
	DoctorName      string `json:"doctor_name,omitempty"`
}

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotBooked      SlotStatus = "booked"
	SlotUnavailable SlotStatus = "unavailable"
)

// TimeSlot is a 30-minute granule with its reconciled status.
type TimeSlot struct {
	Time   string     `json:"time"` // HH:MM
	Status SlotStatus `json:"status"`
}

// CalendarCell is one day of a calendar grid.
type CalendarCell struct {
	Date             time.Time  `json:"date"`
	IsCurrentPeriod  bool       `json:"is_current_period"`
	Slots            []TimeSlot `json:"slots"`
	AppointmentCount int        `json:"appointment_count"`
	AvailableCount   int        `json:"available_count"`
}
