package models

import (
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCheckedIn AppointmentStatus = "CHECKED_IN"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// NormalizeStatus accepts both the backend vocabulary and the legacy
// lower-case view-model vocabulary ("pending", "checked-in", "cancelled")
// still sent by one of the dashboard views.
func NormalizeStatus(s string) (AppointmentStatus, bool) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "SCHEDULED", "PENDING":
		return StatusScheduled, true
	case "CHECKED_IN":
		return StatusCheckedIn, true
	case "COMPLETED":
		return StatusCompleted, true
	case "CANCELLED":
		return StatusCancelled, true
	default:
		return "", false
	}
}

type Doctor struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Specialty string `db:"specialty"`
	Active    bool   `db:"is_active"`
}

type Duration struct {
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

type AvailabilityWindow struct {
	ID        string `db:"id"`
	DoctorID  string `db:"doctor_id"`
	DayOfWeek int    `db:"day_of_week"` // 1=Monday .. 7=Sunday
	Active    bool   `db:"is_active"`
	Durations []Duration
}

type Appointment struct {
	ID              string            `db:"id"`
	DoctorID        string            `db:"doctor_id"`
	DoctorName      string            `db:"doctor_name"`
	PatientName     string            `db:"patient_name"`
	AppointmentDate time.Time         `db:"appointment_date"`
	StartTime       string            `db:"start_time"`
	Status          AppointmentStatus `db:"status"`
	CreatedAt       time.Time         `db:"created_at"`
}

// TimeSlotRecord is an explicit per-date slot row. When any exist for a
// doctor and date they override availability-window expansion.
type TimeSlotRecord struct {
	ID        string    `db:"id"`
	DoctorID  string    `db:"doctor_id"`
	SlotDate  time.Time `db:"slot_date"`
	StartTime string    `db:"start_time"`
	Status    string    `db:"status"`
}
