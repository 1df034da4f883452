package schedule

import (
	"testing"
	"time"
)

var monday = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) // 2026-06-01

func slotByTime(t *testing.T, cell CalendarCell, at string) TimeSlot {
	t.Helper()
	for _, s := range cell.Slots {
		if s.Time == at {
			return s
		}
	}
	t.Fatalf("no slot at %s in %v", at, cell.Slots)
	return TimeSlot{}
}

func TestReconcileDay_AllAvailable(t *testing.T) {
	expanded := ExpandSlots([]AvailabilityWindow{
		window(1, true, Duration{StartTime: "09:00", EndTime: "11:00"}),
	})

	cell := ReconcileDay(monday, expanded, nil, nil)

	if len(cell.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(cell.Slots))
	}
	for _, s := range cell.Slots {
		if s.Status != SlotAvailable {
			t.Errorf("expected slot %s available, got %s", s.Time, s.Status)
		}
	}
	if cell.AppointmentCount != 0 || cell.AvailableCount != 4 {
		t.Fatalf("expected counts 0/4, got %d/%d", cell.AppointmentCount, cell.AvailableCount)
	}
}

func TestReconcileDay_BookedOverridesAvailable(t *testing.T) {
	expanded := ExpandSlots([]AvailabilityWindow{
		window(1, true, Duration{StartTime: "09:00", EndTime: "11:00"}),
	})
	appointments := []Appointment{
		{AppointmentDate: "2026-06-01", StartTime: "09:30:00", Status: "SCHEDULED"},
	}

	cell := ReconcileDay(monday, expanded, appointments, nil)

	if got := slotByTime(t, cell, "09:30"); got.Status != SlotBooked {
		t.Fatalf("expected 09:30 booked, got %s", got.Status)
	}
	if cell.AppointmentCount != 1 {
		t.Fatalf("expected appointment count 1, got %d", cell.AppointmentCount)
	}
	if cell.AvailableCount != 3 {
		t.Fatalf("expected available count 3, got %d", cell.AvailableCount)
	}
}

func TestReconcileDay_ExplicitRecordsTakePrecedence(t *testing.T) {
	expanded := ExpandSlots([]AvailabilityWindow{
		window(1, true, Duration{StartTime: "09:00", EndTime: "17:00"}),
	})
	explicit := []TimeSlotRecord{
		{StartTime: "10:00:00", Status: "available"},
		{StartTime: "10:30:00", Status: "blocked"},
	}

	cell := ReconcileDay(monday, expanded, nil, explicit)

	// Only the two explicit records may appear; the 16 expanded slots are
	// never blended in.
	if len(cell.Slots) != 2 {
		t.Fatalf("expected 2 slots from explicit records, got %d", len(cell.Slots))
	}
	if got := slotByTime(t, cell, "10:00"); got.Status != SlotAvailable {
		t.Fatalf("expected 10:00 available, got %s", got.Status)
	}
	if got := slotByTime(t, cell, "10:30"); got.Status != SlotUnavailable {
		t.Fatalf("expected 10:30 unavailable, got %s", got.Status)
	}
}

func TestReconcileDay_OtherDatesIgnored(t *testing.T) {
	expanded := []string{"09:00", "09:30"}
	appointments := []Appointment{
		{AppointmentDate: "2026-06-02", StartTime: "09:00", Status: "SCHEDULED"},
	}

	cell := ReconcileDay(monday, expanded, appointments, nil)

	if cell.AppointmentCount != 0 {
		t.Fatalf("expected appointments for other dates to be ignored, count=%d", cell.AppointmentCount)
	}
	if got := slotByTime(t, cell, "09:00"); got.Status != SlotAvailable {
		t.Fatalf("expected 09:00 available, got %s", got.Status)
	}
}

func TestReconcileDay_CancelledDoesNotOccupy(t *testing.T) {
	expanded := []string{"09:00", "09:30"}
	appointments := []Appointment{
		{AppointmentDate: "2026-06-01", StartTime: "09:00", Status: "CANCELLED"},
		{AppointmentDate: "2026-06-01", StartTime: "09:30", Status: "cancelled"},
	}

	cell := ReconcileDay(monday, expanded, appointments, nil)

	if cell.AppointmentCount != 0 {
		t.Fatalf("expected cancelled appointments excluded, count=%d", cell.AppointmentCount)
	}
	for _, s := range cell.Slots {
		if s.Status != SlotAvailable {
			t.Errorf("expected slot %s available, got %s", s.Time, s.Status)
		}
	}
}

func TestReconcileDay_LegacyStatusVocabulary(t *testing.T) {
	expanded := []string{"09:00", "09:30"}
	appointments := []Appointment{
		{AppointmentDate: "2026-06-01", StartTime: "09:00", Status: "pending"},
		{AppointmentDate: "2026-06-01", StartTime: "09:30", Status: "checked-in"},
	}

	cell := ReconcileDay(monday, expanded, appointments, nil)

	if cell.AppointmentCount != 2 {
		t.Fatalf("expected both legacy statuses to occupy, count=%d", cell.AppointmentCount)
	}
	for _, s := range cell.Slots {
		if s.Status != SlotBooked {
			t.Errorf("expected slot %s booked, got %s", s.Time, s.Status)
		}
	}
}

func TestReconcileDay_DuplicateAppointmentsCounted(t *testing.T) {
	expanded := []string{"09:00", "09:30"}
	appointments := []Appointment{
		{AppointmentDate: "2026-06-01", StartTime: "09:00:00", Status: "SCHEDULED"},
		{AppointmentDate: "2026-06-01", StartTime: "09:00", Status: "CHECKED_IN"},
	}

	cell := ReconcileDay(monday, expanded, appointments, nil)

	if cell.AppointmentCount != 2 {
		t.Fatalf("expected duplicates counted, got %d", cell.AppointmentCount)
	}
	if got := slotByTime(t, cell, "09:00"); got.Status != SlotBooked {
		t.Fatalf("expected 09:00 booked once, got %s", got.Status)
	}
	if cell.AvailableCount != 0 {
		t.Fatalf("expected available count 0, got %d", cell.AvailableCount)
	}
}

func TestReconcileDay_AppointmentOutsideSlotSetStillCounts(t *testing.T) {
	expanded := []string{"09:00"}
	appointments := []Appointment{
		{AppointmentDate: "2026-06-01", StartTime: "15:00", Status: "SCHEDULED"},
		{AppointmentDate: "2026-06-01", StartTime: "16:00", Status: "COMPLETED"},
	}

	cell := ReconcileDay(monday, expanded, appointments, nil)

	if cell.AppointmentCount != 2 {
		t.Fatalf("expected out-of-set appointments counted, got %d", cell.AppointmentCount)
	}
	// 1 slot - 2 appointments clamps at zero.
	if cell.AvailableCount != 0 {
		t.Fatalf("expected available count clamped to 0, got %d", cell.AvailableCount)
	}
}

func TestReconcileDay_MissingCollections(t *testing.T) {
	cell := ReconcileDay(monday, nil, nil, nil)

	if len(cell.Slots) != 0 || cell.AppointmentCount != 0 || cell.AvailableCount != 0 {
		t.Fatalf("expected an empty cell, got %+v", cell)
	}
}

func TestOccupies(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"SCHEDULED", true},
		{"CHECKED_IN", true},
		{"COMPLETED", true},
		{"CANCELLED", false},
		{"pending", true},
		{"checked-in", true},
		{"cancelled", false},
	}

	for _, tc := range cases {
		if got := Occupies(tc.status); got != tc.want {
			t.Errorf("Occupies(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
