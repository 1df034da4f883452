package service

import (
	"clinic-service/api"
	"clinic-service/internal/models"
	"clinic-service/internal/schedule"
	"clinic-service/pkg/response"
	"context"
	"errors"
	"fmt"
	"time"
)

// Calendar builds the day/week/month grid for one doctor. All records the
// grid needs are fetched up front for the whole range; the schedule
// package then derives every cell from that snapshot.
func (s *Service) Calendar(ctx context.Context, doctorID string, view schedule.View, anchor time.Time) ([]*api.CalendarCellResponse, error) {
	const op = "service.Calendar"

	if _, err := s.store.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	from, to := schedule.GridRange(view, anchor)

	reconcile, err := s.reconciler(ctx, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cells := schedule.BuildGrid(view, anchor, reconcile)

	result := make([]*api.CalendarCellResponse, 0, len(cells))
	for _, cell := range cells {
		result = append(result, cellToAPI(cell))
	}

	return result, nil
}

// reconciler snapshots a doctor's windows, appointments and explicit slot
// records over [from, to] and returns the pure per-date reconcile closure
// the grid builder runs.
func (s *Service) reconciler(ctx context.Context, doctorID string, from, to time.Time) (schedule.Reconciler, error) {
	windows, err := s.store.ListAvailabilityWindows(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.store.ListAppointments(ctx, &doctorID, &from, &to, nil)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListTimeSlotRecords(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	scheduleWindows := windowsToSchedule(windows)
	scheduleAppointments := appointmentsToSchedule(appointments)

	recordsByDate := make(map[string][]schedule.TimeSlotRecord)
	for _, record := range records {
		key := schedule.FormatLocalDate(record.SlotDate)
		recordsByDate[key] = append(recordsByDate[key], schedule.TimeSlotRecord{
			StartTime: record.StartTime,
			Status:    record.Status,
		})
	}

	// One expansion per weekday covers every date in the range.
	expandedByDay := make(map[int][]string, 7)

	return func(date time.Time) schedule.CalendarCell {
		day := schedule.BackendDayOfWeek(date.Weekday())
		expanded, ok := expandedByDay[day]
		if !ok {
			expanded = schedule.ExpandSlots(schedule.WindowsForDate(scheduleWindows, date))
			expandedByDay[day] = expanded
		}

		return schedule.ReconcileDay(date, expanded, scheduleAppointments, recordsByDate[schedule.FormatLocalDate(date)])
	}, nil
}

// dayCell reconciles a single date for a doctor, used by the dashboard
// and by the booking availability check.
func (s *Service) dayCell(ctx context.Context, doctorID string, date time.Time) (schedule.CalendarCell, error) {
	reconcile, err := s.reconciler(ctx, doctorID, date, date)
	if err != nil {
		return schedule.CalendarCell{}, err
	}

	return reconcile(date), nil
}

// Dashboard aggregates the summary cards for one date. With a doctor
// selected it also carries the reconciled single-day cell the dashboard
// calendar renders.
func (s *Service) Dashboard(ctx context.Context, date time.Time, doctorID *string) (*api.DashboardResponse, error) {
	const op = "service.Dashboard"

	doctorCount, err := s.store.CountDoctors(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	appointments, err := s.store.ListAppointments(ctx, doctorID, &date, &date, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &api.DashboardResponse{
		Date:        schedule.FormatLocalDate(date),
		DoctorCount: doctorCount,
	}

	for _, appointment := range appointments {
		switch appointment.Status {
		case models.StatusCancelled:
			result.Cancelled++
			continue
		case models.StatusCheckedIn:
			result.CheckedIn++
		}
		result.Appointments++
	}

	if doctorID != nil {
		cell, err := s.dayCell(ctx, *doctorID, date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.AvailableNow = cell.AvailableCount
		result.Day = cellToAPI(cell)
		return result, nil
	}

	// Clinic-wide card: sum availability across active doctors.
	doctors, err := s.store.ListDoctors(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, doctor := range doctors {
		cell, err := s.dayCell(ctx, doctor.ID, date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.AvailableNow += cell.AvailableCount
	}

	return result, nil
}

// Report summarizes appointments over a date range: totals per status and
// per-doctor utilization (booked vs offered slots).
func (s *Service) Report(ctx context.Context, from, to time.Time, doctorID *string) (*api.ReportResponse, error) {
	const op = "service.Report"

	if to.Before(from) {
		return nil, fmt.Errorf("%s: to is before from: %w", op, response.ErrBadRequest)
	}

	appointments, err := s.store.ListAppointments(ctx, doctorID, &from, &to, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &api.ReportResponse{
		From:     schedule.FormatLocalDate(from),
		To:       schedule.FormatLocalDate(to),
		Total:    len(appointments),
		ByStatus: make(map[string]int),
	}

	bookedByDoctor := make(map[string]int)
	namesByDoctor := make(map[string]string)
	for _, appointment := range appointments {
		result.ByStatus[string(appointment.Status)]++
		namesByDoctor[appointment.DoctorID] = appointment.DoctorName
		if schedule.Occupies(string(appointment.Status)) {
			bookedByDoctor[appointment.DoctorID]++
		}
	}

	var doctors []*models.Doctor
	if doctorID != nil {
		doctor, err := s.store.GetDoctor(ctx, *doctorID)
		if err != nil {
			if errors.Is(err, response.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		doctors = []*models.Doctor{doctor}
	} else {
		doctors, err = s.store.ListDoctors(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	for _, doctor := range doctors {
		offered, err := s.offeredSlots(ctx, doctor.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		booked := bookedByDoctor[doctor.ID]
		utilization := 0.0
		if offered > 0 {
			utilization = float64(booked) / float64(offered)
		}

		result.Utilizations = append(result.Utilizations, api.DoctorUtilization{
			DoctorID:    doctor.ID,
			DoctorName:  doctor.Name,
			Booked:      booked,
			Offered:     offered,
			Utilization: utilization,
		})
	}

	return result, nil
}

// offeredSlots counts the slots a doctor's windows put on offer across a
// date range, one expansion per weekday.
func (s *Service) offeredSlots(ctx context.Context, doctorID string, from, to time.Time) (int, error) {
	windows, err := s.store.ListAvailabilityWindows(ctx, doctorID)
	if err != nil {
		return 0, err
	}

	scheduleWindows := windowsToSchedule(windows)

	slotsByDay := make(map[int]int, 7)
	total := 0
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		day := schedule.BackendDayOfWeek(date.Weekday())
		count, ok := slotsByDay[day]
		if !ok {
			count = len(schedule.ExpandSlots(schedule.WindowsForDate(scheduleWindows, date)))
			slotsByDay[day] = count
		}
		total += count
	}

	return total, nil
}

func windowsToSchedule(windows []*models.AvailabilityWindow) []schedule.AvailabilityWindow {
	result := make([]schedule.AvailabilityWindow, 0, len(windows))
	for _, window := range windows {
		durations := make([]schedule.Duration, 0, len(window.Durations))
		for _, d := range window.Durations {
			durations = append(durations, schedule.Duration{StartTime: d.StartTime, EndTime: d.EndTime})
		}
		result = append(result, schedule.AvailabilityWindow{
			DayOfWeek: window.DayOfWeek,
			Active:    window.Active,
			Durations: durations,
		})
	}
	return result
}

func appointmentsToSchedule(appointments []*models.Appointment) []schedule.Appointment {
	result := make([]schedule.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, schedule.Appointment{
			AppointmentDate: schedule.FormatLocalDate(appointment.AppointmentDate),
			StartTime:       appointment.StartTime,
			Status:          string(appointment.Status),
			PatientName:     appointment.PatientName,
			DoctorName:      appointment.DoctorName,
		})
	}
	return result
}

func cellToAPI(cell schedule.CalendarCell) *api.CalendarCellResponse {
	slots := make([]api.SlotResponse, 0, len(cell.Slots))
	for _, slot := range cell.Slots {
		slots = append(slots, api.SlotResponse{Time: slot.Time, Status: string(slot.Status)})
	}

	return &api.CalendarCellResponse{
		Date:             schedule.FormatLocalDate(cell.Date),
		IsCurrentPeriod:  cell.IsCurrentPeriod,
		Slots:            slots,
		AppointmentCount: cell.AppointmentCount,
		AvailableCount:   cell.AvailableCount,
	}
}
