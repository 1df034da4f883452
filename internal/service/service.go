package service

import (
	"clinic-service/api"
	"clinic-service/internal/lock"
	"clinic-service/internal/models"
	"clinic-service/internal/schedule"
	"clinic-service/pkg/response"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

type Store interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Doctors
	CreateDoctor(ctx context.Context, doctor *models.Doctor) (string, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	ListDoctors(ctx context.Context, activeOnly bool) ([]*models.Doctor, error)
	UpdateDoctor(ctx context.Context, doctor *models.Doctor) error
	DeleteDoctor(ctx context.Context, id string) error
	CountDoctors(ctx context.Context, activeOnly bool) (int, error)

	// Availability windows
	CreateAvailabilityWindow(ctx context.Context, window *models.AvailabilityWindow) (string, error)
	GetAvailabilityWindow(ctx context.Context, id string) (*models.AvailabilityWindow, error)
	ListAvailabilityWindows(ctx context.Context, doctorID string) ([]*models.AvailabilityWindow, error)
	UpdateAvailabilityWindow(ctx context.Context, window *models.AvailabilityWindow) error
	DeleteAvailabilityWindow(ctx context.Context, id string) error

	// Appointments
	CreateAppointment(ctx context.Context, tx *sql.Tx, appointment *models.Appointment) (string, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, doctorID *string, from, to *time.Time, statuses []string) ([]*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	DeleteAppointment(ctx context.Context, id string) error

	// Explicit per-date slot records
	ListTimeSlotRecords(ctx context.Context, doctorID string, from, to time.Time) ([]*models.TimeSlotRecord, error)
}

// Doctors

func (s *Service) CreateDoctor(ctx context.Context, req *api.DoctorRequest) (*api.DoctorResponse, error) {
	const op = "service.CreateDoctor"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	id, err := s.store.CreateDoctor(ctx, &models.Doctor{
		Name:      req.Name,
		Specialty: req.Specialty,
		Active:    req.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetDoctor(ctx, id)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*api.DoctorResponse, error) {
	const op = "service.GetDoctor"

	doctor, err := s.store.GetDoctor(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doctorToAPI(doctor), nil
}

func (s *Service) ListDoctors(ctx context.Context, activeOnly bool) ([]*api.DoctorResponse, error) {
	const op = "service.ListDoctors"

	doctors, err := s.store.ListDoctors(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.DoctorResponse, 0, len(doctors))
	for _, doctor := range doctors {
		result = append(result, doctorToAPI(doctor))
	}

	return result, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, req *api.DoctorRequest) (*api.DoctorResponse, error) {
	const op = "service.UpdateDoctor"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	err := s.store.UpdateDoctor(ctx, &models.Doctor{
		ID:        id,
		Name:      req.Name,
		Specialty: req.Specialty,
		Active:    req.Active,
	})
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetDoctor(ctx, id)
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	const op = "service.DeleteDoctor"

	if err := s.store.DeleteDoctor(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func doctorToAPI(doctor *models.Doctor) *api.DoctorResponse {
	return &api.DoctorResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		Active:    doctor.Active,
	}
}

// Availability windows

func (s *Service) CreateAvailabilityWindow(ctx context.Context, doctorID string, req *api.AvailabilityWindowRequest) (*api.AvailabilityWindowResponse, error) {
	const op = "service.CreateAvailabilityWindow"

	if req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		return nil, fmt.Errorf("%s: day_of_week out of range: %w", op, response.ErrBadRequest)
	}

	if _, err := s.store.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.store.CreateAvailabilityWindow(ctx, &models.AvailabilityWindow{
		DoctorID:  doctorID,
		DayOfWeek: req.DayOfWeek,
		Active:    req.Active,
		Durations: durationsToModel(req.Durations),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAvailabilityWindow(ctx, id)
}

func (s *Service) GetAvailabilityWindow(ctx context.Context, id string) (*api.AvailabilityWindowResponse, error) {
	const op = "service.GetAvailabilityWindow"

	window, err := s.store.GetAvailabilityWindow(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return windowToAPI(window), nil
}

func (s *Service) ListAvailabilityWindows(ctx context.Context, doctorID string) ([]*api.AvailabilityWindowResponse, error) {
	const op = "service.ListAvailabilityWindows"

	windows, err := s.store.ListAvailabilityWindows(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.AvailabilityWindowResponse, 0, len(windows))
	for _, window := range windows {
		result = append(result, windowToAPI(window))
	}

	return result, nil
}

func (s *Service) UpdateAvailabilityWindow(ctx context.Context, id string, req *api.AvailabilityWindowRequest) (*api.AvailabilityWindowResponse, error) {
	const op = "service.UpdateAvailabilityWindow"

	if req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		return nil, fmt.Errorf("%s: day_of_week out of range: %w", op, response.ErrBadRequest)
	}

	window, err := s.store.GetAvailabilityWindow(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	window.DayOfWeek = req.DayOfWeek
	window.Active = req.Active
	window.Durations = durationsToModel(req.Durations)

	if err := s.store.UpdateAvailabilityWindow(ctx, window); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAvailabilityWindow(ctx, id)
}

func (s *Service) DeleteAvailabilityWindow(ctx context.Context, id string) error {
	const op = "service.DeleteAvailabilityWindow"

	if err := s.store.DeleteAvailabilityWindow(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func durationsToModel(durations []api.Duration) []models.Duration {
	result := make([]models.Duration, 0, len(durations))
	for _, d := range durations {
		result = append(result, models.Duration{StartTime: d.StartTime, EndTime: d.EndTime})
	}
	return result
}

func windowToAPI(window *models.AvailabilityWindow) *api.AvailabilityWindowResponse {
	durations := make([]api.Duration, 0, len(window.Durations))
	for _, d := range window.Durations {
		durations = append(durations, api.Duration{StartTime: d.StartTime, EndTime: d.EndTime})
	}

	return &api.AvailabilityWindowResponse{
		ID:        window.ID,
		DoctorID:  window.DoctorID,
		DayOfWeek: window.DayOfWeek,
		Active:    window.Active,
		Durations: durations,
	}
}

// Appointments

func (s *Service) CreateAppointment(ctx context.Context, req *api.AppointmentRequest) (*api.AppointmentResponse, error) {
	const op = "service.CreateAppointment"

	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid appointment_date: %w", op, response.ErrBadRequest)
	}

	startTime := schedule.TruncateToMinute(req.StartTime)
	if _, err := time.Parse("15:04", startTime); err != nil {
		return nil, fmt.Errorf("%s: invalid start_time: %w", op, response.ErrBadRequest)
	}

	status := models.StatusScheduled
	if req.Status != "" {
		normalized, ok := models.NormalizeStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidStatus)
		}
		status = normalized
	}

	if _, err := s.store.GetDoctor(ctx, req.DoctorID); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lockKey := fmt.Sprintf("slot:%s:%s:%s", req.DoctorID, req.AppointmentDate, startTime)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	cell, err := s.dayCell(ctx, req.DoctorID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	available := false
	for _, slot := range cell.Slots {
		if slot.Time == startTime && slot.Status == schedule.SlotAvailable {
			available = true
			break
		}
	}
	if !available {
		return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id, err := s.store.CreateAppointment(ctx, tx, &models.Appointment{
		DoctorID:        req.DoctorID,
		PatientName:     req.PatientName,
		AppointmentDate: date,
		StartTime:       startTime,
		Status:          status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create appointment: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetAppointment(ctx, id)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	const op = "service.GetAppointment"

	appointment, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return appointmentToAPI(appointment), nil
}

func (s *Service) ListAppointments(ctx context.Context, doctorID *string, from, to *time.Time, status *string) ([]*api.AppointmentResponse, error) {
	const op = "service.ListAppointments"

	var statuses []string
	if status != nil {
		normalized, ok := models.NormalizeStatus(*status)
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidStatus)
		}
		statuses = []string{string(normalized)}
	}

	appointments, err := s.store.ListAppointments(ctx, doctorID, from, to, statuses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.AppointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, appointmentToAPI(appointment))
	}

	return result, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	const op = "service.CancelAppointment"

	appointment, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if appointment.Status == models.StatusCompleted {
		return nil, fmt.Errorf("%s: completed appointment: %w", op, response.ErrConflict)
	}

	if err := s.store.UpdateAppointmentStatus(ctx, id, models.StatusCancelled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAppointment(ctx, id)
}

func (s *Service) CheckInAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	const op = "service.CheckInAppointment"

	appointment, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if appointment.Status != models.StatusScheduled {
		return nil, fmt.Errorf("%s: only scheduled appointments check in: %w", op, response.ErrConflict)
	}

	if err := s.store.UpdateAppointmentStatus(ctx, id, models.StatusCheckedIn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAppointment(ctx, id)
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	const op = "service.DeleteAppointment"

	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func appointmentToAPI(appointment *models.Appointment) *api.AppointmentResponse {
	return &api.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		DoctorName:      appointment.DoctorName,
		PatientName:     appointment.PatientName,
		AppointmentDate: schedule.FormatLocalDate(appointment.AppointmentDate),
		StartTime:       appointment.StartTime,
		Status:          string(appointment.Status),
	}
}
