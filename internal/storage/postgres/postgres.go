package postgres

import (
	"clinic-service/internal/models"
	"clinic-service/pkg/response"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// #### doctors ####

func (s *Storage) CreateDoctor(ctx context.Context, doctor *models.Doctor) (string, error) {
	const op = "storage.postgres.CreateDoctor"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO doctors (id, name, specialty, is_active) VALUES ($1, $2, $3, $4)`,
		id, doctor.Name, doctor.Specialty, doctor.Active,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	const op = "storage.postgres.GetDoctor"

	var doctor models.Doctor

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, specialty, is_active FROM doctors WHERE id=$1`, id,
	).Scan(&doctor.ID, &doctor.Name, &doctor.Specialty, &doctor.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &doctor, nil
}

func (s *Storage) ListDoctors(ctx context.Context, activeOnly bool) ([]*models.Doctor, error) {
	const op = "storage.postgres.ListDoctors"

	query := `SELECT id, name, specialty, is_active FROM doctors ORDER BY name`
	if activeOnly {
		query = `SELECT id, name, specialty, is_active FROM doctors WHERE is_active ORDER BY name`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var doctors []*models.Doctor
	for rows.Next() {
		var doctor models.Doctor
		if err := rows.Scan(&doctor.ID, &doctor.Name, &doctor.Specialty, &doctor.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		doctors = append(doctors, &doctor)
	}

	return doctors, rows.Err()
}

func (s *Storage) UpdateDoctor(ctx context.Context, doctor *models.Doctor) error {
	const op = "storage.postgres.UpdateDoctor"

	res, err := s.db.ExecContext(ctx,
		`UPDATE doctors SET name=$1, specialty=$2, is_active=$3 WHERE id=$4`,
		doctor.Name, doctor.Specialty, doctor.Active, doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteDoctor(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteDoctor"

	res, err := s.db.ExecContext(ctx, `DELETE FROM doctors WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) CountDoctors(ctx context.Context, activeOnly bool) (int, error) {
	const op = "storage.postgres.CountDoctors"

	query := `SELECT COUNT(*) FROM doctors`
	if activeOnly {
		query = `SELECT COUNT(*) FROM doctors WHERE is_active`
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// #### availability windows ####

func (s *Storage) CreateAvailabilityWindow(ctx context.Context, window *models.AvailabilityWindow) (string, error) {
	const op = "storage.postgres.CreateAvailabilityWindow"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id := uuid.NewString()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO availability_windows (id, doctor_id, day_of_week, is_active) VALUES ($1, $2, $3, $4)`,
		id, window.DoctorID, window.DayOfWeek, window.Active,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := insertDurationsTx(ctx, tx, id, window.Durations); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, nil
}

func insertDurationsTx(ctx context.Context, tx *sql.Tx, windowID string, durations []models.Duration) error {
	for i, d := range durations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO availability_durations (window_id, position, start_time, end_time) VALUES ($1, $2, $3, $4)`,
			windowID, i, d.StartTime, d.EndTime,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) GetAvailabilityWindow(ctx context.Context, id string) (*models.AvailabilityWindow, error) {
	const op = "storage.postgres.GetAvailabilityWindow"

	var window models.AvailabilityWindow

	err := s.db.QueryRowContext(ctx,
		`SELECT id, doctor_id, day_of_week, is_active FROM availability_windows WHERE id=$1`, id,
	).Scan(&window.ID, &window.DoctorID, &window.DayOfWeek, &window.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	durations, err := s.windowDurations(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	window.Durations = durations[id]

	return &window, nil
}

func (s *Storage) ListAvailabilityWindows(ctx context.Context, doctorID string) ([]*models.AvailabilityWindow, error) {
	const op = "storage.postgres.ListAvailabilityWindows"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doctor_id, day_of_week, is_active FROM availability_windows WHERE doctor_id=$1 ORDER BY day_of_week`,
		doctorID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var windows []*models.AvailabilityWindow
	var ids []string
	for rows.Next() {
		var window models.AvailabilityWindow
		if err := rows.Scan(&window.ID, &window.DoctorID, &window.DayOfWeek, &window.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		windows = append(windows, &window)
		ids = append(ids, window.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	durations, err := s.windowDurations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, window := range windows {
		window.Durations = durations[window.ID]
	}

	return windows, nil
}

func (s *Storage) windowDurations(ctx context.Context, windowIDs []string) (map[string][]models.Duration, error) {
	result := make(map[string][]models.Duration, len(windowIDs))
	if len(windowIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT window_id, start_time, end_time FROM availability_durations
		 WHERE window_id = ANY($1) ORDER BY window_id, position`,
		pq.Array(windowIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var windowID string
		var d models.Duration
		if err := rows.Scan(&windowID, &d.StartTime, &d.EndTime); err != nil {
			return nil, err
		}
		result[windowID] = append(result[windowID], d)
	}

	return result, rows.Err()
}

func (s *Storage) UpdateAvailabilityWindow(ctx context.Context, window *models.AvailabilityWindow) error {
	const op = "storage.postgres.UpdateAvailabilityWindow"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE availability_windows SET day_of_week=$1, is_active=$2 WHERE id=$3`,
		window.DayOfWeek, window.Active, window.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	// Durations are replaced wholesale so their stored order stays
	// authoritative.
	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_durations WHERE window_id=$1`, window.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := insertDurationsTx(ctx, tx, window.ID, window.Durations); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteAvailabilityWindow(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAvailabilityWindow"

	res, err := s.db.ExecContext(ctx, `DELETE FROM availability_windows WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### appointments ####

func (s *Storage) CreateAppointment(ctx context.Context, tx *sql.Tx, appointment *models.Appointment) (string, error) {
	const op = "storage.postgres.CreateAppointment"

	id := uuid.NewString()

	_, err := tx.ExecContext(ctx,
		`INSERT INTO appointments (id, doctor_id, patient_name, appointment_date, start_time, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		id, appointment.DoctorID, appointment.PatientName,
		appointment.AppointmentDate, appointment.StartTime, string(appointment.Status),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	const op = "storage.postgres.GetAppointment"

	var appointment models.Appointment

	err := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.doctor_id, d.name, a.patient_name, a.appointment_date, a.start_time, a.status, a.created_at
		 FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 WHERE a.id=$1`, id,
	).Scan(
		&appointment.ID, &appointment.DoctorID, &appointment.DoctorName, &appointment.PatientName,
		&appointment.AppointmentDate, &appointment.StartTime, &appointment.Status, &appointment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &appointment, nil
}

func (s *Storage) ListAppointments(ctx context.Context, doctorID *string, from, to *time.Time, statuses []string) ([]*models.Appointment, error) {
	const op = "storage.postgres.ListAppointments"

	query := `SELECT a.id, a.doctor_id, d.name, a.patient_name, a.appointment_date, a.start_time, a.status, a.created_at
		 FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 WHERE 1=1`
	args := []any{}

	if doctorID != nil {
		args = append(args, *doctorID)
		query += fmt.Sprintf(" AND a.doctor_id=$%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND a.appointment_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND a.appointment_date <= $%d", len(args))
	}
	if len(statuses) > 0 {
		args = append(args, pq.Array(statuses))
		query += fmt.Sprintf(" AND a.status = ANY($%d)", len(args))
	}

	query += " ORDER BY a.appointment_date, a.start_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		var appointment models.Appointment
		if err := rows.Scan(
			&appointment.ID, &appointment.DoctorID, &appointment.DoctorName, &appointment.PatientName,
			&appointment.AppointmentDate, &appointment.StartTime, &appointment.Status, &appointment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		appointments = append(appointments, &appointment)
	}

	return appointments, rows.Err()
}

func (s *Storage) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const op = "storage.postgres.UpdateAppointmentStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE appointments SET status=$1 WHERE id=$2`, string(status), id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteAppointment(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAppointment"

	res, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### time slot records ####

func (s *Storage) ListTimeSlotRecords(ctx context.Context, doctorID string, from, to time.Time) ([]*models.TimeSlotRecord, error) {
	const op = "storage.postgres.ListTimeSlotRecords"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doctor_id, slot_date, start_time, status FROM time_slot_records
		 WHERE doctor_id=$1 AND slot_date BETWEEN $2 AND $3
		 ORDER BY slot_date, start_time`,
		doctorID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []*models.TimeSlotRecord
	for rows.Next() {
		var record models.TimeSlotRecord
		if err := rows.Scan(&record.ID, &record.DoctorID, &record.SlotDate, &record.StartTime, &record.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
