package api

// Doctors

type DoctorRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Active    bool   `json:"active"`
}

type DoctorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Active    bool   `json:"active"`
}

// Availability windows

type Duration struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityWindowRequest struct {
	DayOfWeek int        `json:"day_of_week"`
	Active    bool       `json:"active"`
	Durations []Duration `json:"durations"`
}

type AvailabilityWindowResponse struct {
	ID        string     `json:"id"`
	DoctorID  string     `json:"doctor_id"`
	DayOfWeek int        `json:"day_of_week"`
	Active    bool       `json:"active"`
	Durations []Duration `json:"durations"`
}

// Appointments

type AppointmentRequest struct {
	DoctorID        string `json:"doctor_id"`
	PatientName     string `json:"patient_name"`
	AppointmentDate string `json:"appointment_date"` // YYYY-MM-DD
	StartTime       string `json:"start_time"`       // HH:MM or HH:MM:SS
	Status          string `json:"status,omitempty"`
}

type AppointmentResponse struct {
	ID              string `json:"id"`
	DoctorID        string `json:"doctor_id"`
	DoctorName      string `json:"doctor_name,omitempty"`
	PatientName     string `json:"patient_name"`
	AppointmentDate string `json:"appointment_date"`
	StartTime       string `json:"start_time"`
	Status          string `json:"status"`
}

// Calendar

type SlotResponse struct {
	Time   string `json:"time"`
	Status string `json:"status"`
}

type CalendarCellResponse struct {
	Date             string         `json:"date"`
	IsCurrentPeriod  bool           `json:"is_current_period"`
	Slots            []SlotResponse `json:"slots"`
	AppointmentCount int            `json:"appointment_count"`
	AvailableCount   int            `json:"available_count"`
}

// Dashboard summary cards plus the single-day calendar cell.
type DashboardResponse struct {
	Date         string                `json:"date"`
	DoctorCount  int                   `json:"doctor_count"`
	Appointments int                   `json:"appointments"`
	CheckedIn    int                   `json:"checked_in"`
	Cancelled    int                   `json:"cancelled"`
	AvailableNow int                   `json:"available_slots"`
	Day          *CalendarCellResponse `json:"day,omitempty"`
}

// Reports

type DoctorUtilization struct {
	DoctorID    string  `json:"doctor_id"`
	DoctorName  string  `json:"doctor_name"`
	Booked      int     `json:"booked"`
	Offered     int     `json:"offered"`
	Utilization float64 `json:"utilization"`
}

type ReportResponse struct {
	From         string              `json:"from"`
	To           string              `json:"to"`
	Total        int                 `json:"total_appointments"`
	ByStatus     map[string]int      `json:"by_status"`
	Utilizations []DoctorUtilization `json:"doctors"`
}
