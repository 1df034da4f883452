package get

import (
	"clinic-service/api"
	"clinic-service/pkg/response"
	"clinic-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type AppointmentGetter interface {
	GetAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error)
	ListAppointments(ctx context.Context, doctorID *string, from, to *time.Time, status *string) ([]*api.AppointmentResponse, error)
}

type Response struct {
	response.Response
	Appointments []api.AppointmentResponse `json:"appointments,omitempty"`
	Appointment  *api.AppointmentResponse  `json:"appointment,omitempty"`
}

func New(log *slog.Logger, getter AppointmentGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			appointment, err := getter.GetAppointment(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get appointment", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get appointment"))
				return
			}

			render.JSON(w, r, Response{Appointment: appointment})
			return
		}

		var doctorID, status *string
		var from, to *time.Time

		if v := r.URL.Query().Get("doctor_id"); v != "" {
			doctorID = &v
		}
		if v := r.URL.Query().Get("status"); v != "" {
			status = &v
		}
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				from = &t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				to = &t
			}
		}

		appointments, err := getter.ListAppointments(r.Context(), doctorID, from, to, status)

		if errors.Is(err, response.ErrInvalidStatus) {
			log.Error("invalid status filter")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_STATUS), "invalid status"))
			return
		}

		if err != nil {
			log.Error("Failed to list appointments", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list appointments"))
			return
		}

		log.Info("Appointments retrieved", slog.Int("count", len(appointments)))

		appointmentsResponse := make([]api.AppointmentResponse, len(appointments))
		for i, a := range appointments {
			appointmentsResponse[i] = *a
		}
		render.JSON(w, r, Response{Appointments: appointmentsResponse})
	}
}
