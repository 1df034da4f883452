package get

import (
	"clinic-service/api"
	"clinic-service/pkg/response"
	"clinic-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type DoctorGetter interface {
	GetDoctor(ctx context.Context, id string) (*api.DoctorResponse, error)
	ListDoctors(ctx context.Context, activeOnly bool) ([]*api.DoctorResponse, error)
}

type Response struct {
	response.Response
	Doctors []api.DoctorResponse `json:"doctors,omitempty"`
	Doctor  *api.DoctorResponse  `json:"doctor,omitempty"`
}

func New(log *slog.Logger, getter DoctorGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.doctors.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			doctor, err := getter.GetDoctor(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get doctor", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get doctor"))
				return
			}

			render.JSON(w, r, Response{Doctor: doctor})
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"

		doctors, err := getter.ListDoctors(r.Context(), activeOnly)
		if err != nil {
			log.Error("Failed to list doctors", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list doctors"))
			return
		}

		log.Info("Doctors retrieved", slog.Int("count", len(doctors)))

		doctorsResponse := make([]api.DoctorResponse, len(doctors))
		for i, d := range doctors {
			doctorsResponse[i] = *d
		}
		render.JSON(w, r, Response{Doctors: doctorsResponse})
	}
}
