package create

import (
	"clinic-service/api"
	"clinic-service/pkg/response"
	"clinic-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type DoctorCreator interface {
	CreateDoctor(ctx context.Context, req *api.DoctorRequest) (*api.DoctorResponse, error)
}

type Request struct {
	api.DoctorRequest
}

type Response struct {
	response.Response
	Doctor api.DoctorResponse `json:"doctor,omitempty"`
}

func New(log *slog.Logger, creator DoctorCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.doctors.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.Name == "" {
			log.Error("name is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "name is required"))
			return
		}

		doctor, err := creator.CreateDoctor(r.Context(), &req.DoctorRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("bad request")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid doctor"))
			return
		}

		if err != nil {
			log.Error("Failed to create doctor", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create doctor"))
			return
		}

		log.Info("Doctor created", slog.String("doctor_id", doctor.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Doctor: *doctor})
	}
}
