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
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type WindowCreator interface {
	CreateAvailabilityWindow(ctx context.Context, doctorID string, req *api.AvailabilityWindowRequest) (*api.AvailabilityWindowResponse, error)
}

type Request struct {
	api.AvailabilityWindowRequest
}

type Response struct {
	response.Response
	Window api.AvailabilityWindowResponse `json:"availability_window,omitempty"`
}

func New(log *slog.Logger, creator WindowCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		doctorID := chi.URLParam(r, "doctorID")
		if doctorID == "" {
			log.Error("doctor id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "doctor id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		window, err := creator.CreateAvailabilityWindow(r.Context(), doctorID, &req.AvailabilityWindowRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("doctor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "doctor not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid availability window")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "day_of_week must be 1..7"))
			return
		}

		if err != nil {
			log.Error("Failed to create availability window", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create availability window"))
			return
		}

		log.Info("Availability window created", slog.String("window_id", window.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Window: *window})
	}
}
