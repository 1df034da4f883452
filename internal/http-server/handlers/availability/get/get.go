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

type WindowGetter interface {
	GetAvailabilityWindow(ctx context.Context, id string) (*api.AvailabilityWindowResponse, error)
	ListAvailabilityWindows(ctx context.Context, doctorID string) ([]*api.AvailabilityWindowResponse, error)
}

type Response struct {
	response.Response
	Windows []api.AvailabilityWindowResponse `json:"availability_windows,omitempty"`
	Window  *api.AvailabilityWindowResponse  `json:"availability_window,omitempty"`
}

func New(log *slog.Logger, getter WindowGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		// Mounted both as /doctors/{doctorID}/availability (list) and
		// /availability/{id} (single window).
		if doctorID := chi.URLParam(r, "doctorID"); doctorID != "" {
			windows, err := getter.ListAvailabilityWindows(r.Context(), doctorID)
			if err != nil {
				log.Error("Failed to list availability windows", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list availability windows"))
				return
			}

			log.Info("Availability windows retrieved", slog.Int("count", len(windows)))

			windowsResponse := make([]api.AvailabilityWindowResponse, len(windows))
			for i, win := range windows {
				windowsResponse[i] = *win
			}
			render.JSON(w, r, Response{Windows: windowsResponse})
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		window, err := getter.GetAvailabilityWindow(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get availability window", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get availability window"))
			return
		}

		render.JSON(w, r, Response{Window: window})
	}
}
