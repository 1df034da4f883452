package get

import (
	"clinic-service/api"
	"clinic-service/internal/schedule"
	"clinic-service/pkg/response"
	"clinic-service/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CalendarBuilder interface {
	Calendar(ctx context.Context, doctorID string, view schedule.View, anchor time.Time) ([]*api.CalendarCellResponse, error)
}

type Response struct {
	response.Response
	View  string                     `json:"view"`
	Date  string                     `json:"date"`
	Cells []api.CalendarCellResponse `json:"cells"`
}

func New(log *slog.Logger, builder CalendarBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		doctorID := r.URL.Query().Get("doctor_id")
		if doctorID == "" {
			log.Error("doctor_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "doctor_id is required"))
			return
		}

		view, ok := schedule.ParseView(r.URL.Query().Get("view"))
		if !ok {
			log.Error("invalid view", slog.String("view", r.URL.Query().Get("view")))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "view must be day, week or month"))
			return
		}

		anchor := time.Now()
		if dateStr := r.URL.Query().Get("date"); dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				log.Error("invalid date", slog.String("date", dateStr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date must be YYYY-MM-DD"))
				return
			}
			anchor = parsed
		}

		cells, err := builder.Calendar(r.Context(), doctorID, view, anchor)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("doctor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "doctor not found"))
			return
		}

		if err != nil {
			log.Error("Failed to build calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build calendar"))
			return
		}

		log.Info("Calendar built",
			slog.String("view", string(view)),
			slog.Int("cells", len(cells)),
		)

		cellsResponse := make([]api.CalendarCellResponse, len(cells))
		for i, cell := range cells {
			cellsResponse[i] = *cell
		}
		render.JSON(w, r, Response{
			View:  string(view),
			Date:  schedule.FormatLocalDate(anchor),
			Cells: cellsResponse,
		})
	}
}
