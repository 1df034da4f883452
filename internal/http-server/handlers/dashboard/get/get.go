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
	"github.com/go-chi/render"
)

type DashboardBuilder interface {
	Dashboard(ctx context.Context, date time.Time, doctorID *string) (*api.DashboardResponse, error)
}

type Response struct {
	response.Response
	Dashboard api.DashboardResponse `json:"dashboard,omitempty"`
}

func New(log *slog.Logger, builder DashboardBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := time.Now()
		if dateStr := r.URL.Query().Get("date"); dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				log.Error("invalid date", slog.String("date", dateStr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date must be YYYY-MM-DD"))
				return
			}
			date = parsed
		}

		var doctorID *string
		if v := r.URL.Query().Get("doctor_id"); v != "" {
			doctorID = &v
		}

		dashboard, err := builder.Dashboard(r.Context(), date, doctorID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("doctor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "doctor not found"))
			return
		}

		if err != nil {
			log.Error("Failed to build dashboard", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build dashboard"))
			return
		}

		log.Info("Dashboard built", slog.String("date", dashboard.Date))

		render.JSON(w, r, Response{Dashboard: *dashboard})
	}
}
