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

type ReportBuilder interface {
	Report(ctx context.Context, from, to time.Time, doctorID *string) (*api.ReportResponse, error)
}

type Response struct {
	response.Response
	Report api.ReportResponse `json:"report,omitempty"`
}

func New(log *slog.Logger, builder ReportBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		fromStr := r.URL.Query().Get("from")
		toStr := r.URL.Query().Get("to")
		if fromStr == "" || toStr == "" {
			log.Error("from/to are required")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "from and to are required"))
			return
		}

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			log.Error("invalid from", slog.String("from", fromStr))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "from must be YYYY-MM-DD"))
			return
		}

		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			log.Error("invalid to", slog.String("to", toStr))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "to must be YYYY-MM-DD"))
			return
		}

		var doctorID *string
		if v := r.URL.Query().Get("doctor_id"); v != "" {
			doctorID = &v
		}

		report, err := builder.Report(r.Context(), from, to, doctorID)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid range")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "to is before from"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("doctor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "doctor not found"))
			return
		}

		if err != nil {
			log.Error("Failed to build report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build report"))
			return
		}

		log.Info("Report built",
			slog.String("from", report.From),
			slog.String("to", report.To),
			slog.Int("total", report.Total),
		)

		render.JSON(w, r, Response{Report: *report})
	}
}
