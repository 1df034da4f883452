package get

import (
	"clinic-service/api"
	"clinic-service/internal/schedule"
	"clinic-service/pkg/response"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubBuilder struct {
	cells []*api.CalendarCellResponse
	err   error

	gotDoctorID string
	gotView     schedule.View
	gotAnchor   time.Time
}

func (b *stubBuilder) Calendar(ctx context.Context, doctorID string, view schedule.View, anchor time.Time) ([]*api.CalendarCellResponse, error) {
	b.gotDoctorID = doctorID
	b.gotView = view
	b.gotAnchor = anchor
	return b.cells, b.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCalendarHandler_OK(t *testing.T) {
	builder := &stubBuilder{
		cells: []*api.CalendarCellResponse{
			{Date: "2026-06-01", IsCurrentPeriod: true, Slots: []api.SlotResponse{{Time: "09:00", Status: "available"}}},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/calendar?doctor_id=doc-1&view=day&date=2026-06-01", nil)
	rec := httptest.NewRecorder()

	New(discardLogger(), builder)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if builder.gotDoctorID != "doc-1" {
		t.Errorf("expected doctor_id doc-1, got %s", builder.gotDoctorID)
	}
	if builder.gotView != schedule.ViewDay {
		t.Errorf("expected day view, got %s", builder.gotView)
	}
	if got := schedule.FormatLocalDate(builder.gotAnchor); got != "2026-06-01" {
		t.Errorf("expected anchor 2026-06-01, got %s", got)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.View != "day" || resp.Date != "2026-06-01" {
		t.Errorf("unexpected envelope: view=%s date=%s", resp.View, resp.Date)
	}
	if len(resp.Cells) != 1 || resp.Cells[0].Date != "2026-06-01" {
		t.Errorf("unexpected cells: %+v", resp.Cells)
	}
}

func TestCalendarHandler_DefaultsToMonthView(t *testing.T) {
	builder := &stubBuilder{}

	req := httptest.NewRequest(http.MethodGet, "/calendar?doctor_id=doc-1&date=2026-06-01", nil)
	rec := httptest.NewRecorder()

	New(discardLogger(), builder)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if builder.gotView != schedule.ViewMonth {
		t.Errorf("expected month view by default, got %s", builder.gotView)
	}
}

func TestCalendarHandler_BadInput(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"missing doctor_id", "/calendar?view=day"},
		{"invalid view", "/calendar?doctor_id=doc-1&view=year"},
		{"invalid date", "/calendar?doctor_id=doc-1&view=day&date=01.06.2026"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()

			New(discardLogger(), &stubBuilder{})(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCalendarHandler_DoctorNotFound(t *testing.T) {
	builder := &stubBuilder{err: response.ErrNotFound}

	req := httptest.NewRequest(http.MethodGet, "/calendar?doctor_id=missing&view=day", nil)
	rec := httptest.NewRecorder()

	New(discardLogger(), builder)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
