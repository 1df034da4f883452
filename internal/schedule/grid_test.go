package schedule

import (
	"testing"
	"time"
)

func emptyReconciler(date time.Time) CalendarCell {
	return CalendarCell{}
}

func TestBuildGrid_Day(t *testing.T) {
	anchor := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	cells := BuildGrid(ViewDay, anchor, emptyReconciler)

	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if !cells[0].Date.Equal(anchor) || !cells[0].IsCurrentPeriod {
		t.Fatalf("unexpected cell %+v", cells[0])
	}
}

func TestBuildGrid_WeekStartsOnSunday(t *testing.T) {
	wednesday := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	cells := BuildGrid(ViewWeek, wednesday, emptyReconciler)

	if len(cells) != 7 {
		t.Fatalf("expected 7 cells, got %d", len(cells))
	}

	wantStart := time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC) // preceding Sunday
	if !cells[0].Date.Equal(wantStart) {
		t.Fatalf("expected week to start %s, got %s", wantStart, cells[0].Date)
	}
	for i, cell := range cells {
		if !cell.Date.Equal(wantStart.AddDate(0, 0, i)) {
			t.Errorf("cell %d has date %s", i, cell.Date)
		}
		if !cell.IsCurrentPeriod {
			t.Errorf("cell %d should be in the current period", i)
		}
	}
}

func TestBuildGrid_WeekAnchoredOnSunday(t *testing.T) {
	sunday := time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC)

	cells := BuildGrid(ViewWeek, sunday, emptyReconciler)

	if !cells[0].Date.Equal(sunday) {
		t.Fatalf("a Sunday anchor starts its own week, got %s", cells[0].Date)
	}
}

func TestBuildGrid_MonthCompleteness(t *testing.T) {
	anchors := []time.Time{
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),  // Feb 2026: first is a Sunday
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),   // mid-week start
		time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), // 30-day month
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),  // leap February
	}

	for _, anchor := range anchors {
		cells := BuildGrid(ViewMonth, anchor, emptyReconciler)

		if len(cells)%7 != 0 {
			t.Errorf("%s: got %d cells, not a multiple of 7", anchor.Month(), len(cells))
		}

		daysInMonth := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		seen := make(map[int]int)
		for _, cell := range cells {
			if cell.IsCurrentPeriod {
				if cell.Date.Month() != anchor.Month() {
					t.Errorf("%s: current-period cell with date %s", anchor.Month(), cell.Date)
				}
				seen[cell.Date.Day()]++
			}
		}
		if len(seen) != daysInMonth {
			t.Errorf("%s: expected %d current-period days, got %d", anchor.Month(), daysInMonth, len(seen))
		}
		for day, n := range seen {
			if n != 1 {
				t.Errorf("%s: day %d appears %d times", anchor.Month(), day, n)
			}
		}
	}
}

func TestBuildGrid_MonthPaddingReconciled(t *testing.T) {
	anchor := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	calls := 0
	cells := BuildGrid(ViewMonth, anchor, func(date time.Time) CalendarCell {
		calls++
		return CalendarCell{AvailableCount: 1}
	})

	if calls != len(cells) {
		t.Fatalf("expected every cell reconciled, %d calls for %d cells", calls, len(cells))
	}
	for _, cell := range cells {
		if cell.AvailableCount != 1 {
			t.Fatalf("padding cell %s skipped reconciliation", cell.Date)
		}
	}
}

func TestBuildGrid_MonthLeadingTrailingOrder(t *testing.T) {
	// June 2026 starts on a Monday: one leading cell (May 31, a Sunday).
	anchor := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	cells := BuildGrid(ViewMonth, anchor, emptyReconciler)

	if cells[0].IsCurrentPeriod {
		t.Fatalf("expected a leading padding cell, got %+v", cells[0])
	}
	if want := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC); !cells[0].Date.Equal(want) {
		t.Fatalf("expected leading cell %s, got %s", want, cells[0].Date)
	}

	for i := 1; i < len(cells); i++ {
		if !cells[i].Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
			t.Fatalf("cells not contiguous at index %d: %s then %s", i, cells[i-1].Date, cells[i].Date)
		}
	}

	last := cells[len(cells)-1]
	if last.IsCurrentPeriod || last.Date.Month() != time.July {
		t.Fatalf("expected trailing July padding, got %+v", last)
	}
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		name      string
		view      View
		anchor    time.Time
		direction int
		want      time.Time
	}{
		{"day forward", ViewDay, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)},
		{"week back", ViewWeek, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), -1, time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"month forward", ViewMonth, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)},
		// Native rollover: Jan 31 + 1 month normalizes into March.
		{"month rollover", ViewMonth, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Advance(tc.view, tc.anchor, tc.direction); !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestGridRange_MatchesBuildGrid(t *testing.T) {
	for _, view := range []View{ViewDay, ViewWeek, ViewMonth} {
		anchor := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

		cells := BuildGrid(view, anchor, emptyReconciler)
		from, to := GridRange(view, anchor)

		if !cells[0].Date.Equal(from) {
			t.Errorf("%s: range start %s, first cell %s", view, from, cells[0].Date)
		}
		if !cells[len(cells)-1].Date.Equal(to) {
			t.Errorf("%s: range end %s, last cell %s", view, to, cells[len(cells)-1].Date)
		}
	}
}

func TestParseView(t *testing.T) {
	cases := []struct {
		in   string
		want View
		ok   bool
	}{
		{"day", ViewDay, true},
		{"week", ViewWeek, true},
		{"month", ViewMonth, true},
		{"", ViewMonth, true},
		{"year", ViewMonth, false},
	}

	for _, tc := range cases {
		got, ok := ParseView(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseView(%q) = (%s, %v), want (%s, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
