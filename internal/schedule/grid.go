package schedule

import "time"

type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView validates a view string, defaulting to month.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return View(s), true
	case "":
		return ViewMonth, true
	default:
		return ViewMonth, false
	}
}

// Reconciler produces the reconciled cell for one date. BuildGrid owns
// Date and IsCurrentPeriod on the returned cells.
type Reconciler func(date time.Time) CalendarCell

// BuildGrid generates the cells for a day, week or month view around the
// anchor date.
//
// Week rows run Sunday through Saturday regardless of month boundaries.
// The month view pads the first row with trailing days of the previous
// month and the last row with leading days of the next month, so the cell
// count is always a multiple of 7; padding cells carry
// IsCurrentPeriod=false but are reconciled like any other so adjacent-
// month previews stay informative.
func BuildGrid(view View, anchor time.Time, reconcile Reconciler) []CalendarCell {
	switch view {
	case ViewWeek:
		start := anchor.AddDate(0, 0, -int(anchor.Weekday()))
		cells := make([]CalendarCell, 0, 7)
		for i := 0; i < 7; i++ {
			cells = append(cells, cellFor(start.AddDate(0, 0, i), true, reconcile))
		}
		return cells

	case ViewMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		daysInMonth := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, anchor.Location()).Day()
		startDayIndex := int(first.Weekday())

		cells := make([]CalendarCell, 0, startDayIndex+daysInMonth+6)

		for i := startDayIndex; i > 0; i-- {
			cells = append(cells, cellFor(first.AddDate(0, 0, -i), false, reconcile))
		}
		for day := 0; day < daysInMonth; day++ {
			cells = append(cells, cellFor(first.AddDate(0, 0, day), true, reconcile))
		}
		for next := 0; len(cells)%7 != 0; next++ {
			cells = append(cells, cellFor(first.AddDate(0, 0, daysInMonth+next), false, reconcile))
		}

		return cells

	default:
		return []CalendarCell{cellFor(anchor, true, reconcile)}
	}
}

func cellFor(date time.Time, current bool, reconcile Reconciler) CalendarCell {
	cell := reconcile(date)
	cell.Date = date
	cell.IsCurrentPeriod = current
	return cell
}

// Advance moves the anchor one step in the given direction: a day, seven
// days, or one calendar month. Month arithmetic keeps native rollover
// semantics (Jan 31 + 1 month normalizes past February).
func Advance(view View, anchor time.Time, direction int) time.Time {
	switch view {
	case ViewWeek:
		return anchor.AddDate(0, 0, 7*direction)
	case ViewMonth:
		return anchor.AddDate(0, direction, 0)
	default:
		return anchor.AddDate(0, 0, direction)
	}
}

// GridRange returns the first and last dates a grid will cover, so data
// for every cell (including adjacent-month padding) can be fetched in one
// round trip. The end bound is inclusive.
func GridRange(view View, anchor time.Time) (time.Time, time.Time) {
	switch view {
	case ViewWeek:
		start := anchor.AddDate(0, 0, -int(anchor.Weekday()))
		return start, start.AddDate(0, 0, 6)
	case ViewMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		daysInMonth := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, anchor.Location()).Day()
		startDayIndex := int(first.Weekday())
		total := startDayIndex + daysInMonth
		if total%7 != 0 {
			total += 7 - total%7
		}
		start := first.AddDate(0, 0, -startDayIndex)
		return start, start.AddDate(0, 0, total-1)
	default:
		return anchor, anchor
	}
}
