package status

import "time"

// WindowMode selects how the record set is restricted before a view is built.
type WindowMode string

const (
	// WindowAnchored keeps the business week: most recent anchor weekday
	// through today.
	WindowAnchored WindowMode = "friday-to-today"
	// WindowTodayOnly keeps only today's records. Takes precedence when both
	// toggles are enabled.
	WindowTodayOnly WindowMode = "today-only"
	// WindowNone disables filtering.
	WindowNone WindowMode = "none"
)

// WindowPolicy fixes the anchor weekday and the behavior when today itself is
// the anchor: keep the window at today, or roll back a full cycle.
type WindowPolicy struct {
	Anchor           time.Weekday
	RollbackOnAnchor bool
}

// Bounds computes the inclusive [start, end] calendar-date window for today.
// today must be a midnight value in the display zone.
func (p WindowPolicy) Bounds(today time.Time) (start, end time.Time) {
	daysSince := (int(today.Weekday()) - int(p.Anchor) + 7) % 7
	if daysSince == 0 && p.RollbackOnAnchor {
		daysSince = 7
	}
	start = today.AddDate(0, 0, -daysSince)

	// The day right after the nominal anchor..anchor+3 span closes the window
	// at anchor+3 instead of stretching it to today.
	if daysSince == 3 {
		end = start.AddDate(0, 0, 3)
	} else {
		end = today
	}
	return start, end
}

// ApplyWindow restricts events to mode. events must already carry display-zone
// instants. The returned bounds are zero for WindowNone.
func ApplyWindow(events []Event, mode WindowMode, policy WindowPolicy, today time.Time) (kept []Event, start, end time.Time) {
	switch mode {
	case WindowTodayOnly:
		start, end = today, today
	case WindowAnchored:
		start, end = policy.Bounds(today)
	default:
		return events, time.Time{}, time.Time{}
	}

	kept = make([]Event, 0, len(events))
	for _, e := range events {
		d := e.LocalDate()
		if !d.Before(start) && !d.After(end) {
			kept = append(kept, e)
		}
	}
	return kept, start, end
}

// ResolveWindowMode parses the renderer toggle, falling back to none.
func ResolveWindowMode(s string) (WindowMode, bool) {
	switch WindowMode(s) {
	case WindowAnchored, WindowTodayOnly, WindowNone:
		return WindowMode(s), true
	default:
		return WindowNone, false
	}
}
