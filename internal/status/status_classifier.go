package status

import (
	"strings"
	"time"

	"github.com/alizain-patel/shifts-online/internal/feed"
)

// Classify maps a normalized event to its display status. today is the
// current calendar date in the display zone: only Punch Out is
// date-sensitive: a same-day punch-out (or one whose note carries the
// marker phrase) reads as left for the day, an older one as an extended
// absence.
func Classify(e Event, today time.Time) string {
	switch e.Event {
	case EventPunchIn, EventBreakEnd:
		return StatusActive
	case EventBreakStart:
		return StatusOnBreak
	case EventOnLeave:
		return StatusOnLeave
	case EventPunchOut:
		if strings.Contains(strings.ToLower(e.Note), leftForDayMarker) {
			return StatusLeftForDay
		}
		if e.LocalDate().Equal(today) {
			return StatusLeftForDay
		}
		return StatusOnLeave
	default:
		return StatusUnknown
	}
}

// ClassifyWorkMode derives the work-mode label. A work_mode string already
// present in the feed wins; otherwise the approved-location flag decides.
func ClassifyWorkMode(e Event) string {
	if mode := strings.TrimSpace(e.WorkMode); mode != "" {
		return mode
	}
	switch e.AtApprovedLocation {
	case feed.TriTrue:
		return WorkModeInOffice
	case feed.TriFalse:
		return WorkModeFromHome
	default:
		return WorkModeUnknown
	}
}
