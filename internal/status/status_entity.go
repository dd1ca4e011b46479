package status

import (
	"time"

	"github.com/alizain-patel/shifts-online/internal/feed"
)

// Raw event vocabulary as written by the punch-clock producer.
const (
	EventPunchIn    = "Punch In"
	EventBreakStart = "Break Start"
	EventBreakEnd   = "Break End"
	EventPunchOut   = "Punch Out"
	EventOnLeave    = "On Leave"
)

// Display statuses, indicator included, matching the dashboard labels.
const (
	StatusActive     = "🟢 active"
	StatusOnBreak    = "🟠 on break"
	StatusOnLeave    = "🔴 on leave"
	StatusLeftForDay = "🔴 left for the day"
	StatusUnknown    = "⚪ unknown"
)

// Work-mode labels derived from is_at_approved_location.
const (
	WorkModeUnknown  = "Unknown"
	WorkModeInOffice = "In Office"
	WorkModeFromHome = "Work from home"
)

// leftForDayMarker in a Punch Out note forces the left-for-the-day status
// regardless of the event date.
const leftForDayMarker = "left for the day"

// Event is a feed record that survived normalization: exactly one absolute
// instant, already expressed in the display timezone.
type Event struct {
	UserID  string
	Name    string
	Event   string
	Note    string
	Instant time.Time

	// Raw fields carried through for classification and the summary footer.
	SortKey            string
	WorkMode           string
	AtApprovedLocation feed.TriBool
}

// LocalDate truncates the instant to its calendar date in the display zone.
func (e Event) LocalDate() time.Time {
	y, m, d := e.Instant.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Instant.Location())
}
