package status

// ViewRequest carries the two renderer toggles plus the prefer-today switch.
// Empty values fall back to the configured defaults.
type ViewRequest struct {
	View        string `form:"view" binding:"omitempty,oneof=latest-per-user all-events"`
	Window      string `form:"window" binding:"omitempty,oneof=friday-to-today today-only none"`
	PreferToday *bool  `form:"prefer_today"`
}

// Query is the resolved form of a ViewRequest handed to the service.
type Query struct {
	View        ViewMode
	Window      WindowMode
	PreferToday bool
}

// ViewMode selects which of the two supported views is assembled.
type ViewMode string

const (
	ViewLatestPerUser ViewMode = "latest-per-user"
	ViewAllEvents     ViewMode = "all-events"
)

// ResolveViewMode parses the renderer toggle.
func ResolveViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewLatestPerUser, ViewAllEvents:
		return ViewMode(s), true
	default:
		return ViewLatestPerUser, false
	}
}

// ViewRow is one display-ready row of the assembled table.
type ViewRow struct {
	UserID     string `json:"user_id"`
	NameStatus string `json:"name_status"` // "<name> <indicator> <status>"
	Date       string `json:"date"`        // DD-MM-YYYY
	WorkMode   string `json:"work_mode"`
	Event      string `json:"event"`
	Time       string `json:"time"` // HH:MM:SS <tz label>
}

// ViewSummary is the caption metadata accompanying a view.
type ViewSummary struct {
	View        string `json:"view"`
	Window      string `json:"window"`
	WindowStart string `json:"window_start,omitempty"`
	WindowEnd   string `json:"window_end,omitempty"`

	TotalRecords   int `json:"total_records"`   // normalized rows, pre-window
	ViewRows       int `json:"view_rows"`       // rows in this view
	DroppedRecords int `json:"dropped_records"` // rows excluded by normalization

	EarliestInView string `json:"earliest_in_view,omitempty"`
	LatestInView   string `json:"latest_in_view,omitempty"`
	LastEventAt    string `json:"last_event_at,omitempty"` // across the full batch

	Timezone       string `json:"timezone"`
	Source         string `json:"source"`
	FetchedAt      string `json:"fetched_at"`
	FileModifiedAt string `json:"file_modified_at,omitempty"`

	Stale       bool   `json:"stale,omitempty"`
	SourceError string `json:"source_error,omitempty"`
}

// View is the full assembly result: rows plus summary.
type View struct {
	Rows    []ViewRow   `json:"rows"`
	Summary ViewSummary `json:"summary"`
}
