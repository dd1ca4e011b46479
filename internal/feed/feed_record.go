package feed

import (
	"encoding/json"
	"strings"
	"time"
)

// RawEvent is one record of the punch-clock feed as produced upstream. The
// feed schema evolved over time, so a single batch can mix encodings: exactly
// one of SortKey / Datetime / DatetimeISO / (Date, Time) is expected per row,
// but none of them is guaranteed.
type RawEvent struct {
	UserID FlexString `json:"user_id"`
	Name   string     `json:"name,omitempty"`
	Event  string     `json:"event,omitempty"`

	SortKey     string `json:"sort_key,omitempty"`
	DatetimeISO string `json:"datetime_iso,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Datetime    string `json:"datetime,omitempty"` // legacy "dd/MM/yyyy HH:mm:ss <label>"
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`

	Note               string  `json:"note,omitempty"`
	WorkMode           string  `json:"work_mode,omitempty"`
	AtApprovedLocation TriBool `json:"is_at_approved_location,omitempty"`
}

// Snapshot is one complete load of the feed plus its provenance. Stale and
// SourceError are set by the service when a failed refresh falls back to the
// last good snapshot; they are never cached.
type Snapshot struct {
	ID             string     `json:"id"`
	Records        []RawEvent `json:"records"`
	Source         string     `json:"source"`
	FetchedAt      time.Time  `json:"fetched_at"`
	FileModifiedAt *time.Time `json:"file_modified_at,omitempty"`

	Stale       bool   `json:"-"`
	SourceError string `json:"-"`
}

// FlexString decodes a JSON string, number, or null into a string. The feed
// producer was not consistent about quoting user ids.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// TriBool is a three-valued flag: absent/null, true, or false. The feed
// writes it as a bool, a "true"/"false" string, or not at all.
type TriBool int

const (
	TriUnknown TriBool = iota
	TriTrue
	TriFalse
)

func (t *TriBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "null", `""`:
		*t = TriUnknown
	case "true", `"true"`:
		*t = TriTrue
	case "false", `"false"`:
		*t = TriFalse
	default:
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			// Unrecognized scalar: treat as unknown rather than failing the row.
			*t = TriUnknown
			return nil
		}
		if b {
			*t = TriTrue
		} else {
			*t = TriFalse
		}
	}
	return nil
}

func (t TriBool) MarshalJSON() ([]byte, error) {
	switch t {
	case TriTrue:
		return []byte("true"), nil
	case TriFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t TriBool) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unknown"
	}
}
