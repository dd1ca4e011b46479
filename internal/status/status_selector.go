package status

import (
	"sort"
	"time"
)

// sortNewestFirst orders events by instant descending. The sort is stable so
// ties keep their original feed order, which makes per-user selection
// deterministic.
func sortNewestFirst(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Instant.After(events[j].Instant)
	})
}

// LatestPerUser reduces events to the most recent record per user_id.
// Records without a user_id collapse under the empty key.
func LatestPerUser(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sortNewestFirst(sorted)

	seen := make(map[string]struct{}, len(sorted))
	out := make([]Event, 0, len(sorted))
	for _, e := range sorted {
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// LatestPerUserPreferToday picks today's most recent record for every user
// active today, and the overall most recent record for everyone else. A user
// with any activity today is therefore always represented by today's event,
// even when an older record would win on recency within a larger window.
func LatestPerUserPreferToday(events []Event, today time.Time) []Event {
	var todays, rest []Event
	for _, e := range events {
		if e.LocalDate().Equal(today) {
			todays = append(todays, e)
		} else {
			rest = append(rest, e)
		}
	}

	out := LatestPerUser(todays)
	covered := make(map[string]struct{}, len(out))
	for _, e := range out {
		covered[e.UserID] = struct{}{}
	}
	for _, e := range LatestPerUser(rest) {
		if _, ok := covered[e.UserID]; ok {
			continue
		}
		out = append(out, e)
	}

	sortNewestFirst(out)
	return out
}
