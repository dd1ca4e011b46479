package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatestPerUser_PicksMostRecent(t *testing.T) {
	loc := istLocation(t)
	t1 := time.Date(2025, 8, 27, 9, 0, 0, 0, loc)
	t2 := time.Date(2025, 8, 27, 13, 0, 0, 0, loc)
	t3 := time.Date(2025, 8, 27, 18, 0, 0, 0, loc)

	events := []Event{
		{UserID: "U1", Event: EventPunchIn, Instant: t1},
		{UserID: "U1", Event: EventBreakStart, Instant: t2},
		{UserID: "U1", Event: EventPunchOut, Instant: t3},
	}

	got := LatestPerUser(events)
	assert.Len(t, got, 1)
	assert.Equal(t, EventPunchOut, got[0].Event)
	assert.True(t, got[0].Instant.Equal(t3))
}

func TestLatestPerUser_TiesKeepFeedOrder(t *testing.T) {
	loc := istLocation(t)
	at := time.Date(2025, 8, 27, 9, 0, 0, 0, loc)

	events := []Event{
		{UserID: "U1", Event: EventPunchIn, Instant: at},
		{UserID: "U1", Event: EventBreakStart, Instant: at},
	}

	got := LatestPerUser(events)
	assert.Len(t, got, 1)
	assert.Equal(t, EventPunchIn, got[0].Event, "stable sort keeps the earlier feed row on a tie")
}

func TestLatestPerUser_DoesNotMutateInput(t *testing.T) {
	loc := istLocation(t)
	events := []Event{
		{UserID: "U1", Instant: time.Date(2025, 8, 27, 9, 0, 0, 0, loc)},
		{UserID: "U2", Instant: time.Date(2025, 8, 27, 10, 0, 0, 0, loc)},
	}

	_ = LatestPerUser(events)
	assert.Equal(t, "U1", events[0].UserID)
	assert.Equal(t, "U2", events[1].UserID)
}

func TestLatestPerUserPreferToday(t *testing.T) {
	loc := istLocation(t)
	today := time.Date(2025, 8, 27, 0, 0, 0, 0, loc)

	events := []Event{
		// U1 has a future-dated leave record that would win on raw recency,
		// plus a real punch today.
		{UserID: "U1", Event: EventOnLeave, Instant: time.Date(2025, 8, 28, 10, 0, 0, 0, loc)},
		{UserID: "U1", Event: EventPunchIn, Instant: time.Date(2025, 8, 27, 9, 0, 0, 0, loc)},
		// U2 was last seen yesterday.
		{UserID: "U2", Event: EventPunchOut, Instant: time.Date(2025, 8, 26, 18, 0, 0, 0, loc)},
	}

	byDefault := LatestPerUser(events)
	assert.Equal(t, EventOnLeave, findUser(t, byDefault, "U1").Event)

	preferred := LatestPerUserPreferToday(events, today)
	assert.Len(t, preferred, 2)
	assert.Equal(t, EventPunchIn, findUser(t, preferred, "U1").Event,
		"a user active today is represented by today's latest event")
	assert.Equal(t, EventPunchOut, findUser(t, preferred, "U2").Event,
		"a user inactive today still surfaces the last known state")
}

func findUser(t *testing.T, events []Event, userID string) Event {
	t.Helper()
	for _, e := range events {
		if e.UserID == userID {
			return e
		}
	}
	t.Fatalf("user %s not found", userID)
	return Event{}
}
