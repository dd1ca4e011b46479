package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/alizain-patel/shifts-online/internal/feed"
)

func istLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)
	return loc
}

func berlinLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)
	return loc
}

func newTestNormalizer(t *testing.T, strategy TZStrategy) *Normalizer {
	t.Helper()
	return NewNormalizer(istLocation(t), "IST", strategy, zap.NewNop())
}

func TestNormalize_LegacyDatetimeNoShift(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	got, err := n.Normalize(feed.RawEvent{Datetime: "21/07/2024 09:15:00 IST"})
	assert.NoError(t, err)
	// The legacy format is already local: date/time survive exactly.
	assert.Equal(t, "2024-07-21 09:15:00", got.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2024-07-21T03:45:00Z", got.UTC().Format(time.RFC3339))
}

func TestNormalize_ISOWithMatchingTagAttachesLocal(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	got, err := n.Normalize(feed.RawEvent{DatetimeISO: "2024-07-21T09:15:00", Timezone: "IST"})
	assert.NoError(t, err)
	assert.Equal(t, "09:15:00", got.Format("15:04:05"))
	assert.Equal(t, "2024-07-21T03:45:00Z", got.UTC().Format(time.RFC3339))
}

func TestNormalize_NaiveISOWithoutTagAssumesUTC(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	got, err := n.Normalize(feed.RawEvent{DatetimeISO: "2024-07-21T09:15:00"})
	assert.NoError(t, err)
	// UTC parse converted to IST: exactly the +05:30 shift.
	assert.Equal(t, "2024-07-21 14:45:00", got.Format("2006-01-02 15:04:05"))
}

func TestNormalize_ISOWithExplicitOffsetIsAbsolute(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	got, err := n.Normalize(feed.RawEvent{SortKey: "2024-07-21T09:15:00+05:30"})
	assert.NoError(t, err)
	assert.Equal(t, "09:15:00", got.Format("15:04:05"))

	got, err = n.Normalize(feed.RawEvent{SortKey: "2024-07-21T09:15:00Z"})
	assert.NoError(t, err)
	assert.Equal(t, "14:45:00", got.Format("15:04:05"))
}

func TestNormalize_StrategyVariants(t *testing.T) {
	naive := feed.RawEvent{DatetimeISO: "2024-07-21T09:15:00"}

	local := newTestNormalizer(t, StrategyAssumeLocal)
	got, err := local.Normalize(naive)
	assert.NoError(t, err)
	assert.Equal(t, "09:15:00", got.Format("15:04:05"))

	// assume-utc ignores even a matching tag.
	utc := newTestNormalizer(t, StrategyAssumeUTC)
	tagged := feed.RawEvent{DatetimeISO: "2024-07-21T09:15:00", Timezone: "IST"}
	got, err = utc.Normalize(tagged)
	assert.NoError(t, err)
	assert.Equal(t, "14:45:00", got.Format("15:04:05"))
}

func TestNormalize_DateTimePairIsLocal(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	got, err := n.Normalize(feed.RawEvent{Date: "2024-07-21", Time: "09:15:00"})
	assert.NoError(t, err)
	assert.Equal(t, "2024-07-21 09:15:00", got.Format("2006-01-02 15:04:05"))

	got, err = n.Normalize(feed.RawEvent{Date: "21/07/2024", Time: "09:15"})
	assert.NoError(t, err)
	assert.Equal(t, "2024-07-21 09:15:00", got.Format("2006-01-02 15:04:05"))
}

func TestNormalize_PrecedenceOrder(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	// sort_key wins over every other encoding present on the same record.
	rec := feed.RawEvent{
		SortKey:     "2024-07-21T01:00:00Z",
		Datetime:    "21/07/2024 09:15:00 IST",
		DatetimeISO: "2024-07-21T12:00:00",
		Date:        "2024-07-21",
		Time:        "18:00:00",
	}
	got, err := n.Normalize(rec)
	assert.NoError(t, err)
	assert.Equal(t, "2024-07-21T01:00:00Z", got.UTC().Format(time.RFC3339))

	// Legacy beats datetime_iso and date+time.
	rec.SortKey = ""
	got, err = n.Normalize(rec)
	assert.NoError(t, err)
	assert.Equal(t, "09:15:00", got.Format("15:04:05"))
}

func TestNormalize_FirstPresentFieldDecides(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	// A broken sort_key does not fall through to the valid date+time pair.
	_, err := n.Normalize(feed.RawEvent{
		SortKey: "not-a-timestamp",
		Date:    "2024-07-21",
		Time:    "09:15:00",
	})
	assert.Error(t, err)
}

func TestNormalize_NoTimestampField(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	_, err := n.Normalize(feed.RawEvent{UserID: "U1", Event: "Punch In"})
	assert.ErrorIs(t, err, errNoTimestamp)
}

func TestNormalize_ClockForwardGapShiftsToTransition(t *testing.T) {
	// Europe/Berlin skips 02:00–03:00 local on 2025-03-30.
	n := NewNormalizer(berlinLocation(t), "CET", StrategyAssumeLocal, zap.NewNop())

	got, err := n.Normalize(feed.RawEvent{Date: "2025-03-30", Time: "02:30:00"})
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-30 03:00:00", got.Format("2006-01-02 15:04:05"))
	_, off := got.Zone()
	assert.Equal(t, 2*3600, off, "resolved instant carries the post-transition offset")
}

func TestNormalize_AmbiguousFoldIsRejected(t *testing.T) {
	// 02:30 local occurs twice on 2025-10-26 in Europe/Berlin.
	n := NewNormalizer(berlinLocation(t), "CET", StrategyAssumeLocal, zap.NewNop())

	_, err := n.Normalize(feed.RawEvent{Date: "2025-10-26", Time: "02:30:00"})
	assert.ErrorIs(t, err, errAmbiguousLocal)
}

func TestNormalizeAll_DropsAndCounts(t *testing.T) {
	n := newTestNormalizer(t, StrategyTagElseUTC)

	events, dropped := n.NormalizeAll([]feed.RawEvent{
		{UserID: "U1", Event: "Punch In", DatetimeISO: "2024-07-21T09:15:00"},
		{UserID: "U2", Event: "Punch Out"}, // no timestamp at all
		{UserID: "U3", Event: "Break Start", Datetime: "22/07/2024 11:00:00 IST"},
	})
	assert.Len(t, events, 2)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "U1", events[0].UserID)
	assert.Equal(t, "U3", events[1].UserID)
}
