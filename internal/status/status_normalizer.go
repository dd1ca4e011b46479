package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alizain-patel/shifts-online/internal/feed"
)

// TZStrategy decides the provenance of an ISO timestamp written without an
// offset: the producing system did not consistently tag its timezone.
type TZStrategy string

const (
	// StrategyTagElseUTC trusts a timezone tag matching the display label,
	// otherwise assumes UTC. Assuming UTC is the safe default for a zone
	// ahead of UTC: a misread row lands in the past, never in the future.
	StrategyTagElseUTC TZStrategy = "tag-else-utc"
	StrategyAssumeUTC  TZStrategy = "assume-utc"
	StrategyAssumeLocal TZStrategy = "assume-local"
)

var errNoTimestamp = errors.New("no recognized timestamp field")

// isoLayouts accepted for sort_key / datetime_iso values without an offset.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// legacyLayout for the old "dd/MM/yyyy HH:mm:ss <label>" strings, label
// already stripped. Always written in local display time.
const legacyLayout = "02/01/2006 15:04:05"

// pairLayouts accepted for the separate date + time fields, joined by a space.
var pairLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// fieldRule is one entry of the timestamp precedence list: extract pulls the
// raw value (empty means the field is absent), parse interprets it. The first
// rule with a present field decides the record; a parse failure does not fall
// through to later rules.
type fieldRule struct {
	name    string
	extract func(feed.RawEvent) string
	parse   func(n *Normalizer, rec feed.RawEvent, raw string) (time.Time, error)
}

// Normalizer derives one absolute instant per feed record, expressed in the
// display timezone, across every encoding the feed has used over time.
type Normalizer struct {
	loc      *time.Location
	label    string
	strategy TZStrategy
	rules    []fieldRule
	logger   *zap.Logger
}

func NewNormalizer(loc *time.Location, label string, strategy TZStrategy, logger ...*zap.Logger) *Normalizer {
	l := zap.L().Named("status.normalizer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("status.normalizer")
	}
	n := &Normalizer{loc: loc, label: label, strategy: strategy, logger: l}
	n.rules = []fieldRule{
		{
			name:    "sort_key",
			extract: func(r feed.RawEvent) string { return strings.TrimSpace(r.SortKey) },
			parse:   (*Normalizer).parseISO,
		},
		{
			name:    "datetime",
			extract: func(r feed.RawEvent) string { return strings.TrimSpace(r.Datetime) },
			parse:   (*Normalizer).parseLegacy,
		},
		{
			name:    "datetime_iso",
			extract: func(r feed.RawEvent) string { return strings.TrimSpace(r.DatetimeISO) },
			parse:   (*Normalizer).parseISO,
		},
		{
			name: "date+time",
			extract: func(r feed.RawEvent) string {
				if strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.Time) == "" {
					return ""
				}
				return strings.TrimSpace(r.Date) + " " + strings.TrimSpace(r.Time)
			},
			parse: (*Normalizer).parsePair,
		},
	}
	return n
}

// Normalize resolves one record to an instant, or reports it malformed.
func (n *Normalizer) Normalize(rec feed.RawEvent) (time.Time, error) {
	for _, rule := range n.rules {
		raw := rule.extract(rec)
		if raw == "" {
			continue
		}
		t, err := rule.parse(n, rec, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s %q: %w", rule.name, raw, err)
		}
		return t, nil
	}
	return time.Time{}, errNoTimestamp
}

// NormalizeAll converts a batch, dropping malformed records. The dropped
// count is returned for the summary; each drop is logged with its reason.
func (n *Normalizer) NormalizeAll(records []feed.RawEvent) ([]Event, int) {
	events := make([]Event, 0, len(records))
	dropped := 0
	for _, rec := range records {
		instant, err := n.Normalize(rec)
		if err != nil {
			dropped++
			n.logger.Warn("record dropped",
				zap.String("user_id", rec.UserID.String()),
				zap.String("event", rec.Event),
				zap.Error(err),
			)
			continue
		}
		events = append(events, Event{
			UserID:             rec.UserID.String(),
			Name:               rec.Name,
			Event:              rec.Event,
			Note:               rec.Note,
			Instant:            instant,
			SortKey:            rec.SortKey,
			WorkMode:           rec.WorkMode,
			AtApprovedLocation: rec.AtApprovedLocation,
		})
	}
	return events, dropped
}

// parseISO handles sort_key and datetime_iso. Strings with an explicit offset
// are absolute; naive strings are resolved by the configured strategy.
func (n *Normalizer) parseISO(rec feed.RawEvent, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(n.loc), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(n.loc), nil
	}

	naive, err := parseNaive(raw, isoLayouts)
	if err != nil {
		return time.Time{}, err
	}

	local := n.strategy == StrategyAssumeLocal ||
		(n.strategy == StrategyTagElseUTC && strings.EqualFold(strings.TrimSpace(rec.Timezone), n.label))
	if local {
		return resolveLocal(naive, n.loc)
	}
	return naive.UTC().In(n.loc), nil
}

// parseLegacy handles the oldest encoding, always produced in local display
// time with a trailing zone label ("21/07/2024 09:15:00 IST").
func (n *Normalizer) parseLegacy(rec feed.RawEvent, raw string) (time.Time, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, " "+n.label))
	naive, err := time.Parse(legacyLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return resolveLocal(naive, n.loc)
}

// parsePair handles the separate date + time fields, local display time.
func (n *Normalizer) parsePair(rec feed.RawEvent, raw string) (time.Time, error) {
	naive, err := parseNaive(raw, pairLayouts)
	if err != nil {
		return time.Time{}, err
	}
	return resolveLocal(naive, n.loc)
}

func parseNaive(raw string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
