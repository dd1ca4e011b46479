package status

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alizain-patel/shifts-online/internal/feed"
	"github.com/alizain-patel/shifts-online/internal/metrics"
	"github.com/alizain-patel/shifts-online/internal/shared/contextutil"
)

const (
	dateLayout    = "02-01-2006"
	timeLayout    = "15:04:05"
	instantLayout = "02-01-2006 15:04:05"
)

// SnapshotProvider is the slice of the feed service the pipeline needs.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (feed.Snapshot, error)
	Refresh(ctx context.Context) (feed.Snapshot, error)
}

// Service assembles the display-ready views: one full pass per call, rebuilt
// from scratch: load, normalize, classify, window, select, format.
type Service interface {
	GetView(ctx context.Context, q Query) (View, error)
	Refresh(ctx context.Context, q Query) (View, error)
}

// Options fixes the civil-time policy of the pipeline.
type Options struct {
	Location *time.Location
	TZLabel  string
	Strategy TZStrategy
	Window   WindowPolicy

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

type service struct {
	feed       SnapshotProvider
	normalizer *Normalizer
	opts       Options
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewService(provider SnapshotProvider, opts Options, m *metrics.Metrics, logger ...*zap.Logger) Service {
	l := zap.L().Named("status.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("status.service")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		feed:       provider,
		normalizer: NewNormalizer(opts.Location, opts.TZLabel, opts.Strategy, logger...),
		opts:       opts,
		now:        now,
		metrics:    m,
		logger:     l,
	}
}

func (s *service) GetView(ctx context.Context, q Query) (View, error) {
	snap, err := s.feed.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	return s.assemble(ctx, snap, q), nil
}

func (s *service) Refresh(ctx context.Context, q Query) (View, error) {
	snap, err := s.feed.Refresh(ctx)
	if err != nil {
		return View{}, err
	}
	return s.assemble(ctx, snap, q), nil
}

func (s *service) assemble(ctx context.Context, snap feed.Snapshot, q Query) View {
	started := s.now()
	rid := contextutil.GetRequestID(ctx)

	nowLocal := s.now().In(s.opts.Location)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, s.opts.Location)

	events, dropped := s.normalizer.NormalizeAll(snap.Records)
	if s.metrics != nil && dropped > 0 {
		s.metrics.DroppedRows.Add(float64(dropped))
	}

	windowed, start, end := ApplyWindow(events, q.Window, s.opts.Window, today)

	var selected []Event
	switch {
	case q.View == ViewLatestPerUser && q.PreferToday:
		selected = LatestPerUserPreferToday(windowed, today)
	case q.View == ViewLatestPerUser:
		selected = LatestPerUser(windowed)
	default:
		selected = make([]Event, len(windowed))
		copy(selected, windowed)
		sortNewestFirst(selected)
	}

	rows := make([]ViewRow, len(selected))
	for i, e := range selected {
		rows[i] = ViewRow{
			UserID:     e.UserID,
			NameStatus: composeNameStatus(e.Name, Classify(e, today)),
			Date:       e.Instant.Format(dateLayout),
			WorkMode:   ClassifyWorkMode(e),
			Event:      e.Event,
			Time:       e.Instant.Format(timeLayout) + " " + s.opts.TZLabel,
		}
	}

	summary := ViewSummary{
		View:           string(q.View),
		Window:         string(q.Window),
		TotalRecords:   len(events),
		ViewRows:       len(rows),
		DroppedRecords: dropped,
		Timezone:       s.opts.TZLabel,
		Source:         snap.Source,
		FetchedAt:      snap.FetchedAt.In(s.opts.Location).Format(instantLayout),
		Stale:          snap.Stale,
		SourceError:    snap.SourceError,
	}
	if !start.IsZero() {
		summary.WindowStart = start.Format(dateLayout)
		summary.WindowEnd = end.Format(dateLayout)
	}
	if len(selected) > 0 {
		summary.LatestInView = selected[0].Instant.Format(instantLayout)
		summary.EarliestInView = selected[len(selected)-1].Instant.Format(instantLayout)
	}
	if last, ok := s.lastEventAt(snap.Records, events); ok {
		summary.LastEventAt = last.Format(instantLayout)
	}
	if snap.FileModifiedAt != nil {
		summary.FileModifiedAt = snap.FileModifiedAt.In(s.opts.Location).Format(instantLayout)
	}

	if s.metrics != nil {
		s.metrics.PassesTotal.Inc()
		s.metrics.ViewRows.Set(float64(len(rows)))
		s.metrics.PassDuration.Observe(s.now().Sub(started).Seconds())
	}
	s.logger.Debug("view assembled",
		zap.String("request_id", rid),
		zap.String("view", string(q.View)),
		zap.String("window", string(q.Window)),
		zap.Int("rows", len(rows)),
		zap.Int("dropped", dropped),
	)

	return View{Rows: rows, Summary: summary}
}

// lastEventAt finds the batch-wide latest instant for the footer, preferring
// the maximum raw sort_key when any row carries one.
func (s *service) lastEventAt(records []feed.RawEvent, events []Event) (time.Time, bool) {
	var best time.Time
	found := false
	for _, rec := range records {
		raw := strings.TrimSpace(rec.SortKey)
		if raw == "" {
			continue
		}
		t, err := s.normalizer.parseISO(rec, raw)
		if err != nil {
			continue
		}
		if !found || t.After(best) {
			best, found = t, true
		}
	}
	if found {
		return best.In(s.opts.Location), true
	}

	for _, e := range events {
		if !found || e.Instant.After(best) {
			best, found = e.Instant, true
		}
	}
	return best, found
}

func composeNameStatus(name, status string) string {
	if name == "" {
		return status
	}
	return name + " " + status
}
