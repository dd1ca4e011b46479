package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/alizain-patel/shifts-online/internal/metrics"
	"github.com/alizain-patel/shifts-online/internal/shared/contextutil"
)

const loadKey = "feed:load"

// Service is the loader collaborator: it serves the current snapshot from the
// cache, collapses concurrent loads, and falls back to the last good snapshot
// (marked stale) when the source is down.
type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Refresh(ctx context.Context) (Snapshot, error)
}

type service struct {
	source  Source
	cache   Cache
	sf      *singleflight.Group
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu       sync.RWMutex
	lastGood *Snapshot
}

func NewService(source Source, cache Cache, m *metrics.Metrics, logger ...*zap.Logger) Service {
	l := zap.L().Named("feed.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("feed.service")
	}
	return &service{
		source:  source,
		cache:   cache,
		sf:      &singleflight.Group{},
		metrics: m,
		logger:  l,
	}
}

func (s *service) Snapshot(ctx context.Context) (Snapshot, error) {
	rid := contextutil.GetRequestID(ctx)

	if snap, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("snapshot cache read failed", zap.String("request_id", rid), zap.Error(err))
	} else if ok {
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		return snap, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}

	return s.load(ctx)
}

func (s *service) Refresh(ctx context.Context) (Snapshot, error) {
	rid := contextutil.GetRequestID(ctx)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidate failed", zap.String("request_id", rid), zap.Error(err))
	}
	return s.load(ctx)
}

// load runs one source fetch, collapsed across concurrent callers. A failed
// fetch serves the last good snapshot flagged stale; with no previous
// snapshot the SourceUnavailable error propagates.
func (s *service) load(ctx context.Context) (Snapshot, error) {
	rid := contextutil.GetRequestID(ctx)

	v, err, shared := s.sf.Do(loadKey, func() (interface{}, error) {
		snap, err := s.source.Load(ctx)
		if err != nil {
			return Snapshot{}, err
		}

		if cacheErr := s.cache.Set(ctx, snap); cacheErr != nil {
			s.logger.Warn("snapshot cache write failed", zap.String("request_id", rid), zap.Error(cacheErr))
		}

		s.mu.Lock()
		s.lastGood = &snap
		s.mu.Unlock()

		return snap, nil
	})

	if err != nil {
		if s.metrics != nil {
			s.metrics.FetchTotal.WithLabelValues("error").Inc()
		}

		s.mu.RLock()
		prev := s.lastGood
		s.mu.RUnlock()

		if prev != nil {
			if s.metrics != nil {
				s.metrics.StaleServes.Inc()
			}
			s.logger.Warn("feed load failed, serving last good snapshot",
				zap.String("request_id", rid),
				zap.String("snapshot_id", prev.ID),
				zap.Error(err),
			)
			stale := *prev
			stale.Stale = true
			stale.SourceError = err.Error()
			return stale, nil
		}

		s.logger.Error("feed load failed with no previous snapshot",
			zap.String("request_id", rid),
			zap.Error(err),
		)
		return Snapshot{}, err
	}

	if s.metrics != nil {
		s.metrics.FetchTotal.WithLabelValues("success").Inc()
	}

	snap := v.(Snapshot)
	s.logger.Debug("feed snapshot loaded",
		zap.String("request_id", rid),
		zap.String("snapshot_id", snap.ID),
		zap.Int("records", len(snap.Records)),
		zap.Bool("shared", shared),
	)
	return snap, nil
}
