package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/alizain-patel/shifts-online/internal/config"
	"github.com/alizain-patel/shifts-online/internal/feed"
	"github.com/alizain-patel/shifts-online/internal/metrics"
	"github.com/alizain-patel/shifts-online/internal/middleware"
	"github.com/alizain-patel/shifts-online/internal/shared/connection"
	"github.com/alizain-patel/shifts-online/internal/status"
)

// BuildApp wires the dashboard service onto the router: middleware, the feed
// loader (HTTP or file source behind a TTL cache), the status pipeline, and
// the routes.
func BuildApp(router *gin.Engine, cfg config.Config) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateRPS), cfg.RateBurst))

	m := metrics.New(prometheus.DefaultRegisterer)

	statusService, err := buildStatusService(cfg, m)
	if err != nil {
		return err
	}

	defaultView, _ := status.ResolveViewMode(cfg.DefaultView)
	handler := status.NewHandler(statusService, status.Defaults{
		View:        defaultView,
		Window:      status.WindowMode(cfg.WindowMode()),
		PreferToday: cfg.PreferToday,
	})

	api := router.Group("/api/v1")
	{
		status.RegisterRoutes(api, handler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return nil
}

// buildStatusService assembles the feed loader and the status pipeline. m may
// be nil for surfaces that carry no metrics endpoint (the snapshot CLI).
func buildStatusService(cfg config.Config, m *metrics.Metrics) (status.Service, error) {
	var source feed.Source
	if cfg.SourceURL != "" {
		source = feed.NewHTTPSource(cfg.SourceURL, cfg.CacheTTL(), cfg.FetchTimeout())
	} else {
		source = feed.NewFileSource(cfg.SourcePath)
	}

	var cache feed.Cache
	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			return nil, err
		}
		log.Println("✅ Redis connection established")
		cache = feed.NewRedisCache(rdb, cfg.CacheTTL())
	} else {
		cache = feed.NewMemoryCache(cfg.CacheTTL())
	}

	feedService := feed.NewService(source, cache, m)

	return status.NewService(feedService, status.Options{
		Location: cfg.Location(),
		TZLabel:  cfg.DisplayTZLabel,
		Strategy: status.TZStrategy(cfg.TZStrategy),
		Window: status.WindowPolicy{
			Anchor:           cfg.AnchorWeekday(),
			RollbackOnAnchor: cfg.WindowAnchorRollback,
		},
	}, m), nil
}
