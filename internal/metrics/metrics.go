package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service-level prometheus collectors. One instance is
// wired through the feed and status services; tests pass their own registry.
type Metrics struct {
	FetchTotal   *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	StaleServes  prometheus.Counter
	PassesTotal  prometheus.Counter
	DroppedRows  prometheus.Counter
	ViewRows     prometheus.Gauge
	PassDuration prometheus.Summary
}

// New registers the collectors on reg, defaulting to the global registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shifts",
			Subsystem: "feed",
			Name:      "fetch_total",
			Help:      "Feed source loads by outcome.",
		}, []string{"outcome"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shifts",
			Subsystem: "feed",
			Name:      "cache_hits_total",
			Help:      "Snapshot cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shifts",
			Subsystem: "feed",
			Name:      "cache_misses_total",
			Help:      "Snapshot cache misses.",
		}),
		StaleServes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shifts",
			Subsystem: "feed",
			Name:      "stale_serves_total",
			Help:      "Requests answered from the last good snapshot after a load failure.",
		}),
		PassesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shifts",
			Subsystem: "status",
			Name:      "passes_total",
			Help:      "Completed pipeline passes.",
		}),
		DroppedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shifts",
			Subsystem: "status",
			Name:      "dropped_rows_total",
			Help:      "Records excluded because no timestamp could be derived.",
		}),
		ViewRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shifts",
			Subsystem: "status",
			Name:      "view_rows",
			Help:      "Row count of the most recently assembled view.",
		}),
		PassDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:  "shifts",
			Subsystem:  "status",
			Name:       "pass_duration_seconds",
			Help:       "Duration of one full pipeline pass.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
	}

	reg.MustRegister(
		m.FetchTotal,
		m.CacheHits,
		m.CacheMisses,
		m.StaleServes,
		m.PassesTotal,
		m.DroppedRows,
		m.ViewRows,
		m.PassDuration,
	)
	return m
}

// Handler serves the default registry, for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
