// Package metrics provides Prometheus metrics for the loot tracker.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Poller Metrics
	PollCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loot_poll_cycles_total",
			Help: "Total number of poll cycles that attempted a snapshot fetch",
		},
	)

	SnapshotFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loot_snapshot_fetch_failures_total",
			Help: "Total number of poll cycles where the snapshot fetch failed",
		},
	)

	SnapshotFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loot_snapshot_fetch_duration_seconds",
			Help:    "Time taken to fetch and merge one account snapshot",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Session Metrics
	SessionRestartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loot_session_restarts_total",
			Help: "Total number of automatic session restarts by trigger",
		},
		[]string{"trigger"}, // "login", "hourly", "daily"
	)

	SessionsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loot_sessions_saved_total",
			Help: "Total number of finished sessions persisted to history",
		},
	)

	// Reference Data Metrics
	KnownItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loot_known_items",
			Help: "Number of item ids with resolved display metadata",
		},
	)

	KnownCurrencies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loot_known_currencies",
			Help: "Number of currency ids with resolved display metadata",
		},
	)

	PendingResolutions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loot_pending_resolutions",
			Help: "Number of item and currency ids awaiting metadata resolution",
		},
	)

	// GW2 API Metrics
	GW2RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loot_gw2_requests_total",
			Help: "Total number of GW2 API requests by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)
)
