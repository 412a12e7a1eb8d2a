// Package metrics exposes run counters on the status server's /metrics
// endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiscoverySessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobradar_discovery_sessions_total",
		Help: "Discovery sessions by outcome (found, not_found, error).",
	}, []string{"outcome"})

	ReplayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobradar_replay_calls_total",
		Help: "Replay calls against stored API configs by outcome (ok, error).",
	}, []string{"outcome"})

	JobsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobradar_jobs_found_total",
		Help: "Jobs produced per scrape path (api, html).",
	}, []string{"source"})

	NewJobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobradar_new_jobs_total",
		Help: "Jobs that were not in history and triggered a notification.",
	})

	NotifySends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobradar_notify_sends_total",
		Help: "Notification deliveries by channel and outcome.",
	}, []string{"channel", "outcome"})

	LastPollUnix = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jobradar_last_poll_timestamp_seconds",
		Help: "Unix time of the most recent completed poll.",
	})
)
