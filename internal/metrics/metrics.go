// Package metrics exposes Prometheus collectors for the populate pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	populateRunsTotal     *prometheus.CounterVec
	entitiesResolvedTotal *prometheus.CounterVec
	gamesCreatedTotal     prometheus.Counter
	gamesSkippedTotal     prometheus.Counter
	fetchDurationSeconds  *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		populateRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wongames_populate_runs_total",
				Help: "Total number of populate runs, labeled by outcome.",
			},
			[]string{"status"},
		)

		entitiesResolvedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wongames_entities_resolved_total",
				Help: "Total reference entity resolutions, labeled by type and outcome.",
			},
			[]string{"type", "outcome"},
		)

		gamesCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wongames_games_created_total",
				Help: "Total number of game records created.",
			},
		)

		gamesSkippedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wongames_games_skipped_total",
				Help: "Total number of products skipped because the title already exists.",
			},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wongames_fetch_duration_seconds",
				Help:    "Histogram of storefront fetch latencies, labeled by endpoint.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"endpoint"},
		)
	})
}

// RecordRun increments the run counter for the given outcome.
func RecordRun(status string) {
	Init()
	populateRunsTotal.WithLabelValues(status).Inc()
}

// RecordEntityResolved increments the resolution counter.
// Outcome is "created" when the resolver had to create the entity and
// "found" when the lookup hit an existing record.
func RecordEntityResolved(entityType, outcome string) {
	Init()
	entitiesResolvedTotal.WithLabelValues(entityType, outcome).Inc()
}

// RecordGameCreated increments the created-games counter.
func RecordGameCreated() {
	Init()
	gamesCreatedTotal.Inc()
}

// RecordGameSkipped increments the skipped-games counter.
func RecordGameSkipped() {
	Init()
	gamesSkippedTotal.Inc()
}

// ObserveFetch records the latency of one storefront fetch.
func ObserveFetch(endpoint string, d time.Duration) {
	Init()
	fetchDurationSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}
