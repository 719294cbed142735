// Package metrics holds the Prometheus counters for one batch run. The run
// is short-lived, so the registry is written to a node-exporter textfile
// instead of being scraped.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors for a run on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	ScheduleFetches *prometheus.CounterVec
	GamesCounted    prometheus.Counter
	GamesSkipped    *prometheus.CounterVec
	EmptyCategories prometheus.Gauge
	Categories      prometheus.Gauge
	RunDuration     prometheus.Gauge
}

// New registers a fresh set of collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ScheduleFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolstats",
			Name:      "schedule_fetch_total",
			Help:      "Team schedule fetches by result.",
		}, []string{"result"}),
		GamesCounted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "poolstats",
			Name:      "h2h_games_counted_total",
			Help:      "Games counted into the head-to-head matrix.",
		}),
		GamesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolstats",
			Name:      "h2h_games_skipped_total",
			Help:      "Schedule games skipped during reconciliation, by reason.",
		}, []string{"reason"}),
		EmptyCategories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "poolstats",
			Name:      "categories_empty",
			Help:      "Categories with no qualifying entries in the last run.",
		}),
		Categories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "poolstats",
			Name:      "categories",
			Help:      "Categories produced by the last run.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "poolstats",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	m.Registry.MustRegister(
		m.ScheduleFetches,
		m.GamesCounted,
		m.GamesSkipped,
		m.EmptyCategories,
		m.Categories,
		m.RunDuration,
	)
	return m
}

// WriteTextfile dumps the registry in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
