package tournament

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	roundsConfirmed prometheus.Counter
	roundsCancelled prometheus.Counter
	saveFailures    prometheus.Counter
	completedGames  prometheus.Gauge
}

// NewMetrics registers the ledger metrics with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		roundsConfirmed: f.NewCounter(prometheus.CounterOpts{
			Name: "bakken_rounds_confirmed_total",
			Help: "Rounds confirmed and scored.",
		}),
		roundsCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "bakken_rounds_cancelled_total",
			Help: "Rounds cancelled without a result.",
		}),
		saveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "bakken_snapshot_save_failures_total",
			Help: "Snapshot writes to the archive that failed.",
		}),
		completedGames: f.NewGauge(prometheus.GaugeOpts{
			Name: "bakken_completed_games",
			Help: "Games completed in the current year.",
		}),
	}
}
