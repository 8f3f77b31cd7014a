package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// Recorder exposes ledger command metrics to Prometheus
type Recorder struct {
	commandCounter *prometheus.CounterVec
	commandLatency *prometheus.HistogramVec
	movementLines  *prometheus.HistogramVec
}

// NewRecorder creates a new recorder and registers its collectors on reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	commandCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_ledger_commands_total",
			Help: "Total number of ledger commands by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	commandLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_ledger_command_duration_seconds",
			Help:    "Duration of ledger commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	movementLines := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_ledger_movement_lines",
			Help:    "Number of lines submitted per accepted movement",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"operation"},
	)

	reg.MustRegister(commandCounter)
	reg.MustRegister(commandLatency)
	reg.MustRegister(movementLines)

	return &Recorder{
		commandCounter: commandCounter,
		commandLatency: commandLatency,
		movementLines:  movementLines,
	}
}

// ObserveCommand records the outcome of one ledger command
func (r *Recorder) ObserveCommand(operation string, err error, lines int, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}

	r.commandCounter.WithLabelValues(operation, outcome).Inc()
	r.commandLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err == nil && lines > 0 {
		r.movementLines.WithLabelValues(operation).Observe(float64(lines))
	}
}
