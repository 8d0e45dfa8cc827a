package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// Command outcomes. Rejected commands were refused by a crafting rule
// (unknown recipe or task, wrong claimant) rather than failing outright.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CommandMetricsCollector tracks mediator traffic: craft requests, executions
// and ledger writes and reads
type CommandMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// NewCommandMetricsCollector builds an unregistered collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "command_duration_seconds",
				Help:      "Time spent handling a command or query",
				Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25},
			},
			[]string{"command", "outcome"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "commands_total",
				Help:      "Commands and queries handled, by outcome",
			},
			[]string{"command", "outcome"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mediator",
			Name:      "commands_in_flight",
			Help:      "Commands currently being handled",
		}),
	}
}

// Register adds the collector's metrics to the shared registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.duration, c.total, c.inFlight)
}

// RecordCommandExecution records one handled command
func (c *CommandMetricsCollector) RecordCommandExecution(command string, seconds float64, outcome string) {
	c.duration.WithLabelValues(command, outcome).Observe(seconds)
	c.total.WithLabelValues(command, outcome).Inc()
}

// ClassifyOutcome maps a handler error onto an outcome label
func ClassifyOutcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var (
		recipe     *crafting.ErrRecipeNotFound
		task       *crafting.ErrTaskNotFound
		transition *crafting.ErrInvalidTaskTransition
		pinned     *crafting.ErrTaskPinned
	)
	switch {
	case errors.As(err, &recipe), errors.As(err, &task), errors.As(err, &transition), errors.As(err, &pinned):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
