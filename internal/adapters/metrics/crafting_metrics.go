package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// CraftingMetricsCollector exports the crafting core's counters and gauges
type CraftingMetricsCollector struct {
	craftChecks     *prometheus.CounterVec
	tasksQueued     *prometheus.CounterVec
	tasksCompleted  *prometheus.CounterVec
	tasksCancelled  *prometheus.CounterVec
	consumeFailures *prometheus.CounterVec
	craftsResumed   *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
	pendingCrafts   prometheus.Gauge
}

var _ crafting.MetricsRecorder = (*CraftingMetricsCollector)(nil)

// NewCraftingMetricsCollector creates the collector; call Register to export it
func NewCraftingMetricsCollector() *CraftingMetricsCollector {
	return &CraftingMetricsCollector{
		craftChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "craft_checks_total",
				Help:      "Availability checks by recipe and outcome",
			},
			[]string{"recipe", "satisfied"},
		),
		tasksQueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_queued_total",
				Help:      "Tasks enqueued by recipe",
			},
			[]string{"recipe"},
		),
		tasksCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_completed_total",
				Help:      "Tasks completed by recipe",
			},
			[]string{"recipe"},
		),
		tasksCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_cancelled_total",
				Help:      "Tasks cancelled by recipe and whether they had been claimed",
			},
			[]string{"recipe", "was_active"},
		),
		consumeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "consume_failures_total",
				Help:      "Failed ingredient consumptions by recipe and reason",
			},
			[]string{"recipe", "reason"},
		),
		craftsResumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "crafts_resumed_total",
				Help:      "Pending crafts requeued by recipe and trigger",
			},
			[]string{"recipe", "trigger"},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks",
				Help:      "Current number of tasks by state",
			},
			[]string{"state"},
		),
		pendingCrafts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pending_crafts",
				Help:      "Crafts parked waiting for resources",
			},
		),
	}
}

// Register registers all crafting metrics with the Prometheus registry
func (c *CraftingMetricsCollector) Register() error {
	return register(
		c.craftChecks,
		c.tasksQueued,
		c.tasksCompleted,
		c.tasksCancelled,
		c.consumeFailures,
		c.craftsResumed,
		c.queueDepth,
		c.pendingCrafts,
	)
}

func (c *CraftingMetricsCollector) RecordCraftCheck(recipeID crafting.RecipeID, satisfied bool) {
	c.craftChecks.WithLabelValues(string(recipeID), strconv.FormatBool(satisfied)).Inc()
}

func (c *CraftingMetricsCollector) RecordTaskQueued(recipeID crafting.RecipeID) {
	c.tasksQueued.WithLabelValues(string(recipeID)).Inc()
}

func (c *CraftingMetricsCollector) RecordTaskCompleted(recipeID crafting.RecipeID) {
	c.tasksCompleted.WithLabelValues(string(recipeID)).Inc()
}

func (c *CraftingMetricsCollector) RecordTaskCancelled(recipeID crafting.RecipeID, wasActive bool) {
	c.tasksCancelled.WithLabelValues(string(recipeID), strconv.FormatBool(wasActive)).Inc()
}

func (c *CraftingMetricsCollector) RecordConsumeFailure(recipeID crafting.RecipeID, reason string) {
	c.consumeFailures.WithLabelValues(string(recipeID), reason).Inc()
}

func (c *CraftingMetricsCollector) RecordCraftResumed(recipeID crafting.RecipeID, trigger crafting.ResumeTrigger) {
	c.craftsResumed.WithLabelValues(string(recipeID), string(trigger)).Inc()
}

func (c *CraftingMetricsCollector) SetQueueDepth(queued, active int) {
	c.queueDepth.WithLabelValues("queued").Set(float64(queued))
	c.queueDepth.WithLabelValues("active").Set(float64(active))
}

func (c *CraftingMetricsCollector) SetPendingCrafts(count int) {
	c.pendingCrafts.Set(float64(count))
}
