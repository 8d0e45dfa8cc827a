package simulation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/colony"
	appCrafting "github.com/andrescamacho/colonycraft-go/internal/application/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/application/crafting/commands"
	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// Options tune the tick loop
type Options struct {
	// Simulated time per tick
	TickDuration time.Duration
	// Ticks to run
	Ticks int
	// Wall-clock pacing; 0 runs unpaced
	TickRateHz float64
}

// Deps are the pieces the runner drives. Clock must be the same manual clock
// the crafting system was built with.
type Deps struct {
	System   *appCrafting.CraftingSystem
	Colony   *colony.Colony
	Mediator common.Mediator
	Clock    *shared.ManualClock
	Logger   common.Logger

	// Bus, when set, lets the report count event-driven resumes as well as sweeps
	Bus crafting.NotificationBus
}

// ProducedItem is one completed craft
type ProducedItem struct {
	Tick    int
	AgentID string
	TaskID  crafting.TaskID
	Item    crafting.Item
}

// Report summarises a run
type Report struct {
	Ticks          int
	Requested      int
	Queued         int
	Parked         int
	Completed      int
	Failed         int
	Resumed        int
	GatherRequests int
	Delivered      int
	Produced       []ProducedItem
	OpenTasks      int
	PendingCrafts  int
}

// Runner steps a colony forward one tick at a time. Each tick it applies
// scheduled scenario events, fulfils gather requests, lets idle colonists
// claim work, advances the crafting core and executes finished crafts.
//
// The runner and the crafting core share one goroutine.
type Runner struct {
	deps     Deps
	scenario *Scenario
	opts     Options
	limiter  *rate.Limiter
	logger   common.Logger

	tick        int
	working     map[shared.AgentID]crafting.TaskID
	scheduled   []DeliverySpec
	report      Report
	unsubscribe func()
}

// NewRunner creates a runner; the scenario's agents and storehouses must
// already be in deps.Colony
func NewRunner(deps Deps, scenario *Scenario, opts Options) (*Runner, error) {
	if deps.System == nil || deps.Colony == nil || deps.Mediator == nil || deps.Clock == nil {
		return nil, fmt.Errorf("simulation requires a crafting system, colony, mediator and clock")
	}
	if opts.TickDuration <= 0 {
		return nil, fmt.Errorf("tick duration must be positive")
	}
	logger := deps.Logger
	if logger == nil {
		logger = common.NoOpLogger()
	}

	r := &Runner{
		deps:     deps,
		scenario: scenario,
		opts:     opts,
		logger:   logger,
		working:  make(map[shared.AgentID]crafting.TaskID),
	}
	if opts.TickRateHz > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.TickRateHz), 1)
	}
	r.scheduled = append(r.scheduled, scenario.Deliveries...)
	if deps.Bus != nil {
		r.unsubscribe = deps.Bus.Subscribe(crafting.EventCraftResumed, func(crafting.Event) {
			r.report.Resumed++
		})
	}
	return r, nil
}

// Close detaches the runner from the bus
func (r *Runner) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Tick returns the number of ticks stepped so far
func (r *Runner) Tick() int { return r.tick }

// Run steps opts.Ticks times, pacing with the limiter when configured
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	ctx = common.WithLogger(ctx, r.logger)
	r.logger.Log(common.LevelInfo, fmt.Sprintf("[Simulation] Starting %q for %d ticks of %s", r.scenario.Name, r.opts.Ticks, r.opts.TickDuration), nil)

	for r.tick < r.opts.Ticks {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return r.finish(), err
			}
		} else if err := ctx.Err(); err != nil {
			return r.finish(), err
		}
		if err := r.Step(ctx); err != nil {
			return r.finish(), err
		}
	}

	report := r.finish()
	r.logger.Log(common.LevelInfo, fmt.Sprintf("[Simulation] Finished after %d ticks: %d completed, %d parked, %d resumed",
		report.Ticks, report.Completed, report.Parked, report.Resumed), nil)
	return report, nil
}

// Step advances the colony by one tick
func (r *Runner) Step(ctx context.Context) error {
	r.tick++
	r.deps.Clock.Advance(r.opts.TickDuration)

	r.completeConstruction()
	if err := r.deliver(); err != nil {
		return err
	}
	if err := r.requestCrafts(ctx); err != nil {
		return err
	}
	r.collectGatherRequests()
	r.claimWork()

	swept := r.deps.System.Update(r.opts.TickDuration)
	if r.deps.Bus == nil {
		r.report.Resumed += swept
	}

	return r.executeFinished(ctx)
}

func (r *Runner) completeConstruction() {
	for _, h := range r.scenario.Storehouses {
		if h.Built || h.BuiltAtTick != r.tick {
			continue
		}
		if structure, ok := r.deps.Colony.Settlement.Structure(h.Building); ok && !structure.IsBuilt() {
			structure.MarkBuilt()
			r.logger.Log(common.LevelInfo, fmt.Sprintf("[Simulation] Tick %d: %s finished construction", r.tick, h.Building), nil)
		}
	}
}

// deliver applies every scheduled delivery due this tick. Agent deliveries
// publish InventoryChanged; depot deposits are only seen by the sweep.
func (r *Runner) deliver() error {
	remaining := r.scheduled[:0]
	for _, d := range r.scheduled {
		if dueTick(d.AtTick) > r.tick {
			remaining = append(remaining, d)
			continue
		}
		kind := crafting.ResourceKind(d.Kind)
		if d.Agent != "" {
			agentID, err := shared.NewAgentID(d.Agent)
			if err != nil {
				return err
			}
			if err := r.deps.Colony.Deliver(agentID, kind, d.Amount); err != nil {
				r.logger.Log(common.LevelWarn, fmt.Sprintf("[Simulation] Delivery to %s failed: %v", d.Agent, err), nil)
				continue
			}
		} else {
			depot, ok := r.deps.Colony.Storage.Depot(d.Storage)
			if !ok {
				r.logger.Log(common.LevelWarn, fmt.Sprintf("[Simulation] Delivery to unknown storage %s dropped", d.Storage), nil)
				continue
			}
			if err := depot.Deposit(kind, d.Amount); err != nil {
				r.logger.Log(common.LevelWarn, fmt.Sprintf("[Simulation] Delivery to %s failed: %v", d.Storage, err), nil)
				continue
			}
		}
		r.report.Delivered++
	}
	r.scheduled = remaining
	return nil
}

func (r *Runner) requestCrafts(ctx context.Context) error {
	for _, c := range r.scenario.Crafts {
		if dueTick(c.AtTick) != r.tick {
			continue
		}
		for i := 0; i < c.Count; i++ {
			r.report.Requested++
			if c.Agent == "" {
				if id := r.deps.System.QueueTask(crafting.RecipeID(c.Recipe), shared.NoAgent); id.IsValid() {
					r.report.Queued++
				}
				continue
			}

			resp, err := r.deps.Mediator.Send(ctx, &commands.RequestCraftCommand{AgentID: c.Agent, RecipeID: c.Recipe, Pin: c.Pin})
			if err != nil {
				r.logger.Log(common.LevelWarn, fmt.Sprintf("[Simulation] Craft request %s for %s rejected: %v", c.Recipe, c.Agent, err), nil)
				continue
			}
			switch resp.(*commands.RequestCraftResponse).Status {
			case commands.CraftStatusQueued:
				r.report.Queued++
			case commands.CraftStatusPending:
				r.report.Parked++
			}
		}
	}
	return nil
}

// collectGatherRequests turns gather requests into future deliveries when
// auto-gathering is on. Requests without an agent restock the first depot.
func (r *Runner) collectGatherRequests() {
	requests := r.deps.Colony.Gather.Take()
	r.report.GatherRequests += len(requests)
	if !r.scenario.Gathering.Enabled {
		return
	}

	for _, req := range requests {
		delivery := DeliverySpec{AtTick: r.tick + r.scenario.Gathering.DelayTicks}
		if req.AgentID.IsZero() {
			ids := r.deps.Colony.Storage.DepotIDs()
			if len(ids) == 0 {
				continue
			}
			delivery.Storage = ids[0]
		} else {
			delivery.Agent = req.AgentID.String()
		}
		for _, m := range req.Missing {
			d := delivery
			d.Kind = string(m.Kind)
			d.Amount = m.Amount
			r.scheduled = append(r.scheduled, d)
		}
	}
}

func (r *Runner) claimWork() {
	for _, c := range r.deps.Colony.Roster.List() {
		if _, busy := r.working[c.ID()]; busy {
			continue
		}
		task, ok := r.deps.System.GetAvailableTask(c.ID())
		if !ok {
			continue
		}
		r.working[c.ID()] = task.ID()
		r.logger.Log(common.LevelDebug, fmt.Sprintf("[Simulation] Tick %d: %s claimed task %d (%s)", r.tick, c.ID(), task.ID(), task.RecipeID()), nil)
	}
}

func (r *Runner) executeFinished(ctx context.Context) error {
	agents := make([]shared.AgentID, 0, len(r.working))
	for id := range r.working {
		agents = append(agents, id)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].String() < agents[j].String() })

	for _, agentID := range agents {
		taskID := r.working[agentID]
		task, ok := r.deps.System.GetTask(taskID)
		if !ok || task.Status() != crafting.TaskStatusActive {
			delete(r.working, agentID)
			continue
		}
		if !task.IsReadyToComplete() {
			continue
		}

		delete(r.working, agentID)
		resp, err := r.deps.Mediator.Send(ctx, &commands.ExecuteCraftCommand{TaskID: taskID, AgentID: agentID.String()})
		if err != nil {
			r.logger.Log(common.LevelError, fmt.Sprintf("[Simulation] Executing task %d failed: %v", taskID, err), nil)
			continue
		}

		result := resp.(*commands.ExecuteCraftResponse)
		switch result.Status {
		case commands.CraftStatusCompleted:
			r.report.Completed++
			r.report.Produced = append(r.report.Produced, ProducedItem{
				Tick:    r.tick,
				AgentID: agentID.String(),
				TaskID:  taskID,
				Item:    *result.Item,
			})
		case commands.CraftStatusPending:
			r.report.Parked++
		case commands.CraftStatusFailed:
			r.report.Failed++
		}
	}
	return nil
}

func (r *Runner) finish() *Report {
	report := r.report
	report.Ticks = r.tick
	report.OpenTasks = len(r.deps.System.ListQueue()) + len(r.deps.System.ListActive())
	report.PendingCrafts = len(r.deps.System.PendingCrafts())
	report.Produced = append([]ProducedItem(nil), r.report.Produced...)
	return &report
}

// dueTick maps scenario ticks onto steps; tick 0 happens on the first step
func dueTick(at int) int {
	return max(at, 1)
}
