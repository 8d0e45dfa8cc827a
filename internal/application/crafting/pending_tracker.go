package crafting

import (
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// requeueFunc queues an unpinned task for a resumed craft
type requeueFunc func(recipeID crafting.RecipeID) crafting.TaskID

// PendingCraftTracker parks crafts that failed for lack of resources and
// re-queues them once their agent can afford them.
//
// Two triggers resume an entry: an InventoryChanged event for the entry's
// agent, and a periodic sweep over every agent with pending entries. The
// sweep is a reconciliation pass for missed or never-fired events; both
// paths remove the entry before re-queueing, so whichever runs second finds
// nothing to do.
type PendingCraftTracker struct {
	pending  *orderedmap.OrderedMap[crafting.PendingKey, *crafting.PendingCraft]
	resolver *ResourceResolver
	requeue  requeueFunc

	bus      crafting.NotificationBus
	gatherer crafting.GatherRequester
	logger   common.Logger
	metrics  crafting.MetricsRecorder
	clock    shared.Clock

	pollInterval time.Duration
	sinceSweep   time.Duration
	unsubscribe  func()
}

// NewPendingCraftTracker creates a tracker and subscribes it to InventoryChanged on ctx.Bus
func NewPendingCraftTracker(resolver *ResourceResolver, requeue requeueFunc, ctx Context) *PendingCraftTracker {
	ctx = ctx.normalized()
	t := &PendingCraftTracker{
		pending:      orderedmap.New[crafting.PendingKey, *crafting.PendingCraft](),
		resolver:     resolver,
		requeue:      requeue,
		bus:          ctx.Bus,
		gatherer:     ctx.Gatherer,
		logger:       ctx.Logger,
		metrics:      ctx.Metrics,
		clock:        ctx.Clock,
		pollInterval: ctx.Options.PollInterval,
	}
	if t.bus != nil {
		t.unsubscribe = t.bus.Subscribe(crafting.EventInventoryChanged, t.onInventoryChanged)
	} else {
		t.logger.Log(common.LevelWarn, "[PendingTracker] No notification bus configured, relying on poll sweep only", nil)
	}
	return t
}

// Record parks a failed craft, replacing any existing entry for the same
// (agent, recipe). A gather request goes out whenever something is missing.
func (t *PendingCraftTracker) Record(agentID shared.AgentID, recipeID crafting.RecipeID, missing []crafting.ResourceAmount) {
	entry := crafting.NewPendingCraft(agentID, recipeID, missing, t.clock.Now())
	_, replaced := t.pending.Set(entry.Key(), entry)

	t.logger.Log(common.LevelInfo, fmt.Sprintf("[PendingTracker] Parked %s for %s, missing [%s]", recipeID, agentID, crafting.FormatAmounts(missing)), map[string]interface{}{
		"agent_id":  agentID.String(),
		"recipe_id": string(recipeID),
		"replaced":  replaced,
	})

	if entry.GatherTaskIssued() && t.gatherer != nil {
		t.gatherer.RequestGather(agentID, recipeID, entry.Missing())
	}
	t.metrics.SetPendingCrafts(t.pending.Len())
}

// Cancel discards an entry without re-queueing
func (t *PendingCraftTracker) Cancel(agentID shared.AgentID, recipeID crafting.RecipeID) bool {
	_, removed := t.pending.Delete(crafting.PendingKey{AgentID: agentID, RecipeID: recipeID})
	if removed {
		t.metrics.SetPendingCrafts(t.pending.Len())
	}
	return removed
}

// Get returns the entry for (agent, recipe)
func (t *PendingCraftTracker) Get(agentID shared.AgentID, recipeID crafting.RecipeID) (*crafting.PendingCraft, bool) {
	return t.pending.Get(crafting.PendingKey{AgentID: agentID, RecipeID: recipeID})
}

// List returns every entry in recording order
func (t *PendingCraftTracker) List() []*crafting.PendingCraft {
	out := make([]*crafting.PendingCraft, 0, t.pending.Len())
	for pair := t.pending.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of parked crafts
func (t *PendingCraftTracker) Len() int {
	return t.pending.Len()
}

// Update accumulates elapsed time and runs a sweep each time the poll
// interval is crossed. Returns the number of crafts resumed.
func (t *PendingCraftTracker) Update(dt time.Duration) int {
	if dt <= 0 {
		return 0
	}
	t.sinceSweep += dt
	if t.sinceSweep < t.pollInterval {
		return 0
	}
	t.sinceSweep = 0
	return t.Sweep()
}

// Sweep re-checks every distinct agent with pending entries once
func (t *PendingCraftTracker) Sweep() int {
	if t.pending.Len() == 0 {
		return 0
	}

	var agents []shared.AgentID
	seen := make(map[shared.AgentID]bool)
	for pair := t.pending.Oldest(); pair != nil; pair = pair.Next() {
		agentID := pair.Key.AgentID
		if !seen[agentID] {
			seen[agentID] = true
			agents = append(agents, agentID)
		}
	}

	resumed := 0
	for _, agentID := range agents {
		resumed += t.resumeAgent(agentID, crafting.ResumeTriggerPoll)
	}
	return resumed
}

// Close unsubscribes from the notification bus
func (t *PendingCraftTracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

func (t *PendingCraftTracker) onInventoryChanged(event crafting.Event) {
	var agentID shared.AgentID
	switch e := event.(type) {
	case crafting.InventoryChangedEvent:
		agentID = e.AgentID
	case *crafting.InventoryChangedEvent:
		agentID = e.AgentID
	default:
		return
	}
	if agentID.IsZero() {
		return
	}
	t.resumeAgent(agentID, crafting.ResumeTriggerEvent)
}

// resumeAgent re-checks each of agentID's pending recipes once
func (t *PendingCraftTracker) resumeAgent(agentID shared.AgentID, trigger crafting.ResumeTrigger) int {
	var keys []crafting.PendingKey
	for pair := t.pending.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key.AgentID.Equals(agentID) {
			keys = append(keys, pair.Key)
		}
	}

	resumed := 0
	for _, key := range keys {
		// A re-entrant trigger may already have resumed this entry
		entry, ok := t.pending.Get(key)
		if !ok {
			continue
		}
		if craftable, _ := t.resolver.CanCraft(key.RecipeID, key.AgentID, true); !craftable {
			continue
		}

		t.pending.Delete(key)
		taskID := t.requeue(key.RecipeID)
		if !taskID.IsValid() {
			t.pending.Set(key, entry)
			t.logger.Log(common.LevelError, fmt.Sprintf("[PendingTracker] Failed to re-queue %s", key), nil)
			continue
		}

		resumed++
		t.metrics.RecordCraftResumed(key.RecipeID, trigger)
		t.logger.Log(common.LevelInfo, fmt.Sprintf("[PendingTracker] Resumed %s as task %d (%s)", key, taskID, trigger), map[string]interface{}{
			"agent_id":  key.AgentID.String(),
			"recipe_id": string(key.RecipeID),
			"task_id":   int64(taskID),
			"trigger":   string(trigger),
		})
		if t.bus != nil {
			t.bus.Publish(crafting.CraftResumedEvent{AgentID: key.AgentID, RecipeID: key.RecipeID, TaskID: taskID, Trigger: trigger})
		}
	}

	if resumed > 0 {
		t.metrics.SetPendingCrafts(t.pending.Len())
	}
	return resumed
}
