package crafting

import (
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// CraftingSystem is the entry point other systems call into. It wires the
// registry, queue, resolver and pending tracker over one explicit Context
// and publishes task lifecycle events on the context's bus.
//
// Every failure degrades to a boolean, sentinel or log line; nothing here
// panics or halts the caller's tick. Not safe for concurrent use.
type CraftingSystem struct {
	registry *RecipeRegistry
	queue    *TaskQueue
	resolver *ResourceResolver
	tracker  *PendingCraftTracker

	bus     crafting.NotificationBus
	logger  common.Logger
	metrics crafting.MetricsRecorder
	clock   shared.Clock
}

// NewCraftingSystem builds the crafting core over ctx
func NewCraftingSystem(ctx Context) *CraftingSystem {
	ctx = ctx.normalized()

	registry := NewRecipeRegistry(ctx.Logger)
	s := &CraftingSystem{
		registry: registry,
		queue:    NewTaskQueue(registry, ctx.Clock, ctx.Logger, ctx.Options),
		resolver: NewResourceResolver(registry, ctx),
		bus:      ctx.Bus,
		logger:   ctx.Logger,
		metrics:  ctx.Metrics,
		clock:    ctx.Clock,
	}
	s.tracker = NewPendingCraftTracker(s.resolver, func(recipeID crafting.RecipeID) crafting.TaskID {
		return s.QueueTask(recipeID, shared.NoAgent)
	}, ctx)
	return s
}

// RegisterRecipe adds a recipe; re-registering an id is a no-op
func (s *CraftingSystem) RegisterRecipe(recipe crafting.Recipe) bool {
	return s.registry.Register(recipe)
}

// LookupRecipe returns a registered recipe
func (s *CraftingSystem) LookupRecipe(id crafting.RecipeID) (crafting.Recipe, bool) {
	return s.registry.Lookup(id)
}

// ListRecipes returns every recipe in registration order
func (s *CraftingSystem) ListRecipes() []crafting.Recipe {
	return s.registry.List()
}

// QueueTask queues recipeID, optionally pinned to target. Returns
// crafting.InvalidTaskID when the recipe is unknown.
func (s *CraftingSystem) QueueTask(recipeID crafting.RecipeID, target shared.AgentID) crafting.TaskID {
	taskID, err := s.queue.Enqueue(recipeID, target)
	if err != nil {
		s.logger.Log(common.LevelWarn, fmt.Sprintf("[CraftingSystem] Cannot queue task: %v", err), map[string]interface{}{
			"recipe_id": string(recipeID),
		})
		return crafting.InvalidTaskID
	}

	s.metrics.RecordTaskQueued(recipeID)
	s.publishQueueDepth()
	s.publish(crafting.TaskQueuedEvent{TaskID: taskID, RecipeID: recipeID, TargetAgent: target})
	return taskID
}

// GetAvailableTask assigns the first eligible queued task to agentID.
// The returned task is a snapshot.
func (s *CraftingSystem) GetAvailableTask(agentID shared.AgentID) (*crafting.CraftingTask, bool) {
	task, ok := s.queue.Claim(agentID)
	if !ok {
		return nil, false
	}
	s.publishQueueDepth()
	snapshot := task.Snapshot()
	return &snapshot, true
}

// CompleteTask removes an active task and returns its manufactured item.
// Ingredients are neither checked nor consumed here.
func (s *CraftingSystem) CompleteTask(taskID crafting.TaskID) (crafting.Item, bool) {
	task, known := s.queue.Get(taskID)
	item, err := s.queue.Complete(taskID)
	s.publishQueueDepth()
	if err != nil {
		level := common.LevelWarn
		var notFound *crafting.ErrTaskNotFound
		if errors.As(err, &notFound) {
			level = common.LevelDebug
		}
		s.logger.Log(level, fmt.Sprintf("[CraftingSystem] Cannot complete task %d: %v", taskID, err), nil)
		return crafting.Item{}, false
	}

	s.metrics.RecordTaskCompleted(task.RecipeID())
	if known {
		s.publish(crafting.TaskCompletedEvent{
			TaskID:      taskID,
			RecipeID:    task.RecipeID(),
			AgentID:     task.AssignedAgent(),
			Item:        item,
			CompletedAt: s.clock.Now(),
		})
	}
	return item, true
}

// CancelTask removes a queued or active task. Unknown ids are a no-op.
func (s *CraftingSystem) CancelTask(taskID crafting.TaskID) bool {
	task, known := s.queue.Get(taskID)
	if !known || !s.queue.Cancel(taskID) {
		return false
	}

	wasActive := task.Status() == crafting.TaskStatusActive
	s.metrics.RecordTaskCancelled(task.RecipeID(), wasActive)
	s.publishQueueDepth()
	s.publish(crafting.TaskCancelledEvent{
		TaskID:      taskID,
		RecipeID:    task.RecipeID(),
		AgentID:     task.AssignedAgent(),
		WasActive:   wasActive,
		CancelledAt: s.clock.Now(),
	})
	return true
}

// GetTask returns a snapshot of a queued or active task
func (s *CraftingSystem) GetTask(taskID crafting.TaskID) (crafting.CraftingTask, bool) {
	return s.queue.Get(taskID)
}

// ListQueue returns the unclaimed backlog in FIFO order
func (s *CraftingSystem) ListQueue() []crafting.CraftingTask {
	return s.queue.Queued()
}

// ListActive returns claimed tasks in claim order
func (s *CraftingSystem) ListActive() []crafting.CraftingTask {
	return s.queue.Active()
}

// CanCraft checks ingredient availability; see ResourceResolver.CanCraft
func (s *CraftingSystem) CanCraft(recipeID crafting.RecipeID, agentID shared.AgentID, silent bool) (bool, []crafting.ResourceAmount) {
	return s.resolver.CanCraft(recipeID, agentID, silent)
}

// Reserve holds ingredients for a later Commit or Release
func (s *CraftingSystem) Reserve(recipeID crafting.RecipeID, agentID shared.AgentID) (*Reservation, error) {
	return s.resolver.Reserve(recipeID, agentID)
}

// ConsumeIngredients drains the recipe's ingredients, agent inventory first.
// False means nothing was drained and the craft must not complete.
func (s *CraftingSystem) ConsumeIngredients(recipeID crafting.RecipeID, agentID shared.AgentID) bool {
	return s.resolver.ConsumeIngredients(recipeID, agentID)
}

// RecordPendingCraft parks a craft until agentID can afford it
func (s *CraftingSystem) RecordPendingCraft(agentID shared.AgentID, recipeID crafting.RecipeID, missing []crafting.ResourceAmount) {
	s.tracker.Record(agentID, recipeID, missing)
}

// CancelPendingCraft discards a parked craft without re-queueing it
func (s *CraftingSystem) CancelPendingCraft(agentID shared.AgentID, recipeID crafting.RecipeID) bool {
	return s.tracker.Cancel(agentID, recipeID)
}

// PendingCraft returns the parked craft for (agent, recipe)
func (s *CraftingSystem) PendingCraft(agentID shared.AgentID, recipeID crafting.RecipeID) (*crafting.PendingCraft, bool) {
	return s.tracker.Get(agentID, recipeID)
}

// PendingCrafts returns every parked craft in recording order
func (s *CraftingSystem) PendingCrafts() []*crafting.PendingCraft {
	return s.tracker.List()
}

// Update advances task progress and runs the pending sweep when due.
// Returns the number of crafts the sweep resumed.
func (s *CraftingSystem) Update(dt time.Duration) int {
	s.queue.Advance(dt)
	return s.tracker.Update(dt)
}

// Close detaches the system from the notification bus
func (s *CraftingSystem) Close() {
	s.tracker.Close()
}

func (s *CraftingSystem) publish(event crafting.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

func (s *CraftingSystem) publishQueueDepth() {
	s.metrics.SetQueueDepth(s.queue.QueuedLen(), s.queue.ActiveLen())
}
