package crafting

import (
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// TaskQueue holds the FIFO backlog of unclaimed tasks and the set of claimed
// ones. A task lives in exactly one of the two collections until it is
// completed or cancelled, after which it is forgotten.
//
// Not safe for concurrent use; the crafting core is owned by one goroutine.
type TaskQueue struct {
	registry *RecipeRegistry
	queued   *orderedmap.OrderedMap[crafting.TaskID, *crafting.CraftingTask]
	active   *orderedmap.OrderedMap[crafting.TaskID, *crafting.CraftingTask]
	lastID   crafting.TaskID

	clock             shared.Clock
	logger            common.Logger
	progressRate      float64
	maxActivePerAgent int
}

// NewTaskQueue creates an empty queue bound to registry
func NewTaskQueue(registry *RecipeRegistry, clock shared.Clock, logger common.Logger, opts Options) *TaskQueue {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = common.NoOpLogger()
	}
	rate := opts.ProgressRate
	if rate <= 0 {
		rate = DefaultProgressRate
	}
	return &TaskQueue{
		registry:          registry,
		queued:            orderedmap.New[crafting.TaskID, *crafting.CraftingTask](),
		active:            orderedmap.New[crafting.TaskID, *crafting.CraftingTask](),
		clock:             clock,
		logger:            logger,
		progressRate:      rate,
		maxActivePerAgent: opts.MaxActivePerAgent,
	}
}

// Enqueue appends a task for recipeID. target pins the task to one agent;
// pass shared.NoAgent to let any agent claim it.
func (q *TaskQueue) Enqueue(recipeID crafting.RecipeID, target shared.AgentID) (crafting.TaskID, error) {
	if _, ok := q.registry.Lookup(recipeID); !ok {
		return crafting.InvalidTaskID, &crafting.ErrRecipeNotFound{RecipeID: recipeID}
	}

	q.lastID++
	task := crafting.NewCraftingTask(q.lastID, recipeID, target, q.clock.Now())
	q.queued.Set(task.ID(), task)
	return task.ID(), nil
}

// Claim hands the first eligible queued task to agentID and moves it to the
// active set. Ingredients are not checked here.
func (q *TaskQueue) Claim(agentID shared.AgentID) (*crafting.CraftingTask, bool) {
	if agentID.IsZero() {
		return nil, false
	}
	if q.maxActivePerAgent > 0 && q.ActiveCountFor(agentID) >= q.maxActivePerAgent {
		return nil, false
	}

	for pair := q.queued.Oldest(); pair != nil; pair = pair.Next() {
		task := pair.Value
		if !task.IsEligibleFor(agentID) {
			continue
		}
		if err := task.Assign(agentID, q.clock.Now()); err != nil {
			q.logger.Log(common.LevelError, fmt.Sprintf("[TaskQueue] Failed to assign task %d: %v", task.ID(), err), nil)
			return nil, false
		}
		q.queued.Delete(task.ID())
		q.active.Set(task.ID(), task)
		return task, true
	}
	return nil, false
}

// Complete removes an active task and manufactures its result. The task is
// removed even when its recipe has since disappeared.
func (q *TaskQueue) Complete(taskID crafting.TaskID) (crafting.Item, error) {
	task, ok := q.active.Get(taskID)
	if !ok {
		if queued, isQueued := q.queued.Get(taskID); isQueued {
			return crafting.Item{}, queued.Complete(q.clock.Now())
		}
		return crafting.Item{}, &crafting.ErrTaskNotFound{TaskID: taskID}
	}

	q.active.Delete(taskID)
	if err := task.Complete(q.clock.Now()); err != nil {
		return crafting.Item{}, err
	}

	recipe, ok := q.registry.Lookup(task.RecipeID())
	if !ok {
		return crafting.Item{}, &crafting.ErrRecipeNotFound{RecipeID: task.RecipeID()}
	}
	return crafting.NewItem(recipe.Result())
}

// Cancel removes the task from whichever collection holds it. Unknown ids are a no-op.
func (q *TaskQueue) Cancel(taskID crafting.TaskID) bool {
	if task, ok := q.active.Delete(taskID); ok {
		_ = task.Cancel(q.clock.Now())
		return true
	}
	if task, ok := q.queued.Delete(taskID); ok {
		_ = task.Cancel(q.clock.Now())
		return true
	}
	return false
}

// Advance moves every active task's progress forward by rate*dt. Reaching
// 1.0 does not complete the task.
func (q *TaskQueue) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	delta := q.progressRate * dt.Seconds()
	for pair := q.active.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.AdvanceProgress(delta)
	}
}

// Get returns a snapshot of a queued or active task
func (q *TaskQueue) Get(taskID crafting.TaskID) (crafting.CraftingTask, bool) {
	if task, ok := q.active.Get(taskID); ok {
		return task.Snapshot(), true
	}
	if task, ok := q.queued.Get(taskID); ok {
		return task.Snapshot(), true
	}
	return crafting.CraftingTask{}, false
}

// Queued returns snapshots of the backlog in FIFO order
func (q *TaskQueue) Queued() []crafting.CraftingTask {
	return snapshots(q.queued)
}

// Active returns snapshots of claimed tasks in claim order
func (q *TaskQueue) Active() []crafting.CraftingTask {
	return snapshots(q.active)
}

// ActiveCountFor returns how many claimed tasks agentID holds
func (q *TaskQueue) ActiveCountFor(agentID shared.AgentID) int {
	count := 0
	for pair := q.active.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.AssignedAgent().Equals(agentID) {
			count++
		}
	}
	return count
}

// QueuedLen returns the number of unclaimed tasks
func (q *TaskQueue) QueuedLen() int { return q.queued.Len() }

// ActiveLen returns the number of claimed tasks
func (q *TaskQueue) ActiveLen() int { return q.active.Len() }

func snapshots(m *orderedmap.OrderedMap[crafting.TaskID, *crafting.CraftingTask]) []crafting.CraftingTask {
	out := make([]crafting.CraftingTask, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Snapshot())
	}
	return out
}
