package crafting

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// TaskID identifies a crafting task. Ids are allocated from 1 upward and
// never reused within a run.
type TaskID int64

// InvalidTaskID is returned when a task could not be queued
const InvalidTaskID TaskID = 0

// IsValid reports whether id could have been allocated by a queue
func (id TaskID) IsValid() bool { return id > InvalidTaskID }

// TaskStatus represents the current status of a task
type TaskStatus string

const (
	// TaskStatusQueued - Waiting in the FIFO backlog, unclaimed
	TaskStatusQueued TaskStatus = "QUEUED"

	// TaskStatusActive - Claimed by an agent and in progress
	TaskStatusActive TaskStatus = "ACTIVE"

	// TaskStatusCompleted - Result item manufactured
	TaskStatusCompleted TaskStatus = "COMPLETED"

	// TaskStatusCancelled - Removed without producing anything
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

// CraftingTask is one instance of "craft this recipe".
//
// State Machine:
//
//	QUEUED -> ACTIVE -> COMPLETED
//	     \         \-> CANCELLED
//	      \-> CANCELLED
//
// Progress is advisory: reaching 1.0 never completes the task on its own.
type CraftingTask struct {
	id       TaskID
	recipeID RecipeID
	status   TaskStatus
	progress float64

	// Assignment
	targetAgent   shared.AgentID // pinned agent, zero when any agent may claim
	assignedAgent shared.AgentID
	started       bool

	// Timing
	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
}

// NewCraftingTask creates a queued task
func NewCraftingTask(id TaskID, recipeID RecipeID, target shared.AgentID, createdAt time.Time) *CraftingTask {
	return &CraftingTask{
		id:          id,
		recipeID:    recipeID,
		status:      TaskStatusQueued,
		targetAgent: target,
		createdAt:   createdAt,
	}
}

// Getters

func (t *CraftingTask) ID() TaskID                    { return t.id }
func (t *CraftingTask) RecipeID() RecipeID            { return t.recipeID }
func (t *CraftingTask) Status() TaskStatus            { return t.status }
func (t *CraftingTask) Progress() float64             { return t.progress }
func (t *CraftingTask) TargetAgent() shared.AgentID   { return t.targetAgent }
func (t *CraftingTask) AssignedAgent() shared.AgentID { return t.assignedAgent }
func (t *CraftingTask) IsStarted() bool               { return t.started }
func (t *CraftingTask) CreatedAt() time.Time          { return t.createdAt }
func (t *CraftingTask) StartedAt() *time.Time         { return t.startedAt }
func (t *CraftingTask) FinishedAt() *time.Time        { return t.finishedAt }

// IsPinned reports whether only one agent may claim the task
func (t *CraftingTask) IsPinned() bool {
	return !t.targetAgent.IsZero()
}

// IsEligibleFor reports whether agentID may claim the task
func (t *CraftingTask) IsEligibleFor(agentID shared.AgentID) bool {
	return !t.IsPinned() || t.targetAgent.Equals(agentID)
}

// IsReadyToComplete reports whether progress has reached the end of the bar
func (t *CraftingTask) IsReadyToComplete() bool {
	return t.status == TaskStatusActive && t.progress >= 1.0
}

// IsTerminal returns true if the task can no longer change state
func (t *CraftingTask) IsTerminal() bool {
	return t.status == TaskStatusCompleted || t.status == TaskStatusCancelled
}

// State transitions

// Assign claims the task for an agent (QUEUED -> ACTIVE)
func (t *CraftingTask) Assign(agentID shared.AgentID, now time.Time) error {
	if t.status != TaskStatusQueued {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusActive,
			Description: "can only assign QUEUED tasks",
		}
	}
	if agentID.IsZero() {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusActive,
			Description: "agent id is required",
		}
	}
	if !t.IsEligibleFor(agentID) {
		return &ErrTaskPinned{TaskID: t.id, TargetAgent: t.targetAgent, Agent: agentID}
	}
	t.status = TaskStatusActive
	t.assignedAgent = agentID
	t.started = true
	t.startedAt = &now
	return nil
}

// AdvanceProgress adds delta to progress, clamped to [0,1]. Only ACTIVE tasks progress.
func (t *CraftingTask) AdvanceProgress(delta float64) {
	if t.status != TaskStatusActive || delta <= 0 {
		return
	}
	t.progress += delta
	if t.progress > 1.0 {
		t.progress = 1.0
	}
}

// Complete marks an ACTIVE task as done (ACTIVE -> COMPLETED)
func (t *CraftingTask) Complete(now time.Time) error {
	if t.status != TaskStatusActive {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusCompleted,
			Description: "can only complete ACTIVE tasks",
		}
	}
	t.status = TaskStatusCompleted
	t.finishedAt = &now
	return nil
}

// Cancel discards a QUEUED or ACTIVE task
func (t *CraftingTask) Cancel(now time.Time) error {
	if t.IsTerminal() {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusCancelled,
			Description: "can only cancel QUEUED or ACTIVE tasks",
		}
	}
	t.status = TaskStatusCancelled
	t.finishedAt = &now
	return nil
}

// Snapshot returns a detached copy safe to hand to listing callers
func (t *CraftingTask) Snapshot() CraftingTask {
	return *t
}

func (t *CraftingTask) String() string {
	return fmt.Sprintf("Task[%d, recipe=%s, status=%s, progress=%.2f, agent=%s]",
		t.id, t.recipeID, t.status, t.progress, t.assignedAgent)
}
