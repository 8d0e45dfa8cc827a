package crafting

import (
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// EventKind is the subscription key on the notification bus
type EventKind string

const (
	EventInventoryChanged EventKind = "INVENTORY_CHANGED"
	EventTaskQueued       EventKind = "TASK_QUEUED"
	EventTaskCompleted    EventKind = "TASK_COMPLETED"
	EventTaskCancelled    EventKind = "TASK_CANCELLED"
	EventCraftResumed     EventKind = "CRAFT_RESUMED"
)

// Event is anything published on the notification bus
type Event interface {
	Kind() EventKind
}

// ResumeTrigger records which path resumed a pending craft
type ResumeTrigger string

const (
	ResumeTriggerEvent ResumeTrigger = "event"
	ResumeTriggerPoll  ResumeTrigger = "poll"
)

// InventoryChangedEvent is published by inventories when an agent's holdings change
type InventoryChangedEvent struct {
	AgentID  shared.AgentID
	Resource ResourceKind
	Delta    int
}

func (InventoryChangedEvent) Kind() EventKind { return EventInventoryChanged }

// TaskQueuedEvent is published after a task enters the queue
type TaskQueuedEvent struct {
	TaskID      TaskID
	RecipeID    RecipeID
	TargetAgent shared.AgentID
}

func (TaskQueuedEvent) Kind() EventKind { return EventTaskQueued }

// TaskCompletedEvent is published after a task manufactured its item
type TaskCompletedEvent struct {
	TaskID      TaskID
	RecipeID    RecipeID
	AgentID     shared.AgentID
	Item        Item
	CompletedAt time.Time
}

func (TaskCompletedEvent) Kind() EventKind { return EventTaskCompleted }

// TaskCancelledEvent is published after a task was removed without a result
type TaskCancelledEvent struct {
	TaskID      TaskID
	RecipeID    RecipeID
	AgentID     shared.AgentID
	WasActive   bool
	CancelledAt time.Time
}

func (TaskCancelledEvent) Kind() EventKind { return EventTaskCancelled }

// CraftResumedEvent is published when a pending craft was re-queued
type CraftResumedEvent struct {
	AgentID  shared.AgentID
	RecipeID RecipeID
	TaskID   TaskID
	Trigger  ResumeTrigger
}

func (CraftResumedEvent) Kind() EventKind { return EventCraftResumed }
