package crafting

import "github.com/andrescamacho/colonycraft-go/internal/domain/shared"

// AgentInventory is an agent's personal holdings
type AgentInventory interface {
	ResourceAmount(kind ResourceKind) int
	// RemoveResource removes exactly amount or nothing
	RemoveResource(kind ResourceKind, amount int) bool
}

// Agent is a live colonist handle
type Agent interface {
	ID() shared.AgentID
	Inventory() AgentInventory
}

// AgentDirectory resolves agent ids to live agents
type AgentDirectory interface {
	FindAgent(id shared.AgentID) (Agent, bool)
}

// Building is a structure that may expose shared storage
type Building interface {
	ID() string
	IsBuilt() bool
	StorageID() (string, bool)
}

// BuildingDirectory enumerates structures in a stable order
type BuildingDirectory interface {
	Buildings() []Building
}

// StorageSystem is the shared storage tier
type StorageSystem interface {
	ResourceAmount(storageID string, kind ResourceKind) int
	// RemoveResourceFromStorage removes up to amount and returns what was removed
	RemoveResourceFromStorage(storageID string, agentID shared.AgentID, kind ResourceKind, amount int) int
}

// EventHandler receives published events
type EventHandler func(event Event)

// NotificationBus is a synchronous publish/subscribe transport. Publish
// invokes every matching handler on the caller's stack before returning.
type NotificationBus interface {
	Subscribe(kind EventKind, handler EventHandler) (unsubscribe func())
	Publish(event Event)
}

// GatherRequester asks an external gathering subsystem to fetch missing resources
type GatherRequester interface {
	RequestGather(agentID shared.AgentID, recipeID RecipeID, missing []ResourceAmount)
}

// MetricsRecorder receives crafting counters and gauges
type MetricsRecorder interface {
	RecordCraftCheck(recipeID RecipeID, satisfied bool)
	RecordTaskQueued(recipeID RecipeID)
	RecordTaskCompleted(recipeID RecipeID)
	RecordTaskCancelled(recipeID RecipeID, wasActive bool)
	RecordConsumeFailure(recipeID RecipeID, reason string)
	RecordCraftResumed(recipeID RecipeID, trigger ResumeTrigger)
	SetQueueDepth(queued, active int)
	SetPendingCrafts(count int)
}
