package commands

import (
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// CraftingService is the part of the crafting core the command handlers drive
type CraftingService interface {
	LookupRecipe(id crafting.RecipeID) (crafting.Recipe, bool)
	QueueTask(recipeID crafting.RecipeID, target shared.AgentID) crafting.TaskID
	GetTask(taskID crafting.TaskID) (crafting.CraftingTask, bool)
	CompleteTask(taskID crafting.TaskID) (crafting.Item, bool)
	CancelTask(taskID crafting.TaskID) bool
	CanCraft(recipeID crafting.RecipeID, agentID shared.AgentID, silent bool) (bool, []crafting.ResourceAmount)
	ConsumeIngredients(recipeID crafting.RecipeID, agentID shared.AgentID) bool
	RecordPendingCraft(agentID shared.AgentID, recipeID crafting.RecipeID, missing []crafting.ResourceAmount)
}

// CraftStatus is the outcome reported by the craft commands
type CraftStatus string

const (
	// CraftStatusQueued - a task is waiting in the queue
	CraftStatusQueued CraftStatus = "QUEUED"

	// CraftStatusPending - parked until resources arrive
	CraftStatusPending CraftStatus = "PENDING"

	// CraftStatusCompleted - ingredients consumed and item produced
	CraftStatusCompleted CraftStatus = "COMPLETED"

	// CraftStatusFailed - resources vanished between check and consume; parked again
	CraftStatusFailed CraftStatus = "FAILED"
)
