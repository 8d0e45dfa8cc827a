package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// ExecuteCraftCommand finishes a claimed task: check, consume, complete
type ExecuteCraftCommand struct {
	TaskID  crafting.TaskID
	AgentID string
}

// ExecuteCraftResponse reports the outcome of the execution
type ExecuteCraftResponse struct {
	Status  CraftStatus
	Item    *crafting.Item
	Missing []crafting.ResourceAmount
}

// ExecuteCraftHandler handles the ExecuteCraft command
type ExecuteCraftHandler struct {
	crafting CraftingService
}

// NewExecuteCraftHandler creates a new ExecuteCraftHandler
func NewExecuteCraftHandler(service CraftingService) *ExecuteCraftHandler {
	return &ExecuteCraftHandler{crafting: service}
}

// Handle runs the caller side of a craft. An infeasible task is cancelled
// and parked as a pending craft so it resumes once resources arrive.
func (h *ExecuteCraftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExecuteCraftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecuteCraftCommand")
	}

	logger := common.LoggerFromContext(ctx)

	agentID, err := shared.NewAgentID(cmd.AgentID)
	if err != nil {
		return nil, fmt.Errorf("invalid agent ID: %w", err)
	}

	task, ok := h.crafting.GetTask(cmd.TaskID)
	if !ok {
		return nil, &crafting.ErrTaskNotFound{TaskID: cmd.TaskID}
	}
	if task.Status() != crafting.TaskStatusActive || !task.AssignedAgent().Equals(agentID) {
		return nil, &crafting.ErrInvalidTaskTransition{
			TaskID:      cmd.TaskID,
			From:        task.Status(),
			To:          crafting.TaskStatusCompleted,
			Description: fmt.Sprintf("task is not active for agent %s", agentID),
		}
	}
	recipeID := task.RecipeID()

	// Check immediately before consuming
	craftable, missing := h.crafting.CanCraft(recipeID, agentID, false)
	if !craftable {
		h.park(cmd.TaskID, agentID, recipeID, missing)
		logger.Log(common.LevelInfo, fmt.Sprintf("[ExecuteCraft] Task %d parked, %s missing [%s]", cmd.TaskID, agentID, crafting.FormatAmounts(missing)), nil)
		return &ExecuteCraftResponse{Status: CraftStatusPending, Missing: missing}, nil
	}

	if !h.crafting.ConsumeIngredients(recipeID, agentID) {
		// Resources vanished between check and consume; nothing was drained
		_, missing = h.crafting.CanCraft(recipeID, agentID, true)
		h.park(cmd.TaskID, agentID, recipeID, missing)
		logger.Log(common.LevelWarn, fmt.Sprintf("[ExecuteCraft] Task %d lost its ingredients before consume, parked again", cmd.TaskID), nil)
		return &ExecuteCraftResponse{Status: CraftStatusFailed, Missing: missing}, nil
	}

	item, ok := h.crafting.CompleteTask(cmd.TaskID)
	if !ok {
		return nil, fmt.Errorf("failed to complete task %d after consuming ingredients", cmd.TaskID)
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("[ExecuteCraft] %s crafted %dx %s (task %d)", agentID, item.Amount, item.ItemID, cmd.TaskID), map[string]interface{}{
		"recipe_id": string(recipeID),
		"item_kind": string(item.Kind),
	})
	return &ExecuteCraftResponse{Status: CraftStatusCompleted, Item: &item}, nil
}

func (h *ExecuteCraftHandler) park(taskID crafting.TaskID, agentID shared.AgentID, recipeID crafting.RecipeID, missing []crafting.ResourceAmount) {
	h.crafting.CancelTask(taskID)
	h.crafting.RecordPendingCraft(agentID, recipeID, missing)
}
