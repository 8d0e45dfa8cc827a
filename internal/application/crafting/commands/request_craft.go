package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// RequestCraftCommand asks for one craft of RecipeID on behalf of AgentID.
// Pin restricts the resulting task to that agent.
type RequestCraftCommand struct {
	AgentID  string
	RecipeID string
	Pin      bool
}

// RequestCraftResponse reports whether the craft was queued or parked
type RequestCraftResponse struct {
	Status  CraftStatus
	TaskID  crafting.TaskID
	Missing []crafting.ResourceAmount
}

// RequestCraftHandler handles the RequestCraft command
type RequestCraftHandler struct {
	crafting CraftingService
}

// NewRequestCraftHandler creates a new RequestCraftHandler
func NewRequestCraftHandler(service CraftingService) *RequestCraftHandler {
	return &RequestCraftHandler{crafting: service}
}

// Handle queues the craft when the agent can afford it and parks it otherwise
func (h *RequestCraftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RequestCraftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RequestCraftCommand")
	}

	logger := common.LoggerFromContext(ctx)

	agentID, err := shared.NewAgentID(cmd.AgentID)
	if err != nil {
		return nil, fmt.Errorf("invalid agent ID: %w", err)
	}
	recipeID := crafting.RecipeID(cmd.RecipeID)
	if _, known := h.crafting.LookupRecipe(recipeID); !known {
		return nil, &crafting.ErrRecipeNotFound{RecipeID: recipeID}
	}

	craftable, missing := h.crafting.CanCraft(recipeID, agentID, false)
	if !craftable {
		h.crafting.RecordPendingCraft(agentID, recipeID, missing)
		logger.Log(common.LevelInfo, fmt.Sprintf("[RequestCraft] %s parked for %s until [%s] arrive", recipeID, agentID, crafting.FormatAmounts(missing)), nil)
		return &RequestCraftResponse{Status: CraftStatusPending, TaskID: crafting.InvalidTaskID, Missing: missing}, nil
	}

	target := shared.NoAgent
	if cmd.Pin {
		target = agentID
	}
	taskID := h.crafting.QueueTask(recipeID, target)
	if !taskID.IsValid() {
		return nil, &crafting.ErrRecipeNotFound{RecipeID: recipeID}
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("[RequestCraft] Queued %s as task %d", recipeID, taskID), map[string]interface{}{
		"agent_id": agentID.String(),
		"pinned":   cmd.Pin,
	})
	return &RequestCraftResponse{Status: CraftStatusQueued, TaskID: taskID}, nil
}
