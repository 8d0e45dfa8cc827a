package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// RecordCraftCommand represents a command to append a finished task to the craft ledger
type RecordCraftCommand struct {
	RunID    string
	TaskID   crafting.TaskID
	RecipeID string
	AgentID  string // empty when a queued task was cancelled before anyone claimed it
	Outcome  string
	Item     *crafting.Item // required for COMPLETED, forbidden for CANCELLED

	// Optional: if provided, use this timestamp; otherwise use current time
	RecordedAt *time.Time
}

// RecordCraftResponse represents the result of recording a craft
type RecordCraftResponse struct {
	RecordID   string
	RecordedAt time.Time
}

// RecordCraftHandler handles the RecordCraft command
type RecordCraftHandler struct {
	recordRepo ledger.CraftRecordRepository
	clock      shared.Clock
}

// NewRecordCraftHandler creates a new RecordCraftHandler
func NewRecordCraftHandler(recordRepo ledger.CraftRecordRepository, clock shared.Clock) *RecordCraftHandler {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &RecordCraftHandler{
		recordRepo: recordRepo,
		clock:      clock,
	}
}

// Handle executes the RecordCraft command
func (h *RecordCraftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RecordCraftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordCraftCommand")
	}

	outcome, err := ledger.ParseOutcome(cmd.Outcome)
	if err != nil {
		return nil, fmt.Errorf("invalid outcome: %w", err)
	}

	agentID := shared.NoAgent
	if cmd.AgentID != "" {
		agentID, err = shared.NewAgentID(cmd.AgentID)
		if err != nil {
			return nil, fmt.Errorf("invalid agent ID: %w", err)
		}
	}

	recordedAt := h.clock.Now()
	if cmd.RecordedAt != nil {
		recordedAt = *cmd.RecordedAt
	}

	var record *ledger.CraftRecord
	switch outcome {
	case ledger.OutcomeCompleted:
		if cmd.Item == nil {
			return nil, &ledger.ErrInvalidRecord{Field: "item", Reason: "completed record requires an item"}
		}
		record, err = ledger.NewCompletedRecord(cmd.RunID, cmd.TaskID, crafting.RecipeID(cmd.RecipeID), agentID, *cmd.Item, recordedAt)
	default:
		if cmd.Item != nil {
			return nil, &ledger.ErrInvalidRecord{Field: "item", Reason: "cancelled record cannot carry an item"}
		}
		record, err = ledger.NewCancelledRecord(cmd.RunID, cmd.TaskID, crafting.RecipeID(cmd.RecipeID), agentID, recordedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create craft record: %w", err)
	}

	if err := h.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist craft record: %w", err)
	}

	return &RecordCraftResponse{
		RecordID:   record.ID().String(),
		RecordedAt: record.RecordedAt(),
	}, nil
}
