package ledger

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// CraftRecord is an immutable audit entry for a finished crafting task
type CraftRecord struct {
	id         RecordID
	runID      string
	taskID     crafting.TaskID
	recipeID   crafting.RecipeID
	agentID    shared.AgentID // zero when a queued task was cancelled before anyone claimed it
	outcome    Outcome
	itemID     string
	itemKind   crafting.ItemKind
	amount     int
	recordedAt time.Time
}

// NewCompletedRecord records a task that produced item
func NewCompletedRecord(
	runID string,
	taskID crafting.TaskID,
	recipeID crafting.RecipeID,
	agentID shared.AgentID,
	item crafting.Item,
	recordedAt time.Time,
) (*CraftRecord, error) {
	r := &CraftRecord{
		id:         NewRecordID(),
		runID:      runID,
		taskID:     taskID,
		recipeID:   recipeID,
		agentID:    agentID,
		outcome:    OutcomeCompleted,
		itemID:     item.ItemID,
		itemKind:   item.Kind,
		amount:     item.Amount,
		recordedAt: recordedAt,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewCancelledRecord records a task that was removed without a result
func NewCancelledRecord(
	runID string,
	taskID crafting.TaskID,
	recipeID crafting.RecipeID,
	agentID shared.AgentID,
	recordedAt time.Time,
) (*CraftRecord, error) {
	r := &CraftRecord{
		id:         NewRecordID(),
		runID:      runID,
		taskID:     taskID,
		recipeID:   recipeID,
		agentID:    agentID,
		outcome:    OutcomeCancelled,
		recordedAt: recordedAt,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// ReconstructCraftRecord rebuilds a record from persistence without validation
func ReconstructCraftRecord(
	id RecordID,
	runID string,
	taskID crafting.TaskID,
	recipeID crafting.RecipeID,
	agentID shared.AgentID,
	outcome Outcome,
	itemID string,
	itemKind crafting.ItemKind,
	amount int,
	recordedAt time.Time,
) *CraftRecord {
	return &CraftRecord{
		id:         id,
		runID:      runID,
		taskID:     taskID,
		recipeID:   recipeID,
		agentID:    agentID,
		outcome:    outcome,
		itemID:     itemID,
		itemKind:   itemKind,
		amount:     amount,
		recordedAt: recordedAt,
	}
}

// Validate checks that the record satisfies all invariants
func (r *CraftRecord) Validate() error {
	if r.runID == "" {
		return &ErrInvalidRecord{Field: "run_id", Reason: "run_id cannot be empty"}
	}
	if !r.taskID.IsValid() {
		return &ErrInvalidRecord{Field: "task_id", Reason: fmt.Sprintf("invalid task id %d", r.taskID)}
	}
	if r.recipeID == "" {
		return &ErrInvalidRecord{Field: "recipe_id", Reason: "recipe_id cannot be empty"}
	}
	if !r.outcome.IsValid() {
		return &ErrInvalidRecord{Field: "outcome", Reason: fmt.Sprintf("invalid outcome: %s", r.outcome)}
	}

	// Completed records carry the manufactured item, cancelled ones never do
	if r.outcome == OutcomeCompleted {
		if r.itemID == "" || r.amount <= 0 {
			return &ErrInvalidRecord{Field: "item", Reason: "completed record requires an item"}
		}
		if r.agentID.IsZero() {
			return &ErrInvalidRecord{Field: "agent_id", Reason: "completed record requires an agent"}
		}
	} else if r.itemID != "" {
		return &ErrInvalidRecord{Field: "item", Reason: "cancelled record cannot carry an item"}
	}
	return nil
}

// Getters (all fields are immutable)

func (r *CraftRecord) ID() RecordID                { return r.id }
func (r *CraftRecord) RunID() string               { return r.runID }
func (r *CraftRecord) TaskID() crafting.TaskID     { return r.taskID }
func (r *CraftRecord) RecipeID() crafting.RecipeID { return r.recipeID }
func (r *CraftRecord) AgentID() shared.AgentID     { return r.agentID }
func (r *CraftRecord) Outcome() Outcome            { return r.outcome }
func (r *CraftRecord) ItemID() string              { return r.itemID }
func (r *CraftRecord) ItemKind() crafting.ItemKind { return r.itemKind }
func (r *CraftRecord) Amount() int                 { return r.amount }
func (r *CraftRecord) RecordedAt() time.Time       { return r.recordedAt }
func (r *CraftRecord) IsCompleted() bool           { return r.outcome == OutcomeCompleted }

func (r *CraftRecord) String() string {
	return fmt.Sprintf("CraftRecord[%s, task=%d, recipe=%s, outcome=%s, agent=%s]",
		r.id, r.taskID, r.recipeID, r.outcome, r.agentID)
}
