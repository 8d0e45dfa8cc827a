package crafting

import (
	"fmt"

	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// ErrRecipeNotFound indicates a recipe id is not registered
type ErrRecipeNotFound struct {
	RecipeID RecipeID
}

func (e *ErrRecipeNotFound) Error() string {
	return fmt.Sprintf("recipe not found: %s", e.RecipeID)
}

// ErrInvalidRecipe indicates a recipe definition failed validation
type ErrInvalidRecipe struct {
	RecipeID RecipeID
	Field    string
	Reason   string
}

func (e *ErrInvalidRecipe) Error() string {
	if e.RecipeID == "" {
		return fmt.Sprintf("invalid recipe: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid recipe %s: %s %s", e.RecipeID, e.Field, e.Reason)
}

// ErrTaskNotFound indicates a task is in neither the queue nor the active set
type ErrTaskNotFound struct {
	TaskID TaskID
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("task not found: %d", e.TaskID)
}

// ErrInvalidTaskTransition indicates an invalid task state transition
type ErrInvalidTaskTransition struct {
	TaskID      TaskID
	From        TaskStatus
	To          TaskStatus
	Description string
}

func (e *ErrInvalidTaskTransition) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invalid task transition for %d: %s -> %s: %s",
			e.TaskID, e.From, e.To, e.Description)
	}
	return fmt.Sprintf("invalid task transition for %d: %s -> %s",
		e.TaskID, e.From, e.To)
}

// ErrTaskPinned indicates an agent tried to claim a task pinned to someone else
type ErrTaskPinned struct {
	TaskID      TaskID
	TargetAgent shared.AgentID
	Agent       shared.AgentID
}

func (e *ErrTaskPinned) Error() string {
	return fmt.Sprintf("task %d is pinned to agent %s, cannot assign to %s",
		e.TaskID, e.TargetAgent, e.Agent)
}

// ErrInsufficientResources carries the per-kind shortfall of a failed check
type ErrInsufficientResources struct {
	RecipeID RecipeID
	AgentID  shared.AgentID
	Missing  []ResourceAmount
}

func (e *ErrInsufficientResources) Error() string {
	who := "storage"
	if !e.AgentID.IsZero() {
		who = "agent " + e.AgentID.String()
	}
	return fmt.Sprintf("insufficient resources for %s (%s): missing [%s]",
		e.RecipeID, who, FormatAmounts(e.Missing))
}

// ErrCollaboratorMissing indicates a required collaborator was not configured
type ErrCollaboratorMissing struct {
	Name string
}

func (e *ErrCollaboratorMissing) Error() string {
	return fmt.Sprintf("collaborator not configured: %s", e.Name)
}

// ErrReservationClosed indicates Commit or Release on a settled reservation
type ErrReservationClosed struct {
	RecipeID RecipeID
}

func (e *ErrReservationClosed) Error() string {
	return fmt.Sprintf("reservation for %s already committed or released", e.RecipeID)
}

// ErrSourceShortfall indicates a source yielded less than reserved at commit time
type ErrSourceShortfall struct {
	Source  string
	Kind    ResourceKind
	Planned int
	Drained int
}

func (e *ErrSourceShortfall) Error() string {
	return fmt.Sprintf("source %s yielded %d of %d reserved %s",
		e.Source, e.Drained, e.Planned, e.Kind)
}

// ErrUnknownItemKind indicates a result kind with no registered constructor
type ErrUnknownItemKind struct {
	Kind ItemKind
}

func (e *ErrUnknownItemKind) Error() string {
	return fmt.Sprintf("unknown item kind: %s", e.Kind)
}
