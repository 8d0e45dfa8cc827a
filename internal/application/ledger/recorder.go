package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	ledgerCommands "github.com/andrescamacho/colonycraft-go/internal/application/ledger/commands"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
)

// Recorder appends every finished crafting task to the craft ledger.
//
// It listens for TaskCompleted and TaskCancelled on the notification bus and
// sends a RecordCraftCommand through the mediator for each. Persistence
// failures are logged and never reach the publisher.
type Recorder struct {
	mediator     common.Mediator
	runID        string
	logger       common.Logger
	unsubscribes []func()
}

// NewRecorder subscribes a recorder to bus. An empty runID gets a fresh UUID.
func NewRecorder(ctx context.Context, bus crafting.NotificationBus, mediator common.Mediator, runID string) *Recorder {
	if runID == "" {
		runID = uuid.New().String()
	}
	r := &Recorder{
		mediator: mediator,
		runID:    runID,
		logger:   common.LoggerFromContext(ctx),
	}
	r.unsubscribes = []func(){
		bus.Subscribe(crafting.EventTaskCompleted, func(e crafting.Event) { r.onTaskCompleted(ctx, e) }),
		bus.Subscribe(crafting.EventTaskCancelled, func(e crafting.Event) { r.onTaskCancelled(ctx, e) }),
	}
	return r
}

// RunID identifies the records this recorder writes
func (r *Recorder) RunID() string { return r.runID }

// Close stops recording
func (r *Recorder) Close() {
	for _, unsubscribe := range r.unsubscribes {
		unsubscribe()
	}
	r.unsubscribes = nil
}

func (r *Recorder) onTaskCompleted(ctx context.Context, event crafting.Event) {
	e, ok := event.(crafting.TaskCompletedEvent)
	if !ok {
		return
	}
	item := e.Item
	r.send(ctx, &ledgerCommands.RecordCraftCommand{
		RunID:      r.runID,
		TaskID:     e.TaskID,
		RecipeID:   string(e.RecipeID),
		AgentID:    e.AgentID.String(),
		Outcome:    ledger.OutcomeCompleted.String(),
		Item:       &item,
		RecordedAt: &e.CompletedAt,
	})
}

func (r *Recorder) onTaskCancelled(ctx context.Context, event crafting.Event) {
	e, ok := event.(crafting.TaskCancelledEvent)
	if !ok {
		return
	}
	r.send(ctx, &ledgerCommands.RecordCraftCommand{
		RunID:      r.runID,
		TaskID:     e.TaskID,
		RecipeID:   string(e.RecipeID),
		AgentID:    e.AgentID.String(),
		Outcome:    ledger.OutcomeCancelled.String(),
		RecordedAt: &e.CancelledAt,
	})
}

func (r *Recorder) send(ctx context.Context, cmd *ledgerCommands.RecordCraftCommand) {
	if _, err := r.mediator.Send(ctx, cmd); err != nil {
		r.logger.Log(common.LevelError, fmt.Sprintf("[Ledger] Failed to record task %d (%s): %v", cmd.TaskID, cmd.Outcome, err), map[string]interface{}{
			"run_id":    r.runID,
			"recipe_id": cmd.RecipeID,
		})
	}
}
