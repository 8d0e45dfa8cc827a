package crafting_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

var epoch = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCraftingTask_AssignMovesQueuedToActive(t *testing.T) {
	// Arrange
	task := crafting.NewCraftingTask(1, "knife", shared.NoAgent, epoch)
	alice := shared.MustNewAgentID("alice")

	// Act
	err := task.Assign(alice, epoch.Add(time.Second))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, crafting.TaskStatusActive, task.Status())
	assert.True(t, task.IsStarted())
	assert.True(t, task.AssignedAgent().Equals(alice))
	require.NotNil(t, task.StartedAt())
}

func TestCraftingTask_PinnedTaskRejectsOtherAgent(t *testing.T) {
	// Arrange
	alice := shared.MustNewAgentID("alice")
	bob := shared.MustNewAgentID("bob")
	task := crafting.NewCraftingTask(1, "knife", alice, epoch)

	// Act
	err := task.Assign(bob, epoch)

	// Assert
	var pinned *crafting.ErrTaskPinned
	require.True(t, errors.As(err, &pinned))
	assert.Equal(t, crafting.TaskStatusQueued, task.Status())
	assert.True(t, task.AssignedAgent().IsZero())
	assert.False(t, task.IsEligibleFor(bob))
	assert.True(t, task.IsEligibleFor(alice))
}

func TestCraftingTask_CompleteRequiresActive(t *testing.T) {
	// Arrange
	task := crafting.NewCraftingTask(7, "knife", shared.NoAgent, epoch)

	// Act
	err := task.Complete(epoch)

	// Assert
	var transition *crafting.ErrInvalidTaskTransition
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, crafting.TaskID(7), transition.TaskID)
	assert.Equal(t, crafting.TaskStatusQueued, transition.From)
	assert.Equal(t, crafting.TaskStatusCompleted, transition.To)
}

func TestCraftingTask_CancelIsRejectedOnceTerminal(t *testing.T) {
	// Arrange
	task := crafting.NewCraftingTask(1, "knife", shared.NoAgent, epoch)
	require.NoError(t, task.Assign(shared.MustNewAgentID("alice"), epoch))
	require.NoError(t, task.Complete(epoch))

	// Act
	err := task.Cancel(epoch)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, crafting.TaskStatusCompleted, task.Status())
	assert.True(t, task.IsTerminal())
}

func TestCraftingTask_ProgressClampsAndNeverCompletes(t *testing.T) {
	// Arrange
	task := crafting.NewCraftingTask(1, "knife", shared.NoAgent, epoch)
	task.AdvanceProgress(0.5)
	assert.Zero(t, task.Progress(), "queued tasks do not progress")
	require.NoError(t, task.Assign(shared.MustNewAgentID("alice"), epoch))

	// Act
	task.AdvanceProgress(0.75)
	task.AdvanceProgress(0.75)

	// Assert
	assert.Equal(t, 1.0, task.Progress())
	assert.True(t, task.IsReadyToComplete())
	assert.Equal(t, crafting.TaskStatusActive, task.Status())
}

func TestCraftingTask_SnapshotIsDetached(t *testing.T) {
	// Arrange
	task := crafting.NewCraftingTask(1, "knife", shared.NoAgent, epoch)
	snap := task.Snapshot()

	// Act
	require.NoError(t, task.Assign(shared.MustNewAgentID("alice"), epoch))

	// Assert
	assert.Equal(t, crafting.TaskStatusQueued, snap.Status())
	assert.Equal(t, crafting.TaskStatusActive, task.Status())
}
