package crafting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

type spyMetrics struct {
	noopMetrics
	queued    int
	completed int
	cancelled map[bool]int
	resumed   map[crafting.ResumeTrigger]int
	depth     [2]int
	pending   int
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{cancelled: map[bool]int{}, resumed: map[crafting.ResumeTrigger]int{}}
}

func (m *spyMetrics) RecordTaskQueued(crafting.RecipeID)    { m.queued++ }
func (m *spyMetrics) RecordTaskCompleted(crafting.RecipeID) { m.completed++ }
func (m *spyMetrics) SetQueueDepth(queued, active int)      { m.depth = [2]int{queued, active} }
func (m *spyMetrics) SetPendingCrafts(count int)            { m.pending = count }

func (m *spyMetrics) RecordTaskCancelled(_ crafting.RecipeID, wasActive bool) {
	m.cancelled[wasActive]++
}

func (m *spyMetrics) RecordCraftResumed(_ crafting.RecipeID, trigger crafting.ResumeTrigger) {
	m.resumed[trigger]++
}

func TestCraftingSystem_TwoAgentsOneTask(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", nil)
	bob := f.colonist(t, "bob", nil)
	taskID := f.system.QueueTask("knife", shared.NoAgent)
	require.True(t, taskID.IsValid())

	// Act
	aliceTask, aliceOK := f.system.GetAvailableTask(alice)
	bobTask, bobOK := f.system.GetAvailableTask(bob)

	// Assert
	require.True(t, aliceOK)
	assert.Equal(t, taskID, aliceTask.ID())
	assert.True(t, aliceTask.AssignedAgent().Equals(alice))
	assert.False(t, bobOK)
	assert.Nil(t, bobTask)
}

func TestCraftingSystem_PinnedTaskOnlyForTarget(t *testing.T) {
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", nil)
	bob := f.colonist(t, "bob", nil)
	f.system.QueueTask("knife", alice)

	_, bobOK := f.system.GetAvailableTask(bob)
	aliceTask, aliceOK := f.system.GetAvailableTask(alice)

	assert.False(t, bobOK)
	require.True(t, aliceOK)
	assert.True(t, aliceTask.TargetAgent().Equals(alice))
}

func TestCraftingSystem_ClaimedSnapshotIsDetached(t *testing.T) {
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", nil)
	taskID := f.system.QueueTask("knife", shared.NoAgent)

	snapshot, ok := f.system.GetAvailableTask(alice)
	require.True(t, ok)
	f.system.Update(DefaultPollInterval)

	live, ok := f.system.GetTask(taskID)
	require.True(t, ok)
	assert.Zero(t, snapshot.Progress())
	assert.Greater(t, live.Progress(), 0.0)
}

func TestCraftingSystem_QueueUnknownRecipe(t *testing.T) {
	f := newFixture(t)

	taskID := f.system.QueueTask("missing", shared.NoAgent)

	assert.Equal(t, crafting.InvalidTaskID, taskID)
	assert.Empty(t, f.system.ListQueue())
}

func TestCraftingSystem_CompleteTaskOnce(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(stoneKnife())
	alice := f.colonist(t, "alice", nil)
	taskID := f.system.QueueTask("stone_knife", shared.NoAgent)
	_, ok := f.system.GetAvailableTask(alice)
	require.True(t, ok)

	var completed []crafting.TaskCompletedEvent
	f.bus.Subscribe(crafting.EventTaskCompleted, func(e crafting.Event) {
		completed = append(completed, e.(crafting.TaskCompletedEvent))
	})

	// Act
	item, first := f.system.CompleteTask(taskID)
	_, second := f.system.CompleteTask(taskID)

	// Assert
	require.True(t, first)
	assert.False(t, second)
	assert.Equal(t, "stone_knife", item.ItemID)
	assert.Equal(t, crafting.DefaultToolDurability, item.Durability)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].AgentID.Equals(alice))
	assert.Equal(t, f.clock.Now(), completed[0].CompletedAt)
	assert.Empty(t, f.system.ListActive())
}

func TestCraftingSystem_CompleteQueuedTaskFails(t *testing.T) {
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	taskID := f.system.QueueTask("knife", shared.NoAgent)

	_, ok := f.system.CompleteTask(taskID)

	assert.False(t, ok)
	assert.Len(t, f.system.ListQueue(), 1)
}

func TestCraftingSystem_CancelTask(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", nil)
	active := f.system.QueueTask("knife", shared.NoAgent)
	queued := f.system.QueueTask("knife", shared.NoAgent)
	_, ok := f.system.GetAvailableTask(alice)
	require.True(t, ok)

	var cancelled []crafting.TaskCancelledEvent
	f.bus.Subscribe(crafting.EventTaskCancelled, func(e crafting.Event) {
		cancelled = append(cancelled, e.(crafting.TaskCancelledEvent))
	})

	// Act
	activeOK := f.system.CancelTask(active)
	queuedOK := f.system.CancelTask(queued)
	unknownOK := f.system.CancelTask(crafting.TaskID(404))

	// Assert
	assert.True(t, activeOK)
	assert.True(t, queuedOK)
	assert.False(t, unknownOK)
	require.Len(t, cancelled, 2)
	assert.True(t, cancelled[0].WasActive)
	assert.False(t, cancelled[1].WasActive)
	assert.Empty(t, f.system.ListQueue())
	assert.Empty(t, f.system.ListActive())
}

func TestCraftingSystem_PublishesTaskQueued(t *testing.T) {
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", nil)
	var queued []crafting.TaskQueuedEvent
	f.bus.Subscribe(crafting.EventTaskQueued, func(e crafting.Event) {
		queued = append(queued, e.(crafting.TaskQueuedEvent))
	})

	taskID := f.system.QueueTask("knife", alice)

	require.Len(t, queued, 1)
	assert.Equal(t, taskID, queued[0].TaskID)
	assert.True(t, queued[0].TargetAgent.Equals(alice))
}

func TestCraftingSystem_RecordsMetrics(t *testing.T) {
	// Arrange
	f := newFixture(t)
	metrics := newSpyMetrics()
	system := NewCraftingSystem(Context{
		Bus:       f.bus,
		Agents:    f.colony.Roster,
		Buildings: f.colony.Settlement,
		Storage:   f.colony.Storage,
		Metrics:   metrics,
		Clock:     f.clock,
	})
	defer system.Close()
	f.system.Close()
	system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", nil)

	// Act
	first := system.QueueTask("knife", shared.NoAgent)
	system.QueueTask("knife", shared.NoAgent)
	system.GetAvailableTask(alice)
	system.CompleteTask(first)
	system.RecordPendingCraft(alice, "knife", []crafting.ResourceAmount{{Kind: "Stone", Amount: 2}})
	require.NoError(t, f.colony.Deliver(alice, "Stone", 2))

	// Assert
	assert.Equal(t, 3, metrics.queued)
	assert.Equal(t, 1, metrics.completed)
	assert.Equal(t, 1, metrics.resumed[crafting.ResumeTriggerEvent])
	assert.Zero(t, metrics.pending)
	assert.Equal(t, [2]int{2, 0}, metrics.depth)
}
