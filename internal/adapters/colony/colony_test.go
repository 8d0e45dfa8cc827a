package colony_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/colony"
	"github.com/andrescamacho/colonycraft-go/internal/application/events"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

func TestInventory_PublishesChangesForOwner(t *testing.T) {
	// Arrange
	bus := events.NewNotificationBus()
	var seen []crafting.InventoryChangedEvent
	bus.Subscribe(crafting.EventInventoryChanged, func(e crafting.Event) {
		seen = append(seen, e.(crafting.InventoryChangedEvent))
	})
	inv := colony.NewInventory(shared.MustNewAgentID("alice"), 0, bus)

	// Act
	require.NoError(t, inv.AddResource("Wood", 3))
	removed := inv.RemoveResource("Wood", 2)

	// Assert
	assert.True(t, removed)
	assert.Equal(t, 1, inv.ResourceAmount("Wood"))
	require.Len(t, seen, 2)
	assert.Equal(t, 3, seen[0].Delta)
	assert.Equal(t, -2, seen[1].Delta)
	assert.Equal(t, "alice", seen[1].AgentID.String())
}

func TestInventory_RemoveIsAllOrNothing(t *testing.T) {
	inv := colony.NewInventory(shared.MustNewAgentID("alice"), 0, nil)
	require.NoError(t, inv.AddResource("Stone", 1))

	assert.False(t, inv.RemoveResource("Stone", 2))
	assert.Equal(t, 1, inv.ResourceAmount("Stone"))
}

func TestInventory_RespectsCapacity(t *testing.T) {
	inv := colony.NewInventory(shared.MustNewAgentID("alice"), 2, nil)

	require.NoError(t, inv.AddResource("Stone", 2))
	assert.Error(t, inv.AddResource("Wood", 1))
	assert.Equal(t, 2, inv.Total())
}

func TestInventory_SubscribersCanReadDuringPublish(t *testing.T) {
	// Arrange
	bus := events.NewNotificationBus()
	inv := colony.NewInventory(shared.MustNewAgentID("alice"), 0, bus)
	observed := -1
	bus.Subscribe(crafting.EventInventoryChanged, func(crafting.Event) {
		observed = inv.ResourceAmount("Wood")
	})

	// Act
	require.NoError(t, inv.AddResource("Wood", 4))

	// Assert
	assert.Equal(t, 4, observed)
}

func TestStorageNetwork_WithdrawsUpToAvailable(t *testing.T) {
	// Arrange
	network := colony.NewStorageNetwork()
	depot, err := colony.NewStorageDepot("s1", 10, map[crafting.ResourceKind]int{"Stone": 3})
	require.NoError(t, err)
	require.NoError(t, network.AddDepot(depot))
	bob := shared.MustNewAgentID("bob")

	// Act
	removed := network.RemoveResourceFromStorage("s1", bob, "Stone", 5)

	// Assert
	assert.Equal(t, 3, removed)
	assert.Zero(t, network.ResourceAmount("s1", "Stone"))
	assert.Zero(t, network.RemoveResourceFromStorage("missing", bob, "Stone", 1))

	withdrawals := network.Withdrawals()
	require.Len(t, withdrawals, 2)
	assert.Equal(t, 5, withdrawals[0].Requested)
	assert.Equal(t, 3, withdrawals[0].Removed)
	assert.Equal(t, "missing", withdrawals[1].StorageID)
	assert.Zero(t, withdrawals[1].Removed)
}

func TestStorageDepot_RejectsOverfill(t *testing.T) {
	_, err := colony.NewStorageDepot("s1", 2, map[crafting.ResourceKind]int{"Stone": 3})
	assert.Error(t, err)

	depot, err := colony.NewStorageDepot("s1", 2, nil)
	require.NoError(t, err)
	require.NoError(t, depot.Deposit("Stone", 2))
	assert.Error(t, depot.Deposit("Stone", 1))
}

func TestColony_StorehouseListedInPlacementOrder(t *testing.T) {
	// Arrange
	c := colony.NewColony(events.NewNotificationBus(), nil)

	// Act
	_, err := c.AddStorehouse("b1", "s1", true, 0, nil)
	require.NoError(t, err)
	_, err = c.AddStorehouse("b2", "s2", false, 0, nil)
	require.NoError(t, err)

	// Assert
	buildings := c.Settlement.Buildings()
	require.Len(t, buildings, 2)
	assert.Equal(t, "b1", buildings[0].ID())
	assert.True(t, buildings[0].IsBuilt())
	assert.False(t, buildings[1].IsBuilt())
	storageID, ok := buildings[1].StorageID()
	assert.True(t, ok)
	assert.Equal(t, "s2", storageID)
}

func TestRoster_FindAgent(t *testing.T) {
	c := colony.NewColony(nil, nil)
	_, err := c.AddColonist("alice", "Alice", 0, map[crafting.ResourceKind]int{"Wood": 2})
	require.NoError(t, err)

	agent, ok := c.Roster.FindAgent(shared.MustNewAgentID("alice"))
	require.True(t, ok)
	assert.Equal(t, 2, agent.Inventory().ResourceAmount("Wood"))

	_, ok = c.Roster.FindAgent(shared.MustNewAgentID("nobody"))
	assert.False(t, ok)

	_, err = c.AddColonist("alice", "Again", 0, nil)
	assert.Error(t, err)
}

func TestGatherBoard_TakeDrainsOpenRequests(t *testing.T) {
	board := colony.NewGatherBoard(shared.NewManualClock(shared.NewRealClock().Now()))
	alice := shared.MustNewAgentID("alice")

	board.RequestGather(alice, "knife", []crafting.ResourceAmount{{Kind: "Wood", Amount: 1}})

	taken := board.Take()
	require.Len(t, taken, 1)
	assert.Equal(t, crafting.RecipeID("knife"), taken[0].RecipeID)
	assert.Empty(t, board.Open())
	assert.Equal(t, 1, board.Received())
}
