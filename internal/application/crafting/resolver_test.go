package crafting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

func TestCanCraft_AgentInventoryOnly(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Stone": 1})
	f.storehouse(t, "b1", "s1", true, map[crafting.ResourceKind]int{"Stone": 10})

	// Act
	ok, missing := f.system.CanCraft("knife", alice, false)

	// Assert
	assert.False(t, ok)
	assert.Equal(t, []crafting.ResourceAmount{{Kind: "Stone", Amount: 1}}, missing)
	assert.Equal(t, 1, f.logs.count(common.LevelDebug))
}

func TestCanCraft_StorageAggregateWithoutAgent(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	f.storehouse(t, "b1", "s1", true, map[crafting.ResourceKind]int{"Stone": 1})
	f.storehouse(t, "b2", "s2", true, map[crafting.ResourceKind]int{"Stone": 1})

	// Act
	ok, missing := f.system.CanCraft("knife", shared.NoAgent, false)
	unknownAgentOK, _ := f.system.CanCraft("knife", shared.MustNewAgentID("ghost"), true)

	// Assert
	assert.True(t, ok)
	assert.Empty(t, missing)
	assert.True(t, unknownAgentOK)
}

func TestCanCraft_IgnoresUnbuiltStorage(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	f.storehouse(t, "b1", "s1", false, map[crafting.ResourceKind]int{"Stone": 5})

	// Act
	before, missing := f.system.CanCraft("knife", shared.NoAgent, true)
	structure, found := f.colony.Settlement.Structure("b1")
	require.True(t, found)
	structure.MarkBuilt()
	after, _ := f.system.CanCraft("knife", shared.NoAgent, true)

	// Assert
	assert.False(t, before)
	assert.Equal(t, []crafting.ResourceAmount{{Kind: "Stone", Amount: 2}}, missing)
	assert.True(t, after)
}

func TestCanCraft_UnknownRecipe(t *testing.T) {
	f := newFixture(t)
	alice := f.colonist(t, "alice", nil)

	ok, missing := f.system.CanCraft("missing", alice, false)
	silentOK, _ := f.system.CanCraft("missing", alice, true)

	assert.False(t, ok)
	assert.Nil(t, missing)
	assert.False(t, silentOK)
	assert.Equal(t, 1, f.logs.count(common.LevelWarn))
}

func TestCanCraft_MissingStorageCollaborators(t *testing.T) {
	// Arrange
	registry := NewRecipeRegistry(nil)
	registry.Register(knife())
	logs := &recordingLogger{}
	resolver := NewResourceResolver(registry, Context{Logger: logs})

	// Act
	ok, missing := resolver.CanCraft("knife", shared.NoAgent, false)
	consumed := resolver.ConsumeIngredients("knife", shared.NoAgent)

	// Assert
	assert.False(t, ok)
	assert.Nil(t, missing)
	assert.False(t, consumed)
	assert.Equal(t, 2, logs.count(common.LevelWarn))
}

func TestCanCraft_FoldsDuplicateIngredients(t *testing.T) {
	f := newFixture(t)
	f.system.RegisterRecipe(crafting.MustNewRecipe("rope", "Rope", []crafting.ResourceAmount{
		{Kind: "Fiber", Amount: 2},
		{Kind: "Fiber", Amount: 1},
	}, crafting.ResultSpec{ItemID: "rope", Kind: crafting.ItemKindMaterial, Amount: 1}))
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Fiber": 2})

	ok, missing := f.system.CanCraft("rope", alice, true)

	assert.False(t, ok)
	assert.Equal(t, []crafting.ResourceAmount{{Kind: "Fiber", Amount: 1}}, missing)
}

func TestConsumeIngredients_ReducesEachIngredientExactly(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(stoneKnife())
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Wood": 3, "Stone": 4, "Fiber": 2})
	ok, _ := f.system.CanCraft("stone_knife", alice, true)
	require.True(t, ok)

	// Act
	consumed := f.system.ConsumeIngredients("stone_knife", alice)

	// Assert
	assert.True(t, consumed)
	assert.Equal(t, 2, f.amount(t, alice, "Wood"))
	assert.Equal(t, 3, f.amount(t, alice, "Stone"))
	assert.Equal(t, 2, f.amount(t, alice, "Fiber"))
}

func TestConsumeIngredients_FailureDrainsNothing(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(stoneKnife())
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Stone": 1})

	// Act
	consumed := f.system.ConsumeIngredients("stone_knife", alice)

	// Assert
	assert.False(t, consumed)
	assert.Equal(t, 1, f.amount(t, alice, "Stone"))
	assert.Equal(t, 1, f.logs.count(common.LevelInfo))
}

func TestConsumeIngredients_InventoryFirstThenStorageInOrder(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(crafting.MustNewRecipe("wall", "Wall", []crafting.ResourceAmount{
		{Kind: "Stone", Amount: 4},
	}, crafting.ResultSpec{ItemID: "wall", Kind: crafting.ItemKindStructure, Amount: 1}))
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Stone": 1})
	f.storehouse(t, "b1", "s1", true, map[crafting.ResourceKind]int{"Stone": 2})
	f.storehouse(t, "b2", "s2", true, map[crafting.ResourceKind]int{"Stone": 5})

	// Act
	consumed := f.system.ConsumeIngredients("wall", alice)

	// Assert
	require.True(t, consumed)
	assert.Zero(t, f.amount(t, alice, "Stone"))
	assert.Zero(t, f.colony.Storage.ResourceAmount("s1", "Stone"))
	assert.Equal(t, 4, f.colony.Storage.ResourceAmount("s2", "Stone"))

	withdrawals := f.colony.Storage.Withdrawals()
	require.Len(t, withdrawals, 2)
	assert.Equal(t, "s1", withdrawals[0].StorageID)
	assert.Equal(t, "s2", withdrawals[1].StorageID)
	assert.True(t, withdrawals[0].AgentID.Equals(alice))
}

func TestReserve_HoldsAreInvisibleToCanCraft(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(stoneKnife())
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Wood": 1, "Stone": 1})

	// Act
	reservation, err := f.system.Reserve("stone_knife", alice)
	require.NoError(t, err)
	whileHeld, missing := f.system.CanCraft("stone_knife", alice, true)
	_, secondErr := f.system.Reserve("stone_knife", alice)
	require.NoError(t, reservation.Release())
	afterRelease, _ := f.system.CanCraft("stone_knife", alice, true)

	// Assert
	assert.False(t, whileHeld)
	assert.ElementsMatch(t, []crafting.ResourceAmount{{Kind: "Wood", Amount: 1}, {Kind: "Stone", Amount: 1}}, missing)
	var insufficient *crafting.ErrInsufficientResources
	assert.True(t, errors.As(secondErr, &insufficient))
	assert.True(t, afterRelease)
	assert.Equal(t, 1, f.amount(t, alice, "Wood"))
	assert.False(t, reservation.IsOpen())
}

func TestReserve_CommitDrainsPlannedAmounts(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(knife())
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Stone": 1})
	f.storehouse(t, "b1", "s1", true, map[crafting.ResourceKind]int{"Stone": 3})

	reservation, err := f.system.Reserve("knife", alice)
	require.NoError(t, err)

	// Act
	commitErr := reservation.Commit()
	againErr := reservation.Commit()

	// Assert
	require.NoError(t, commitErr)
	draws := reservation.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, "inventory:alice", draws[0].Source)
	assert.Equal(t, "storage:s1", draws[1].Source)
	assert.Zero(t, f.amount(t, alice, "Stone"))
	assert.Equal(t, 2, f.colony.Storage.ResourceAmount("s1", "Stone"))
	var closed *crafting.ErrReservationClosed
	assert.True(t, errors.As(againErr, &closed))
}

func TestReserve_CommitKeepsStockHeldFromParkedCrafts(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(stoneKnife())
	f.system.RegisterRecipe(crafting.MustNewRecipe("pebble", "Pebble", []crafting.ResourceAmount{
		{Kind: "Stone", Amount: 1},
	}, crafting.ResultSpec{ItemID: "pebble", Kind: crafting.ItemKindMaterial, Amount: 1}))
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Wood": 1, "Stone": 1})

	reservation, err := f.system.Reserve("stone_knife", alice)
	require.NoError(t, err)
	canPebble, missing := f.system.CanCraft("pebble", alice, true)
	require.False(t, canPebble)
	f.system.RecordPendingCraft(alice, "pebble", missing)

	// Act
	commitErr := reservation.Commit()

	// Assert
	require.NoError(t, commitErr)
	assert.Zero(t, f.amount(t, alice, "Stone"))
	_, stillParked := f.system.PendingCraft(alice, "pebble")
	assert.True(t, stillParked)
	assert.Empty(t, f.system.ListQueue())
	assert.Zero(t, f.system.resolver.HeldAmount(alice, "Stone"))
	assert.Zero(t, f.system.resolver.HeldAmount(alice, "Wood"))
}

func TestReserve_CommitShortfallDrainsNothing(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.system.RegisterRecipe(stoneKnife())
	alice := f.colonist(t, "alice", map[crafting.ResourceKind]int{"Wood": 1, "Stone": 1})
	reservation, err := f.system.Reserve("stone_knife", alice)
	require.NoError(t, err)

	// Something outside the crafting core takes the stone
	colonist, _ := f.colony.Roster.Colonist(alice)
	require.True(t, colonist.Holdings().RemoveResource("Stone", 1))

	// Act
	commitErr := reservation.Commit()

	// Assert
	var shortfall *crafting.ErrSourceShortfall
	require.True(t, errors.As(commitErr, &shortfall))
	assert.Equal(t, crafting.ResourceKind("Stone"), shortfall.Kind)
	assert.Zero(t, shortfall.Drained)
	assert.Equal(t, 1, f.amount(t, alice, "Wood"))
	assert.Zero(t, f.system.resolver.HeldAmount(alice, "Wood"))
}

func TestReserve_UnknownRecipe(t *testing.T) {
	f := newFixture(t)

	reservation, err := f.system.Reserve("missing", shared.NoAgent)

	assert.Nil(t, reservation)
	var notFound *crafting.ErrRecipeNotFound
	assert.True(t, errors.As(err, &notFound))
}
