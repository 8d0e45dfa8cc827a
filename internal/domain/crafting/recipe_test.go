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

func TestNewRecipe_ValidatesDefinition(t *testing.T) {
	tool := crafting.ResultSpec{ItemID: "stone_knife", Kind: crafting.ItemKindTool, Amount: 1}

	tests := []struct {
		name        string
		id          crafting.RecipeID
		ingredients []crafting.ResourceAmount
		result      crafting.ResultSpec
		field       string
	}{
		{"empty id", "", nil, tool, "id"},
		{"zero ingredient amount", "r", []crafting.ResourceAmount{{Kind: "Wood", Amount: 0}}, tool, "ingredients[0].amount"},
		{"empty ingredient kind", "r", []crafting.ResourceAmount{{Kind: "", Amount: 1}}, tool, "ingredients[0].kind"},
		{"unknown item kind", "r", nil, crafting.ResultSpec{ItemID: "x", Kind: "GADGET", Amount: 1}, "result.kind"},
		{"zero result amount", "r", nil, crafting.ResultSpec{ItemID: "x", Kind: crafting.ItemKindFood, Amount: 0}, "result.amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := crafting.NewRecipe(tt.id, "", "", time.Second, tt.ingredients, tt.result, "")

			var invalid *crafting.ErrInvalidRecipe
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestRecipe_IngredientsAreCopied(t *testing.T) {
	// Arrange
	ingredients := []crafting.ResourceAmount{{Kind: "Wood", Amount: 1}}
	recipe := crafting.MustNewRecipe("stick", "Stick", ingredients,
		crafting.ResultSpec{ItemID: "stick", Kind: crafting.ItemKindMaterial, Amount: 2})

	// Act
	ingredients[0].Amount = 99
	got := recipe.Ingredients()
	got[0].Amount = 42

	// Assert
	assert.Equal(t, 1, recipe.Ingredients()[0].Amount)
}

func TestRecipe_RequirementsFoldRepeatedKinds(t *testing.T) {
	// Arrange
	recipe := crafting.MustNewRecipe("wall", "Wall", []crafting.ResourceAmount{
		{Kind: "Stone", Amount: 2},
		{Kind: "Wood", Amount: 1},
		{Kind: "Stone", Amount: 3},
	}, crafting.ResultSpec{ItemID: "wall", Kind: crafting.ItemKindStructure, Amount: 1})

	// Act
	reqs := recipe.Requirements()

	// Assert
	assert.Equal(t, []crafting.ResourceAmount{
		{Kind: "Stone", Amount: 5},
		{Kind: "Wood", Amount: 1},
	}, reqs)
}

func TestRecipe_NameDefaultsToID(t *testing.T) {
	recipe, err := crafting.NewRecipe("bread", "", "", 0, nil,
		crafting.ResultSpec{ItemID: "bread", Kind: crafting.ItemKindFood, Amount: 1}, "")

	require.NoError(t, err)
	assert.Equal(t, "bread", recipe.Name())
	assert.False(t, recipe.HasStation())
}

func TestNewItem_SelectsConstructorByKind(t *testing.T) {
	tests := []struct {
		kind       crafting.ItemKind
		stackable  bool
		durability int
		placeable  bool
	}{
		{crafting.ItemKindTool, false, crafting.DefaultToolDurability, false},
		{crafting.ItemKindWeapon, false, crafting.DefaultToolDurability, false},
		{crafting.ItemKindMaterial, true, 0, false},
		{crafting.ItemKindFood, true, 0, false},
		{crafting.ItemKindStructure, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			item, err := crafting.NewItem(crafting.ResultSpec{ItemID: "thing", Kind: tt.kind, Amount: 3})

			require.NoError(t, err)
			assert.Equal(t, tt.kind, item.Kind)
			assert.Equal(t, 3, item.Amount)
			assert.Equal(t, tt.stackable, item.Stackable)
			assert.Equal(t, tt.durability, item.Durability)
			assert.Equal(t, tt.placeable, item.Placeable)
		})
	}
}

func TestNewItem_UnknownKind(t *testing.T) {
	_, err := crafting.NewItem(crafting.ResultSpec{ItemID: "thing", Kind: "GADGET", Amount: 1})

	var unknown *crafting.ErrUnknownItemKind
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, crafting.ItemKind("GADGET"), unknown.Kind)
}

func TestNewPendingCraft_GatherIssuedOnlyWhenSomethingMissing(t *testing.T) {
	alice := shared.MustNewAgentID("alice")

	withMissing := crafting.NewPendingCraft(alice, "knife", []crafting.ResourceAmount{{Kind: "Wood", Amount: 1}}, epoch)
	withoutMissing := crafting.NewPendingCraft(alice, "knife", nil, epoch)

	assert.True(t, withMissing.GatherTaskIssued())
	assert.False(t, withoutMissing.GatherTaskIssued())
	assert.Equal(t, crafting.PendingKey{AgentID: alice, RecipeID: "knife"}, withMissing.Key())
}
