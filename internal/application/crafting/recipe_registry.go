package crafting

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// RecipeRegistry is the catalog of known recipes, keyed by id and listed in
// registration order. The first registration of an id wins.
type RecipeRegistry struct {
	recipes *orderedmap.OrderedMap[crafting.RecipeID, crafting.Recipe]
	logger  common.Logger
}

// NewRecipeRegistry creates an empty registry
func NewRecipeRegistry(logger common.Logger) *RecipeRegistry {
	if logger == nil {
		logger = common.NoOpLogger()
	}
	return &RecipeRegistry{
		recipes: orderedmap.New[crafting.RecipeID, crafting.Recipe](),
		logger:  logger,
	}
}

// Register adds recipe unless its id is already known. Returns whether it was added.
func (r *RecipeRegistry) Register(recipe crafting.Recipe) bool {
	if _, exists := r.recipes.Get(recipe.ID()); exists {
		r.logger.Log(common.LevelDebug, fmt.Sprintf("[RecipeRegistry] Ignoring duplicate registration of %s", recipe.ID()), map[string]interface{}{
			"recipe_id": string(recipe.ID()),
		})
		return false
	}
	r.recipes.Set(recipe.ID(), recipe)
	return true
}

// Lookup returns the recipe registered under id
func (r *RecipeRegistry) Lookup(id crafting.RecipeID) (crafting.Recipe, bool) {
	return r.recipes.Get(id)
}

// List returns every recipe in registration order
func (r *RecipeRegistry) List() []crafting.Recipe {
	out := make([]crafting.Recipe, 0, r.recipes.Len())
	for pair := r.recipes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of registered recipes
func (r *RecipeRegistry) Len() int {
	return r.recipes.Len()
}
