package crafting

import (
	"fmt"
	"time"
)

// RecipeID identifies a recipe in the registry
type RecipeID string

// ResultSpec describes what a completed craft manufactures
type ResultSpec struct {
	ItemID string
	Kind   ItemKind
	Amount int
}

// Recipe is an immutable crafting definition: ordered ingredients, a result
// and a craft duration. Accessors hand out copies so a registered recipe
// cannot be mutated through a caller's slice.
type Recipe struct {
	id          RecipeID
	name        string
	description string
	duration    time.Duration
	ingredients []ResourceAmount
	result      ResultSpec
	station     string // optional required station, informational only
}

// NewRecipe validates and builds a recipe
func NewRecipe(
	id RecipeID,
	name string,
	description string,
	duration time.Duration,
	ingredients []ResourceAmount,
	result ResultSpec,
	station string,
) (Recipe, error) {
	if id == "" {
		return Recipe{}, &ErrInvalidRecipe{Field: "id", Reason: "cannot be empty"}
	}
	if duration < 0 {
		return Recipe{}, &ErrInvalidRecipe{RecipeID: id, Field: "duration", Reason: "cannot be negative"}
	}
	for i, in := range ingredients {
		if in.Kind == "" {
			return Recipe{}, &ErrInvalidRecipe{RecipeID: id, Field: fmt.Sprintf("ingredients[%d].kind", i), Reason: "cannot be empty"}
		}
		if in.Amount <= 0 {
			return Recipe{}, &ErrInvalidRecipe{RecipeID: id, Field: fmt.Sprintf("ingredients[%d].amount", i), Reason: "must be positive"}
		}
	}
	if result.ItemID == "" {
		return Recipe{}, &ErrInvalidRecipe{RecipeID: id, Field: "result.item_id", Reason: "cannot be empty"}
	}
	if !result.Kind.IsValid() {
		return Recipe{}, &ErrInvalidRecipe{RecipeID: id, Field: "result.kind", Reason: fmt.Sprintf("unknown item kind %q", result.Kind)}
	}
	if result.Amount <= 0 {
		return Recipe{}, &ErrInvalidRecipe{RecipeID: id, Field: "result.amount", Reason: "must be positive"}
	}
	if name == "" {
		name = string(id)
	}

	return Recipe{
		id:          id,
		name:        name,
		description: description,
		duration:    duration,
		ingredients: copyAmounts(ingredients),
		result:      result,
		station:     station,
	}, nil
}

// MustNewRecipe is NewRecipe for fixtures and built-in catalogs; it panics on invalid input
func MustNewRecipe(id RecipeID, name string, ingredients []ResourceAmount, result ResultSpec) Recipe {
	r, err := NewRecipe(id, name, "", 0, ingredients, result, "")
	if err != nil {
		panic(err)
	}
	return r
}

// Getters

func (r Recipe) ID() RecipeID            { return r.id }
func (r Recipe) Name() string            { return r.name }
func (r Recipe) Description() string     { return r.description }
func (r Recipe) Duration() time.Duration { return r.duration }
func (r Recipe) Result() ResultSpec      { return r.result }
func (r Recipe) Station() string         { return r.station }
func (r Recipe) HasStation() bool        { return r.station != "" }

// Ingredients returns the ordered ingredient list (a copy)
func (r Recipe) Ingredients() []ResourceAmount {
	return copyAmounts(r.ingredients)
}

// Requirements returns ingredients folded per resource kind, first-appearance order
func (r Recipe) Requirements() []ResourceAmount {
	return requirementsByKind(r.ingredients)
}

func (r Recipe) String() string {
	return fmt.Sprintf("Recipe[%s, ingredients=[%s], result=%s x%d]",
		r.id, FormatAmounts(r.ingredients), r.result.ItemID, r.result.Amount)
}
