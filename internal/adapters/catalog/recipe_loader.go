package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// Catalog is a parsed recipe file
type Catalog struct {
	Source  string
	Digest  string // sha256 of the raw file
	Recipes []crafting.Recipe
}

// RecipeDef is one recipe as written in a catalog file
type RecipeDef struct {
	ID          string                    `yaml:"id" json:"id" validate:"required"`
	Name        string                    `yaml:"name" json:"name,omitempty"`
	Description string                    `yaml:"description" json:"description,omitempty"`
	Duration    string                    `yaml:"duration" json:"duration,omitempty"`
	Station     string                    `yaml:"station" json:"station,omitempty"`
	Ingredients []crafting.ResourceAmount `yaml:"ingredients" json:"ingredients" validate:"dive"`
	Result      ResultDef                 `yaml:"result" json:"result" validate:"required"`
}

// ResultDef is the manufactured item of a RecipeDef
type ResultDef struct {
	ItemID string `yaml:"item_id" json:"item_id" validate:"required"`
	Kind   string `yaml:"kind" json:"kind" validate:"required"`
	Amount int    `yaml:"amount" json:"amount,omitempty" validate:"min=0"`
}

type catalogFile struct {
	Version int         `yaml:"version" json:"version,omitempty"`
	Recipes []RecipeDef `yaml:"recipes" json:"recipes" validate:"dive"`
}

// Loader parses recipe catalogs. Documents are checked against a JSON Schema
// and struct tags before any recipe is built.
type Loader struct {
	schema   *jsonschema.Schema
	validate *validator.Validate
}

// NewLoader compiles the catalog schema
func NewLoader() (*Loader, error) {
	schema, err := jsonschema.CompileString("recipes.schema.json", recipeCatalogSchema)
	if err != nil {
		return nil, fmt.Errorf("compile recipe schema: %w", err)
	}
	return &Loader{schema: schema, validate: validator.New()}, nil
}

// LoadFile reads a YAML or JSON catalog from path
func (l *Loader) LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := l.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	cat.Source = path
	return cat, nil
}

// Parse decodes a catalog document. YAML is a superset of JSON, so both work.
// Recipes keep their file order; duplicate ids are kept for the registry to resolve.
func (l *Loader) Parse(raw []byte) (*Catalog, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := l.validateSchema(doc); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := l.validate.Struct(file); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	recipes := make([]crafting.Recipe, 0, len(file.Recipes))
	for i, def := range file.Recipes {
		recipe, err := def.toRecipe()
		if err != nil {
			return nil, fmt.Errorf("recipes[%d]: %w", i, err)
		}
		recipes = append(recipes, recipe)
	}

	sum := sha256.Sum256(raw)
	return &Catalog{Digest: hex.EncodeToString(sum[:]), Recipes: recipes}, nil
}

// validateSchema round-trips the YAML tree through JSON so the schema
// validator sees JSON numbers and string-keyed objects only
func (l *Loader) validateSchema(doc interface{}) error {
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	var value interface{}
	dec := json.NewDecoder(bytes.NewReader(asJSON))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := l.schema.Validate(value); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

func (d RecipeDef) toRecipe() (crafting.Recipe, error) {
	var duration time.Duration
	if d.Duration != "" {
		parsed, err := time.ParseDuration(d.Duration)
		if err != nil {
			return crafting.Recipe{}, &crafting.ErrInvalidRecipe{RecipeID: crafting.RecipeID(d.ID), Field: "duration", Reason: err.Error()}
		}
		duration = parsed
	}

	amount := d.Result.Amount
	if amount == 0 {
		amount = 1
	}

	return crafting.NewRecipe(
		crafting.RecipeID(d.ID),
		d.Name,
		d.Description,
		duration,
		d.Ingredients,
		crafting.ResultSpec{
			ItemID: d.Result.ItemID,
			Kind:   crafting.ItemKind(d.Result.Kind),
			Amount: amount,
		},
		d.Station,
	)
}

// RecipeSink is anything recipes can be registered into
type RecipeSink interface {
	RegisterRecipe(recipe crafting.Recipe) bool
}

// RegisterAll registers every recipe in file order and returns the ids the
// sink ignored because an earlier recipe already claimed them
func (c *Catalog) RegisterAll(sink RecipeSink) (duplicates []crafting.RecipeID) {
	for _, recipe := range c.Recipes {
		if !sink.RegisterRecipe(recipe) {
			duplicates = append(duplicates, recipe.ID())
		}
	}
	return duplicates
}

// Defs converts recipes back into their file representation
func Defs(recipes []crafting.Recipe) []RecipeDef {
	defs := make([]RecipeDef, len(recipes))
	for i, r := range recipes {
		var duration string
		if r.Duration() > 0 {
			duration = r.Duration().String()
		}
		result := r.Result()
		defs[i] = RecipeDef{
			ID:          string(r.ID()),
			Name:        r.Name(),
			Description: r.Description(),
			Duration:    duration,
			Station:     r.Station(),
			Ingredients: r.Ingredients(),
			Result:      ResultDef{ItemID: result.ItemID, Kind: string(result.Kind), Amount: result.Amount},
		}
	}
	return defs
}
