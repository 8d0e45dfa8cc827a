package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/catalog"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// NewRecipesCommand creates the recipes command with subcommands
func NewRecipesCommand() *cobra.Command {
	var recipesPath string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Inspect the recipe catalog",
		Long: `Inspect the recipe catalog the crafting core registers at startup.

The catalog path comes from crafting.recipes_path unless --recipes is given.
When two recipes share an id only the first one in the file is registered.

Examples:
  colonycraft recipes list
  colonycraft recipes show stone_axe
  colonycraft recipes show plank --format yaml`,
	}

	cmd.PersistentFlags().StringVar(&recipesPath, "recipes", "", "Recipe catalog file (overrides config)")

	cmd.AddCommand(newRecipesListCommand(&recipesPath))
	cmd.AddCommand(newRecipesShowCommand(&recipesPath))

	return cmd
}

func newRecipesListCommand(recipesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recipes in registration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalogFromFlags(*recipesPath)
			if err != nil {
				return err
			}
			displayRecipeList(cmd.OutOrStdout(), cat)
			return nil
		},
	}
}

func newRecipesShowCommand(recipesPath *string) *cobra.Command {
	var (
		format    string
		useColors bool
	)

	cmd := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show one recipe and its ingredient tree",
		Long: `Show a recipe's details and its ingredient tree.

Ingredients produced by another recipe are expanded recursively, so the tree
ends in the raw materials colonists must gather.

Formats: tree (default), json, yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalogFromFlags(*recipesPath)
			if err != nil {
				return err
			}
			recipes := registered(cat)
			recipe, ok := findRecipe(recipes, crafting.RecipeID(args[0]))
			if !ok {
				return &crafting.ErrRecipeNotFound{RecipeID: crafting.RecipeID(args[0])}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(catalog.Defs([]crafting.Recipe{recipe})[0], "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(catalog.Defs([]crafting.Recipe{recipe})[0])
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			case "tree":
				displayRecipe(out, recipe, recipes, useColors)
			default:
				return fmt.Errorf("unknown format %q (want tree, json or yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "tree", "Output format: tree, json, yaml")
	cmd.Flags().BoolVar(&useColors, "color", false, "Colorize the ingredient tree")

	return cmd
}

func catalogFromFlags(recipesPath string) (*catalog.Catalog, error) {
	if recipesPath == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		recipesPath = cfg.Crafting.RecipesPath
	}
	return loadCatalog(recipesPath)
}

// registered drops the recipes the registry would ignore
func registered(cat *catalog.Catalog) []crafting.Recipe {
	seen := make(map[crafting.RecipeID]bool, len(cat.Recipes))
	out := make([]crafting.Recipe, 0, len(cat.Recipes))
	for _, r := range cat.Recipes {
		if seen[r.ID()] {
			continue
		}
		seen[r.ID()] = true
		out = append(out, r)
	}
	return out
}

func findRecipe(recipes []crafting.Recipe, id crafting.RecipeID) (crafting.Recipe, bool) {
	for _, r := range recipes {
		if r.ID() == id {
			return r, true
		}
	}
	return crafting.Recipe{}, false
}

func displayRecipeList(out io.Writer, cat *catalog.Catalog) {
	recipes := registered(cat)
	if len(recipes) == 0 {
		fmt.Fprintln(out, "No recipes found")
		return
	}

	fmt.Fprintf(out, "\nRECIPES (%d registered from %s)\n", len(recipes), cat.Source)
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tResult\tKind\tDuration\tIngredients")
	fmt.Fprintln(w, "──\t────\t──────\t────\t────────\t───────────")
	for _, r := range recipes {
		duration := "-"
		if r.Duration() > 0 {
			duration = r.Duration().String()
		}
		fmt.Fprintf(w, "%s\t%s\t%dx %s\t%s\t%s\t%s\n",
			r.ID(),
			r.Name(),
			r.Result().Amount,
			r.Result().ItemID,
			r.Result().Kind,
			duration,
			crafting.FormatAmounts(r.Ingredients()),
		)
	}
	w.Flush()

	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "By kind: %s\n", kindSummary(recipes))
	if skipped := len(cat.Recipes) - len(recipes); skipped > 0 {
		fmt.Fprintf(out, "%d duplicate recipe(s) ignored\n", skipped)
	}
	if verbose {
		fmt.Fprintf(out, "Digest: %s\n", cat.Digest)
	}
	fmt.Fprintln(out)
}

// kindSummary counts results per item kind, e.g. "TOOL:3, WEAPON:1"
func kindSummary(recipes []crafting.Recipe) string {
	counts := make(map[crafting.ItemKind]int)
	for _, r := range recipes {
		counts[r.Result().Kind]++
	}
	parts := make([]string, 0, len(counts))
	for _, kind := range crafting.ItemKinds() {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", kind, n))
		}
	}
	return strings.Join(parts, ", ")
}

func displayRecipe(out io.Writer, recipe crafting.Recipe, catalog []crafting.Recipe, useColors bool) {
	fmt.Fprintf(out, "\n%s (%s)\n", recipe.Name(), recipe.ID())
	if recipe.Description() != "" {
		fmt.Fprintf(out, "  %s\n", recipe.Description())
	}
	fmt.Fprintf(out, "  Result:    %dx %s [%s]\n", recipe.Result().Amount, recipe.Result().ItemID, recipe.Result().Kind)
	if recipe.Duration() > 0 {
		fmt.Fprintf(out, "  Duration:  %s\n", recipe.Duration())
	}
	if recipe.HasStation() {
		fmt.Fprintf(out, "  Station:   %s\n", recipe.Station())
	}
	fmt.Fprintln(out)

	formatter := NewTreeFormatter(useColors)
	tree := BuildRecipeTree(recipe, catalog)
	fmt.Fprint(out, formatter.FormatTree(tree))
	fmt.Fprintln(out, formatter.FormatTreeSummary(tree))
}
