package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// RecipeNode is one line of a recipe dependency tree. An ingredient whose
// kind is the result of another recipe expands into that recipe's inputs.
type RecipeNode struct {
	Kind     crafting.ResourceKind
	Amount   int
	Recipe   *crafting.Recipe // nil for raw materials
	Cycle    bool             // the recipe already appears higher up the branch
	Children []*RecipeNode
}

// IsRaw reports whether the node is gathered rather than crafted
func (n *RecipeNode) IsRaw() bool { return n.Recipe == nil }

// CountNodes counts the node and its descendants
func (n *RecipeNode) CountNodes() int {
	total := 1
	for _, c := range n.Children {
		total += c.CountNodes()
	}
	return total
}

// RawTotals sums raw materials per craft of the root, in first-seen order.
// Crafted intermediates are scaled by how many batches the parent needs.
func (n *RecipeNode) RawTotals() []crafting.ResourceAmount {
	index := make(map[crafting.ResourceKind]int)
	var out []crafting.ResourceAmount
	var walk func(node *RecipeNode, multiplier int)
	walk = func(node *RecipeNode, multiplier int) {
		for _, c := range node.Children {
			need := c.Amount * multiplier
			if c.IsRaw() || c.Cycle {
				if i, ok := index[c.Kind]; ok {
					out[i].Amount += need
				} else {
					index[c.Kind] = len(out)
					out = append(out, crafting.ResourceAmount{Kind: c.Kind, Amount: need})
				}
				continue
			}
			per := c.Recipe.Result().Amount
			walk(c, (need+per-1)/per)
		}
	}
	walk(n, 1)
	return out
}

// BuildRecipeTree expands root against the catalog. Recipes are matched by
// result item id; the first recipe producing an item wins.
func BuildRecipeTree(root crafting.Recipe, catalog []crafting.Recipe) *RecipeNode {
	producers := make(map[crafting.ResourceKind]crafting.Recipe)
	for _, r := range catalog {
		kind := crafting.ResourceKind(r.Result().ItemID)
		if _, exists := producers[kind]; !exists {
			producers[kind] = r
		}
	}

	var expand func(recipe crafting.Recipe, seen map[crafting.RecipeID]bool) []*RecipeNode
	expand = func(recipe crafting.Recipe, seen map[crafting.RecipeID]bool) []*RecipeNode {
		seen[recipe.ID()] = true
		defer delete(seen, recipe.ID())

		var children []*RecipeNode
		for _, in := range recipe.Ingredients() {
			node := &RecipeNode{Kind: in.Kind, Amount: in.Amount}
			if producer, ok := producers[in.Kind]; ok {
				p := producer
				node.Recipe = &p
				if seen[p.ID()] {
					node.Cycle = true
				} else {
					node.Children = expand(p, seen)
				}
			}
			children = append(children, node)
		}
		return children
	}

	r := root
	return &RecipeNode{
		Kind:     crafting.ResourceKind(root.Result().ItemID),
		Amount:   root.Result().Amount,
		Recipe:   &r,
		Children: expand(root, make(map[crafting.RecipeID]bool)),
	}
}

// TreeFormatter renders recipe dependency trees
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders the tree with box-drawing connectors
func (f *TreeFormatter) FormatTree(root *RecipeNode) string {
	if root == nil {
		return "(empty tree)"
	}
	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

func (f *TreeFormatter) formatNode(builder *strings.Builder, node *RecipeNode, prefix string, isLast, isRoot bool) {
	var linePrefix string
	switch {
	case isRoot:
		linePrefix = ""
	case isLast:
		linePrefix = prefix + "└── "
	default:
		linePrefix = prefix + "├── "
	}

	builder.WriteString(fmt.Sprintf("%s%dx %s [%s%s%s]%s\n",
		linePrefix,
		node.Amount,
		node.Kind,
		f.sourceColor(node),
		f.sourceText(node),
		f.colorReset(),
		f.recipeText(node),
	))

	if len(node.Children) == 0 {
		return
	}
	var childPrefix string
	switch {
	case isRoot:
		childPrefix = ""
	case isLast:
		childPrefix = prefix + "    "
	default:
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) sourceText(node *RecipeNode) string {
	switch {
	case node.IsRaw():
		return "GATHER"
	case node.Cycle:
		return "CYCLE"
	default:
		return "CRAFT"
	}
}

func (f *TreeFormatter) recipeText(node *RecipeNode) string {
	if node.IsRaw() {
		return ""
	}
	text := " via " + string(node.Recipe.ID())
	if node.Recipe.Duration() > 0 {
		text += ", " + node.Recipe.Duration().String()
	}
	if node.Recipe.HasStation() {
		text += " @ " + node.Recipe.Station()
	}
	return text
}

// sourceColor returns the ANSI color for how the node is obtained
func (f *TreeFormatter) sourceColor(node *RecipeNode) string {
	if !f.useColors {
		return ""
	}
	switch {
	case node.IsRaw():
		return "\033[32m" // Green
	case node.Cycle:
		return "\033[31m" // Red
	default:
		return "\033[33m" // Yellow
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a one-line summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *RecipeNode) string {
	if root == nil {
		return "No dependency tree"
	}
	return fmt.Sprintf("Tree: %d nodes, raw per craft: %s", root.CountNodes(), crafting.FormatAmounts(root.RawTotals()))
}
