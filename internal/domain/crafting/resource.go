package crafting

import (
	"fmt"
	"strings"
)

// ResourceKind names a raw material (e.g. "Wood", "Stone")
type ResourceKind string

// ResourceAmount is a (kind, amount) pair used for ingredients and shortfalls
type ResourceAmount struct {
	Kind   ResourceKind `json:"kind" yaml:"kind"`
	Amount int          `json:"amount" yaml:"amount"`
}

func (r ResourceAmount) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.Amount)
}

// FormatAmounts renders a list as "Wood:1, Stone:2"
func FormatAmounts(amounts []ResourceAmount) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// requirementsByKind folds an ingredient list into per-kind totals while
// preserving first-appearance order, so a recipe that lists the same kind
// twice is checked against the combined amount.
func requirementsByKind(ingredients []ResourceAmount) []ResourceAmount {
	index := make(map[ResourceKind]int, len(ingredients))
	out := make([]ResourceAmount, 0, len(ingredients))
	for _, in := range ingredients {
		if i, ok := index[in.Kind]; ok {
			out[i].Amount += in.Amount
			continue
		}
		index[in.Kind] = len(out)
		out = append(out, in)
	}
	return out
}

func copyAmounts(in []ResourceAmount) []ResourceAmount {
	if in == nil {
		return nil
	}
	out := make([]ResourceAmount, len(in))
	copy(out, in)
	return out
}
