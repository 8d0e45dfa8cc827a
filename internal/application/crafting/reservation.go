package crafting

import (
	"fmt"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

type sourceType int

const (
	sourceInventory sourceType = iota
	sourceStorage
)

// sourceKey identifies one drainable source of one resource kind
type sourceKey struct {
	source    sourceType
	agentID   shared.AgentID
	storageID string
	kind      crafting.ResourceKind
}

func (k sourceKey) String() string {
	if k.source == sourceInventory {
		return "inventory:" + k.agentID.String()
	}
	return "storage:" + k.storageID
}

// holdBook tracks quantities promised to open reservations
type holdBook struct {
	held map[sourceKey]int
}

func newHoldBook() *holdBook {
	return &holdBook{held: make(map[sourceKey]int)}
}

func (h *holdBook) amount(key sourceKey) int {
	return h.held[key]
}

func (h *holdBook) add(key sourceKey, n int) {
	h.held[key] += n
}

func (h *holdBook) remove(key sourceKey, n int) {
	left := h.held[key] - n
	if left <= 0 {
		delete(h.held, key)
		return
	}
	h.held[key] = left
}

// Draw is one planned withdrawal of a reservation
type Draw struct {
	Source    string // "inventory:<agent>" or "storage:<id>"
	Kind      crafting.ResourceKind
	Amount    int
	inventory crafting.AgentInventory
	key       sourceKey
}

// Reservation holds ingredient quantities for one craft across every source
// it will draw from. While open, held quantities are invisible to CanCraft
// and to other reservations. Commit drains exactly the planned amounts;
// Release drops the hold without draining.
type Reservation struct {
	recipeID crafting.RecipeID
	agentID  shared.AgentID
	draws    []Draw
	resolver *ResourceResolver
	closed   bool
}

// RecipeID returns the recipe this reservation was made for
func (r *Reservation) RecipeID() crafting.RecipeID { return r.recipeID }

// AgentID returns the agent whose inventory is drawn first (zero for storage-only)
func (r *Reservation) AgentID() shared.AgentID { return r.agentID }

// IsOpen reports whether the reservation still holds resources
func (r *Reservation) IsOpen() bool { return !r.closed }

// Draws returns the planned withdrawals in drain order
func (r *Reservation) Draws() []Draw {
	out := make([]Draw, len(r.draws))
	copy(out, r.draws)
	return out
}

// Release drops the hold without draining anything
func (r *Reservation) Release() error {
	if r.closed {
		return &crafting.ErrReservationClosed{RecipeID: r.recipeID}
	}
	r.releaseHolds()
	r.closed = true
	return nil
}

// Commit drains every planned draw. Each source is re-verified before any of
// them is touched; if one no longer covers its draw, nothing is drained and
// an *ErrSourceShortfall is returned. The reservation is closed either way.
//
// A draw's hold is dropped only after that draw is drained, so handlers
// reacting to the drain's inventory events never see the stock as free.
func (r *Reservation) Commit() error {
	if r.closed {
		return &crafting.ErrReservationClosed{RecipeID: r.recipeID}
	}
	r.closed = true

	own := make(map[sourceKey]int, len(r.draws))
	for _, d := range r.draws {
		own[d.key] += d.Amount
	}
	for _, d := range r.draws {
		available := r.resolver.availableExcept(d.key, d.inventory, own[d.key])
		if available < d.Amount {
			r.releaseHolds()
			return &crafting.ErrSourceShortfall{Source: d.Source, Kind: d.Kind, Planned: d.Amount, Drained: 0}
		}
	}

	for i, d := range r.draws {
		drained := r.resolver.drain(d, r.agentID)
		r.resolver.holds.remove(d.key, d.Amount)
		if drained < d.Amount {
			// Only reachable if a collaborator refuses a removal it just reported as available
			for _, rest := range r.draws[i+1:] {
				r.resolver.holds.remove(rest.key, rest.Amount)
			}
			return &crafting.ErrSourceShortfall{Source: d.Source, Kind: d.Kind, Planned: d.Amount, Drained: drained}
		}
	}
	return nil
}

func (r *Reservation) releaseHolds() {
	for _, d := range r.draws {
		r.resolver.holds.remove(d.key, d.Amount)
	}
}

func (r *Reservation) String() string {
	return fmt.Sprintf("Reservation[%s, agent=%s, draws=%d, open=%t]", r.recipeID, r.agentID, len(r.draws), !r.closed)
}
