package colony

import (
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// Colonist is a live agent with personal holdings
type Colonist struct {
	id        shared.AgentID
	name      string
	inventory *Inventory
}

// Compile-time interface check
var _ crafting.Agent = (*Colonist)(nil)

// NewColonist creates a colonist whose inventory publishes on bus
func NewColonist(id shared.AgentID, name string, capacity int, bus crafting.NotificationBus) *Colonist {
	if name == "" {
		name = id.String()
	}
	return &Colonist{
		id:        id,
		name:      name,
		inventory: NewInventory(id, capacity, bus),
	}
}

func (c *Colonist) ID() shared.AgentID { return c.id }
func (c *Colonist) Name() string       { return c.name }

// Inventory returns the colonist's holdings as the crafting port
func (c *Colonist) Inventory() crafting.AgentInventory { return c.inventory }

// Holdings returns the concrete inventory for deposits
func (c *Colonist) Holdings() *Inventory { return c.inventory }

// Roster is the agent directory, listing colonists in arrival order
type Roster struct {
	mu        sync.RWMutex
	colonists *orderedmap.OrderedMap[shared.AgentID, *Colonist]
}

// Compile-time interface check
var _ crafting.AgentDirectory = (*Roster)(nil)

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{colonists: orderedmap.New[shared.AgentID, *Colonist]()}
}

// Add registers a colonist; ids must be unique
func (r *Roster) Add(c *Colonist) error {
	if c == nil || c.ID().IsZero() {
		return fmt.Errorf("colonist id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.colonists.Get(c.ID()); exists {
		return fmt.Errorf("colonist %s already in roster", c.ID())
	}
	r.colonists.Set(c.ID(), c)
	return nil
}

// Remove drops a colonist; later lookups report not-found
func (r *Roster) Remove(id shared.AgentID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, removed := r.colonists.Delete(id)
	return removed
}

// FindAgent resolves id to a live colonist
func (r *Roster) FindAgent(id shared.AgentID) (crafting.Agent, bool) {
	c, ok := r.Colonist(id)
	if !ok {
		return nil, false
	}
	return c, true
}

// Colonist returns the concrete colonist for id
func (r *Roster) Colonist(id shared.AgentID) (*Colonist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.colonists.Get(id)
}

// List returns colonists in arrival order
func (r *Roster) List() []*Colonist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Colonist, 0, r.colonists.Len())
	for pair := r.colonists.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
