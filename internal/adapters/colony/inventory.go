package colony

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// Inventory is an agent's personal holdings. Every change publishes an
// InventoryChanged event naming the owner.
//
// Thread-Safety:
// Amounts are guarded by a mutex. Events are published after the lock is
// released so subscribers may read the inventory re-entrantly.
//
// Invariants:
// - No amount is ever negative
// - Total units never exceed capacity (0 = unlimited)
type Inventory struct {
	mu       sync.RWMutex
	owner    shared.AgentID
	capacity int
	items    map[crafting.ResourceKind]int
	bus      crafting.NotificationBus
}

// Compile-time interface check
var _ crafting.AgentInventory = (*Inventory)(nil)

// NewInventory creates an empty inventory for owner. bus may be nil.
func NewInventory(owner shared.AgentID, capacity int, bus crafting.NotificationBus) *Inventory {
	if capacity < 0 {
		capacity = 0
	}
	return &Inventory{
		owner:    owner,
		capacity: capacity,
		items:    make(map[crafting.ResourceKind]int),
		bus:      bus,
	}
}

func (i *Inventory) Owner() shared.AgentID { return i.owner }
func (i *Inventory) Capacity() int         { return i.capacity }

// ResourceAmount returns the units held of kind
func (i *Inventory) ResourceAmount(kind crafting.ResourceKind) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.items[kind]
}

// Total returns the units held across all kinds
func (i *Inventory) Total() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.totalUnsafe()
}

func (i *Inventory) totalUnsafe() int {
	total := 0
	for _, n := range i.items {
		total += n
	}
	return total
}

// Snapshot returns a copy of the holdings
func (i *Inventory) Snapshot() map[crafting.ResourceKind]int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make(map[crafting.ResourceKind]int, len(i.items))
	for kind, n := range i.items {
		out[kind] = n
	}
	return out
}

// AddResource deposits amount units of kind
func (i *Inventory) AddResource(kind crafting.ResourceKind, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("add amount must be positive")
	}
	if kind == "" {
		return fmt.Errorf("resource kind cannot be empty")
	}

	i.mu.Lock()
	if i.capacity > 0 && i.totalUnsafe()+amount > i.capacity {
		free := i.capacity - i.totalUnsafe()
		i.mu.Unlock()
		return fmt.Errorf("insufficient space in %s's inventory: need %d, have %d", i.owner, amount, free)
	}
	i.items[kind] += amount
	i.mu.Unlock()

	i.publish(kind, amount)
	return nil
}

// RemoveResource removes exactly amount units of kind, or nothing
func (i *Inventory) RemoveResource(kind crafting.ResourceKind, amount int) bool {
	if amount <= 0 {
		return false
	}

	i.mu.Lock()
	if i.items[kind] < amount {
		i.mu.Unlock()
		return false
	}
	i.items[kind] -= amount
	if i.items[kind] == 0 {
		delete(i.items, kind)
	}
	i.mu.Unlock()

	i.publish(kind, -amount)
	return true
}

func (i *Inventory) publish(kind crafting.ResourceKind, delta int) {
	if i.bus == nil {
		return
	}
	i.bus.Publish(crafting.InventoryChangedEvent{AgentID: i.owner, Resource: kind, Delta: delta})
}
