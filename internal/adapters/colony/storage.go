package colony

import (
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// StorageDepot is a shared stockpile attached to a building.
//
// Thread-Safety:
// All stock operations are protected by a mutex.
//
// Invariants:
// - Total stock never exceeds capacity (0 = unlimited)
// - No amount is ever negative
type StorageDepot struct {
	mu       sync.RWMutex
	id       string
	capacity int
	stock    map[crafting.ResourceKind]int
}

// NewStorageDepot creates a depot with optional initial stock
func NewStorageDepot(id string, capacity int, initial map[crafting.ResourceKind]int) (*StorageDepot, error) {
	if id == "" {
		return nil, fmt.Errorf("storage id cannot be empty")
	}
	if capacity < 0 {
		return nil, fmt.Errorf("storage capacity cannot be negative")
	}

	stock := make(map[crafting.ResourceKind]int)
	total := 0
	for kind, n := range initial {
		if n < 0 {
			return nil, fmt.Errorf("initial stock for %s cannot be negative", kind)
		}
		if n > 0 {
			stock[kind] = n
			total += n
		}
	}
	if capacity > 0 && total > capacity {
		return nil, fmt.Errorf("initial stock (%d) exceeds capacity (%d)", total, capacity)
	}

	return &StorageDepot{id: id, capacity: capacity, stock: stock}, nil
}

func (d *StorageDepot) ID() string    { return d.id }
func (d *StorageDepot) Capacity() int { return d.capacity }

// Amount returns units of kind in stock
func (d *StorageDepot) Amount(kind crafting.ResourceKind) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stock[kind]
}

// AvailableSpace returns room for new deposits (-1 when unlimited)
func (d *StorageDepot) AvailableSpace() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.availableSpaceUnsafe()
}

func (d *StorageDepot) availableSpaceUnsafe() int {
	if d.capacity == 0 {
		return -1
	}
	total := 0
	for _, n := range d.stock {
		total += n
	}
	return d.capacity - total
}

// Deposit adds units of kind
func (d *StorageDepot) Deposit(kind crafting.ResourceKind, units int) error {
	if units <= 0 {
		return fmt.Errorf("deposit units must be positive")
	}
	if kind == "" {
		return fmt.Errorf("resource kind cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if space := d.availableSpaceUnsafe(); space >= 0 && space < units {
		return fmt.Errorf("insufficient space in %s: need %d, have %d", d.id, units, space)
	}
	d.stock[kind] += units
	return nil
}

// Withdraw removes up to units of kind and returns what was removed
func (d *StorageDepot) Withdraw(kind crafting.ResourceKind, units int) int {
	if units <= 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	taken := min(units, d.stock[kind])
	d.stock[kind] -= taken
	if d.stock[kind] == 0 {
		delete(d.stock, kind)
	}
	return taken
}

// Snapshot returns a copy of the stock
func (d *StorageDepot) Snapshot() map[crafting.ResourceKind]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[crafting.ResourceKind]int, len(d.stock))
	for kind, n := range d.stock {
		out[kind] = n
	}
	return out
}

// Withdrawal records one removal through the storage system
type Withdrawal struct {
	StorageID string
	AgentID   shared.AgentID
	Kind      crafting.ResourceKind
	Requested int
	Removed   int
}

// StorageNetwork is the storage system over every depot in the colony
type StorageNetwork struct {
	mu          sync.RWMutex
	depots      map[string]*StorageDepot
	withdrawals []Withdrawal
}

// Compile-time interface check
var _ crafting.StorageSystem = (*StorageNetwork)(nil)

// NewStorageNetwork creates an empty network
func NewStorageNetwork() *StorageNetwork {
	return &StorageNetwork{depots: make(map[string]*StorageDepot)}
}

// AddDepot attaches a depot; ids must be unique
func (n *StorageNetwork) AddDepot(depot *StorageDepot) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.depots[depot.ID()]; exists {
		return fmt.Errorf("storage %s already exists", depot.ID())
	}
	n.depots[depot.ID()] = depot
	return nil
}

// Depot returns the depot registered under id
func (n *StorageNetwork) Depot(id string) (*StorageDepot, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	d, ok := n.depots[id]
	return d, ok
}

// DepotIDs returns every depot id, sorted
func (n *StorageNetwork) DepotIDs() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ids := make([]string, 0, len(n.depots))
	for id := range n.depots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResourceAmount returns units of kind in storageID (0 for unknown storage)
func (n *StorageNetwork) ResourceAmount(storageID string, kind crafting.ResourceKind) int {
	depot, ok := n.Depot(storageID)
	if !ok {
		return 0
	}
	return depot.Amount(kind)
}

// RemoveResourceFromStorage removes up to amount units on behalf of agentID
func (n *StorageNetwork) RemoveResourceFromStorage(storageID string, agentID shared.AgentID, kind crafting.ResourceKind, amount int) int {
	removed := 0
	if depot, ok := n.Depot(storageID); ok {
		removed = depot.Withdraw(kind, amount)
	}

	n.mu.Lock()
	n.withdrawals = append(n.withdrawals, Withdrawal{
		StorageID: storageID,
		AgentID:   agentID,
		Kind:      kind,
		Requested: amount,
		Removed:   removed,
	})
	n.mu.Unlock()
	return removed
}

// Withdrawals returns every removal attempt made through the network, oldest first.
// Attempts against unknown storage are kept with Removed 0.
func (n *StorageNetwork) Withdrawals() []Withdrawal {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Withdrawal, len(n.withdrawals))
	copy(out, n.withdrawals)
	return out
}
