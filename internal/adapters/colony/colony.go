package colony

import (
	"fmt"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// Colony bundles the reference collaborators the crafting core runs against
type Colony struct {
	Bus        crafting.NotificationBus
	Roster     *Roster
	Settlement *Settlement
	Storage    *StorageNetwork
	Gather     *GatherBoard
}

// NewColony creates an empty colony publishing inventory changes on bus
func NewColony(bus crafting.NotificationBus, clock shared.Clock) *Colony {
	return &Colony{
		Bus:        bus,
		Roster:     NewRoster(),
		Settlement: NewSettlement(),
		Storage:    NewStorageNetwork(),
		Gather:     NewGatherBoard(clock),
	}
}

// AddColonist creates and registers a colonist with starting holdings
func (c *Colony) AddColonist(id, name string, capacity int, holdings map[crafting.ResourceKind]int) (*Colonist, error) {
	agentID, err := shared.NewAgentID(id)
	if err != nil {
		return nil, err
	}
	colonist := NewColonist(agentID, name, capacity, c.Bus)
	for kind, n := range holdings {
		if n <= 0 {
			continue
		}
		if err := colonist.Holdings().AddResource(kind, n); err != nil {
			return nil, fmt.Errorf("failed to stock colonist %s: %w", id, err)
		}
	}
	if err := c.Roster.Add(colonist); err != nil {
		return nil, err
	}
	return colonist, nil
}

// AddStorehouse places a building with an attached depot
func (c *Colony) AddStorehouse(buildingID, storageID string, built bool, capacity int, stock map[crafting.ResourceKind]int) (*Structure, error) {
	depot, err := NewStorageDepot(storageID, capacity, stock)
	if err != nil {
		return nil, err
	}
	if err := c.Storage.AddDepot(depot); err != nil {
		return nil, err
	}
	structure, err := NewStructure(buildingID, "storehouse", built, storageID)
	if err != nil {
		return nil, err
	}
	if err := c.Settlement.Place(structure); err != nil {
		return nil, err
	}
	return structure, nil
}

// Deliver deposits resources into an agent's inventory, publishing InventoryChanged
func (c *Colony) Deliver(agentID shared.AgentID, kind crafting.ResourceKind, amount int) error {
	colonist, ok := c.Roster.Colonist(agentID)
	if !ok {
		return fmt.Errorf("colonist %s not found", agentID)
	}
	return colonist.Holdings().AddResource(kind, amount)
}
