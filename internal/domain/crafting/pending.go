package crafting

import (
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// PendingKey identifies a pending craft. At most one entry exists per key.
type PendingKey struct {
	AgentID  shared.AgentID
	RecipeID RecipeID
}

func (k PendingKey) String() string {
	return k.AgentID.String() + "/" + string(k.RecipeID)
}

// PendingCraft is a craft parked until its agent can afford the recipe
type PendingCraft struct {
	key              PendingKey
	missing          []ResourceAmount
	gatherTaskIssued bool
	recordedAt       time.Time
}

// NewPendingCraft records a failed craft attempt. A gather request is
// considered issued whenever something is actually missing.
func NewPendingCraft(agentID shared.AgentID, recipeID RecipeID, missing []ResourceAmount, recordedAt time.Time) *PendingCraft {
	return &PendingCraft{
		key:              PendingKey{AgentID: agentID, RecipeID: recipeID},
		missing:          copyAmounts(missing),
		gatherTaskIssued: len(missing) > 0,
		recordedAt:       recordedAt,
	}
}

func (p *PendingCraft) Key() PendingKey           { return p.key }
func (p *PendingCraft) AgentID() shared.AgentID   { return p.key.AgentID }
func (p *PendingCraft) RecipeID() RecipeID        { return p.key.RecipeID }
func (p *PendingCraft) GatherTaskIssued() bool    { return p.gatherTaskIssued }
func (p *PendingCraft) RecordedAt() time.Time     { return p.recordedAt }
func (p *PendingCraft) Missing() []ResourceAmount { return copyAmounts(p.missing) }
