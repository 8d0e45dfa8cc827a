package crafting

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// ResourceResolver answers "can this be crafted" and drains ingredients.
//
// Availability policy: when an agent is given and resolvable, only that
// agent's inventory counts. Otherwise the sum over every built structure that
// exposes storage counts. The two are never mixed in one check. Consumption
// draws from the agent's inventory first, then from storage in building
// enumeration order.
type ResourceResolver struct {
	registry  *RecipeRegistry
	agents    crafting.AgentDirectory
	buildings crafting.BuildingDirectory
	storage   crafting.StorageSystem
	holds     *holdBook
	logger    common.Logger
	metrics   crafting.MetricsRecorder
}

// NewResourceResolver creates a resolver over the collaborators in ctx
func NewResourceResolver(registry *RecipeRegistry, ctx Context) *ResourceResolver {
	ctx = ctx.normalized()
	return &ResourceResolver{
		registry:  registry,
		agents:    ctx.Agents,
		buildings: ctx.Buildings,
		storage:   ctx.Storage,
		holds:     newHoldBook(),
		logger:    ctx.Logger,
		metrics:   ctx.Metrics,
	}
}

// CanCraft reports whether recipeID's ingredients are available, and the
// per-kind shortfall when they are not. silent suppresses logging.
func (r *ResourceResolver) CanCraft(recipeID crafting.RecipeID, agentID shared.AgentID, silent bool) (bool, []crafting.ResourceAmount) {
	recipe, ok := r.registry.Lookup(recipeID)
	if !ok {
		if !silent {
			r.logger.Log(common.LevelWarn, fmt.Sprintf("[Resolver] Cannot check unknown recipe %s", recipeID), nil)
		}
		return false, nil
	}

	var available func(kind crafting.ResourceKind) int
	if inv, found := r.inventoryFor(agentID); found {
		available = func(kind crafting.ResourceKind) int {
			return r.inventoryAvailable(agentID, inv, kind)
		}
	} else {
		if err := r.requireStorage(); err != nil {
			if !silent {
				r.logger.Log(common.LevelWarn, fmt.Sprintf("[Resolver] Cannot check %s: %v", recipeID, err), nil)
			}
			r.metrics.RecordCraftCheck(recipeID, false)
			return false, nil
		}
		available = r.storageAvailable
	}

	var missing []crafting.ResourceAmount
	for _, need := range recipe.Requirements() {
		if have := available(need.Kind); have < need.Amount {
			missing = append(missing, crafting.ResourceAmount{Kind: need.Kind, Amount: need.Amount - have})
		}
	}

	satisfied := len(missing) == 0
	r.metrics.RecordCraftCheck(recipeID, satisfied)
	if !satisfied && !silent {
		r.logger.Log(common.LevelDebug, fmt.Sprintf("[Resolver] %s not craftable, missing [%s]", recipeID, crafting.FormatAmounts(missing)), map[string]interface{}{
			"recipe_id": string(recipeID),
			"agent_id":  agentID.String(),
		})
	}
	return satisfied, missing
}

// Reserve plans and holds every draw the recipe needs. Sufficiency is
// verified across all sources before anything is held; on shortfall the
// returned *ErrInsufficientResources lists what is missing and nothing is held.
func (r *ResourceResolver) Reserve(recipeID crafting.RecipeID, agentID shared.AgentID) (*Reservation, error) {
	recipe, ok := r.registry.Lookup(recipeID)
	if !ok {
		return nil, &crafting.ErrRecipeNotFound{RecipeID: recipeID}
	}

	inv, hasAgent := r.inventoryFor(agentID)
	storageErr := r.requireStorage()
	if !hasAgent && storageErr != nil {
		return nil, storageErr
	}

	var (
		draws   []Draw
		missing []crafting.ResourceAmount
	)
	for _, need := range recipe.Requirements() {
		remaining := need.Amount

		if hasAgent {
			take := min(remaining, r.inventoryAvailable(agentID, inv, need.Kind))
			if take > 0 {
				key := sourceKey{source: sourceInventory, agentID: agentID, kind: need.Kind}
				draws = append(draws, Draw{Source: key.String(), Kind: need.Kind, Amount: take, inventory: inv, key: key})
				remaining -= take
			}
		}

		if remaining > 0 && storageErr == nil {
			for _, storageID := range r.storageIDs() {
				if remaining == 0 {
					break
				}
				key := sourceKey{source: sourceStorage, storageID: storageID, kind: need.Kind}
				take := min(remaining, r.sourceAvailable(key, nil))
				if take > 0 {
					draws = append(draws, Draw{Source: key.String(), Kind: need.Kind, Amount: take, key: key})
					remaining -= take
				}
			}
		}

		if remaining > 0 {
			missing = append(missing, crafting.ResourceAmount{Kind: need.Kind, Amount: remaining})
		}
	}

	if len(missing) > 0 {
		return nil, &crafting.ErrInsufficientResources{RecipeID: recipeID, AgentID: agentID, Missing: missing}
	}

	for _, d := range draws {
		r.holds.add(d.key, d.Amount)
	}
	return &Reservation{recipeID: recipeID, agentID: agentID, draws: draws, resolver: r}, nil
}

// ConsumeIngredients reserves and immediately commits. It returns false
// without draining anything when the ingredients are not all available.
func (r *ResourceResolver) ConsumeIngredients(recipeID crafting.RecipeID, agentID shared.AgentID) bool {
	reservation, err := r.Reserve(recipeID, agentID)
	if err != nil {
		var insufficient *crafting.ErrInsufficientResources
		level := common.LevelWarn
		reason := "unavailable"
		if errors.As(err, &insufficient) {
			level = common.LevelInfo
			reason = "insufficient"
		}
		r.metrics.RecordConsumeFailure(recipeID, reason)
		r.logger.Log(level, fmt.Sprintf("[Resolver] Not consuming %s: %v", recipeID, err), map[string]interface{}{
			"recipe_id": string(recipeID),
			"agent_id":  agentID.String(),
		})
		return false
	}

	if err := reservation.Commit(); err != nil {
		r.metrics.RecordConsumeFailure(recipeID, "commit")
		r.logger.Log(common.LevelWarn, fmt.Sprintf("[Resolver] Resources for %s vanished before commit: %v", recipeID, err), map[string]interface{}{
			"recipe_id": string(recipeID),
			"agent_id":  agentID.String(),
		})
		return false
	}
	return true
}

// HeldAmount returns the quantity of kind currently held by open reservations
// against agentID's inventory (or against all storage when agentID is zero).
func (r *ResourceResolver) HeldAmount(agentID shared.AgentID, kind crafting.ResourceKind) int {
	if !agentID.IsZero() {
		return r.holds.amount(sourceKey{source: sourceInventory, agentID: agentID, kind: kind})
	}
	total := 0
	for key, n := range r.holds.held {
		if key.source == sourceStorage && key.kind == kind {
			total += n
		}
	}
	return total
}

func (r *ResourceResolver) inventoryFor(agentID shared.AgentID) (crafting.AgentInventory, bool) {
	if agentID.IsZero() || r.agents == nil {
		return nil, false
	}
	agent, ok := r.agents.FindAgent(agentID)
	if !ok || agent == nil {
		return nil, false
	}
	inv := agent.Inventory()
	return inv, inv != nil
}

func (r *ResourceResolver) requireStorage() error {
	if r.buildings == nil {
		return &crafting.ErrCollaboratorMissing{Name: "building directory"}
	}
	if r.storage == nil {
		return &crafting.ErrCollaboratorMissing{Name: "storage system"}
	}
	return nil
}

// storageIDs lists storage of built structures in enumeration order, each id once
func (r *ResourceResolver) storageIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, b := range r.buildings.Buildings() {
		if b == nil || !b.IsBuilt() {
			continue
		}
		id, ok := b.StorageID()
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func (r *ResourceResolver) inventoryAvailable(agentID shared.AgentID, inv crafting.AgentInventory, kind crafting.ResourceKind) int {
	return r.sourceAvailable(sourceKey{source: sourceInventory, agentID: agentID, kind: kind}, inv)
}

func (r *ResourceResolver) storageAvailable(kind crafting.ResourceKind) int {
	total := 0
	for _, id := range r.storageIDs() {
		total += r.sourceAvailable(sourceKey{source: sourceStorage, storageID: id, kind: kind}, nil)
	}
	return total
}

// sourceAvailable is the collaborator's amount minus open holds, never negative
func (r *ResourceResolver) sourceAvailable(key sourceKey, inv crafting.AgentInventory) int {
	return r.availableExcept(key, inv, 0)
}

// availableExcept is sourceAvailable with `own` units of the hold treated as free
func (r *ResourceResolver) availableExcept(key sourceKey, inv crafting.AgentInventory, own int) int {
	var raw int
	switch key.source {
	case sourceInventory:
		if inv == nil {
			return 0
		}
		raw = inv.ResourceAmount(key.kind)
	case sourceStorage:
		if r.storage == nil {
			return 0
		}
		raw = r.storage.ResourceAmount(key.storageID, key.kind)
	}
	if available := raw - (r.holds.amount(key) - own); available > 0 {
		return available
	}
	return 0
}

func (r *ResourceResolver) drain(d Draw, agentID shared.AgentID) int {
	switch d.key.source {
	case sourceInventory:
		if d.inventory != nil && d.inventory.RemoveResource(d.Kind, d.Amount) {
			return d.Amount
		}
		return 0
	case sourceStorage:
		if r.storage == nil {
			return 0
		}
		return r.storage.RemoveResourceFromStorage(d.key.storageID, agentID, d.Kind, d.Amount)
	}
	return 0
}
