package colony

import (
	"sync"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// GatherRequest asks an agent to fetch the resources a parked craft lacks
type GatherRequest struct {
	AgentID     shared.AgentID
	RecipeID    crafting.RecipeID
	Missing     []crafting.ResourceAmount
	RequestedAt time.Time
}

// GatherBoard collects gather requests for whatever subsystem fulfils them
type GatherBoard struct {
	mu       sync.Mutex
	clock    shared.Clock
	open     []GatherRequest
	received int
}

// Compile-time interface check
var _ crafting.GatherRequester = (*GatherBoard)(nil)

// NewGatherBoard creates an empty board
func NewGatherBoard(clock shared.Clock) *GatherBoard {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GatherBoard{clock: clock}
}

// RequestGather posts a request
func (b *GatherBoard) RequestGather(agentID shared.AgentID, recipeID crafting.RecipeID, missing []crafting.ResourceAmount) {
	req := GatherRequest{
		AgentID:     agentID,
		RecipeID:    recipeID,
		Missing:     append([]crafting.ResourceAmount(nil), missing...),
		RequestedAt: b.clock.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = append(b.open, req)
	b.received++
}

// Take removes and returns every open request, oldest first
func (b *GatherBoard) Take() []GatherRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.open
	b.open = nil
	return out
}

// Open returns the open requests without removing them
func (b *GatherBoard) Open() []GatherRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]GatherRequest(nil), b.open...)
}

// Received returns how many requests were ever posted
func (b *GatherBoard) Received() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.received
}
