package colony

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// Structure is a colony building that may expose a storage depot
type Structure struct {
	mu        sync.RWMutex
	id        string
	kind      string
	built     bool
	storageID string
}

// Compile-time interface check
var _ crafting.Building = (*Structure)(nil)

// NewStructure creates a structure. storageID is empty for buildings without storage.
func NewStructure(id, kind string, built bool, storageID string) (*Structure, error) {
	if id == "" {
		return nil, fmt.Errorf("structure id cannot be empty")
	}
	return &Structure{id: id, kind: kind, built: built, storageID: storageID}, nil
}

func (s *Structure) ID() string   { return s.id }
func (s *Structure) Kind() string { return s.kind }

// IsBuilt reports whether construction has finished
func (s *Structure) IsBuilt() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

// MarkBuilt finishes construction
func (s *Structure) MarkBuilt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.built = true
}

// StorageID returns the attached storage depot, if any
func (s *Structure) StorageID() (string, bool) {
	return s.storageID, s.storageID != ""
}

// Settlement is the building directory, enumerating structures in placement order
type Settlement struct {
	mu         sync.RWMutex
	structures []*Structure
	byID       map[string]*Structure
}

// Compile-time interface check
var _ crafting.BuildingDirectory = (*Settlement)(nil)

// NewSettlement creates an empty settlement
func NewSettlement() *Settlement {
	return &Settlement{byID: make(map[string]*Structure)}
}

// Place adds a structure; ids must be unique
func (s *Settlement) Place(structure *Structure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[structure.ID()]; exists {
		return fmt.Errorf("structure %s already placed", structure.ID())
	}
	s.structures = append(s.structures, structure)
	s.byID[structure.ID()] = structure
	return nil
}

// Structure returns the structure placed under id
func (s *Settlement) Structure(id string) (*Structure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.byID[id]
	return st, ok
}

// Buildings returns every structure in placement order
func (s *Settlement) Buildings() []crafting.Building {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]crafting.Building, len(s.structures))
	for i, st := range s.structures {
		out[i] = st
	}
	return out
}
