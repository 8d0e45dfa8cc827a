package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
)

// MockCraftRecordRepository is an in-memory implementation of CraftRecordRepository for testing
type MockCraftRecordRepository struct {
	mu        sync.Mutex
	Records   []*ledger.CraftRecord
	CreateErr error
}

// Compile-time interface check
var _ ledger.CraftRecordRepository = (*MockCraftRecordRepository)(nil)

// NewMockCraftRecordRepository creates a new mock craft record repository
func NewMockCraftRecordRepository() *MockCraftRecordRepository {
	return &MockCraftRecordRepository{}
}

// Create stores the record in memory
func (m *MockCraftRecordRepository) Create(ctx context.Context, record *ledger.CraftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Records = append(m.Records, record)
	return nil
}

// FindByID retrieves a record by its ID
func (m *MockCraftRecordRepository) FindByID(ctx context.Context, id ledger.RecordID) (*ledger.CraftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID().Equals(id) {
			return r, nil
		}
	}
	return nil, &ledger.ErrRecordNotFound{ID: id.String()}
}

// List filters records in insertion order; OrderBy "recorded_at ASC" flips to oldest first
func (m *MockCraftRecordRepository) List(ctx context.Context, opts ledger.QueryOptions) ([]*ledger.CraftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.filter(opts)
	if opts.OrderBy != "recorded_at ASC" {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].RecordedAt().After(matched[j].RecordedAt())
		})
	}

	if opts.Offset >= len(matched) {
		return []*ledger.CraftRecord{}, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Count returns the number of records matching the criteria
func (m *MockCraftRecordRepository) Count(ctx context.Context, opts ledger.QueryOptions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filter(opts)), nil
}

func (m *MockCraftRecordRepository) filter(opts ledger.QueryOptions) []*ledger.CraftRecord {
	var out []*ledger.CraftRecord
	for _, r := range m.Records {
		if opts.RunID != nil && r.RunID() != *opts.RunID {
			continue
		}
		if opts.AgentID != nil && !r.AgentID().Equals(*opts.AgentID) {
			continue
		}
		if opts.RecipeID != nil && r.RecipeID() != *opts.RecipeID {
			continue
		}
		if opts.Outcome != nil && r.Outcome() != *opts.Outcome {
			continue
		}
		if opts.StartDate != nil && r.RecordedAt().Before(*opts.StartDate) {
			continue
		}
		if opts.EndDate != nil && r.RecordedAt().After(*opts.EndDate) {
			continue
		}
		out = append(out, r)
	}
	return out
}
