package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// CraftRecordRepository defines persistence operations for craft records
type CraftRecordRepository interface {
	// Create persists a new record
	Create(ctx context.Context, record *CraftRecord) error

	// FindByID retrieves a record by its ID
	FindByID(ctx context.Context, id RecordID) (*CraftRecord, error)

	// List retrieves records with optional filtering
	List(ctx context.Context, opts QueryOptions) ([]*CraftRecord, error)

	// Count returns the number of records matching the criteria
	Count(ctx context.Context, opts QueryOptions) (int, error)
}

// QueryOptions defines filtering and pagination options for record queries
type QueryOptions struct {
	RunID    *string
	AgentID  *shared.AgentID
	RecipeID *crafting.RecipeID
	Outcome  *Outcome

	// Date range filtering
	StartDate *time.Time
	EndDate   *time.Time

	// Pagination
	Limit  int
	Offset int

	// Sorting
	OrderBy string // "recorded_at ASC" or "recorded_at DESC" (default DESC)
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		Offset:  0,
		OrderBy: "recorded_at DESC",
	}
}

// NormalizeOrderBy maps a caller-supplied ordering onto one of the two
// accepted clauses. Empty means the default, newest first.
func NormalizeOrderBy(orderBy string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(orderBy)) {
	case "", "RECORDED_AT DESC":
		return "recorded_at DESC", nil
	case "RECORDED_AT ASC":
		return "recorded_at ASC", nil
	default:
		return "", &ErrInvalidOrder{OrderBy: orderBy}
	}
}
