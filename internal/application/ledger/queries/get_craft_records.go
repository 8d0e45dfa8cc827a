package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// GetCraftRecordsQuery represents a query to retrieve craft ledger records
type GetCraftRecordsQuery struct {
	RunID     *string
	AgentID   *string
	RecipeID  *string
	Outcome   *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
	OrderBy   string
}

// GetCraftRecordsResponse represents the result of the query
type GetCraftRecordsResponse struct {
	Records []*CraftRecordDTO
	Total   int
}

// CraftRecordDTO represents a craft record data transfer object
type CraftRecordDTO struct {
	ID         string
	RunID      string
	TaskID     int64
	RecipeID   string
	AgentID    string
	Outcome    string
	ItemID     string
	ItemKind   string
	Amount     int
	RecordedAt time.Time
}

// GetCraftRecordsHandler handles the GetCraftRecords query
type GetCraftRecordsHandler struct {
	recordRepo ledger.CraftRecordRepository
}

// NewGetCraftRecordsHandler creates a new GetCraftRecordsHandler
func NewGetCraftRecordsHandler(recordRepo ledger.CraftRecordRepository) *GetCraftRecordsHandler {
	return &GetCraftRecordsHandler{recordRepo: recordRepo}
}

// Handle executes the GetCraftRecords query
func (h *GetCraftRecordsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetCraftRecordsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCraftRecordsQuery")
	}

	opts, err := h.buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	records, err := h.recordRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query craft records: %w", err)
	}

	total, err := h.recordRepo.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count craft records: %w", err)
	}

	dtos := make([]*CraftRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = toDTO(r)
	}

	return &GetCraftRecordsResponse{
		Records: dtos,
		Total:   total,
	}, nil
}

func (h *GetCraftRecordsHandler) buildQueryOptions(query *GetCraftRecordsQuery) (ledger.QueryOptions, error) {
	opts := ledger.DefaultQueryOptions()

	opts.RunID = query.RunID
	opts.StartDate = query.StartDate
	opts.EndDate = query.EndDate

	if query.AgentID != nil {
		agentID, err := shared.NewAgentID(*query.AgentID)
		if err != nil {
			return opts, fmt.Errorf("invalid agent ID: %w", err)
		}
		opts.AgentID = &agentID
	}

	if query.RecipeID != nil {
		recipeID := crafting.RecipeID(*query.RecipeID)
		opts.RecipeID = &recipeID
	}

	if query.Outcome != nil {
		outcome, err := ledger.ParseOutcome(*query.Outcome)
		if err != nil {
			return opts, fmt.Errorf("invalid outcome: %w", err)
		}
		opts.Outcome = &outcome
	}

	// Pagination
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	if query.Offset > 0 {
		opts.Offset = query.Offset
	}

	// Sorting
	if query.OrderBy != "" {
		orderBy, err := ledger.NormalizeOrderBy(query.OrderBy)
		if err != nil {
			return opts, err
		}
		opts.OrderBy = orderBy
	}

	return opts, nil
}

func toDTO(r *ledger.CraftRecord) *CraftRecordDTO {
	return &CraftRecordDTO{
		ID:         r.ID().String(),
		RunID:      r.RunID(),
		TaskID:     int64(r.TaskID()),
		RecipeID:   string(r.RecipeID()),
		AgentID:    r.AgentID().String(),
		Outcome:    r.Outcome().String(),
		ItemID:     r.ItemID(),
		ItemKind:   string(r.ItemKind()),
		Amount:     r.Amount(),
		RecordedAt: r.RecordedAt(),
	}
}
