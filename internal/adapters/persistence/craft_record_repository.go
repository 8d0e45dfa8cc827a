package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// GormCraftRecordRepository implements CraftRecordRepository using GORM
type GormCraftRecordRepository struct {
	db *gorm.DB
}

// Compile-time interface check
var _ ledger.CraftRecordRepository = (*GormCraftRecordRepository)(nil)

// NewGormCraftRecordRepository creates a new GORM craft record repository
func NewGormCraftRecordRepository(db *gorm.DB) *GormCraftRecordRepository {
	return &GormCraftRecordRepository{db: db}
}

// Create persists a new record
func (r *GormCraftRecordRepository) Create(ctx context.Context, record *ledger.CraftRecord) error {
	if err := r.db.WithContext(ctx).Create(recordToModel(record)).Error; err != nil {
		return fmt.Errorf("failed to create craft record: %w", err)
	}
	return nil
}

// FindByID retrieves a record by its ID
func (r *GormCraftRecordRepository) FindByID(ctx context.Context, id ledger.RecordID) (*ledger.CraftRecord, error) {
	var model CraftRecordModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &ledger.ErrRecordNotFound{ID: id.String()}
		}
		return nil, fmt.Errorf("failed to find craft record: %w", result.Error)
	}

	return modelToRecord(&model)
}

// List retrieves records with optional filtering
func (r *GormCraftRecordRepository) List(ctx context.Context, opts ledger.QueryOptions) ([]*ledger.CraftRecord, error) {
	orderBy, err := ledger.NormalizeOrderBy(opts.OrderBy)
	if err != nil {
		return nil, err
	}
	query := applyRecordFilters(r.db.WithContext(ctx), opts)

	// Task ids break ties between records written in the same instant
	query = query.Order(orderBy).Order("task_id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []CraftRecordModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list craft records: %w", err)
	}

	records := make([]*ledger.CraftRecord, len(models))
	for i := range models {
		record, err := modelToRecord(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert craft record model: %w", err)
		}
		records[i] = record
	}
	return records, nil
}

// Count returns the number of records matching the criteria
func (r *GormCraftRecordRepository) Count(ctx context.Context, opts ledger.QueryOptions) (int, error) {
	query := applyRecordFilters(r.db.WithContext(ctx).Model(&CraftRecordModel{}), opts)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count craft records: %w", err)
	}
	return int(count), nil
}

func applyRecordFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.RunID != nil {
		query = query.Where("run_id = ?", *opts.RunID)
	}
	if opts.AgentID != nil {
		query = query.Where("agent_id = ?", opts.AgentID.String())
	}
	if opts.RecipeID != nil {
		query = query.Where("recipe_id = ?", string(*opts.RecipeID))
	}
	if opts.Outcome != nil {
		query = query.Where("outcome = ?", opts.Outcome.String())
	}

	// Date range filtering
	if opts.StartDate != nil {
		query = query.Where("recorded_at >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("recorded_at <= ?", *opts.EndDate)
	}
	return query
}

func modelToRecord(model *CraftRecordModel) (*ledger.CraftRecord, error) {
	id, err := ledger.NewRecordIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID in database: %w", err)
	}

	outcome, err := ledger.ParseOutcome(model.Outcome)
	if err != nil {
		return nil, fmt.Errorf("invalid outcome in database: %w", err)
	}

	agentID := shared.NoAgent
	if model.AgentID != "" {
		if agentID, err = shared.NewAgentID(model.AgentID); err != nil {
			return nil, fmt.Errorf("invalid agent ID in database: %w", err)
		}
	}

	return ledger.ReconstructCraftRecord(
		id,
		model.RunID,
		crafting.TaskID(model.TaskID),
		crafting.RecipeID(model.RecipeID),
		agentID,
		outcome,
		model.ItemID,
		crafting.ItemKind(model.ItemKind),
		model.Amount,
		model.RecordedAt,
	), nil
}

func recordToModel(record *ledger.CraftRecord) *CraftRecordModel {
	return &CraftRecordModel{
		ID:         record.ID().String(),
		RunID:      record.RunID(),
		TaskID:     int64(record.TaskID()),
		RecipeID:   string(record.RecipeID()),
		AgentID:    record.AgentID().String(),
		Outcome:    record.Outcome().String(),
		ItemID:     record.ItemID(),
		ItemKind:   string(record.ItemKind()),
		Amount:     record.Amount(),
		RecordedAt: record.RecordedAt(),
	}
}
