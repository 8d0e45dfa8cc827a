package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// CraftLogRepository manages persisted crafting log lines
type CraftLogRepository interface {
	// Log writes a log entry to the database with deduplication
	Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves logs for a run, newest first, with optional filtering
	GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]CraftLogEntry, error)
}

// CraftLogEntry represents a log entry
type CraftLogEntry struct {
	ID        int
	RunID     string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormCraftLogRepository is a GORM-based implementation
type GormCraftLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: runID|message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// DefaultLogDedupWindow suppresses identical messages of one run for this long
const DefaultLogDedupWindow = 60 * time.Second

// NewGormCraftLogRepository creates a new craft log repository.
// If clock is nil, uses RealClock.
func NewGormCraftLogRepository(db *gorm.DB, clock shared.Clock) *GormCraftLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormCraftLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  DefaultLogDedupWindow,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry with time-windowed deduplication
func (r *GormCraftLogRepository) Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := runID + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	// Metadata is optional; an unencodable map is dropped rather than failing the write
	var metadataJSON string
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(raw)
		}
	}

	return r.db.WithContext(ctx).Create(&CraftLogModel{
		RunID:     runID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}).Error
}

// cleanupDedupCache removes entries older than the window.
// Must be called while holding dedupMu.
func (r *GormCraftLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs for a run with pagination support
func (r *GormCraftLogRepository) GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]CraftLogEntry, error) {
	query := r.db.WithContext(ctx).Where("run_id = ?", runID)

	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}

	query = query.Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []CraftLogModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]CraftLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}

		entries[i] = CraftLogEntry{
			ID:        model.ID,
			RunID:     model.RunID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}
