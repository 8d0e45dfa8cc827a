package persistence

import (
	"time"
)

// CraftRecordModel represents the craft_records table
type CraftRecordModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	RunID      string    `gorm:"column:run_id;not null;index:idx_craft_records_run"`
	TaskID     int64     `gorm:"column:task_id;not null"`
	RecipeID   string    `gorm:"column:recipe_id;not null;index"`
	AgentID    string    `gorm:"column:agent_id;index"`
	Outcome    string    `gorm:"column:outcome;not null"`
	ItemID     string    `gorm:"column:item_id"`
	ItemKind   string    `gorm:"column:item_kind"`
	Amount     int       `gorm:"column:amount;default:0"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index:idx_craft_records_run"`
}

func (CraftRecordModel) TableName() string {
	return "craft_records"
}

// CraftLogModel represents the craft_logs table
type CraftLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON-encoded, empty when absent
}

func (CraftLogModel) TableName() string {
	return "craft_logs"
}

// AllModels lists every model the schema migration creates
func AllModels() []interface{} {
	return []interface{}{
		&CraftRecordModel{},
		&CraftLogModel{},
	}
}
