package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// RecordID is a value object representing a ledger record's unique identifier
type RecordID struct {
	value string
}

// NewRecordID creates a new RecordID with a generated UUID
func NewRecordID() RecordID {
	return RecordID{value: uuid.New().String()}
}

// NewRecordIDFromString creates a RecordID from an existing UUID string
func NewRecordIDFromString(id string) (RecordID, error) {
	if id == "" {
		return RecordID{}, fmt.Errorf("record_id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return RecordID{}, fmt.Errorf("invalid record_id format: %w", err)
	}

	return RecordID{value: id}, nil
}

// MustNewRecordIDFromString creates a RecordID from a string, panicking if invalid.
// Use this only for ids read back from the database.
func MustNewRecordIDFromString(id string) RecordID {
	rid, err := NewRecordIDFromString(id)
	if err != nil {
		panic(err)
	}
	return rid
}

func (r RecordID) Value() string              { return r.value }
func (r RecordID) String() string             { return r.value }
func (r RecordID) Equals(other RecordID) bool { return r.value == other.value }
func (r RecordID) IsZero() bool               { return r.value == "" }
