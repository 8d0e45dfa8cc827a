package ledger

import "fmt"

// ErrInvalidRecord represents validation errors for craft records
type ErrInvalidRecord struct {
	Field  string
	Reason string
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid craft record: %s - %s", e.Field, e.Reason)
}

// ErrRecordNotFound represents errors when a craft record cannot be found
type ErrRecordNotFound struct {
	ID string
}

func (e *ErrRecordNotFound) Error() string {
	return fmt.Sprintf("craft record not found: id=%s", e.ID)
}

// ErrInvalidOrder rejects an ordering other than recorded_at ASC or DESC
type ErrInvalidOrder struct {
	OrderBy string
}

func (e *ErrInvalidOrder) Error() string {
	return fmt.Sprintf("invalid order: %q (want \"recorded_at ASC\" or \"recorded_at DESC\")", e.OrderBy)
}
