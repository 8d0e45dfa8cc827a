package logging

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// LogEntry is a log line kept in memory for the current run
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// RunLogger records the log lines of one simulation run. Every entry is kept
// in memory and written to the craft log repository under the run id.
type RunLogger struct {
	runID    string
	repo     persistence.CraftLogRepository
	clock    shared.Clock
	minLevel string
	timeout  time.Duration

	mu   sync.RWMutex
	logs []LogEntry
}

var _ common.Logger = (*RunLogger)(nil)

// NewRunLogger creates a run logger. Entries below minLevel are dropped.
// A nil repo keeps entries in memory only.
func NewRunLogger(runID string, repo persistence.CraftLogRepository, clock shared.Clock, minLevel string) *RunLogger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RunLogger{
		runID:    runID,
		repo:     repo,
		clock:    clock,
		minLevel: minLevel,
		timeout:  5 * time.Second,
	}
}

// RunID returns the run the logger writes under
func (r *RunLogger) RunID() string {
	return r.runID
}

// Log implements common.Logger
func (r *RunLogger) Log(level, message string, metadata map[string]interface{}) {
	if severity(level) < severity(r.minLevel) {
		return
	}

	entry := LogEntry{
		Timestamp: r.clock.Now(),
		Level:     level,
		Message:   message,
		Metadata:  metadata,
	}
	r.mu.Lock()
	r.logs = append(r.logs, entry)
	r.mu.Unlock()

	if r.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.repo.Log(ctx, r.runID, message, level, metadata); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] [%s] ERROR: failed to persist log: %v\n",
			r.clock.Now().Format(time.RFC3339), r.runID, err)
	}
}

// GetLogs returns the in-memory entries, optionally filtered by level and
// capped to the most recent limit entries
func (r *RunLogger) GetLogs(limit *int, level *string) []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := make([]LogEntry, 0, len(r.logs))
	for _, entry := range r.logs {
		if level != nil && entry.Level != *level {
			continue
		}
		filtered = append(filtered, entry)
	}
	if limit != nil && *limit >= 0 && len(filtered) > *limit {
		filtered = filtered[len(filtered)-*limit:]
	}
	return filtered
}

func severity(level string) int {
	lvl, _ := parseLevel(level)
	return int(lvl)
}
