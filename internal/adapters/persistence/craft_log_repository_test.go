package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
	"github.com/andrescamacho/colonycraft-go/test/helpers"
)

func TestCraftLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewManualClock(start)
	repo := persistence.NewGormCraftLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "run-1", "[Resolver] knife not craftable", "DEBUG", nil))
	clock.Advance(30 * time.Second)
	require.NoError(t, repo.Log(ctx, "run-1", "[Resolver] knife not craftable", "DEBUG", nil))
	require.NoError(t, repo.Log(ctx, "run-2", "[Resolver] knife not craftable", "DEBUG", nil))
	clock.Advance(persistence.DefaultLogDedupWindow)
	require.NoError(t, repo.Log(ctx, "run-1", "[Resolver] knife not craftable", "DEBUG", nil))

	// Assert
	run1, err := repo.GetLogs(ctx, "run-1", 10, 0, nil, nil)
	require.NoError(t, err)
	run2, err := repo.GetLogs(ctx, "run-2", 10, 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, run1, 2)
	assert.Len(t, run2, 1)
}

func TestCraftLogRepository_FiltersAndKeepsMetadata(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewManualClock(start)
	repo := persistence.NewGormCraftLogRepository(db, clock)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, "run-1", "queued", "INFO", map[string]interface{}{"task_id": 1}))
	clock.Advance(time.Second)
	require.NoError(t, repo.Log(ctx, "run-1", "lost ingredients", "WARN", nil))
	clock.Advance(time.Second)
	require.NoError(t, repo.Log(ctx, "run-1", "queued again", "INFO", nil))

	// Act
	level := "INFO"
	infos, err := repo.GetLogs(ctx, "run-1", 10, 0, &level, nil)
	require.NoError(t, err)
	since := start.Add(500 * time.Millisecond)
	recent, err := repo.GetLogs(ctx, "run-1", 1, 0, nil, &since)
	require.NoError(t, err)

	// Assert
	require.Len(t, infos, 2)
	assert.Equal(t, "queued again", infos[0].Message)
	assert.Equal(t, float64(1), infos[1].Metadata["task_id"])
	require.Len(t, recent, 1)
	assert.Equal(t, "queued again", recent[0].Message)
}
