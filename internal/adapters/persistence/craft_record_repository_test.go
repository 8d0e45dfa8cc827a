package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
	"github.com/andrescamacho/colonycraft-go/test/helpers"
)

var start = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func completed(t *testing.T, runID string, taskID crafting.TaskID, agent string, at time.Time) *ledger.CraftRecord {
	t.Helper()
	record, err := ledger.NewCompletedRecord(runID, taskID, "stone_knife", shared.MustNewAgentID(agent),
		crafting.Item{ItemID: "stone_knife", Kind: crafting.ItemKindTool, Amount: 1, Durability: 100}, at)
	require.NoError(t, err)
	return record
}

func TestCraftRecordRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCraftRecordRepository(db)
	record := completed(t, "run-1", 1, "alice", start)

	// Act
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), record.ID())

	// Assert
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(record.ID()))
	assert.Equal(t, "run-1", found.RunID())
	assert.Equal(t, crafting.TaskID(1), found.TaskID())
	assert.True(t, found.AgentID().Equals(shared.MustNewAgentID("alice")))
	assert.Equal(t, ledger.OutcomeCompleted, found.Outcome())
	assert.Equal(t, crafting.ItemKindTool, found.ItemKind())
	assert.True(t, found.RecordedAt().Equal(start))
}

func TestCraftRecordRepository_CancelledWithoutAgentRoundTrips(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCraftRecordRepository(db)
	record, err := ledger.NewCancelledRecord("run-1", 2, "knife", shared.NoAgent, start)
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), record))
	found, err := repo.FindByID(context.Background(), record.ID())

	require.NoError(t, err)
	assert.True(t, found.AgentID().IsZero())
	assert.False(t, found.IsCompleted())
	assert.Empty(t, found.ItemID())
}

func TestCraftRecordRepository_NotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCraftRecordRepository(db)

	_, err := repo.FindByID(context.Background(), ledger.NewRecordID())

	var notFound *ledger.ErrRecordNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestCraftRecordRepository_ListFiltersAndPaginates(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCraftRecordRepository(db)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, completed(t, "run-1", crafting.TaskID(i+1), "alice", start.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, completed(t, "run-1", 6, "bob", start)))
	require.NoError(t, repo.Create(ctx, completed(t, "run-2", 1, "alice", start)))

	runID := "run-1"
	alice := shared.MustNewAgentID("alice")
	opts := ledger.DefaultQueryOptions()
	opts.RunID = &runID
	opts.AgentID = &alice
	opts.Limit = 2
	opts.Offset = 1

	// Act
	records, err := repo.List(ctx, opts)
	require.NoError(t, err)
	total, err := repo.Count(ctx, opts)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 5, total)
	require.Len(t, records, 2)
	// Newest first: tasks 5,4,3,... offset 1 skips task 5
	assert.Equal(t, crafting.TaskID(4), records[0].TaskID())
	assert.Equal(t, crafting.TaskID(3), records[1].TaskID())
}

func TestCraftRecordRepository_FilterByOutcomeAndDate(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCraftRecordRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, completed(t, "run-1", 1, "alice", start)))
	cancelled, err := ledger.NewCancelledRecord("run-1", 2, "stone_knife", shared.NoAgent, start.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, cancelled))

	outcome := ledger.OutcomeCancelled
	after := start.Add(time.Minute)
	opts := ledger.DefaultQueryOptions()
	opts.Outcome = &outcome
	opts.StartDate = &after

	// Act
	records, err := repo.List(ctx, opts)

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, crafting.TaskID(2), records[0].TaskID())
}

func TestCraftRecordRepository_ListRejectsUnknownOrdering(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCraftRecordRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, completed(t, "run-1", 1, "alice", start)))
	require.NoError(t, repo.Create(ctx, completed(t, "run-1", 2, "alice", start.Add(time.Minute))))

	opts := ledger.DefaultQueryOptions()
	opts.OrderBy = "recorded_at; DROP TABLE craft_records"
	ascending := ledger.DefaultQueryOptions()
	ascending.OrderBy = "recorded_at asc"

	// Act
	_, err := repo.List(ctx, opts)
	records, ascErr := repo.List(ctx, ascending)

	// Assert
	var invalid *ledger.ErrInvalidOrder
	assert.True(t, errors.As(err, &invalid))
	require.NoError(t, ascErr)
	require.Len(t, records, 2)
	assert.Equal(t, crafting.TaskID(1), records[0].TaskID())
}
