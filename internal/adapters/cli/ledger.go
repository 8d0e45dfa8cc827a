package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonycraft-go/internal/application/ledger/queries"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/database"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Craft ledger operations",
		Long: `View the craft ledger written by simulation runs.

Every crafting task that ends is recorded with its outcome: COMPLETED when it
manufactured an item, CANCELLED when it was removed (including crafts parked
for missing ingredients). Runs with logging.persist enabled also store their
log lines.

Requires database.enabled in the configuration.

Examples:
  colonycraft ledger list --run riverside-1
  colonycraft ledger list --agent alice --outcome COMPLETED --limit 20
  colonycraft ledger list --start-date 2030-01-01 --end-date 2030-01-31
  colonycraft ledger logs --run riverside-1 --level WARN`,
	}

	cmd.AddCommand(newLedgerListCommand())
	cmd.AddCommand(newLedgerLogsCommand())

	return cmd
}

type ledgerListFlags struct {
	runID     string
	agentID   string
	recipeID  string
	outcome   string
	startDate string
	endDate   string
	limit     int
	offset    int
	orderBy   string
}

// newLedgerListCommand creates the ledger list subcommand
func newLedgerListCommand() *cobra.Command {
	var flags ledgerListFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List craft records",
		Long: `List craft records with optional filtering.

Records are ordered by time descending (newest first) by default.

Outcomes:
  COMPLETED  - The task manufactured its result item
  CANCELLED  - The task was removed without a result

Order:
  "recorded_at DESC" (default) or "recorded_at ASC"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedgerList(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.runID, "run", "", "Filter by simulation run id")
	cmd.Flags().StringVar(&flags.agentID, "agent", "", "Filter by crafting agent")
	cmd.Flags().StringVar(&flags.recipeID, "recipe", "", "Filter by recipe id")
	cmd.Flags().StringVar(&flags.outcome, "outcome", "", "Filter by outcome (COMPLETED, CANCELLED)")
	cmd.Flags().StringVar(&flags.startDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.endDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&flags.limit, "limit", 50, "Maximum number of records to return")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Number of records to skip")
	cmd.Flags().StringVar(&flags.orderBy, "order-by", "recorded_at DESC", "Sort order")

	return cmd
}

// newLedgerLogsCommand creates the ledger logs subcommand
func newLedgerLogsCommand() *cobra.Command {
	var (
		runID string
		level string
		limit int
		since time.Duration
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show persisted log lines of a run",
		Long: `Show the log lines a simulation run persisted, newest first.

Only runs started with logging.persist enabled store their logs.

Examples:
  colonycraft ledger logs --run riverside-1
  colonycraft ledger logs --run riverside-1 --level ERROR --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID == "" {
				return fmt.Errorf("--run flag is required")
			}
			return runLedgerLogs(cmd.Context(), cmd.OutOrStdout(), runID, level, limit, since)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Simulation run id [required]")
	cmd.Flags().StringVar(&level, "level", "", "Filter by level (DEBUG, INFO, WARN, ERROR)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of lines to return")
	cmd.Flags().DurationVar(&since, "since", 0, "Only lines newer than this (e.g. 1h)")

	return cmd
}

// runLedgerList executes the ledger list command
func runLedgerList(ctx context.Context, out io.Writer, flags ledgerListFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	start, end, err := parseDateRange(flags.startDate, flags.endDate)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("the craft ledger needs database.enabled")
	}

	db, err := openDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	handler := queries.NewGetCraftRecordsHandler(persistence.NewGormCraftRecordRepository(db))

	result, err := handler.Handle(ctx, &queries.GetCraftRecordsQuery{
		RunID:     optional(flags.runID),
		AgentID:   optional(flags.agentID),
		RecipeID:  optional(flags.recipeID),
		Outcome:   optional(flags.outcome),
		StartDate: start,
		EndDate:   end,
		Limit:     flags.limit,
		Offset:    flags.offset,
		OrderBy:   flags.orderBy,
	})
	if err != nil {
		return fmt.Errorf("failed to query craft records: %w", err)
	}

	displayCraftRecords(out, result.(*queries.GetCraftRecordsResponse))
	return nil
}

// runLedgerLogs executes the ledger logs command
func runLedgerLogs(ctx context.Context, out io.Writer, runID, level string, limit int, since time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("persisted logs need database.enabled")
	}

	db, err := openDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	clock := shared.NewRealClock()
	repo := persistence.NewGormCraftLogRepository(db, clock)

	var sinceTime *time.Time
	if since > 0 {
		t := clock.Now().Add(-since)
		sinceTime = &t
	}

	entries, err := repo.GetLogs(ctx, runID, limit, 0, optional(level), sinceTime)
	if err != nil {
		return fmt.Errorf("failed to query logs: %w", err)
	}

	displayLogEntries(out, runID, entries)
	return nil
}

// displayCraftRecords formats and displays craft records
func displayCraftRecords(out io.Writer, response *queries.GetCraftRecordsResponse) {
	if len(response.Records) == 0 {
		fmt.Fprintln(out, "No craft records found")
		return
	}

	fmt.Fprintf(out, "\nCRAFT RECORDS (Showing %d of %d total)\n", len(response.Records), response.Total)
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Recorded\tRun\tTask\tRecipe\tAgent\tOutcome\tItem")
	fmt.Fprintln(w, "────────\t───\t────\t──────\t─────\t───────\t────")

	for _, r := range response.Records {
		agent := r.AgentID
		if agent == "" {
			agent = "-"
		}
		item := "-"
		if r.ItemID != "" {
			item = fmt.Sprintf("%dx %s [%s]", r.Amount, r.ItemID, r.ItemKind)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.RecordedAt.Format("2006-01-02 15:04:05"),
			r.RunID,
			r.TaskID,
			r.RecipeID,
			agent,
			r.Outcome,
			item,
		)
	}

	w.Flush()
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "Total: %d records\n\n", response.Total)
}

// displayLogEntries formats and displays persisted log lines
func displayLogEntries(out io.Writer, runID string, entries []persistence.CraftLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(out, "No logs found for run %s\n", runID)
		return
	}

	fmt.Fprintf(out, "\nLOGS for %s (%d lines)\n", runID, len(entries))
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(out, "%s [%-5s] %s", e.Timestamp.Format("15:04:05.000"), e.Level, e.Message)
		if verbose && len(e.Metadata) > 0 {
			fmt.Fprintf(out, " %v", e.Metadata)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}
