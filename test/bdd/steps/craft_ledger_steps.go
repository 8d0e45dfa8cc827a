package steps

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/catalog"
	"github.com/andrescamacho/colonycraft-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/simulation"
	"github.com/andrescamacho/colonycraft-go/test/helpers"
)

// craftLedgerContext holds state for simulation runs that write the craft ledger
type craftLedgerContext struct {
	recipes  []crafting.Recipe
	scenario *simulation.Scenario
	repo     *persistence.GormCraftRecordRepository
	report   *simulation.Report
}

func (lc *craftLedgerContext) reset() error {
	lc.recipes = nil
	lc.scenario = nil
	lc.report = nil
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	lc.repo = persistence.NewGormCraftRecordRepository(helpers.SharedTestDB)
	return nil
}

func InitializeCraftLedgerScenario(ctx *godog.ScenarioContext) {
	lc := &craftLedgerContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		return c, lc.reset()
	})

	ctx.Step(`^the shipped recipe catalog$`, lc.theShippedRecipeCatalog)
	ctx.Step(`^the scenario:$`, lc.theScenario)
	ctx.Step(`^run "([^"]*)" simulates (\d+) ticks of "([^"]*)"$`, lc.runSimulatesTicksOf)
	ctx.Step(`^the report should show (\d+) completed and (\d+) parked$`, lc.theReportShouldShowCompletedAndParked)
	ctx.Step(`^the ledger for run "([^"]*)" should hold (\d+) ([A-Z]+) records?$`, lc.theLedgerForRunShouldHoldRecords)
	ctx.Step(`^the ledger for run "([^"]*)" should hold a record of "([^"]*)" by "([^"]*)"$`, lc.theLedgerForRunShouldHoldARecordOfBy)
}

func (lc *craftLedgerContext) theShippedRecipeCatalog() error {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return fmt.Errorf("cannot locate step definitions")
	}
	loader, err := catalog.NewLoader()
	if err != nil {
		return err
	}
	cat, err := loader.LoadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "configs", "recipes.yaml"))
	if err != nil {
		return err
	}
	lc.recipes = cat.Recipes
	return nil
}

func (lc *craftLedgerContext) theScenario(doc *godog.DocString) error {
	scenario, err := simulation.ParseScenario([]byte(doc.Content))
	if err != nil {
		return err
	}
	lc.scenario = scenario
	return nil
}

func (lc *craftLedgerContext) runSimulatesTicksOf(runID string, ticks int, tick string) error {
	if lc.scenario == nil {
		return fmt.Errorf("no scenario given")
	}
	tickDuration, err := time.ParseDuration(tick)
	if err != nil {
		return err
	}

	ctx := context.Background()
	env, err := simulation.NewEnvironment(ctx, lc.scenario, lc.recipes, simulation.EnvironmentConfig{
		Ledger: lc.repo,
		RunID:  runID,
	})
	if err != nil {
		return err
	}
	defer env.Close()

	runner, err := env.Runner(lc.scenario, simulation.Options{TickDuration: tickDuration, Ticks: ticks})
	if err != nil {
		return err
	}
	defer runner.Close()

	lc.report, err = runner.Run(ctx)
	return err
}

func (lc *craftLedgerContext) theReportShouldShowCompletedAndParked(completed, parked int) error {
	if lc.report == nil {
		return fmt.Errorf("nothing was simulated")
	}
	if lc.report.Completed != completed || lc.report.Parked != parked {
		return fmt.Errorf("expected %d completed and %d parked, got %d and %d",
			completed, parked, lc.report.Completed, lc.report.Parked)
	}
	return nil
}

func (lc *craftLedgerContext) records(runID string, outcome ledger.Outcome) ([]*ledger.CraftRecord, error) {
	opts := ledger.DefaultQueryOptions()
	opts.RunID = &runID
	opts.Outcome = &outcome
	return lc.repo.List(context.Background(), opts)
}

func (lc *craftLedgerContext) theLedgerForRunShouldHoldRecords(runID string, n int, outcome string) error {
	parsed, err := ledger.ParseOutcome(outcome)
	if err != nil {
		return err
	}
	records, err := lc.records(runID, parsed)
	if err != nil {
		return err
	}
	if len(records) != n {
		return fmt.Errorf("expected %d %s records for %s, got %d", n, outcome, runID, len(records))
	}
	return nil
}

func (lc *craftLedgerContext) theLedgerForRunShouldHoldARecordOfBy(runID, recipeID, agent string) error {
	records, err := lc.records(runID, ledger.OutcomeCompleted)
	if err != nil {
		return err
	}
	agentID, err := shared.NewAgentID(agent)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.RecipeID() == crafting.RecipeID(recipeID) && r.AgentID().Equals(agentID) {
			return nil
		}
	}
	return fmt.Errorf("no %s record by %s in run %s", recipeID, agent, runID)
}
