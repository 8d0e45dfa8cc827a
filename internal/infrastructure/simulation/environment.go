package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/colony"
	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	appCrafting "github.com/andrescamacho/colonycraft-go/internal/application/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/application/crafting/commands"
	"github.com/andrescamacho/colonycraft-go/internal/application/events"
	appLedger "github.com/andrescamacho/colonycraft-go/internal/application/ledger"
	ledgerCommands "github.com/andrescamacho/colonycraft-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/colonycraft-go/internal/application/ledger/queries"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/ledger"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

// EnvironmentConfig collects the optional infrastructure of a run
type EnvironmentConfig struct {
	Options     appCrafting.Options
	Start       time.Time
	Logger      common.Logger
	Metrics     crafting.MetricsRecorder
	Middlewares []common.Middleware

	// Ledger, when set, records every finished task under RunID
	Ledger ledger.CraftRecordRepository
	RunID  string
}

// Environment is a fully wired colony: bus, collaborators, crafting core and
// mediator with the craft and ledger handlers registered
type Environment struct {
	Bus      *events.NotificationBus
	Colony   *colony.Colony
	Clock    *shared.ManualClock
	System   *appCrafting.CraftingSystem
	Mediator common.Mediator
	Recorder *appLedger.Recorder
	Logger   common.Logger
}

// NewEnvironment populates a colony from the scenario and registers recipes
// in order. Duplicate recipe ids are logged and skipped.
func NewEnvironment(ctx context.Context, scenario *Scenario, recipes []crafting.Recipe, cfg EnvironmentConfig) (*Environment, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = common.NoOpLogger()
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	bus := events.NewNotificationBus()
	clock := shared.NewManualClock(start)
	c := colony.NewColony(bus, clock)
	if err := scenario.Populate(c); err != nil {
		return nil, err
	}

	system := appCrafting.NewCraftingSystem(appCrafting.Context{
		Bus:       bus,
		Agents:    c.Roster,
		Buildings: c.Settlement,
		Storage:   c.Storage,
		Gatherer:  c.Gather,
		Metrics:   cfg.Metrics,
		Logger:    logger,
		Clock:     clock,
		Options:   cfg.Options,
	})
	for _, recipe := range recipes {
		system.RegisterRecipe(recipe)
	}

	med := common.NewMediator()
	for _, mw := range cfg.Middlewares {
		med.Use(mw)
	}
	if err := common.RegisterHandler[*commands.RequestCraftCommand](med, commands.NewRequestCraftHandler(system)); err != nil {
		return nil, fmt.Errorf("failed to register RequestCraft handler: %w", err)
	}
	if err := common.RegisterHandler[*commands.ExecuteCraftCommand](med, commands.NewExecuteCraftHandler(system)); err != nil {
		return nil, fmt.Errorf("failed to register ExecuteCraft handler: %w", err)
	}

	env := &Environment{
		Bus:      bus,
		Colony:   c,
		Clock:    clock,
		System:   system,
		Mediator: med,
		Logger:   logger,
	}

	if cfg.Ledger != nil {
		if err := common.RegisterHandler[*ledgerCommands.RecordCraftCommand](med, ledgerCommands.NewRecordCraftHandler(cfg.Ledger, clock)); err != nil {
			return nil, fmt.Errorf("failed to register RecordCraft handler: %w", err)
		}
		if err := common.RegisterHandler[*ledgerQueries.GetCraftRecordsQuery](med, ledgerQueries.NewGetCraftRecordsHandler(cfg.Ledger)); err != nil {
			return nil, fmt.Errorf("failed to register GetCraftRecords handler: %w", err)
		}
		env.Recorder = appLedger.NewRecorder(common.WithLogger(ctx, logger), bus, med, cfg.RunID)
	}

	return env, nil
}

// Runner builds a runner over this environment
func (e *Environment) Runner(scenario *Scenario, opts Options) (*Runner, error) {
	return NewRunner(Deps{
		System:   e.System,
		Colony:   e.Colony,
		Mediator: e.Mediator,
		Clock:    e.Clock,
		Logger:   e.Logger,
		Bus:      e.Bus,
	}, scenario, opts)
}

// Close detaches the crafting core and the ledger recorder from the bus
func (e *Environment) Close() {
	if e.Recorder != nil {
		e.Recorder.Close()
	}
	e.System.Close()
}
