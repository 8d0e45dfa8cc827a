package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/metrics"
	"github.com/andrescamacho/colonycraft-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/config"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/database"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/logging"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/simulation"
)

type simulateFlags struct {
	scenarioPath string
	recipesPath  string
	ticks        int
	rate         float64
	runID        string
}

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a colony scenario through the crafting core",
		Long: `Run a colony scenario tick by tick.

Each tick advances the simulated clock, applies scheduled deliveries and
construction, files the scenario's craft requests, lets idle colonists claim
queued tasks and executes the ones that finished. Crafts that lack
ingredients are parked and resume once deliveries cover them.

With database.enabled every finished task is written to the craft ledger
under the run id. With metrics.enabled a Prometheus endpoint is served for
the duration of the run.

Examples:
  colonycraft simulate
  colonycraft simulate --scenario configs/scenario.yaml --ticks 400
  colonycraft simulate --rate 20 --run-id riverside-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applySimulateFlags(cmd, cfg, flags)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, runID, err := runSimulation(ctx, cfg)
			if report != nil {
				displayReport(cmd.OutOrStdout(), runID, report)
			}
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Simulation interrupted")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&flags.scenarioPath, "scenario", "", "Scenario file (overrides simulation.scenario_path)")
	cmd.Flags().StringVar(&flags.recipesPath, "recipes", "", "Recipe catalog file (overrides crafting.recipes_path)")
	cmd.Flags().IntVar(&flags.ticks, "ticks", 0, "Number of ticks (overrides simulation.ticks)")
	cmd.Flags().Float64Var(&flags.rate, "rate", 0, "Ticks per second, 0 = unpaced (overrides simulation.tick_rate_hz)")
	cmd.Flags().StringVar(&flags.runID, "run-id", "", "Ledger run id (default: generated)")

	return cmd
}

func applySimulateFlags(cmd *cobra.Command, cfg *config.Config, flags simulateFlags) {
	if flags.scenarioPath != "" {
		cfg.Simulation.ScenarioPath = flags.scenarioPath
	}
	if flags.recipesPath != "" {
		cfg.Crafting.RecipesPath = flags.recipesPath
	}
	if flags.ticks > 0 {
		cfg.Simulation.Ticks = flags.ticks
	}
	if cmd.Flags().Changed("rate") {
		cfg.Simulation.TickRateHz = flags.rate
	}
	if flags.runID != "" {
		cfg.Simulation.RunID = flags.runID
	}
}

// runSimulation wires the crafting core to the configured infrastructure and
// runs the scenario. The report is returned even when the run stopped early.
func runSimulation(ctx context.Context, cfg *config.Config) (*simulation.Report, string, error) {
	runID := cfg.Simulation.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	if cfg.Simulation.PIDFile != "" {
		lock := pidfile.New(cfg.Simulation.PIDFile)
		if err := lock.Acquire(); err != nil {
			return nil, runID, err
		}
		defer lock.Release()
	}

	cat, err := loadCatalog(cfg.Crafting.RecipesPath)
	if err != nil {
		return nil, runID, err
	}
	scenario, err := simulation.LoadScenario(cfg.Simulation.ScenarioPath)
	if err != nil {
		return nil, runID, err
	}

	console, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, runID, err
	}
	defer console.Close()
	var logger common.Logger = console

	envCfg := simulation.EnvironmentConfig{
		Options: craftingOptions(cfg.Crafting),
		RunID:   runID,
	}

	if cfg.Database.Enabled {
		db, err := openDatabase(&cfg.Database)
		if err != nil {
			return nil, runID, err
		}
		defer database.Close(db)

		envCfg.Ledger = persistence.NewGormCraftRecordRepository(db)
		if cfg.Logging.Persist {
			clock := shared.NewRealClock()
			runLogger := logging.NewRunLogger(runID, persistence.NewGormCraftLogRepository(db, clock), clock, cfg.Logging.Level)
			logger = logging.Tee(console, runLogger)
		}
	} else if cfg.Logging.Persist {
		logger.Log(common.LevelWarn, "[Simulate] logging.persist ignored: database.enabled is false", nil)
	}
	envCfg.Logger = logger

	if cfg.Metrics.Enabled {
		server, recorder, middleware, err := startMetrics(cfg.Metrics, logger)
		if err != nil {
			return nil, runID, err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
			metrics.ResetRegistry()
		}()
		envCfg.Metrics = recorder
		envCfg.Middlewares = append(envCfg.Middlewares, middleware)
	}

	env, err := simulation.NewEnvironment(ctx, scenario, cat.Recipes, envCfg)
	if err != nil {
		return nil, runID, err
	}
	defer env.Close()

	runner, err := env.Runner(scenario, simulation.Options{
		TickDuration: cfg.Simulation.TickDuration,
		Ticks:        cfg.Simulation.Ticks,
		TickRateHz:   cfg.Simulation.TickRateHz,
	})
	if err != nil {
		return nil, runID, err
	}
	defer runner.Close()

	logger.Log(common.LevelInfo, fmt.Sprintf("[Simulate] Run %s: %d recipes from %s", runID, len(cat.Recipes), cat.Source), map[string]interface{}{
		"digest": cat.Digest,
	})

	report, err := runner.Run(ctx)
	return report, runID, err
}

func startMetrics(cfg config.MetricsConfig, logger common.Logger) (*metrics.Server, crafting.MetricsRecorder, common.Middleware, error) {
	metrics.InitRegistry()

	crafts := metrics.NewCraftingMetricsCollector()
	if err := crafts.Register(); err != nil {
		metrics.ResetRegistry()
		return nil, nil, nil, fmt.Errorf("failed to register crafting metrics: %w", err)
	}
	commandMetrics := metrics.NewCommandMetricsCollector()
	if err := commandMetrics.Register(); err != nil {
		metrics.ResetRegistry()
		return nil, nil, nil, fmt.Errorf("failed to register command metrics: %w", err)
	}

	server, err := metrics.NewServer(cfg.Host, cfg.Port, cfg.Path)
	if err != nil {
		metrics.ResetRegistry()
		return nil, nil, nil, err
	}
	if err := server.Start(); err != nil {
		metrics.ResetRegistry()
		return nil, nil, nil, err
	}
	logger.Log(common.LevelInfo, fmt.Sprintf("[Simulate] Serving metrics on http://%s%s", server.Addr(), cfg.Path), nil)

	return server, crafts, metrics.PrometheusMiddleware(commandMetrics), nil
}

// displayReport formats and displays a simulation report
func displayReport(out io.Writer, runID string, report *simulation.Report) {
	fmt.Fprintf(out, "\nSIMULATION REPORT (run %s, %d ticks)\n", runID, report.Ticks)
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "  Requested:        %d\n", report.Requested)
	fmt.Fprintf(out, "  Queued:           %d\n", report.Queued)
	fmt.Fprintf(out, "  Parked:           %d\n", report.Parked)
	fmt.Fprintf(out, "  Resumed:          %d\n", report.Resumed)
	fmt.Fprintf(out, "  Completed:        %d\n", report.Completed)
	fmt.Fprintf(out, "  Failed:           %d\n", report.Failed)
	fmt.Fprintf(out, "  Gather Requests:  %d\n", report.GatherRequests)
	fmt.Fprintf(out, "  Delivered:        %d\n", report.Delivered)
	fmt.Fprintf(out, "  Open Tasks:       %d\n", report.OpenTasks)
	fmt.Fprintf(out, "  Pending Crafts:   %d\n", report.PendingCrafts)

	if len(report.Produced) > 0 {
		fmt.Fprintln(out, "\nPRODUCED")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Tick\tTask\tAgent\tItem\tKind\tDurability")
		fmt.Fprintln(w, "────\t────\t─────\t────\t────\t──────────")
		for _, p := range report.Produced {
			durability := "-"
			if p.Item.Durability > 0 {
				durability = fmt.Sprintf("%d", p.Item.Durability)
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%dx %s\t%s\t%s\n",
				p.Tick,
				p.TaskID,
				p.AgentID,
				p.Item.Amount,
				p.Item.ItemID,
				p.Item.Kind,
				durability,
			)
		}
		w.Flush()
	}
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
}
