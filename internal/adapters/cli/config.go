package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect ColonyCraft configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (CC_* prefix, DATABASE_URL)
2. Config file (colonycraft.yaml)
3. Default values

Examples:
  colonycraft config show
  colonycraft config show --json
  CC_CRAFTING_POLL_INTERVAL=1s colonycraft config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration after defaults and overrides.

Passwords in database URLs are masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				masked := *cfg
				masked.Database.URL = maskPassword(masked.Database.URL)
				if masked.Database.Password != "" {
					masked.Database.Password = "xxxxx"
				}
				fmt.Fprintln(out, prettyPrint(masked))
				return nil
			}

			displayConfig(out, cfg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the configuration as JSON")

	return cmd
}

func displayConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "ColonyCraft Configuration")
	fmt.Fprintln(out, "=========================")

	fmt.Fprintln(out, "\nCrafting:")
	fmt.Fprintf(out, "  Poll Interval:    %s\n", cfg.Crafting.PollInterval)
	fmt.Fprintf(out, "  Progress Rate:    %.2f /s\n", cfg.Crafting.ProgressRate)
	if cfg.Crafting.MaxActivePerAgent > 0 {
		fmt.Fprintf(out, "  Max Active/Agent: %d\n", cfg.Crafting.MaxActivePerAgent)
	} else {
		fmt.Fprintf(out, "  Max Active/Agent: unlimited\n")
	}
	fmt.Fprintf(out, "  Recipes:          %s\n", cfg.Crafting.RecipesPath)

	fmt.Fprintln(out, "\nSimulation:")
	fmt.Fprintf(out, "  Scenario:         %s\n", cfg.Simulation.ScenarioPath)
	fmt.Fprintf(out, "  Ticks:            %d x %s\n", cfg.Simulation.Ticks, cfg.Simulation.TickDuration)
	if cfg.Simulation.TickRateHz > 0 {
		fmt.Fprintf(out, "  Tick Rate:        %.1f Hz\n", cfg.Simulation.TickRateHz)
	} else {
		fmt.Fprintf(out, "  Tick Rate:        unpaced\n")
	}
	if cfg.Simulation.RunID != "" {
		fmt.Fprintf(out, "  Run ID:           %s\n", cfg.Simulation.RunID)
	}

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Database.Enabled)
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
	fmt.Fprintf(out, "  Persist:          %t\n", cfg.Logging.Persist)

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Endpoint:         http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}
}

// prettyPrint formats JSON for display
func prettyPrint(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}
