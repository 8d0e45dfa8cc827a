package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colonycraft",
		Short: "ColonyCraft - colony crafting core and simulator",
		Long: `ColonyCraft runs the colony crafting core: recipe catalogs, the shared task
queue, resource checks against inventories and storage, and crafts parked
until their ingredients arrive.

Examples:
  colonycraft recipes list
  colonycraft recipes show stone_axe
  colonycraft simulate --scenario configs/scenario.yaml --ticks 200
  colonycraft ledger list --run <run-id>
  colonycraft ledger logs --run <run-id> --level WARN
  colonycraft config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./, ./configs, /etc/colonycraft)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRecipesCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
