package config

import "time"

// CraftingConfig holds the tunables of the crafting core
type CraftingConfig struct {
	// How often the pending sweep re-checks parked crafts
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`

	// Fraction of a craft completed per simulated second
	ProgressRate float64 `mapstructure:"progress_rate" validate:"gt=0,lte=100"`

	// Claimed tasks one agent may hold at once (0 = unlimited)
	MaxActivePerAgent int `mapstructure:"max_active_per_agent" validate:"min=0"`

	// Recipe catalog file (YAML or JSON)
	RecipesPath string `mapstructure:"recipes_path"`
}
