package config

import "time"

// SimulationConfig holds settings for the colony simulation runner
type SimulationConfig struct {
	// Ticks per wall-clock second; 0 runs as fast as possible
	TickRateHz float64 `mapstructure:"tick_rate_hz" validate:"min=0"`

	// Simulated time that passes per tick
	TickDuration time.Duration `mapstructure:"tick_duration" validate:"gt=0"`

	// Number of ticks to run
	Ticks int `mapstructure:"ticks" validate:"min=1"`

	// Scenario file describing the colony and its craft requests
	ScenarioPath string `mapstructure:"scenario_path"`

	// Ledger run identifier; generated when empty
	RunID string `mapstructure:"run_id"`

	// Optional PID file; a second run is refused while the first is alive
	PIDFile string `mapstructure:"pid_file"`
}
