package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Crafting defaults
	if cfg.Crafting.PollInterval == 0 {
		cfg.Crafting.PollInterval = 500 * time.Millisecond
	}
	if cfg.Crafting.ProgressRate == 0 {
		cfg.Crafting.ProgressRate = 0.25
	}
	if cfg.Crafting.RecipesPath == "" {
		cfg.Crafting.RecipesPath = "configs/recipes.yaml"
	}

	// Simulation defaults
	if cfg.Simulation.TickDuration == 0 {
		cfg.Simulation.TickDuration = 250 * time.Millisecond
	}
	if cfg.Simulation.Ticks == 0 {
		cfg.Simulation.Ticks = 120
	}
	if cfg.Simulation.ScenarioPath == "" {
		cfg.Simulation.ScenarioPath = "configs/scenario.yaml"
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "colonycraft.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "colonycraft"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "colonycraft"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
