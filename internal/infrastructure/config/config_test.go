package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colonycraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileValuesAndDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
crafting:
  poll_interval: 2s
  max_active_per_agent: 1
simulation:
  ticks: 10
logging:
  level: debug
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Crafting.PollInterval)
	assert.Equal(t, 1, cfg.Crafting.MaxActivePerAgent)
	assert.Equal(t, 0.25, cfg.Crafting.ProgressRate)
	assert.Equal(t, 10, cfg.Simulation.Ticks)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, "crafting:\n  progress_rate: 0.5\n")
	t.Setenv("CC_CRAFTING_PROGRESS_RATE", "2")
	t.Setenv("CC_METRICS_ENABLED", "true")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Crafting.ProgressRate)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: verbose\n")

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestLoadConfig_FileOutputNeedsPath(t *testing.T) {
	path := writeConfig(t, "logging:\n  output: file\n")

	_, err := config.LoadConfig(path)

	assert.Error(t, err)
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.NoError(t, config.ValidateConfig(cfg))
	assert.Equal(t, 500*time.Millisecond, cfg.Crafting.PollInterval)
}

func TestValidateConfig_RejectsSharedFiles(t *testing.T) {
	// Arrange
	cfg := config.DefaultConfig()
	cfg.Database.Enabled = true
	cfg.Database.Path = "colony.db"
	cfg.Simulation.PIDFile = "./colony.db"

	// Act
	err := config.ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used by database.path")
}

func TestValidateConfig_AllowsSameNameWhenLedgerDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Database.Path = "colony.db"
	cfg.Simulation.PIDFile = "colony.db"

	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	sqlite := config.DatabaseConfig{Type: "sqlite"}
	url := config.DatabaseConfig{Type: "postgres", URL: "postgres://u:p@db/colony", Host: "ignored"}
	fields := config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5433, User: "u", Password: "p", Name: "colony", SSLMode: "disable"}

	assert.Equal(t, ":memory:", sqlite.DSN())
	assert.Equal(t, "postgres://u:p@db/colony", url.DSN())
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=colony sslmode=disable", fields.DSN())
}
