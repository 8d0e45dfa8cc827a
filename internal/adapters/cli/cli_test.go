package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/pidfile"
)

const testScenario = `name: cli-test
agents:
  - {id: alice, name: Alice, holdings: {Wood: 1, Stone: 1}}
  - {id: bram, name: Bram}
crafts:
  - {recipe: stone_knife, agent: alice, pin: true}
  - {recipe: rope, agent: bram}
gathering:
  enabled: false
`

func shippedRecipes() string {
	return filepath.Join("..", "..", "..", "configs", "recipes.yaml")
}

// writeConfig writes a config file pointing at a sqlite ledger in dir
func writeConfig(t *testing.T, dir string, dbEnabled bool) string {
	t.Helper()
	scenarioPath := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(testScenario), 0o644))

	recipes, err := filepath.Abs(shippedRecipes())
	require.NoError(t, err)

	cfg := fmt.Sprintf(`crafting:
  recipes_path: %s
simulation:
  tick_duration: 1s
  ticks: 8
  scenario_path: %s
database:
  enabled: %t
  type: sqlite
  path: %s
  url: postgres://colonycraft:hunter2@db:5432/colonycraft
logging:
  level: error
  output: stderr
`, recipes, scenarioPath, dbEnabled, filepath.Join(dir, "ledger.db"))

	path := filepath.Join(dir, "colonycraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecipesList_ShowsRegisteredRecipes(t *testing.T) {
	// Act
	out, err := execute(t, "recipes", "list", "--recipes", shippedRecipes())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "RECIPES (7 registered")
	assert.Contains(t, out, "stone_knife")
	assert.Contains(t, out, "Wood:1, Stone:1")
	assert.Contains(t, out, "wall_segment")
	assert.Contains(t, out, "By kind: TOOL:2, WEAPON:1, MATERIAL:2, FOOD:1, STRUCTURE:1")
}

func TestRecipesShow_PrintsTree(t *testing.T) {
	out, err := execute(t, "recipes", "show", "stone_axe", "--recipes", shippedRecipes())

	require.NoError(t, err)
	assert.Contains(t, out, "Stone Axe (stone_axe)")
	assert.Contains(t, out, "GATHER")
	assert.Contains(t, out, "Tree:")
}

func TestRecipesShow_JSONAndYAML(t *testing.T) {
	jsonOut, err := execute(t, "recipes", "show", "plank", "--recipes", shippedRecipes(), "--format", "json")
	require.NoError(t, err)
	yamlOut, err := execute(t, "recipes", "show", "plank", "--recipes", shippedRecipes(), "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, jsonOut, `"id": "plank"`)
	assert.Contains(t, jsonOut, `"station": "workbench"`)
	assert.Contains(t, yamlOut, "id: plank")
}

func TestRecipesShow_UnknownRecipe(t *testing.T) {
	_, err := execute(t, "recipes", "show", "anvil", "--recipes", shippedRecipes())

	assert.Error(t, err)
}

func TestRecipesShow_UnknownFormat(t *testing.T) {
	_, err := execute(t, "recipes", "show", "plank", "--recipes", shippedRecipes(), "--format", "xml")

	assert.Error(t, err)
}

func TestConfigShow_MasksPassword(t *testing.T) {
	// Arrange
	path := writeConfig(t, t.TempDir(), false)

	// Act
	text, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	jsonOut, err := execute(t, "--config", path, "config", "show", "--json")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, text, "ColonyCraft Configuration")
	assert.Contains(t, text, "Ticks:            8 x 1s")
	assert.NotContains(t, jsonOut, "hunter2")
	assert.Contains(t, jsonOut, "xxxxx")
}

func TestSimulate_WritesLedger(t *testing.T) {
	// Arrange
	path := writeConfig(t, t.TempDir(), true)

	// Act
	report, err := execute(t, "--config", path, "simulate", "--run-id", "cli-run")
	require.NoError(t, err)
	records, err := execute(t, "--config", path, "ledger", "list", "--run", "cli-run")
	require.NoError(t, err)
	empty, err := execute(t, "--config", path, "ledger", "list", "--run", "other-run")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, report, "SIMULATION REPORT (run cli-run, 8 ticks)")
	assert.Contains(t, report, "Completed:        1")
	assert.Contains(t, report, "Parked:           1")
	assert.Contains(t, report, "stone_knife")
	assert.Contains(t, records, "COMPLETED")
	assert.Contains(t, records, "1x stone_knife [TOOL]")
	assert.Contains(t, empty, "No craft records found")
}

func TestSimulate_FlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), false)

	report, err := execute(t, "--config", path, "simulate", "--ticks", "2", "--run-id", "short")

	require.NoError(t, err)
	assert.Contains(t, report, "(run short, 2 ticks)")
	assert.Contains(t, report, "Completed:        0")
}

func TestSimulate_RefusesWhilePIDFileHeld(t *testing.T) {
	// Arrange: PID 1 is always alive
	dir := t.TempDir()
	path := writeConfig(t, dir, false)
	pidPath := filepath.Join(dir, "sim.pid")
	require.NoError(t, os.WriteFile(pidPath, []byte("1\n"), 0o644))
	t.Setenv("CC_SIMULATION_PID_FILE", pidPath)

	// Act
	_, err := execute(t, "--config", path, "simulate", "--ticks", "1")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pidfile.ErrLocked))
}

func TestLedgerList_RequiresDatabase(t *testing.T) {
	path := writeConfig(t, t.TempDir(), false)

	_, err := execute(t, "--config", path, "ledger", "list")

	assert.Error(t, err)
}

func TestLedgerList_RejectsBadOrder(t *testing.T) {
	path := writeConfig(t, t.TempDir(), true)

	_, err := execute(t, "--config", path, "ledger", "list", "--order-by", "recorded_at; DROP TABLE craft_records")

	assert.Error(t, err)
}

func TestLedgerLogs_RequiresRun(t *testing.T) {
	_, err := execute(t, "ledger", "logs")

	assert.Error(t, err)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://u:xxxxx@h/db", maskPassword("postgres://u:secret@h/db"))
	assert.Equal(t, "postgres://h/db", maskPassword("postgres://h/db"))
	assert.Equal(t, "host=localhost", maskPassword("host=localhost"))
}

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2030-01-01", "2030-01-02")
	require.NoError(t, err)

	assert.Equal(t, 2030, start.Year())
	assert.Equal(t, 2, end.Day())
	assert.Equal(t, 23, end.Hour())

	_, _, err = parseDateRange("01/02/2030", "")
	assert.Error(t, err)
}
