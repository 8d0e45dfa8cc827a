package simulation_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/simulation"
)

func TestParseScenario_Defaults(t *testing.T) {
	scenario, err := simulation.ParseScenario([]byte(`
name: defaults
crafts:
  - {recipe: rope}
  - {recipe: plank, count: 3, at_tick: 5}
`))

	require.NoError(t, err)
	assert.Equal(t, "defaults", scenario.Name)
	assert.Equal(t, 1, scenario.Crafts[0].Count)
	assert.Equal(t, 3, scenario.Crafts[1].Count)
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"agent without id", "agents:\n  - name: nobody"},
		{"delivery without target", "deliveries:\n  - {kind: Wood, amount: 1}"},
		{"delivery without amount", "deliveries:\n  - {agent: alice, kind: Wood}"},
		{"negative holdings", "agents:\n  - id: alice\n    holdings: {Wood: -1}"},
		{"pin without agent", "crafts:\n  - {recipe: rope, pin: true}"},
		{"craft without recipe", "crafts:\n  - {agent: alice}"},
		{"not yaml", "agents: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := simulation.ParseScenario([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario_ShippedScenarioIsValid(t *testing.T) {
	scenario, err := simulation.LoadScenario(filepath.Join("..", "..", "..", "configs", "scenario.yaml"))

	require.NoError(t, err)
	assert.NotEmpty(t, scenario.Agents)
	assert.NotEmpty(t, scenario.Crafts)
}
