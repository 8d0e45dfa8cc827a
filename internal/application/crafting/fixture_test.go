package crafting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/colony"
	"github.com/andrescamacho/colonycraft-go/internal/application/events"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

type fixture struct {
	system *CraftingSystem
	colony *colony.Colony
	bus    *events.NotificationBus
	clock  *shared.ManualClock
	logs   *recordingLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bus := events.NewNotificationBus()
	clock := shared.NewManualClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	c := colony.NewColony(bus, clock)
	logs := &recordingLogger{}

	system := NewCraftingSystem(Context{
		Bus:       bus,
		Agents:    c.Roster,
		Buildings: c.Settlement,
		Storage:   c.Storage,
		Gatherer:  c.Gather,
		Logger:    logs,
		Clock:     clock,
		Options:   DefaultOptions(),
	})
	t.Cleanup(system.Close)

	return &fixture{system: system, colony: c, bus: bus, clock: clock, logs: logs}
}

func (f *fixture) colonist(t *testing.T, id string, holdings map[crafting.ResourceKind]int) shared.AgentID {
	t.Helper()
	c, err := f.colony.AddColonist(id, "", 0, holdings)
	require.NoError(t, err)
	return c.ID()
}

func (f *fixture) storehouse(t *testing.T, buildingID, storageID string, built bool, stock map[crafting.ResourceKind]int) {
	t.Helper()
	_, err := f.colony.AddStorehouse(buildingID, storageID, built, 0, stock)
	require.NoError(t, err)
}

func (f *fixture) amount(t *testing.T, agentID shared.AgentID, kind crafting.ResourceKind) int {
	t.Helper()
	c, ok := f.colony.Roster.Colonist(agentID)
	require.True(t, ok)
	return c.Holdings().ResourceAmount(kind)
}

func stoneKnife() crafting.Recipe {
	return crafting.MustNewRecipe("stone_knife", "Stone Knife", []crafting.ResourceAmount{
		{Kind: "Wood", Amount: 1},
		{Kind: "Stone", Amount: 1},
	}, crafting.ResultSpec{ItemID: "stone_knife", Kind: crafting.ItemKindTool, Amount: 1})
}

func knife() crafting.Recipe {
	return crafting.MustNewRecipe("knife", "Knife", []crafting.ResourceAmount{
		{Kind: "Stone", Amount: 2},
	}, crafting.ResultSpec{ItemID: "knife", Kind: crafting.ItemKindTool, Amount: 1})
}

type logLine struct {
	level   string
	message string
}

type recordingLogger struct {
	lines []logLine
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.lines = append(l.lines, logLine{level: level, message: message})
}

func (l *recordingLogger) count(level string) int {
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) String() string {
	return fmt.Sprintf("%v", l.lines)
}
