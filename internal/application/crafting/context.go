package crafting

import (
	"time"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/domain/shared"
)

const (
	// DefaultPollInterval is how often the pending sweep re-checks parked crafts
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultProgressRate is the fraction of a craft completed per simulated second
	DefaultProgressRate = 0.25
)

// Options are the tunables of the crafting core
type Options struct {
	PollInterval time.Duration
	ProgressRate float64

	// MaxActivePerAgent caps how many claimed tasks one agent may hold. 0 = unlimited.
	MaxActivePerAgent int
}

// DefaultOptions returns the stock tunables
func DefaultOptions() Options {
	return Options{
		PollInterval: DefaultPollInterval,
		ProgressRate: DefaultProgressRate,
	}
}

// Context carries every collaborator the crafting core talks to. Any field
// may be nil; operations that need a missing collaborator degrade to a
// logged "nothing happens" instead of failing the tick.
type Context struct {
	Bus       crafting.NotificationBus
	Agents    crafting.AgentDirectory
	Buildings crafting.BuildingDirectory
	Storage   crafting.StorageSystem
	Gatherer  crafting.GatherRequester
	Metrics   crafting.MetricsRecorder
	Logger    common.Logger
	Clock     shared.Clock
	Options   Options
}

// normalized fills nil infrastructure with inert defaults
func (c Context) normalized() Context {
	if c.Logger == nil {
		c.Logger = common.NoOpLogger()
	}
	if c.Clock == nil {
		c.Clock = shared.NewRealClock()
	}
	if c.Metrics == nil {
		c.Metrics = noopMetrics{}
	}
	if c.Options.PollInterval <= 0 {
		c.Options.PollInterval = DefaultPollInterval
	}
	if c.Options.ProgressRate <= 0 {
		c.Options.ProgressRate = DefaultProgressRate
	}
	if c.Options.MaxActivePerAgent < 0 {
		c.Options.MaxActivePerAgent = 0
	}
	return c
}
