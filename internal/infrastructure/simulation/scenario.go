package simulation

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/colony"
	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// Scenario describes a colony and what happens to it over a run
type Scenario struct {
	Name        string           `yaml:"name"`
	Agents      []AgentSpec      `yaml:"agents" validate:"dive"`
	Storehouses []StorehouseSpec `yaml:"storehouses" validate:"dive"`
	Crafts      []CraftSpec      `yaml:"crafts" validate:"dive"`
	Deliveries  []DeliverySpec   `yaml:"deliveries" validate:"dive"`
	Gathering   GatheringSpec    `yaml:"gathering"`
}

// AgentSpec is a colonist present from tick 0
type AgentSpec struct {
	ID       string         `yaml:"id" validate:"required"`
	Name     string         `yaml:"name"`
	Capacity int            `yaml:"capacity" validate:"min=0"`
	Holdings map[string]int `yaml:"holdings" validate:"dive,min=0"`
}

// StorehouseSpec is a building with a depot. Unbuilt storehouses finish at BuiltAtTick.
type StorehouseSpec struct {
	Building    string         `yaml:"building" validate:"required"`
	Storage     string         `yaml:"storage" validate:"required"`
	Built       bool           `yaml:"built"`
	BuiltAtTick int            `yaml:"built_at_tick" validate:"min=0"`
	Capacity    int            `yaml:"capacity" validate:"min=0"`
	Stock       map[string]int `yaml:"stock" validate:"dive,min=0"`
}

// CraftSpec requests Count crafts of Recipe at AtTick. With an Agent the
// request goes through the RequestCraft command and Pin applies; without one
// the task is queued for anyone and checked against storage only.
type CraftSpec struct {
	Recipe string `yaml:"recipe" validate:"required"`
	Agent  string `yaml:"agent"`
	Pin    bool   `yaml:"pin"`
	AtTick int    `yaml:"at_tick" validate:"min=0"`
	Count  int    `yaml:"count" validate:"min=0"`
}

// DeliverySpec drops resources on an agent or into a depot at AtTick
type DeliverySpec struct {
	AtTick  int    `yaml:"at_tick" validate:"min=0"`
	Agent   string `yaml:"agent" validate:"required_without=Storage"`
	Storage string `yaml:"storage" validate:"required_without=Agent"`
	Kind    string `yaml:"kind" validate:"required"`
	Amount  int    `yaml:"amount" validate:"min=1"`
}

// GatheringSpec controls whether gather requests are fulfilled automatically
type GatheringSpec struct {
	Enabled    bool `yaml:"enabled"`
	DelayTicks int  `yaml:"delay_ticks" validate:"min=0"`
}

// LoadScenario reads and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scenario, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario decodes and validates a scenario document
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	for i := range s.Crafts {
		if s.Crafts[i].Count == 0 {
			s.Crafts[i].Count = 1
		}
		if s.Crafts[i].Pin && s.Crafts[i].Agent == "" {
			return nil, fmt.Errorf("invalid scenario: crafts[%d] pinned without an agent", i)
		}
	}
	return &s, nil
}

// Populate adds the scenario's colonists and storehouses to c
func (s *Scenario) Populate(c *colony.Colony) error {
	for _, a := range s.Agents {
		if _, err := c.AddColonist(a.ID, a.Name, a.Capacity, toResources(a.Holdings)); err != nil {
			return fmt.Errorf("agent %s: %w", a.ID, err)
		}
	}
	for _, h := range s.Storehouses {
		if _, err := c.AddStorehouse(h.Building, h.Storage, h.Built, h.Capacity, toResources(h.Stock)); err != nil {
			return fmt.Errorf("storehouse %s: %w", h.Building, err)
		}
	}
	return nil
}

func toResources(in map[string]int) map[crafting.ResourceKind]int {
	out := make(map[crafting.ResourceKind]int, len(in))
	for k, v := range in {
		out[crafting.ResourceKind(k)] = v
	}
	return out
}
