package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/microgrid/config"
	"github.com/kilianp07/microgrid/core/factory"
)

// Expected lists the checks applied to a replayed scenario. Nil fields are
// not checked.
type Expected struct {
	Covered    *bool    `yaml:"covered"`
	UnmetSteps *int     `yaml:"unmet_steps"`
	UnmetKWh   *float64 `yaml:"unmet_kwh"`
	// Columns holds the expected ledger values per column and step.
	Columns map[string][]float64 `yaml:"columns"`
}

type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Config      map[string]any `yaml:"config"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// BuildConfig decodes the embedded configuration the way config.Load does
// and applies defaults and validation.
func (s *Scenario) BuildConfig() (*config.Config, error) {
	var cfg config.Config
	if err := factory.Decode(s.Config, &cfg); err != nil {
		return nil, err
	}
	if cfg.Scenario == "" {
		cfg.Scenario = s.Name
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
