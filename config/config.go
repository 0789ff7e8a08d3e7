// Package config loads a simulation scenario from YAML or JSON with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/microgrid/core/factory"
	"github.com/kilianp07/microgrid/internal/series"
)

// EnvPrefix prefixes environment overrides; "__" separates nested keys,
// e.g. MG_DISPATCH__MODE=off-grid.
const EnvPrefix = "MG_"

type Config struct {
	Scenario   string                 `json:"scenario"`
	Horizon    HorizonConfig          `json:"horizon"`
	Load       series.Source          `json:"load"`
	Grid       GridConfig             `json:"grid"`
	Renewables []RenewableConfig      `json:"renewables"`
	Storages   []StorageConfig        `json:"storages"`
	Diesel     []DieselConfig         `json:"diesel_generators"`
	Hydrogen   *HydrogenConfig        `json:"hydrogen"`
	Dispatch   DispatchConfig         `json:"dispatch"`
	Eco        EcoConfig              `json:"eco"`
	Sinks      []factory.ModuleConfig `json:"sinks"`
	Logging    LoggingConfig          `json:"logging"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	if c.Scenario == "" {
		c.Scenario = "default"
	}
	c.Horizon.SetDefaults()
	c.Grid.SetDefaults()
	for i := range c.Renewables {
		c.Renewables[i].SetDefaults()
	}
	for i := range c.Storages {
		c.Storages[i].SetDefaults()
	}
	for i := range c.Diesel {
		c.Diesel[i].SetDefaults()
	}
	if c.Hydrogen != nil {
		c.Hydrogen.SetDefaults()
	}
	c.Dispatch.SetDefaults(c.Hydrogen != nil)
	c.Logging.SetDefaults()
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	wrap := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}
	wrap("horizon", c.Horizon.Validate())
	wrap("load", c.Load.Validate())
	wrap("dispatch", c.Dispatch.Validate())
	wrap("grid", c.Grid.Validate(c.Dispatch.Mode))
	for i, r := range c.Renewables {
		wrap(fmt.Sprintf("renewables[%d]", i), r.Validate())
	}
	for i, s := range c.Storages {
		wrap(fmt.Sprintf("storages[%d]", i), s.Validate())
	}
	for i, d := range c.Diesel {
		wrap(fmt.Sprintf("diesel_generators[%d]", i), d.Validate())
	}
	if c.Hydrogen != nil {
		wrap("hydrogen", c.Hydrogen.Validate())
	}
	wrap("eco", c.Eco.Validate())
	for i, s := range c.Sinks {
		if s.Type == "" {
			wrap(fmt.Sprintf("sinks[%d]", i), errors.New("type is required"))
		}
	}
	wrap("logging", c.Logging.Validate())
	return errors.Join(errs...)
}

// resolvePaths makes series file paths relative to the config file.
func (c *Config) resolvePaths(dir string) {
	fix := func(s *series.Source) {
		if s.File != "" && !filepath.IsAbs(s.File) {
			s.File = filepath.Join(dir, s.File)
		}
	}
	fix(&c.Load)
	fix(&c.Grid.Blackout)
	for i := range c.Renewables {
		fix(&c.Renewables[i].Series)
	}
}
