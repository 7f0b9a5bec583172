// Package config loads test-matrix settings from YAML files and
// COMBUSTLAB_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/testmatrix"
	"github.com/san-kum/combustlab/internal/units"
)

const envPrefix = "COMBUSTLAB"

const (
	DefaultReplicates = 3
	DefaultFuel       = "C3H8"
	DefaultOxidizer   = "O2"
	DefaultDiluent    = "N2"
	DefaultStoreKind  = "csv"
	DefaultStorePath  = "matrices"
)

type Config struct {
	Replicates int `yaml:"replicates" mapstructure:"replicates"`

	// Equivalence and DiluentMoleFraction hold a number or a list of
	// numbers. Type checking happens in testmatrix.New.
	Equivalence         any               `yaml:"equivalence" mapstructure:"equivalence"`
	DiluentMoleFraction any               `yaml:"diluent_mole_fraction" mapstructure:"diluent_mole_fraction"`
	Fuel                string            `yaml:"fuel" mapstructure:"fuel"`
	Oxidizer            string            `yaml:"oxidizer" mapstructure:"oxidizer"`
	Diluent             string            `yaml:"diluent" mapstructure:"diluent"`
	InitialPressure     units.Quantity    `yaml:"initial_pressure" mapstructure:"initial_pressure"`
	InitialTemperature  units.Quantity    `yaml:"initial_temperature" mapstructure:"initial_temperature"`
	Seed                int64             `yaml:"seed" mapstructure:"seed"`
	// SeedSet reports whether Seed was given explicitly. A zero Seed with
	// SeedSet false means "pick one".
	SeedSet             bool              `yaml:"-" mapstructure:"-"`
	Store               StoreConfig       `yaml:"store" mapstructure:"store"`
	Log                 logging.LogConfig `yaml:"log" mapstructure:"log"`
}

type StoreConfig struct {
	Kind string `yaml:"kind" mapstructure:"kind"`
	Path string `yaml:"path" mapstructure:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		Replicates:          DefaultReplicates,
		Equivalence:         []float64{0.8, 0.9, 1.0, 1.1, 1.2},
		DiluentMoleFraction: []float64{0},
		Fuel:                DefaultFuel,
		Oxidizer:            DefaultOxidizer,
		Diluent:             DefaultDiluent,
		InitialPressure:     units.Q(1, "atm"),
		InitialTemperature:  units.Q(25, "degC"),
		Store:               StoreConfig{Kind: DefaultStoreKind, Path: DefaultStorePath},
		Log:                 logging.LogConfig{Level: "info", Format: "console"},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Env vars only bind to keys viper already knows about.
	d := DefaultConfig()
	v.SetDefault("replicates", d.Replicates)
	v.SetDefault("equivalence", d.Equivalence)
	v.SetDefault("diluent_mole_fraction", d.DiluentMoleFraction)
	v.SetDefault("fuel", d.Fuel)
	v.SetDefault("oxidizer", d.Oxidizer)
	v.SetDefault("diluent", d.Diluent)
	v.SetDefault("initial_pressure.value", d.InitialPressure.Value)
	v.SetDefault("initial_pressure.unit", d.InitialPressure.Unit)
	v.SetDefault("initial_temperature.value", d.InitialTemperature.Value)
	v.SetDefault("initial_temperature.unit", d.InitialTemperature.Unit)
	// No default for seed: IsSet must only see file and env values.
	_ = v.BindEnv("seed")
	v.SetDefault("store.kind", d.Store.Kind)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	return v
}

// Load reads the YAML file at path over the defaults and applies
// COMBUSTLAB_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	cfg.SeedSet = v.IsSet("seed")
	cfg.Equivalence = splitList(cfg.Equivalence)
	cfg.DiluentMoleFraction = splitList(cfg.DiluentMoleFraction)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// splitList turns "0.8, 1.0 1.2" (as set through the environment) into a
// list. Items that do not parse are kept as strings so the matrix
// constructor reports them.
func splitList(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if x, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, x)
		} else {
			out = append(out, f)
		}
	}
	return out
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that do not need a thermochemical registry.
func (c *Config) Validate() error {
	if c.Replicates <= 0 {
		return fmt.Errorf("replicates must be positive, got %d", c.Replicates)
	}
	if c.Fuel == "" {
		return fmt.Errorf("fuel is required")
	}
	if c.Oxidizer == "" {
		return fmt.Errorf("oxidizer is required")
	}
	switch c.Store.Kind {
	case "", "csv", "json", "sqlite":
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Params converts the configuration into test-matrix parameters.
func (c *Config) Params() testmatrix.Params {
	return testmatrix.Params{
		NumReplicates:       c.Replicates,
		Equivalence:         c.Equivalence,
		DiluentMoleFraction: c.DiluentMoleFraction,
		Fuel:                c.Fuel,
		Oxidizer:            c.Oxidizer,
		Diluent:             c.Diluent,
		InitialPressure:     c.InitialPressure,
		InitialTemperature:  c.InitialTemperature,
		Seed:                c.Seed,
	}
}
