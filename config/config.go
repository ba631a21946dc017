// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Energy     EnergyConfig     `yaml:"energy"`
	Food       FoodConfig       `yaml:"food"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// WorldConfig holds grid dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EnergyConfig holds the energy economy parameters.
type EnergyConfig struct {
	Starting              int `yaml:"starting"`               // Initial cell energy before genome tax
	DrainInterval         int `yaml:"drain_interval"`         // Ticks between metabolic drains
	GenomeCost            int `yaml:"genome_cost"`            // Drain per genome character per drain
	MovementCost          int `yaml:"movement_cost"`          // Cost of one successful move
	ReproductionCost      int `yaml:"reproduction_cost"`      // Parent pays this per offspring
	ReproductionThreshold int `yaml:"reproduction_threshold"` // Reproduce when energy exceeds this
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	Energy      int     `yaml:"energy"`       // Energy value of newly spawned food
	RegenRate   float64 `yaml:"regen_rate"`   // Full regeneration probability (3-neighbor case)
	DecayEnergy int     `yaml:"decay_energy"` // Energy of food dropped by a dead cell
}

// MutationConfig holds genome mutation parameters.
type MutationConfig struct {
	Rate            float64 `yaml:"rate"`
	MaxGenomeLength int     `yaml:"max_genome_length"`
}

// SpatialConfig holds spatial index and occupancy parameters.
type SpatialConfig struct {
	BucketSize      int `yaml:"bucket_size"`
	MaxCellsPerTile int `yaml:"max_cells_per_tile"`
}

// SeedSpec describes one group of organisms spawned at startup.
type SeedSpec struct {
	Genome string `yaml:"genome"`
	Count  int    `yaml:"count"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Spread int    `yaml:"spread"`
}

// PopulationConfig holds the initial population seed specs.
type PopulationConfig struct {
	Seeds []SeedSpec `yaml:"seeds"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowTicks int `yaml:"stats_window_ticks"`
	PerfWindowTicks  int `yaml:"perf_window_ticks"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
