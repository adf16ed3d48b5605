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
	Map        MapConfig         `yaml:"map"`
	Worldgen   WorldgenConfig    `yaml:"worldgen"`
	Signals    SignalsConfig     `yaml:"signals"`
	Pulses     PulsesConfig      `yaml:"pulses"`
	Actions    ActionsConfig     `yaml:"actions"`
	Items      []ItemConfig      `yaml:"items"`
	Structures []StructureConfig `yaml:"structures"`
	Recipes    []RecipeConfig    `yaml:"recipes"`
	Units      []UnitConfig      `yaml:"units"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MapConfig holds hex map dimensions.
type MapConfig struct {
	Radius int `yaml:"radius"` // Map is a hexagon of this radius around the origin
}

// WorldgenConfig holds terrain and initial population parameters.
type WorldgenConfig struct {
	NoiseScale    float64           `yaml:"noise_scale"`    // Base noise frequency for terrain
	Octaves       int               `yaml:"octaves"`        // FBM octaves (detail level)
	Lacunarity    float64           `yaml:"lacunarity"`     // Frequency multiplier per octave
	Gain          float64           `yaml:"gain"`           // Amplitude multiplier per octave
	RockThreshold float64           `yaml:"rock_threshold"` // Noise above this is impassable rock
	Structures    []SpawnConfig     `yaml:"structures"`     // Initial structures scattered on open ground
	Ghosts        []SpawnConfig     `yaml:"ghosts"`         // Initial planned structures awaiting construction
	Units         []UnitSpawnConfig `yaml:"units"`          // Initial units
}

// SpawnConfig places a number of structures of one kind at worldgen.
type SpawnConfig struct {
	Structure string `yaml:"structure"`
	Count     int    `yaml:"count"`
}

// UnitSpawnConfig places a number of units of one kind at worldgen.
type UnitSpawnConfig struct {
	Unit  string `yaml:"unit"`
	Count int    `yaml:"count"`
}

// SignalClassConfig holds the per-class tuning of the signal field.
type SignalClassConfig struct {
	// Fraction of a tile's value shared with neighbors per tick.
	// Each of the six neighbors receives diffusion_factor/6 of the value.
	DiffusionFactor float64 `yaml:"diffusion_factor"`

	// Fraction of a tile's value retained after decay each tick.
	DecayFactor float64 `yaml:"decay_factor"`

	// Strength an emitter contributes per tick.
	EmitStrength float64 `yaml:"emit_strength"`
}

// SignalsConfig holds one tuning block per signal class.
type SignalsConfig struct {
	Push     SignalClassConfig `yaml:"push"`
	Pull     SignalClassConfig `yaml:"pull"`
	Work     SignalClassConfig `yaml:"work"`
	Demolish SignalClassConfig `yaml:"demolish"`
	Contains SignalClassConfig `yaml:"contains"`
	Stores   SignalClassConfig `yaml:"stores"`
	Unit     SignalClassConfig `yaml:"unit"`
}

// ByClass returns the tuning block for a signal class index.
// The order matches the SignalClass constants in components.
func (s *SignalsConfig) ByClass(class uint8) *SignalClassConfig {
	blocks := [...]*SignalClassConfig{
		&s.Push, &s.Pull, &s.Work, &s.Demolish, &s.Contains, &s.Stores, &s.Unit,
	}
	if int(class) >= len(blocks) {
		return nil
	}
	return blocks[class]
}

// PulsesConfig holds analytic pulse marker parameters.
type PulsesConfig struct {
	Diffusivity   float64 `yaml:"diffusivity"`    // Spatial spread rate of a pulse
	DecayRate     float64 `yaml:"decay_rate"`     // Temporal decay rate of a pulse
	TrimThreshold float64 `yaml:"trim_threshold"` // Pulses weaker than this at origin are dropped
	LureStrength  float64 `yaml:"lure_strength"`  // Marker dropped after a successful delivery
	RepelStrength float64 `yaml:"repel_strength"` // Marker dropped after a failed transfer
}

// ActionsConfig holds action durations in ticks.
type ActionsConfig struct {
	IdleTicks     int `yaml:"idle_ticks"`
	MoveTicks     int `yaml:"move_ticks"`
	PickUpTicks   int `yaml:"pick_up_ticks"`
	DropOffTicks  int `yaml:"drop_off_ticks"`
	EatTicks      int `yaml:"eat_ticks"`
	WorkTicks     int `yaml:"work_ticks"`
	DemolishTicks int `yaml:"demolish_ticks"`
	AbandonTicks  int `yaml:"abandon_ticks"`
}

// ItemConfig defines one item kind. Energy is what a unit gains by
// eating one of it.
type ItemConfig struct {
	Name   string  `yaml:"name"`
	Energy float64 `yaml:"energy"`
}

// CountedItemConfig is an item with a quantity, used in recipes and
// build material lists.
type CountedItemConfig struct {
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

// StructureConfig defines one structure kind.
type StructureConfig struct {
	Name            string              `yaml:"name"`
	Recipe          string              `yaml:"recipe"`           // Recipe crafted here, empty for none
	InputCapacity   int                 `yaml:"input_capacity"`   // Per-slot capacity of the input inventory
	OutputCapacity  int                 `yaml:"output_capacity"`  // Per-slot capacity of the output inventory
	StorageCapacity int                 `yaml:"storage_capacity"` // Per-slot capacity of the storage inventory
	Stores          []string            `yaml:"stores"`           // Items accepted into storage
	BuildMaterials  []CountedItemConfig `yaml:"build_materials"`  // Deliveries a ghost needs before completion
	BuildTicks      int                 `yaml:"build_ticks"`      // Work ticks to raise a stocked ghost
	DemolishTicks   int                 `yaml:"demolish_ticks"`   // Work ticks to tear the structure down
}

// RecipeConfig defines one crafting recipe.
type RecipeConfig struct {
	Name         string              `yaml:"name"`
	Inputs       []CountedItemConfig `yaml:"inputs"`
	Outputs      []CountedItemConfig `yaml:"outputs"`
	Ticks        int                 `yaml:"ticks"`         // Crafting duration once inputs are taken
	NeedsWorkers bool                `yaml:"needs_workers"` // Progress only while a unit works here
}

// UnitConfig defines one unit kind.
type UnitConfig struct {
	Name                 string  `yaml:"name"`
	DietItem             string  `yaml:"diet_item"`               // Item this unit eats
	MaxEnergy            float64 `yaml:"max_energy"`              // Energy capacity
	EnergyDrain          float64 `yaml:"energy_drain"`            // Energy lost per tick
	HungerThreshold      float64 `yaml:"hunger_threshold"`        // Energy fraction below which eating overrides everything
	MaxImpatience        int     `yaml:"max_impatience"`          // Failures tolerated before abandoning a goal
	MeanFreeWanderPeriod float64 `yaml:"mean_free_wander_period"` // Average ticks spent wandering before trying a new goal
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Ticks per aggregation window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Samples kept for timing percentiles
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArenaTiles     int              // Tile count of the hexagonal map
	ItemIndex      map[string]uint8 // name -> item ID
	StructureIndex map[string]uint8 // name -> structure ID
	UnitIndex      map[string]uint8 // name -> unit ID
	RecipeIndex    map[string]uint8 // name -> recipe ID
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

// Set installs cfg as the global configuration, replacing whatever Init
// loaded. cfg must already have passed Load or Validate. Intended for
// tools that evaluate config variants in-process, not for concurrent
// use while a simulation is running.
func Set(cfg *Config) {
	global = cfg
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Invalid configuration
// fails here; nothing downstream re-checks these values.
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

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	r := c.Map.Radius
	c.Derived.ArenaTiles = 1 + 3*r*(r+1)

	c.Derived.ItemIndex = make(map[string]uint8, len(c.Items))
	for i, item := range c.Items {
		c.Derived.ItemIndex[item.Name] = uint8(i)
	}
	c.Derived.StructureIndex = make(map[string]uint8, len(c.Structures))
	for i, s := range c.Structures {
		c.Derived.StructureIndex[s.Name] = uint8(i)
	}
	c.Derived.UnitIndex = make(map[string]uint8, len(c.Units))
	for i, u := range c.Units {
		c.Derived.UnitIndex[u.Name] = uint8(i)
	}
	c.Derived.RecipeIndex = make(map[string]uint8, len(c.Recipes))
	for i, rc := range c.Recipes {
		c.Derived.RecipeIndex[rc.Name] = uint8(i)
	}
}

// Validate checks the loaded configuration for values the simulation
// cannot run with. All cross-references between items, structures,
// recipes and units are resolved here.
func (c *Config) Validate() error {
	if c.Map.Radius < 1 {
		return fmt.Errorf("map.radius must be at least 1, got %d", c.Map.Radius)
	}

	classes := []struct {
		name  string
		block *SignalClassConfig
	}{
		{"push", &c.Signals.Push},
		{"pull", &c.Signals.Pull},
		{"work", &c.Signals.Work},
		{"demolish", &c.Signals.Demolish},
		{"contains", &c.Signals.Contains},
		{"stores", &c.Signals.Stores},
		{"unit", &c.Signals.Unit},
	}
	for _, cl := range classes {
		if cl.block.DiffusionFactor < 0 || cl.block.DiffusionFactor > 1 {
			return fmt.Errorf("signals.%s.diffusion_factor must be in [0, 1], got %g",
				cl.name, cl.block.DiffusionFactor)
		}
		if cl.block.DecayFactor < 0 || cl.block.DecayFactor > 1 {
			return fmt.Errorf("signals.%s.decay_factor must be in [0, 1], got %g",
				cl.name, cl.block.DecayFactor)
		}
		if cl.block.EmitStrength < 0 {
			return fmt.Errorf("signals.%s.emit_strength must not be negative", cl.name)
		}
	}

	if c.Pulses.Diffusivity <= 0 {
		return fmt.Errorf("pulses.diffusivity must be positive, got %g", c.Pulses.Diffusivity)
	}
	if c.Pulses.DecayRate < 0 {
		return fmt.Errorf("pulses.decay_rate must not be negative, got %g", c.Pulses.DecayRate)
	}
	if c.Pulses.LureStrength < 0 || c.Pulses.RepelStrength < 0 {
		return fmt.Errorf("pulse marker strengths must not be negative")
	}

	durations := []struct {
		name  string
		ticks int
	}{
		{"idle_ticks", c.Actions.IdleTicks},
		{"move_ticks", c.Actions.MoveTicks},
		{"pick_up_ticks", c.Actions.PickUpTicks},
		{"drop_off_ticks", c.Actions.DropOffTicks},
		{"eat_ticks", c.Actions.EatTicks},
		{"work_ticks", c.Actions.WorkTicks},
		{"demolish_ticks", c.Actions.DemolishTicks},
		{"abandon_ticks", c.Actions.AbandonTicks},
	}
	for _, d := range durations {
		if d.ticks < 1 {
			return fmt.Errorf("actions.%s must be at least 1, got %d", d.name, d.ticks)
		}
	}

	if len(c.Items) == 0 {
		return fmt.Errorf("at least one item must be defined")
	}
	if len(c.Items) > 250 {
		return fmt.Errorf("too many items: %d", len(c.Items))
	}
	for i, item := range c.Items {
		if item.Name == "" {
			return fmt.Errorf("items[%d] has no name", i)
		}
		if item.Energy < 0 {
			return fmt.Errorf("item %q energy must not be negative", item.Name)
		}
	}

	for _, r := range c.Recipes {
		if r.Name == "" {
			return fmt.Errorf("recipe with empty name")
		}
		if r.Ticks < 1 {
			return fmt.Errorf("recipe %q ticks must be at least 1, got %d", r.Name, r.Ticks)
		}
		if len(r.Outputs) == 0 {
			return fmt.Errorf("recipe %q has no outputs", r.Name)
		}
		for _, in := range append(append([]CountedItemConfig{}, r.Inputs...), r.Outputs...) {
			if _, ok := c.Derived.ItemIndex[in.Item]; !ok {
				return fmt.Errorf("recipe %q references unknown item %q", r.Name, in.Item)
			}
			if in.Count < 1 {
				return fmt.Errorf("recipe %q uses item %q with count %d", r.Name, in.Item, in.Count)
			}
		}
	}

	for _, s := range c.Structures {
		if s.Name == "" {
			return fmt.Errorf("structure with empty name")
		}
		if s.Recipe != "" {
			if _, ok := c.Derived.RecipeIndex[s.Recipe]; !ok {
				return fmt.Errorf("structure %q references unknown recipe %q", s.Name, s.Recipe)
			}
		}
		for _, item := range s.Stores {
			if _, ok := c.Derived.ItemIndex[item]; !ok {
				return fmt.Errorf("structure %q stores unknown item %q", s.Name, item)
			}
		}
		for _, m := range s.BuildMaterials {
			if _, ok := c.Derived.ItemIndex[m.Item]; !ok {
				return fmt.Errorf("structure %q build material references unknown item %q", s.Name, m.Item)
			}
			if m.Count < 1 {
				return fmt.Errorf("structure %q build material %q has count %d", s.Name, m.Item, m.Count)
			}
		}
		if s.BuildTicks < 0 {
			return fmt.Errorf("structure %q build_ticks must not be negative, got %d", s.Name, s.BuildTicks)
		}
		if s.DemolishTicks < 1 {
			return fmt.Errorf("structure %q demolish_ticks must be at least 1, got %d", s.Name, s.DemolishTicks)
		}
	}

	if len(c.Units) == 0 {
		return fmt.Errorf("at least one unit kind must be defined")
	}
	for _, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("unit with empty name")
		}
		if _, ok := c.Derived.ItemIndex[u.DietItem]; !ok {
			return fmt.Errorf("unit %q has unknown diet item %q", u.Name, u.DietItem)
		}
		if u.MaxEnergy <= 0 {
			return fmt.Errorf("unit %q max_energy must be positive, got %g", u.Name, u.MaxEnergy)
		}
		if u.EnergyDrain < 0 {
			return fmt.Errorf("unit %q energy_drain must not be negative", u.Name)
		}
		if u.HungerThreshold < 0 || u.HungerThreshold > 1 {
			return fmt.Errorf("unit %q hunger_threshold must be in [0, 1], got %g", u.Name, u.HungerThreshold)
		}
		if u.MaxImpatience < 1 {
			return fmt.Errorf("unit %q max_impatience must be at least 1, got %d", u.Name, u.MaxImpatience)
		}
		if u.MeanFreeWanderPeriod < 1 {
			return fmt.Errorf("unit %q mean_free_wander_period must be at least 1, got %g",
				u.Name, u.MeanFreeWanderPeriod)
		}
	}

	for _, sp := range c.Worldgen.Structures {
		if _, ok := c.Derived.StructureIndex[sp.Structure]; !ok {
			return fmt.Errorf("worldgen references unknown structure %q", sp.Structure)
		}
		if sp.Count < 0 {
			return fmt.Errorf("worldgen structure %q count must not be negative", sp.Structure)
		}
	}
	for _, sp := range c.Worldgen.Ghosts {
		if _, ok := c.Derived.StructureIndex[sp.Structure]; !ok {
			return fmt.Errorf("worldgen ghost references unknown structure %q", sp.Structure)
		}
		if sp.Count < 0 {
			return fmt.Errorf("worldgen ghost %q count must not be negative", sp.Structure)
		}
	}
	for _, sp := range c.Worldgen.Units {
		if _, ok := c.Derived.UnitIndex[sp.Unit]; !ok {
			return fmt.Errorf("worldgen references unknown unit %q", sp.Unit)
		}
		if sp.Count < 0 {
			return fmt.Errorf("worldgen unit %q count must not be negative", sp.Unit)
		}
	}

	if c.Telemetry.StatsWindow < 1 {
		return fmt.Errorf("telemetry.stats_window must be at least 1, got %d", c.Telemetry.StatsWindow)
	}

	return nil
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
