package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/systems"
	"github.com/pthm-cable/brood/telemetry"
)

// Options configures a new colony run.
type Options struct {
	Seed int64

	// LogStats enables periodic slog output of window stats.
	LogStats bool

	// StatsWindow overrides the configured window size in ticks when
	// positive.
	StatsWindow int64

	// OutputDir enables CSV output when non-empty.
	OutputDir string

	// SnapshotPath enables SQLite world snapshots when non-empty.
	SnapshotPath string

	// SnapshotEvery is the snapshot interval in ticks. Zero means one
	// snapshot per stats window.
	SnapshotEvery int64

	// StatsCallback receives every closed stats window. Useful for
	// harnesses that score runs without writing files.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete colony state.
type Game struct {
	world *ecs.World
	geom  *systems.MapGeometry
	rng   *rand.Rand

	signalField *systems.SignalField
	pulseField  *systems.PulseField

	emitters     *systems.EmitterSystem
	selector     *systems.GoalSelector
	planner      *systems.ActionPlanner
	units        *systems.UnitSystem
	crafting     *systems.CraftingSystem
	construction *systems.ConstructionSystem

	// Entity mappers
	structMapper *ecs.Map7[components.Structure, components.Position, components.Emitter,
		components.Crafting, components.InputInventory, components.OutputInventory,
		components.StorageInventory]
	unitMapper *ecs.Map8[components.Unit, components.Position, components.Goal,
		components.Impatience, components.Energy, components.Held,
		components.CurrentAction, components.Emitter]
	ghostMapper *ecs.Map4[components.Ghost, components.Position, components.Emitter,
		components.InputInventory]
	demolishMap *ecs.Map[components.MarkedForDemolition]

	// Filters for sampling and cleanup
	unitFilter      ecs.Filter3[components.Unit, components.Position, components.Energy]
	structFilter    ecs.Filter2[components.Structure, components.Position]
	ghostFilter     ecs.Filter2[components.Ghost, components.Position]
	unitStateFilter ecs.Filter6[components.Unit, components.Position, components.Goal,
		components.Impatience, components.Energy, components.Held]

	// Component lookups for snapshots
	craftingMap *ecs.Map[components.Crafting]
	inputMap    *ecs.Map[components.InputInventory]
	outputMap   *ecs.Map[components.OutputInventory]
	storageMap  *ecs.Map[components.StorageInventory]

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	snapshotDB    *telemetry.SnapshotDB
	pendingEvents []telemetry.Event

	statsCallback func(telemetry.WindowStats)

	tick          int64
	seed          int64
	logStats      bool
	snapshotEvery int64

	unitCount      int
	structureCount int
	ghostCount     int
}

// NewGame creates a colony from the loaded config and the given
// options, generating terrain and the starting population.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()
	geom := systems.NewMapGeometry(cfg.Map.Radius)

	signalField := systems.NewSignalField(geom)
	pulseField := systems.NewPulseField(geom)
	selector := systems.NewGoalSelector(uint64(opts.Seed))
	planner := systems.NewActionPlanner(world, geom, signalField, pulseField, selector)

	windowTicks := int64(cfg.Telemetry.StatsWindow)
	if opts.StatsWindow > 0 {
		windowTicks = opts.StatsWindow
	}
	snapshotEvery := opts.SnapshotEvery
	if snapshotEvery <= 0 {
		snapshotEvery = windowTicks
	}

	g := &Game{
		world: world,
		geom:  geom,
		rng:   rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0xda3e39cb94b95bdb)),

		signalField: signalField,
		pulseField:  pulseField,

		emitters:     systems.NewEmitterSystem(world),
		selector:     selector,
		planner:      planner,
		units:        systems.NewUnitSystem(world, planner, selector, signalField),
		crafting:     systems.NewCraftingSystem(world),
		construction: systems.NewConstructionSystem(world),

		structMapper: ecs.NewMap7[components.Structure, components.Position, components.Emitter,
			components.Crafting, components.InputInventory, components.OutputInventory,
			components.StorageInventory](world),
		unitMapper: ecs.NewMap8[components.Unit, components.Position, components.Goal,
			components.Impatience, components.Energy, components.Held,
			components.CurrentAction, components.Emitter](world),
		ghostMapper: ecs.NewMap4[components.Ghost, components.Position, components.Emitter,
			components.InputInventory](world),
		demolishMap: ecs.NewMap[components.MarkedForDemolition](world),

		unitFilter:   *ecs.NewFilter3[components.Unit, components.Position, components.Energy](world),
		structFilter: *ecs.NewFilter2[components.Structure, components.Position](world),
		ghostFilter:  *ecs.NewFilter2[components.Ghost, components.Position](world),
		unitStateFilter: *ecs.NewFilter6[components.Unit, components.Position, components.Goal,
			components.Impatience, components.Energy, components.Held](world),

		craftingMap: ecs.NewMap[components.Crafting](world),
		inputMap:    ecs.NewMap[components.InputInventory](world),
		outputMap:   ecs.NewMap[components.OutputInventory](world),
		storageMap:  ecs.NewMap[components.StorageInventory](world),

		collector:     telemetry.NewCollector(windowTicks),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),

		statsCallback: opts.StatsCallback,

		seed:          opts.Seed,
		logStats:      opts.LogStats,
		snapshotEvery: snapshotEvery,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
	}

	if opts.SnapshotPath != "" {
		db, err := telemetry.OpenSnapshotDB(opts.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("snapshot db: %w", err)
		}
		g.snapshotDB = db
	}

	systems.GenerateTerrain(geom, opts.Seed)
	g.spawnInitialPopulation()

	return g, nil
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// World exposes the entity world for inspection.
func (g *Game) World() *ecs.World {
	return g.world
}

// Geometry exposes the arena.
func (g *Game) Geometry() *systems.MapGeometry {
	return g.geom
}

// Signals exposes the diffusion field.
func (g *Game) Signals() *systems.SignalField {
	return g.signalField
}

// Counts returns the current population totals.
func (g *Game) Counts() (units, structures, ghosts int) {
	return g.unitCount, g.structureCount, g.ghostCount
}

// Close flushes and releases output resources.
func (g *Game) Close() error {
	var firstErr error
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			firstErr = err
		}
	}
	if g.snapshotDB != nil {
		if err := g.snapshotDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
