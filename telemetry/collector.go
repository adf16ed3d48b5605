package telemetry

import (
	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/systems"
)

// Collector accumulates events within tick windows and produces
// WindowStats.
type Collector struct {
	windowTicks int64

	windowStartTick int64

	// Event counters for current window
	spawned         int
	starved         int
	completed       [components.ActionCount]int
	hungerStops     int
	craftsStarted   int
	craftsFinished  int
	craftsBlocked   int
	ghostsCompleted int
	demolitions     int
}

// NewCollector creates a stats collector flushing every windowTicks.
func NewCollector(windowTicks int64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordSpawn records a unit entering the world.
func (c *Collector) RecordSpawn() {
	c.spawned++
}

// RecordStarvation records a unit removed with empty reserves.
func (c *Collector) RecordStarvation() {
	c.starved++
}

// RecordUnitTick folds one tick of unit behavior into the window.
func (c *Collector) RecordUnitTick(stats systems.UnitTickStats) {
	for kind, n := range stats.Completed {
		c.completed[kind] += int(n)
	}
	c.hungerStops += int(stats.HungerOverrides)
}

// RecordCraftingTick folds one tick of crafting activity into the
// window.
func (c *Collector) RecordCraftingTick(stats systems.CraftingStats) {
	c.craftsStarted += int(stats.Started)
	c.craftsFinished += int(stats.Finished)
	c.craftsBlocked += int(stats.Blocked)
}

// RecordGhostCompleted records a ghost turning into a structure.
func (c *Collector) RecordGhostCompleted() {
	c.ghostsCompleted++
}

// RecordDemolition records a structure being torn down.
func (c *Collector) RecordDemolition() {
	c.demolitions++
}

// ShouldFlush returns true once the current window is full.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// FieldSample carries the signal field gauges sampled at flush time.
type FieldSample struct {
	SignalTotal    float64
	SignalChannels int
	PulseCount     int
}

// Flush produces a WindowStats and resets counters for the next
// window. Population counts and unit energies are sampled by the
// caller at window end.
func (c *Collector) Flush(
	currentTick int64,
	unitCount, structureCount, ghostCount int,
	energies []float64,
	field FieldSample,
) WindowStats {
	mean, p10, p50, p90 := ComputeEnergyStats(energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		UnitCount:      unitCount,
		StructureCount: structureCount,
		GhostCount:     ghostCount,

		UnitsSpawned: c.spawned,
		UnitsStarved: c.starved,

		Moves:       c.completed[components.ActionMove],
		PickUps:     c.completed[components.ActionPickUp],
		DropOffs:    c.completed[components.ActionDropOff],
		Eats:        c.completed[components.ActionEat],
		Works:       c.completed[components.ActionWork],
		Demolishes:  c.completed[components.ActionDemolish],
		Abandons:    c.completed[components.ActionAbandon],
		IdleTicks:   c.completed[components.ActionIdle],
		HungerStops: c.hungerStops,

		CraftsStarted:   c.craftsStarted,
		CraftsFinished:  c.craftsFinished,
		CraftsBlocked:   c.craftsBlocked,
		GhostsCompleted: c.ghostsCompleted,
		Demolitions:     c.demolitions,

		EnergyMean: mean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		SignalTotal:    field.SignalTotal,
		SignalChannels: field.SignalChannels,
		PulseCount:     field.PulseCount,
	}

	c.windowStartTick = currentTick
	c.spawned = 0
	c.starved = 0
	c.completed = [components.ActionCount]int{}
	c.hungerStops = 0
	c.craftsStarted = 0
	c.craftsFinished = 0
	c.craftsBlocked = 0
	c.ghostsCompleted = 0
	c.demolitions = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
