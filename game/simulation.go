package game

import (
	"github.com/pthm-cable/brood/telemetry"
)

// Step runs a single tick of the simulation.
//
// The phase order is fixed: emissions land in the field before it
// diffuses, units read the settled field, production and construction
// react to what the units did, and the starvation sweep runs last so
// a unit never acts after its energy hits zero.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseEmitters)
	g.emitters.Update(g.signalField)

	g.perfCollector.StartPhase(telemetry.PhaseSignals)
	g.signalField.Tick()

	g.perfCollector.StartPhase(telemetry.PhasePulses)
	g.pulseField.Tick()

	g.perfCollector.StartPhase(telemetry.PhaseUnits)
	unitStats := g.units.Update()
	g.collector.RecordUnitTick(unitStats)

	g.perfCollector.StartPhase(telemetry.PhaseCrafting)
	craftStats := g.crafting.Update()
	g.collector.RecordCraftingTick(craftStats)
	if craftStats.Finished > 0 {
		g.pendingEvents = append(g.pendingEvents, telemetry.NewCraftFinishedEvent(g.tick, craftStats.Finished))
	}

	g.perfCollector.StartPhase(telemetry.PhaseConstruction)
	completions, demolitions := g.construction.Update()
	g.applyConstruction(completions, demolitions)

	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.removeStarved()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Run advances the simulation maxTicks steps. Zero runs forever.
func (g *Game) Run(maxTicks int64) {
	for maxTicks <= 0 || g.tick < maxTicks {
		g.Step()
	}
}
