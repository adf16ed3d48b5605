package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/telemetry"
)

// flushTelemetry closes the stats window when it is full and persists
// the aggregates.
func (g *Game) flushTelemetry() {
	if g.snapshotDB != nil && len(g.pendingEvents) > 0 {
		if err := g.snapshotDB.AppendEvents(g.pendingEvents); err != nil {
			slog.Error("failed to append events", "error", err)
		}
		g.pendingEvents = g.pendingEvents[:0]
	} else if len(g.pendingEvents) > 4096 {
		// No event sink attached, cap the backlog.
		g.pendingEvents = g.pendingEvents[:0]
	}

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	energies := g.sampleUnitEnergies()

	stats := g.collector.Flush(g.tick,
		g.unitCount, g.structureCount, g.ghostCount,
		energies,
		telemetry.FieldSample{
			SignalTotal:    g.signalField.Mass(),
			SignalChannels: g.signalField.ChannelCount(),
			PulseCount:     g.pulseField.Count(),
		})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	if g.snapshotDB != nil && g.tick%g.snapshotEvery == 0 {
		if err := g.snapshotDB.SaveSnapshot(g.buildSnapshot()); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
}

// sampleUnitEnergies collects energy values for percentile
// calculation.
func (g *Game) sampleUnitEnergies() []float64 {
	energies := make([]float64, 0, g.unitCount)
	query := g.unitFilter.Query()
	for query.Next() {
		_, _, energy := query.Get()
		energies = append(energies, float64(energy.Current))
	}
	return energies
}

// buildSnapshot captures the full world state.
func (g *Game) buildSnapshot() *telemetry.SnapshotState {
	s := &telemetry.SnapshotState{
		Version: telemetry.SnapshotVersion,
		Seed:    g.seed,
		Radius:  g.geom.Radius(),
		Tick:    g.tick,
	}

	for _, h := range g.geom.Tiles() {
		s.Tiles = append(s.Tiles, telemetry.TileState{
			Q: h.Q, R: h.R, Passable: g.geom.Passable(h),
		})
	}

	// Snapshot-local IDs; only slot ownership depends on them.
	var nextID uint32

	structs := g.structFilter.Query()
	for structs.Next() {
		structure, pos := structs.Get()
		e := structs.Entity()
		nextID++

		state := telemetry.StructureState{
			ID:   nextID,
			Kind: uint8(structure.Kind),
			Q:    pos.Hex.Q,
			R:    pos.Hex.R,
		}
		if crafting := g.craftingOf(e); crafting != nil {
			state.Phase = uint8(crafting.Phase)
			state.TicksLeft = crafting.TicksLeft
		}
		state.Input = slotStates(g.inputOf(e))
		state.Output = slotStates(g.outputOf(e))
		state.Storage = slotStates(g.storageOf(e))
		s.Structures = append(s.Structures, state)
	}

	ghosts := g.ghostFilter.Query()
	for ghosts.Next() {
		ghost, pos := ghosts.Get()
		e := ghosts.Entity()
		nextID++
		s.Ghosts = append(s.Ghosts, telemetry.GhostState{
			ID:    nextID,
			Kind:  uint8(ghost.Kind),
			Q:     pos.Hex.Q,
			R:     pos.Hex.R,
			Input: slotStates(g.inputOf(e)),
		})
	}

	units := g.unitStateFilter.Query()
	for units.Next() {
		unit, pos, goal, imp, energy, held := units.Get()
		nextID++
		s.Units = append(s.Units, telemetry.UnitState{
			ID:         nextID,
			Kind:       uint8(unit.Kind),
			Q:          pos.Hex.Q,
			R:          pos.Hex.R,
			Goal:       uint8(goal.Kind),
			GoalItem:   uint8(goal.Item),
			Energy:     float64(energy.Current),
			Held:       uint8(held.Item),
			Impatience: imp.Current,
		})
	}

	return s
}

func (g *Game) craftingOf(e ecs.Entity) *components.Crafting {
	if !g.craftingMap.Has(e) {
		return nil
	}
	return g.craftingMap.Get(e)
}

func (g *Game) inputOf(e ecs.Entity) *components.Inventory {
	if !g.inputMap.Has(e) {
		return nil
	}
	return &g.inputMap.Get(e).Inventory
}

func (g *Game) outputOf(e ecs.Entity) *components.Inventory {
	if !g.outputMap.Has(e) {
		return nil
	}
	return &g.outputMap.Get(e).Inventory
}

func (g *Game) storageOf(e ecs.Entity) *components.Inventory {
	if !g.storageMap.Has(e) {
		return nil
	}
	return &g.storageMap.Get(e).Inventory
}

func slotStates(inv *components.Inventory) []telemetry.SlotState {
	if inv == nil {
		return nil
	}
	states := make([]telemetry.SlotState, len(inv.Slots))
	for i, slot := range inv.Slots {
		states[i] = telemetry.SlotState{
			Item:     uint8(slot.Item),
			Count:    slot.Count,
			Capacity: slot.Capacity,
		}
	}
	return states
}
