package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
	"github.com/pthm-cable/brood/systems"
	"github.com/pthm-cable/brood/telemetry"
)

// spawnInitialPopulation scatters the configured starting structures,
// ghosts and units over open terrain.
func (g *Game) spawnInitialPopulation() {
	structures, ghosts, units := systems.PlanPlacements(g.geom, g.rng)
	for _, p := range structures {
		g.SpawnStructure(p.Kind, p.Hex)
	}
	for _, p := range ghosts {
		g.SpawnGhost(p.Kind, p.Hex)
	}
	for _, p := range units {
		g.SpawnUnit(p.Kind, p.Hex)
	}
}

// SpawnUnit creates a unit at full energy with an expired idle action,
// so it plans on its first tick. A blocked tile diverts the spawn to a
// random walkable neighbor.
func (g *Game) SpawnUnit(kind components.UnitID, h hexgrid.Hex) ecs.Entity {
	spec := &config.Cfg().Units[kind]

	if !g.geom.Passable(h) {
		n, ok := g.geom.RandomPassableNeighbor(h, nil, g.rng)
		if !ok {
			return ecs.Entity{}
		}
		h = n
	}

	unit := components.Unit{Kind: kind}
	pos := components.Position{Hex: h}
	goal := components.Goal{Kind: components.GoalWander}
	imp := components.Impatience{Max: int32(spec.MaxImpatience)}
	energy := components.Energy{
		Current: float32(spec.MaxEnergy),
		Max:     float32(spec.MaxEnergy),
	}
	held := components.Held{Item: components.ItemNone}
	action := components.Idle(1)
	emitter := components.Emitter{}

	e := g.unitMapper.NewEntity(&unit, &pos, &goal, &imp, &energy, &held, &action, &emitter)
	g.geom.PlaceUnit(h, e)
	g.unitCount++
	g.collector.RecordSpawn()
	g.pendingEvents = append(g.pendingEvents, telemetry.NewSpawnEvent(g.tick, kind))
	return e
}

// SpawnStructure creates a finished structure on the given tile.
// Returns the zero entity if the tile is not open.
func (g *Game) SpawnStructure(kind components.StructureID, h hexgrid.Hex) ecs.Entity {
	cfg := config.Cfg()
	spec := &cfg.Structures[kind]

	structure := components.Structure{Kind: kind}
	pos := components.Position{Hex: h}
	emitter := components.Emitter{}

	crafting := components.Crafting{Recipe: components.RecipeNone}
	input := components.InputInventory{}
	output := components.OutputInventory{}
	if spec.Recipe != "" {
		recipeID := cfg.Derived.RecipeIndex[spec.Recipe]
		recipe := &cfg.Recipes[recipeID]
		crafting.Recipe = recipeID
		input.Inventory = systems.NewInventory(
			itemIDs(cfg, recipe.Inputs), int32(spec.InputCapacity))
		output.Inventory = systems.NewInventory(
			itemIDs(cfg, recipe.Outputs), int32(spec.OutputCapacity))
	}

	storage := components.StorageInventory{}
	if len(spec.Stores) > 0 {
		items := make([]components.ItemID, len(spec.Stores))
		for i, name := range spec.Stores {
			items[i] = components.ItemID(cfg.Derived.ItemIndex[name])
		}
		storage.Inventory = systems.NewInventory(items, int32(spec.StorageCapacity))
	}

	e := g.structMapper.NewEntity(&structure, &pos, &emitter, &crafting, &input, &output, &storage)
	if !g.geom.PlaceStructure(h, e) {
		g.structMapper.Remove(e)
		return ecs.Entity{}
	}
	g.structureCount++
	return e
}

// SpawnGhost creates a planned structure waiting for build materials.
// Returns the zero entity if the tile is not open.
func (g *Game) SpawnGhost(kind components.StructureID, h hexgrid.Hex) ecs.Entity {
	cfg := config.Cfg()
	spec := &cfg.Structures[kind]

	ghost := components.Ghost{Kind: kind}
	pos := components.Position{Hex: h}
	emitter := components.Emitter{}

	// One slot per material, sized to the required count.
	slots := make([]components.ItemSlot, len(spec.BuildMaterials))
	for i, m := range spec.BuildMaterials {
		slots[i] = components.ItemSlot{
			Item:     components.ItemID(cfg.Derived.ItemIndex[m.Item]),
			Capacity: int32(m.Count),
		}
	}
	input := components.InputInventory{Inventory: components.Inventory{Slots: slots}}

	e := g.ghostMapper.NewEntity(&ghost, &pos, &emitter, &input)
	if !g.geom.PlaceStructure(h, e) {
		g.ghostMapper.Remove(e)
		return ecs.Entity{}
	}
	g.ghostCount++
	return e
}

// MarkForDemolition condemns the structure on the given tile. Units
// answering the demolish call accumulate progress until it comes down.
func (g *Game) MarkForDemolition(h hexgrid.Hex) bool {
	e, ok := g.geom.StructureAt(h)
	if !ok {
		return false
	}
	structMap := ecs.NewMap[components.Structure](g.world)
	if !structMap.Has(e) {
		// Ghosts cannot be condemned.
		return false
	}
	if g.demolishMap.Has(e) {
		return true
	}
	structure := structMap.Get(e)
	spec := &config.Cfg().Structures[structure.Kind]
	g.demolishMap.Add(e, &components.MarkedForDemolition{
		Required: int32(spec.DemolishTicks),
	})
	return true
}

// applyConstruction swaps completed ghosts for real structures and
// removes demolished ones. Runs outside any query.
func (g *Game) applyConstruction(completions []systems.GhostCompletion,
	demolitions []systems.Demolition) {

	for _, c := range completions {
		g.ghostMapper.Remove(c.Entity)
		g.geom.RemoveStructure(c.Hex)
		g.ghostCount--

		g.SpawnStructure(c.Kind, c.Hex)
		g.collector.RecordGhostCompleted()
		g.pendingEvents = append(g.pendingEvents, telemetry.NewGhostCompletedEvent(g.tick, c.Kind))
	}

	for _, d := range demolitions {
		structure := ecs.NewMap[components.Structure](g.world).Get(d.Entity)
		kind := structure.Kind

		g.salvageStock(d.Entity, d.Hex)
		g.structMapper.Remove(d.Entity)
		g.geom.RemoveStructure(d.Hex)
		g.structureCount--

		g.collector.RecordDemolition()
		g.pendingEvents = append(g.pendingEvents, telemetry.NewDemolitionEvent(g.tick, kind))
	}
}

// salvageStock moves a condemned structure's remaining output and
// storage stock into adjacent storage before the entity goes away.
// Whatever no neighbor can hold is lost with the building.
func (g *Game) salvageStock(e ecs.Entity, h hexgrid.Hex) {
	var sources []*components.Inventory
	if g.outputMap.Has(e) {
		sources = append(sources, &g.outputMap.Get(e).Inventory)
	}
	if g.storageMap.Has(e) {
		sources = append(sources, &g.storageMap.Get(e).Inventory)
	}

	for _, n := range h.Neighbors() {
		ne, ok := g.geom.StructureAt(n)
		if !ok || ne == e || !g.storageMap.Has(ne) {
			continue
		}
		dst := &g.storageMap.Get(ne).Inventory
		for _, src := range sources {
			for _, slot := range src.Slots {
				if slot.Count > 0 {
					systems.Transfer(src, dst, slot.Item, slot.Count)
				}
			}
		}
	}
}

// removeStarved sweeps out units whose energy hit zero. Collection
// runs before any removal so query iteration stays valid.
func (g *Game) removeStarved() {
	type starvedInfo struct {
		entity ecs.Entity
		kind   components.UnitID
		hex    hexgrid.Hex
	}
	var toRemove []starvedInfo

	query := g.unitFilter.Query()
	for query.Next() {
		unit, pos, energy := query.Get()
		if energy.Current <= 0 {
			toRemove = append(toRemove, starvedInfo{
				entity: query.Entity(), kind: unit.Kind, hex: pos.Hex,
			})
		}
	}

	for _, dead := range toRemove {
		g.geom.RemoveUnit(dead.hex, dead.entity)
		g.unitMapper.Remove(dead.entity)
		g.unitCount--
		g.collector.RecordStarvation()
		g.pendingEvents = append(g.pendingEvents, telemetry.NewStarvationEvent(g.tick, dead.kind))
	}
}

// itemIDs resolves counted item names to IDs, one per entry.
func itemIDs(cfg *config.Config, counted []config.CountedItemConfig) []components.ItemID {
	ids := make([]components.ItemID, len(counted))
	for i, c := range counted {
		ids[i] = components.ItemID(cfg.Derived.ItemIndex[c.Item])
	}
	return ids
}
