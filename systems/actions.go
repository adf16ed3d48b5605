package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// moveWeightFloor keeps every walkable neighbor selectable even when
// repelling pulses outweigh every signal there.
const moveWeightFloor = 1e-3

// ActionPlanner decides a unit's next step from its goal and executes
// the effects of finished steps. Planning never mutates the world;
// only Apply does, and only for the one unit whose timer ran out.
type ActionPlanner struct {
	world    *ecs.World
	geom     *MapGeometry
	signals  *SignalField
	pulses   *PulseField
	selector *GoalSelector

	structureMap *ecs.Map[components.Structure]
	ghostMap     *ecs.Map[components.Ghost]
	craftingMap  *ecs.Map[components.Crafting]
	inputMap     *ecs.Map[components.InputInventory]
	outputMap    *ecs.Map[components.OutputInventory]
	storageMap   *ecs.Map[components.StorageInventory]
	demolishMap  *ecs.Map[components.MarkedForDemolition]

	weightCurve BottomClampedLine

	// Scratch buffers reused across units.
	neighbors []hexgrid.Hex
	weights   []float64
	atTile    []SignalValue
}

// NewActionPlanner creates a planner over the given world and fields.
func NewActionPlanner(w *ecs.World, geom *MapGeometry, signals *SignalField,
	pulses *PulseField, selector *GoalSelector) *ActionPlanner {

	return &ActionPlanner{
		world:        w,
		geom:         geom,
		signals:      signals,
		pulses:       pulses,
		selector:     selector,
		structureMap: ecs.NewMap[components.Structure](w),
		ghostMap:     ecs.NewMap[components.Ghost](w),
		craftingMap:  ecs.NewMap[components.Crafting](w),
		inputMap:     ecs.NewMap[components.InputInventory](w),
		outputMap:    ecs.NewMap[components.OutputInventory](w),
		storageMap:   ecs.NewMap[components.StorageInventory](w),
		demolishMap:  ecs.NewMap[components.MarkedForDemolition](w),
		weightCurve:  BottomClampedLine{Slope: 1, Min: moveWeightFloor},
	}
}

// Plan returns the next action for a unit whose previous action has
// finished. Failures to make progress increment impatience.
func (p *ActionPlanner) Plan(pos hexgrid.Hex, goal *components.Goal,
	held *components.Held, imp *components.Impatience) components.CurrentAction {

	acts := &config.Cfg().Actions

	switch goal.Kind {
	case components.GoalWander:
		return p.planWander(pos, held)

	case components.GoalPickup, components.GoalEat:
		return p.planAcquire(pos, goal, held, imp, acts)

	case components.GoalStore, components.GoalDeliver:
		return p.planUnload(pos, goal, held, imp, acts)

	case components.GoalWork:
		return p.planWork(pos, goal, imp, acts)

	case components.GoalDemolish:
		return p.planDemolish(pos, goal, imp, acts)
	}
	return components.Idle(int32(acts.IdleTicks))
}

// planWander drifts the unit one tile, preferring lure markers and
// avoiding repel markers. Held items are abandoned first so the unit
// starts its next commitment with free hands.
func (p *ActionPlanner) planWander(pos hexgrid.Hex, held *components.Held) components.CurrentAction {
	acts := &config.Cfg().Actions
	if !held.Empty() {
		return components.CurrentAction{
			Kind:      components.ActionAbandon,
			TicksLeft: int32(acts.AbandonTicks),
		}
	}

	p.neighbors = p.geom.WalkableNeighbors(pos, p.neighbors[:0])
	if len(p.neighbors) == 0 {
		return components.Idle(int32(acts.IdleTicks))
	}

	p.weights = p.weights[:0]
	for _, n := range p.neighbors {
		bias := p.pulses.Sample(PulseLure, n) - p.pulses.Sample(PulseRepel, n)
		p.weights = append(p.weights, float64(p.weightCurve.Eval(bias)))
	}
	dest, ok := p.pickWeighted(p.neighbors, p.weights)
	if !ok {
		return components.Idle(int32(acts.IdleTicks))
	}
	return components.CurrentAction{
		Kind:      components.ActionMove,
		TicksLeft: int32(acts.MoveTicks),
		Dest:      dest,
	}
}

// planAcquire fetches the goal item: grab it from an adjacent
// structure if possible, otherwise climb the relevant gradient.
func (p *ActionPlanner) planAcquire(pos hexgrid.Hex, goal *components.Goal,
	held *components.Held, imp *components.Impatience,
	acts *config.ActionsConfig) components.CurrentAction {

	if !held.Empty() {
		if held.Item != goal.Item {
			// Wrong item in hand; drop it before anything else.
			return components.CurrentAction{
				Kind:      components.ActionAbandon,
				TicksLeft: int32(acts.AbandonTicks),
			}
		}
		if goal.Kind == components.GoalEat {
			return components.CurrentAction{
				Kind:      components.ActionEat,
				TicksLeft: int32(acts.EatTicks),
				Item:      held.Item,
			}
		}
		// Holding the pickup target already; Apply promotes the goal.
		return components.Idle(int32(acts.IdleTicks))
	}

	if target, ok := p.findItemSource(pos, goal.Item); ok {
		return components.CurrentAction{
			Kind:      components.ActionPickUp,
			TicksLeft: int32(acts.PickUpTicks),
			Target:    target,
			Item:      goal.Item,
		}
	}
	return p.moveUpstreamOrIdle(pos, *goal, imp, acts)
}

// planUnload hands the held item to a wanting structure nearby, or
// climbs toward one.
func (p *ActionPlanner) planUnload(pos hexgrid.Hex, goal *components.Goal,
	held *components.Held, imp *components.Impatience,
	acts *config.ActionsConfig) components.CurrentAction {

	if held.Item != goal.Item {
		// The item is gone; the commitment is void. Apply resolves
		// this by reverting to wandering on the idle that follows.
		return components.Idle(int32(acts.IdleTicks))
	}

	if target, ok := p.findItemSink(pos, goal.Item, goal.Kind); ok {
		return components.CurrentAction{
			Kind:      components.ActionDropOff,
			TicksLeft: int32(acts.DropOffTicks),
			Target:    target,
			Item:      goal.Item,
		}
	}
	return p.moveUpstreamOrIdle(pos, *goal, imp, acts)
}

// planWork heads for a structure of the goal kind that wants workers.
// Both crafting structures mid-recipe and stocked ghosts qualify.
func (p *ActionPlanner) planWork(pos hexgrid.Hex, goal *components.Goal,
	imp *components.Impatience, acts *config.ActionsConfig) components.CurrentAction {

	for _, n := range pos.Neighbors() {
		e, ok := p.geom.StructureAt(n)
		if !ok || !p.world.Alive(e) {
			continue
		}
		if p.ghostMap.Has(e) {
			ghost := p.ghostMap.Get(e)
			if ghost.Kind != goal.Structure || !p.ghostWantsWork(e, ghost) {
				continue
			}
			return components.CurrentAction{
				Kind:      components.ActionWork,
				TicksLeft: int32(acts.WorkTicks),
				Target:    e,
			}
		}
		if !p.structureMap.Has(e) || p.structureMap.Get(e).Kind != goal.Structure {
			continue
		}
		if !p.craftingMap.Has(e) {
			continue
		}
		crafting := p.craftingMap.Get(e)
		if crafting.Phase != components.CraftInProgress {
			continue
		}
		return components.CurrentAction{
			Kind:      components.ActionWork,
			TicksLeft: int32(acts.WorkTicks),
			Target:    e,
		}
	}
	return p.moveUpstreamOrIdle(pos, *goal, imp, acts)
}

// ghostWantsWork reports whether a ghost has its materials and still
// needs build ticks.
func (p *ActionPlanner) ghostWantsWork(e ecs.Entity, ghost *components.Ghost) bool {
	cfg := config.Cfg()
	spec := &cfg.Structures[ghost.Kind]
	if ghost.Progress >= int32(spec.BuildTicks) {
		return false
	}
	if !p.inputMap.Has(e) {
		return false
	}
	input := p.inputMap.Get(e)
	for _, m := range spec.BuildMaterials {
		item := components.ItemID(cfg.Derived.ItemIndex[m.Item])
		if input.CountOf(item) < int32(m.Count) {
			return false
		}
	}
	return true
}

// planDemolish heads for a marked structure of the goal kind.
func (p *ActionPlanner) planDemolish(pos hexgrid.Hex, goal *components.Goal,
	imp *components.Impatience, acts *config.ActionsConfig) components.CurrentAction {

	for _, n := range pos.Neighbors() {
		e, ok := p.geom.StructureAt(n)
		if !ok || !p.world.Alive(e) || !p.demolishMap.Has(e) {
			continue
		}
		if !p.structureMap.Has(e) || p.structureMap.Get(e).Kind != goal.Structure {
			continue
		}
		return components.CurrentAction{
			Kind:      components.ActionDemolish,
			TicksLeft: int32(acts.DemolishTicks),
			Target:    e,
		}
	}
	return p.moveUpstreamOrIdle(pos, *goal, imp, acts)
}

// findItemSource looks for an adjacent structure offering the item
// from its output or storage.
func (p *ActionPlanner) findItemSource(pos hexgrid.Hex, item components.ItemID) (ecs.Entity, bool) {
	for _, n := range pos.Neighbors() {
		e, ok := p.geom.StructureAt(n)
		if !ok || !p.world.Alive(e) {
			continue
		}
		if p.outputMap.Has(e) && p.outputMap.Get(e).CountOf(item) > 0 {
			return e, true
		}
		if p.storageMap.Has(e) && p.storageMap.Get(e).CountOf(item) > 0 {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// findItemSink looks for an adjacent structure that wants the item.
// Deliveries go to inputs, stores go to storage.
func (p *ActionPlanner) findItemSink(pos hexgrid.Hex, item components.ItemID,
	kind components.GoalKind) (ecs.Entity, bool) {

	for _, n := range pos.Neighbors() {
		e, ok := p.geom.StructureAt(n)
		if !ok || !p.world.Alive(e) {
			continue
		}
		if kind == components.GoalDeliver {
			if p.inputMap.Has(e) && p.inputMap.Get(e).RoomFor(item) > 0 {
				return e, true
			}
		} else {
			if p.storageMap.Has(e) && p.storageMap.Get(e).RoomFor(item) > 0 {
				return e, true
			}
		}
	}
	return ecs.Entity{}, false
}

// moveUpstreamOrIdle climbs the gradient of signals relevant to the
// goal. When every direction is equally hopeless the unit drifts at
// random and grows more impatient; it idles only when boxed in.
func (p *ActionPlanner) moveUpstreamOrIdle(pos hexgrid.Hex, goal components.Goal,
	imp *components.Impatience, acts *config.ActionsConfig) components.CurrentAction {

	p.neighbors = p.geom.WalkableNeighbors(pos, p.neighbors[:0])
	if len(p.neighbors) == 0 {
		imp.Increment()
		return components.Idle(int32(acts.IdleTicks))
	}

	here := p.relevantSum(pos, goal)
	var anyBetter bool
	p.weights = p.weights[:0]
	for _, n := range p.neighbors {
		sum := p.relevantSum(n, goal)
		if sum > here {
			anyBetter = true
		}
		bias := sum + p.pulses.Sample(PulseLure, n) - p.pulses.Sample(PulseRepel, n)
		p.weights = append(p.weights, float64(p.weightCurve.Eval(bias)))
	}
	if !anyBetter && here <= 0 {
		// No trace of the goal anywhere nearby. Keep drifting on the
		// floored weights, but count the tick against patience.
		imp.Increment()
	}

	dest, ok := p.pickWeighted(p.neighbors, p.weights)
	if !ok {
		imp.Increment()
		return components.Idle(int32(acts.IdleTicks))
	}
	return components.CurrentAction{
		Kind:      components.ActionMove,
		TicksLeft: int32(acts.MoveTicks),
		Dest:      dest,
	}
}

// relevantSum totals the signals on a tile that bear on the goal.
func (p *ActionPlanner) relevantSum(h hexgrid.Hex, goal components.Goal) float32 {
	p.atTile = p.signals.SignalsAt(h, p.atTile[:0])
	var sum float32
	for _, sv := range p.atTile {
		if sv.Signal.Relevant(goal) {
			sum += sv.Value
		}
	}
	return sum
}

// pickWeighted samples one hex proportionally to the weights.
func (p *ActionPlanner) pickWeighted(options []hexgrid.Hex, weights []float64) (hexgrid.Hex, bool) {
	w := sampleuv.NewWeighted(weights, p.selector.Source())
	idx, ok := w.Take()
	if !ok {
		return hexgrid.Hex{}, false
	}
	return options[idx], true
}
