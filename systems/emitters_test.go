package systems

import (
	"testing"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/hexgrid"
)

func newEmitterWorld(radius int) (*testWorld, *MapGeometry, *EmitterSystem, *SignalField) {
	tw := newTestWorld()
	geom := openGeometry(radius)
	return tw, geom, NewEmitterSystem(tw.w), NewSignalField(geom)
}

func TestOutputPushScalesWithFill(t *testing.T) {
	tw, geom, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 1, R: 0}
	target := tw.spawnStructure(geom, 0, h, components.RecipeNone,
		[]components.ItemID{0}, nil, nil, 4)
	tw.output(target).Add(0, 2)

	emitters.Update(field)

	push := field.Get(components.Signal{Class: components.SignalPush, Item: 0}, h)
	if push != 0.5 { // Half-full slot at unit strength.
		t.Fatalf("push = %v, want 0.5", push)
	}
	contains := field.Get(components.Signal{Class: components.SignalContains, Item: 0}, h)
	if contains <= 0 {
		t.Errorf("contains = %v, want positive", contains)
	}
}

func TestEmptyOutputStopsAdvertising(t *testing.T) {
	tw, geom, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 1, R: 0}
	target := tw.spawnStructure(geom, 0, h, components.RecipeNone,
		[]components.ItemID{0}, nil, nil, 4)
	tw.output(target).Add(0, 1)

	emitters.Update(field)
	if removed := tw.output(target).Remove(0, 1); removed != 1 {
		t.Fatalf("removed %d items, want 1", removed)
	}

	fresh := NewSignalField(geom)
	emitters.Update(fresh)
	if got := fresh.Get(components.Signal{Class: components.SignalPush, Item: 0}, h); got != 0 {
		t.Fatalf("push = %v after output emptied, want 0", got)
	}
}

func TestCraftingPullsMissingInputs(t *testing.T) {
	tw, geom, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 1, R: 0}
	target := tw.spawnStructure(geom, 1, h, 1,
		[]components.ItemID{1}, nil, []components.ItemID{0}, 2)

	emitters.Update(field)

	pull := field.Get(components.Signal{Class: components.SignalPull, Item: 0}, h)
	if pull != 1.0 {
		t.Fatalf("pull = %v, want 1.0", pull)
	}

	// Satisfied inputs stop the pull.
	tw.input(target).Add(0, 1)
	fresh := NewSignalField(geom)
	emitters.Update(fresh)
	if got := fresh.Get(components.Signal{Class: components.SignalPull, Item: 0}, h); got != 0 {
		t.Errorf("pull = %v with inputs satisfied, want 0", got)
	}
}

func TestWorkSignalWhileRecipeNeedsWorkers(t *testing.T) {
	tw, geom, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 1, R: 0}
	target := tw.spawnStructure(geom, 1, h, 1,
		[]components.ItemID{1}, nil, []components.ItemID{0}, 2)
	tw.crafting(target).Phase = components.CraftInProgress
	tw.crafting(target).TicksLeft = 60

	emitters.Update(field)

	work := field.Get(components.Signal{Class: components.SignalWork, Structure: 1}, h)
	if work != 0.5 {
		t.Fatalf("work = %v, want 0.5", work)
	}
}

func TestDemolitionMarkSilencesEverythingElse(t *testing.T) {
	tw, geom, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 1, R: 0}
	target := tw.spawnStructure(geom, 0, h, components.RecipeNone,
		[]components.ItemID{0}, nil, nil, 4)
	tw.output(target).Add(0, 3)
	tw.demolishMapper.Add(target, &components.MarkedForDemolition{Required: 30})

	emitters.Update(field)

	if got := field.Get(components.Signal{Class: components.SignalPush, Item: 0}, h); got != 0 {
		t.Errorf("push = %v from a condemned structure, want 0", got)
	}
	demolish := field.Get(components.Signal{Class: components.SignalDemolish, Structure: 0}, h)
	if demolish != 0.5 {
		t.Errorf("demolish = %v, want 0.5", demolish)
	}
}

func TestGhostPullsBuildMaterials(t *testing.T) {
	tw, geom, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 0, R: 1}
	ghost := components.Ghost{Kind: 1}
	pos := components.Position{Hex: h}
	emitter := components.Emitter{}
	input := components.InputInventory{Inventory: NewInventory([]components.ItemID{1}, 2)}
	e := tw.ghostMapper.NewEntity(&ghost, &pos, &emitter, &input)

	emitters.Update(field)
	if got := field.Get(components.Signal{Class: components.SignalPull, Item: 1}, h); got != 1.0 {
		t.Fatalf("pull = %v for missing materials, want 1.0", got)
	}

	if got := field.Get(components.Signal{Class: components.SignalWork, Structure: 1}, h); got != 0 {
		t.Errorf("work = %v with materials missing, want 0", got)
	}

	// Fully stocked ghosts stop pulling and call for builders instead.
	tw.input(e).Add(1, 2)
	fresh := NewSignalField(geom)
	emitters.Update(fresh)
	if got := fresh.Get(components.Signal{Class: components.SignalPull, Item: 1}, h); got != 0 {
		t.Errorf("pull = %v with materials delivered, want 0", got)
	}
	if got := fresh.Get(components.Signal{Class: components.SignalWork, Structure: 1}, h); got != 0.5 {
		t.Errorf("work = %v with materials delivered, want 0.5", got)
	}
}

func TestGhostFallsSilentWhenBuildWorkDone(t *testing.T) {
	tw, geom, emitters, _ := newEmitterWorld(2)
	h := hexgrid.Hex{Q: 0, R: 1}
	ghost := components.Ghost{Kind: 1, Progress: 60}
	pos := components.Position{Hex: h}
	emitter := components.Emitter{}
	input := components.InputInventory{Inventory: NewInventory([]components.ItemID{1}, 2)}
	e := tw.ghostMapper.NewEntity(&ghost, &pos, &emitter, &input)
	tw.input(e).Add(1, 2)

	field := NewSignalField(geom)
	emitters.Update(field)
	if got := field.Get(components.Signal{Class: components.SignalWork, Structure: 1}, h); got != 0 {
		t.Errorf("work = %v after build work done, want 0", got)
	}
	if got := field.Get(components.Signal{Class: components.SignalPull, Item: 1}, h); got != 0 {
		t.Errorf("pull = %v after build work done, want 0", got)
	}
}

func TestUnitsEmitPresence(t *testing.T) {
	tw, _, emitters, field := newEmitterWorld(2)
	h := hexgrid.Hex{Q: -1, R: 0}
	tw.spawnUnit(0, h)

	emitters.Update(field)

	got := field.Get(components.Signal{Class: components.SignalUnit, UnitKind: 0}, h)
	if got != 0.01 {
		t.Fatalf("unit signal = %v, want 0.01", got)
	}
}
