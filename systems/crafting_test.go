package systems

import (
	"testing"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// Default recipes: 0 = grow_leaf (no inputs, no workers, 120 ticks),
// 1 = digest_leaf (1 leaf in, 1 chunk out, workers, 60 ticks).

func TestCraftingCycleWithoutWorkers(t *testing.T) {
	tw := newTestWorld()
	geom := openGeometry(2)
	sys := NewCraftingSystem(tw.w)

	e := tw.spawnStructure(geom, 0, hexgrid.Hex{}, 0,
		[]components.ItemID{0}, nil, nil, 3)
	crafting := tw.crafting(e)

	// No inputs required: the first tick starts the cycle.
	stats := sys.Update()
	if stats.Started != 1 || crafting.Phase != components.CraftInProgress {
		t.Fatalf("cycle did not start: %+v phase=%v", stats, crafting.Phase)
	}

	ticks := config.Cfg().Recipes[0].Ticks
	for i := 0; i < ticks; i++ {
		sys.Update()
	}
	// One more step moves the finished output out.
	sys.Update()

	if got := tw.output(e).CountOf(0); got != 1 {
		t.Errorf("output holds %d leaves, want 1", got)
	}
	if crafting.Phase == components.CraftFinished {
		t.Errorf("cycle did not restart, phase=%v", crafting.Phase)
	}
}

func TestWorkerRecipeStallsWithoutWork(t *testing.T) {
	tw := newTestWorld()
	geom := openGeometry(2)
	sys := NewCraftingSystem(tw.w)

	e := tw.spawnStructure(geom, 1, hexgrid.Hex{}, 1,
		[]components.ItemID{1}, nil, []components.ItemID{0}, 3)
	tw.input(e).Add(0, 1)
	crafting := tw.crafting(e)

	sys.Update()
	if crafting.Phase != components.CraftInProgress {
		t.Fatal("inputs present, cycle should start")
	}
	if got := tw.input(e).CountOf(0); got != 0 {
		t.Errorf("inputs not consumed, %d left", got)
	}
	left := crafting.TicksLeft

	// Without workers the timer must not advance.
	for i := 0; i < 5; i++ {
		sys.Update()
	}
	if crafting.TicksLeft != left {
		t.Errorf("timer advanced without workers: %d -> %d", left, crafting.TicksLeft)
	}

	// A work mark advances one tick and is consumed.
	crafting.WorkedOn = true
	sys.Update()
	if crafting.TicksLeft != left-1 {
		t.Errorf("timer = %d, want %d after one worked tick", crafting.TicksLeft, left-1)
	}
	if crafting.WorkedOn {
		t.Error("work mark should be cleared after the step")
	}
}

func TestCraftingBlockedByFullOutput(t *testing.T) {
	tw := newTestWorld()
	geom := openGeometry(2)
	sys := NewCraftingSystem(tw.w)

	e := tw.spawnStructure(geom, 0, hexgrid.Hex{}, 0,
		[]components.ItemID{0}, nil, nil, 1)
	tw.output(e).Add(0, 1)
	crafting := tw.crafting(e)
	crafting.Phase = components.CraftFinished

	stats := sys.Update()
	if stats.Blocked != 1 {
		t.Errorf("blocked = %d, want 1", stats.Blocked)
	}
	if crafting.Phase != components.CraftFinished {
		t.Error("blocked cycle must hold its output")
	}

	// Making room releases the cycle.
	tw.output(e).Remove(0, 1)
	stats = sys.Update()
	if stats.Finished != 1 {
		t.Errorf("finished = %d, want 1 after room was made", stats.Finished)
	}
}

func TestStructureWithoutRecipeIgnored(t *testing.T) {
	tw := newTestWorld()
	geom := openGeometry(2)
	sys := NewCraftingSystem(tw.w)

	tw.spawnStructure(geom, 2, hexgrid.Hex{}, components.RecipeNone, nil,
		[]components.ItemID{0}, nil, 5)
	stats := sys.Update()
	if stats.Started != 0 || stats.Finished != 0 {
		t.Errorf("passive structure crafted: %+v", stats)
	}
}
