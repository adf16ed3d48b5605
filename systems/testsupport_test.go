package systems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

// reloadConfig swaps the global config for one with the given YAML
// overrides, restoring defaults when the test ends.
func reloadConfig(t *testing.T, overrides string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(overrides), 0644); err != nil {
		t.Fatal(err)
	}
	config.MustInit(path)
	t.Cleanup(func() { config.MustInit("") })
}

// openGeometry returns an arena with every tile passable.
func openGeometry(radius int) *MapGeometry {
	return NewMapGeometry(radius)
}

// testWorld bundles a world with the mappers tests spawn entities
// through.
type testWorld struct {
	w *ecs.World

	structMapper *ecs.Map7[components.Structure, components.Position, components.Emitter,
		components.Crafting, components.InputInventory, components.OutputInventory,
		components.StorageInventory]
	unitMapper *ecs.Map8[components.Unit, components.Position, components.Goal,
		components.Impatience, components.Energy, components.Held,
		components.CurrentAction, components.Emitter]
	ghostMapper *ecs.Map4[components.Ghost, components.Position, components.Emitter,
		components.InputInventory]
	demolishMapper *ecs.Map[components.MarkedForDemolition]
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		w: w,
		structMapper: ecs.NewMap7[components.Structure, components.Position, components.Emitter,
			components.Crafting, components.InputInventory, components.OutputInventory,
			components.StorageInventory](w),
		unitMapper: ecs.NewMap8[components.Unit, components.Position, components.Goal,
			components.Impatience, components.Energy, components.Held,
			components.CurrentAction, components.Emitter](w),
		ghostMapper: ecs.NewMap4[components.Ghost, components.Position, components.Emitter,
			components.InputInventory](w),
		demolishMapper: ecs.NewMap[components.MarkedForDemolition](w),
	}
}

// spawnStructure creates a structure entity and registers it on the
// arena. Inventories hold one slot per item passed.
func (tw *testWorld) spawnStructure(geom *MapGeometry, kind components.StructureID,
	h hexgrid.Hex, recipe uint8, outputItems, storageItems, inputItems []components.ItemID,
	capacity int32) ecs.Entity {

	structure := components.Structure{Kind: kind}
	pos := components.Position{Hex: h}
	emitter := components.Emitter{}
	crafting := components.Crafting{Recipe: recipe}
	input := components.InputInventory{Inventory: NewInventory(inputItems, capacity)}
	output := components.OutputInventory{Inventory: NewInventory(outputItems, capacity)}
	storage := components.StorageInventory{Inventory: NewInventory(storageItems, capacity)}

	e := tw.structMapper.NewEntity(&structure, &pos, &emitter, &crafting, &input, &output, &storage)
	geom.PlaceStructure(h, e)
	return e
}

// Component accessors for assertions.

func (tw *testWorld) crafting(e ecs.Entity) *components.Crafting {
	return ecs.NewMap[components.Crafting](tw.w).Get(e)
}

func (tw *testWorld) ghostComp(e ecs.Entity) *components.Ghost {
	return ecs.NewMap[components.Ghost](tw.w).Get(e)
}

func (tw *testWorld) input(e ecs.Entity) *components.InputInventory {
	return ecs.NewMap[components.InputInventory](tw.w).Get(e)
}

func (tw *testWorld) output(e ecs.Entity) *components.OutputInventory {
	return ecs.NewMap[components.OutputInventory](tw.w).Get(e)
}

func (tw *testWorld) storage(e ecs.Entity) *components.StorageInventory {
	return ecs.NewMap[components.StorageInventory](tw.w).Get(e)
}

// spawnUnit creates a unit entity with full energy and an expired
// idle action, ready to plan on its first tick.
func (tw *testWorld) spawnUnit(kind components.UnitID, h hexgrid.Hex) ecs.Entity {
	cfg := config.Cfg().Units[kind]
	unit := components.Unit{Kind: kind}
	pos := components.Position{Hex: h}
	goal := components.Goal{Kind: components.GoalWander}
	imp := components.Impatience{Max: int32(cfg.MaxImpatience)}
	energy := components.Energy{Current: float32(cfg.MaxEnergy), Max: float32(cfg.MaxEnergy)}
	held := components.Held{Item: components.ItemNone}
	action := components.Idle(1)
	emitter := components.Emitter{}

	return tw.unitMapper.NewEntity(&unit, &pos, &goal, &imp, &energy, &held, &action, &emitter)
}
