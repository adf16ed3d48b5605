package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
)

// EmitterSystem rebuilds every entity's signal contributions from its
// current state and deposits them into the signal field. Contributions
// are never carried between ticks; an emptied output stops advertising
// on the very next tick.
type EmitterSystem struct {
	structures ecs.Filter7[components.Structure, components.Position, components.Emitter,
		components.Crafting, components.InputInventory, components.OutputInventory,
		components.StorageInventory]
	ghosts ecs.Filter4[components.Ghost, components.Position, components.Emitter,
		components.InputInventory]
	units ecs.Filter3[components.Unit, components.Position, components.Emitter]

	demolishMap *ecs.Map[components.MarkedForDemolition]
}

// NewEmitterSystem creates the emitter system.
func NewEmitterSystem(w *ecs.World) *EmitterSystem {
	return &EmitterSystem{
		structures: *ecs.NewFilter7[components.Structure, components.Position, components.Emitter,
			components.Crafting, components.InputInventory, components.OutputInventory,
			components.StorageInventory](w),
		ghosts: *ecs.NewFilter4[components.Ghost, components.Position, components.Emitter,
			components.InputInventory](w),
		units:       *ecs.NewFilter3[components.Unit, components.Position, components.Emitter](w),
		demolishMap: ecs.NewMap[components.MarkedForDemolition](w),
	}
}

// Update recomputes contributions and emits them into the field.
func (s *EmitterSystem) Update(field *SignalField) {
	cfg := config.Cfg()

	query := s.structures.Query()
	for query.Next() {
		structure, pos, emitter, crafting, input, output, storage := query.Get()
		emitter.Reset()

		if s.demolishMap.Has(query.Entity()) {
			emitter.Add(components.Signal{
				Class:     components.SignalDemolish,
				Structure: structure.Kind,
			}, float32(cfg.Signals.Demolish.EmitStrength))
		} else {
			s.craftingSignals(structure, crafting, input, emitter, cfg)
			s.outputSignals(output, emitter, cfg)
			s.storageSignals(storage, emitter, cfg)
		}

		for _, c := range emitter.Signals {
			field.AddEmission(c.Signal, pos.Hex, c.Strength)
		}
	}

	ghosts := s.ghosts.Query()
	for ghosts.Next() {
		ghost, pos, emitter, input := ghosts.Get()
		emitter.Reset()

		// A ghost pulls every material it still lacks. Once stocked it
		// calls for builders until the work is done.
		spec := &cfg.Structures[ghost.Kind]
		stocked := true
		for _, m := range spec.BuildMaterials {
			item := components.ItemID(cfg.Derived.ItemIndex[m.Item])
			if input.CountOf(item) < int32(m.Count) {
				stocked = false
				emitter.Add(components.Signal{Class: components.SignalPull, Item: item},
					float32(cfg.Signals.Pull.EmitStrength))
			}
		}
		if stocked && ghost.Progress < int32(spec.BuildTicks) {
			emitter.Add(components.Signal{Class: components.SignalWork, Structure: ghost.Kind},
				float32(cfg.Signals.Work.EmitStrength))
		}

		for _, c := range emitter.Signals {
			field.AddEmission(c.Signal, pos.Hex, c.Strength)
		}
	}

	units := s.units.Query()
	for units.Next() {
		unit, pos, emitter := units.Get()
		emitter.Reset()
		emitter.Add(components.Signal{Class: components.SignalUnit, UnitKind: unit.Kind},
			float32(cfg.Signals.Unit.EmitStrength))

		for _, c := range emitter.Signals {
			field.AddEmission(c.Signal, pos.Hex, c.Strength)
		}
	}
}

// craftingSignals adds pulls for missing inputs and a work call while
// a worker-driven recipe is in progress.
func (s *EmitterSystem) craftingSignals(structure *components.Structure,
	crafting *components.Crafting, input *components.InputInventory,
	emitter *components.Emitter, cfg *config.Config) {

	if crafting.Recipe == components.RecipeNone {
		return
	}
	recipe := &cfg.Recipes[crafting.Recipe]

	if crafting.Phase == components.CraftNeedsInput {
		for _, in := range recipe.Inputs {
			item := components.ItemID(cfg.Derived.ItemIndex[in.Item])
			if input.CountOf(item) < int32(in.Count) {
				emitter.Add(components.Signal{Class: components.SignalPull, Item: item},
					float32(cfg.Signals.Pull.EmitStrength))
			}
		}
	}

	if crafting.Phase == components.CraftInProgress && recipe.NeedsWorkers {
		emitter.Add(components.Signal{Class: components.SignalWork, Structure: structure.Kind},
			float32(cfg.Signals.Work.EmitStrength))
	}
}

// outputSignals pushes and announces whatever sits in the output.
func (s *EmitterSystem) outputSignals(output *components.OutputInventory,
	emitter *components.Emitter, cfg *config.Config) {

	for i := range output.Slots {
		slot := &output.Slots[i]
		if slot.Count == 0 {
			continue
		}
		// Push scales with how full the slot is, so crowded outputs
		// shout louder.
		fill := float32(slot.Count) / float32(slot.Capacity)
		emitter.Add(components.Signal{Class: components.SignalPush, Item: slot.Item},
			float32(cfg.Signals.Push.EmitStrength)*fill)
		emitter.Add(components.Signal{Class: components.SignalContains, Item: slot.Item},
			float32(cfg.Signals.Contains.EmitStrength))
	}
}

// storageSignals announces room and contents of long-term storage.
func (s *EmitterSystem) storageSignals(storage *components.StorageInventory,
	emitter *components.Emitter, cfg *config.Config) {

	for i := range storage.Slots {
		slot := &storage.Slots[i]
		if slot.Free() > 0 {
			emitter.Add(components.Signal{Class: components.SignalStores, Item: slot.Item},
				float32(cfg.Signals.Stores.EmitStrength))
		}
		if slot.Count > 0 {
			emitter.Add(components.Signal{Class: components.SignalContains, Item: slot.Item},
				float32(cfg.Signals.Contains.EmitStrength))
		}
	}
}
