package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// GhostCompletion reports a ghost whose materials are all delivered
// and whose build work is done. The lifecycle layer swaps it for the
// real structure.
type GhostCompletion struct {
	Entity ecs.Entity
	Kind   components.StructureID
	Hex    hexgrid.Hex
}

// Demolition reports a structure whose teardown work is done.
type Demolition struct {
	Entity ecs.Entity
	Hex    hexgrid.Hex
}

// ConstructionSystem watches ghosts fill up with build materials and
// marked structures accumulate demolition work. It only detects; the
// entity swaps happen in the lifecycle layer, outside any query.
type ConstructionSystem struct {
	ghosts ecs.Filter3[components.Ghost, components.Position, components.InputInventory]
	marked ecs.Filter3[components.Structure, components.Position, components.MarkedForDemolition]

	completions []GhostCompletion
	demolitions []Demolition
}

// NewConstructionSystem creates the construction system.
func NewConstructionSystem(w *ecs.World) *ConstructionSystem {
	return &ConstructionSystem{
		ghosts: *ecs.NewFilter3[components.Ghost, components.Position,
			components.InputInventory](w),
		marked: *ecs.NewFilter3[components.Structure, components.Position,
			components.MarkedForDemolition](w),
	}
}

// Update returns the ghosts ready to become structures and the
// structures ready to come down. The returned slices are valid until
// the next call.
func (s *ConstructionSystem) Update() ([]GhostCompletion, []Demolition) {
	cfg := config.Cfg()
	s.completions = s.completions[:0]
	s.demolitions = s.demolitions[:0]

	ghosts := s.ghosts.Query()
	for ghosts.Next() {
		ghost, pos, input := ghosts.Get()
		spec := &cfg.Structures[ghost.Kind]

		ready := ghost.Progress >= int32(spec.BuildTicks)
		for _, m := range spec.BuildMaterials {
			item := components.ItemID(cfg.Derived.ItemIndex[m.Item])
			if input.CountOf(item) < int32(m.Count) {
				ready = false
				break
			}
		}
		if ready {
			s.completions = append(s.completions, GhostCompletion{
				Entity: ghosts.Entity(),
				Kind:   ghost.Kind,
				Hex:    pos.Hex,
			})
		}
	}

	marked := s.marked.Query()
	for marked.Next() {
		_, pos, mark := marked.Get()
		if mark.Progress >= mark.Required {
			s.demolitions = append(s.demolitions, Demolition{
				Entity: marked.Entity(),
				Hex:    pos.Hex,
			})
		}
	}

	return s.completions, s.demolitions
}
