package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
)

// CraftingStats summarizes one tick of production for telemetry.
type CraftingStats struct {
	Started  int32 // Cycles that consumed their inputs this tick
	Finished int32 // Cycles whose outputs reached the output inventory
	Blocked  int32 // Cycles stuck because the output has no room
}

// CraftingSystem advances every producing structure through its
// recipe cycle: wait for inputs, consume them, run the timer, then
// move the outputs out. A full output blocks the cycle without losing
// the crafted goods.
type CraftingSystem struct {
	filter ecs.Filter3[components.Crafting, components.InputInventory, components.OutputInventory]
}

// NewCraftingSystem creates the crafting system.
func NewCraftingSystem(w *ecs.World) *CraftingSystem {
	return &CraftingSystem{
		filter: *ecs.NewFilter3[components.Crafting, components.InputInventory,
			components.OutputInventory](w),
	}
}

// Update advances all crafting cycles one tick.
func (s *CraftingSystem) Update() CraftingStats {
	cfg := config.Cfg()
	var stats CraftingStats

	query := s.filter.Query()
	for query.Next() {
		crafting, input, output := query.Get()
		if crafting.Recipe == components.RecipeNone {
			continue
		}
		recipe := &cfg.Recipes[crafting.Recipe]

		switch crafting.Phase {
		case components.CraftNeedsInput:
			if !s.inputsReady(recipe, input, cfg) {
				break
			}
			for _, in := range recipe.Inputs {
				item := components.ItemID(cfg.Derived.ItemIndex[in.Item])
				input.Remove(item, int32(in.Count))
			}
			crafting.Phase = components.CraftInProgress
			crafting.TicksLeft = int32(recipe.Ticks)
			stats.Started++

		case components.CraftInProgress:
			if recipe.NeedsWorkers && !crafting.WorkedOn {
				break
			}
			crafting.TicksLeft--
			if crafting.TicksLeft <= 0 {
				crafting.Phase = components.CraftFinished
			}

		case components.CraftFinished:
			if !s.roomForOutputs(recipe, output, cfg) {
				stats.Blocked++
				break
			}
			for _, out := range recipe.Outputs {
				item := components.ItemID(cfg.Derived.ItemIndex[out.Item])
				output.Add(item, int32(out.Count))
			}
			crafting.Phase = components.CraftNeedsInput
			stats.Finished++
		}

		// Work marks last one tick; units must keep working to keep
		// the cycle moving.
		crafting.WorkedOn = false
	}
	return stats
}

func (s *CraftingSystem) inputsReady(recipe *config.RecipeConfig,
	input *components.InputInventory, cfg *config.Config) bool {

	for _, in := range recipe.Inputs {
		item := components.ItemID(cfg.Derived.ItemIndex[in.Item])
		if input.CountOf(item) < int32(in.Count) {
			return false
		}
	}
	return true
}

func (s *CraftingSystem) roomForOutputs(recipe *config.RecipeConfig,
	output *components.OutputInventory, cfg *config.Config) bool {

	for _, out := range recipe.Outputs {
		item := components.ItemID(cfg.Derived.ItemIndex[out.Item])
		if output.RoomFor(item) < int32(out.Count) {
			return false
		}
	}
	return true
}
