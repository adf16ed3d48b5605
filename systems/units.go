package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
)

// UnitTickStats summarizes one tick of unit behavior for telemetry.
type UnitTickStats struct {
	Completed       [components.ActionCount]int32 // Finished actions, indexed by ActionKind
	HungerOverrides int32
	Starving        int32
}

// UnitSystem drives every unit through one tick. The per-unit order is
// fixed: advance the timer, apply a finished effect, drain energy,
// resolve hunger, maintain the goal, then plan the next step. A
// running action is never interrupted; hunger and new goals take hold
// only once the timer fires.
type UnitSystem struct {
	filter ecs.Filter7[components.Unit, components.Position, components.Goal,
		components.Impatience, components.Energy, components.Held, components.CurrentAction]

	planner  *ActionPlanner
	selector *GoalSelector
	field    *SignalField
}

// NewUnitSystem creates the unit system.
func NewUnitSystem(w *ecs.World, planner *ActionPlanner, selector *GoalSelector,
	field *SignalField) *UnitSystem {

	return &UnitSystem{
		filter: *ecs.NewFilter7[components.Unit, components.Position, components.Goal,
			components.Impatience, components.Energy, components.Held,
			components.CurrentAction](w),
		planner:  planner,
		selector: selector,
		field:    field,
	}
}

// Update runs one tick for all units.
func (s *UnitSystem) Update() UnitTickStats {
	cfg := config.Cfg()
	var stats UnitTickStats

	query := s.filter.Query()
	for query.Next() {
		unit, pos, goal, imp, energy, held, action := query.Get()
		kind := &cfg.Units[unit.Kind]

		action.TicksLeft--
		finished := action.Finished()
		if finished {
			before := pos.Hex
			s.planner.Apply(pos, goal, held, imp, energy, action)
			if pos.Hex != before {
				s.planner.geom.MoveUnit(before, pos.Hex, query.Entity())
			}
			stats.Completed[action.Kind]++
		}

		energy.Current -= float32(kind.EnergyDrain)
		if energy.Current <= 0 {
			// Lifecycle sweep removes the unit after this pass.
			energy.Current = 0
			stats.Starving++
			continue
		}

		if energy.Fraction() < float32(kind.HungerThreshold) && goal.Kind != components.GoalEat {
			diet := components.ItemID(cfg.Derived.ItemIndex[kind.DietItem])
			*goal = components.Goal{Kind: components.GoalEat, Item: diet}
			imp.Reset()
			stats.HungerOverrides++
		}

		s.selector.ChooseGoal(s.field, pos.Hex, goal, imp, kind.MeanFreeWanderPeriod)

		if finished {
			*action = s.planner.Plan(pos.Hex, goal, held, imp)
		}
	}
	return stats
}
