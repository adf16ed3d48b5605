package systems

import (
	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// Apply executes the effect of a finished action. Effects are atomic:
// they either happen fully here or not at all, and a target that died
// while the timer ran simply voids the action.
func (p *ActionPlanner) Apply(pos *components.Position, goal *components.Goal,
	held *components.Held, imp *components.Impatience, energy *components.Energy,
	action *components.CurrentAction) {

	cfg := config.Cfg()

	switch action.Kind {
	case components.ActionIdle:
		// Nothing happens.

	case components.ActionMove:
		p.applyMove(pos, imp, action)

	case components.ActionPickUp:
		p.applyPickUp(pos, goal, held, imp, action)

	case components.ActionDropOff:
		p.applyDropOff(pos, goal, held, imp, action, cfg)

	case components.ActionEat:
		if held.Item == action.Item && !held.Empty() {
			energy.Current += float32(cfg.Items[held.Item].Energy)
			if energy.Current > energy.Max {
				energy.Current = energy.Max
			}
			held.Item = components.ItemNone
			*goal = components.Goal{Kind: components.GoalWander}
		}

	case components.ActionWork:
		p.applyWork(goal, imp, action)

	case components.ActionDemolish:
		p.applyDemolish(goal, imp, action)

	case components.ActionAbandon:
		held.Item = components.ItemNone
	}
}

// applyMove steps onto the destination if it is still walkable. The
// tile may have been built over or claimed while the timer ran.
func (p *ActionPlanner) applyMove(pos *components.Position,
	imp *components.Impatience, action *components.CurrentAction) {

	if p.geom.Passable(action.Dest) && hexgrid.Distance(pos.Hex, action.Dest) == 1 {
		pos.Hex = action.Dest
		return
	}
	imp.Increment()
}

// applyPickUp takes the item from the target's output or storage.
// Success with a pickup goal promotes the commitment to hauling.
func (p *ActionPlanner) applyPickUp(pos *components.Position, goal *components.Goal,
	held *components.Held, imp *components.Impatience, action *components.CurrentAction) {

	if !p.world.Alive(action.Target) {
		imp.Increment()
		*goal = components.Goal{Kind: components.GoalWander}
		return
	}
	if !held.Empty() {
		imp.Increment()
		return
	}

	err := ErrSourceEmpty
	if p.outputMap.Has(action.Target) {
		err = TakeOne(&p.outputMap.Get(action.Target).Inventory, action.Item)
	}
	if err != nil && p.storageMap.Has(action.Target) {
		err = TakeOne(&p.storageMap.Get(action.Target).Inventory, action.Item)
	}
	if err != nil {
		imp.Increment()
		p.pulses.Add(PulseRepel, pos.Hex, float32(config.Cfg().Pulses.RepelStrength))
		return
	}

	held.Item = action.Item
	imp.Reset()
	if goal.Kind == components.GoalPickup {
		*goal = p.haulGoal(action.Item)
	}
}

// haulGoal decides where a freshly grabbed item should go. Active
// demand wins over storage; with neither the unit wanders off with it.
func (p *ActionPlanner) haulGoal(item components.ItemID) components.Goal {
	pull := p.signals.Total(components.Signal{Class: components.SignalPull, Item: item})
	if pull > 0 {
		return components.Goal{Kind: components.GoalDeliver, Item: item}
	}
	stores := p.signals.Total(components.Signal{Class: components.SignalStores, Item: item})
	if stores > 0 {
		return components.Goal{Kind: components.GoalStore, Item: item}
	}
	return components.Goal{Kind: components.GoalWander}
}

// applyDropOff hands the item to the target and drops a lure marker
// where the handoff worked, recruiting nearby wanderers.
func (p *ActionPlanner) applyDropOff(pos *components.Position, goal *components.Goal,
	held *components.Held, imp *components.Impatience,
	action *components.CurrentAction, cfg *config.Config) {

	if !p.world.Alive(action.Target) {
		imp.Increment()
		*goal = components.Goal{Kind: components.GoalWander}
		return
	}
	if held.Item != action.Item || held.Empty() {
		*goal = components.Goal{Kind: components.GoalWander}
		return
	}

	err := ErrDestinationFull
	if goal.Kind == components.GoalDeliver {
		if p.inputMap.Has(action.Target) {
			err = PutOne(&p.inputMap.Get(action.Target).Inventory, action.Item)
		}
	} else {
		if p.storageMap.Has(action.Target) {
			err = PutOne(&p.storageMap.Get(action.Target).Inventory, action.Item)
		}
	}
	if err != nil {
		imp.Increment()
		p.pulses.Add(PulseRepel, pos.Hex, float32(cfg.Pulses.RepelStrength))
		return
	}

	held.Item = components.ItemNone
	imp.Reset()
	p.pulses.Add(PulseLure, pos.Hex, float32(cfg.Pulses.LureStrength))
	*goal = components.Goal{Kind: components.GoalWander}
}

// applyWork marks a crafting target as worked on for this tick's
// crafting step, or adds build effort to a ghost.
func (p *ActionPlanner) applyWork(goal *components.Goal,
	imp *components.Impatience, action *components.CurrentAction) {

	if p.world.Alive(action.Target) && p.ghostMap.Has(action.Target) {
		ghost := p.ghostMap.Get(action.Target)
		ghost.Progress += int32(config.Cfg().Actions.WorkTicks)
		imp.Reset()
		return
	}
	if !p.world.Alive(action.Target) || !p.craftingMap.Has(action.Target) {
		imp.Increment()
		*goal = components.Goal{Kind: components.GoalWander}
		return
	}
	crafting := p.craftingMap.Get(action.Target)
	if crafting.Phase != components.CraftInProgress {
		imp.Increment()
		return
	}
	crafting.WorkedOn = true
	imp.Reset()
}

// applyDemolish adds this action's effort to the teardown.
func (p *ActionPlanner) applyDemolish(goal *components.Goal,
	imp *components.Impatience, action *components.CurrentAction) {

	if !p.world.Alive(action.Target) || !p.demolishMap.Has(action.Target) {
		imp.Increment()
		*goal = components.Goal{Kind: components.GoalWander}
		return
	}
	mark := p.demolishMap.Get(action.Target)
	mark.Progress += int32(config.Cfg().Actions.DemolishTicks)
	imp.Reset()
}
