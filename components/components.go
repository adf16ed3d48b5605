// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/brood/hexgrid"
)

// ItemID identifies an item kind. IDs index the item table in config.
type ItemID uint8

// ItemNone marks an empty hand or slot.
const ItemNone ItemID = 0xFF

// StructureID identifies a structure kind. IDs index the structure table
// in config.
type StructureID uint8

// UnitID identifies a unit kind. IDs index the unit table in config.
type UnitID uint8

// Position places an entity on the hex map.
type Position struct {
	Hex hexgrid.Hex
}

// Unit marks an entity as a mobile worker.
type Unit struct {
	Kind UnitID
}

// GoalKind enumerates the intents a unit can commit to.
type GoalKind uint8

const (
	GoalWander   GoalKind = iota // No commitment, drift along signals
	GoalPickup                   // Fetch an item of Goal.Item
	GoalStore                    // Put held item into long-term storage
	GoalDeliver                  // Put held item into a consumer's input
	GoalWork                     // Assist at a structure of Goal.Structure
	GoalDemolish                 // Tear down a structure of Goal.Structure
	GoalEat                      // Find and consume the unit's diet item
)

// Goal is a unit's current commitment. Item is set for Pickup, Store,
// Deliver and Eat; Structure for Work and Demolish. Wander uses neither.
type Goal struct {
	Kind      GoalKind
	Item      ItemID
	Structure StructureID
}

// Wandering reports whether the unit has no active commitment.
func (g Goal) Wandering() bool {
	return g.Kind == GoalWander
}

// Impatience tracks accumulated frustration with the current goal.
// A full pool forces the unit back to wandering.
type Impatience struct {
	Current int32
	Max     int32
}

// IsFull reports whether the pool has reached its cap.
func (p *Impatience) IsFull() bool {
	return p.Current >= p.Max
}

// Increment adds one point, saturating at Max.
func (p *Impatience) Increment() {
	if p.Current < p.Max {
		p.Current++
	}
}

// Reset empties the pool.
func (p *Impatience) Reset() {
	p.Current = 0
}

// Energy is a unit's remaining reserve. Reaching zero kills the unit.
type Energy struct {
	Current float32
	Max     float32
}

// Fraction returns the filled share of the reserve, in [0, 1].
func (e *Energy) Fraction() float32 {
	if e.Max <= 0 {
		return 0
	}
	f := e.Current / e.Max
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Held is the single item slot a unit carries. Item is ItemNone when
// the hand is empty.
type Held struct {
	Item ItemID
}

// Empty reports whether nothing is held.
func (h Held) Empty() bool {
	return h.Item == ItemNone
}

// ActionKind enumerates the atomic steps a unit can execute.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionMove
	ActionPickUp
	ActionDropOff
	ActionEat
	ActionWork
	ActionDemolish
	ActionAbandon

	// ActionCount is the number of action kinds.
	ActionCount = int(ActionAbandon) + 1
)

// CurrentAction is the step a unit is executing. The effect applies
// once when TicksLeft reaches zero; until then the unit is busy and
// the action cannot be interrupted.
type CurrentAction struct {
	Kind      ActionKind
	TicksLeft int32

	// Move destination. Only meaningful for ActionMove.
	Dest hexgrid.Hex

	// Structure the effect applies to. Meaningful for PickUp, DropOff,
	// Work and Demolish. May be dead by the time the timer fires.
	Target ecs.Entity

	// Item moved by PickUp or DropOff, or consumed by Eat.
	Item ItemID
}

// Finished reports whether the action timer has run out.
func (a *CurrentAction) Finished() bool {
	return a.TicksLeft <= 0
}

// Idle returns an idle action lasting the given number of ticks.
func Idle(ticks int32) CurrentAction {
	return CurrentAction{Kind: ActionIdle, TicksLeft: ticks}
}
