package components

// SignalClass distinguishes what a signal advertises.
type SignalClass uint8

const (
	SignalPush     SignalClass = iota // Item available for pickup
	SignalPull                        // Item wanted for delivery
	SignalWork                        // Structure needs workers
	SignalDemolish                    // Structure marked for teardown
	SignalContains                    // Passive: item present in an output
	SignalStores                      // Passive: item accepted into storage
	SignalUnit                        // Passive: a unit of this kind is here
)

// Signal is a typed channel in the signal field. Item is meaningful for
// Push, Pull, Contains and Stores; Structure for Work and Demolish;
// UnitKind for Unit.
type Signal struct {
	Class     SignalClass
	Item      ItemID
	Structure StructureID
	UnitKind  UnitID
}

// Passive reports whether the signal only announces presence and never
// recruits units on its own.
func (s Signal) Passive() bool {
	switch s.Class {
	case SignalContains, SignalStores, SignalUnit:
		return true
	}
	return false
}

// Goal converts a recruiting signal into the goal it asks for.
// Passive signals have no goal; ok is false for them.
func (s Signal) Goal() (Goal, bool) {
	switch s.Class {
	case SignalPush, SignalPull:
		return Goal{Kind: GoalPickup, Item: s.Item}, true
	case SignalWork:
		return Goal{Kind: GoalWork, Structure: s.Structure}, true
	case SignalDemolish:
		return Goal{Kind: GoalDemolish, Structure: s.Structure}, true
	}
	return Goal{}, false
}

// Relevant reports whether the signal bears on the given goal. Units
// climbing a gradient only follow signals relevant to their commitment.
func (s Signal) Relevant(g Goal) bool {
	switch g.Kind {
	case GoalPickup, GoalEat:
		return (s.Class == SignalPush || s.Class == SignalContains) && s.Item == g.Item
	case GoalStore:
		return (s.Class == SignalPull || s.Class == SignalStores) && s.Item == g.Item
	case GoalDeliver:
		return s.Class == SignalPull && s.Item == g.Item
	case GoalWork:
		return s.Class == SignalWork && s.Structure == g.Structure
	case GoalDemolish:
		return s.Class == SignalDemolish && s.Structure == g.Structure
	}
	return false
}

// SignalContribution is one channel of an emitter with its per-tick
// strength.
type SignalContribution struct {
	Signal   Signal
	Strength float32
}

// Emitter broadcasts signals from an entity's tile every tick. The
// contribution list is recomputed before emission, so it always
// reflects the entity's current state.
type Emitter struct {
	Signals []SignalContribution
}

// Reset clears the contribution list, keeping the backing array.
func (e *Emitter) Reset() {
	e.Signals = e.Signals[:0]
}

// Add appends a contribution. Zero or negative strengths are dropped.
func (e *Emitter) Add(s Signal, strength float32) {
	if strength <= 0 {
		return
	}
	e.Signals = append(e.Signals, SignalContribution{Signal: s, Strength: strength})
}
