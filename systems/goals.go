package systems

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/hexgrid"
)

// GoalSelector turns the signals on a unit's tile into commitments.
// Selection is probabilistic: stronger signals are proportionally more
// likely to win, but never certain to.
type GoalSelector struct {
	src rand.Source
	rng *rand.Rand

	// Scratch buffers reused across units.
	signals []SignalValue
	goals   []components.Goal
	weights []float64
}

// NewGoalSelector creates a selector seeded for reproducible runs.
func NewGoalSelector(seed uint64) *GoalSelector {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &GoalSelector{
		src: src,
		rng: rand.New(src),
	}
}

// ChooseGoal updates a unit's commitment. A full impatience pool
// forces the unit back to wandering; a wandering unit occasionally
// samples the recruiting signals under its feet for a new goal.
func (s *GoalSelector) ChooseGoal(field *SignalField, pos hexgrid.Hex,
	goal *components.Goal, imp *components.Impatience, wanderPeriod float64) {

	if imp.IsFull() {
		// The forced reversion holds for the rest of this invocation;
		// recruitment resumes on a later tick.
		*goal = components.Goal{Kind: components.GoalWander}
		imp.Reset()
		return
	}
	if !goal.Wandering() {
		return
	}

	// Units linger in wandering for wanderPeriod ticks on average
	// before listening for recruitment again.
	if s.rng.Float64()*wanderPeriod >= 1 {
		return
	}

	s.signals = field.SignalsAt(pos, s.signals[:0])
	s.goals = s.goals[:0]
	s.weights = s.weights[:0]
	for _, sv := range s.signals {
		g, ok := sv.Signal.Goal()
		if !ok {
			continue
		}
		s.goals = append(s.goals, g)
		s.weights = append(s.weights, float64(sv.Value))
	}
	if len(s.goals) == 0 {
		return
	}

	w := sampleuv.NewWeighted(s.weights, s.src)
	idx, ok := w.Take()
	if !ok {
		// Every candidate had zero weight; stay wandering.
		return
	}
	*goal = s.goals[idx]
	imp.Reset()
}

// Float64 exposes the selector's stream for other per-unit rolls, so
// the whole simulation draws from one seeded source.
func (s *GoalSelector) Float64() float64 { return s.rng.Float64() }

// IntN draws a uniform int in [0, n).
func (s *GoalSelector) IntN(n int) int { return s.rng.IntN(n) }

// Source returns the underlying random source.
func (s *GoalSelector) Source() rand.Source { return s.src }
