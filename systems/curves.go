package systems

import "math"

// Response curves for mapping raw signal values into decision weights.

// Sigmoid maps values onto a logistic curve. Midpoint is where the
// output crosses 0.5; steepness controls how sharp the transition is.
type Sigmoid struct {
	Midpoint  float32
	Steepness float32
}

// Eval returns the curve value at x, in (0, 1).
func (s Sigmoid) Eval(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-s.Steepness*(x-s.Midpoint)))))
}

// BottomClampedLine is a line through (zero, 0) with the given slope,
// floored at min. Keeps weights strictly positive so a dominant
// negative term can never zero out a choice entirely.
type BottomClampedLine struct {
	Slope float32
	Zero  float32
	Min   float32
}

// Eval returns the clamped line value at x.
func (l BottomClampedLine) Eval(x float32) float32 {
	return maxFloat(l.Min, l.Slope*(x-l.Zero))
}

// LinearCombination evaluates a weighted sum of inputs. Inputs and
// weights must be the same length.
func LinearCombination(inputs, weights []float32) float32 {
	var sum float32
	for i := range inputs {
		sum += inputs[i] * weights[i]
	}
	return sum
}
