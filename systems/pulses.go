package systems

import (
	"math"

	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// PulseKind distinguishes attracting from repelling markers.
type PulseKind uint8

const (
	PulseLure  PulseKind = iota // Draws wandering units toward the origin
	PulseRepel                  // Pushes units away from the origin
)

// pulse is one marker. Instead of a grid, each pulse is evaluated
// analytically from its age and distance, so arbitrarily many can
// coexist without per-tile storage.
type pulse struct {
	kind     PulseKind
	origin   hexgrid.Hex
	strength float32
	age      float32 // ticks since the pulse was dropped
}

// PulseField holds transient markers units drop on the map. A pulse
// spreads and fades following a heat kernel; once its peak falls under
// the trim threshold it is removed.
type PulseField struct {
	geom   *MapGeometry
	pulses []pulse

	diffusivity float32
	decayRate   float32
	trim        float32
}

// NewPulseField creates an empty pulse field over the arena.
func NewPulseField(geom *MapGeometry) *PulseField {
	cfg := config.Cfg().Pulses
	return &PulseField{
		geom:        geom,
		diffusivity: float32(cfg.Diffusivity),
		decayRate:   float32(cfg.DecayRate),
		trim:        float32(cfg.TrimThreshold),
	}
}

// Add drops a marker on a tile. Markers outside the map or with
// non-positive strength are ignored.
func (f *PulseField) Add(kind PulseKind, origin hexgrid.Hex, strength float32) {
	if strength <= 0 || !f.geom.Contains(origin) {
		return
	}
	// Age starts at one tick so the kernel is never sampled at t=0.
	f.pulses = append(f.pulses, pulse{kind: kind, origin: origin, strength: strength, age: 1})
}

// Count returns the number of live pulses.
func (f *PulseField) Count() int { return len(f.pulses) }

// Tick ages every pulse and trims the ones that have faded out.
func (f *PulseField) Tick() {
	kept := f.pulses[:0]
	for _, p := range f.pulses {
		p.age++
		if f.peak(p) >= f.trim {
			kept = append(kept, p)
		}
	}
	f.pulses = kept
}

// Sample returns the summed pulse value of one kind on a tile. Tiles
// outside the map read as zero.
func (f *PulseField) Sample(kind PulseKind, h hexgrid.Hex) float32 {
	if !f.geom.Contains(h) {
		return 0
	}
	var sum float32
	for _, p := range f.pulses {
		if p.kind != kind {
			continue
		}
		sum += f.eval(p, hexgrid.Distance(p.origin, h))
	}
	return sum
}

// eval computes the heat kernel of a pulse at hex distance d.
func (f *PulseField) eval(p pulse, d int) float32 {
	t := float64(p.age)
	spread := 4 * math.Pi * float64(f.diffusivity) * t
	fade := 1 + float64(f.decayRate)*t
	exponent := -float64(d*d) / (4 * float64(f.diffusivity) * t)
	if exponent < -40 {
		return 0
	}
	return float32(float64(p.strength) / (spread * fade) * math.Exp(exponent))
}

// peak is the pulse value at its own origin, used for trimming.
func (f *PulseField) peak(p pulse) float32 {
	return f.eval(p, 0)
}
