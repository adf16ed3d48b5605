package systems

import (
	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// trimEpsilon is the total channel strength below which a channel is
// dropped. Keeps the field from accumulating dead channels forever.
const trimEpsilon = 1e-4

// SignalValue pairs a signal with its strength on one tile.
type SignalValue struct {
	Signal components.Signal
	Value  float32
}

// signalChannel holds one signal's grid plus its per-tick accumulators.
// Incoming and outgoing are only touched during Tick; between ticks
// they are zero.
type signalChannel struct {
	current  []float32
	incoming []float32
	outgoing []float32

	diffusion float32 // fraction shared with neighbors per tick
	decay     float32 // fraction retained after settling
}

// SignalField carries every signal channel over the map. Emission
// writes straight into the current grid; Tick then diffuses from that
// snapshot and settles accumulators, so within one tick emission is
// visible to diffusion but never double-counted.
type SignalField struct {
	geom *MapGeometry

	channels map[components.Signal]*signalChannel

	// Channel keys in creation order. Iteration over the map would be
	// nondeterministic, which would leak into weighted goal sampling.
	keys []components.Signal
}

// NewSignalField creates an empty field over the given arena.
func NewSignalField(geom *MapGeometry) *SignalField {
	return &SignalField{
		geom:     geom,
		channels: make(map[components.Signal]*signalChannel),
	}
}

// channel returns the grid for a signal, creating it on first use.
func (f *SignalField) channel(sig components.Signal) *signalChannel {
	if ch, ok := f.channels[sig]; ok {
		return ch
	}
	n := f.geom.TileCount()
	block := config.Cfg().Signals.ByClass(uint8(sig.Class))
	ch := &signalChannel{
		current:   make([]float32, n),
		incoming:  make([]float32, n),
		outgoing:  make([]float32, n),
		diffusion: float32(block.DiffusionFactor),
		decay:     float32(block.DecayFactor),
	}
	f.channels[sig] = ch
	f.keys = append(f.keys, sig)
	return ch
}

// AddEmission deposits strength onto a tile. Emissions outside the map
// or with non-positive strength are dropped.
func (f *SignalField) AddEmission(sig components.Signal, h hexgrid.Hex, strength float32) {
	if strength <= 0 {
		return
	}
	i, ok := f.geom.Index(h)
	if !ok {
		return
	}
	f.channel(sig).current[i] += strength
}

// Get returns the strength of a signal on a tile. Tiles outside the
// map and unknown signals read as zero.
func (f *SignalField) Get(sig components.Signal, h hexgrid.Hex) float32 {
	ch, ok := f.channels[sig]
	if !ok {
		return 0
	}
	i, ok := f.geom.Index(h)
	if !ok {
		return 0
	}
	return ch.current[i]
}

// SignalsAt appends every signal present on the tile to dst and
// returns it. Order is stable across calls within a run.
func (f *SignalField) SignalsAt(h hexgrid.Hex, dst []SignalValue) []SignalValue {
	i, ok := f.geom.Index(h)
	if !ok {
		return dst
	}
	for _, sig := range f.keys {
		if v := f.channels[sig].current[i]; v > 0 {
			dst = append(dst, SignalValue{Signal: sig, Value: v})
		}
	}
	return dst
}

// Total returns the summed strength of a signal over the whole map.
func (f *SignalField) Total(sig components.Signal) float32 {
	ch, ok := f.channels[sig]
	if !ok {
		return 0
	}
	var sum float32
	for _, v := range ch.current {
		sum += v
	}
	return sum
}

// ChannelCount returns the number of live channels.
func (f *SignalField) ChannelCount() int { return len(f.keys) }

// Mass returns the summed strength of every channel over the whole
// map.
func (f *SignalField) Mass() float64 {
	var sum float64
	for _, sig := range f.keys {
		sum += float64(f.Total(sig))
	}
	return sum
}

// Tick diffuses every channel one step and settles the accumulators.
// Diffusion reads the pre-tick values only, so tile update order never
// affects the result.
func (f *SignalField) Tick() {
	for _, sig := range f.keys {
		f.tickChannel(f.channels[sig])
	}
	f.trim()
}

func (f *SignalField) tickChannel(ch *signalChannel) {
	tiles := f.geom.Tiles()

	// Diffusion: each tile offers diffusion/6 of its value to every
	// direction. Shares pointing off the map dissipate but still count
	// as outgoing.
	if ch.diffusion > 0 {
		for i, h := range tiles {
			v := ch.current[i]
			if v <= 0 {
				continue
			}
			share := v * ch.diffusion / 6
			for _, n := range h.Neighbors() {
				ch.outgoing[i] += share
				if j, ok := f.geom.Index(n); ok {
					ch.incoming[j] += share
				}
			}
		}
	}

	// Settle: apply net flow, then decay, never below zero.
	for i := range ch.current {
		v := ch.current[i] + ch.incoming[i] - ch.outgoing[i]
		if v < 0 {
			v = 0
		}
		ch.current[i] = v * ch.decay
		ch.incoming[i] = 0
		ch.outgoing[i] = 0
	}
}

// trim drops channels whose total strength has faded away.
func (f *SignalField) trim() {
	kept := f.keys[:0]
	for _, sig := range f.keys {
		if f.Total(sig) >= trimEpsilon {
			kept = append(kept, sig)
			continue
		}
		delete(f.channels, sig)
	}
	f.keys = kept
}
