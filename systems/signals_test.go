package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/hexgrid"
)

const signalEps = 1e-4

var pushLeaf = components.Signal{Class: components.SignalPush, Item: 0}

func TestSignalDiffusionStep(t *testing.T) {
	reloadConfig(t, `
signals:
  push:
    diffusion_factor: 0.6
    decay_factor: 0.9
    emit_strength: 1.0
`)
	geom := openGeometry(3)
	field := NewSignalField(geom)

	center := hexgrid.Hex{}
	field.AddEmission(pushLeaf, center, 10)
	field.Tick()

	// Each neighbor receives 10 * 0.6/6 = 1.0, decayed to 0.9.
	// The center keeps 10 - 6 = 4, decayed to 3.6.
	if got := field.Get(pushLeaf, center); math.Abs(float64(got-3.6)) > signalEps {
		t.Errorf("center after one tick = %g, want 3.6", got)
	}
	for _, n := range center.Neighbors() {
		if got := field.Get(pushLeaf, n); math.Abs(float64(got-0.9)) > signalEps {
			t.Errorf("neighbor %v = %g, want 0.9", n, got)
		}
	}
	for _, h := range center.Ring(2) {
		if got := field.Get(pushLeaf, h); got != 0 {
			t.Errorf("ring 2 tile %v = %g, want 0 after one tick", h, got)
		}
	}
}

func TestSignalMassConservedAwayFromEdge(t *testing.T) {
	reloadConfig(t, `
signals:
  push:
    diffusion_factor: 0.6
    decay_factor: 1.0
`)
	geom := openGeometry(6)
	field := NewSignalField(geom)
	field.AddEmission(pushLeaf, hexgrid.Hex{}, 10)

	// Signal spreads one ring per tick; with decay off, the total is
	// conserved until it touches the map edge.
	for tick := 1; tick <= 4; tick++ {
		field.Tick()
		if total := field.Total(pushLeaf); math.Abs(float64(total-10)) > 1e-3 {
			t.Fatalf("tick %d: total = %g, want 10", tick, total)
		}
	}
}

func TestSignalEdgeDissipation(t *testing.T) {
	reloadConfig(t, `
signals:
  push:
    diffusion_factor: 0.6
    decay_factor: 1.0
`)
	geom := openGeometry(1)
	field := NewSignalField(geom)
	// Emit on an edge tile; shares pointing off the map are lost.
	field.AddEmission(pushLeaf, hexgrid.Hex{Q: 1, R: 0}, 10)
	field.Tick()

	if total := field.Total(pushLeaf); total >= 10 {
		t.Errorf("edge emission total = %g, want dissipation below 10", total)
	}
}

func TestSignalNeverNegative(t *testing.T) {
	geom := openGeometry(2)
	field := NewSignalField(geom)
	field.AddEmission(pushLeaf, hexgrid.Hex{}, 0.001)

	for i := 0; i < 50; i++ {
		field.Tick()
		for _, h := range geom.Tiles() {
			if v := field.Get(pushLeaf, h); v < 0 {
				t.Fatalf("negative signal %g at %v", v, h)
			}
		}
	}
}

func TestEmissionOutOfBoundsDropped(t *testing.T) {
	geom := openGeometry(1)
	field := NewSignalField(geom)

	field.AddEmission(pushLeaf, hexgrid.Hex{Q: 10, R: 10}, 5)
	if field.ChannelCount() != 0 {
		t.Error("out-of-bounds emission created a channel")
	}
	if got := field.Get(pushLeaf, hexgrid.Hex{Q: 10, R: 10}); got != 0 {
		t.Errorf("out-of-bounds read = %g, want 0", got)
	}
	field.AddEmission(pushLeaf, hexgrid.Hex{}, -3)
	if field.ChannelCount() != 0 {
		t.Error("negative emission created a channel")
	}
}

func TestChannelTrimming(t *testing.T) {
	reloadConfig(t, `
signals:
  push:
    diffusion_factor: 0.0
    decay_factor: 0.5
`)
	geom := openGeometry(1)
	field := NewSignalField(geom)
	field.AddEmission(pushLeaf, hexgrid.Hex{}, 1)

	for i := 0; i < 40 && field.ChannelCount() > 0; i++ {
		field.Tick()
	}
	if field.ChannelCount() != 0 {
		t.Errorf("channel survived decay to %g", field.Total(pushLeaf))
	}
}

func TestSignalsAtCollectsAllChannels(t *testing.T) {
	geom := openGeometry(1)
	field := NewSignalField(geom)
	center := hexgrid.Hex{}

	pull := components.Signal{Class: components.SignalPull, Item: 1}
	field.AddEmission(pushLeaf, center, 2)
	field.AddEmission(pull, center, 3)

	got := field.SignalsAt(center, nil)
	if len(got) != 2 {
		t.Fatalf("SignalsAt returned %d signals, want 2", len(got))
	}
	// Creation order is preserved.
	if got[0].Signal != pushLeaf || got[1].Signal != pull {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].Value != 2 || got[1].Value != 3 {
		t.Errorf("unexpected values: %+v", got)
	}

	if out := field.SignalsAt(hexgrid.Hex{Q: 9, R: 9}, nil); len(out) != 0 {
		t.Error("out-of-bounds SignalsAt should be empty")
	}
}
