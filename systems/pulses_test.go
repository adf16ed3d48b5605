package systems

import (
	"testing"

	"github.com/pthm-cable/brood/hexgrid"
)

func TestPulseSpreadsAndFades(t *testing.T) {
	geom := openGeometry(4)
	field := NewPulseField(geom)
	origin := hexgrid.Hex{}

	field.Add(PulseLure, origin, 100)
	if field.Count() != 1 {
		t.Fatal("pulse not recorded")
	}

	peak := field.Sample(PulseLure, origin)
	if peak <= 0 {
		t.Fatal("fresh pulse should be positive at its origin")
	}
	// Value falls off with distance.
	near := field.Sample(PulseLure, hexgrid.Hex{Q: 1, R: 0})
	far := field.Sample(PulseLure, hexgrid.Hex{Q: 3, R: 0})
	if !(peak > near && near > far) {
		t.Errorf("kernel not monotone: peak=%g near=%g far=%g", peak, near, far)
	}

	// The peak weakens as the pulse ages.
	field.Tick()
	aged := field.Sample(PulseLure, origin)
	if aged >= peak {
		t.Errorf("aged peak %g should be below fresh peak %g", aged, peak)
	}
}

func TestPulseTrimmedWhenFaded(t *testing.T) {
	geom := openGeometry(2)
	field := NewPulseField(geom)
	field.Add(PulseRepel, hexgrid.Hex{}, 1)

	for i := 0; i < 1000 && field.Count() > 0; i++ {
		field.Tick()
	}
	if field.Count() != 0 {
		t.Error("faded pulse never trimmed")
	}
}

func TestPulseKindsIndependent(t *testing.T) {
	geom := openGeometry(2)
	field := NewPulseField(geom)
	origin := hexgrid.Hex{}

	field.Add(PulseLure, origin, 100)
	if v := field.Sample(PulseRepel, origin); v != 0 {
		t.Errorf("repel sample reads lure pulse: %g", v)
	}
}

func TestPulseIgnoresInvalidAdds(t *testing.T) {
	geom := openGeometry(1)
	field := NewPulseField(geom)

	field.Add(PulseLure, hexgrid.Hex{Q: 5, R: 5}, 100)
	field.Add(PulseLure, hexgrid.Hex{}, 0)
	field.Add(PulseLure, hexgrid.Hex{}, -1)
	if field.Count() != 0 {
		t.Errorf("invalid adds created %d pulses", field.Count())
	}
	if v := field.Sample(PulseLure, hexgrid.Hex{Q: 5, R: 5}); v != 0 {
		t.Errorf("out-of-bounds sample = %g, want 0", v)
	}
}
