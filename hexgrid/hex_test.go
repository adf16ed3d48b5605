package hexgrid

import "testing"

func TestDistanceSymmetry(t *testing.T) {
	coords := []Hex{
		{0, 0}, {1, 0}, {0, 1}, {-3, 2}, {5, -7}, {-4, -4}, {12, 3},
	}

	for _, a := range coords {
		if Distance(a, a) != 0 {
			t.Errorf("Distance(%v, %v) = %d, want 0", a, a, Distance(a, a))
		}
		for _, b := range coords {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("distance not symmetric for %v, %v: %d vs %d",
					a, b, Distance(a, b), Distance(b, a))
			}
			if Distance(a, b) < 0 {
				t.Errorf("negative distance for %v, %v", a, b)
			}
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	cases := []struct {
		a, b Hex
		want int
	}{
		{Hex{0, 0}, Hex{1, 0}, 1},
		{Hex{0, 0}, Hex{1, -1}, 1},
		{Hex{0, 0}, Hex{2, -1}, 2},
		{Hex{0, 0}, Hex{3, 3}, 6},
		{Hex{-2, 1}, Hex{2, -1}, 4},
	}

	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCubeInvariant(t *testing.T) {
	for q := -5; q <= 5; q++ {
		for r := -5; r <= 5; r++ {
			h := Hex{Q: q, R: r}
			if h.Q+h.R+h.S() != 0 {
				t.Fatalf("cube coordinates of %v do not sum to zero", h)
			}
		}
	}
}

func TestNeighborsOrder(t *testing.T) {
	neighbors := Hex{0, 0}.Neighbors()

	// Clockwise starting East.
	want := [6]Hex{
		{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1},
	}
	if neighbors != want {
		t.Errorf("neighbors = %v, want %v", neighbors, want)
	}

	for _, n := range neighbors {
		if Distance(Hex{0, 0}, n) != 1 {
			t.Errorf("neighbor %v is not at distance 1", n)
		}
	}
}

func TestNeighborsWhere(t *testing.T) {
	got := Hex{0, 0}.NeighborsWhere(func(h Hex) bool { return h.Q > 0 })
	want := []Hex{{1, 0}, {1, -1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestRingSize(t *testing.T) {
	for r := 0; r <= 20; r++ {
		ring := Hex{2, -1}.Ring(r)

		want := 6 * r
		if r == 0 {
			want = 1
		}
		if len(ring) != want {
			t.Errorf("ring(%d) has %d coords, want %d", r, len(ring), want)
		}

		for _, h := range ring {
			d := Distance(Hex{2, -1}, h)
			wantDist := r
			if got := d; got != wantDist {
				t.Errorf("ring(%d) contains %v at distance %d", r, h, got)
			}
		}
	}
}

func TestRingAdjacency(t *testing.T) {
	// Consecutive ring coordinates must be side-by-side.
	ring := Hex{0, 0}.Ring(4)
	for i := 1; i < len(ring); i++ {
		if Distance(ring[i-1], ring[i]) != 1 {
			t.Errorf("ring steps from %v to %v are not adjacent", ring[i-1], ring[i])
		}
	}
	// And the ring closes.
	if Distance(ring[len(ring)-1], ring[0]) != 1 {
		t.Error("ring does not close")
	}
}

func TestHexagonSize(t *testing.T) {
	for r := 0; r <= 20; r++ {
		hexagon := Hex{0, 0}.Hexagon(r)
		want := 1 + 3*r*(r+1)
		if len(hexagon) != want {
			t.Errorf("hexagon(%d) has %d coords, want %d", r, len(hexagon), want)
		}
		if len(hexagon) != HexagonArea(r) {
			t.Errorf("HexagonArea(%d) = %d disagrees with hexagon length %d",
				r, HexagonArea(r), len(hexagon))
		}
	}
}

func TestHexagonUnique(t *testing.T) {
	hexagon := Hex{0, 0}.Hexagon(6)
	seen := make(map[Hex]bool, len(hexagon))
	for _, h := range hexagon {
		if seen[h] {
			t.Errorf("hexagon contains %v twice", h)
		}
		seen[h] = true
	}
}

func TestRotateInvolution(t *testing.T) {
	for d := Direction(0); d < 6; d++ {
		for k := -13; k <= 13; k++ {
			if d.Rotate(k).Rotate(-k) != d {
				t.Errorf("rotate(%v, %d) does not invert", d, k)
			}
		}
	}
}

func TestRotateWraps(t *testing.T) {
	if East.Rotate(6) != East {
		t.Error("full clockwise turn should return to start")
	}
	if East.Rotate(-1) != NorthEast {
		t.Errorf("East.Rotate(-1) = %v, want NE", East.Rotate(-1))
	}
	if East.Rotate(1) != SouthEast {
		t.Errorf("East.Rotate(1) = %v, want SE", East.Rotate(1))
	}
}

func TestArithmetic(t *testing.T) {
	a := Hex{2, -3}
	b := Hex{-1, 5}

	if got := a.Add(b); got != (Hex{1, 2}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Hex{3, -8}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(3); got != (Hex{6, -9}) {
		t.Errorf("Scale = %v", got)
	}
}
