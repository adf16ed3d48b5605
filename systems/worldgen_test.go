package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/brood/hexgrid"
)

func TestTerrainIsDeterministicPerSeed(t *testing.T) {
	a := openGeometry(8)
	b := openGeometry(8)
	GenerateTerrain(a, 42)
	GenerateTerrain(b, 42)

	for _, h := range a.Tiles() {
		if a.Passable(h) != b.Passable(h) {
			t.Fatalf("tile %+v differs between identical seeds", h)
		}
	}

	c := openGeometry(8)
	GenerateTerrain(c, 1337)
	same := true
	for _, h := range a.Tiles() {
		if a.Passable(h) != c.Passable(h) {
			same = false
			break
		}
	}
	if same {
		t.Error("seeds 42 and 1337 produced identical terrain")
	}
}

func TestTerrainKeepsOriginOpen(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 99, 1234} {
		geom := openGeometry(8)
		GenerateTerrain(geom, seed)
		if !geom.Passable(hexgrid.Hex{}) {
			t.Errorf("seed %d blocked the origin", seed)
		}
	}
}

func TestPlacementsLandOnOpenTiles(t *testing.T) {
	geom := openGeometry(12)
	GenerateTerrain(geom, 7)
	rng := rand.New(rand.NewPCG(7, 7))

	structures, ghosts, units := PlanPlacements(geom, rng)
	if len(structures) == 0 || len(units) == 0 {
		t.Fatalf("placements empty: %d structures, %d units", len(structures), len(units))
	}

	claimed := make(map[hexgrid.Hex]bool)
	for _, p := range append(structures, ghosts...) {
		if !geom.Passable(p.Hex) {
			t.Errorf("structure placed on rock at %+v", p.Hex)
		}
		if claimed[p.Hex] {
			t.Errorf("two structures share %+v", p.Hex)
		}
		claimed[p.Hex] = true
	}
	for _, p := range units {
		if !geom.Passable(p.Hex) {
			t.Errorf("unit placed on rock at %+v", p.Hex)
		}
		if claimed[p.Hex] {
			t.Errorf("unit spawned inside a structure at %+v", p.Hex)
		}
	}
}

func TestPlacementCountsMatchConfig(t *testing.T) {
	reloadConfig(t, `
map:
  radius: 10
worldgen:
  structures:
    - structure: acacia
      count: 3
    - structure: hive
      count: 1
  ghosts:
    - structure: hive
      count: 2
  units:
    - unit: ant
      count: 5
`)
	geom := openGeometry(10)
	rng := rand.New(rand.NewPCG(1, 1))
	structures, ghosts, units := PlanPlacements(geom, rng)

	if len(structures) != 4 {
		t.Errorf("structures = %d, want 4", len(structures))
	}
	if len(ghosts) != 2 {
		t.Errorf("ghosts = %d, want 2", len(ghosts))
	}
	if len(units) != 5 {
		t.Errorf("units = %d, want 5", len(units))
	}
}
