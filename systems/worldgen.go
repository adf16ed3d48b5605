package systems

import (
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/brood/components"
	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/hexgrid"
)

// StructurePlacement is a worldgen decision to put a structure kind on
// a tile. The lifecycle layer turns placements into entities.
type StructurePlacement struct {
	Kind components.StructureID
	Hex  hexgrid.Hex
}

// UnitPlacement is a worldgen decision to spawn a unit kind on a tile.
type UnitPlacement struct {
	Kind components.UnitID
	Hex  hexgrid.Hex
}

// GenerateTerrain carves impassable rock into the arena from layered
// simplex noise. The origin is always kept open so the colony has
// somewhere to start.
func GenerateTerrain(geom *MapGeometry, seed int64) {
	cfg := config.Cfg().Worldgen
	noise := opensimplex.NewNormalized(seed)

	for _, h := range geom.Tiles() {
		// Axial to cartesian so the noise is not sheared along r.
		x := (float64(h.Q) + float64(h.R)*0.5) * cfg.NoiseScale
		y := float64(h.R) * math.Sqrt(3) / 2 * cfg.NoiseScale

		v := fbm(noise, x, y, cfg.Octaves, cfg.Lacunarity, cfg.Gain)
		geom.SetPassable(h, v <= cfg.RockThreshold)
	}
	geom.SetPassable(hexgrid.Hex{}, true)
}

// fbm layers octaves of simplex noise, normalized back to [0, 1].
func fbm(noise opensimplex.Noise, x, y float64, octaves int, lacunarity, gain float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	var sum, amp, norm float64
	amp = 1
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += noise.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	return sum / norm
}

// PlanPlacements scatters the configured starting structures, ghosts
// and units over open ground. Structures and ghosts claim their tiles
// here so later picks cannot land on them; units may share tiles
// freely.
func PlanPlacements(geom *MapGeometry, rng *rand.Rand) ([]StructurePlacement, []StructurePlacement, []UnitPlacement) {
	cfg := config.Cfg()

	var open []hexgrid.Hex
	for _, h := range geom.Tiles() {
		if geom.Open(h) {
			open = append(open, h)
		}
	}
	rng.Shuffle(len(open), func(i, j int) {
		open[i], open[j] = open[j], open[i]
	})

	var structures []StructurePlacement
	next := 0
	for _, sp := range cfg.Worldgen.Structures {
		kind := components.StructureID(cfg.Derived.StructureIndex[sp.Structure])
		for n := 0; n < sp.Count && next < len(open); n++ {
			structures = append(structures, StructurePlacement{Kind: kind, Hex: open[next]})
			next++
		}
	}

	var ghosts []StructurePlacement
	for _, sp := range cfg.Worldgen.Ghosts {
		kind := components.StructureID(cfg.Derived.StructureIndex[sp.Structure])
		for n := 0; n < sp.Count && next < len(open); n++ {
			ghosts = append(ghosts, StructurePlacement{Kind: kind, Hex: open[next]})
			next++
		}
	}

	// Remaining open tiles host the starting units.
	walkable := open[next:]
	var units []UnitPlacement
	for _, sp := range cfg.Worldgen.Units {
		kind := components.UnitID(cfg.Derived.UnitIndex[sp.Unit])
		for n := 0; n < sp.Count; n++ {
			if len(walkable) == 0 {
				break
			}
			units = append(units, UnitPlacement{
				Kind: kind,
				Hex:  walkable[rng.IntN(len(walkable))],
			})
		}
	}
	return structures, ghosts, units
}
