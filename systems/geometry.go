package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brood/hexgrid"
)

// MapGeometry is the dense tile arena for a hexagonal map. Every tile
// inside the radius gets a stable linear index, which the signal and
// pulse fields use as array offsets. It also tracks passability,
// which structure occupies each tile, and which units stand on it.
type MapGeometry struct {
	radius int
	tiles  []hexgrid.Hex
	index  map[hexgrid.Hex]int

	passable     []bool
	structures   []ecs.Entity
	hasStructure []bool

	// Units sharing a tile is allowed, so this is a multiset.
	units [][]ecs.Entity
}

// NewMapGeometry creates the arena for a hexagon of the given radius
// around the origin. All tiles start passable and empty.
func NewMapGeometry(radius int) *MapGeometry {
	tiles := hexgrid.Hex{}.Hexagon(radius)
	g := &MapGeometry{
		radius:       radius,
		tiles:        tiles,
		index:        make(map[hexgrid.Hex]int, len(tiles)),
		passable:     make([]bool, len(tiles)),
		structures:   make([]ecs.Entity, len(tiles)),
		hasStructure: make([]bool, len(tiles)),
		units:        make([][]ecs.Entity, len(tiles)),
	}
	for i, h := range tiles {
		g.index[h] = i
		g.passable[i] = true
	}
	return g
}

// Radius returns the map radius.
func (g *MapGeometry) Radius() int { return g.radius }

// TileCount returns the number of tiles in the arena.
func (g *MapGeometry) TileCount() int { return len(g.tiles) }

// Tiles returns all tiles in index order. The slice must not be modified.
func (g *MapGeometry) Tiles() []hexgrid.Hex { return g.tiles }

// Tile returns the hex at a linear index.
func (g *MapGeometry) Tile(i int) hexgrid.Hex { return g.tiles[i] }

// Contains reports whether the hex is inside the map.
func (g *MapGeometry) Contains(h hexgrid.Hex) bool {
	_, ok := g.index[h]
	return ok
}

// Index returns the linear index of a hex, or ok=false outside the map.
func (g *MapGeometry) Index(h hexgrid.Hex) (int, bool) {
	i, ok := g.index[h]
	return i, ok
}

// SetPassable marks a tile walkable or not. Out-of-bounds is a no-op.
func (g *MapGeometry) SetPassable(h hexgrid.Hex, passable bool) {
	if i, ok := g.index[h]; ok {
		g.passable[i] = passable
	}
}

// Passable reports whether units can stand on the tile. Tiles outside
// the map and tiles holding a structure are not walkable.
func (g *MapGeometry) Passable(h hexgrid.Hex) bool {
	i, ok := g.index[h]
	if !ok {
		return false
	}
	return g.passable[i] && !g.hasStructure[i]
}

// Open reports whether a structure could be placed on the tile.
func (g *MapGeometry) Open(h hexgrid.Hex) bool {
	i, ok := g.index[h]
	if !ok {
		return false
	}
	return g.passable[i] && !g.hasStructure[i]
}

// PlaceStructure records a structure entity on a tile. Returns false if
// the tile is outside the map or already occupied.
func (g *MapGeometry) PlaceStructure(h hexgrid.Hex, e ecs.Entity) bool {
	i, ok := g.index[h]
	if !ok || g.hasStructure[i] || !g.passable[i] {
		return false
	}
	g.structures[i] = e
	g.hasStructure[i] = true
	return true
}

// RemoveStructure clears the structure record on a tile.
func (g *MapGeometry) RemoveStructure(h hexgrid.Hex) {
	if i, ok := g.index[h]; ok {
		g.structures[i] = ecs.Entity{}
		g.hasStructure[i] = false
	}
}

// StructureAt returns the structure entity on a tile, if any.
func (g *MapGeometry) StructureAt(h hexgrid.Hex) (ecs.Entity, bool) {
	i, ok := g.index[h]
	if !ok || !g.hasStructure[i] {
		return ecs.Entity{}, false
	}
	return g.structures[i], true
}

// PlaceUnit records a unit standing on a tile. Returns false outside
// the map. Units do not block each other, so a tile can hold several.
func (g *MapGeometry) PlaceUnit(h hexgrid.Hex, e ecs.Entity) bool {
	i, ok := g.index[h]
	if !ok {
		return false
	}
	g.units[i] = append(g.units[i], e)
	return true
}

// RemoveUnit clears one unit record from a tile. Returns false if the
// unit was not recorded there.
func (g *MapGeometry) RemoveUnit(h hexgrid.Hex, e ecs.Entity) bool {
	i, ok := g.index[h]
	if !ok {
		return false
	}
	for j, u := range g.units[i] {
		if u == e {
			g.units[i] = append(g.units[i][:j], g.units[i][j+1:]...)
			return true
		}
	}
	return false
}

// MoveUnit relocates a unit record between tiles.
func (g *MapGeometry) MoveUnit(from, to hexgrid.Hex, e ecs.Entity) {
	g.RemoveUnit(from, e)
	g.PlaceUnit(to, e)
}

// UnitAt returns a unit standing on the tile, if any.
func (g *MapGeometry) UnitAt(h hexgrid.Hex) (ecs.Entity, bool) {
	i, ok := g.index[h]
	if !ok || len(g.units[i]) == 0 {
		return ecs.Entity{}, false
	}
	return g.units[i][0], true
}

// UnitsAt appends every unit standing on the tile to dst.
func (g *MapGeometry) UnitsAt(h hexgrid.Hex, dst []ecs.Entity) []ecs.Entity {
	if i, ok := g.index[h]; ok {
		dst = append(dst, g.units[i]...)
	}
	return dst
}

// RandomPassableNeighbor picks uniformly among the walkable in-bounds
// neighbors of h that satisfy pred. A nil pred accepts every walkable
// neighbor. Returns false when none qualify.
func (g *MapGeometry) RandomPassableNeighbor(h hexgrid.Hex,
	pred func(hexgrid.Hex) bool, rng *rand.Rand) (hexgrid.Hex, bool) {

	var candidates [6]hexgrid.Hex
	n := 0
	for _, nb := range h.Neighbors() {
		if !g.Passable(nb) {
			continue
		}
		if pred != nil && !pred(nb) {
			continue
		}
		candidates[n] = nb
		n++
	}
	if n == 0 {
		return hexgrid.Hex{}, false
	}
	return candidates[rng.IntN(n)], true
}

// WalkableNeighbors appends the in-bounds, passable neighbors of a hex
// to dst and returns it. The dst slice lets callers reuse a buffer.
func (g *MapGeometry) WalkableNeighbors(h hexgrid.Hex, dst []hexgrid.Hex) []hexgrid.Hex {
	for _, n := range h.Neighbors() {
		if g.Passable(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// AdjacentStructures appends structure entities on tiles next to h.
func (g *MapGeometry) AdjacentStructures(h hexgrid.Hex, dst []ecs.Entity) []ecs.Entity {
	for _, n := range h.Neighbors() {
		if e, ok := g.StructureAt(n); ok {
			dst = append(dst, e)
		}
	}
	return dst
}
