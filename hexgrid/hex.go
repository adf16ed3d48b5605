// Package hexgrid provides axial hex coordinates and the related
// integer geometry used by the map and signal systems.
package hexgrid

// Hex is a position on the hex grid in axial coordinates.
// The third cube coordinate is derived: S = -Q - R.
type Hex struct {
	Q int
	R int
}

// S returns the implicit third cube coordinate.
func (h Hex) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h Hex) Add(other Hex) Hex {
	return Hex{Q: h.Q + other.Q, R: h.R + other.R}
}

// Sub returns the component-wise difference of two coordinates.
func (h Hex) Sub(other Hex) Hex {
	return Hex{Q: h.Q - other.Q, R: h.R - other.R}
}

// Scale multiplies both components by n.
func (h Hex) Scale(n int) Hex {
	return Hex{Q: h.Q * n, R: h.R * n}
}

// Distance returns the hex distance between two coordinates:
// half the L1 norm of the cube-coordinate difference.
func Distance(a, b Hex) int {
	dq := absInt(a.Q - b.Q)
	dr := absInt(a.R - b.R)
	ds := absInt(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// Direction identifies one of the six neighbor directions.
type Direction uint8

// Directions in fixed clockwise order, starting East.
const (
	East Direction = iota
	SouthEast
	SouthWest
	West
	NorthWest
	NorthEast
)

// directionOffsets holds the axial offset for each Direction, in the
// same clockwise-from-East order as the Direction constants.
var directionOffsets = [6]Hex{
	{Q: 1, R: 0},  // East
	{Q: 0, R: 1},  // SouthEast
	{Q: -1, R: 1}, // SouthWest
	{Q: -1, R: 0}, // West
	{Q: 0, R: -1}, // NorthWest
	{Q: 1, R: -1}, // NorthEast
}

// Offset returns the axial offset for this direction.
func (d Direction) Offset() Hex {
	return directionOffsets[d]
}

// Rotate returns the direction rotated by steps (positive = clockwise),
// using the Euclidean remainder so negative steps work.
func (d Direction) Rotate(steps int) Direction {
	r := (int(d) + steps) % 6
	if r < 0 {
		r += 6
	}
	return Direction(r)
}

// String returns the compass name of the direction.
func (d Direction) String() string {
	switch d {
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	case NorthEast:
		return "NE"
	}
	return "?"
}

// Neighbor returns the adjacent coordinate in the given direction.
func (h Hex) Neighbor(d Direction) Hex {
	return h.Add(d.Offset())
}

// Neighbors returns the six adjacent coordinates in fixed clockwise
// order starting East.
func (h Hex) Neighbors() [6]Hex {
	var result [6]Hex
	for i, offset := range directionOffsets {
		result[i] = h.Add(offset)
	}
	return result
}

// NeighborsWhere returns the adjacent coordinates satisfying pred,
// preserving the clockwise order.
func (h Hex) NeighborsWhere(pred func(Hex) bool) []Hex {
	result := make([]Hex, 0, 6)
	for _, n := range h.Neighbors() {
		if pred(n) {
			result = append(result, n)
		}
	}
	return result
}

// Ring returns the coordinates exactly radius tiles from h.
// Radius 0 yields just h; radius r yields exactly 6*r coordinates,
// walked side by side in six runs of length r, turning clockwise
// after each side.
func (h Hex) Ring(radius int) []Hex {
	if radius <= 0 {
		return []Hex{h}
	}

	result := make([]Hex, 0, 6*radius)
	// Start at the NorthWest corner of the ring and walk East first,
	// so each side is traversed before turning clockwise.
	pos := h.Add(NorthWest.Offset().Scale(radius))
	dir := East
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			result = append(result, pos)
			pos = pos.Neighbor(dir)
		}
		dir = dir.Rotate(1)
	}
	return result
}

// Hexagon returns all coordinates within radius tiles of h, as the
// concatenation of Ring(0) through Ring(radius). The total count is
// 1 + 3*radius*(radius+1).
func (h Hex) Hexagon(radius int) []Hex {
	if radius < 0 {
		radius = 0
	}
	result := make([]Hex, 0, 1+3*radius*(radius+1))
	for r := 0; r <= radius; r++ {
		result = append(result, h.Ring(r)...)
	}
	return result
}

// HexagonArea returns the number of tiles in a hexagon of the given
// radius.
func HexagonArea(radius int) int {
	if radius < 0 {
		return 0
	}
	return 1 + 3*radius*(radius+1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
