// Package systems provides the SPH building blocks: the spatial hash grid,
// smoothing kernels, boundary collision and particle spawning.
package systems

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hash multipliers for cell coordinates. Chosen empirically to spread
// box-shaped domains across the key space.
const (
	hashK1 uint32 = 15823
	hashK2 uint32 = 9737333
	hashK3 uint32 = 10061
)

// notPresent marks a key with no entries in startIndices.
const notPresent = -1

// Cell is an integer grid cell coordinate.
type Cell struct {
	X, Y, Z int32
}

// GridEntry is one particle in the sorted grid.
type GridEntry struct {
	Index int    // particle index
	Key   uint32 // cell hash modulo table size
	Cell  Cell
}

// Neighbor is a particle found by a radius query.
type Neighbor struct {
	Index  int
	Offset r3.Vec  // query point minus neighbor position
	Dist   float64 // Euclidean distance, <= query radius
}

// SpatialHashGrid answers fixed-radius neighbor queries by sorting particles
// on a hashed cell key. It owns no particle data and is rebuilt from scratch.
type SpatialHashGrid struct {
	cellSize     float64
	invCellSize  float64
	entries      []GridEntry
	startIndices []int // key -> first entry with that key
}

// NewSpatialHashGrid creates an empty grid. cellSize should equal the kernel
// support radius so a 3x3x3 block of cells covers any query of that radius.
func NewSpatialHashGrid(cellSize float64) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
	}
}

// CellSize returns the grid cell edge length.
func (g *SpatialHashGrid) CellSize() float64 {
	return g.cellSize
}

// CellOf returns the cell containing p.
func (g *SpatialHashGrid) CellOf(p r3.Vec) Cell {
	return Cell{
		X: int32(math.Floor(p.X * g.invCellSize)),
		Y: int32(math.Floor(p.Y * g.invCellSize)),
		Z: int32(math.Floor(p.Z * g.invCellSize)),
	}
}

// HashCell hashes a cell coordinate with wrapping unsigned arithmetic.
func HashCell(c Cell) uint32 {
	return uint32(c.X)*hashK1 + uint32(c.Y)*hashK2 + uint32(c.Z)*hashK3
}

// keyFromHash bounds a hash to the table size (the particle count).
func (g *SpatialHashGrid) keyFromHash(h uint32) uint32 {
	return h % uint32(len(g.startIndices))
}

// Rebuild indexes positions. Buffers are reused when the count is unchanged.
func (g *SpatialHashGrid) Rebuild(positions []r3.Vec) {
	n := len(positions)
	if cap(g.entries) < n {
		g.entries = make([]GridEntry, n)
		g.startIndices = make([]int, n)
	}
	g.entries = g.entries[:n]
	g.startIndices = g.startIndices[:n]
	if n == 0 {
		return
	}

	for i, p := range positions {
		c := g.CellOf(p)
		g.entries[i] = GridEntry{Index: i, Key: g.keyFromHash(HashCell(c)), Cell: c}
		g.startIndices[i] = notPresent
	}

	// Tie-break on index so the order, and every sum taken over it, is total.
	slices.SortFunc(g.entries, func(a, b GridEntry) int {
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	for i, e := range g.entries {
		if i == 0 || e.Key != g.entries[i-1].Key {
			g.startIndices[e.Key] = i
		}
	}
}

// Len returns the number of indexed particles.
func (g *SpatialHashGrid) Len() int {
	return len(g.entries)
}

// Entries returns the sorted entries. The slice is owned by the grid.
func (g *SpatialHashGrid) Entries() []GridEntry {
	return g.entries
}

// StartIndex returns the first entry holding key, if any.
func (g *SpatialHashGrid) StartIndex(key uint32) (int, bool) {
	if int(key) >= len(g.startIndices) {
		return 0, false
	}
	start := g.startIndices[key]
	return start, start != notPresent
}

// QueryRadiusInto appends every particle within radius of p to dst and
// returns the extended slice. positions must be the slice the grid was
// rebuilt from. Reuse dst across calls to avoid allocations.
//
// Results come out in a fixed order for a given grid: neighbor cells in
// x, y, z offset order, entries within a cell by particle index.
func (g *SpatialHashGrid) QueryRadiusInto(dst []Neighbor, positions []r3.Vec, p r3.Vec, radius float64) []Neighbor {
	if len(g.entries) == 0 || radius < 0 {
		return dst
	}

	span := int32(math.Ceil(radius * g.invCellSize))
	if span < 1 {
		span = 1
	}
	center := g.CellOf(p)
	radiusSq := radius * radius

	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				cell := Cell{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz}
				key := g.keyFromHash(HashCell(cell))
				start := g.startIndices[key]
				if start == notPresent {
					continue
				}

				for k := start; k < len(g.entries); k++ {
					e := &g.entries[k]
					if e.Key != key {
						break
					}
					// Another physical cell aliased onto this key.
					if e.Cell != cell {
						continue
					}

					offset := r3.Sub(p, positions[e.Index])
					distSq := r3.Dot(offset, offset)
					if distSq > radiusSq {
						continue
					}
					dst = append(dst, Neighbor{
						Index:  e.Index,
						Offset: offset,
						Dist:   math.Sqrt(distSq),
					})
				}
			}
		}
	}

	return dst
}

// QueryRadius returns the indices of all particles within radius of p.
// Allocates; hot paths should use QueryRadiusInto.
func (g *SpatialHashGrid) QueryRadius(positions []r3.Vec, p r3.Vec, radius float64) []int {
	neighbors := g.QueryRadiusInto(nil, positions, p, radius)
	result := make([]int, len(neighbors))
	for i, n := range neighbors {
		result[i] = n.Index
	}
	return result
}
