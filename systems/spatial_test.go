package systems

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func randomPositions(rng *rand.Rand, n int, extent float64) []r3.Vec {
	positions := make([]r3.Vec, n)
	for i := range positions {
		positions[i] = r3.Vec{
			X: (rng.Float64()*2 - 1) * extent,
			Y: (rng.Float64()*2 - 1) * extent,
			Z: (rng.Float64()*2 - 1) * extent,
		}
	}
	return positions
}

func bruteForce(positions []r3.Vec, p r3.Vec, radius float64) []int {
	var out []int
	for i, q := range positions {
		d := r3.Sub(p, q)
		if r3.Dot(d, d) <= radius*radius {
			out = append(out, i)
		}
	}
	return out
}

// TestQueryMatchesBruteForce checks the grid against an exhaustive scan for
// random placements, query points and radii.
func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(295275912632))

	for trial := 0; trial < 40; trial++ {
		n := 1 + rng.Intn(400)
		cellSize := 0.2 + rng.Float64()
		positions := randomPositions(rng, n, 3)

		grid := NewSpatialHashGrid(cellSize)
		grid.Rebuild(positions)

		for q := 0; q < 25; q++ {
			p := randomPositions(rng, 1, 3.5)[0]
			radius := rng.Float64() * 2 * cellSize

			got := grid.QueryRadius(positions, p, radius)
			slices.Sort(got)
			want := bruteForce(positions, p, radius)

			if !slices.Equal(got, want) {
				t.Fatalf("trial %d query %d: n=%d cell=%.3f r=%.3f\n got  %v\n want %v",
					trial, q, n, cellSize, radius, got, want)
			}
		}
	}
}

// TestQueryNoDuplicatesUnderAliasing forces heavy key aliasing with a tiny
// table (few particles spread over many cells).
func TestQueryNoDuplicatesUnderAliasing(t *testing.T) {
	positions := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 0.5, Y: 0, Z: 0},
		{X: 0, Y: 0.9, Z: 0},
	}
	grid := NewSpatialHashGrid(1)
	grid.Rebuild(positions)

	got := grid.QueryRadius(positions, r3.Vec{}, 1)
	slices.Sort(got)
	want := []int{0, 1, 2}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRebuildSortedContiguousRuns(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	positions := randomPositions(rng, 300, 4)
	grid := NewSpatialHashGrid(0.5)
	grid.Rebuild(positions)

	entries := grid.Entries()
	if len(entries) != len(positions) {
		t.Fatalf("entries = %d, want %d", len(entries), len(positions))
	}

	seen := make(map[uint32]bool)
	for i, e := range entries {
		if i > 0 && e.Key < entries[i-1].Key {
			t.Fatalf("entries not sorted at %d", i)
		}
		if i == 0 || e.Key != entries[i-1].Key {
			if seen[e.Key] {
				t.Fatalf("key %d appears in two runs", e.Key)
			}
			seen[e.Key] = true

			start, ok := grid.StartIndex(e.Key)
			if !ok || start != i {
				t.Errorf("StartIndex(%d) = %d,%v want %d,true", e.Key, start, ok, i)
			}
		}
	}

	for key := uint32(0); key < uint32(len(positions)); key++ {
		if _, ok := grid.StartIndex(key); ok != seen[key] {
			t.Errorf("key %d present=%v, want %v", key, ok, seen[key])
		}
	}
}

func TestCellOfFloorsNegatives(t *testing.T) {
	grid := NewSpatialHashGrid(1)
	tests := []struct {
		p    r3.Vec
		want Cell
	}{
		{r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Cell{0, 0, 0}},
		{r3.Vec{X: -0.5, Y: 1.5, Z: -2.0}, Cell{-1, 1, -2}},
		{r3.Vec{X: -0.0, Y: 2.999, Z: -1e-9}, Cell{0, 2, -1}},
	}
	for _, tt := range tests {
		if got := grid.CellOf(tt.p); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestEmptyGrid(t *testing.T) {
	grid := NewSpatialHashGrid(1)
	grid.Rebuild(nil)

	if grid.Len() != 0 {
		t.Errorf("Len() = %d, want 0", grid.Len())
	}
	if got := grid.QueryRadiusInto(nil, nil, r3.Vec{}, 1); len(got) != 0 {
		t.Errorf("query on empty grid returned %v", got)
	}
	if _, ok := grid.StartIndex(0); ok {
		t.Error("empty grid should report no keys")
	}
}

func TestRebuildReusesAndShrinks(t *testing.T) {
	grid := NewSpatialHashGrid(1)
	grid.Rebuild(randomPositions(rand.New(rand.NewSource(1)), 50, 2))
	small := []r3.Vec{{X: 0.1}, {X: 0.2}}
	grid.Rebuild(small)

	if grid.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", grid.Len())
	}
	got := grid.QueryRadius(small, r3.Vec{}, 0.5)
	slices.Sort(got)
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("got %v, want [0 1]", got)
	}
}

func TestQueryReportsOffsetAndDistance(t *testing.T) {
	positions := []r3.Vec{{X: 0.3, Y: 0.4, Z: 0}}
	grid := NewSpatialHashGrid(1)
	grid.Rebuild(positions)

	got := grid.QueryRadiusInto(nil, positions, r3.Vec{}, 1)
	if len(got) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(got))
	}
	if math.Abs(got[0].Dist-0.5) > 1e-12 {
		t.Errorf("Dist = %v, want 0.5", got[0].Dist)
	}
	if got[0].Offset != (r3.Vec{X: -0.3, Y: -0.4}) {
		t.Errorf("Offset = %v, want query minus neighbor", got[0].Offset)
	}
}

func BenchmarkGridRebuild(b *testing.B) {
	positions := randomPositions(rand.New(rand.NewSource(295275912632)), 4000, 5)
	grid := NewSpatialHashGrid(0.35)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		grid.Rebuild(positions)
	}
}

func BenchmarkGridQuery(b *testing.B) {
	positions := randomPositions(rand.New(rand.NewSource(295275912632)), 4000, 5)
	grid := NewSpatialHashGrid(0.35)
	grid.Rebuild(positions)
	dst := make([]Neighbor, 0, 128)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		dst = grid.QueryRadiusInto(dst[:0], positions, positions[n%len(positions)], 0.35)
	}
}
