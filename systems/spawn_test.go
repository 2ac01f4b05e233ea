package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestLatticeCountAndContainment(t *testing.T) {
	b := Boundary{Center: r3.Vec{Y: 1}, Size: r3.Vec{X: 4, Y: 4, Z: 4}}
	const radius = 0.05
	half := b.HalfExtent(radius)

	for _, n := range []int{1, 7, 8, 27, 28, 1000} {
		positions := Lattice(n, 0.1, b, radius, 0, nil)
		if len(positions) != n {
			t.Fatalf("n=%d: got %d positions", n, len(positions))
		}
		for i, p := range positions {
			if !b.Contains(p, half) {
				t.Errorf("n=%d: position %d = %v outside box", n, i, p)
			}
		}
	}
}

func TestLatticeDistinctWithoutJitter(t *testing.T) {
	b := Boundary{Size: r3.Vec{X: 10, Y: 10, Z: 10}}
	positions := Lattice(64, 0.2, b, 0.05, 0, nil)
	seen := make(map[r3.Vec]bool, len(positions))
	for _, p := range positions {
		if seen[p] {
			t.Fatalf("duplicate position %v", p)
		}
		seen[p] = true
	}
}

func TestLatticeCentered(t *testing.T) {
	b := Boundary{Center: r3.Vec{X: 2, Y: -1, Z: 3}, Size: r3.Vec{X: 10, Y: 10, Z: 10}}
	positions := Lattice(27, 0.3, b, 0, 0, nil)
	var sum r3.Vec
	for _, p := range positions {
		sum = r3.Add(sum, p)
	}
	mean := r3.Scale(1/float64(len(positions)), sum)
	if r3.Norm(r3.Sub(mean, b.Center)) > 1e-9 {
		t.Errorf("mean = %v, want %v", mean, b.Center)
	}
}

func TestLatticeJitterDeterministic(t *testing.T) {
	b := Boundary{Size: r3.Vec{X: 3, Y: 3, Z: 3}}
	a := Lattice(50, 0.1, b, 0.05, 0.02, rand.New(rand.NewSource(3)))
	c := Lattice(50, 0.1, b, 0.05, 0.02, rand.New(rand.NewSource(3)))
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("position %d differs: %v vs %v", i, a[i], c[i])
		}
	}
}

func TestLatticeEmpty(t *testing.T) {
	if got := Lattice(0, 0.1, Boundary{}, 0, 0, nil); got != nil {
		t.Errorf("Lattice(0) = %v, want nil", got)
	}
}
