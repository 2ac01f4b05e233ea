package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Lattice places n particles on a cubic lattice centred in the boundary.
// Rows run along X, columns along Z and layers stack along +Y. The
// spacing is the gap between particles plus the particle diameter.
// jitter adds a uniform offset in [-jitter, jitter] per axis; rng may be
// nil when jitter is zero. Positions are clamped into the box.
func Lattice(n int, spacing float64, b Boundary, particleRadius, jitter float64, rng *rand.Rand) []r3.Vec {
	if n <= 0 {
		return nil
	}

	perRow := int(math.Cbrt(float64(n)))
	if perRow < 1 {
		perRow = 1
	}
	// Cbrt can land just under an exact cube.
	if (perRow+1)*(perRow+1)*(perRow+1) <= n {
		perRow++
	}
	perLayer := perRow * perRow
	layers := (n + perLayer - 1) / perLayer

	step := spacing + 2*particleRadius
	origin := r3.Vec{
		X: b.Center.X - float64(perRow-1)*step/2,
		Y: b.Center.Y - float64(layers-1)*step/2,
		Z: b.Center.Z - float64(perRow-1)*step/2,
	}
	half := b.HalfExtent(particleRadius)

	positions := make([]r3.Vec, n)
	for i := range positions {
		inLayer := i % perLayer
		p := r3.Vec{
			X: origin.X + float64(inLayer%perRow)*step,
			Y: origin.Y + float64(i/perLayer)*step,
			Z: origin.Z + float64(inLayer/perRow)*step,
		}
		if jitter > 0 && rng != nil {
			p.X += (rng.Float64()*2 - 1) * jitter
			p.Y += (rng.Float64()*2 - 1) * jitter
			p.Z += (rng.Float64()*2 - 1) * jitter
		}
		positions[i] = clampInto(p, b.Center, half)
	}
	return positions
}

func clampInto(p, center, half r3.Vec) r3.Vec {
	return r3.Vec{
		X: clampFloat(p.X, center.X-half.X, center.X+half.X),
		Y: clampFloat(p.Y, center.Y-half.Y, center.Y+half.Y),
		Z: clampFloat(p.Z, center.Z-half.Z, center.Z+half.Z),
	}
}
