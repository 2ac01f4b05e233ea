package systems

import "gonum.org/v1/gonum/spatial/r3"

// DensityToPressure converts a density into pressure with a linear equation
// of state. Densities below target yield negative (attractive) pressure.
func DensityToPressure(density, targetDensity, multiplier float64) float64 {
	return (density - targetDensity) * multiplier
}

// NearDensityToPressure converts a near density into a purely repulsive
// near pressure.
func NearDensityToPressure(nearDensity, multiplier float64) float64 {
	return nearDensity * multiplier
}

// SharedPressure averages the pressures of an interacting pair so the
// interaction is the same whichever particle evaluates it.
func SharedPressure(pressureA, pressureB float64) float64 {
	return (pressureA + pressureB) / 2
}

// fallbackAxis separates coincident particles.
var fallbackAxis = r3.Vec{Y: 1}

// PairDirection returns the unit vector pointing from neighbor j toward
// particle i, given offset = pos_i - pos_j. For coincident particles it
// returns -Y for the lower index and +Y for the higher one, so the
// direction stays antisymmetric and never NaN.
func PairDirection(offset r3.Vec, dist float64, i, j int) r3.Vec {
	if dist > 0 {
		return r3.Scale(1/dist, offset)
	}
	if i < j {
		return r3.Scale(-1, fallbackAxis)
	}
	return fallbackAxis
}
