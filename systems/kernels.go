package systems

import "math"

// Smoothing kernels. Each is zero for d >= h, continuous at d == h and
// normalized so its integral over the support sphere is 1.
//
//	density       W(d,h)  = 15/(2*pi*h^5) * (h-d)^2
//	near density  Wn(d,h) = 15/(pi*h^6)   * (h-d)^3
//	viscosity     Wv(d,h) = 315/(64*pi*h^9) * (h^2-d^2)^3

// DensityKernel is the primary density kernel.
func DensityKernel(d, h float64) float64 {
	if d >= h || h <= 0 {
		return 0
	}
	v := h - d
	return 15 / (2 * math.Pi * math.Pow(h, 5)) * v * v
}

// DensityKernelDerivative is dW/dd. It is <= 0 inside the support.
func DensityKernelDerivative(d, h float64) float64 {
	if d >= h || h <= 0 {
		return 0
	}
	return -15 / (math.Pi * math.Pow(h, 5)) * (h - d)
}

// NearDensityKernel has a cubic falloff, steeper than DensityKernel.
func NearDensityKernel(d, h float64) float64 {
	if d >= h || h <= 0 {
		return 0
	}
	v := h - d
	return 15 / (math.Pi * math.Pow(h, 6)) * v * v * v
}

// NearDensityKernelDerivative is dWn/dd.
func NearDensityKernelDerivative(d, h float64) float64 {
	if d >= h || h <= 0 {
		return 0
	}
	v := h - d
	return -45 / (math.Pi * math.Pow(h, 6)) * v * v
}

// ViscosityKernel weights relative velocities between neighbors.
func ViscosityKernel(d, h float64) float64 {
	if d >= h || h <= 0 {
		return 0
	}
	v := h*h - d*d
	return 315 / (64 * math.Pi * math.Pow(h, 9)) * v * v * v
}

// Kernels evaluates the same functions with the normalization for one
// support radius precomputed.
type Kernels struct {
	H float64

	h2           float64
	density      float64
	densityDeriv float64
	near         float64
	nearDeriv    float64
	viscosity    float64
}

// NewKernels precomputes kernel constants for support radius h.
func NewKernels(h float64) Kernels {
	h5 := math.Pow(h, 5)
	h6 := h5 * h
	h9 := h6 * h * h * h
	return Kernels{
		H:            h,
		h2:           h * h,
		density:      15 / (2 * math.Pi * h5),
		densityDeriv: -15 / (math.Pi * h5),
		near:         15 / (math.Pi * h6),
		nearDeriv:    -45 / (math.Pi * h6),
		viscosity:    315 / (64 * math.Pi * h9),
	}
}

// Density evaluates DensityKernel.
func (k *Kernels) Density(d float64) float64 {
	if d >= k.H {
		return 0
	}
	v := k.H - d
	return k.density * v * v
}

// DensityDerivative evaluates DensityKernelDerivative.
func (k *Kernels) DensityDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	return k.densityDeriv * (k.H - d)
}

// NearDensity evaluates NearDensityKernel.
func (k *Kernels) NearDensity(d float64) float64 {
	if d >= k.H {
		return 0
	}
	v := k.H - d
	return k.near * v * v * v
}

// NearDensityDerivative evaluates NearDensityKernelDerivative.
func (k *Kernels) NearDensityDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	v := k.H - d
	return k.nearDeriv * v * v
}

// Viscosity evaluates ViscosityKernel.
func (k *Kernels) Viscosity(d float64) float64 {
	if d >= k.H {
		return 0
	}
	v := k.h2 - d*d
	return k.viscosity * v * v * v
}
