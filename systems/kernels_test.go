package systems

import (
	"math"
	"testing"
)

type kernelFunc func(d, h float64) float64

var kernelTable = []struct {
	name  string
	value kernelFunc
}{
	{"density", DensityKernel},
	{"near_density", NearDensityKernel},
	{"viscosity", ViscosityKernel},
}

func TestKernelsZeroOutsideSupport(t *testing.T) {
	for _, k := range kernelTable {
		t.Run(k.name, func(t *testing.T) {
			for _, h := range []float64{0.1, 0.5, 1, 2.5} {
				for _, d := range []float64{h, h * 1.0001, h * 2, h + 10} {
					if got := k.value(d, h); got != 0 {
						t.Errorf("W(%v, %v) = %v, want 0", d, h, got)
					}
				}
				if got := k.value(0, h); got <= 0 {
					t.Errorf("W(0, %v) = %v, want > 0", h, got)
				}
			}
		})
	}
}

func TestDerivativesZeroOutsideSupport(t *testing.T) {
	for _, h := range []float64{0.2, 1, 3} {
		for _, d := range []float64{h, 1.5 * h} {
			if got := DensityKernelDerivative(d, h); got != 0 {
				t.Errorf("dW(%v,%v) = %v, want 0", d, h, got)
			}
			if got := NearDensityKernelDerivative(d, h); got != 0 {
				t.Errorf("dWn(%v,%v) = %v, want 0", d, h, got)
			}
		}
	}
}

// TestKernelContinuityAtSupport checks value and derivative approach zero
// from inside without a sign flip.
func TestKernelContinuityAtSupport(t *testing.T) {
	const h = 1.0
	const eps = 1e-7

	for _, k := range kernelTable {
		if got := k.value(h-eps, h); got < 0 || got > 1e-5 {
			t.Errorf("%s: W(h-eps) = %v, want ~0 and >= 0", k.name, got)
		}
	}

	inner := DensityKernelDerivative(h-eps, h)
	if inner > 0 || inner < -1e-5 {
		t.Errorf("dW(h-eps) = %v, want small non-positive", inner)
	}
	innerNear := NearDensityKernelDerivative(h-eps, h)
	if innerNear > 0 || innerNear < -1e-5 {
		t.Errorf("dWn(h-eps) = %v, want small non-positive", innerNear)
	}
}

func TestNonPositiveRadius(t *testing.T) {
	for _, k := range kernelTable {
		if got := k.value(0, 0); got != 0 {
			t.Errorf("%s with h=0 = %v, want 0", k.name, got)
		}
		if got := k.value(0, -1); got != 0 {
			t.Errorf("%s with h<0 = %v, want 0", k.name, got)
		}
	}
}

// TestKernelNormalization integrates each kernel over the support sphere.
func TestKernelNormalization(t *testing.T) {
	for _, k := range kernelTable {
		for _, h := range []float64{0.35, 1, 2} {
			got := integrateSphere(k.value, h)
			if math.Abs(got-1) > 1e-6 {
				t.Errorf("%s h=%v: integral = %v, want 1", k.name, h, got)
			}
		}
	}
}

// integrateSphere computes the integral of 4*pi*r^2*W(r) over [0,h] with
// composite Simpson's rule.
func integrateSphere(w kernelFunc, h float64) float64 {
	const n = 2000
	step := h / n
	f := func(r float64) float64 { return 4 * math.Pi * r * r * w(r, h) }
	sum := f(0) + f(h)
	for i := 1; i < n; i++ {
		coef := 2.0
		if i%2 == 1 {
			coef = 4
		}
		sum += coef * f(float64(i)*step)
	}
	return sum * step / 3
}

func TestDerivativeMatchesFiniteDifference(t *testing.T) {
	const h = 1.3
	const eps = 1e-6
	for _, d := range []float64{0.1, 0.5, 0.9, 1.2} {
		fd := (DensityKernel(d+eps, h) - DensityKernel(d-eps, h)) / (2 * eps)
		if got := DensityKernelDerivative(d, h); math.Abs(got-fd) > 1e-4 {
			t.Errorf("dW(%v) = %v, finite difference %v", d, got, fd)
		}
		fdNear := (NearDensityKernel(d+eps, h) - NearDensityKernel(d-eps, h)) / (2 * eps)
		if got := NearDensityKernelDerivative(d, h); math.Abs(got-fdNear) > 1e-4 {
			t.Errorf("dWn(%v) = %v, finite difference %v", d, got, fdNear)
		}
	}
}

func TestNearKernelFallsOffFaster(t *testing.T) {
	const h = 1.0
	w0 := DensityKernel(0, h)
	n0 := NearDensityKernel(0, h)
	for _, d := range []float64{0.05, 0.2, 0.5, 0.8} {
		if NearDensityKernel(d, h)/n0 >= DensityKernel(d, h)/w0 {
			t.Errorf("near kernel should fall off faster at d=%v", d)
		}
	}
}

func TestKernelsStructMatchesFunctions(t *testing.T) {
	for _, h := range []float64{0.25, 1, 1.7} {
		k := NewKernels(h)
		for _, d := range []float64{0, 0.1 * h, 0.5 * h, 0.99 * h, h, 2 * h} {
			pairs := []struct {
				name      string
				got, want float64
			}{
				{"density", k.Density(d), DensityKernel(d, h)},
				{"density_deriv", k.DensityDerivative(d), DensityKernelDerivative(d, h)},
				{"near", k.NearDensity(d), NearDensityKernel(d, h)},
				{"near_deriv", k.NearDensityDerivative(d), NearDensityKernelDerivative(d, h)},
				{"viscosity", k.Viscosity(d), ViscosityKernel(d, h)},
			}
			for _, p := range pairs {
				if diff := math.Abs(p.got - p.want); diff > 1e-9*math.Max(1, math.Abs(p.want)) {
					t.Errorf("%s(d=%v,h=%v) = %v, want %v", p.name, d, h, p.got, p.want)
				}
			}
		}
	}
}
