package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNew(t *testing.T) {
	cam := New(0, 1, 0, 5, -30, 120, 45)

	if !near(cam.Yaw, 330) {
		t.Errorf("yaw = %v, want wrapped 330", cam.Yaw)
	}
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("pitch = %v, want clamped to %v", cam.Pitch, cam.MaxPitch)
	}
	if cam.Distance != 5 {
		t.Errorf("distance = %v, want 5", cam.Distance)
	}
}

func TestPositionDistance(t *testing.T) {
	tests := []struct {
		yaw, pitch float32
	}{
		{0, 0}, {90, 0}, {35, 25}, {200, -60},
	}
	for _, tt := range tests {
		cam := New(1, 2, 3, 7.5, tt.yaw, tt.pitch, 45)
		x, y, z := cam.Position()
		dx, dy, dz := x-1, y-2, z-3
		d := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
		if !near(d, 7.5) {
			t.Errorf("yaw %v pitch %v: eye distance %v, want 7.5", tt.yaw, tt.pitch, d)
		}
	}
}

func TestPositionAxes(t *testing.T) {
	cam := New(0, 0, 0, 4, 0, 0, 45)
	if x, y, z := cam.Position(); !near(x, 0) || !near(y, 0) || !near(z, 4) {
		t.Errorf("yaw 0: position (%v,%v,%v), want (0,0,4)", x, y, z)
	}

	cam.Yaw = 90
	if x, _, z := cam.Position(); !near(x, 4) || !near(z, 0) {
		t.Errorf("yaw 90: position x=%v z=%v, want x=4 z=0", x, z)
	}

	cam.Pitch = 89
	if _, y, _ := cam.Position(); y < 3.99 {
		t.Errorf("pitch 89: y = %v, want ~4", y)
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	cam := New(0, 0, 0, 4, 0, 0, 45)
	cam.Orbit(0, 10000, 0.5)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("pitch = %v, want %v", cam.Pitch, cam.MaxPitch)
	}
	cam.Orbit(0, -20000, 0.5)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("pitch = %v, want %v", cam.Pitch, cam.MinPitch)
	}
}

func TestOrbitWrapsYaw(t *testing.T) {
	cam := New(0, 0, 0, 4, 10, 0, 45)
	cam.Orbit(40, 0, 1)
	if !near(cam.Yaw, 330) {
		t.Errorf("yaw = %v, want 330", cam.Yaw)
	}
	cam.Orbit(-60, 0, 1)
	if !near(cam.Yaw, 30) {
		t.Errorf("yaw = %v, want 30", cam.Yaw)
	}
}

func TestZoomClamping(t *testing.T) {
	cam := New(0, 0, 0, 5, 0, 0, 45)
	cam.SetDistanceLimits(2, 10)

	cam.ZoomBy(100)
	if cam.Distance != 10 {
		t.Errorf("distance = %v, want max 10", cam.Distance)
	}
	cam.ZoomBy(0.001)
	if cam.Distance != 2 {
		t.Errorf("distance = %v, want min 2", cam.Distance)
	}
}

func TestFitContainsBox(t *testing.T) {
	cam := New(0, 0, 0, 1, 0, 0, 60)
	cam.Fit(4, 3, 2)

	radius := 0.5 * math.Sqrt(16+9+4)
	want := float32(radius / math.Sin(math.Pi/6))
	if !near(cam.Distance, want) {
		t.Errorf("distance = %v, want %v", cam.Distance, want)
	}
}

func TestReset(t *testing.T) {
	cam := New(0, 0, 0, 6, 20, 10, 45)
	cam.Orbit(100, 50, 0.3)
	cam.ZoomBy(2)
	cam.Reset()

	if cam.Distance != 6 || !near(cam.Yaw, 20) || !near(cam.Pitch, 10) {
		t.Errorf("after reset: distance %v yaw %v pitch %v", cam.Distance, cam.Yaw, cam.Pitch)
	}
}
