package scene

import (
	"testing"

	"github.com/pthm-cable/sph/components"
)

func TestDensityTint(t *testing.T) {
	tests := []struct {
		name            string
		density, target float64
		want            components.Tint
	}{
		{"at target", 10, 10, components.Tint{R: 255, G: 255, B: 255, A: 255}},
		{"empty", 0, 10, components.Tint{R: 0, G: 0, B: 255, A: 255}},
		{"double", 20, 10, components.Tint{R: 255, G: 0, B: 0, A: 255}},
		{"saturates", 100, 10, components.Tint{R: 255, G: 0, B: 0, A: 255}},
		{"half under", 5, 10, components.Tint{R: 128, G: 128, B: 255, A: 255}},
		{"no target", 5, 0, components.Tint{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DensityTint(tt.density, tt.target); got != tt.want {
				t.Errorf("DensityTint(%v, %v) = %v, want %v", tt.density, tt.target, got, tt.want)
			}
		})
	}
}

func TestSceneResetAndTints(t *testing.T) {
	s := New()
	s.Reset(5)
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}

	seen := make(map[int]bool)
	s.Each(func(index int, _ components.Tint) { seen[index] = true })
	if len(seen) != 5 {
		t.Errorf("Each visited %d indices, want 5", len(seen))
	}

	s.UpdateTints([]float64{0, 10, 20, 10, 10}, 10)
	if tint, _ := s.TintOf(0); tint.B != 255 || tint.R != 0 {
		t.Errorf("particle 0 tint = %v, want blue", tint)
	}
	if tint, _ := s.TintOf(2); tint.R != 255 || tint.G != 0 {
		t.Errorf("particle 2 tint = %v, want red", tint)
	}

	s.Reset(2)
	if s.Len() != 2 {
		t.Fatalf("Len() after shrink = %d, want 2", s.Len())
	}
	count := 0
	s.Each(func(int, components.Tint) { count++ })
	if count != 2 {
		t.Errorf("query found %d entities, want 2", count)
	}
	if _, ok := s.TintOf(3); ok {
		t.Error("TintOf out of range should report false")
	}
}
