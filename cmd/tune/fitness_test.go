package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/telemetry"
)

func settledWindow(target float64) telemetry.WindowStats {
	return telemetry.WindowStats{
		Particles:     100,
		DensityMean:   target,
		DensityStd:    target * 0.01,
		KineticEnergy: 0,
	}
}

func TestQualityPrefersSettledFluid(t *testing.T) {
	const target = 100.0
	calm := runResult{target: target}
	for i := 0; i < 6; i++ {
		calm.windows = append(calm.windows, settledWindow(target))
	}

	rough := runResult{target: target}
	for i := 0; i < 6; i++ {
		w := settledWindow(target)
		w.DensityMean = target * 0.4
		w.DensityStd = target * 0.3
		w.KineticEnergy = float64(i+1) * 0.5
		rough.windows = append(rough.windows, w)
	}

	qc, qr := computeQuality(calm), computeQuality(rough)
	if qc <= qr {
		t.Errorf("calm quality %v should beat rough %v", qc, qr)
	}
	if qc < 0.95 || qc > 1 {
		t.Errorf("calm quality = %v, want near 1", qc)
	}
}

func TestQualityZeroWhenUnstableOrEmpty(t *testing.T) {
	if q := computeQuality(runResult{}); q != 0 {
		t.Errorf("empty quality = %v", q)
	}
	r := runResult{target: 10, unstable: true, windows: []telemetry.WindowStats{settledWindow(10)}}
	if q := computeQuality(r); q != 0 {
		t.Errorf("unstable quality = %v", q)
	}
}

func TestCV(t *testing.T) {
	if got := cv([]float64{2, 2, 2}); got != 0 {
		t.Errorf("cv constant = %v", got)
	}
	if got := cv([]float64{0, 0}); got != 0 {
		t.Errorf("cv zero mean = %v", got)
	}
	if got := cv([]float64{1, 3}); got != 0.5 {
		t.Errorf("cv = %v, want 0.5", got)
	}
}

func TestEvaluateSmallRun(t *testing.T) {
	cfg := config.Default()
	cfg.Spawn.Count = 64
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 30, []int64{1, 2}, cfg)
	fe.statsWindow = 10 * cfg.Physics.DT

	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness > 0 || fitness < -1 {
		t.Errorf("fitness = %v, want a stable run in [-1, 0]", fitness)
	}
	if q := fe.LastQuality(); q < 0 || q > 1 {
		t.Errorf("quality = %v out of range", q)
	}
}

func TestRunSimulationEmptySpawn(t *testing.T) {
	cfg := config.Default()
	cfg.Spawn.Count = 0
	fe := NewFitnessEvaluator(NewParamVector(cfg), 10, []int64{1}, cfg)

	done := make(chan runResult, 1)
	go func() { done <- fe.runSimulation(cfg, 1) }()

	var res runResult
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runSimulation did not return for an empty spawn")
	}
	if res.unstable || len(res.windows) != 0 {
		t.Errorf("result = %+v, want stable with no windows", res)
	}
	if f := fe.Evaluate(fe.params.DefaultVector()); math.IsNaN(f) || f > 0 || f < -1 {
		t.Errorf("fitness = %v, want in [-1, 0]", f)
	}
}
