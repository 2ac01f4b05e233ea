package main

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/sim"
	"github.com/pthm-cable/sph/systems"
	"github.com/pthm-cable/sph/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how well the fluid
// comes to rest at the target density.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 0.5,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// unstableFitness is returned for runs that blew up. Any stable run scores
// in [-1, 0].
const unstableFitness = 1.0

// runResult holds the results from a single simulation run.
type runResult struct {
	windows  []telemetry.WindowStats
	unstable bool
	target   float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel, each on a sequential simulation.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		q := computeQuality(r)
		totalQuality += q
		if r.unstable {
			totalFitness += unstableFitness
		} else {
			totalFitness -= q
		}
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run for cfg.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	params := sim.ParamsFromConfig(cfg)
	params.Workers = 1
	result := runResult{target: params.TargetDensity}

	boundary := sim.BoundaryFromConfig(cfg)
	rng := rand.New(rand.NewSource(seed))
	positions := systems.Lattice(cfg.Spawn.Count, cfg.Spawn.Spacing, boundary, params.ParticleRadius, cfg.Spawn.Jitter, rng)

	s, err := sim.New(params, boundary, positions)
	if err != nil {
		slog.Warn("rejected parameters", "error", err)
		result.unstable = true
		return result
	}
	defer s.Close()
	if s.Len() == 0 {
		// Nothing to score, and Step would never advance the tick.
		slog.Warn("empty spawn, skipping run", "seed", seed)
		return result
	}

	collector := telemetry.NewCollector(fe.statsWindow, params.DT)
	for s.Tick() < fe.maxTicks {
		s.Step()
		collector.RecordStep(s.WallHits())
		if !collector.ShouldFlush(s.Tick()) {
			continue
		}
		w := collector.Flush(s)
		result.windows = append(result.windows, w)
		if w.NonFinite > 0 || w.OutOfBounds > 0 {
			result.unstable = true
			return result
		}
	}
	return result
}

// copyConfig returns a copy of the base config. Config holds only values
// and arrays, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Quality component weights.
const (
	qualityWeightRest       = 0.35
	qualityWeightTarget     = 0.35
	qualityWeightUniform    = 0.20
	qualityWeightSteadiness = 0.10

	qualityWarmupFraction = 0.5 // skip the first half of windows
	restEnergyScale       = 1e-3
)

// computeQuality scores a run in [0, 1]: the fluid should come to rest,
// hold its mean density near the target with little spread, and stop
// fluctuating between windows.
func computeQuality(r runResult) float64 {
	if r.unstable || len(r.windows) == 0 {
		return 0
	}

	start := int(float64(len(r.windows)) * qualityWarmupFraction)
	valid := r.windows[start:]
	if len(valid) == 0 {
		valid = r.windows[len(r.windows)-1:]
	}

	var restSum, targetSum, uniformSum float64
	energies := make([]float64, 0, len(valid))
	for _, w := range valid {
		perParticle := 0.0
		if w.Particles > 0 {
			perParticle = w.KineticEnergy / float64(w.Particles)
		}
		energies = append(energies, perParticle)
		restSum += math.Exp(-perParticle / restEnergyScale)

		if r.target > 0 && w.DensityMean > 0 {
			logErr := math.Log(w.DensityMean / r.target)
			targetSum += math.Exp(-logErr * logErr / 0.1)
		}
		if w.DensityMean > 0 {
			spread := w.DensityStd / w.DensityMean
			uniformSum += math.Exp(-spread * spread / 0.05)
		}
	}

	n := float64(len(valid))
	steadiness := 1.0
	if len(energies) >= 2 {
		steadiness = math.Exp(-cv(energies))
	}

	quality := qualityWeightRest*restSum/n +
		qualityWeightTarget*targetSum/n +
		qualityWeightUniform*uniformSum/n +
		qualityWeightSteadiness*steadiness

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
