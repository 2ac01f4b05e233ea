package game

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger writing to w. format is "json" or
// "text"; level is one of debug, info, warn, error.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// logRunSummary logs the final state of the run.
func (g *Game) logRunSummary() {
	p := g.sim.Params()
	slog.Info("run summary",
		"tick", g.sim.Tick(),
		"sim_time", g.sim.Time(),
		"particles", g.sim.Len(),
		"spawns", g.spawns,
		"target_density", p.TargetDensity,
		"pressure_multiplier", p.PressureMultiplier,
		"viscosity_strength", p.ViscosityStrength,
		"gravity_enabled", p.GravityEnabled,
		slog.Any("last_window", g.lastStats),
	)
}
