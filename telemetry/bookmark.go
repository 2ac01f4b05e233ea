package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkInstability   BookmarkType = "instability"
	BookmarkEnergySpike   BookmarkType = "energy_spike"
	BookmarkDensitySpread BookmarkType = "density_spread"
	BookmarkSettled       BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Tick        int64        `json:"tick"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// settledEnergyPerParticle is the kinetic energy per particle below which
// a window counts as at rest.
const settledEnergyPerParticle = 1e-3

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	unstable            bool // instability already reported
	settledWindowsCount int  // consecutive windows at rest
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Instability: non-finite or escaped particles, reported once per run
	if b := bd.checkInstability(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Energy spike: kinetic energy > 3x rolling average
		if b := bd.checkEnergySpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Density spread: std > 2x rolling average
		if b := bd.checkDensitySpread(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Settled: near-zero kinetic energy for 5 consecutive windows
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkInstability(stats WindowStats) *Bookmark {
	if bd.unstable || (stats.NonFinite == 0 && stats.OutOfBounds == 0) {
		return nil
	}
	bd.unstable = true
	return &Bookmark{
		Type:        BookmarkInstability,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d non-finite and %d out-of-bounds particles", stats.NonFinite, stats.OutOfBounds),
	}
}

func (bd *BookmarkDetector) checkEnergySpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.KineticEnergy
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.KineticEnergy > avg*3 && stats.KineticEnergy > settledEnergyPerParticle*float64(stats.Particles) {
		return &Bookmark{
			Type:        BookmarkEnergySpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy %.3g is %.1fx average (%.3g)", stats.KineticEnergy, stats.KineticEnergy/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkDensitySpread(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.DensityStd
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.DensityStd > avg*2 {
		return &Bookmark{
			Type:        BookmarkDensitySpread,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Density std %.3g is %.1fx average (%.3g)", stats.DensityStd, stats.DensityStd/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 || stats.KineticEnergy > settledEnergyPerParticle*float64(stats.Particles) {
		bd.settledWindowsCount = 0
		return nil
	}

	bd.settledWindowsCount++
	if bd.settledWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Fluid at rest over 5 windows, mean density %.3g", stats.DensityMean),
		}
	}
	return nil
}
