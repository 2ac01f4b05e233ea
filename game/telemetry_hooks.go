package game

import (
	"log/slog"

	"github.com/pthm-cable/sph/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.sim.Tick()) {
		return
	}

	stats := g.collector.Flush(g.sim)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if g.opts.SnapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current state to the snapshot directory, or the
// output directory when none is set.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	dir := g.opts.SnapshotDir
	if dir == "" {
		dir = g.opts.OutputDir
	}
	if dir == "" {
		dir = "snapshots"
	}

	snapshot := telemetry.TakeSnapshot(g.sim)
	snapshot.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snapshot, dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("saved snapshot", "path", path, "tick", snapshot.Tick)
}
