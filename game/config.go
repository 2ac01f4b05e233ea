package game

// Options controls how a Game is built. Values left zero fall back to the
// loaded config.
type Options struct {
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int
	Workers        int    // 0 = use config
	Seed           int64  // 0 = use config
	RestorePath    string // snapshot to resume from
}
