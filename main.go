package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/brood/config"
	"github.com/pthm-cable/brood/game"
	"github.com/pthm-cable/brood/systems"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int64("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotPath := flag.String("snapshot-db", "", "SQLite file for world snapshots (empty = disabled)")
	snapshotEvery := flag.Int64("snapshot-every", 0, "Snapshot interval in ticks (0 = once per stats window)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	listSystems := flag.Bool("list-systems", false, "Print the system roster and exit")

	flag.Parse()

	if *listSystems {
		printSystems(os.Stdout)
		return
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Structured JSON logging to stdout
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	g, err := game.NewGame(game.Options{
		Seed:          rngSeed,
		LogStats:      *logStats,
		StatsWindow:   *statsWindow,
		OutputDir:     *outputDir,
		SnapshotPath:  *snapshotPath,
		SnapshotEvery: *snapshotEvery,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	units, structures, ghosts := g.Counts()
	slog.Info("starting simulation",
		"seed", rngSeed,
		"radius", config.Cfg().Map.Radius,
		"units", units,
		"structures", structures,
		"ghosts", ghosts,
		"max_ticks", *maxTicks,
	)

	g.Run(*maxTicks)

	slog.Info("simulation finished", "tick", g.Tick())
}

// printSystems writes the registered systems grouped by category.
func printSystems(w io.Writer) {
	reg := systems.NewSystemRegistry()
	for _, cat := range reg.Categories() {
		fmt.Fprintf(w, "%s:\n", cat)
		for _, info := range reg.ByCategory(cat) {
			fmt.Fprintf(w, "  %-14s %s\n", info.ID, info.Description)
		}
	}
}
