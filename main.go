package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/world"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	loadPath := flag.String("load", "", "Snapshot file to resume from")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for periodic snapshots")
	snapshotInterval := flag.Int64("snapshot-interval", 1000, "Ticks between autosaves (0 = disabled)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int64("stats-window", 0, "Stats window size in ticks (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	windowTicks := int64(cfg.Telemetry.StatsWindowTicks)
	if *statsWindow > 0 {
		windowTicks = *statsWindow
	}

	if err := run(cfg, rng, runOptions{
		seed:             rngSeed,
		maxTicks:         *maxTicks,
		loadPath:         *loadPath,
		snapshotDir:      *snapshotDir,
		snapshotInterval: *snapshotInterval,
		outputDir:        *outputDir,
		logStats:         *logStats,
		windowTicks:      windowTicks,
	}); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	seed             int64
	maxTicks         int64
	loadPath         string
	snapshotDir      string
	snapshotInterval int64
	outputDir        string
	logStats         bool
	windowTicks      int64
}

func run(cfg *config.Config, rng *rand.Rand, opts runOptions) error {
	w, err := buildWorld(cfg, rng, opts.loadPath)
	if err != nil {
		return err
	}

	collector := telemetry.NewCollector(opts.windowTicks)
	w.SetEventSink(collector)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindowTicks)
	w.SetPhaseTimer(perf)

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	if opts.snapshotDir != "" {
		if err := os.MkdirAll(opts.snapshotDir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	// Autosaves run off the hot path. Snapshots are taken between
	// ticks, so the writer only ever sees immutable data.
	var saves errgroup.Group
	saves.SetLimit(1)

	slog.Info("starting simulation",
		"seed", opts.seed,
		"max_ticks", opts.maxTicks,
		"organisms", w.OrganismCount(),
		"food", w.FoodCount(),
	)

	for {
		w.Step()
		tick := w.Tick()

		if collector.ShouldFlush(tick) {
			stats := collector.Flush(tick, w.OrganismCount(), w.CellCount(), w.FoodCount(), w.CellEnergies())
			if err := output.WriteTelemetry(stats); err != nil {
				return err
			}
			perfStats := perf.Stats()
			if err := output.WritePerf(perfStats, tick); err != nil {
				return err
			}
			if opts.logStats {
				stats.LogStats()
				perfStats.LogStats()
			}
		}

		if opts.snapshotDir != "" && opts.snapshotInterval > 0 && tick%opts.snapshotInterval == 0 {
			snap := w.ToSnapshot()
			path := filepath.Join(opts.snapshotDir, fmt.Sprintf("tick_%08d.json", tick))
			if !saves.TryGo(func() error {
				if err := world.SaveSnapshot(snap, path); err != nil {
					slog.Error("autosave failed", "path", path, "error", err)
				}
				return nil
			}) {
				slog.Warn("skipping autosave, previous write still running", "tick", tick)
			}
		}

		if w.CellCount() == 0 {
			slog.Info("population extinct", "tick", tick)
			break
		}
		if opts.maxTicks > 0 && tick >= opts.maxTicks {
			slog.Info("max ticks reached", "tick", tick)
			break
		}
	}

	if err := saves.Wait(); err != nil {
		return err
	}

	if opts.snapshotDir != "" {
		path := filepath.Join(opts.snapshotDir, "final.json")
		if err := world.SaveSnapshot(w.ToSnapshot(), path); err != nil {
			return err
		}
		slog.Info("final snapshot written", "path", path)
	}

	return nil
}

// buildWorld resumes from a snapshot when one is given, otherwise
// seeds the stock environment and the configured starting population.
func buildWorld(cfg *config.Config, rng *rand.Rand, loadPath string) (*world.World, error) {
	if loadPath != "" {
		snap, err := world.LoadSnapshot(loadPath)
		if err != nil {
			return nil, err
		}
		w, err := world.FromSnapshot(snap, cfg, rng)
		if err != nil {
			return nil, err
		}
		slog.Info("resumed from snapshot",
			"path", loadPath,
			"organisms", w.OrganismCount(),
			"food", w.FoodCount(),
		)
		return w, nil
	}

	w := world.New(cfg, rng)
	w.SeedDefaultEnvironment()

	for _, s := range cfg.Population.Seeds {
		spawned := 0
		for i := 0; i < s.Count; i++ {
			if _, ok := w.SpawnOrganism(s.Genome, s.X, s.Y, s.Spread); ok {
				spawned++
			}
		}
		slog.Info("seeded population", "genome", s.Genome, "requested", s.Count, "spawned", spawned)
	}

	return w, nil
}
