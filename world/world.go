package world

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/genome"
	"github.com/pthm-cable/petri/systems"
)

// spawnAttempts is how many random offsets a spawn tries before giving up.
const spawnAttempts = 100

// World is the simulation engine. It is single threaded: one tick runs
// to completion before any consumer observes state, and all randomness
// flows through one seeded source so runs are reproducible.
type World struct {
	cfg     *config.Config
	rng     *rand.Rand
	store   *store
	grid    *systems.SpatialGrid
	food    *systems.FoodField
	mutator *genome.Mutator

	walls map[components.Position]bool

	sink  EventSink
	timer PhaseTimer

	tick int64

	// scratch buffers reused across ticks
	liveBuf     []ecs.Entity
	neighborBuf []ecs.Entity
}

// New creates an empty world from config. The caller seeds walls, food
// and population afterwards, either procedurally or from a snapshot.
func New(cfg *config.Config, rng *rand.Rand) *World {
	return &World{
		cfg:     cfg,
		rng:     rng,
		store:   newStore(),
		grid:    systems.NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.Spatial.BucketSize),
		food:    systems.NewFoodField(cfg.World.Width, cfg.World.Height, cfg.Food.Energy, cfg.Food.RegenRate, rng),
		mutator: genome.NewMutator(rng, cfg.Mutation.Rate, cfg.Mutation.MaxGenomeLength),
		walls:   make(map[components.Position]bool),
		sink:    NopSink{},
		timer:   NopTimer{},
	}
}

// SetEventSink wires a stats collaborator. Pass nil to disable.
func (w *World) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = NopSink{}
	}
	w.sink = sink
}

// SetPhaseTimer wires a tick profiler. Pass nil to disable.
func (w *World) SetPhaseTimer(timer PhaseTimer) {
	if timer == nil {
		timer = NopTimer{}
	}
	w.timer = timer
}

// SetWall marks (x, y) as impassable. Walls are immutable once the
// simulation is running.
func (w *World) SetWall(x, y int) {
	if x < 0 || x >= w.cfg.World.Width || y < 0 || y >= w.cfg.World.Height {
		slog.Warn("wall out of bounds", "x", x, "y", y)
		return
	}
	w.walls[components.Position{X: x, Y: y}] = true
}

// IsWall reports whether (x, y) is a wall.
func (w *World) IsWall(x, y int) bool {
	return w.walls[components.Position{X: x, Y: y}]
}

// blocked reports whether a cell may not be placed at (x, y): out of
// bounds, wall, or the occupancy limit is already reached.
func (w *World) blocked(x, y int) bool {
	if x < 0 || x >= w.cfg.World.Width || y < 0 || y >= w.cfg.World.Height {
		return true
	}
	if w.walls[components.Position{X: x, Y: y}] {
		return true
	}
	return w.grid.OccupantCount(x, y, w.store.posMap) >= w.cfg.Spatial.MaxCellsPerTile
}

// SpawnOrganism creates a single-celled organism near (x, y), trying
// random offsets within the spread square until a legal tile is found.
// Returns nil, false if the genome does not parse or no tile was free.
func (w *World) SpawnOrganism(genomeStr string, x, y, spread int) (*Organism, bool) {
	traits, ok := genome.Parse(genomeStr)
	if !ok {
		slog.Warn("spawn rejected, genome does not parse", "genome", genomeStr)
		return nil, false
	}

	for attempt := 0; attempt < spawnAttempts; attempt++ {
		cx, cy := x, y
		if spread > 0 {
			cx += w.rng.Intn(2*spread+1) - spread
			cy += w.rng.Intn(2*spread+1) - spread
		}
		cx = clamp(cx, 0, w.cfg.World.Width-1)
		cy = clamp(cy, 0, w.cfg.World.Height-1)

		if w.blocked(cx, cy) {
			continue
		}

		org := w.store.newOrganism(genomeStr, traits, w.tick)
		entity := w.store.createCell(org, cx, cy, w.cfg.Energy.Starting-len(genomeStr))
		w.grid.Insert(entity, cx, cy)
		w.sink.OnBirth(org.ID, nil, genomeStr, cx, cy)
		return org, true
	}
	return nil, false
}

// SeedDefaultEnvironment lays out the stock walls and food clusters
// used when no snapshot is loaded.
func (w *World) SeedDefaultEnvironment() {
	for x := 200; x < 250; x++ {
		w.SetWall(x, 300)
		w.SetWall(x, 700)
	}

	w.food.SpawnGaussianCluster(200, 200, 50, 0.3)
	w.food.SpawnGaussianCluster(800, 800, 50, 0.3)
	w.food.SpawnGaussianCluster(500, 500, 100, 0.2)
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int64 {
	return w.tick
}

// CellCount returns the number of live cells.
func (w *World) CellCount() int {
	return w.store.cellCount()
}

// OrganismCount returns the number of live organisms.
func (w *World) OrganismCount() int {
	return w.store.organismCount()
}

// FoodCount returns the number of food pellets on the field.
func (w *World) FoodCount() int {
	return w.food.Count()
}

// FoodEnergy returns the summed energy of all food pellets.
func (w *World) FoodEnergy() int {
	return w.food.TotalEnergy()
}

// Food exposes the food field for seeding and persistence.
func (w *World) Food() *systems.FoodField {
	return w.food
}

// TotalCellEnergy returns the summed energy of all live cells.
func (w *World) TotalCellEnergy() int {
	total := 0
	query := w.store.cellFilter.Query()
	for query.Next() {
		_, energy, _ := query.Get()
		total += energy.Value
	}
	return total
}

// CellEnergies returns every live cell's energy, for stats windows.
func (w *World) CellEnergies() []float64 {
	out := make([]float64, 0, w.store.cellCount())
	query := w.store.cellFilter.Query()
	for query.Next() {
		_, energy, _ := query.Get()
		out = append(out, float64(energy.Value))
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
