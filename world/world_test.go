package world

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/petri/config"
)

// recorder captures events for assertions.
type recorder struct {
	births        int
	parentBirths  int
	deaths        int
	deathAges     []int32
	mutations     int
	foodConsumed  int
	foodEnergy    int
	cellsEaten    int
	movements     int
	reproAttempts []bool
}

func (r *recorder) OnBirth(organismID uint32, parentID *uint32, genome string, x, y int) {
	r.births++
	if parentID != nil {
		r.parentBirths++
	}
}

func (r *recorder) OnDeath(organismID uint32, genome string, x, y int, age int32) {
	r.deaths++
	r.deathAges = append(r.deathAges, age)
}

func (r *recorder) OnMutation(oldGenome, newGenome string) { r.mutations++ }

func (r *recorder) OnFoodConsumed(amount int) {
	r.foodConsumed++
	r.foodEnergy += amount
}

func (r *recorder) OnCellEaten() { r.cellsEaten++ }

func (r *recorder) OnMovement(x, y int) { r.movements++ }

func (r *recorder) OnReproductionAttempt(success bool) {
	r.reproAttempts = append(r.reproAttempts, success)
}

// newTestConfig returns a small world with drains and reproduction
// effectively disabled; tests enable what they exercise.
func newTestConfig() *config.Config {
	return &config.Config{
		World: config.WorldConfig{Width: 64, Height: 64},
		Energy: config.EnergyConfig{
			Starting:              100,
			DrainInterval:         1000,
			GenomeCost:            1,
			MovementCost:          2,
			ReproductionCost:      50,
			ReproductionThreshold: 1000,
		},
		Food:     config.FoodConfig{Energy: 10, RegenRate: 0, DecayEnergy: 5},
		Mutation: config.MutationConfig{Rate: 0, MaxGenomeLength: 500},
		Spatial:  config.SpatialConfig{BucketSize: 16, MaxCellsPerTile: 1},
	}
}

func newTestWorld(t *testing.T, cfg *config.Config) (*World, *recorder) {
	t.Helper()
	w := New(cfg, rand.New(rand.NewSource(1)))
	rec := &recorder{}
	w.SetEventSink(rec)
	return w, rec
}

func cellPosition(t *testing.T, w *World, org *Organism) (int, int) {
	t.Helper()
	for _, entity := range org.cells {
		pos := w.store.posMap.Get(entity)
		return pos.X, pos.Y
	}
	t.Fatal("organism has no cells")
	return 0, 0
}

func cellEnergy(t *testing.T, w *World, org *Organism) int {
	t.Helper()
	for _, entity := range org.cells {
		return w.store.energyMap.Get(entity).Value
	}
	t.Fatal("organism has no cells")
	return 0
}

func TestSpawnOrganism(t *testing.T) {
	w, rec := newTestWorld(t, newTestConfig())

	genome := "[Cell][CanMove]"
	org, ok := w.SpawnOrganism(genome, 10, 10, 0)
	if !ok {
		t.Fatal("spawn failed on empty tile")
	}

	if org.CellCount() != 1 {
		t.Errorf("CellCount = %d, want 1", org.CellCount())
	}
	if x, y := cellPosition(t, w, org); x != 10 || y != 10 {
		t.Errorf("cell at (%d,%d), want (10,10)", x, y)
	}
	if got := cellEnergy(t, w, org); got != 100-len(genome) {
		t.Errorf("energy = %d, want %d", got, 100-len(genome))
	}
	if rec.births != 1 || rec.parentBirths != 0 {
		t.Errorf("births = %d (with parent %d), want 1 parentless", rec.births, rec.parentBirths)
	}
}

func TestSpawnRejectsInvalidGenome(t *testing.T) {
	w, rec := newTestWorld(t, newTestConfig())

	for _, genome := range []string{"", "[CanMove]", "no tokens"} {
		if _, ok := w.SpawnOrganism(genome, 10, 10, 0); ok {
			t.Errorf("spawn accepted invalid genome %q", genome)
		}
	}
	if rec.births != 0 {
		t.Errorf("births = %d, want 0", rec.births)
	}
}

func TestSpawnRespectsWallsAndOccupancy(t *testing.T) {
	w, _ := newTestWorld(t, newTestConfig())

	w.SetWall(10, 10)
	if _, ok := w.SpawnOrganism("[Cell]", 10, 10, 0); ok {
		t.Error("spawned onto a wall")
	}

	if _, ok := w.SpawnOrganism("[Cell]", 20, 20, 0); !ok {
		t.Fatal("spawn failed on empty tile")
	}
	if _, ok := w.SpawnOrganism("[Cell]", 20, 20, 0); ok {
		t.Error("spawned onto an occupied tile at occupancy limit 1")
	}
}

func TestSpawnWithSpreadFindsFreeTile(t *testing.T) {
	w, _ := newTestWorld(t, newTestConfig())

	// Block the exact center; the spread search must land elsewhere.
	w.SetWall(30, 30)
	org, ok := w.SpawnOrganism("[Cell]", 30, 30, 3)
	if !ok {
		t.Fatal("spawn with spread failed")
	}
	x, y := cellPosition(t, w, org)
	if x == 30 && y == 30 {
		t.Error("cell placed on the wall tile")
	}
	if x < 27 || x > 33 || y < 27 || y > 33 {
		t.Errorf("cell at (%d,%d), outside spread square", x, y)
	}
}

func TestWorldCounts(t *testing.T) {
	w, _ := newTestWorld(t, newTestConfig())

	w.SpawnOrganism("[Cell]", 5, 5, 0)
	w.SpawnOrganism("[Cell]", 15, 15, 0)
	w.Food().Spawn(1, 1, 10)

	if w.OrganismCount() != 2 {
		t.Errorf("OrganismCount = %d, want 2", w.OrganismCount())
	}
	if w.CellCount() != 2 {
		t.Errorf("CellCount = %d, want 2", w.CellCount())
	}
	if w.FoodCount() != 1 {
		t.Errorf("FoodCount = %d, want 1", w.FoodCount())
	}
	if got := w.CellEnergies(); len(got) != 2 {
		t.Errorf("CellEnergies has %d entries, want 2", len(got))
	}
	want := 2 * (100 - len("[Cell]"))
	if got := w.TotalCellEnergy(); got != want {
		t.Errorf("TotalCellEnergy = %d, want %d", got, want)
	}
}
