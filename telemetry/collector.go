// Package telemetry collects simulation events into windowed stats,
// times tick phases, and writes CSV experiment output.
package telemetry

import (
	"github.com/pthm-cable/petri/world"
)

// Collector accumulates engine events within tick windows and produces
// WindowStats. It implements world.EventSink.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	// Event counters for current window
	births         int
	deaths         int
	mutations      int
	foodEaten      int
	foodEnergyIn   int
	cellsEaten     int
	movements      int
	reproAttempts  int
	reproSuccesses int

	// Lifetime totals
	TotalBirths int
	TotalDeaths int
}

var _ world.EventSink = (*Collector)(nil)

// NewCollector creates a stats collector flushing every windowTicks.
func NewCollector(windowTicks int64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

func (c *Collector) OnBirth(organismID uint32, parentID *uint32, genome string, x, y int) {
	c.births++
	c.TotalBirths++
}

func (c *Collector) OnDeath(organismID uint32, genome string, x, y int, age int32) {
	c.deaths++
	c.TotalDeaths++
}

func (c *Collector) OnMutation(oldGenome, newGenome string) {
	c.mutations++
}

func (c *Collector) OnFoodConsumed(amount int) {
	c.foodEaten++
	c.foodEnergyIn += amount
}

func (c *Collector) OnCellEaten() {
	c.cellsEaten++
}

func (c *Collector) OnMovement(x, y int) {
	c.movements++
}

func (c *Collector) OnReproductionAttempt(success bool) {
	c.reproAttempts++
	if success {
		c.reproSuccesses++
	}
}

// ShouldFlush returns true once a full window of ticks has elapsed.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the window's counters and the
// population snapshot the caller samples at window end, then resets
// the counters for the next window.
func (c *Collector) Flush(currentTick int64, organisms, cells, foodItems int, energies []float64) WindowStats {
	var reproRate float64
	if c.reproAttempts > 0 {
		reproRate = float64(c.reproSuccesses) / float64(c.reproAttempts)
	}

	mean, std, p10, p50, p90 := ComputeEnergyStats(energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Organisms:       organisms,
		Cells:           cells,
		FoodItems:       foodItems,
		Births:          c.births,
		Deaths:          c.deaths,
		Mutations:       c.mutations,
		FoodEaten:       c.foodEaten,
		FoodEnergyIn:    c.foodEnergyIn,
		CellsEaten:      c.cellsEaten,
		Movements:       c.movements,
		ReproAttempts:   c.reproAttempts,
		ReproSuccesses:  c.reproSuccesses,
		ReproRate:       reproRate,
		EnergyMean:      mean,
		EnergyStd:       std,
		EnergyP10:       p10,
		EnergyP50:       p50,
		EnergyP90:       p90,
	}

	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.mutations = 0
	c.foodEaten = 0
	c.foodEnergyIn = 0
	c.cellsEaten = 0
	c.movements = 0
	c.reproAttempts = 0
	c.reproSuccesses = 0

	return stats
}
