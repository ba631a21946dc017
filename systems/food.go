package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/petri/components"
)

// FoodItem is one pellet on the grid, used for iteration and snapshots.
type FoodItem struct {
	X, Y   int
	Energy int
}

// FoodField tracks food pellets on the grid. At most one pellet exists
// per tile; spawning onto an occupied tile replaces the pellet.
type FoodField struct {
	width  int
	height int

	pelletEnergy int
	regenRate    float64

	items map[components.Position]int // position -> remaining energy
	rng   *rand.Rand
}

// NewFoodField creates an empty food field.
func NewFoodField(width, height, pelletEnergy int, regenRate float64, rng *rand.Rand) *FoodField {
	return &FoodField{
		width:        width,
		height:       height,
		pelletEnergy: pelletEnergy,
		regenRate:    regenRate,
		items:        make(map[components.Position]int),
		rng:          rng,
	}
}

// Spawn places a pellet with the given energy at (x, y), replacing any
// pellet already there. Out-of-bounds positions are logged and ignored.
func (f *FoodField) Spawn(x, y, energy int) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		slog.Warn("food spawn out of bounds", "x", x, "y", y)
		return
	}
	f.items[components.Position{X: x, Y: y}] = energy
}

// SpawnGaussianCluster seeds a gaussian blob of pellets around
// (cx, cy). Every tile within a square of half-width 2*spread gets a
// pellet with probability density * exp(-distSq / (2*spread^2)).
// One-shot procedural seeding, not a per-tick operation.
func (f *FoodField) SpawnGaussianCluster(cx, cy, spread int, density float64) {
	minX := max(0, cx-spread*2)
	maxX := min(f.width, cx+spread*2)
	minY := max(0, cy-spread*2)
	maxY := min(f.height, cy+spread*2)
	variance := 2 * float64(spread) * float64(spread)

	for x := minX; x < maxX; x++ {
		for y := minY; y < maxY; y++ {
			distSq := float64((x-cx)*(x-cx) + (y-cy)*(y-cy))
			prob := density * math.Exp(-distSq/variance)
			if f.rng.Float64() < prob {
				f.items[components.Position{X: x, Y: y}] = f.pelletEnergy
			}
		}
	}
}

// Eat consumes the pellet at (x, y), returning its energy and true, or
// 0 and false when the tile is empty.
func (f *FoodField) Eat(x, y int) (int, bool) {
	pos := components.Position{X: x, Y: y}
	energy, ok := f.items[pos]
	if !ok {
		return 0, false
	}
	delete(f.items, pos)
	return energy, true
}

// HasFood reports whether a pellet exists at (x, y).
func (f *FoodField) HasFood(x, y int) bool {
	_, ok := f.items[components.Position{X: x, Y: y}]
	return ok
}

// Regenerate grows the field by sampling random interior tiles and
// spawning pellets near existing clusters. The spawn chance scales
// with how many of the sampled tile's 8 neighbors already hold food,
// so established patches spread while barren regions stay barren.
func (f *FoodField) Regenerate() {
	samples := len(f.items)
	if samples < 100 {
		samples = 100
	} else if samples > 200 {
		samples = 200
	}

	for i := 0; i < samples; i++ {
		x := 1 + f.rng.Intn(f.width-2)
		y := 1 + f.rng.Intn(f.height-2)
		pos := components.Position{X: x, Y: y}
		if _, occupied := f.items[pos]; occupied {
			continue
		}

		neighbors := 0
		for _, off := range mooreOffsets {
			if _, ok := f.items[components.Position{X: x + off[0], Y: y + off[1]}]; ok {
				neighbors++
			}
		}

		chance := 0.0
		switch neighbors {
		case 3:
			chance = f.regenRate
		case 2:
			chance = f.regenRate * 0.8
		case 1:
			chance = f.regenRate * 0.3
		}
		if chance > 0 && f.rng.Float64() < chance {
			f.items[pos] = f.pelletEnergy
		}
	}
}

// Items returns all pellets in unspecified order.
func (f *FoodField) Items() []FoodItem {
	out := make([]FoodItem, 0, len(f.items))
	for pos, energy := range f.items {
		out = append(out, FoodItem{X: pos.X, Y: pos.Y, Energy: energy})
	}
	return out
}

// Restore clears the field and places the given pellets, dropping any
// that fall out of bounds.
func (f *FoodField) Restore(items []FoodItem) {
	f.items = make(map[components.Position]int, len(items))
	for _, item := range items {
		if item.X < 0 || item.X >= f.width || item.Y < 0 || item.Y >= f.height {
			slog.Warn("discarding out-of-bounds food", "x", item.X, "y", item.Y)
			continue
		}
		f.items[components.Position{X: item.X, Y: item.Y}] = item.Energy
	}
}

// Count returns the number of pellets on the field.
func (f *FoodField) Count() int {
	return len(f.items)
}

// TotalEnergy returns the summed energy of all pellets.
func (f *FoodField) TotalEnergy() int {
	total := 0
	for _, energy := range f.items {
		total += energy
	}
	return total
}
