package telemetry

import "testing"

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(100)

	parent := uint32(1)
	c.OnBirth(2, &parent, "[Cell]", 1, 1)
	c.OnBirth(3, nil, "[Cell]", 2, 2)
	c.OnDeath(1, "[Cell]", 1, 1, 42)
	c.OnMutation("[Cell]", "[Cell][CanMove]")
	c.OnFoodConsumed(10)
	c.OnFoodConsumed(5)
	c.OnCellEaten()
	c.OnMovement(3, 3)
	c.OnReproductionAttempt(true)
	c.OnReproductionAttempt(false)

	if c.ShouldFlush(99) {
		t.Error("ShouldFlush(99) before the window elapsed")
	}
	if !c.ShouldFlush(100) {
		t.Error("ShouldFlush(100) should fire")
	}

	stats := c.Flush(100, 2, 2, 7, []float64{10, 20})

	if stats.Births != 2 || stats.Deaths != 1 {
		t.Errorf("births/deaths = %d/%d, want 2/1", stats.Births, stats.Deaths)
	}
	if stats.Mutations != 1 {
		t.Errorf("mutations = %d, want 1", stats.Mutations)
	}
	if stats.FoodEaten != 2 || stats.FoodEnergyIn != 15 {
		t.Errorf("food = %d items / %d energy, want 2 / 15", stats.FoodEaten, stats.FoodEnergyIn)
	}
	if stats.CellsEaten != 1 || stats.Movements != 1 {
		t.Errorf("cellsEaten/movements = %d/%d, want 1/1", stats.CellsEaten, stats.Movements)
	}
	if stats.ReproAttempts != 2 || stats.ReproSuccesses != 1 || stats.ReproRate != 0.5 {
		t.Errorf("repro = %d/%d (rate %v), want 2/1 (0.5)", stats.ReproAttempts, stats.ReproSuccesses, stats.ReproRate)
	}
	if stats.Organisms != 2 || stats.Cells != 2 || stats.FoodItems != 7 {
		t.Errorf("population = %d/%d/%d, want 2/2/7", stats.Organisms, stats.Cells, stats.FoodItems)
	}
	if stats.WindowStartTick != 0 || stats.WindowEndTick != 100 {
		t.Errorf("window = [%d,%d], want [0,100]", stats.WindowStartTick, stats.WindowEndTick)
	}

	// Lifetime totals survive the flush, window counters do not.
	if c.TotalBirths != 2 || c.TotalDeaths != 1 {
		t.Errorf("lifetime totals = %d/%d, want 2/1", c.TotalBirths, c.TotalDeaths)
	}
	next := c.Flush(200, 0, 0, 0, nil)
	if next.Births != 0 || next.Deaths != 0 || next.ReproAttempts != 0 {
		t.Error("window counters were not reset by Flush")
	}
	if next.WindowStartTick != 100 {
		t.Errorf("next window start = %d, want 100", next.WindowStartTick)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0)
	if !c.ShouldFlush(1) {
		t.Error("window below 1 should clamp to 1 tick")
	}
}
