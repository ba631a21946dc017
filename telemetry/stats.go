package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population at window end
	Organisms int `csv:"organisms"`
	Cells     int `csv:"cells"`
	FoodItems int `csv:"food_items"`

	// Events during window
	Births       int `csv:"births"`
	Deaths       int `csv:"deaths"`
	Mutations    int `csv:"mutations"`
	FoodEaten    int `csv:"food_eaten"`
	FoodEnergyIn int `csv:"food_energy_in"`
	CellsEaten   int `csv:"cells_eaten"`
	Movements    int `csv:"movements"`

	ReproAttempts  int     `csv:"repro_attempts"`
	ReproSuccesses int     `csv:"repro_successes"`
	ReproRate      float64 `csv:"repro_rate"`

	// Energy distribution over live cells (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
}

// ComputeEnergyStats calculates mean, standard deviation and
// percentiles over cell energy values. Zeroes for an empty slice.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"organisms", s.Organisms,
		"cells", s.Cells,
		"food_items", s.FoodItems,
		"births", s.Births,
		"deaths", s.Deaths,
		"mutations", s.Mutations,
		"food_eaten", s.FoodEaten,
		"cells_eaten", s.CellsEaten,
		"repro_attempts", s.ReproAttempts,
		"repro_rate", s.ReproRate,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("organisms", s.Organisms),
		slog.Int("cells", s.Cells),
		slog.Int("food_items", s.FoodItems),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("mutations", s.Mutations),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("food_energy_in", s.FoodEnergyIn),
		slog.Int("cells_eaten", s.CellsEaten),
		slog.Int("movements", s.Movements),
		slog.Int("repro_attempts", s.ReproAttempts),
		slog.Int("repro_successes", s.ReproSuccesses),
		slog.Float64("repro_rate", s.ReproRate),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
	)
}
