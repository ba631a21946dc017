package telemetry

import (
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/pthm-cable/petri/world"
)

// Phase names emitted by the engine during a tick.
const (
	PhaseCells  = "cells"
	PhaseDeaths = "deaths"
	PhaseFood   = "food"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timings over a rolling window and samples
// process resource usage. It implements world.PhaseTimer.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	proc *process.Process
}

var _ world.PhaseTimer = (*PerfCollector)(nil)

// NewPerfCollector creates a performance collector averaging over
// windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}

	// Process handle for RSS/CPU sampling; nil on failure, stats
	// simply omit resource fields then.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		slog.Warn("process stats unavailable", "error", err)
		proc = nil
	}

	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		proc:          proc,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Process resource usage, zero when unavailable
	RSSBytes   uint64
	CPUPercent float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}

	if p.proc != nil {
		if mi, err := p.proc.MemoryInfo(); err == nil {
			stats.RSSBytes = mi.RSS
		}
		if pct, err := p.proc.CPUPercent(); err == nil {
			stats.CPUPercent = pct
		}
	}

	if p.sampleCount == 0 {
		return stats
	}

	var totalTick, minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			stats.PhasePct[phase] = float64(stats.PhaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	stats.AvgTickDuration = avgTick
	stats.MinTickDuration = minTick
	stats.MaxTickDuration = maxTick
	if avgTick > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(avgTick)
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.RSSBytes > 0 {
		attrs = append(attrs, "rss_mb", s.RSSBytes/(1024*1024))
	}
	if s.CPUPercent > 0 {
		attrs = append(attrs, "cpu_pct", int(s.CPUPercent))
	}

	for _, phase := range []string{PhaseCells, PhaseDeaths, PhaseFood} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	CellsPct    float64 `csv:"cells_pct"`
	DeathsPct   float64 `csv:"deaths_pct"`
	FoodPct     float64 `csv:"food_pct"`
	RSSMB       float64 `csv:"rss_mb"`
	CPUPct      float64 `csv:"cpu_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		CellsPct:    s.PhasePct[PhaseCells],
		DeathsPct:   s.PhasePct[PhaseDeaths],
		FoodPct:     s.PhasePct[PhaseFood],
		RSSMB:       float64(s.RSSBytes) / (1024 * 1024),
		CPUPct:      s.CPUPercent,
	}
}
