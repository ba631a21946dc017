package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(10)

	for i := 0; i < 3; i++ {
		p.StartTick()
		p.StartPhase(PhaseCells)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseDeaths)
		p.StartPhase(PhaseFood)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("AvgTickDuration not positive")
	}
	if stats.MaxTickDuration < stats.MinTickDuration {
		t.Errorf("max %v < min %v", stats.MaxTickDuration, stats.MinTickDuration)
	}
	if stats.PhaseAvg[PhaseCells] <= 0 {
		t.Error("cells phase not timed")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("TicksPerSecond not positive")
	}
}

func TestPerfCollectorEmptyWindow(t *testing.T) {
	p := NewPerfCollector(10)

	stats := p.Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero timing stats with no samples")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	p := NewPerfCollector(10)
	p.StartTick()
	p.StartPhase(PhaseCells)
	p.EndTick()

	row := p.Stats().ToCSV(500)
	if row.WindowEnd != 500 {
		t.Errorf("WindowEnd = %d, want 500", row.WindowEnd)
	}
	if row.AvgTickUS < 0 {
		t.Errorf("AvgTickUS = %d, want >= 0", row.AvgTickUS)
	}
}
