package world

// EventSink receives simulation events synchronously during a tick.
// Implementations must not mutate world state from a callback.
type EventSink interface {
	OnBirth(organismID uint32, parentID *uint32, genome string, x, y int)
	OnDeath(organismID uint32, genome string, x, y int, age int32)
	OnMutation(oldGenome, newGenome string)
	OnFoodConsumed(amount int)
	OnCellEaten()
	OnMovement(x, y int)
	OnReproductionAttempt(success bool)
}

// PhaseTimer receives per-tick timing hooks so a profiler can
// attribute time to tick phases without the engine importing it.
type PhaseTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

// NopSink discards all events. Used when no stats collection is wired.
type NopSink struct{}

func (NopSink) OnBirth(uint32, *uint32, string, int, int) {}
func (NopSink) OnDeath(uint32, string, int, int, int32)   {}
func (NopSink) OnMutation(string, string)                 {}
func (NopSink) OnFoodConsumed(int)                        {}
func (NopSink) OnCellEaten()                              {}
func (NopSink) OnMovement(int, int)                       {}
func (NopSink) OnReproductionAttempt(bool)                {}

// NopTimer discards all phase timing hooks.
type NopTimer struct{}

func (NopTimer) StartTick()        {}
func (NopTimer) StartPhase(string) {}
func (NopTimer) EndTick()          {}
