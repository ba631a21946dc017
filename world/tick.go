package world

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/genome"
)

// axisDirs is the fixed scan order for reproduction targets. Movement
// uses a shuffled copy.
var axisDirs = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Step advances the simulation by one tick. Cells alive at tick start
// are processed in turn: age, periodic energy drain, movement, eating,
// death check, reproduction. Offspring created during the tick are not
// processed until the next one. Removals are deferred until every cell
// has acted, so a cell killed mid-tick cannot be preyed upon twice.
func (w *World) Step() {
	w.timer.StartTick()
	w.tick++

	drainTick := w.tick%int64(w.cfg.Energy.DrainInterval) == 0

	w.timer.StartPhase("cells")

	// Snapshot the live set; the query must not observe entities
	// created while iterating.
	live := w.liveBuf[:0]
	query := w.store.cellFilter.Query()
	for query.Next() {
		live = append(live, query.Entity())
	}
	w.liveBuf = live

	for _, entity := range live {
		energy := w.store.energyMap.Get(entity)
		if !energy.Alive {
			// Killed earlier this tick by a predator.
			continue
		}
		pos := w.store.posMap.Get(entity)
		cell := w.store.cellMap.Get(entity)

		org := w.store.organism(cell.OrganismID)
		if org == nil {
			slog.Warn("cell references missing organism", "cell", cell.ID, "organism", cell.OrganismID)
			energy.Alive = false
			continue
		}

		energy.Age++

		if drainTick {
			energy.Value -= len(org.Genome) * w.cfg.Energy.GenomeCost
		}

		if org.Caps.Has(genome.CanMove) {
			w.moveCell(entity, pos, energy)
		}

		if org.Caps.Has(genome.CanEat) {
			w.feed(pos, energy, org)
		}

		if energy.Value <= 0 {
			energy.Alive = false
			continue
		}

		if energy.Value > w.cfg.Energy.ReproductionThreshold {
			w.tryReproduce(org, pos, energy)
		}
	}

	w.timer.StartPhase("deaths")
	w.cleanupDead()

	w.timer.StartPhase("food")
	w.food.Regenerate()

	w.timer.EndTick()
}

// moveCell tries the four axis directions in shuffled order and takes
// the first legal one. A cell with no legal move stays put for free.
func (w *World) moveCell(entity ecs.Entity, pos *components.Position, energy *components.Energy) {
	dirs := axisDirs
	w.rng.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})

	for _, d := range dirs {
		nx, ny := pos.X+d[0], pos.Y+d[1]
		if w.blocked(nx, ny) {
			continue
		}
		w.grid.Move(entity, pos.X, pos.Y, nx, ny)
		pos.X, pos.Y = nx, ny
		energy.Value -= w.cfg.Energy.MovementCost
		w.sink.OnMovement(nx, ny)
		return
	}
}

// feed consumes food under the cell, or failing that preys on one
// adjacent cell from a different organism. Predation transfers half
// the prey's energy and queues it for removal.
func (w *World) feed(pos *components.Position, energy *components.Energy, org *Organism) {
	if amount, ok := w.food.Eat(pos.X, pos.Y); ok {
		energy.Value += amount
		w.sink.OnFoodConsumed(amount)
		return
	}

	w.neighborBuf = w.grid.Neighbors8(w.neighborBuf[:0], pos.X, pos.Y, w.store.posMap)
	for _, neighbor := range w.neighborBuf {
		preyCell := w.store.cellMap.Get(neighbor)
		if preyCell.OrganismID == org.ID {
			continue
		}
		preyEnergy := w.store.energyMap.Get(neighbor)
		if !preyEnergy.Alive {
			continue
		}
		energy.Value += preyEnergy.Value / 2
		preyEnergy.Alive = false
		w.sink.OnCellEaten()
		return
	}
}

// tryReproduce scans the four axis neighbors in fixed order for the
// first legal tile, then mutates the parent genome. A mutation that no
// longer parses aborts the attempt for this tick; there is no retry at
// the remaining directions.
func (w *World) tryReproduce(parent *Organism, pos *components.Position, energy *components.Energy) {
	for _, d := range axisDirs {
		tx, ty := pos.X+d[0], pos.Y+d[1]
		if w.blocked(tx, ty) {
			continue
		}

		childGenome := w.mutator.Mutate(parent.Genome)
		traits, ok := genome.Parse(childGenome)
		if !ok {
			w.sink.OnReproductionAttempt(false)
			return
		}

		child := w.store.newOrganism(childGenome, traits, w.tick)

		// Deduct before creating the offspring entity: NewEntity can
		// grow the archetype and move component storage, and the
		// parent's component pointers are only valid until then.
		energy.Value -= w.cfg.Energy.ReproductionCost

		entity := w.store.createCell(child, tx, ty, w.cfg.Energy.Starting-len(childGenome))
		w.grid.Insert(entity, tx, ty)

		if childGenome != parent.Genome {
			w.sink.OnMutation(parent.Genome, childGenome)
		}
		parentID := parent.ID
		w.sink.OnBirth(child.ID, &parentID, childGenome, tx, ty)
		w.sink.OnReproductionAttempt(true)
		return
	}
	w.sink.OnReproductionAttempt(false)
}

// cleanupDead removes every cell queued for death this tick. Each
// removal drops decay food at the cell's last position, cleans up the
// spatial index, and deletes the organism when its last cell is gone.
func (w *World) cleanupDead() {
	// First pass: collect (mutation during query iteration is not allowed).
	type deadInfo struct {
		entity ecs.Entity
		x, y   int
	}
	var toRemove []deadInfo

	query := w.store.cellFilter.Query()
	for query.Next() {
		pos, energy, _ := query.Get()
		if !energy.Alive {
			toRemove = append(toRemove, deadInfo{entity: query.Entity(), x: pos.X, y: pos.Y})
		}
	}

	for _, dead := range toRemove {
		w.grid.Remove(dead.entity, dead.x, dead.y)
		org, last := w.store.removeCell(dead.entity)
		if org == nil {
			// Defensive removal of an orphaned cell, no side effects.
			continue
		}
		w.food.Spawn(dead.x, dead.y, w.cfg.Food.DecayEnergy)
		if last {
			w.sink.OnDeath(org.ID, org.Genome, dead.x, dead.y, int32(w.tick-org.BirthTick))
		}
	}
}
