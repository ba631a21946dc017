// Package world implements the simulation engine: entity bookkeeping,
// the tick state machine, and snapshot persistence.
package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/genome"
)

// Organism is a logical creature owning one or more cells. Genome and
// traits are fixed at creation; mutation always produces a new
// organism.
type Organism struct {
	ID        uint32
	Genome    string
	Traits    genome.Traits
	Caps      genome.Capability
	Color     string
	BirthTick int64

	cells map[uint32]ecs.Entity // cell ID -> entity
}

// CellCount returns the number of live cells the organism owns.
func (o *Organism) CellCount() int {
	return len(o.cells)
}

// store owns cell entities and organism records, and allocates their
// IDs. IDs increase monotonically and are never reused.
type store struct {
	world *ecs.World

	cellMapper *ecs.Map3[components.Position, components.Energy, components.Cell]
	cellFilter *ecs.Filter3[components.Position, components.Energy, components.Cell]
	posMap     *ecs.Map1[components.Position]
	energyMap  *ecs.Map1[components.Energy]
	cellMap    *ecs.Map1[components.Cell]

	organisms map[uint32]*Organism
	cells     map[uint32]ecs.Entity

	nextCellID     uint32
	nextOrganismID uint32
}

func newStore() *store {
	w := ecs.NewWorld()

	return &store{
		world: w,
		cellMapper: ecs.NewMap3[
			components.Position,
			components.Energy,
			components.Cell,
		](w),
		cellFilter: ecs.NewFilter3[
			components.Position,
			components.Energy,
			components.Cell,
		](w),
		posMap:    ecs.NewMap1[components.Position](w),
		energyMap: ecs.NewMap1[components.Energy](w),
		cellMap:   ecs.NewMap1[components.Cell](w),
		organisms: make(map[uint32]*Organism),
		cells:     make(map[uint32]ecs.Entity),
	}
}

// newOrganism allocates and registers an organism for a genome whose
// traits have already been validated.
func (s *store) newOrganism(genomeStr string, traits genome.Traits, birthTick int64) *Organism {
	id := s.nextOrganismID
	s.nextOrganismID++

	org := &Organism{
		ID:        id,
		Genome:    genomeStr,
		Traits:    traits,
		Caps:      traits.Capability(),
		Color:     traits.Color(),
		BirthTick: birthTick,
		cells:     make(map[uint32]ecs.Entity, 1),
	}
	s.organisms[id] = org
	return org
}

// createCell spawns a cell entity at (x, y) and attaches it to org.
func (s *store) createCell(org *Organism, x, y, energy int) ecs.Entity {
	id := s.nextCellID
	s.nextCellID++

	pos := components.Position{X: x, Y: y}
	en := components.Energy{Value: energy, Age: 0, Alive: true}
	cell := components.Cell{ID: id, OrganismID: org.ID}

	entity := s.cellMapper.NewEntity(&pos, &en, &cell)
	s.cells[id] = entity
	org.cells[id] = entity
	return entity
}

// removeCell destroys a cell entity and detaches it from its organism.
// Returns the organism and true when this was its last cell, in which
// case the organism record is removed as well.
func (s *store) removeCell(entity ecs.Entity) (*Organism, bool) {
	cell := s.cellMap.Get(entity)
	org := s.organisms[cell.OrganismID]

	delete(s.cells, cell.ID)
	if org != nil {
		delete(org.cells, cell.ID)
	}
	s.cellMapper.Remove(entity)

	if org != nil && len(org.cells) == 0 {
		delete(s.organisms, org.ID)
		return org, true
	}
	return org, false
}

// organism returns the record for an ID, or nil.
func (s *store) organism(id uint32) *Organism {
	return s.organisms[id]
}

func (s *store) cellCount() int {
	return len(s.cells)
}

func (s *store) organismCount() int {
	return len(s.organisms)
}
