package world

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/genome"
	"github.com/pthm-cable/petri/systems"
)

// Snapshot is the persisted world state. Cell IDs, energies and
// spatial index internals are not part of the contract; only the
// observable layout (walls, food, organisms and their genomes) is.
type Snapshot struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Organisms []OrganismState `json:"organisms"`
	Food      FoodState       `json:"food"`
	Walls     [][2]int        `json:"walls"`
}

// OrganismState is one organism's persisted form.
type OrganismState struct {
	Genome string   `json:"genome"`
	Cells  [][2]int `json:"cells"`
}

// FoodState wraps the food triple list, matching the on-disk layout.
type FoodState struct {
	Food [][3]int `json:"food"`
}

// ToSnapshot captures the world's observable state. Output ordering is
// deterministic so snapshots of identical worlds compare equal.
func (w *World) ToSnapshot() *Snapshot {
	snap := &Snapshot{
		Width:     w.cfg.World.Width,
		Height:    w.cfg.World.Height,
		Organisms: make([]OrganismState, 0, len(w.store.organisms)),
		Walls:     make([][2]int, 0, len(w.walls)),
	}

	orgIDs := make([]uint32, 0, len(w.store.organisms))
	for id := range w.store.organisms {
		orgIDs = append(orgIDs, id)
	}
	sort.Slice(orgIDs, func(i, j int) bool { return orgIDs[i] < orgIDs[j] })

	for _, id := range orgIDs {
		org := w.store.organisms[id]

		cellIDs := make([]uint32, 0, len(org.cells))
		for cid := range org.cells {
			cellIDs = append(cellIDs, cid)
		}
		sort.Slice(cellIDs, func(i, j int) bool { return cellIDs[i] < cellIDs[j] })

		state := OrganismState{Genome: org.Genome, Cells: make([][2]int, 0, len(cellIDs))}
		for _, cid := range cellIDs {
			pos := w.store.posMap.Get(org.cells[cid])
			state.Cells = append(state.Cells, [2]int{pos.X, pos.Y})
		}
		snap.Organisms = append(snap.Organisms, state)
	}

	items := w.food.Items()
	sort.Slice(items, func(i, j int) bool {
		if items[i].X != items[j].X {
			return items[i].X < items[j].X
		}
		return items[i].Y < items[j].Y
	})
	snap.Food.Food = make([][3]int, 0, len(items))
	for _, item := range items {
		snap.Food.Food = append(snap.Food.Food, [3]int{item.X, item.Y, item.Energy})
	}

	for pos := range w.walls {
		snap.Walls = append(snap.Walls, [2]int{pos.X, pos.Y})
	}
	sort.Slice(snap.Walls, func(i, j int) bool {
		if snap.Walls[i][0] != snap.Walls[j][0] {
			return snap.Walls[i][0] < snap.Walls[j][0]
		}
		return snap.Walls[i][1] < snap.Walls[j][1]
	})

	return snap
}

// FromSnapshot rebuilds a world from persisted state. Only the first
// cell listed per organism is reconstructed; multicellular
// reconstruction is a known limitation, not silently approximated.
// Cell energies are not persisted and reset as for a fresh spawn.
func FromSnapshot(snap *Snapshot, cfg *config.Config, rng *rand.Rand) (*World, error) {
	if snap.Width <= 0 || snap.Height <= 0 {
		return nil, fmt.Errorf("snapshot has invalid dimensions %dx%d", snap.Width, snap.Height)
	}

	c := *cfg
	c.World.Width = snap.Width
	c.World.Height = snap.Height
	w := New(&c, rng)

	for _, wall := range snap.Walls {
		w.SetWall(wall[0], wall[1])
	}

	items := make([]systems.FoodItem, 0, len(snap.Food.Food))
	for _, f := range snap.Food.Food {
		items = append(items, systems.FoodItem{X: f[0], Y: f[1], Energy: f[2]})
	}
	w.food.Restore(items)

	for _, state := range snap.Organisms {
		traits, ok := genome.Parse(state.Genome)
		if !ok {
			slog.Warn("skipping organism with unparseable genome", "genome", state.Genome)
			continue
		}
		if len(state.Cells) == 0 {
			slog.Warn("skipping organism with no cells", "genome", state.Genome)
			continue
		}
		x, y := state.Cells[0][0], state.Cells[0][1]
		if w.blocked(x, y) {
			slog.Warn("skipping organism on blocked tile", "x", x, "y", y)
			continue
		}
		org := w.store.newOrganism(state.Genome, traits, 0)
		entity := w.store.createCell(org, x, y, c.Energy.Starting-len(state.Genome))
		w.grid.Insert(entity, x, y)
	}

	return w, nil
}

// SaveSnapshot writes a snapshot to path as indented JSON.
func SaveSnapshot(snap *Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}
