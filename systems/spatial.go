// Package systems provides the spatial index and food field used by
// the world engine.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
)

// SpatialGrid provides O(1) occupant lookups using a coarse bucket grid.
// A bucket covers bucketSize x bucketSize tiles, so queries must always
// verify exact positions through the position mapper; an entry whose
// recorded bucket disagrees with its actual position is a bug, not a
// valid state.
type SpatialGrid struct {
	bucketSize int
	cols       int
	rows       int
	width      int
	height     int
	buckets    [][]ecs.Entity // flat grid of entity lists, capacity reused
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, bucketSize int) *SpatialGrid {
	cols := width/bucketSize + 1
	rows := height/bucketSize + 1

	buckets := make([][]ecs.Entity, cols*rows)
	for i := range buckets {
		buckets[i] = make([]ecs.Entity, 0, 4)
	}

	return &SpatialGrid{
		bucketSize: bucketSize,
		cols:       cols,
		rows:       rows,
		width:      width,
		height:     height,
		buckets:    buckets,
	}
}

// Insert adds an entity to the bucket covering (x, y).
func (g *SpatialGrid) Insert(e ecs.Entity, x, y int) {
	idx := g.bucketIndex(x, y)
	g.buckets[idx] = append(g.buckets[idx], e)
}

// Remove drops an entity from the bucket covering (x, y).
func (g *SpatialGrid) Remove(e ecs.Entity, x, y int) {
	idx := g.bucketIndex(x, y)
	bucket := g.buckets[idx]
	for i, occupant := range bucket {
		if occupant == e {
			bucket[i] = bucket[len(bucket)-1]
			g.buckets[idx] = bucket[:len(bucket)-1]
			return
		}
	}
}

// Move relocates an entity between buckets. Must be called before any
// query observes the new position.
func (g *SpatialGrid) Move(e ecs.Entity, oldX, oldY, newX, newY int) {
	if g.bucketIndex(oldX, oldY) == g.bucketIndex(newX, newY) {
		return
	}
	g.Remove(e, oldX, oldY)
	g.Insert(e, newX, newY)
}

// CellsAt returns the entities whose exact position is (x, y),
// appending to dst. The bucket holds occupants from a larger area, so
// every candidate is verified against the position mapper.
func (g *SpatialGrid) CellsAt(dst []ecs.Entity, x, y int, posMap *ecs.Map1[components.Position]) []ecs.Entity {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return dst
	}
	for _, e := range g.buckets[g.bucketIndex(x, y)] {
		pos := posMap.Get(e)
		if pos != nil && pos.X == x && pos.Y == y {
			dst = append(dst, e)
		}
	}
	return dst
}

// OccupantCount returns the number of entities at exactly (x, y).
func (g *SpatialGrid) OccupantCount(x, y int, posMap *ecs.Map1[components.Position]) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0
	}
	count := 0
	for _, e := range g.buckets[g.bucketIndex(x, y)] {
		pos := posMap.Get(e)
		if pos != nil && pos.X == x && pos.Y == y {
			count++
		}
	}
	return count
}

// mooreOffsets is the 8-neighborhood scan order. Fixed order keeps
// neighbor queries deterministic for a given seed.
var mooreOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors8 returns the entities occupying the 8 tiles surrounding
// (x, y), appending to dst.
func (g *SpatialGrid) Neighbors8(dst []ecs.Entity, x, y int, posMap *ecs.Map1[components.Position]) []ecs.Entity {
	for _, off := range mooreOffsets {
		dst = g.CellsAt(dst, x+off[0], y+off[1], posMap)
	}
	return dst
}

// bucketIndex returns the flat index for a tile position.
func (g *SpatialGrid) bucketIndex(x, y int) int {
	col := x / g.bucketSize
	row := y / g.bucketSize

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}
