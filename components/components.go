// Package components defines ECS components for the simulation.
package components

// Position represents a cell's grid position.
type Position struct {
	X, Y int
}

// Energy holds a cell's mutable vital state.
// Alive doubles as the death queue flag: the engine clears it when a
// cell is queued for removal and cleanup happens after the tick's
// behavior pass.
type Energy struct {
	Value int
	Age   int32
	Alive bool
}

// Cell links an entity back to its stable identity and owning organism.
// IDs are allocated monotonically by the store and never reused.
type Cell struct {
	ID         uint32
	OrganismID uint32
}
