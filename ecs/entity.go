package ecs

import "fmt"

// EntityId encodes the entity slot index (lower 32 bits) and the slot generation (upper 32 bits).
// Generations start at 1, so the zero EntityId never names a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a slot index and generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) IsZero() bool { return e == 0 }

func (e EntityId) String() string {
	return fmt.Sprintf("e%d.%d", e.Index(), e.Generation())
}

// ComponentId addresses one slot of a component table, tagged with the slot generation.
// The zero ComponentId is the "no reference" sentinel stored in dependency fields.
type ComponentId uint64

// NullComponent is the explicit "no component" reference.
const NullComponent ComponentId = 0

// NewComponentId creates a ComponentId from a table slot and generation
func NewComponentId(slot uint32, generation uint32) ComponentId {
	return ComponentId(uint64(generation)<<32 | uint64(slot))
}

// Slot extracts the table slot from the component ID
func (c ComponentId) Slot() uint32 {
	return uint32(c & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the component ID
func (c ComponentId) Generation() uint32 {
	return uint32(c >> 32)
}

func (c ComponentId) IsZero() bool { return c == 0 }

func (c ComponentId) String() string {
	if c == 0 {
		return "c<nil>"
	}
	return fmt.Sprintf("c%d.%d", c.Slot(), c.Generation())
}

// nextGeneration bumps a slot generation, skipping zero on wrap-around.
func nextGeneration(g uint32) uint32 {
	g++
	if g == 0 {
		g = 1
	}
	return g
}
