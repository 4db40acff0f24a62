package ecs

import (
	"fmt"
	"iter"

	"github.com/kamstrup/intmap"
)

// ComponentRegistry manages component kind registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories [MaxKinds]func() iComponentStorage
	names     [MaxKinds]string
	kinds     Signature
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{}
}

// RegisterComponent binds component type T to the given kind.
// This must be called for each kind before it can be used. Registering a kind twice panics.
func RegisterComponent[T any](r *ComponentRegistry, kind Kind, name string) {
	if kind >= MaxKinds {
		panic(fmt.Sprintf("component kind %d out of range", kind))
	}
	if r.kinds.Has(kind) {
		panic("component kind " + name + " already registered as " + r.names[kind])
	}
	r.names[kind] = name
	r.kinds = r.kinds.With(kind)
	r.factories[kind] = func() iComponentStorage {
		return newTable[T](kind, name)
	}
}

// Name returns the registered name of a kind.
func (r *ComponentRegistry) Name(kind Kind) string {
	if kind < MaxKinds && r.kinds.Has(kind) {
		return r.names[kind]
	}
	return fmt.Sprintf("kind(%d)", kind)
}

// Kinds returns the signature of every registered kind.
func (r *ComponentRegistry) Kinds() Signature {
	return r.kinds
}

// getFactory returns the factory function for a given kind.
// Returns nil if the kind is not registered.
func (r *ComponentRegistry) getFactory(kind Kind) func() iComponentStorage {
	if kind >= MaxKinds {
		return nil
	}
	return r.factories[kind]
}

const (
	genericBlockSize = 64
	unlimited        = -1
)

// Table stores the components of one kind in fixed-size blocks.
// Slots are reused after removal with a bumped generation, so a ComponentId
// kept past its component's removal is detected as stale rather than aliasing the new occupant.
type Table[T any] struct {
	k         Kind
	n         string
	blocks    [][genericBlockSize]T
	filled    [][genericBlockSize]bool
	gens      []uint32
	owners    []EntityId
	freeSlots []int
	nextIndex int
	maxSlots  int
	byEntity  *intmap.Map[EntityId, ComponentId]
}

func newTable[T any](kind Kind, name string) *Table[T] {
	return &Table[T]{
		k:        kind,
		n:        name,
		maxSlots: unlimited,
		byEntity: intmap.New[EntityId, ComponentId](256),
	}
}

// Kind returns the kind stored in this table.
func (cs *Table[T]) Kind() Kind { return cs.k }

// Name returns the registered name of the table's kind.
func (cs *Table[T]) Name() string { return cs.n }

// Len returns the number of live components.
func (cs *Table[T]) Len() int { return cs.byEntity.Len() }

// Get returns a pointer to the component addressed by id, or nil if the id is zero or stale.
// The pointer is only valid until the next structural change to the storage.
func (cs *Table[T]) Get(id ComponentId) *T {
	if !cs.valid(id) {
		return nil
	}
	slot := int(id.Slot())
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

// Valid reports whether id addresses a live component of this table.
func (cs *Table[T]) Valid(id ComponentId) bool { return cs.valid(id) }

// Owner returns the entity a live component is attached to.
func (cs *Table[T]) Owner(id ComponentId) (EntityId, bool) { return cs.owner(id) }

// Lookup returns the handle of the entity's component in this table.
func (cs *Table[T]) Lookup(entity EntityId) (ComponentId, bool) { return cs.lookup(entity) }

// All iterates live components in slot order.
func (cs *Table[T]) All() iter.Seq2[ComponentId, *T] {
	return func(yield func(ComponentId, *T) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			blockIdx := i / genericBlockSize
			slotIdx := i % genericBlockSize

			if !cs.filled[blockIdx][slotIdx] {
				continue
			}
			if !yield(NewComponentId(uint32(i), cs.gens[i]), &cs.blocks[blockIdx][slotIdx]) {
				return
			}
		}
	}
}

func (cs *Table[T]) name() string   { return cs.n }
func (cs *Table[T]) size() int      { return cs.byEntity.Len() }
func (cs *Table[T]) limit() int     { return cs.maxSlots }
func (cs *Table[T]) setLimit(n int) { cs.maxSlots = n }

// add claims a zeroed slot for the entity and returns its handle.
func (cs *Table[T]) add(entity EntityId) (ComponentId, error) {
	if cs.maxSlots != unlimited && cs.byEntity.Len() >= cs.maxSlots {
		return 0, ErrResourceExhausted
	}

	var index int
	if len(cs.freeSlots) > 0 {
		index = cs.freeSlots[len(cs.freeSlots)-1]
		cs.freeSlots = cs.freeSlots[:len(cs.freeSlots)-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++

		if index/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, [genericBlockSize]T{})
			cs.filled = append(cs.filled, [genericBlockSize]bool{})
		}
		cs.gens = append(cs.gens, 1)
		cs.owners = append(cs.owners, 0)
	}

	cs.filled[index/genericBlockSize][index%genericBlockSize] = true
	cs.owners[index] = entity

	id := NewComponentId(uint32(index), cs.gens[index])
	cs.byEntity.Put(entity, id)
	return id, nil
}

// remove zeroes the entity's slot and retires its generation.
func (cs *Table[T]) remove(entity EntityId) bool {
	id, ok := cs.byEntity.Get(entity)
	if !ok {
		return false
	}

	index := int(id.Slot())
	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	var zero T
	cs.blocks[blockIdx][slotIdx] = zero
	cs.filled[blockIdx][slotIdx] = false
	cs.gens[index] = nextGeneration(cs.gens[index])
	cs.owners[index] = 0
	cs.freeSlots = append(cs.freeSlots, index)
	cs.byEntity.Del(entity)
	return true
}

func (cs *Table[T]) lookup(entity EntityId) (ComponentId, bool) {
	return cs.byEntity.Get(entity)
}

func (cs *Table[T]) valid(id ComponentId) bool {
	if id == 0 {
		return false
	}
	index := int(id.Slot())
	if index >= cs.nextIndex {
		return false
	}
	if !cs.filled[index/genericBlockSize][index%genericBlockSize] {
		return false
	}
	return cs.gens[index] == id.Generation()
}

func (cs *Table[T]) owner(id ComponentId) (EntityId, bool) {
	if !cs.valid(id) {
		return 0, false
	}
	return cs.owners[id.Slot()], true
}
