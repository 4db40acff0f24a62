package ecs

import (
	"fmt"
	"iter"
)

// Storage is the main ECS storage interface. It owns the entity pool and one
// component table per registered kind. It performs no locking: a single goroutine
// owns a Storage for the duration of each call.
type Storage struct {
	registry *ComponentRegistry
	tables   [MaxKinds]iComponentStorage

	generations []uint32
	signatures  []Signature
	live        []bool
	freeList    []uint32
	nextIndex   uint32
	alive       int
	maxEntities int

	// version changes on every structural mutation
	version uint64
}

// Option configures a Storage.
type Option func(*Storage)

// WithMaxEntities caps the number of live entities. Negative means unlimited.
func WithMaxEntities(n int) Option {
	return func(s *Storage) {
		if n < 0 {
			n = unlimited
		}
		s.maxEntities = n
	}
}

// WithCapacity caps the number of live components of one kind. Negative means unlimited.
func WithCapacity(kind Kind, n int) Option {
	return func(s *Storage) {
		if kind >= MaxKinds || s.tables[kind] == nil {
			return
		}
		if n < 0 {
			n = unlimited
		}
		s.tables[kind].setLimit(n)
	}
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry, opts ...Option) *Storage {
	s := &Storage{
		registry:    registry,
		generations: make([]uint32, 0, 1024),
		signatures:  make([]Signature, 0, 1024),
		live:        make([]bool, 0, 1024),
		freeList:    make([]uint32, 0, 256),
		maxEntities: unlimited,
	}

	for kind := range registry.Kinds().Kinds() {
		s.tables[kind] = registry.getFactory(kind)()
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the component registry backing this storage
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// AllocateEntity creates a new entity with no components
func (s *Storage) AllocateEntity() (EntityId, error) {
	if s.maxEntities != unlimited && s.alive >= s.maxEntities {
		return 0, fmt.Errorf("allocate entity: limit %d reached: %w", s.maxEntities, ErrResourceExhausted)
	}

	s.alive++
	s.version++
	if len(s.freeList) > 0 {
		idx := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.live[idx] = true
		return NewEntityId(idx, s.generations[idx]), nil
	}

	idx := s.nextIndex
	s.nextIndex++
	s.generations = append(s.generations, 1)
	s.signatures = append(s.signatures, 0)
	s.live = append(s.live, true)
	return NewEntityId(idx, 1), nil
}

// Alive reports whether the entity handle names a live entity
func (s *Storage) Alive(id EntityId) bool {
	idx := id.Index()
	if id == 0 || idx >= s.nextIndex {
		return false
	}
	return s.live[idx] && s.generations[idx] == id.Generation()
}

// DestroyEntity removes the entity and every component still attached to it
func (s *Storage) DestroyEntity(id EntityId) error {
	if !s.Alive(id) {
		return fmt.Errorf("destroy entity %v: %w", id, ErrUnknownEntity)
	}

	idx := id.Index()
	for kind := range s.signatures[idx].Kinds() {
		s.tables[kind].remove(id)
	}

	s.signatures[idx] = 0
	s.live[idx] = false
	s.generations[idx] = nextGeneration(s.generations[idx])
	s.freeList = append(s.freeList, idx)
	s.alive--
	s.version++
	return nil
}

// AddComponent attaches a zeroed component of the given kind and returns its handle.
// The caller populates it through the kind's Table before handing the handle to anyone else.
func (s *Storage) AddComponent(kind Kind, id EntityId) (ComponentId, error) {
	table, err := s.table(kind)
	if err != nil {
		return 0, fmt.Errorf("add component to %v: %w", id, err)
	}
	if !s.Alive(id) {
		return 0, fmt.Errorf("add %s to %v: %w", table.name(), id, ErrUnknownEntity)
	}

	idx := id.Index()
	if s.signatures[idx].Has(kind) {
		return 0, fmt.Errorf("add %s to %v: %w", table.name(), id, ErrDuplicateComponent)
	}

	compId, err := table.add(id)
	if err != nil {
		return 0, fmt.Errorf("add %s to %v: %w", table.name(), id, err)
	}

	s.signatures[idx] = s.signatures[idx].With(kind)
	s.version++
	return compId, nil
}

// RemoveComponent detaches the entity's component of the given kind
func (s *Storage) RemoveComponent(kind Kind, id EntityId) error {
	table, err := s.table(kind)
	if err != nil {
		return fmt.Errorf("remove component from %v: %w", id, err)
	}
	if !s.Alive(id) {
		return fmt.Errorf("remove %s from %v: %w", table.name(), id, ErrUnknownEntity)
	}

	idx := id.Index()
	if !s.signatures[idx].Has(kind) {
		return fmt.Errorf("remove %s from %v: %w", table.name(), id, ErrComponentNotFound)
	}

	table.remove(id)
	s.signatures[idx] = s.signatures[idx].Without(kind)
	s.version++
	return nil
}

// ComponentOf returns the handle of the entity's component of the given kind
func (s *Storage) ComponentOf(kind Kind, id EntityId) (ComponentId, error) {
	table, err := s.table(kind)
	if err != nil {
		return 0, fmt.Errorf("lookup component on %v: %w", id, err)
	}
	if !s.Alive(id) {
		return 0, fmt.Errorf("lookup %s on %v: %w", table.name(), id, ErrUnknownEntity)
	}
	compId, ok := table.lookup(id)
	if !ok {
		return 0, fmt.Errorf("lookup %s on %v: %w", table.name(), id, ErrComponentNotFound)
	}
	return compId, nil
}

// HasComponent checks if an entity has a specific component kind
func (s *Storage) HasComponent(kind Kind, id EntityId) bool {
	if !s.Alive(id) || kind >= MaxKinds {
		return false
	}
	return s.signatures[id.Index()].Has(kind)
}

// Signature returns the set of kinds attached to the entity
func (s *Storage) Signature(id EntityId) (Signature, error) {
	if !s.Alive(id) {
		return 0, fmt.Errorf("signature of %v: %w", id, ErrUnknownEntity)
	}
	return s.signatures[id.Index()], nil
}

// ValidComponent reports whether id addresses a live component of the given kind
func (s *Storage) ValidComponent(kind Kind, id ComponentId) bool {
	table, err := s.table(kind)
	if err != nil {
		return false
	}
	return table.valid(id)
}

// OwnerOf returns the entity a live component is attached to
func (s *Storage) OwnerOf(kind Kind, id ComponentId) (EntityId, bool) {
	table, err := s.table(kind)
	if err != nil {
		return 0, false
	}
	return table.owner(id)
}

// EntityCount returns the number of live entities
func (s *Storage) EntityCount() int {
	return s.alive
}

// Entities iterates over all live entity handles in slot order
func (s *Storage) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for idx := uint32(0); idx < s.nextIndex; idx++ {
			if !s.live[idx] {
				continue
			}
			if !yield(NewEntityId(idx, s.generations[idx])) {
				return
			}
		}
	}
}

func (s *Storage) table(kind Kind) (iComponentStorage, error) {
	if kind >= MaxKinds || s.tables[kind] == nil {
		return nil, fmt.Errorf("%s: %w", s.registry.Name(kind), ErrUnknownKind)
	}
	return s.tables[kind], nil
}

// GetTable returns the typed table for a kind. It panics if the kind is not
// registered or was registered with a different component type.
func GetTable[T any](s *Storage, kind Kind) *Table[T] {
	table, err := s.table(kind)
	if err != nil {
		panic(err.Error())
	}
	typed, ok := table.(*Table[T])
	if !ok {
		panic(fmt.Sprintf("component kind %s is not %T", table.name(), *new(T)))
	}
	return typed
}

// ReadComponent returns the component addressed by id, or nil if the handle is zero or stale
func ReadComponent[T any](s *Storage, kind Kind, id ComponentId) *T {
	return GetTable[T](s, kind).Get(id)
}
