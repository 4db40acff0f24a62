package ecs

// iComponentStorage is an interface for a type-erased component table.
type iComponentStorage interface {
	name() string
	add(entity EntityId) (ComponentId, error)
	remove(entity EntityId) bool
	lookup(entity EntityId) (ComponentId, bool)
	valid(id ComponentId) bool
	owner(id ComponentId) (EntityId, bool)
	size() int
	limit() int
	setLimit(n int)
}
