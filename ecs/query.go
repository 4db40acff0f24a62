package ecs

import (
	"iter"
)

// Query iterates the entities whose signature holds every kind in Include and
// none in Exclude. Matches are cached and rebuilt only after the storage changes
// structurally, so repeated iteration within a frame is a slice walk.
type Query struct {
	Include Signature
	Exclude Signature

	storage        *Storage
	cachedVersion  uint64
	cachedEntities []EntityId
	cacheValid     bool
}

// NewQuery creates a Query over the given storage.
func NewQuery(storage *Storage, include Signature) *Query {
	return &Query{
		Include: include,
		storage: storage,
	}
}

// Without excludes entities carrying any of the given kinds.
func (q *Query) Without(exclude Signature) *Query {
	q.Exclude = exclude
	q.cacheValid = false
	return q
}

// Matches reports whether a signature satisfies the query.
func (q *Query) Matches(sig Signature) bool {
	return sig.Contains(q.Include) && sig&q.Exclude == 0
}

// Execute rebuilds the entity cache if the storage changed since the last build.
func (q *Query) Execute() {
	if q.cacheValid && q.cachedVersion == q.storage.version {
		return
	}

	q.cachedEntities = q.cachedEntities[:0]
	for idx := uint32(0); idx < q.storage.nextIndex; idx++ {
		if !q.storage.live[idx] || !q.Matches(q.storage.signatures[idx]) {
			continue
		}
		q.cachedEntities = append(q.cachedEntities, NewEntityId(idx, q.storage.generations[idx]))
	}

	q.cachedVersion = q.storage.version
	q.cacheValid = true
}

// Iter returns an iterator over the matching entities in slot order.
func (q *Query) Iter() iter.Seq[EntityId] {
	q.Execute()

	return func(yield func(EntityId) bool) {
		for _, id := range q.cachedEntities {
			if !yield(id) {
				return
			}
		}
	}
}

// Len returns the number of matching entities.
func (q *Query) Len() int {
	q.Execute()
	return len(q.cachedEntities)
}
