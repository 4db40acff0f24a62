package ecs

import (
	"iter"
	"math/bits"
)

// Kind identifies a registered component type. Kinds are small integers so that an
// entity's component set fits in a single Signature word.
type Kind uint8

// MaxKinds is the number of distinct kinds a registry can hold.
const MaxKinds = 64

// Signature represents the unique combination of component kinds attached to an entity
type Signature uint64

// SignatureOf builds a signature from the given kinds
func SignatureOf(kinds ...Kind) Signature {
	var s Signature
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// Has reports whether the kind is part of the signature
func (s Signature) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// With returns the signature with the kind added
func (s Signature) With(k Kind) Signature {
	return s | 1<<k
}

// Without returns the signature with the kind removed
func (s Signature) Without(k Kind) Signature {
	return s &^ (1 << k)
}

// Len returns the number of kinds in the signature
func (s Signature) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Contains reports whether every kind of other is also in s
func (s Signature) Contains(other Signature) bool {
	return s&other == other
}

// Kinds iterates the signature's kinds in ascending order
func (s Signature) Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		rest := uint64(s)
		for rest != 0 {
			k := Kind(bits.TrailingZeros64(rest))
			if !yield(k) {
				return
			}
			rest &^= 1 << k
		}
	}
}
