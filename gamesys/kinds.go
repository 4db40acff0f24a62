package gamesys

import (
	"fmt"

	"github.com/plus3/gamesys/ecs"
)

// Component kinds known to the game system. The set is closed: every switch over
// kinds in this module is expected to cover all of them.
const (
	KindSpacePosition ecs.Kind = iota
	KindVoxelPosition
	KindPhysics
	KindAabbCollidable
	KindFreeMoveInput
	KindHead
	KindFrustum

	kindCount
)

var kindNames = [kindCount]string{
	KindSpacePosition:  "SpacePosition",
	KindVoxelPosition:  "VoxelPosition",
	KindPhysics:        "Physics",
	KindAabbCollidable: "AabbCollidable",
	KindFreeMoveInput:  "FreeMoveInput",
	KindHead:           "Head",
	KindFrustum:        "Frustum",
}

// Kinds returns every game component kind in declaration order.
func Kinds() []ecs.Kind {
	kinds := make([]ecs.Kind, kindCount)
	for i := range kinds {
		kinds[i] = ecs.Kind(i)
	}
	return kinds
}

// KindName returns the display name of a game component kind.
func KindName(k ecs.Kind) string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind resolves a kind name as written in archetype files.
func ParseKind(name string) (ecs.Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return ecs.Kind(k), nil
		}
	}
	return 0, fmt.Errorf("parse kind %q: %w", name, ecs.ErrUnknownKind)
}
