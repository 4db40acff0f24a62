package assemblage

import "errors"

// Assembly errors. Store failures (ecs.ErrResourceExhausted, ecs.ErrDuplicateComponent,
// ecs.ErrComponentNotFound, ecs.ErrUnknownEntity) pass through wrapped, never replaced.
var (
	ErrInvalidDependency = errors.New("invalid dependency")
	ErrInvalidArgument   = errors.New("invalid argument")

	// Archetype errors

	ErrInvalidArchetype = errors.New("invalid archetype")
	ErrUnknownArchetype = errors.New("unknown archetype")
)
