package ecs

import "errors"

// Store errors
var (
	// Allocation errors

	ErrResourceExhausted = errors.New("resource exhausted")

	// Structural errors

	ErrDuplicateComponent = errors.New("duplicate component")
	ErrComponentNotFound  = errors.New("component not found")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrUnknownKind        = errors.New("unknown component kind")
)
