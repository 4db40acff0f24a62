package ecs_test

import "github.com/plus3/gamesys/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Custom primitive types for testing non-struct components
type Score int32

const (
	KindPosition ecs.Kind = iota
	KindVelocity
	KindName
	KindHealth
	KindScore
)

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry, KindPosition, "Position")
	ecs.RegisterComponent[Velocity](registry, KindVelocity, "Velocity")
	ecs.RegisterComponent[Name](registry, KindName, "Name")
	ecs.RegisterComponent[Health](registry, KindHealth, "Health")
	ecs.RegisterComponent[Score](registry, KindScore, "Score")
	return registry
}

// spawn allocates an entity and attaches the given kinds, failing the test on any error.
func spawn(t interface {
	Helper()
	Fatalf(string, ...any)
}, storage *ecs.Storage, kinds ...ecs.Kind) ecs.EntityId {
	t.Helper()
	id, err := storage.AllocateEntity()
	if err != nil {
		t.Fatalf("allocate entity: %v", err)
	}
	for _, kind := range kinds {
		if _, err := storage.AddComponent(kind, id); err != nil {
			t.Fatalf("add component: %v", err)
		}
	}
	return id
}
