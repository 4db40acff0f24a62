package ecs_test

import (
	"errors"
	"testing"

	"github.com/plus3/gamesys/ecs"
)

type testDestroySystem struct {
	entity ecs.EntityId
}

func (s *testDestroySystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Destroy(s.entity)
}

type testRemoveSystem struct {
	entity ecs.EntityId
}

func (s *testRemoveSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.RemoveComponent(s.entity, KindVelocity)
}

type testMixedSystem struct {
	entity ecs.EntityId
	order  *[]string
}

func (s *testMixedSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Defer(func() error {
		*s.order = append(*s.order, "defer")
		return nil
	})
	frame.Commands.RemoveComponent(s.entity, KindVelocity)
	frame.Commands.Destroy(s.entity)
	frame.Commands.Destroy(s.entity)
}

func TestCommands(t *testing.T) {
	registry := newTestRegistry()

	t.Run("destroy entity", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		entity := spawn(t, storage, KindPosition)
		scheduler.Register(&testDestroySystem{entity: entity})

		if !storage.Alive(entity) {
			t.Fatal("entity destroyed before frame execution")
		}
		if err := scheduler.Once(1.0); err != nil {
			t.Fatalf("unexpected flush error: %v", err)
		}
		if storage.Alive(entity) {
			t.Error("entity should be destroyed after frame")
		}
	})

	t.Run("remove component", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		entity := spawn(t, storage, KindPosition, KindVelocity)
		scheduler.Register(&testRemoveSystem{entity: entity})

		if err := scheduler.Once(1.0); err != nil {
			t.Fatalf("unexpected flush error: %v", err)
		}
		if storage.HasComponent(KindVelocity, entity) {
			t.Error("velocity should be removed")
		}
		if !storage.HasComponent(KindPosition, entity) {
			t.Error("position should remain")
		}
	})

	t.Run("removes on destroyed entities are skipped", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		var order []string
		entity := spawn(t, storage, KindVelocity)
		scheduler.Register(&testMixedSystem{entity: entity, order: &order})

		if err := scheduler.Once(1.0); err != nil {
			t.Fatalf("unexpected flush error: %v", err)
		}
		if storage.Alive(entity) {
			t.Error("entity should be destroyed")
		}
		if len(order) != 1 || order[0] != "defer" {
			t.Errorf("expected deferred function to run once, got %v", order)
		}
	})

	t.Run("deferred functions see applied structural changes", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		entity := spawn(t, storage, KindVelocity)

		cmds := &ecs.Commands{}
		var alive bool
		cmds.Defer(func() error {
			alive = storage.Alive(entity)
			return nil
		})
		cmds.Destroy(entity)

		if cmds.Len() != 2 {
			t.Errorf("expected 2 queued commands, got %d", cmds.Len())
		}
		if err := cmds.Flush(storage); err != nil {
			t.Fatalf("unexpected flush error: %v", err)
		}
		if alive {
			t.Error("deferred function ran before the destroy")
		}
		if cmds.Len() != 0 {
			t.Errorf("expected empty buffer after flush, got %d", cmds.Len())
		}
	})

	t.Run("flush joins every failure", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		entity := spawn(t, storage, KindPosition)
		gone := spawn(t, storage)
		if err := storage.DestroyEntity(gone); err != nil {
			t.Fatal(err)
		}

		boom := errors.New("boom")
		ran := false

		cmds := &ecs.Commands{}
		cmds.Destroy(gone)
		cmds.RemoveComponent(entity, KindVelocity)
		cmds.Defer(func() error { return boom })
		cmds.Defer(func() error {
			ran = true
			return nil
		})

		err := cmds.Flush(storage)
		if !errors.Is(err, ecs.ErrUnknownEntity) {
			t.Errorf("expected ErrUnknownEntity in %v", err)
		}
		if !errors.Is(err, ecs.ErrComponentNotFound) {
			t.Errorf("expected ErrComponentNotFound in %v", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("expected deferred error in %v", err)
		}
		if !ran {
			t.Error("a failing command must not stop the rest")
		}
	})
}
