package ecs

import "errors"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	destroys []EntityId
	removes  []removeComponentCommand
	defers   []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func() error
}

type removeComponentCommand struct {
	entity EntityId
	kind   Kind
}

// Defer queues a function execution operation. Assemblies that must not run
// mid-iteration (spawning a player, for instance) go through here.
func (c *Commands) Defer(fn func() error) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity EntityId) {
	c.destroys = append(c.destroys, entity)
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, kind Kind) {
	c.removes = append(c.removes, removeComponentCommand{
		entity: entity,
		kind:   kind,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.destroys) + len(c.removes) + len(c.defers)
}

// Flush applies all commands to the provided storage, resetting the buffer state.
// Destroys run first, removals on destroyed entities are skipped, deferred functions run last.
// Every failure is collected; one failing command does not stop the rest.
func (c *Commands) Flush(storage *Storage) error {
	var errs []error
	destroyed := make(map[EntityId]bool, len(c.destroys))

	for _, entity := range c.destroys {
		if destroyed[entity] {
			continue
		}
		if err := storage.DestroyEntity(entity); err != nil {
			errs = append(errs, err)
		}
		destroyed[entity] = true
	}

	for _, cmd := range c.removes {
		if destroyed[cmd.entity] {
			continue
		}
		if err := storage.RemoveComponent(cmd.kind, cmd.entity); err != nil {
			errs = append(errs, err)
		}
	}

	for _, df := range c.defers {
		if err := df.fn(); err != nil {
			errs = append(errs, err)
		}
	}

	c.destroys = c.destroys[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]

	return errors.Join(errs...)
}
