package ecs

// System represents a behavior that runs once per frame against the storage.
// Systems read components through typed tables and queue structural changes
// on frame.Commands; they must not add or remove components directly mid-frame.
type System interface {
	Execute(frame *UpdateFrame)
}
