package gamesys

import (
	"github.com/plus3/gamesys/ecs"
	"go.uber.org/zap"
)

// DependencyAudit checks every cross-component reference once per frame.
// The assembly layer stores dependency handles without watching them, so a dependency
// removed ahead of its dependents leaves a dangling handle that only shows up here.
type DependencyAudit struct {
	Game *GameSystem
	Log  *zap.Logger

	// Prune queues removal of any component holding a stale reference.
	Prune bool

	LastStale  int
	TotalStale int64
}

func (a *DependencyAudit) Execute(frame *ecs.UpdateFrame) {
	g := a.Game
	stale := 0

	for id, p := range g.Physics.All() {
		if !live(g.SpacePosition, p.SpacePosition) || !live(g.VoxelPosition, p.VoxelPosition) {
			stale++
			a.report(frame, g.Physics, KindPhysics, id)
		}
	}

	for id, in := range g.FreeMoveInput.All() {
		if !live(g.Physics, in.Physics) || !sameOwner(g.FreeMoveInput, id, g.Physics, in.Physics) {
			stale++
			a.report(frame, g.FreeMoveInput, KindFreeMoveInput, id)
		}
	}

	for id, f := range g.Frustum.All() {
		if !live(g.SpacePosition, f.SpacePosition) || !live(g.VoxelPosition, f.VoxelPosition) || !live(g.Head, f.Head) {
			stale++
			a.report(frame, g.Frustum, KindFrustum, id)
		}
	}

	a.LastStale = stale
	a.TotalStale += int64(stale)
}

func (a *DependencyAudit) report(frame *ecs.UpdateFrame, owners interface {
	Owner(ecs.ComponentId) (ecs.EntityId, bool)
}, kind ecs.Kind, id ecs.ComponentId) {
	entity, _ := owners.Owner(id)
	log := a.Log
	if log == nil {
		log = frame.Log
	}
	if log != nil {
		log.Debug("stale component reference",
			zap.Uint64("frame", frame.Number),
			zap.String("kind", KindName(kind)),
			zap.Stringer("component", id),
			zap.Stringer("entity", entity),
			zap.Bool("prune", a.Prune))
	}
	if a.Prune {
		frame.Commands.RemoveComponent(entity, kind)
	}
}

// live treats the zero handle as "no reference", which is always acceptable.
func live[T any](t *ecs.Table[T], id ecs.ComponentId) bool {
	return id.IsZero() || t.Valid(id)
}

func sameOwner[A, B any](ta *ecs.Table[A], a ecs.ComponentId, tb *ecs.Table[B], b ecs.ComponentId) bool {
	if b.IsZero() {
		return true
	}
	ea, okA := ta.Owner(a)
	eb, okB := tb.Owner(b)
	return okA && okB && ea == eb
}
