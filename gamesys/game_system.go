// Package gamesys defines the game's component kinds and records and the GameSystem
// that owns their ECS storage.
package gamesys

import (
	"github.com/plus3/gamesys/config"
	"github.com/plus3/gamesys/ecs"
	"go.uber.org/zap"
)

// GameSystem owns the ECS storage for the game components and caches a typed
// table per kind so callers skip the kind lookup on every access.
type GameSystem struct {
	storage *ecs.Storage

	SpacePosition  *ecs.Table[SpacePosition]
	VoxelPosition  *ecs.Table[VoxelPosition]
	Physics        *ecs.Table[Physics]
	AabbCollidable *ecs.Table[AabbCollidable]
	FreeMoveInput  *ecs.Table[FreeMoveInput]
	Head           *ecs.Table[Head]
	Frustum        *ecs.Table[Frustum]
}

// NewRegistry registers every game component kind.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[SpacePosition](registry, KindSpacePosition, KindName(KindSpacePosition))
	ecs.RegisterComponent[VoxelPosition](registry, KindVoxelPosition, KindName(KindVoxelPosition))
	ecs.RegisterComponent[Physics](registry, KindPhysics, KindName(KindPhysics))
	ecs.RegisterComponent[AabbCollidable](registry, KindAabbCollidable, KindName(KindAabbCollidable))
	ecs.RegisterComponent[FreeMoveInput](registry, KindFreeMoveInput, KindName(KindFreeMoveInput))
	ecs.RegisterComponent[Head](registry, KindHead, KindName(KindHead))
	ecs.RegisterComponent[Frustum](registry, KindFrustum, KindName(KindFrustum))
	return registry
}

// New creates a GameSystem over a fresh storage.
func New(opts ...ecs.Option) *GameSystem {
	storage := ecs.NewStorage(NewRegistry(), opts...)
	return &GameSystem{
		storage:        storage,
		SpacePosition:  ecs.GetTable[SpacePosition](storage, KindSpacePosition),
		VoxelPosition:  ecs.GetTable[VoxelPosition](storage, KindVoxelPosition),
		Physics:        ecs.GetTable[Physics](storage, KindPhysics),
		AabbCollidable: ecs.GetTable[AabbCollidable](storage, KindAabbCollidable),
		FreeMoveInput:  ecs.GetTable[FreeMoveInput](storage, KindFreeMoveInput),
		Head:           ecs.GetTable[Head](storage, KindHead),
		Frustum:        ecs.GetTable[Frustum](storage, KindFrustum),
	}
}

// Storage returns the underlying ECS storage.
func (g *GameSystem) Storage() *ecs.Storage {
	return g.storage
}

// StoreOptions translates the [store] config section into storage options.
// Unknown kind names are logged and skipped.
func StoreOptions(cfg config.StoreConfig, log *zap.Logger) []ecs.Option {
	if log == nil {
		log = zap.NewNop()
	}

	var opts []ecs.Option
	if cfg.MaxEntities > 0 {
		opts = append(opts, ecs.WithMaxEntities(cfg.MaxEntities))
	}
	for name, capacity := range cfg.ComponentCapacity {
		kind, err := ParseKind(name)
		if err != nil {
			log.Warn("ignoring capacity for unknown component kind", zap.String("kind", name))
			continue
		}
		opts = append(opts, ecs.WithCapacity(kind, capacity))
	}
	return opts
}
