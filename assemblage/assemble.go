package assemblage

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
	"go.uber.org/zap"
)

// Spawn carries the per-instance values of an assembly. A nil Mass or Camera falls back
// to the archetype's default; a set one is validated as given, so a zero mass fails.
// A zero Orientation becomes the identity rotation.
type Spawn struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Velocity    mgl64.Vec3
	Mass        *float32
	Camera      *Camera

	ParentGravity          ecs.ComponentId
	ParentSphericalTerrain ecs.ComponentId

	// Voxel archetypes only.
	ParentVoxel  ecs.ComponentId
	GridPosition gamesys.VoxelGridPosition
}

func (s Spawn) orientation() mgl64.Quat {
	if s.Orientation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return s.Orientation
}

// CreatePlayer assembles the "player" archetype: SpacePosition, Physics, AabbCollidable,
// FreeMoveInput, Head and Frustum, in that order. Leave spawn.Mass and spawn.Camera nil
// for PlayerMass and PlayerCamera.
func (a *Assembler) CreatePlayer(spawn Spawn) (ecs.EntityId, error) {
	return a.AssembleNamed("player", spawn)
}

func (a *Assembler) AssembleNamed(name string, spawn Spawn) (ecs.EntityId, error) {
	arch, err := a.archetypes.Get(name)
	if err != nil {
		return 0, err
	}
	return a.Assemble(arch, spawn)
}

// Assemble allocates an entity and attaches the archetype's components in order, passing
// each component the handles of those added before it. On failure every component already
// attached is removed in reverse order and the entity is destroyed, so nothing leaks.
func (a *Assembler) Assemble(arch *Archetype, spawn Spawn) (ecs.EntityId, error) {
	if err := arch.Validate(); err != nil {
		return 0, err
	}

	entity, err := a.storage().AllocateEntity()
	if err != nil {
		return 0, fmt.Errorf("assemble %s: %w", arch.Name, err)
	}

	var handles [ecs.MaxKinds]ecs.ComponentId
	attached := make([]ecs.Kind, 0, len(arch.Components))
	for _, spec := range arch.Components {
		id, err := a.assembleOne(entity, spec, spawn, &handles)
		if err != nil {
			err = fmt.Errorf("assemble %s: %w", arch.Name, err)
			a.log.Warn("assembly failed",
				zap.String("archetype", arch.Name),
				zap.Stringer("entity", entity),
				zap.String("kind", gamesys.KindName(spec.Kind)),
				zap.Error(err))
			return 0, errors.Join(err, a.rollback(entity, attached))
		}
		handles[spec.Kind] = id
		attached = append(attached, spec.Kind)
	}

	a.log.Debug("assembled",
		zap.String("archetype", arch.Name),
		zap.Stringer("entity", entity),
		zap.Int("components", len(attached)))
	return entity, nil
}

func (a *Assembler) assembleOne(entity ecs.EntityId, spec ComponentSpec, spawn Spawn,
	handles *[ecs.MaxKinds]ecs.ComponentId) (ecs.ComponentId, error) {
	switch spec.Kind {
	case gamesys.KindSpacePosition:
		return a.AddSpacePosition(entity, spawn.Position, spawn.orientation(),
			spawn.ParentGravity, spawn.ParentSphericalTerrain)
	case gamesys.KindVoxelPosition:
		return a.AddVoxelPosition(entity, spawn.ParentVoxel, spawn.orientation(), spawn.GridPosition)
	case gamesys.KindPhysics:
		mass := spec.Mass
		if spawn.Mass != nil {
			mass = *spawn.Mass
		}
		return a.AddPhysics(entity, mass, spawn.Velocity,
			handles[gamesys.KindSpacePosition], handles[gamesys.KindVoxelPosition])
	case gamesys.KindAabbCollidable:
		return a.AddAabbCollidable(entity, spec.Box, spec.Offset)
	case gamesys.KindFreeMoveInput:
		return a.AddFreeMoveInput(entity, handles[gamesys.KindPhysics])
	case gamesys.KindHead:
		return a.AddHead(entity, spec.NeckLength)
	case gamesys.KindFrustum:
		camera := spec.Camera
		if spawn.Camera != nil {
			camera = *spawn.Camera
		}
		return a.AddFrustum(entity, camera,
			handles[gamesys.KindSpacePosition], handles[gamesys.KindVoxelPosition], handles[gamesys.KindHead])
	}
	return 0, fmt.Errorf("%s: %w", gamesys.KindName(spec.Kind), ecs.ErrUnknownKind)
}

func (a *Assembler) rollback(entity ecs.EntityId, attached []ecs.Kind) error {
	var errs []error
	for i := len(attached) - 1; i >= 0; i-- {
		if err := a.storage().RemoveComponent(attached[i], entity); err != nil {
			errs = append(errs, fmt.Errorf("rollback: %w", err))
		}
	}
	if err := a.storage().DestroyEntity(entity); err != nil {
		errs = append(errs, fmt.Errorf("rollback: %w", err))
	}
	return errors.Join(errs...)
}

// DestroyPlayer removes every component the player carries and releases the entity.
func (a *Assembler) DestroyPlayer(entity ecs.EntityId) error {
	return a.DestroyEntity(entity)
}

// DestroyEntity releases any entity regardless of how it was assembled.
func (a *Assembler) DestroyEntity(entity ecs.EntityId) error {
	if err := a.storage().DestroyEntity(entity); err != nil {
		return err
	}
	a.log.Debug("destroyed", zap.Stringer("entity", entity))
	return nil
}
