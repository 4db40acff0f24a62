package assemblage

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
)

// Every Add allocates the slot, fills it, and only then hands out the handle.
// Every Remove fails with ecs.ErrComponentNotFound when the kind is not attached.

func (a *Assembler) AddSpacePosition(entity ecs.EntityId, position mgl64.Vec3, orientation mgl64.Quat,
	parentGravity, parentSphericalTerrain ecs.ComponentId) (ecs.ComponentId, error) {
	id, err := a.storage().AddComponent(gamesys.KindSpacePosition, entity)
	if err != nil {
		return 0, err
	}
	c := a.game.SpacePosition.Get(id)
	c.Position = position
	c.Orientation = orientation
	c.ParentGravity = parentGravity
	c.ParentSphericalTerrain = parentSphericalTerrain
	return id, nil
}

func (a *Assembler) RemoveSpacePosition(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindSpacePosition, entity)
}

// AddVoxelPosition anchors the entity on a voxel grid. The parent voxel component
// belongs to the terrain subsystem and is stored as given.
func (a *Assembler) AddVoxelPosition(entity ecs.EntityId, parentVoxel ecs.ComponentId, orientation mgl64.Quat,
	gridPosition gamesys.VoxelGridPosition) (ecs.ComponentId, error) {
	id, err := a.storage().AddComponent(gamesys.KindVoxelPosition, entity)
	if err != nil {
		return 0, err
	}
	c := a.game.VoxelPosition.Get(id)
	c.ParentVoxel = parentVoxel
	c.Orientation = orientation
	c.GridPosition = gridPosition
	return id, nil
}

func (a *Assembler) RemoveVoxelPosition(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindVoxelPosition, entity)
}

func (a *Assembler) AddPhysics(entity ecs.EntityId, massKg float32, initialVelocity mgl64.Vec3,
	spacePosition, voxelPosition ecs.ComponentId) (ecs.ComponentId, error) {
	if !(massKg > 0) || math.IsInf(float64(massKg), 1) {
		return 0, fmt.Errorf("add Physics to %v: mass %v: %w", entity, massKg, ErrInvalidArgument)
	}
	if a.strict && spacePosition.IsZero() && voxelPosition.IsZero() {
		return 0, fmt.Errorf("add Physics to %v: no position component: %w", entity, ErrInvalidDependency)
	}
	if err := a.checkDependency(entity, gamesys.KindPhysics, gamesys.KindSpacePosition, spacePosition); err != nil {
		return 0, err
	}
	if err := a.checkDependency(entity, gamesys.KindPhysics, gamesys.KindVoxelPosition, voxelPosition); err != nil {
		return 0, err
	}

	id, err := a.storage().AddComponent(gamesys.KindPhysics, entity)
	if err != nil {
		return 0, err
	}
	c := a.game.Physics.Get(id)
	c.Mass = massKg
	c.Velocity = initialVelocity
	c.SpacePosition = spacePosition
	c.VoxelPosition = voxelPosition
	return id, nil
}

func (a *Assembler) RemovePhysics(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindPhysics, entity)
}

// AddAabbCollidable stores box and offset exactly as passed.
func (a *Assembler) AddAabbCollidable(entity ecs.EntityId, box, offset mgl32.Vec3) (ecs.ComponentId, error) {
	id, err := a.storage().AddComponent(gamesys.KindAabbCollidable, entity)
	if err != nil {
		return 0, err
	}
	c := a.game.AabbCollidable.Get(id)
	c.Box = box
	c.Offset = offset
	return id, nil
}

func (a *Assembler) RemoveAabbCollidable(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindAabbCollidable, entity)
}

func (a *Assembler) AddFreeMoveInput(entity ecs.EntityId, physics ecs.ComponentId) (ecs.ComponentId, error) {
	if a.strict {
		if physics.IsZero() {
			return 0, fmt.Errorf("add FreeMoveInput to %v: no Physics component: %w", entity, ErrInvalidDependency)
		}
		if err := a.checkDependency(entity, gamesys.KindFreeMoveInput, gamesys.KindPhysics, physics); err != nil {
			return 0, err
		}
	}

	id, err := a.storage().AddComponent(gamesys.KindFreeMoveInput, entity)
	if err != nil {
		return 0, err
	}
	a.game.FreeMoveInput.Get(id).Physics = physics
	return id, nil
}

func (a *Assembler) RemoveFreeMoveInput(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindFreeMoveInput, entity)
}

func (a *Assembler) AddHead(entity ecs.EntityId, neckLength float64) (ecs.ComponentId, error) {
	id, err := a.storage().AddComponent(gamesys.KindHead, entity)
	if err != nil {
		return 0, err
	}
	a.game.Head.Get(id).NeckLength = neckLength
	return id, nil
}

func (a *Assembler) RemoveHead(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindHead, entity)
}

// AddFrustum computes the view volume from the camera internals. Any of the three
// references may be zero; a player uses the space position and never the voxel one.
func (a *Assembler) AddFrustum(entity ecs.EntityId, camera Camera,
	spacePosition, voxelPosition, head ecs.ComponentId) (ecs.ComponentId, error) {
	if err := camera.validate(); err != nil {
		return 0, fmt.Errorf("add Frustum to %v: %w", entity, err)
	}
	if err := a.checkDependency(entity, gamesys.KindFrustum, gamesys.KindSpacePosition, spacePosition); err != nil {
		return 0, err
	}
	if err := a.checkDependency(entity, gamesys.KindFrustum, gamesys.KindVoxelPosition, voxelPosition); err != nil {
		return 0, err
	}
	if err := a.checkDependency(entity, gamesys.KindFrustum, gamesys.KindHead, head); err != nil {
		return 0, err
	}

	id, err := a.storage().AddComponent(gamesys.KindFrustum, entity)
	if err != nil {
		return 0, err
	}
	c := a.game.Frustum.Get(id)
	c.Frustum.SetCamInternals(camera.Fov, camera.AspectRatio, camera.ZNear, camera.ZFar)
	c.SpacePosition = spacePosition
	c.VoxelPosition = voxelPosition
	c.Head = head
	return id, nil
}

func (a *Assembler) RemoveFrustum(entity ecs.EntityId) error {
	return a.storage().RemoveComponent(gamesys.KindFrustum, entity)
}

// checkDependency is a no-op unless strict dependencies are on. Zero handles mean
// "no reference" and always pass; anything else must be live and owned by entity.
func (a *Assembler) checkDependency(entity ecs.EntityId, dependent, kind ecs.Kind, id ecs.ComponentId) error {
	if !a.strict || id.IsZero() {
		return nil
	}
	if !a.storage().ValidComponent(kind, id) {
		return fmt.Errorf("add %s to %v: %s %v is not live: %w",
			gamesys.KindName(dependent), entity, gamesys.KindName(kind), id, ErrInvalidDependency)
	}
	if owner, _ := a.storage().OwnerOf(kind, id); owner != entity {
		return fmt.Errorf("add %s to %v: %s %v belongs to %v: %w",
			gamesys.KindName(dependent), entity, gamesys.KindName(kind), id, owner, ErrInvalidDependency)
	}
	return nil
}

// Camera holds the perspective parameters a Frustum is computed from. Fov is in degrees.
type Camera struct {
	Fov         float32 `yaml:"fov"`
	AspectRatio float32 `yaml:"aspect_ratio"`
	ZNear       float32 `yaml:"znear"`
	ZFar        float32 `yaml:"zfar"`
}

func (c Camera) validate() error {
	switch {
	case !(c.Fov > 0 && c.Fov < 180):
		return fmt.Errorf("fov %v outside (0, 180): %w", c.Fov, ErrInvalidArgument)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("aspect ratio %v: %w", c.AspectRatio, ErrInvalidArgument)
	case !(c.ZNear > 0 && c.ZNear < c.ZFar):
		return fmt.Errorf("clip planes %v..%v: %w", c.ZNear, c.ZFar, ErrInvalidArgument)
	}
	return nil
}
