package gamesys

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/gamesys/ecs"
)

// SpacePosition anchors an entity in world space. The parent references point at
// gravity and spherical terrain components owned by other subsystems; zero means no parent.
type SpacePosition struct {
	Position               mgl64.Vec3
	Orientation            mgl64.Quat
	ParentGravity          ecs.ComponentId
	ParentSphericalTerrain ecs.ComponentId
}

// CubeFace is the face of the planet cube a voxel grid position lies on.
type CubeFace uint8

const (
	FaceTop CubeFace = iota
	FaceLeft
	FaceRight
	FaceFront
	FaceBack
	FaceBottom
)

// VoxelGridPosition is a block-aligned coordinate on one cube face.
type VoxelGridPosition struct {
	Face    CubeFace
	X, Y, Z int32
}

// VoxelPosition anchors an entity on a voxel grid instead of in free space.
type VoxelPosition struct {
	ParentVoxel  ecs.ComponentId
	Orientation  mgl64.Quat
	GridPosition VoxelGridPosition
}

// Physics holds the integrable state of an entity. Exactly one of SpacePosition and
// VoxelPosition is authoritative for a given entity; the other stays zero.
type Physics struct {
	Mass          float32
	Velocity      mgl64.Vec3
	SpacePosition ecs.ComponentId
	VoxelPosition ecs.ComponentId
}

// AabbCollidable is an axis-aligned collision box given by half extents and a local offset.
type AabbCollidable struct {
	Box    mgl32.Vec3
	Offset mgl32.Vec3
}

// FreeMoveInput routes movement input into a Physics component of the same entity.
type FreeMoveInput struct {
	Physics ecs.ComponentId
}

// Head raises the camera above the entity's position anchor.
type Head struct {
	NeckLength float64
}

// Frustum is the entity's camera volume together with the components it is placed by.
type Frustum struct {
	Frustum       ViewFrustum
	SpacePosition ecs.ComponentId
	VoxelPosition ecs.ComponentId
	Head          ecs.ComponentId
}
