package gamesys

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ViewFrustum holds the camera internals of a perspective view volume.
// Fov is the vertical field of view in degrees.
type ViewFrustum struct {
	Fov         float32
	AspectRatio float32
	ZNear       float32
	ZFar        float32

	// Half extents of the near and far clip planes.
	NearHeight float32
	NearWidth  float32
	FarHeight  float32
	FarWidth   float32

	Projection mgl32.Mat4
}

// SetCamInternals recomputes the clip plane extents and projection matrix.
func (f *ViewFrustum) SetCamInternals(fov, aspectRatio, znear, zfar float32) {
	f.Fov = fov
	f.AspectRatio = aspectRatio
	f.ZNear = znear
	f.ZFar = zfar

	fovRad := mgl32.DegToRad(fov)
	tang := float32(math.Tan(float64(fovRad) * 0.5))
	f.NearHeight = znear * tang
	f.NearWidth = f.NearHeight * aspectRatio
	f.FarHeight = zfar * tang
	f.FarWidth = f.FarHeight * aspectRatio

	f.Projection = mgl32.Perspective(fovRad, aspectRatio, znear, zfar)
}
