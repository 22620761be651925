package render

import "github.com/taigrr/tinyrender/pkg/math3d"

// DefaultLight points into the screen, towards -Z, like a lamp sitting at
// the camera.
var DefaultLight = math3d.V3(0, 0, -1)

// FaceNormal returns the unit normal (w2-w0) × (w1-w0) of a world-space
// triangle. The mesh winding is trusted as-is.
func FaceNormal(world [3]math3d.Vec3) math3d.Vec3 {
	return world[2].Sub(world[0]).Cross(world[1].Sub(world[0])).Normalize()
}

// LightIntensity is the flat, per-face Lambert term normal · light. Callers
// skip faces whose intensity is not positive: they face away from the light,
// which is the only culling the renderer performs.
func LightIntensity(world [3]math3d.Vec3, light math3d.Vec3) float64 {
	return FaceNormal(world).Dot(light)
}
