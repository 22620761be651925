package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Camera is a pinhole camera sitting on the +Z axis at Distance from the
// origin and looking down -Z.
type Camera struct {
	Distance float64
}

// Projection returns the 4×4 perspective matrix: the identity with
// -1/Distance in row 3, column 2. Applied to a homogeneous point it yields
// w = 1 - z/Distance, so the later divide shrinks points by their depth.
// A point with z == Distance lands on the camera plane (w == 0).
func (c Camera) Projection() math3d.Matrix {
	return Perspective(c.Distance)
}

// Perspective returns the projection matrix for a camera at distance c.
func Perspective(c float64) math3d.Matrix {
	m := math3d.IdentityMatrix(4)
	m.Set(3, 2, -1/c)
	return m
}

// Viewport is the pixel rectangle normalized device coordinates are mapped
// onto, with depth mapped to [0, Depth].
type Viewport struct {
	X, Y          int
	Width, Height int
	Depth         float64
}

// FullViewport covers a width×height image with a small margin on each side,
// the way the reference renderer frames a unit-sized model.
func FullViewport(width, height int, depth float64) Viewport {
	return Viewport{
		X:      width / 8,
		Y:      height / 8,
		Width:  width * 3 / 4,
		Height: height * 3 / 4,
		Depth:  depth,
	}
}

// Matrix returns the 4×4 matrix taking [-1,1]³ to
// [X, X+Width] × [Y, Y+Height] × [0, Depth].
func (v Viewport) Matrix() math3d.Matrix {
	m := math3d.IdentityMatrix(4)
	m.Set(0, 3, float64(v.X)+float64(v.Width)/2)
	m.Set(1, 3, float64(v.Y)+float64(v.Height)/2)
	m.Set(2, 3, v.Depth/2)

	m.Set(0, 0, float64(v.Width)/2)
	m.Set(1, 1, float64(v.Height)/2)
	m.Set(2, 2, v.Depth/2)
	return m
}

// ScreenTransform composes viewport * projection. A nil camera gives the
// orthographic variant (viewport only).
func ScreenTransform(vp Viewport, cam *Camera) math3d.Matrix {
	if cam == nil {
		return vp.Matrix()
	}
	return vp.Matrix().Mul(cam.Projection())
}

// ToScreen maps a model-space vertex to screen space. X and Y are rounded to
// whole pixels; Z keeps its fractional depth. ok is false when the vertex
// sits on the camera plane.
func ToScreen(m math3d.Matrix, v math3d.Vec3) (math3d.Vec3, bool) {
	s, ok := m.Transform(v)
	if !ok {
		return s, false
	}
	return math3d.V3(math.Floor(s.X+0.5), math.Floor(s.Y+0.5), s.Z), true
}
