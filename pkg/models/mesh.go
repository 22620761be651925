// Package models loads triangle meshes and their diffuse textures for the
// renderer.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

var (
	// ErrUnsupportedFormat is returned for a model file with an unknown
	// extension.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrMalformedOBJ wraps every OBJ syntax error.
	ErrMalformedOBJ = errors.New("malformed obj")
	// ErrIndexOutOfRange is returned when a face references a missing
	// vertex or texture coordinate.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Mesh is an indexed triangle mesh. Positions and texture coordinates are
// indexed separately per face corner, as in Wavefront OBJ.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	UVs       []math3d.Vec2
	Faces     []Face
	Diffuse   *render.Texture // nil renders untextured (white)

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle. UV entries are -1 when the corner has no texture
// coordinate.
type Face struct {
	V  [3]int // Indices into Mesh.Positions
	UV [3]int // Indices into Mesh.UVs
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// Vertex returns position i.
func (m *Mesh) Vertex(i int) math3d.Vec3 { return m.Positions[i] }

// Face returns the position indices of face i.
func (m *Mesh) Face(i int) [3]int { return m.Faces[i].V }

// UV returns the texture coordinate of a face corner, or (0,0) when the
// corner has none.
func (m *Mesh) UV(face, corner int) math3d.Vec2 {
	i := m.Faces[face].UV[corner]
	if i < 0 || i >= len(m.UVs) {
		return math3d.Vec2{}
	}
	return m.UVs[i]
}

// SampleDiffuse returns the diffuse color at uv, or white without a texture.
func (m *Mesh) SampleDiffuse(uv math3d.Vec2) render.Color {
	if m.Diffuse == nil {
		return render.ColorWhite
	}
	return m.Diffuse.Sample(uv)
}

// Validate checks that every face index is in range.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for c := range 3 {
			if f.V[c] < 0 || f.V[c] >= len(m.Positions) {
				return fmt.Errorf("%w: face %d vertex %d of %d", ErrIndexOutOfRange, i, f.V[c], len(m.Positions))
			}
			if f.UV[c] >= len(m.UVs) {
				return fmt.Errorf("%w: face %d uv %d of %d", ErrIndexOutOfRange, i, f.UV[c], len(m.UVs))
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Transform applies a transformation matrix to all positions.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	m.CalculateBounds()
}

// FitsUnitCube reports whether the bounding box lies within [-1, 1] on every
// axis.
func (m *Mesh) FitsUnitCube() bool {
	lo, hi := m.BoundsMin, m.BoundsMax
	return lo.X >= -1 && lo.Y >= -1 && lo.Z >= -1 && hi.X <= 1 && hi.Y <= 1 && hi.Z <= 1
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension spans [-1, 1]. Meshes that already fit are still
// rescaled; a mesh with no extent is only centered.
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	size := m.Size()
	extent := max(size.X, size.Y, size.Z)

	mat := math3d.Translate(m.Center().Scale(-1))
	if extent > 0 {
		s := 2 / extent
		mat = math3d.Scale(math3d.V3(s, s, s)).Mul(mat)
	}
	m.Transform(mat)
}

// Clone creates a deep copy of the mesh. The diffuse texture is shared.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Positions = append([]math3d.Vec3(nil), m.Positions...)
	clone.UVs = append([]math3d.Vec2(nil), m.UVs...)
	clone.Faces = append([]Face(nil), m.Faces...)
	return &clone
}
