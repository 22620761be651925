package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Mesh is the read-only view of a model the rasterizer needs. Keeping it
// here lets render stay independent of the loaders in package models.
type Mesh interface {
	VertexCount() int
	FaceCount() int
	Vertex(i int) math3d.Vec3
	Face(i int) [3]int
	UV(face, corner int) math3d.Vec2
	SampleDiffuse(uv math3d.Vec2) Color
}

// Sampler returns the diffuse color at a texture coordinate.
type Sampler interface {
	SampleDiffuse(uv math3d.Vec2) Color
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(uv math3d.Vec2) Color

// SampleDiffuse calls f(uv).
func (f SamplerFunc) SampleDiffuse(uv math3d.Vec2) Color { return f(uv) }

// Triangle is one face in screen space: pixel X and Y plus depth Z per
// corner, and the corners' texture coordinates for the textured path.
type Triangle struct {
	Pts [3]math3d.Vec3
	UV  [3]math3d.Vec2
}

// Mode selects one of the progressive render variants.
type Mode int

const (
	ModeTextured  Mode = iota // Perspective, depth-tested, textured
	ModeFlat                  // Orthographic, depth-tested, flat gray
	ModeWireframe             // Mesh edges only
	ModeTriangles             // The three-triangle 2-D demo, no depth test
)

var modeNames = map[Mode]string{
	ModeTextured:  "textured",
	ModeFlat:      "flat",
	ModeWireframe: "wireframe",
	ModeTriangles: "triangles",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ModeTextured, fmt.Errorf("unknown render mode %q", s)
}

// Stats counts what happened during a render.
type Stats struct {
	FacesDrawn        int // Faces handed to the triangle or line rasterizer
	FacesCulled       int // Faces with light intensity <= 0
	FacesSkipped      int // Faces with a vertex on the camera plane
	FragmentsWritten  int // Pixels written
	FragmentsOccluded int // Covered pixels that lost the depth test
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("faces_drawn", s.FacesDrawn),
		slog.Int("faces_culled", s.FacesCulled),
		slog.Int("faces_skipped", s.FacesSkipped),
		slog.Int("fragments_written", s.FragmentsWritten),
		slog.Int("fragments_occluded", s.FragmentsOccluded),
	)
}

// Rasterizer is the render context for one frame. It owns the depth buffer,
// the model-to-screen transform and the light, and writes into a caller
// supplied framebuffer. It is not safe for concurrent use.
type Rasterizer struct {
	fb        *Framebuffer
	depth     *DepthBuffer // nil disables the depth test
	transform math3d.Matrix
	light     math3d.Vec3
	Stats     Stats
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithTransform sets the model-to-screen matrix (see ScreenTransform).
func WithTransform(m math3d.Matrix) Option {
	return func(r *Rasterizer) { r.transform = m }
}

// WithLight sets the light direction. It is normalized.
func WithLight(dir math3d.Vec3) Option {
	return func(r *Rasterizer) { r.light = dir.Normalize() }
}

// WithDepthTest turns the depth buffer on or off. Without it every covered
// pixel is overwritten and the last triangle drawn wins.
func WithDepthTest(enabled bool) Option {
	return func(r *Rasterizer) {
		if !enabled {
			r.depth = nil
		} else if r.depth == nil {
			r.depth = NewDepthBuffer(r.fb.Width, r.fb.Height)
		}
	}
}

// NewRasterizer creates a render context drawing into fb. By default it uses
// an orthographic full-frame viewport with depth range 255, DefaultLight, and
// a depth buffer matching fb.
func NewRasterizer(fb *Framebuffer, opts ...Option) *Rasterizer {
	r := &Rasterizer{
		fb:        fb,
		depth:     NewDepthBuffer(fb.Width, fb.Height),
		transform: ScreenTransform(FullViewport(fb.Width, fb.Height, 255), nil),
		light:     DefaultLight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Depth returns the depth buffer, or nil when depth testing is off.
func (r *Rasterizer) Depth() *DepthBuffer { return r.depth }

// Reset clears the depth buffer and statistics. The framebuffer is left
// alone.
func (r *Rasterizer) Reset() {
	if r.depth != nil {
		r.depth.Clear()
	}
	r.Stats = Stats{}
}

// FillTriangle fills tri with a single color.
func (r *Rasterizer) FillTriangle(tri Triangle, c Color) {
	r.fill(tri, func(math3d.Vec3) Color { return c })
}

// FillTriangleTextured fills tri with the diffuse color sampled at the
// barycentric-interpolated uv, scaled by intensity. Interpolation is linear
// in screen space.
func (r *Rasterizer) FillTriangleTextured(tri Triangle, s Sampler, intensity float64) {
	r.fill(tri, func(bc math3d.Vec3) Color {
		uv := tri.UV[0].Scale(bc.X).Add(tri.UV[1].Scale(bc.Y)).Add(tri.UV[2].Scale(bc.Z))
		return Shade(s.SampleDiffuse(uv), intensity)
	})
}

// fill walks the clamped bounding box column by column. A pixel is covered
// when no barycentric weight is negative, so pixels on a shared edge are
// claimed by both triangles and the later one wins a depth tie only if it is
// strictly nearer.
func (r *Rasterizer) fill(tri Triangle, color func(bc math3d.Vec3) Color) {
	box := BoundingBox(tri.Pts, r.fb.Width, r.fb.Height)

	for x := box.Min.X; x <= box.Max.X; x++ {
		for y := box.Min.Y; y <= box.Max.Y; y++ {
			bc := Barycentric(tri.Pts, math3d.V2i(x, y).Vec2f())
			if !Covers(bc) {
				continue
			}

			if r.depth != nil {
				z := bc.X*tri.Pts[0].Z + bc.Y*tri.Pts[1].Z + bc.Z*tri.Pts[2].Z
				if !r.depth.TestAndSet(x, y, z) {
					r.Stats.FragmentsOccluded++
					continue
				}
			}

			r.fb.SetPixel(x, y, color(bc))
			r.Stats.FragmentsWritten++
		}
	}
}

// project fetches face i and maps its corners to screen space.
func (r *Rasterizer) project(mesh Mesh, i int) (screen, world [3]math3d.Vec3, ok bool) {
	face := mesh.Face(i)
	for j := range 3 {
		world[j] = mesh.Vertex(face[j])
		s, visible := ToScreen(r.transform, world[j])
		if !visible {
			return screen, world, false
		}
		screen[j] = s
	}
	return screen, world, true
}

func (r *Rasterizer) skip(face int) {
	r.Stats.FacesSkipped++
	Logger().Warn("skipping face with a vertex on the camera plane", "face", face)
}

// Draw renders mesh in the given mode. ModeTriangles ignores the mesh and
// draws the demo triangles.
func (r *Rasterizer) Draw(mesh Mesh, mode Mode) {
	switch mode {
	case ModeWireframe:
		r.DrawWireframe(mesh, ColorWhite)
	case ModeFlat:
		r.DrawFlat(mesh, ColorWhite)
	case ModeTriangles:
		r.DrawDemo()
	default:
		r.DrawTextured(mesh)
	}
	Logger().Debug("render complete", "mode", mode, "stats", r.Stats)
}

// DrawWireframe draws every face edge with the line rasterizer. Shared edges
// are drawn twice.
func (r *Rasterizer) DrawWireframe(mesh Mesh, c Color) {
	for i := range mesh.FaceCount() {
		screen, _, ok := r.project(mesh, i)
		if !ok {
			r.skip(i)
			continue
		}
		for j := range 3 {
			DrawLine(r.fb, screen[j], screen[(j+1)%3], c)
		}
		r.Stats.FacesDrawn++
	}
}

// DrawFlat fills every lit face with base scaled by the face's light
// intensity.
func (r *Rasterizer) DrawFlat(mesh Mesh, base Color) {
	for i := range mesh.FaceCount() {
		screen, world, ok := r.project(mesh, i)
		if !ok {
			r.skip(i)
			continue
		}
		intensity := LightIntensity(world, r.light)
		if intensity <= 0 {
			r.Stats.FacesCulled++
			continue
		}
		r.FillTriangle(Triangle{Pts: screen}, Shade(base, intensity))
		r.Stats.FacesDrawn++
	}
}

// DrawTextured fills every lit face with its diffuse texture scaled by the
// face's light intensity.
func (r *Rasterizer) DrawTextured(mesh Mesh) {
	for i := range mesh.FaceCount() {
		screen, world, ok := r.project(mesh, i)
		if !ok {
			r.skip(i)
			continue
		}
		intensity := LightIntensity(world, r.light)
		if intensity <= 0 {
			r.Stats.FacesCulled++
			continue
		}
		tri := Triangle{Pts: screen}
		for j := range 3 {
			tri.UV[j] = mesh.UV(i, j)
		}
		r.FillTriangleTextured(tri, mesh, intensity)
		r.Stats.FacesDrawn++
	}
}

// DemoTriangle is one flat-colored triangle of the 2-D demo scene.
type DemoTriangle struct {
	Pts   [3]math3d.Vec2i
	Color Color
}

// DemoTriangles returns the 2-D demo scene, meant for a 200×200 canvas.
func DemoTriangles() []DemoTriangle {
	return []DemoTriangle{
		{Pts: [3]math3d.Vec2i{{X: 10, Y: 70}, {X: 50, Y: 160}, {X: 70, Y: 80}}, Color: ColorRed},
		{Pts: [3]math3d.Vec2i{{X: 180, Y: 50}, {X: 150, Y: 1}, {X: 70, Y: 180}}, Color: ColorWhite},
		{Pts: [3]math3d.Vec2i{{X: 180, Y: 150}, {X: 120, Y: 160}, {X: 130, Y: 180}}, Color: ColorGreen},
	}
}

// DrawDemo fills the demo triangles in order at depth 0.
func (r *Rasterizer) DrawDemo() {
	for _, d := range DemoTriangles() {
		var tri Triangle
		for j, p := range d.Pts {
			tri.Pts[j] = math3d.V3(float64(p.X), float64(p.Y), 0)
		}
		r.FillTriangle(tri, d.Color)
		r.Stats.FacesDrawn++
	}
}
