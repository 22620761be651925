package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// degenerateArea is the smallest |cross.z| (twice the signed screen area) a
// triangle may have before it is treated as having no area.
const degenerateArea = 1e-2

// outside is returned by Barycentric for degenerate triangles. Its negative
// first component makes every caller treat the point as not covered.
var outside = math3d.V3(-1, 1, 1)

// BBox is an inclusive pixel rectangle.
type BBox struct {
	Min, Max math3d.Vec2i
}

// BoundingBox returns the pixel box covering the triangle, clamped to a
// width×height image. The minimum starts at the far corner and the maximum
// at the origin before the vertices are folded in, so the result always lies
// inside the image with Min <= Max. A triangle entirely off one side
// collapses to the nearest edge row or column, where the barycentric test
// then rejects every pixel.
func BoundingBox(pts [3]math3d.Vec3, width, height int) BBox {
	box := BBox{
		Min: math3d.V2i(width-1, height-1),
		Max: math3d.V2i(0, 0),
	}
	for _, p := range pts {
		lox, loy := int(math.Floor(p.X)), int(math.Floor(p.Y))
		hix, hiy := int(math.Ceil(p.X)), int(math.Ceil(p.Y))

		box.Min.X = max(0, min(box.Min.X, lox))
		box.Min.Y = max(0, min(box.Min.Y, loy))
		box.Max.X = min(width-1, max(box.Max.X, hix))
		box.Max.Y = min(height-1, max(box.Max.Y, hiy))
	}
	return box
}

// Barycentric returns the weights of p with respect to the screen triangle
// pts, using only X and Y; weight i belongs to pts[i]. The weights sum to 1
// and are all non-negative exactly when p is inside the triangle or on its
// boundary. Degenerate triangles yield a vector with a negative first weight.
func Barycentric(pts [3]math3d.Vec3, p math3d.Vec2) math3d.Vec3 {
	ab := pts[1].Sub(pts[0])
	ac := pts[2].Sub(pts[0])
	pa := math3d.V3(pts[0].X-p.X, pts[0].Y-p.Y, 0)

	u := math3d.V3(ac.X, ab.X, pa.X).Cross(math3d.V3(ac.Y, ab.Y, pa.Y))
	if math.Abs(u.Z) < degenerateArea {
		return outside
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
}

// Covers reports whether every barycentric weight is non-negative.
func Covers(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}
