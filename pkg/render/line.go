package render

import "github.com/taigrr/tinyrender/pkg/math3d"

// DrawLine scan-converts the segment p0–p1 with Bresenham's algorithm using
// the doubled-integer error term. Steep segments are transposed so the loop
// always walks the longer axis, which keeps the line 8-connected in every
// octant. A zero-length segment writes exactly one pixel. Pixels outside the
// framebuffer are dropped.
func DrawLine[P math3d.Point](fb *Framebuffer, p0, p1 P, c Color) {
	x0, y0 := p0.Pixel()
	x1, y1 := p1.Pixel()

	steep := false
	if abs(y1-y0) > abs(x1-x0) {
		steep = true
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	derror2 := abs(dy) * 2
	error2 := 0
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			fb.SetPixel(y, x, c)
		} else {
			fb.SetPixel(x, y, c)
		}
		error2 += derror2
		if error2 > dx {
			y += ystep
			error2 -= dx * 2
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
