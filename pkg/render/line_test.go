package render

import (
	"testing"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

func countColored(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestDrawLineOctants(t *testing.T) {
	center := math3d.V2i(50, 50)

	tests := []struct {
		name string
		end  math3d.Vec2i
	}{
		{"east", math3d.V2i(90, 50)},
		{"east-north-east", math3d.V2i(90, 65)},
		{"north-north-east", math3d.V2i(65, 90)},
		{"north", math3d.V2i(50, 90)},
		{"north-north-west", math3d.V2i(35, 90)},
		{"west-north-west", math3d.V2i(10, 65)},
		{"west", math3d.V2i(10, 50)},
		{"west-south-west", math3d.V2i(10, 35)},
		{"south-south-west", math3d.V2i(35, 10)},
		{"south", math3d.V2i(50, 10)},
		{"south-south-east", math3d.V2i(65, 10)},
		{"east-south-east", math3d.V2i(90, 35)},
		{"diagonal", math3d.V2i(80, 80)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(100, 100)
			DrawLine(fb, center, tc.end, ColorWhite)

			dx := abs(tc.end.X - center.X)
			dy := abs(tc.end.Y - center.Y)
			if got, want := countColored(fb, ColorWhite), max(dx, dy)+1; got != want {
				t.Errorf("wrote %d pixels, want %d", got, want)
			}
			if fb.GetPixel(center.X, center.Y) != ColorWhite {
				t.Error("start point not drawn")
			}
			if fb.GetPixel(tc.end.X, tc.end.Y) != ColorWhite {
				t.Error("end point not drawn")
			}
		})
	}
}

func TestDrawLineSymmetric(t *testing.T) {
	a := NewFramebuffer(64, 64)
	b := NewFramebuffer(64, 64)
	DrawLine(a, math3d.V2i(3, 7), math3d.V2i(60, 41), ColorRed)
	DrawLine(b, math3d.V2i(60, 41), math3d.V2i(3, 7), ColorRed)

	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("pixel %d differs when endpoints are swapped", i)
		}
	}
}

func TestDrawLineZeroLength(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	DrawLine(fb, math3d.V2i(4, 4), math3d.V2i(4, 4), ColorGreen)

	if got := countColored(fb, ColorGreen); got != 1 {
		t.Errorf("zero-length line wrote %d pixels, want 1", got)
	}
	if fb.GetPixel(4, 4) != ColorGreen {
		t.Error("zero-length line should write its single point")
	}
}

func TestDrawLineClipsToFramebuffer(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	DrawLine(fb, math3d.V2i(-5, 5), math3d.V2i(20, 5), ColorWhite)

	if got := countColored(fb, ColorWhite); got != 10 {
		t.Errorf("wrote %d visible pixels, want 10", got)
	}
}

func TestDrawLineFloatPoints(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	DrawLine(fb, math3d.V2(1.4, 2.6), math3d.V2(9.6, 2.6), ColorWhite)
	if fb.GetPixel(1, 3) != ColorWhite || fb.GetPixel(10, 3) != ColorWhite {
		t.Error("Vec2 endpoints should round to the nearest pixel")
	}

	fb.Clear(ColorBlack)
	DrawLine(fb, math3d.V3(5, 1, 42), math3d.V3(5, 8, -7), ColorWhite)
	if got := countColored(fb, ColorWhite); got != 8 {
		t.Errorf("Vec3 line wrote %d pixels, want 8", got)
	}
}

func BenchmarkDrawLine(b *testing.B) {
	fb := NewFramebuffer(800, 800)
	p0, p1 := math3d.V2i(13, 790), math3d.V2i(781, 5)
	for b.Loop() {
		DrawLine(fb, p0, p1, ColorWhite)
	}
}
