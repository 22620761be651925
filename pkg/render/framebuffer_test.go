package render

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorBlue)

	fb.SetPixel(1, 2, ColorRed)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	fb.SetPixel(0, 3, ColorRed)

	if got := fb.GetPixel(1, 2); got != ColorRed {
		t.Errorf("GetPixel(1, 2) = %v, want red", got)
	}
	if got := countColored(fb, ColorRed); got != 1 {
		t.Errorf("out-of-bounds writes landed: %d red pixels", got)
	}
	if got := fb.GetPixel(10, 10); got != (Color{}) {
		t.Errorf("out-of-bounds read = %v, want zero color", got)
	}
}

func TestFramebufferFlipVertically(t *testing.T) {
	tests := []struct {
		name   string
		height int
	}{
		{"even height", 4},
		{"odd height", 5},
		{"single row", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(3, tc.height)
			for y := range tc.height {
				for x := range 3 {
					fb.SetPixel(x, y, RGB(uint8(x), uint8(y), 0))
				}
			}

			fb.FlipVertically()
			for y := range tc.height {
				for x := range 3 {
					if got, want := fb.GetPixel(x, y), RGB(uint8(x), uint8(tc.height-1-y), 0); got != want {
						t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}

			fb.FlipVertically()
			if fb.GetPixel(2, 0) != RGB(2, 0, 0) {
				t.Error("flipping twice should restore the original")
			}
		})
	}
}

func TestDepthBuffer(t *testing.T) {
	d := NewDepthBuffer(3, 2)
	for y := range 2 {
		for x := range 3 {
			if !math.IsInf(d.At(x, y), -1) {
				t.Fatalf("At(%d, %d) = %v, want -Inf", x, y, d.At(x, y))
			}
		}
	}

	if !d.TestAndSet(1, 1, -1e9) {
		t.Error("any finite depth should beat -Inf")
	}
	if !d.TestAndSet(1, 1, 5) {
		t.Error("nearer fragment should win")
	}
	if d.TestAndSet(1, 1, 5) {
		t.Error("equal depth should keep the existing fragment")
	}
	if d.TestAndSet(1, 1, 4) {
		t.Error("farther fragment should lose")
	}
	if d.At(1, 1) != 5 {
		t.Errorf("At(1, 1) = %v, want 5", d.At(1, 1))
	}
	if d.TestAndSet(3, 0, 100) {
		t.Error("out-of-bounds write should be rejected")
	}
	if !math.IsInf(d.At(-1, 0), 1) {
		t.Error("out-of-bounds read should be +Inf")
	}

	d.Clear()
	if !math.IsInf(d.At(1, 1), -1) {
		t.Error("Clear should reset to -Inf")
	}
}

func TestFramebufferWriteFileTGA(t *testing.T) {
	fb := NewFramebuffer(5, 4)
	fb.Clear(ColorBlack)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(4, 3, ColorGreen)

	path := filepath.Join(t.TempDir(), "out", "frame.tga")
	if err := fb.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := tga.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Fatalf("decoded size %v, want 5×4", b)
	}
	for y := range 4 {
		for x := range 5 {
			r, g, b, _ := img.At(x, y).RGBA()
			want := fb.GetPixel(x, y)
			if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
				t.Fatalf("pixel (%d, %d) = (%d, %d, %d), want %v", x, y, r>>8, g>>8, b>>8, want)
			}
		}
	}
}

func TestFramebufferPreview(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(ColorRed)

	out := fb.Preview(4)
	if !strings.Contains(out, "▀") {
		t.Errorf("preview should be made of half blocks, got %q", out)
	}
	if got := fb.Preview(0); got != "" {
		t.Errorf("Preview(0) = %q, want empty", got)
	}
}

func TestLogger(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger should discard everything")
	}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	r := NewRasterizer(NewFramebuffer(50, 50))
	r.Draw(nil, ModeTriangles)

	if !strings.Contains(buf.String(), "render complete") {
		t.Errorf("expected a debug record, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "faces_drawn=3") {
		t.Errorf("expected stats in the record, got %q", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
