package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := range 4 {
		for x := range 6 {
			img.SetRGBA(x, y, color.RGBA{R: uint8(40 * x), G: uint8(60 * y), B: 128, A: 255})
		}
	}
	return img
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"output.tga", TGA, false},
		{"out/frame.PNG", PNG, false},
		{"a.webp", WebP, false},
		{"a.bmp", BMP, false},
		{"a.tif", TIFF, false},
		{"a.tiff", TIFF, false},
		{"a.jpg", 0, true},
		{"noext", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := FormatFromPath(tc.path)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Fatalf("err = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := testImage()

	tests := []struct {
		format Format
		decode func(io.Reader) (image.Image, error)
	}{
		{TGA, tga.Decode},
		{PNG, png.Decode},
		{WebP, webp.Decode},
		{BMP, bmp.Decode},
		{TIFF, tiff.Decode},
	}

	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, tc.format); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, err := tc.decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 4 {
				t.Fatalf("bounds = %v, want 6×4", got.Bounds())
			}
			for y := range 4 {
				for x := range 6 {
					r, g, b, _ := got.At(got.Bounds().Min.X+x, got.Bounds().Min.Y+y).RGBA()
					want := src.RGBAAt(x, y)
					if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
						t.Fatalf("pixel (%d, %d) = (%d, %d, %d), want %v", x, y, r>>8, g>>8, b>>8, want)
					}
				}
			}
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(io.Discard, testImage(), Format(99))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "deeper", "frame.png")
		if err := WriteFile(path, testImage()); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if _, err := png.Decode(f); err != nil {
			t.Errorf("written file is not a PNG: %v", err)
		}
	})

	t.Run("unknown extension writes nothing", func(t *testing.T) {
		path := filepath.Join(dir, "frame.gif")
		if err := WriteFile(path, testImage()); !errors.Is(err, ErrUnknownFormat) {
			t.Fatalf("err = %v, want ErrUnknownFormat", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("no file should be created for an unknown format")
		}
	})
}
