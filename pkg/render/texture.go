package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest texel
	FilterBilinear                   // Weighted average of the four nearest texels
)

// ParseFilterMode maps "nearest" or "bilinear" to a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(s) {
	case "", "nearest":
		return FilterNearest, nil
	case "bilinear":
		return FilterBilinear, nil
	default:
		return FilterNearest, fmt.Errorf("unknown filter %q", s)
	}
}

// Texture is a decoded diffuse map. UV (0,0) is the bottom-left texel.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // Row-major, top row first
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes a TGA, PNG or JPEG file into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	tex, err := DecodeTexture(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes image data into a texture. hint is a file extension
// or MIME type naming the format; TGA has no magic number to sniff, so it is
// only recognized through the hint.
func DecodeTexture(r io.Reader, hint string) (*Texture, error) {
	var (
		img image.Image
		err error
	)
	switch hint = strings.ToLower(hint); {
	case strings.Contains(hint, "tga"):
		img, err = tga.Decode(r)
	case strings.Contains(hint, "png"):
		img, err = png.Decode(r)
	case strings.Contains(hint, "jpg"), strings.Contains(hint, "jpeg"):
		img, err = jpeg.Decode(r)
	default:
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, err
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies an image into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a texel.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the texel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color at uv.
func (t *Texture) Sample(uv math3d.Vec2) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u := wrapCoord(uv.X, t.WrapU)
	// Image rows run top-down, uv runs bottom-up.
	v := 1.0 - wrapCoord(uv.Y, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

// wrapCoord maps coord into [0, 1]. Under WrapRepeat a nonzero whole number
// maps to 1, so uv 1.0 addresses the last texel rather than the first.
func wrapCoord(coord float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, coord))
	}
	f := coord - math.Floor(coord)
	if f == 0 && coord != 0 {
		return 1
	}
	return f
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapTexel(x0+1, t.Width, t.WrapU)
	y1 := wrapTexel(y0+1, t.Height, t.WrapV)
	x0 = wrapTexel(x0, t.Width, t.WrapU)
	y0 = wrapTexel(y0, t.Height, t.WrapV)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

func wrapTexel(x, size int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(size-1, x))
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// Shade scales the RGB channels by intensity, saturating at 255. Alpha is
// kept.
func Shade(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Max(0, math.Min(255, float64(c.R)*intensity))),
		G: uint8(math.Max(0, math.Min(255, float64(c.G)*intensity))),
		B: uint8(math.Max(0, math.Min(255, float64(c.B)*intensity))),
		A: c.A,
	}
}
