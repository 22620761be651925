// Package render implements a software rasterizer: transform, visibility and
// shading of triangle meshes into an in-memory frame.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/taigrr/tinyrender/pkg/imageio"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// Framebuffer is a width×height grid of pixels with the origin at the top-left
// corner. FlipVertically moves the origin to the bottom-left before output.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a framebuffer cleared to transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// InBounds reports whether (x, y) addresses a pixel.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel sets a pixel at (x, y). Out-of-bounds writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if !fb.InBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.InBounds(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// FlipVertically mirrors the rows in place.
func (fb *Framebuffer) FlipVertically() {
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := fb.Pixels[top*fb.Width : (top+1)*fb.Width]
		b := fb.Pixels[bot*fb.Width : (bot+1)*fb.Width]
		for x := range a {
			a[x], b[x] = b[x], a[x]
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// WriteFile encodes the framebuffer to path. The format follows the file
// extension (see imageio.FormatFromPath).
func (fb *Framebuffer) WriteFile(path string) error {
	return imageio.WriteFile(path, fb.ToImage())
}

// DepthBuffer holds one depth value per pixel in a single contiguous slice
// addressed by y*width+x. Every slot starts at -Inf, meaning nothing has been
// drawn there yet; larger values are nearer the viewer.
type DepthBuffer struct {
	width, height int
	values        []float64
}

// NewDepthBuffer allocates a depth buffer with every slot at -Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		width:  width,
		height: height,
		values: make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every slot to -Inf.
func (d *DepthBuffer) Clear() {
	n := len(d.values)
	if n == 0 {
		return
	}
	// Copy-doubling fill.
	d.values[0] = math.Inf(-1)
	for i := 1; i < n; i *= 2 {
		copy(d.values[i:], d.values[:i])
	}
}

// Width returns the buffer width.
func (d *DepthBuffer) Width() int { return d.width }

// Height returns the buffer height.
func (d *DepthBuffer) Height() int { return d.height }

// At returns the depth at (x, y). Out-of-bounds reads return +Inf so that no
// fragment can ever win there.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return math.Inf(1)
	}
	return d.values[y*d.width+x]
}

// TestAndSet stores z at (x, y) if it is strictly greater than the current
// value and reports whether it did. Ties keep the existing fragment.
func (d *DepthBuffer) TestAndSet(x, y int, z float64) bool {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return false
	}
	i := y*d.width + x
	if !(d.values[i] < z) {
		return false
	}
	d.values[i] = z
	return true
}
