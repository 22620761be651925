package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// Draw paints the framebuffer onto a terminal screen. Each cell covers two
// framebuffer rows: an upper half block with the top pixel as foreground and
// the bottom pixel as background. Row 0 of the framebuffer is the top row, so
// flip it first if it was rendered bottom-up.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// Preview renders the framebuffer as ANSI text cols cells wide, keeping the
// aspect ratio. Terminal cells are roughly twice as tall as wide, which the
// half-block encoding already accounts for.
func (fb *Framebuffer) Preview(cols int) string {
	if cols <= 0 || fb.Width == 0 || fb.Height == 0 {
		return ""
	}

	rows := (fb.Height*cols/fb.Width + 1) / 2
	if rows == 0 {
		rows = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), fb.ToImage(), image.Rect(0, 0, fb.Width, fb.Height), draw.Src, nil)

	small := &Framebuffer{Width: cols, Height: rows * 2, Pixels: make([]color.RGBA, cols*rows*2)}
	for y := range small.Height {
		for x := range small.Width {
			small.Pixels[y*cols+x] = scaled.RGBAAt(x, y)
		}
	}

	buf := uv.NewScreenBuffer(cols, rows)
	small.Draw(buf, buf.Bounds())
	return buf.Render()
}

// cellColor maps a transparent pixel to the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
