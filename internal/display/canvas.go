package display

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// PixelReader is a display whose stored pixels can be read back.
type PixelReader interface {
	drivers.Displayer
	Pixel(x, y int16) color.RGBA
}

type filler interface {
	Fill(c color.RGBA)
}

// Canvas draws with a current foreground colour onto any Displayer.
type Canvas struct {
	d  drivers.Displayer
	fg color.RGBA
}

func NewCanvas(d drivers.Displayer) *Canvas {
	return &Canvas{d: d, fg: White}
}

func (c *Canvas) Size() (w, h int16) { return c.d.Size() }

// SetColor selects the colour later draw calls use.
func (c *Canvas) SetColor(col color.RGBA) { c.fg = col }

func (c *Canvas) Color() color.RGBA { return c.fg }

// Clear paints the whole viewport with col.
func (c *Canvas) Clear(col color.RGBA) {
	if f, ok := c.d.(filler); ok {
		f.Fill(col)
		return
	}
	w, h := c.d.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			c.d.SetPixel(x, y, col)
		}
	}
}

// DrawRect outlines the closed rectangle from (x, y) to (x+w, y+h).
func (c *Canvas) DrawRect(x, y, w, h int16) {
	c.hline(x, x+w, y)
	c.hline(x, x+w, y+h)
	c.vline(x, y, y+h)
	c.vline(x+w, y, y+h)
}

func (c *Canvas) hline(x0, x1, y int16) {
	for x := x0; x <= x1; x++ {
		c.d.SetPixel(x, y, c.fg)
	}
}

func (c *Canvas) vline(x, y0, y1 int16) {
	for y := y0; y <= y1; y++ {
		c.d.SetPixel(x, y, c.fg)
	}
}

// DrawLine plots (x0,y0)-(x1,y1) inclusive with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int16) {
	dx := abs(int32(x1) - int32(x0))
	dy := -abs(int32(y1) - int32(y0))
	sx, sy := int32(1), int32(1)
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := int32(x0), int32(y0)
	for {
		c.d.SetPixel(int16(x), int16(y), c.fg)
		if x == int32(x1) && y == int32(y1) {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Flush pushes the frame where the sink buffers it.
func (c *Canvas) Flush() error { return c.d.Display() }

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
