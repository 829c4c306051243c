// Package display holds the LCD layer framebuffer and the drawing used by
// the bring-up self-test.
package display

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

var ErrShortBuffer = errors.New("framebuffer_too_small")

// BytesPerPixel of the ARGB8888 layer format.
const BytesPerPixel = 4

// Common colours, as the LCD driver names them.
var (
	Black = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	Green = color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	Red   = color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// ARGB8888 packs c the way the layer's pixel format stores it.
func ARGB8888(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromARGB8888 unpacks a stored pixel.
func FromARGB8888(v uint32) color.RGBA {
	return color.RGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Framebuffer is a row-major ARGB8888 pixel buffer in memory the LCD
// controller scans out. It satisfies drivers.Displayer.
type Framebuffer struct {
	w, h int16
	pix  []uint32
}

var _ drivers.Displayer = (*Framebuffer)(nil)

// NewFramebuffer wraps mem, which must hold at least w*h pixels.
func NewFramebuffer(mem []uint32, w, h int16) (*Framebuffer, error) {
	if w <= 0 || h <= 0 || len(mem) < int(w)*int(h) {
		return nil, ErrShortBuffer
	}
	return &Framebuffer{w: w, h: h, pix: mem[:int(w)*int(h)]}, nil
}

// SizeBytes is the memory a w×h layer occupies.
func SizeBytes(w, h int16) uint32 { return uint32(w) * uint32(h) * BytesPerPixel }

func (f *Framebuffer) Size() (x, y int16) { return f.w, f.h }

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.pix[int(y)*int(f.w)+int(x)] = ARGB8888(c)
}

// Display is a no-op: the controller scans the buffer continuously.
func (f *Framebuffer) Display() error { return nil }

// Pixel reads back a stored pixel; out-of-range reads return zero.
func (f *Framebuffer) Pixel(x, y int16) color.RGBA {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return color.RGBA{}
	}
	return FromARGB8888(f.pix[int(y)*int(f.w)+int(x)])
}

// Fill writes c to every pixel.
func (f *Framebuffer) Fill(c color.RGBA) {
	v := ARGB8888(c)
	for i := range f.pix {
		f.pix[i] = v
	}
}
