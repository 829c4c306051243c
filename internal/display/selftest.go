package display

import (
	"fmt"
	"image/color"
)

// SelfTest colours, green on black.
var (
	SelfTestBackground = Black
	SelfTestForeground = Green
)

// SelfTest clears the viewport and draws a full-screen bounding rectangle
// with both diagonals. Orientation and colour of the result prove LCD
// clocks, framebuffer memory and coherent CPU writes at a glance.
func SelfTest(c *Canvas) error {
	w, h := c.Size()
	x0, y0 := int16(0), int16(0)
	x1, y1 := w-1-x0, h-1-y0

	c.Clear(SelfTestBackground)
	c.SetColor(SelfTestForeground)
	c.DrawRect(x0, y0, x1-x0, y1-y0)
	c.DrawLine(x0, y0, x1, y1)
	c.DrawLine(x0, y1, x1, y0)
	return c.Flush()
}

// MismatchError locates the first pixel that differs from the pattern.
type MismatchError struct {
	X, Y      int16
	Got, Want color.RGBA
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("pixel (%d,%d) = %#08x, want %#08x",
		e.X, e.Y, ARGB8888(e.Got), ARGB8888(e.Want))
}

// VerifySelfTest reads every pixel back from r and compares it with a
// reference rendering of the pattern.
func VerifySelfTest(r PixelReader) error {
	w, h := r.Size()
	ref, err := NewFramebuffer(make([]uint32, int(w)*int(h)), w, h)
	if err != nil {
		return err
	}
	if err := SelfTest(NewCanvas(ref)); err != nil {
		return err
	}
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			want := ref.Pixel(x, y)
			if got := r.Pixel(x, y); got != want {
				return &MismatchError{X: x, Y: y, Got: got, Want: want}
			}
		}
	}
	return nil
}
