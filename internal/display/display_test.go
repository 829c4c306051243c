package display

import (
	"errors"
	"image/color"
	"testing"
)

func newFB(t *testing.T, w, h int16) *Framebuffer {
	t.Helper()
	fb, err := NewFramebuffer(make([]uint32, int(w)*int(h)), w, h)
	if err != nil {
		t.Fatalf("NewFramebuffer: %v", err)
	}
	return fb
}

func TestARGB8888(t *testing.T) {
	if got := ARGB8888(Green); got != 0xFF00FF00 {
		t.Fatalf("green=%#08x", got)
	}
	if got := ARGB8888(Black); got != 0xFF000000 {
		t.Fatalf("black=%#08x", got)
	}
	c := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	if FromARGB8888(ARGB8888(c)) != c {
		t.Fatal("pack/unpack mismatch")
	}
}

func TestNewFramebufferRejectsShortMemory(t *testing.T) {
	if _, err := NewFramebuffer(make([]uint32, 10), 4, 4); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("got %v", err)
	}
	if got := SizeBytes(480, 272); got != 522240 {
		t.Fatalf("SizeBytes=%d", got)
	}
}

func TestSetPixelClipsAndReadsBack(t *testing.T) {
	fb := newFB(t, 4, 3)
	fb.SetPixel(-1, 0, Red)
	fb.SetPixel(4, 0, Red)
	fb.SetPixel(3, 2, Red)
	if fb.Pixel(3, 2) != Red {
		t.Fatal("pixel not stored")
	}
	if fb.Pixel(9, 9) != (color.RGBA{}) {
		t.Fatal("out of range read should be zero")
	}
}

func TestDrawLineEndpointsAndDiagonal(t *testing.T) {
	fb := newFB(t, 8, 8)
	c := NewCanvas(fb)
	c.Clear(Black)
	c.SetColor(Green)
	c.DrawLine(0, 7, 7, 0)
	for i := int16(0); i < 8; i++ {
		if fb.Pixel(i, 7-i) != Green {
			t.Fatalf("anti-diagonal missing at (%d,%d)", i, 7-i)
		}
	}
	if fb.Pixel(0, 0) != Black {
		t.Fatal("unexpected pixel at origin")
	}
}

func TestDrawRectIsClosed(t *testing.T) {
	fb := newFB(t, 6, 5)
	c := NewCanvas(fb)
	c.Clear(Black)
	c.SetColor(Green)
	c.DrawRect(0, 0, 5, 4)
	for _, p := range [][2]int16{{0, 0}, {5, 0}, {0, 4}, {5, 4}, {3, 0}, {5, 2}} {
		if fb.Pixel(p[0], p[1]) != Green {
			t.Fatalf("border pixel %v missing", p)
		}
	}
	if fb.Pixel(2, 2) != Black {
		t.Fatal("interior must stay background")
	}
}

func TestSelfTestVerifies(t *testing.T) {
	fb := newFB(t, 480, 272)
	if err := SelfTest(NewCanvas(fb)); err != nil {
		t.Fatal(err)
	}
	if err := VerifySelfTest(fb); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if fb.Pixel(479, 271) != Green || fb.Pixel(0, 271) != Green || fb.Pixel(120, 136) != Black {
		t.Fatal("pattern geometry unexpected")
	}

	fb.SetPixel(240, 1, Red)
	var mm *MismatchError
	if err := VerifySelfTest(fb); !errors.As(err, &mm) || mm.X != 240 || mm.Y != 1 {
		t.Fatalf("expected mismatch at (240,1), got %v", err)
	}
}

// plain sink without Fill, to exercise the generic Clear path
type sink struct{ fb *Framebuffer }

func (s sink) Size() (int16, int16)              { return s.fb.Size() }
func (s sink) SetPixel(x, y int16, c color.RGBA) { s.fb.SetPixel(x, y, c) }
func (s sink) Display() error                    { return nil }

func TestClearWithoutFiller(t *testing.T) {
	fb := newFB(t, 3, 3)
	NewCanvas(sink{fb}).Clear(White)
	if fb.Pixel(2, 2) != White {
		t.Fatal("generic clear did not reach every pixel")
	}
}
