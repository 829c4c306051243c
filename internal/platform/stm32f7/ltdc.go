//go:build stm32f7

package stm32f7

import (
	"unsafe"

	"tinygo.org/x/drivers"

	"bringup-go/internal/board"
	"bringup-go/internal/display"
	"bringup-go/internal/hw"
)

// RK043FN48H panel timings in pixel clocks and lines.
const (
	hsync = 41
	hbp   = 13
	hfp   = 32
	vsync = 10
	vbp   = 2
	vfp   = 2
)

const (
	afLTDC    = 14
	afLTDCAlt = 9

	apb2LTDCEN = 1 << 26

	crPLLSAION  = 1 << 28
	crPLLSAIRDY = 1 << 29

	// PLLSAI: 1 MHz in, N=192, R=5, then /4 = 9.6 MHz pixel clock.
	pllsaiN    = 192
	pllsaiQ    = 2
	pllsaiR    = 5
	pllsaiDivR = 1 // /4

	gcrLTDCEN = 1 << 0
	lxcrLEN   = 1 << 0
	srcrIMR   = 1 << 0

	pfARGB8888 = 0
	// Blending: constant alpha times pixel alpha.
	bfcrValue = 6<<8 | 7
)

var ltdcPins = []struct {
	port byte
	mask uint16
	af   uint32
}{
	{'E', 1 << 4, afLTDC},
	{'G', 1 << 12, afLTDCAlt},
	{'I', 1<<9 | 1<<10 | 1<<14 | 1<<15, afLTDC},
	{'J', 0xFFFF &^ (1 << 12), afLTDC},
	{'K', 1<<0 | 1<<1 | 1<<2 | 1<<4 | 1<<5 | 1<<6 | 1<<7, afLTDC},
}

var (
	displayEnable = board.Pin{Port: 'I', Num: 12}
	backlight     = board.Pin{Port: 'K', Num: 3}
)

type lcdBlock struct {
	c        *chip
	w, h     int16
	fb       [2]*display.Framebuffer
	selected uint8
}

func (b *lcdBlock) Init() error {
	rcc.CR.ClearBits(crPLLSAION)
	if err := b.c.waitFor(func() bool { return !rcc.CR.HasBits(crPLLSAIRDY) }, pllTimeout); err != nil {
		return err
	}
	rcc.PLLSAICFGR.Set(pllsaiN<<6 | pllsaiQ<<24 | pllsaiR<<28)
	rcc.DCKCFGR1.ReplaceBits(pllsaiDivR, 0x3, 16)
	rcc.CR.SetBits(crPLLSAION)
	if err := b.c.waitFor(func() bool { return rcc.CR.HasBits(crPLLSAIRDY) }, pllTimeout); err != nil {
		return err
	}

	rcc.APB2ENR.SetBits(apb2LTDCEN)
	_ = rcc.APB2ENR.Get()
	for _, p := range ltdcPins {
		configureAF(p.port, p.mask, p.af)
	}
	configureOutput(displayEnable)
	configureOutput(backlight)

	w, h := uint32(b.w), uint32(b.h)
	ltdc.SSCR.Set((hsync-1)<<16 | (vsync - 1))
	ltdc.BPCR.Set((hsync+hbp-1)<<16 | (vsync + vbp - 1))
	ltdc.AWCR.Set((hsync+hbp+w-1)<<16 | (vsync + vbp + h - 1))
	ltdc.TWCR.Set((hsync+hbp+w+hfp-1)<<16 | (vsync + vbp + h + vfp - 1))
	ltdc.BCCR.Set(0)
	ltdc.GCR.SetBits(gcrLTDCEN)
	return nil
}

// LayerDefaultInit maps layer full-screen at fb, ARGB8888, opaque.
func (b *lcdBlock) LayerDefaultInit(layer uint8, fb uintptr) error {
	if int(layer) >= len(b.fb) {
		return hw.ErrInvalidParam
	}
	l := &ltdc.Layer[layer]
	ahbp := (ltdc.BPCR.Get() >> 16) & 0xFFF
	avbp := ltdc.BPCR.Get() & 0x7FF
	w, h := uint32(b.w), uint32(b.h)

	l.WHPCR.Set((ahbp + 1) | (ahbp+w)<<16)
	l.WVPCR.Set((avbp + 1) | (avbp+h)<<16)
	l.PFCR.Set(pfARGB8888)
	l.CACR.Set(0xFF)
	l.DCCR.Set(0)
	l.BFCR.Set(bfcrValue)
	l.CFBAR.Set(uint32(fb))
	l.CFBLR.Set((w*display.BytesPerPixel)<<16 | (w*display.BytesPerPixel + 3))
	l.CFBLNR.Set(h)
	l.CR.SetBits(lxcrLEN)
	ltdc.SRCR.Set(srcrIMR)

	mem := unsafe.Slice((*uint32)(unsafe.Pointer(fb)), int(w*h))
	f, err := display.NewFramebuffer(mem, b.w, b.h)
	if err != nil {
		return err
	}
	b.fb[layer] = f
	return nil
}

func (b *lcdBlock) SelectLayer(layer uint8) { b.selected = layer }

func (b *lcdBlock) DisplayOn() {
	ltdc.GCR.SetBits(gcrLTDCEN)
	setPin(displayEnable, true)
	setPin(backlight, true)
}

func (b *lcdBlock) Layer() drivers.Displayer {
	if int(b.selected) < len(b.fb) && b.fb[b.selected] != nil {
		return b.fb[b.selected]
	}
	return nil
}

func (b *lcdBlock) Size() (w, h int16) { return b.w, b.h }
