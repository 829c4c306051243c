package sim

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"

	"bringup-go/internal/display"
	"bringup-go/internal/hw"
)

// ---- Indicator ----

// Edge is one visible level change of the indicator.
type Edge struct {
	At    uint64
	Level bool
}

type ledBlock struct {
	m          *Machine
	configured bool
	level      bool
	edges      []Edge
}

func (b *ledBlock) ConfigureOutput(initial bool) error {
	b.configured = true
	b.set(initial)
	b.m.record("gpio", "led_output", "PI1")
	return nil
}

func (b *ledBlock) Set(level bool) { b.set(level) }
func (b *ledBlock) Get() bool      { return b.level }
func (b *ledBlock) Toggle()        { b.set(!b.level) }

func (b *ledBlock) set(level bool) {
	changed := level != b.level
	b.level = level
	// An unconfigured pin latches the output register but drives nothing.
	if changed && b.configured {
		b.edges = append(b.edges, Edge{At: b.m.now, Level: level})
	}
}

// Edges returns the visible indicator transitions.
func (m *Machine) Edges() []Edge { return append([]Edge(nil), m.led.edges...) }

// ---- SDRAM ----

type sdramBlock struct {
	m      *Machine
	ready  bool
	timing hw.SDRAMTiming
	mem    []uint32
}

func (b *sdramBlock) Init(t hw.SDRAMTiming) error {
	b.timing = t
	// Clock enable, then the 1 ms power-up delay before precharge-all.
	b.m.advance(1)
	b.m.record("fmc", "sdram_init", fmt.Sprintf("refresh=%d", t.RefreshCount))
	if b.m.opt.Faults.Has(SDRAMAbsent) {
		return hw.ErrAbsent
	}
	if t.RefreshCount == 0 || t.RowCycle == 0 {
		return hw.ErrInvalidParam
	}
	b.ready = true
	if b.mem == nil {
		b.mem = make([]uint32, sdramSize/4)
	}
	return nil
}

func (b *sdramBlock) Base() uintptr { return sdramBase }
func (b *sdramBlock) Size() uint32  { return sdramSize }

// window returns n words of SDRAM at addr, or nil when unmapped.
func (b *sdramBlock) window(addr uintptr, n uint32) []uint32 {
	if !b.ready || addr < sdramBase || addr%4 != 0 {
		return nil
	}
	off := uint32(addr-sdramBase) / 4
	if uint64(off)+uint64(n) > uint64(len(b.mem)) {
		return nil
	}
	return b.mem[off : off+n]
}

// ---- LCD ----

type lcdBlock struct {
	m        *Machine
	ready    bool
	on       bool
	selected uint8
	layers   [2]layerState
}

type layerState struct {
	addr uintptr
	sink drivers.Displayer
}

func (b *lcdBlock) Init() error {
	if b.m.opt.Faults.Has(LCDAbsent) {
		b.m.record("ltdc", "init_failed", "")
		return hw.ErrAbsent
	}
	b.ready = true
	b.m.record("ltdc", "init", fmt.Sprintf("%dx%d", b.m.opt.Width, b.m.opt.Height))
	return nil
}

func (b *lcdBlock) LayerDefaultInit(layer uint8, fb uintptr) error {
	if !b.ready {
		return hw.ErrNotReady
	}
	if int(layer) >= len(b.layers) {
		return hw.ErrInvalidParam
	}
	w, h := b.m.opt.Width, b.m.opt.Height
	st := layerState{addr: fb, sink: floatingBus{w: w, h: h}}
	if mem := b.m.sdram.window(fb, uint32(w)*uint32(h)); mem != nil {
		f, err := display.NewFramebuffer(mem, w, h)
		if err != nil {
			return err
		}
		st.sink = f
	}
	b.layers[layer] = st
	b.m.record("ltdc", "layer_init", fmt.Sprintf("%d fb=%#x", layer, fb))
	return nil
}

func (b *lcdBlock) SelectLayer(layer uint8) {
	b.selected = layer
	b.m.record("ltdc", "select_layer", fmt.Sprint(layer))
}

func (b *lcdBlock) DisplayOn() {
	b.on = true
	b.m.record("ltdc", "display_on", "")
}

func (b *lcdBlock) Layer() drivers.Displayer {
	if int(b.selected) >= len(b.layers) || b.layers[b.selected].sink == nil {
		return floatingBus{w: b.m.opt.Width, h: b.m.opt.Height}
	}
	return b.layers[b.selected].sink
}

func (b *lcdBlock) Size() (w, h int16) { return b.m.opt.Width, b.m.opt.Height }

// Screen is what the panel scans out: the selected layer, or nil while the
// display is off.
func (m *Machine) Screen() display.PixelReader {
	if !m.lcd.on {
		return nil
	}
	if r, ok := m.lcd.Layer().(display.PixelReader); ok {
		return r
	}
	return nil
}

// FramebufferAddr is the address the selected layer scans from.
func (m *Machine) FramebufferAddr() uintptr { return m.lcd.layers[m.lcd.selected].addr }

// floatingBus stands in for a layer over memory that does not answer:
// writes are lost and reads return zero.
type floatingBus struct{ w, h int16 }

func (f floatingBus) Size() (x, y int16)              { return f.w, f.h }
func (floatingBus) SetPixel(x, y int16, c color.RGBA) {}
func (floatingBus) Display() error                    { return nil }
func (floatingBus) Pixel(x, y int16) color.RGBA       { return color.RGBA{} }
