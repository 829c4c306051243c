// Package sim is a virtual-time model of the STM32F746G-DISCO as seen by
// the bring-up code. Time only moves when the code under test waits, so
// hour-long runs finish in milliseconds and every run is reproducible.
package sim

import (
	"fmt"
	"math/rand/v2"

	"bringup-go/internal/clockplan"
	"bringup-go/internal/hw"
)

// HSIFrequency is the reset system clock.
const HSIFrequency = 16 * clockplan.MHz

// HSETimeout is how long the oscillator driver waits for HSE ready.
const HSETimeout = 100

// OverDriveTimeout is how long the power driver waits for the over-drive flags.
const OverDriveTimeout = 1000

const (
	sdramBase uintptr = 0xC0000000
	sdramSize uint32  = 8 << 20
)

type Options struct {
	Faults Fault
	// JitterMs bounds the extra latency added to each task wake-up.
	JitterMs uint32
	// BodyMs is the time the task body consumes per iteration.
	BodyMs uint32
	Seed   uint64

	Width, Height int16
	Limits        clockplan.Limits
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 480
	}
	if o.Height == 0 {
		o.Height = 272
	}
	if o.Limits.HCLKMax == nil {
		o.Limits = clockplan.F7Limits
	}
	return o
}

// Event is one observable hardware operation.
type Event struct {
	At     uint64
	Block  string
	Op     string
	Detail string
}

func (e Event) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%6d %s.%s", e.At, e.Block, e.Op)
	}
	return fmt.Sprintf("%6d %s.%s %s", e.At, e.Block, e.Op, e.Detail)
}

// Machine holds all block state. It is not safe for concurrent use; the
// kernel model hands control between goroutines so only one runs at a time.
type Machine struct {
	opt Options

	now     uint64
	horizon uint64
	rng     *rand.Rand

	trace      []Event
	violations []string

	mpu    mpuBlock
	cache  cacheBlock
	plat   platformBlock
	clock  clockBlock
	led    ledBlock
	sdram  sdramBlock
	lcd    lcdBlock
	kernel kernel
}

func New(o Options) *Machine {
	o = o.withDefaults()
	m := &Machine{
		opt: o,
		rng: rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15)),
	}
	m.mpu.m = m
	m.cache.m = m
	m.plat.m = m
	m.clock = newClock(m)
	m.led.m = m
	m.sdram.m = m
	m.lcd.m = m
	m.kernel.m = m
	return m
}

// Hardware exposes the blocks through the capability interfaces.
func (m *Machine) Hardware() hw.Machine {
	return hw.Machine{
		MPU:      &m.mpu,
		Cache:    &m.cache,
		Platform: &m.plat,
		Delay:    delayer{m},
		Clock:    &m.clock,
		LED:      &m.led,
		SDRAM:    &m.sdram,
		LCD:      &m.lcd,
		Kernel:   &m.kernel,
	}
}

// horizonReached unwinds the code under test when virtual time runs out.
type horizonReached struct{}

// Run calls fn until it returns or virtual time reaches horizon ms. It
// reports whether fn returned on its own.
func (m *Machine) Run(horizon uint64, fn func()) (returned bool) {
	m.horizon = horizon
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(horizonReached); !ok {
				panic(r)
			}
		}
	}()
	fn()
	return true
}

// Now is the virtual time in ms since reset.
func (m *Machine) Now() uint64 { return m.now }

// Trace returns the recorded events in order.
func (m *Machine) Trace() []Event { return append([]Event(nil), m.trace...) }

// Violations lists hardware rules the code under test broke, such as raising
// HCLK without enough flash wait states.
func (m *Machine) Violations() []string { return append([]string(nil), m.violations...) }

// Index returns the position of the first event matching block and op, or -1.
func (m *Machine) Index(block, op string) int {
	for i, e := range m.trace {
		if e.Block == block && e.Op == op {
			return i
		}
	}
	return -1
}

// Count returns how many events match block and op.
func (m *Machine) Count(block, op string) int {
	n := 0
	for _, e := range m.trace {
		if e.Block == block && e.Op == op {
			n++
		}
	}
	return n
}

func (m *Machine) record(block, op, detail string) {
	m.trace = append(m.trace, Event{At: m.now, Block: block, Op: op, Detail: detail})
}

func (m *Machine) violate(format string, a ...any) {
	m.violations = append(m.violations, fmt.Sprintf("%d: ", m.now)+fmt.Sprintf(format, a...))
}

// advance moves time forward and stops the run at the horizon.
func (m *Machine) advance(ms uint64) {
	m.advanceTo(m.now + ms)
}

func (m *Machine) advanceTo(t uint64) {
	if t > m.now {
		m.now = t
	}
	if m.horizon != 0 && m.now >= m.horizon {
		m.now = m.horizon
		panic(horizonReached{})
	}
}

// jitter draws the extra wake-up latency for one task wake.
func (m *Machine) jitter() uint64 {
	if m.opt.JitterMs == 0 {
		return 0
	}
	return m.rng.Uint64N(uint64(m.opt.JitterMs) + 1)
}

// delayer busy-waits in virtual time. It works before the tick is armed.
type delayer struct{ m *Machine }

func (d delayer) Delay(ms uint32) { d.m.advance(uint64(ms)) }
