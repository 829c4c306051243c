// Package fault is the terminal path of a failed bring-up: a blink pattern
// on the indicator that is never mistaken for the healthy 1 Hz toggle.
package fault

import (
	"bringup-go/errcode"
	"bringup-go/internal/hw"
	"bringup-go/x/logx"
	"bringup-go/x/strx"
)

// Never is the result type of functions that do not return. No code
// constructs one; a function declared to return Never can only end by
// calling another such function or by looping forever.
type Never struct{ _ [0]func() }

// Pattern is a burst of toggles followed by a pause, all in milliseconds.
type Pattern struct {
	Toggles int
	Gap     uint32
	Pause   uint32
}

// DefaultPattern: three toggles 100 ms apart, then 500 ms dark.
var DefaultPattern = Pattern{Toggles: 3, Gap: 100, Pause: 500}

// Period is the duration of one burst plus pause.
func (p Pattern) Period() uint32 { return uint32(p.Toggles)*p.Gap + p.Pause }

// Cycle emits one burst and its pause.
func (p Pattern) Cycle(pin hw.Indicator, d hw.Delayer) {
	for i := 0; i < p.Toggles; i++ {
		pin.Toggle()
		d.Delay(p.Gap)
	}
	d.Delay(p.Pause)
}

// Blink repeats p forever.
func Blink(pin hw.Indicator, d hw.Delayer, p Pattern) Never {
	for {
		p.Cycle(pin, d)
	}
}

// Halt records reason and blinks the default pattern forever. The scheduler
// is not running on this path, so nothing else touches the pin.
func Halt(pin hw.Indicator, d hw.Delayer, reason error) Never {
	logx.Error("halt:", errcode.Of(reason), reason)
	return Blink(pin, d, DefaultPattern)
}

// Idle parks the CPU; it follows a scheduler start that is not expected to
// return.
func Idle(d hw.Delayer) Never {
	for {
		d.Delay(idlePoll)
	}
}

const idlePoll = 1000

// Indicator binds the pin, delay source and pattern used on fault.
type Indicator struct {
	Pin     hw.Indicator
	Delay   hw.Delayer
	Pattern Pattern
	// OnHalt, if set, sees the reason before the pattern starts.
	OnHalt func(reason error)
}

func New(pin hw.Indicator, d hw.Delayer) *Indicator {
	return &Indicator{Pin: pin, Delay: d, Pattern: DefaultPattern}
}

// Halt reconfigures the pin before blinking: a fault can precede board
// bring-up, when the pin is still an input.
func (f *Indicator) Halt(reason error) Never {
	if err := f.Pin.ConfigureOutput(false); err != nil {
		logx.Warn("halt: indicator:", err)
	}
	if f.OnHalt != nil {
		f.OnHalt(reason)
	}
	logx.Error("halt:", errcode.Of(reason), reason)
	return Blink(f.Pin, f.Delay, f.Pattern)
}

// InstallAssertHook routes failed vendor parameter checks into Halt.
func (f *Indicator) InstallAssertHook() {
	hw.SetAssertHandler(func(file string, line int) {
		f.Halt(&errcode.E{C: errcode.Assertion, Op: "assert_param", Msg: strx.Location(file, line)})
	})
}
