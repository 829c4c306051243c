package errcode

import "errors"

// Code is a stable status identifier for init-time failures.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	ClockConfig  Code = "clock_config"  // oscillator, over-drive or clock switch rejected
	PlatformInit Code = "platform_init" // HAL substrate (tick) rejected
	DisplayInit  Code = "display_init"  // LCD controller rejected
	Assertion    Code = "assertion"     // vendor parameter check failed
	TaskCreate   Code = "task_create"   // kernel returned no task handle
	SDRAMInit    Code = "sdram_init"
	InvalidPlan  Code = "invalid_plan"
	Timeout      Code = "timeout"

	Error Code = "error" // generic fallback
)

// E keeps the failing operation and cause next to the Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s += " (" + e.Op + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	} else if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap returns nil for a nil cause, otherwise an *E carrying c and op.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Fatal reports whether a code ends the boot. Only OK and SDRAMInit are not:
// an SDRAM failure shows up as a display anomaly, never as a status halt.
func (c Code) Fatal() bool {
	return c != OK && c != SDRAMInit
}
