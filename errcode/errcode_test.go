package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":            OK,
		"clock_config":  ClockConfig,
		"platform_init": PlatformInit,
		"display_init":  DisplayInit,
		"assertion":     Assertion,
		"task_create":   TaskCreate,
		"sdram_init":    SDRAMInit,
		"invalid_plan":  InvalidPlan,
		"timeout":       Timeout,
		"error":         Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	cause := errors.New("hse not ready")
	wrapped := Wrap(ClockConfig, "oscillator", cause)

	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil)=%q", got)
	}
	if got := Of(DisplayInit); got != DisplayInit {
		t.Fatalf("Of(Code)=%q", got)
	}
	if got := Of(wrapped); got != ClockConfig {
		t.Fatalf("Of(E)=%q", got)
	}
	if got := Of(fmt.Errorf("boot: %w", wrapped)); got != ClockConfig {
		t.Fatalf("Of(wrapped E)=%q", got)
	}
	if got := Of(cause); got != Error {
		t.Fatalf("Of(plain)=%q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("E must unwrap to its cause")
	}
	if Wrap(ClockConfig, "x", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}

func TestEError(t *testing.T) {
	e := &E{C: ClockConfig, Op: "overdrive", Err: errors.New("timeout")}
	if got := e.Error(); got != "clock_config (overdrive): timeout" {
		t.Fatalf("got %q", got)
	}
	e.Msg = "ODRDY never set"
	if got := e.Error(); got != "clock_config (overdrive): ODRDY never set" {
		t.Fatalf("got %q", got)
	}
}

func TestFatal(t *testing.T) {
	if OK.Fatal() || SDRAMInit.Fatal() {
		t.Fatal("ok and sdram_init are not fatal")
	}
	for _, c := range []Code{ClockConfig, PlatformInit, DisplayInit, Assertion, TaskCreate} {
		if !c.Fatal() {
			t.Fatalf("%s should be fatal", c)
		}
	}
}
