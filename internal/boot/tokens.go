package boot

import (
	"bringup-go/internal/display"
	"bringup-go/internal/hw"
)

// Each step returns a token the next step requires, so the bring-up order
// is checked by the compiler. Tokens are unexported and only minted by the
// step that proves the phase.

// mpuCommitted: regions programmed and the MPU re-enabled.
type mpuCommitted struct{}

// cachesOn: I-cache then D-cache enabled under the committed MPU map.
type cachesOn struct{}

// halReady: flash accelerator, priority grouping and 1 ms tick in place.
type halReady struct{}

// clockLocked: PLL is SYSCLK with the committed bus frequencies.
type clockLocked struct {
	freq hw.Frequencies
}

// boardReady: indicator, SDRAM and LCD up, self-test drawn.
type boardReady struct {
	canvas *display.Canvas
}

// taskReady: the periodic task is registered with the kernel.
type taskReady struct {
	id hw.TaskID
}
