//go:build stm32f7

// Package stm32f7 drives the STM32F746 blocks the bring-up touches, by
// register, for the disco board.
//
// The package owns the reset clock tree and SysTick, so it needs a TinyGo
// target that leaves both alone: a cortex-m7 target carrying the stm32f7
// build tag whose runtime does not call an initCLK that starts the PLL
// before main (the stm32f4/f469 runtimes do) and does not define
// SysTick_Handler. Under a runtime that has already made the PLL the system
// clock, ConfigureOscillator refuses to retune it and boot halts with
// clock_config. Delays assume the core still runs from the 16 MHz HSI when
// New is called.
package stm32f7

import (
	"bringup-go/internal/board"
	"bringup-go/internal/hw"
)

// New returns the machine for d. Nothing is programmed until the boot
// sequence calls into it, apart from the cycle counter used for delays.
func New(d board.Descriptor) hw.Machine {
	c := &chip{hclk: hsiHz}
	c.startCycleCounter()
	return hw.Machine{
		MPU:      mpuBlock{},
		Cache:    cacheBlock{},
		Platform: platformBlock{c: c},
		Delay:    c,
		Clock:    &clockBlock{c: c},
		LED:      ledPin{pin: d.LED},
		SDRAM:    &sdramBlock{c: c, base: d.SDRAMBase, size: d.SDRAMSize},
		LCD:      &lcdBlock{c: c, w: d.LCDWidth, h: d.LCDHeight},
		Kernel:   &kernel{},
	}
}
