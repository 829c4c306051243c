//go:build stm32f7

package stm32f7

import (
	"device/arm"
	"runtime/volatile"

	"bringup-go/internal/hw"
)

// chip is the state shared by the block drivers.
type chip struct {
	hclk   uint32
	tickHz uint32
	// The reload value is retuned when HCLK changes under a running tick.
	tickOn bool
}

const hsiHz = 16_000_000

// ---- cycle-counter delays ----

const (
	demcrTRCENA      = 1 << 24
	dwtCtrlCYCCNTENA = 1 << 0
)

func (c *chip) startCycleCounter() {
	demcr.SetBits(demcrTRCENA)
	dwt.CYCCNT.Set(0)
	dwt.CTRL.SetBits(dwtCtrlCYCCNTENA)
}

// Delay spins on the cycle counter, so it works before and after the tick
// is armed and regardless of interrupt masking.
func (c *chip) Delay(ms uint32) {
	for ; ms > 0; ms-- {
		c.spin(c.hclk / 1000)
	}
}

func (c *chip) spin(cycles uint32) {
	start := dwt.CYCCNT.Get()
	for dwt.CYCCNT.Get()-start < cycles {
	}
}

// waitFor polls cond for up to timeout ms.
func (c *chip) waitFor(cond func() bool, timeout uint32) error {
	for ms := uint32(0); !cond(); ms++ {
		if ms >= timeout {
			return hw.ErrTimeout
		}
		c.spin(c.hclk / 1000)
	}
	return nil
}

func barrier() {
	arm.Asm("dsb 0xF")
	arm.Asm("isb 0xF")
}

// ---- MPU ----

const (
	mpuCtrlEnable    = 1 << 0
	shcsrMemFaultEna = 1 << 16
)

type mpuBlock struct{}

func (mpuBlock) Disable() {
	arm.Asm("dmb 0xF")
	scb.SHCSR.ClearBits(shcsrMemFaultEna)
	mpuR.CTRL.Set(0)
}

func (mpuBlock) ConfigureRegion(r hw.MPURegion) {
	mpuR.RNR.Set(uint32(r.Number))
	mpuR.RBAR.Set(r.RBAR)
	mpuR.RASR.Set(r.RASR)
}

func (mpuBlock) Enable(ctrl hw.MPUControl) {
	mpuR.CTRL.Set(uint32(ctrl) | mpuCtrlEnable)
	scb.SHCSR.SetBits(shcsrMemFaultEna)
	barrier()
}

// ---- L1 caches ----

const (
	ccrDC = 1 << 16
	ccrIC = 1 << 17
)

type cacheBlock struct{}

func (cacheBlock) EnableICache() {
	if scb.CCR.HasBits(ccrIC) {
		return
	}
	barrier()
	iciallu.Set(0)
	barrier()
	scb.CCR.SetBits(ccrIC)
	barrier()
}

// EnableDCache invalidates every set and way of the level-1 data cache
// before turning it on.
func (cacheBlock) EnableDCache() {
	if scb.CCR.HasBits(ccrDC) {
		return
	}
	scb.CSSELR.Set(0)
	arm.Asm("dsb 0xF")
	ccsidr := scb.CCSIDR.Get()
	sets := (ccsidr >> 13) & 0x7FFF
	ways := (ccsidr >> 3) & 0x3FF
	for s := int32(sets); s >= 0; s-- {
		for w := int32(ways); w >= 0; w-- {
			dcisw.Set((uint32(s)<<5)&0x3FE0 | (uint32(w)<<30)&0xC0000000)
		}
	}
	arm.Asm("dsb 0xF")
	scb.CCR.SetBits(ccrDC)
	barrier()
}

func (cacheBlock) ICacheEnabled() bool { return scb.CCR.HasBits(ccrIC) }
func (cacheBlock) DCacheEnabled() bool { return scb.CCR.HasBits(ccrDC) }

// ---- HAL substrate: flash accelerator, NVIC grouping, SysTick ----

const (
	acrLatencyMask = 0xF
	acrPRFTEN      = 1 << 8
	acrARTEN       = 1 << 9

	aircrVectKey       = 0x05FA << 16
	aircrKeyMask       = 0xFFFF << 16
	aircrPriGroupShift = 8
	aircrPriGroupMask  = 0x7 << aircrPriGroupShift

	sysTickEnable    = 1 << 0
	sysTickInt       = 1 << 1
	sysTickClkSource = 1 << 2
	sysTickMaxReload = 0xFFFFFF

	// Four implemented priority bits, in the top of the byte.
	priorityShift = 4
)

type platformBlock struct{ c *chip }

func (platformBlock) EnableFlashAccelerator() {
	flash.ACR.SetBits(acrARTEN | acrPRFTEN)
}

func (platformBlock) SetPriorityGrouping(g hw.PriorityGroup) {
	v := scb.AIRCR.Get() &^ (aircrKeyMask | aircrPriGroupMask)
	scb.AIRCR.Set(v | aircrVectKey | uint32(g)<<aircrPriGroupShift)
}

func (p platformBlock) InitTick(hz uint32, priority uint8) error {
	if hz == 0 || priority > hw.LowestPriority {
		return hw.ErrInvalidParam
	}
	p.c.tickHz = hz
	if err := p.c.armTick(); err != nil {
		return err
	}
	// SHPR3[31:24] is SysTick.
	scb.SHPR3.ReplaceBits(uint32(priority)<<priorityShift, 0xFF, 24)
	p.c.tickOn = true
	return nil
}

// armTick loads the reload value for the current HCLK.
func (c *chip) armTick() error {
	reload := c.hclk/c.tickHz - 1
	if reload > sysTickMaxReload {
		return hw.ErrInvalidParam
	}
	sysTick.LOAD.Set(reload)
	sysTick.VAL.Set(0)
	sysTick.CTRL.Set(sysTickClkSource | sysTickInt | sysTickEnable)
	return nil
}

// ticks counts SysTick interrupts since the tick was armed.
var ticks volatile.Register32

//export SysTick_Handler
func sysTickHandler() {
	ticks.Set(ticks.Get() + 1)
}

func tickCount() hw.Tick { return hw.Tick(ticks.Get()) }
