// Package board describes what the PCB provides: addresses, geometry, pins
// and the operating points chosen for it. Nothing here touches hardware.
package board

import (
	"errors"
	"fmt"

	"bringup-go/internal/clockplan"
	"bringup-go/internal/display"
	"bringup-go/internal/hw"
	"bringup-go/internal/mpu"
	"bringup-go/x/strconvx"
)

var (
	ErrFramebufferRange = errors.New("framebuffer_outside_sdram")
	ErrFramebufferAttrs = errors.New("framebuffer_not_dma_coherent")
	ErrFramebufferSpan  = errors.New("framebuffer_spans_regions")
)

// Pin names a GPIO by port letter and number, e.g. PI1.
type Pin struct {
	Port byte
	Num  uint8
}

func (p Pin) String() string { return "P" + string(rune(p.Port)) + strconvx.Itoa(int(p.Num)) }

type Descriptor struct {
	Name string

	Plan   clockplan.Plan
	Limits clockplan.Limits
	MPU    mpu.Policy

	TickHz       uint32
	TickPriority uint8

	LED         Pin
	BlinkPeriod hw.Tick

	SDRAMBase   uintptr
	SDRAMSize   uint32
	SDRAMTiming hw.SDRAMTiming

	LCDWidth        int16
	LCDHeight       int16
	ActiveLayer     uint8
	FramebufferBase uintptr
}

// FramebufferBytes is the ARGB8888 layer size.
func (d Descriptor) FramebufferBytes() uint32 {
	return display.SizeBytes(d.LCDWidth, d.LCDHeight)
}

// Validate checks the descriptor for internal consistency: a valid MPU
// policy, a clock plan within limits once its latency is made sufficient,
// and a framebuffer that sits inside SDRAM under one DMA-coherent set of
// attributes.
func (d Descriptor) Validate() error {
	var errs []error
	if err := d.MPU.Validate(); err != nil {
		errs = append(errs, err)
	}
	plan := d.Plan
	plan.FlashLatency = plan.EffectiveLatency(d.Limits)
	if err := plan.Validate(d.Limits, plan.SYSCLK()); err != nil {
		errs = append(errs, err)
	}

	start := uint64(d.FramebufferBase)
	end := start + uint64(d.FramebufferBytes()) - 1
	if start < uint64(d.SDRAMBase) || end >= uint64(d.SDRAMBase)+uint64(d.SDRAMSize) {
		errs = append(errs, fmt.Errorf("%w: %#x..%#x", ErrFramebufferRange, start, end))
	}
	first, okFirst := d.MPU.Lookup(uint32(start))
	last, okLast := d.MPU.Lookup(uint32(end))
	switch {
	case okFirst != okLast || (okFirst && first.Number != last.Number):
		errs = append(errs, ErrFramebufferSpan)
	case okFirst && !first.Policy().CoherentForDMA():
		errs = append(errs, fmt.Errorf("%w: %s", ErrFramebufferAttrs, first.Policy()))
	}
	return errors.Join(errs...)
}
