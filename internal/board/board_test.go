package board

import (
	"errors"
	"testing"

	"bringup-go/internal/mpu"
)

func TestDiscoValidates(t *testing.T) {
	if err := STM32F746GDisco.Validate(); err != nil {
		t.Fatalf("descriptor invalid: %v", err)
	}
	if STM32F746GDisco.LED.String() != "PI1" {
		t.Fatalf("LED %s", STM32F746GDisco.LED)
	}
	if got := STM32F746GDisco.FramebufferBytes(); got != 522240 {
		t.Fatalf("framebuffer %d bytes", got)
	}
}

func TestFramebufferOutsideSDRAM(t *testing.T) {
	d := STM32F746GDisco
	d.FramebufferBase = d.SDRAMBase + uintptr(d.SDRAMSize) - 1024
	if err := d.Validate(); !errors.Is(err, ErrFramebufferRange) {
		t.Fatalf("got %v", err)
	}
}

func TestFramebufferNeedsCoherentRegion(t *testing.T) {
	d := STM32F746GDisco
	wb := mpu.FramebufferRegion(1, 0xC0000000, 1<<20)
	wb.Bufferable = true
	d.MPU = mpu.DefaultPolicy().With(wb)
	if err := d.Validate(); !errors.Is(err, ErrFramebufferAttrs) {
		t.Fatalf("write-back framebuffer should be rejected, got %v", err)
	}
}

func TestFramebufferMustNotSpanRegions(t *testing.T) {
	d := STM32F746GDisco
	d.MPU = mpu.DefaultPolicy().With(mpu.FramebufferRegion(1, 0xC0000000, 64<<10))
	if err := d.Validate(); !errors.Is(err, ErrFramebufferSpan) {
		t.Fatalf("got %v", err)
	}
}

func TestBackgroundMapIsAcceptable(t *testing.T) {
	d := STM32F746GDisco
	d.MPU = mpu.DefaultPolicy()
	if err := d.Validate(); err != nil {
		t.Fatalf("device-typed background SDRAM is coherent: %v", err)
	}
}
