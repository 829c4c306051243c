package sim

import (
	"fmt"

	"bringup-go/internal/hw"
)

const (
	hseFrequency = 25_000_000
	hseStartup   = 2
	pllLock      = 1
)

type clockBlock struct {
	m *Machine

	pwr     bool
	scale   hw.Scale
	hse     bool
	pll     bool
	osc     hw.OscConfig
	od      bool
	latency uint8
	source  hw.Source
	freq    hw.Frequencies
}

func newClock(m *Machine) clockBlock {
	return clockBlock{
		m:     m,
		scale: hw.Scale1,
		freq:  hw.Frequencies{SYSCLK: HSIFrequency, HCLK: HSIFrequency, PCLK1: HSIFrequency, PCLK2: HSIFrequency},
	}
}

func (c *clockBlock) EnablePowerClock() {
	c.pwr = true
	c.m.record("rcc", "pwr_clock_on", "")
}

func (c *clockBlock) SetRegulatorScale(s hw.Scale) {
	if !c.pwr {
		// PWR registers read as zero with the interface clock off.
		c.m.violate("regulator scale written with PWR clock off")
		return
	}
	c.scale = s
	c.m.record("pwr", "scale", s.String())
}

func (c *clockBlock) ConfigureOscillator(cfg hw.OscConfig) error {
	l := c.m.opt.Limits
	hw.AssertParam(cfg.M >= l.MMin && cfg.M <= l.MMax)
	hw.AssertParam(cfg.N >= l.NMin && cfg.N <= l.NMax)
	hw.AssertParam(cfg.Q >= l.QMin && cfg.Q <= l.QMax)

	if cfg.HSEOn && !c.hse {
		if c.m.opt.Faults.Has(NoCrystal) {
			c.m.advance(HSETimeout)
			c.m.record("rcc", "hse_timeout", "")
			return hw.ErrTimeout
		}
		c.m.advance(hseStartup)
		c.hse = true
		c.m.record("rcc", "hse_ready", "")
	}
	if cfg.PLLOn {
		if c.source == hw.SourcePLL {
			// The PLL cannot be reprogrammed while it clocks the core.
			return hw.ErrNotReady
		}
		if cfg.PLLSource == hw.SourceHSE && !c.hse {
			return hw.ErrNotReady
		}
		if cfg.M == 0 || cfg.P == 0 {
			return hw.ErrInvalidParam
		}
		c.osc = cfg
		c.m.advance(pllLock)
		c.pll = true
		c.m.record("rcc", "pll_locked", fmt.Sprintf("m=%d n=%d p=%d q=%d", cfg.M, cfg.N, cfg.P, cfg.Q))
	}
	return nil
}

func (c *clockBlock) ActivateOverDrive() error {
	if !c.pwr {
		return hw.ErrNotReady
	}
	if c.m.opt.Faults.Has(OverDriveFail) {
		c.m.advance(OverDriveTimeout)
		c.m.record("pwr", "overdrive_timeout", "")
		return hw.ErrTimeout
	}
	c.od = true
	c.m.record("pwr", "overdrive_on", "")
	return nil
}

func (c *clockBlock) pllOutput() uint32 {
	in := uint32(HSIFrequency)
	if c.osc.PLLSource == hw.SourceHSE {
		in = hseFrequency
	}
	return in / c.osc.M * c.osc.N / c.osc.P
}

func (c *clockBlock) SwitchSystemClock(bus hw.BusConfig, latency uint8) error {
	if c.m.opt.Faults.Has(Assert) {
		hw.ReportAssert("sim/clock.go", 1)
	}
	var sys uint32
	switch bus.SYSCLKSource {
	case hw.SourcePLL:
		if !c.pll {
			return hw.ErrNotReady
		}
		sys = c.pllOutput()
	case hw.SourceHSE:
		if !c.hse {
			return hw.ErrNotReady
		}
		sys = hseFrequency
	default:
		sys = HSIFrequency
	}
	if bus.AHBDiv == 0 || bus.APB1Div == 0 || bus.APB2Div == 0 {
		return hw.ErrInvalidParam
	}
	next := hw.Frequencies{
		SYSCLK: sys,
		HCLK:   sys / bus.AHBDiv,
	}
	next.PCLK1 = next.HCLK / bus.APB1Div
	next.PCLK2 = next.HCLK / bus.APB2Div

	raise := latency > c.latency
	if raise {
		c.setLatency(latency)
	}
	if c.m.opt.Faults.Has(SwitchFail) {
		c.m.record("rcc", "switch_timeout", "")
		return hw.ErrTimeout
	}
	c.check(next)
	c.source = bus.SYSCLKSource
	c.freq = next
	c.m.record("rcc", "sysclk", fmt.Sprintf("%s %dHz hclk=%d pclk1=%d pclk2=%d ws=%d",
		c.source, next.SYSCLK, next.HCLK, next.PCLK1, next.PCLK2, c.latency))
	if !raise && latency != c.latency {
		c.setLatency(latency)
	}
	return nil
}

func (c *clockBlock) setLatency(ws uint8) {
	c.latency = ws
	c.m.record("flash", "latency", fmt.Sprint(ws))
}

// check flags the frequency change against the envelope at the moment it
// takes effect.
func (c *clockBlock) check(f hw.Frequencies) {
	l := c.m.opt.Limits
	if need := l.MinFlashLatency(f.HCLK); c.latency < need {
		c.m.violate("hclk %d with %d wait states, needs %d", f.HCLK, c.latency, need)
	}
	od := 0
	if c.od {
		od = 1
	}
	if ceil := l.HCLKMax[c.scale][od]; f.HCLK > ceil {
		c.m.violate("hclk %d above %d at %s overdrive=%v", f.HCLK, ceil, c.scale, c.od)
	}
	if f.PCLK1 > l.PCLK1Max[od] {
		c.m.violate("pclk1 %d above %d", f.PCLK1, l.PCLK1Max[od])
	}
	if f.PCLK2 > l.PCLK2Max[od] {
		c.m.violate("pclk2 %d above %d", f.PCLK2, l.PCLK2Max[od])
	}
}

func (c *clockBlock) Frequencies() hw.Frequencies { return c.freq }

// FlashLatency is the programmed wait-state count.
func (m *Machine) FlashLatency() uint8 { return m.clock.latency }

func (m *Machine) OverDrive() bool { return m.clock.od }

func (m *Machine) RegulatorScale() hw.Scale { return m.clock.scale }
