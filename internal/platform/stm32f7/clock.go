//go:build stm32f7

package stm32f7

import (
	"bringup-go/internal/hw"
	"bringup-go/x/mathx"
)

const (
	hseHz = 25_000_000

	crHSEON  = 1 << 16
	crHSERDY = 1 << 17
	crPLLON  = 1 << 24
	crPLLRDY = 1 << 25

	pllcfgrSrcHSE = 1 << 22

	cfgrSWMask    = 0x3
	cfgrSWSShift  = 2
	cfgrHPREShift = 4
	cfgrPPRE1Pos  = 10
	cfgrPPRE2Pos  = 13
	cfgrPPREMask  = 0x7

	apb1PWREN = 1 << 28

	cr1VOSShift = 14
	cr1ODEN     = 1 << 16
	cr1ODSWEN   = 1 << 17
	csr1ODRDY   = 1 << 16
	csr1ODSWRDY = 1 << 17

	// Timeouts in ms, as the vendor drivers use them.
	hseTimeout       = 100
	pllTimeout       = 2
	overDriveTimeout = 1000
	switchTimeout    = 5000
)

type clockBlock struct {
	c    *chip
	freq hw.Frequencies
	osc  hw.OscConfig
}

func (b *clockBlock) EnablePowerClock() {
	rcc.APB1ENR.SetBits(apb1PWREN)
	_ = rcc.APB1ENR.Get()
}

func (b *clockBlock) SetRegulatorScale(s hw.Scale) {
	pwr.CR1.ReplaceBits(uint32(s), 0x3, cr1VOSShift)
	_ = pwr.CR1.Get()
}

func (b *clockBlock) ConfigureOscillator(cfg hw.OscConfig) error {
	hw.AssertParam(cfg.M >= 2 && cfg.M <= 63)
	hw.AssertParam(cfg.N >= 50 && cfg.N <= 432)
	hw.AssertParam(cfg.P == 2 || cfg.P == 4 || cfg.P == 6 || cfg.P == 8)
	hw.AssertParam(cfg.Q >= 2 && cfg.Q <= 15)

	if cfg.HSEOn && !rcc.CR.HasBits(crHSERDY) {
		rcc.CR.SetBits(crHSEON)
		if err := b.c.waitFor(func() bool { return rcc.CR.HasBits(crHSERDY) }, hseTimeout); err != nil {
			return err
		}
	}
	if !cfg.PLLOn {
		return nil
	}
	if hw.Source((rcc.CFGR.Get()>>cfgrSWSShift)&cfgrSWMask) == hw.SourcePLL {
		return hw.ErrNotReady
	}
	rcc.CR.ClearBits(crPLLON)
	if err := b.c.waitFor(func() bool { return !rcc.CR.HasBits(crPLLRDY) }, pllTimeout); err != nil {
		return err
	}
	v := cfg.M | cfg.N<<6 | (cfg.P/2-1)<<16 | cfg.Q<<24
	if cfg.PLLSource == hw.SourceHSE {
		v |= pllcfgrSrcHSE
	}
	rcc.PLLCFGR.Set(v)
	rcc.CR.SetBits(crPLLON)
	if err := b.c.waitFor(func() bool { return rcc.CR.HasBits(crPLLRDY) }, pllTimeout); err != nil {
		return err
	}
	b.osc = cfg
	return nil
}

func (b *clockBlock) ActivateOverDrive() error {
	rcc.APB1ENR.SetBits(apb1PWREN)
	pwr.CR1.SetBits(cr1ODEN)
	if err := b.c.waitFor(func() bool { return pwr.CSR1.HasBits(csr1ODRDY) }, overDriveTimeout); err != nil {
		return err
	}
	pwr.CR1.SetBits(cr1ODSWEN)
	return b.c.waitFor(func() bool { return pwr.CSR1.HasBits(csr1ODSWRDY) }, overDriveTimeout)
}

// SwitchSystemClock raises the flash latency before the switch and lowers
// it after, and parks the APB prescalers at /16 while HCLK moves.
func (b *clockBlock) SwitchSystemClock(bus hw.BusConfig, latency uint8) error {
	hpre, ok1 := ahbCode(bus.AHBDiv)
	ppre1, ok2 := apbCode(bus.APB1Div)
	ppre2, ok3 := apbCode(bus.APB2Div)
	hw.AssertParam(ok1 && ok2 && ok3)
	if !ok1 || !ok2 || !ok3 {
		return hw.ErrInvalidParam
	}

	current := uint8(flash.ACR.Get() & acrLatencyMask)
	if latency > current {
		if err := setLatency(latency); err != nil {
			return err
		}
	}

	rcc.CFGR.ReplaceBits(0x7, cfgrPPREMask, cfgrPPRE1Pos)
	rcc.CFGR.ReplaceBits(0x7, cfgrPPREMask, cfgrPPRE2Pos)
	rcc.CFGR.ReplaceBits(hpre, 0xF, cfgrHPREShift)

	var sys uint32
	switch bus.SYSCLKSource {
	case hw.SourcePLL:
		if !rcc.CR.HasBits(crPLLRDY) {
			return hw.ErrNotReady
		}
		sys = b.pllOutput()
	case hw.SourceHSE:
		if !rcc.CR.HasBits(crHSERDY) {
			return hw.ErrNotReady
		}
		sys = hseHz
	default:
		sys = hsiHz
	}
	rcc.CFGR.ReplaceBits(uint32(bus.SYSCLKSource), cfgrSWMask, 0)
	want := uint32(bus.SYSCLKSource)
	if err := b.c.waitFor(func() bool { return (rcc.CFGR.Get()>>cfgrSWSShift)&cfgrSWMask == want }, switchTimeout); err != nil {
		return err
	}

	if latency < current {
		if err := setLatency(latency); err != nil {
			return err
		}
	}
	rcc.CFGR.ReplaceBits(ppre1, cfgrPPREMask, cfgrPPRE1Pos)
	rcc.CFGR.ReplaceBits(ppre2, cfgrPPREMask, cfgrPPRE2Pos)

	hclk := sys / bus.AHBDiv
	b.freq = hw.Frequencies{
		SYSCLK: sys,
		HCLK:   hclk,
		PCLK1:  hclk / bus.APB1Div,
		PCLK2:  hclk / bus.APB2Div,
	}
	b.c.hclk = hclk
	if b.c.tickOn {
		return b.c.armTick()
	}
	return nil
}

func setLatency(ws uint8) error {
	flash.ACR.ReplaceBits(uint32(ws), acrLatencyMask, 0)
	if uint8(flash.ACR.Get()&acrLatencyMask) != ws {
		return hw.ErrNotReady
	}
	return nil
}

func (b *clockBlock) pllOutput() uint32 {
	in := uint32(hsiHz)
	if b.osc.PLLSource == hw.SourceHSE {
		in = hseHz
	}
	return in / b.osc.M * b.osc.N / b.osc.P
}

func (b *clockBlock) Frequencies() hw.Frequencies { return b.freq }

func ahbCode(div uint32) (uint32, bool) {
	switch div {
	case 1:
		return 0, true
	case 2, 4, 8, 16:
		return 0x8 + uint32(mathx.Log2(div)) - 1, true
	case 64, 128, 256, 512:
		return 0xC + uint32(mathx.Log2(div)) - 6, true
	}
	return 0, false
}

func apbCode(div uint32) (uint32, bool) {
	switch div {
	case 1:
		return 0, true
	case 2, 4, 8, 16:
		return 0x4 + uint32(mathx.Log2(div)) - 1, true
	}
	return 0, false
}
