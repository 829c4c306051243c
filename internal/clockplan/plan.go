// Package clockplan describes the PLL and bus prescaler configuration and
// checks it against the part's electrical limits.
package clockplan

import (
	"bringup-go/internal/hw"
	"bringup-go/x/mathx"
)

const MHz = 1_000_000

// DocumentedSYSCLK is the frequency the board documentation claims (216 MHz).
// The programmed PLL below yields 200 MHz; the programmed values win.
const DocumentedSYSCLK = 216 * MHz

// Plan is an immutable clock configuration. Frequencies are in Hz.
type Plan struct {
	HSE uint32 // external crystal

	M uint32 // PLL input divider
	N uint32 // VCO multiplier
	P uint32 // system clock post-divider
	Q uint32 // 48 MHz domain divider

	AHBDiv  uint32
	APB1Div uint32
	APB2Div uint32

	Scale        hw.Scale
	FlashLatency uint8
	OverDrive    bool
}

// F746Default is the plan programmed on the STM32F746G discovery board.
// FlashLatency keeps the board's 5 WS, which is one short of what 200 MHz
// needs at 30 MHz per wait state; FLASH_ACR is written with
// EffectiveLatency (6 WS) instead.
var F746Default = Plan{
	HSE:          25 * MHz,
	M:            25,
	N:            400,
	P:            2,
	Q:            8,
	AHBDiv:       1,
	APB1Div:      4,
	APB2Div:      2,
	Scale:        hw.Scale1,
	FlashLatency: 5,
	OverDrive:    true,
}

// F746SYSCLK is what F746Default actually produces.
const F746SYSCLK = 200 * MHz

func (p Plan) VCOIn() uint32 {
	if p.M == 0 {
		return 0
	}
	return p.HSE / p.M
}

func (p Plan) VCOOut() uint32 { return p.VCOIn() * p.N }

func (p Plan) SYSCLK() uint32 { return safeDiv(p.VCOOut(), p.P) }
func (p Plan) PLL48() uint32  { return safeDiv(p.VCOOut(), p.Q) }
func (p Plan) HCLK() uint32   { return safeDiv(p.SYSCLK(), p.AHBDiv) }
func (p Plan) PCLK1() uint32  { return safeDiv(p.HCLK(), p.APB1Div) }
func (p Plan) PCLK2() uint32  { return safeDiv(p.HCLK(), p.APB2Div) }

// Frequencies returns the bus clocks the plan commits.
func (p Plan) Frequencies() hw.Frequencies {
	return hw.Frequencies{
		SYSCLK: p.SYSCLK(),
		HCLK:   p.HCLK(),
		PCLK1:  p.PCLK1(),
		PCLK2:  p.PCLK2(),
	}
}

// Osc is the oscillator block request: HSE on, PLL on from HSE.
func (p Plan) Osc() hw.OscConfig {
	return hw.OscConfig{
		HSEOn:     true,
		PLLOn:     true,
		PLLSource: hw.SourceHSE,
		M:         p.M,
		N:         p.N,
		P:         p.P,
		Q:         p.Q,
	}
}

// Bus is the clock-switch request: PLL as SYSCLK with the plan's prescalers.
func (p Plan) Bus() hw.BusConfig {
	return hw.BusConfig{
		SYSCLKSource: hw.SourcePLL,
		AHBDiv:       p.AHBDiv,
		APB1Div:      p.APB1Div,
		APB2Div:      p.APB2Div,
	}
}

// EffectiveLatency is the wait-state count to program: the plan's value,
// raised to the minimum the limits require for HCLK when it is too low.
func (p Plan) EffectiveLatency(l Limits) uint8 {
	min := l.MinFlashLatency(p.HCLK())
	if p.FlashLatency < min {
		return min
	}
	return p.FlashLatency
}

func safeDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// MinFlashLatency returns the fewest wait states that keep flash reads valid
// at hclk: one extra cycle per started HzPerWaitState band.
func (l Limits) MinFlashLatency(hclk uint32) uint8 {
	if hclk == 0 || l.HzPerWaitState == 0 {
		return 0
	}
	ws := mathx.CeilDiv(hclk, l.HzPerWaitState) - 1
	if ws > uint32(l.MaxFlashLatency) {
		return l.MaxFlashLatency
	}
	return uint8(ws)
}
