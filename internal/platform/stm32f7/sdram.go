//go:build stm32f7

package stm32f7

import (
	"runtime/volatile"
	"unsafe"

	"bringup-go/internal/hw"
)

// FMC pins of the SDRAM on the disco board, alternate function 12.
var sdramPins = []struct {
	port byte
	mask uint16
}{
	{'C', 1 << 3},
	{'D', 1<<0 | 1<<1 | 1<<8 | 1<<9 | 1<<10 | 1<<14 | 1<<15},
	{'E', 1<<0 | 1<<1 | 0xFF80},
	{'F', 0x003F | 0xF800},
	{'G', 1<<0 | 1<<1 | 1<<4 | 1<<5 | 1<<8 | 1<<15},
	{'H', 1<<3 | 1<<5},
}

const (
	afFMC = 12

	ahb3FMCEN = 1 << 0

	// SDCR: 8 column bits, 12 row bits, 16-bit bus, 4 banks, CAS 2,
	// SDCLK = HCLK/2, read burst on.
	sdcrValue = 0<<0 | 1<<2 | 1<<4 | 1<<6 | 2<<7 | 2<<10 | 1<<12

	cmdClockEnable = 1
	cmdPALL        = 2
	cmdAutoRefresh = 3
	cmdLoadMode    = 4
	cmdBank1       = 1 << 4

	// Burst 1, sequential, CAS 2, standard operation, single write burst.
	sdramModeRegister = 0x0220
	autoRefreshCycles = 8

	sdsrBusy        = 1 << 5
	sdramCmdTimeout = 100
)

type sdramBlock struct {
	c    *chip
	base uintptr
	size uint32
}

func (b *sdramBlock) Init(t hw.SDRAMTiming) error {
	if t.RefreshCount == 0 || t.RowCycle == 0 {
		return hw.ErrInvalidParam
	}
	rcc.AHB3ENR.SetBits(ahb3FMCEN)
	_ = rcc.AHB3ENR.Get()
	for _, p := range sdramPins {
		configureAF(p.port, p.mask, afFMC)
	}

	sdram.SDCR[0].Set(sdcrValue)
	sdram.SDTR[0].Set(sdtr(t))

	if err := b.command(cmdClockEnable, 1, 0); err != nil {
		return err
	}
	b.c.Delay(1)
	if err := b.command(cmdPALL, 1, 0); err != nil {
		return err
	}
	if err := b.command(cmdAutoRefresh, autoRefreshCycles, 0); err != nil {
		return err
	}
	if err := b.command(cmdLoadMode, 1, sdramModeRegister); err != nil {
		return err
	}
	sdram.SDRTR.Set(uint32(t.RefreshCount) << 1)
	return b.probe()
}

func sdtr(t hw.SDRAMTiming) uint32 {
	f := func(v uint8, shift uint) uint32 { return (uint32(v-1) & 0xF) << shift }
	return f(t.LoadToActive, 0) | f(t.ExitSelfRefresh, 4) | f(t.SelfRefresh, 8) |
		f(t.RowCycle, 12) | f(t.WriteRecovery, 16) | f(t.RPDelay, 20) | f(t.RCDDelay, 24)
}

func (b *sdramBlock) command(mode uint32, n uint32, mrd uint32) error {
	if err := b.c.waitFor(func() bool { return !sdram.SDSR.HasBits(sdsrBusy) }, sdramCmdTimeout); err != nil {
		return err
	}
	sdram.SDCMR.Set(mode | cmdBank1 | (n-1)<<5 | mrd<<9)
	return nil
}

// probe writes two complementary words and reads them back; with no device
// on the bus the reads do not match.
func (b *sdramBlock) probe() error {
	w0 := (*uint32)(unsafe.Pointer(b.base))
	w1 := (*uint32)(unsafe.Pointer(b.base + 4))
	volatile.StoreUint32(w0, 0xA5A55A5A)
	volatile.StoreUint32(w1, 0x5A5AA5A5)
	if volatile.LoadUint32(w0) != 0xA5A55A5A || volatile.LoadUint32(w1) != 0x5A5AA5A5 {
		return hw.ErrAbsent
	}
	return nil
}

func (b *sdramBlock) Base() uintptr { return b.base }
func (b *sdramBlock) Size() uint32  { return b.size }
