//go:build stm32f7

package stm32f7

import (
	"bringup-go/internal/board"
)

type pinMode uint32

const (
	modeInput  pinMode = 0
	modeOutput pinMode = 1
	modeAF     pinMode = 2

	speedVeryHigh = 3
	pullUp        = 1
)

// enablePort turns on the AHB1 clock of a GPIO port.
func enablePort(letter byte) {
	rcc.AHB1ENR.SetBits(1 << (letter - 'A'))
	_ = rcc.AHB1ENR.Get()
}

// configureAF puts every pin in mask on port letter into alternate
// function af, push-pull, very high speed, pulled up.
func configureAF(letter byte, mask uint16, af uint32) {
	enablePort(letter)
	p := port(letter)
	for n := uint8(0); n < 16; n++ {
		if mask&(1<<n) == 0 {
			continue
		}
		p.AFR[n/8].ReplaceBits(af, 0xF, (n%8)*4)
		p.OSPEEDR.ReplaceBits(speedVeryHigh, 0x3, n*2)
		p.OTYPER.ClearBits(1 << n)
		p.PUPDR.ReplaceBits(pullUp, 0x3, n*2)
		p.MODER.ReplaceBits(uint32(modeAF), 0x3, n*2)
	}
}

func configureOutput(pin board.Pin) {
	enablePort(pin.Port)
	p := port(pin.Port)
	p.OTYPER.ClearBits(1 << pin.Num)
	p.OSPEEDR.ReplaceBits(speedVeryHigh, 0x3, pin.Num*2)
	p.PUPDR.ReplaceBits(pullUp, 0x3, pin.Num*2)
	p.MODER.ReplaceBits(uint32(modeOutput), 0x3, pin.Num*2)
}

func setPin(pin board.Pin, level bool) {
	if level {
		port(pin.Port).BSRR.Set(1 << pin.Num)
	} else {
		port(pin.Port).BSRR.Set(1 << (pin.Num + 16))
	}
}

// ledPin drives the status indicator.
type ledPin struct {
	pin board.Pin
}

func (l ledPin) ConfigureOutput(initial bool) error {
	setPin(l.pin, initial)
	configureOutput(l.pin)
	return nil
}

func (l ledPin) Set(level bool) { setPin(l.pin, level) }

func (l ledPin) Get() bool { return port(l.pin.Port).ODR.HasBits(1 << l.pin.Num) }

func (l ledPin) Toggle() { l.Set(!l.Get()) }
