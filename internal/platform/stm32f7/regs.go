//go:build stm32f7

package stm32f7

import (
	"runtime/volatile"
	"unsafe"
)

// Peripheral blocks as memory overlays. Offsets follow RM0385 and the
// ARMv7-M ARM; reserved words are padding.

type scbRegs struct {
	CPUID  volatile.Register32 // 0x00
	ICSR   volatile.Register32
	VTOR   volatile.Register32
	AIRCR  volatile.Register32
	SCR    volatile.Register32 // 0x10
	CCR    volatile.Register32
	SHPR1  volatile.Register32
	SHPR2  volatile.Register32
	SHPR3  volatile.Register32 // 0x20
	SHCSR  volatile.Register32
	_      [22]uint32
	CCSIDR volatile.Register32 // 0x80
	CSSELR volatile.Register32
}

type mpuRegs struct {
	TYPE volatile.Register32 // 0x00
	CTRL volatile.Register32
	RNR  volatile.Register32
	RBAR volatile.Register32
	RASR volatile.Register32 // 0x10
}

type sysTickRegs struct {
	CTRL  volatile.Register32
	LOAD  volatile.Register32
	VAL   volatile.Register32
	CALIB volatile.Register32
}

type dwtRegs struct {
	CTRL   volatile.Register32
	CYCCNT volatile.Register32
}

type flashRegs struct {
	ACR volatile.Register32
}

type pwrRegs struct {
	CR1  volatile.Register32
	CSR1 volatile.Register32
}

type rccRegs struct {
	CR         volatile.Register32 // 0x00
	PLLCFGR    volatile.Register32
	CFGR       volatile.Register32
	CIR        volatile.Register32
	AHB1RSTR   volatile.Register32 // 0x10
	AHB2RSTR   volatile.Register32
	AHB3RSTR   volatile.Register32
	_          uint32
	APB1RSTR   volatile.Register32 // 0x20
	APB2RSTR   volatile.Register32
	_          [2]uint32
	AHB1ENR    volatile.Register32 // 0x30
	AHB2ENR    volatile.Register32
	AHB3ENR    volatile.Register32
	_          uint32
	APB1ENR    volatile.Register32 // 0x40
	APB2ENR    volatile.Register32
	_          [16]uint32
	PLLSAICFGR volatile.Register32 // 0x88
	DCKCFGR1   volatile.Register32
}

type gpioRegs struct {
	MODER   volatile.Register32
	OTYPER  volatile.Register32
	OSPEEDR volatile.Register32
	PUPDR   volatile.Register32
	IDR     volatile.Register32
	ODR     volatile.Register32
	BSRR    volatile.Register32
	LCKR    volatile.Register32
	AFR     [2]volatile.Register32
}

type fmcSDRAMRegs struct {
	SDCR  [2]volatile.Register32 // 0x140
	SDTR  [2]volatile.Register32
	SDCMR volatile.Register32
	SDRTR volatile.Register32
	SDSR  volatile.Register32
}

type ltdcLayerRegs struct {
	CR     volatile.Register32 // 0x00
	WHPCR  volatile.Register32
	WVPCR  volatile.Register32
	CKCR   volatile.Register32
	PFCR   volatile.Register32 // 0x10
	CACR   volatile.Register32
	DCCR   volatile.Register32
	BFCR   volatile.Register32
	_      [2]uint32
	CFBAR  volatile.Register32 // 0x28
	CFBLR  volatile.Register32
	CFBLNR volatile.Register32
	_      [4]uint32
	CLUTWR volatile.Register32 // 0x44
	_      [14]uint32
}

type ltdcRegs struct {
	_     [2]uint32
	SSCR  volatile.Register32 // 0x08
	BPCR  volatile.Register32
	AWCR  volatile.Register32 // 0x10
	TWCR  volatile.Register32
	GCR   volatile.Register32
	_     [2]uint32
	SRCR  volatile.Register32 // 0x24
	_     uint32
	BCCR  volatile.Register32 // 0x2C
	_     uint32
	IER   volatile.Register32 // 0x34
	ISR   volatile.Register32
	ICR   volatile.Register32
	LIPCR volatile.Register32 // 0x40
	CPSR  volatile.Register32
	CDSR  volatile.Register32
	_     [14]uint32
	Layer [2]ltdcLayerRegs // 0x84, 0x104
}

const (
	scbBase     = 0xE000ED00
	mpuBase     = 0xE000ED90
	sysTickBase = 0xE000E010
	dwtBase     = 0xE0001000
	demcrAddr   = 0xE000EDFC
	icialluAddr = 0xE000EF50
	dciswAddr   = 0xE000EF60

	flashBase = 0x40023C00
	pwrBase   = 0x40007000
	rccBase   = 0x40023800
	gpioBase  = 0x40020000
	fmcSDRAM  = 0xA0000140
	ltdcBase  = 0x40016800
)

var (
	scb     = (*scbRegs)(unsafe.Pointer(uintptr(scbBase)))
	mpuR    = (*mpuRegs)(unsafe.Pointer(uintptr(mpuBase)))
	sysTick = (*sysTickRegs)(unsafe.Pointer(uintptr(sysTickBase)))
	dwt     = (*dwtRegs)(unsafe.Pointer(uintptr(dwtBase)))
	demcr   = (*volatile.Register32)(unsafe.Pointer(uintptr(demcrAddr)))
	iciallu = (*volatile.Register32)(unsafe.Pointer(uintptr(icialluAddr)))
	dcisw   = (*volatile.Register32)(unsafe.Pointer(uintptr(dciswAddr)))

	flash = (*flashRegs)(unsafe.Pointer(uintptr(flashBase)))
	pwr   = (*pwrRegs)(unsafe.Pointer(uintptr(pwrBase)))
	rcc   = (*rccRegs)(unsafe.Pointer(uintptr(rccBase)))
	sdram = (*fmcSDRAMRegs)(unsafe.Pointer(uintptr(fmcSDRAM)))
	ltdc  = (*ltdcRegs)(unsafe.Pointer(uintptr(ltdcBase)))
)

// port returns GPIO port A..K.
func port(letter byte) *gpioRegs {
	return (*gpioRegs)(unsafe.Pointer(uintptr(gpioBase + 0x400*uint32(letter-'A'))))
}
