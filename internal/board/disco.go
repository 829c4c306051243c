package board

import (
	"bringup-go/internal/clockplan"
	"bringup-go/internal/hw"
	"bringup-go/internal/mpu"
	"bringup-go/internal/periodic"
)

const (
	f746SDRAMBase = 0xC0000000
	f746SDRAMSize = 8 << 20
	rk043Width    = 480
	rk043Height   = 272
)

// STM32F746GDisco: 25 MHz HSE, IS42S32400F SDRAM on FMC bank 1, RK043FN48H
// 480x272 panel on the LTDC, LED1 on PI1.
var STM32F746GDisco = Descriptor{
	Name: "stm32f746g_disco",

	Plan:   clockplan.F746Default,
	Limits: clockplan.F7Limits,
	MPU: mpu.DefaultPolicy().With(
		mpu.FramebufferRegion(1, f746SDRAMBase, rk043Width*rk043Height*4)),

	TickHz:       1000,
	TickPriority: hw.LowestPriority,

	LED:         Pin{Port: 'I', Num: 1},
	BlinkPeriod: periodic.DefaultPeriod,

	SDRAMBase: f746SDRAMBase,
	SDRAMSize: f746SDRAMSize,
	SDRAMTiming: hw.SDRAMTiming{
		LoadToActive:    2,
		ExitSelfRefresh: 7,
		SelfRefresh:     4,
		RowCycle:        7,
		WriteRecovery:   2,
		RPDelay:         2,
		RCDDelay:        2,
		RefreshCount:    0x0603,
	},

	LCDWidth:        rk043Width,
	LCDHeight:       rk043Height,
	ActiveLayer:     1,
	FramebufferBase: f746SDRAMBase,
}

// Selected is the board this build targets.
var Selected = STM32F746GDisco
