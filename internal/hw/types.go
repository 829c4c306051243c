// Package hw declares the narrow capability interfaces the bring-up code
// consumes. Backends (register-level on target, virtual-time on host)
// implement them; nothing above this package touches a register.
package hw

import (
	"errors"

	"tinygo.org/x/drivers"

	"bringup-go/errcode"
)

var (
	ErrTimeout      = error(errcode.Timeout) // bounded hardware wait expired
	ErrNotReady     = errors.New("not_ready")
	ErrAbsent       = errors.New("device_absent")
	ErrInvalidParam = errors.New("invalid_param")
	ErrNoTask       = errors.New("no_task")
)

// ---- Indicator + delays ----

// Indicator is the single status output (LED1). Subset of a GPIO pin.
type Indicator interface {
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
}

// Delayer blocks the caller for ms milliseconds without a scheduler.
type Delayer interface {
	Delay(ms uint32)
}

// ---- MPU ----

// MPUControl holds the MPU_CTRL bits written together with ENABLE.
type MPUControl uint32

const (
	MPUHardFaultNMI      MPUControl = 1 << 1 // HFNMIENA
	MPUPrivilegedDefault MPUControl = 1 << 2 // PRIVDEFENA: background map for privileged code
)

// MPURegion is one encoded region, ready for RNR/RBAR/RASR.
type MPURegion struct {
	Number uint8
	RBAR   uint32
	RASR   uint32
}

type MPU interface {
	Disable()
	ConfigureRegion(r MPURegion)
	Enable(ctrl MPUControl)
}

// ---- L1 caches ----

type Cache interface {
	EnableICache()
	EnableDCache()
	ICacheEnabled() bool
	DCacheEnabled() bool
}

// ---- HAL substrate ----

// PriorityGroup is the AIRCR.PRIGROUP field value.
type PriorityGroup uint32

const (
	// PriorityGroup4 puts all four implemented priority bits in pre-emption.
	PriorityGroup4 PriorityGroup = 3
)

// LowestPriority is the numerically largest 4-bit priority.
const LowestPriority uint8 = 0x0F

type Platform interface {
	EnableFlashAccelerator()
	SetPriorityGrouping(g PriorityGroup)
	InitTick(hz uint32, priority uint8) error
}

// ---- Clock tree ----

type Source uint8

const (
	SourceHSI Source = iota
	SourceHSE
	SourcePLL
)

func (s Source) String() string {
	switch s {
	case SourceHSE:
		return "hse"
	case SourcePLL:
		return "pll"
	default:
		return "hsi"
	}
}

// Scale is the main regulator output voltage scale. Scale1 is the
// highest-performance setting.
type Scale uint8

const (
	Scale3 Scale = 1
	Scale2 Scale = 2
	Scale1 Scale = 3
)

func (s Scale) String() string {
	switch s {
	case Scale1:
		return "scale1"
	case Scale2:
		return "scale2"
	case Scale3:
		return "scale3"
	default:
		return "scale?"
	}
}

type OscConfig struct {
	HSEOn     bool
	PLLOn     bool
	PLLSource Source
	M, N      uint32
	P, Q      uint32
}

type BusConfig struct {
	SYSCLKSource Source
	AHBDiv       uint32
	APB1Div      uint32
	APB2Div      uint32
}

// Frequencies are the currently committed bus clocks in Hz.
type Frequencies struct {
	SYSCLK uint32
	HCLK   uint32
	PCLK1  uint32
	PCLK2  uint32
}

type Clock interface {
	EnablePowerClock()
	SetRegulatorScale(s Scale)
	ConfigureOscillator(cfg OscConfig) error
	ActivateOverDrive() error
	// SwitchSystemClock commits source and prescalers together with the flash
	// latency. Latency is raised before the frequency rises and lowered after
	// it falls.
	SwitchSystemClock(bus BusConfig, latency uint8) error
	Frequencies() Frequencies
}

// ---- External memory + display ----

// SDRAMTiming is expressed in SDRAM clock cycles.
type SDRAMTiming struct {
	LoadToActive    uint8
	ExitSelfRefresh uint8
	SelfRefresh     uint8
	RowCycle        uint8
	WriteRecovery   uint8
	RPDelay         uint8
	RCDDelay        uint8
	RefreshCount    uint16
}

type SDRAM interface {
	Init(t SDRAMTiming) error
	Base() uintptr
	Size() uint32
}

type LCD interface {
	Init() error
	// LayerDefaultInit points layer at a framebuffer in mapped memory.
	LayerDefaultInit(layer uint8, fb uintptr) error
	SelectLayer(layer uint8)
	DisplayOn()
	// Layer returns the selected layer as a pixel sink.
	Layer() drivers.Displayer
	Size() (w, h int16)
}

// ---- Kernel ----

type Tick uint32

// TaskID identifies a created task. Zero is the null handle.
type TaskID uint32

type Priority int8

const (
	PriorityIdle   Priority = -3
	PriorityLow    Priority = -2
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 2
)

// MinimalStackWords matches the kernel's minimal task stack, in 32-bit words.
const MinimalStackWords uint16 = 128

type TaskDef struct {
	Name       string
	Entry      func()
	Priority   Priority
	StackWords uint16
}

type Kernel interface {
	CreateTask(def TaskDef) TaskID
	TickCount() Tick
	// DelayUntil blocks until *prev+period and stores that deadline in *prev.
	DelayUntil(prev *Tick, period Tick)
	// Start hands the CPU to the scheduler. It returns only on failure.
	Start()
}

// Machine bundles every block the boot sequence drives.
type Machine struct {
	MPU      MPU
	Cache    Cache
	Platform Platform
	Delay    Delayer
	Clock    Clock
	LED      Indicator
	SDRAM    SDRAM
	LCD      LCD
	Kernel   Kernel
}
