// Package boot brings the chip from reset to a running scheduler in a fixed
// order: MPU, caches, HAL tick, clock tree, board peripherals, task
// creation, scheduler start. Any failed step ends in the fault pattern.
package boot

import (
	"bringup-go/errcode"
	"bringup-go/internal/board"
	"bringup-go/internal/display"
	"bringup-go/internal/fault"
	"bringup-go/internal/hw"
	"bringup-go/internal/mpu"
	"bringup-go/internal/periodic"
	"bringup-go/x/logx"
	"bringup-go/x/strx"
)

// Sequencer owns the boot state for one machine.
type Sequencer struct {
	m     hw.Machine
	d     board.Descriptor
	st    State
	fault *fault.Indicator
}

func New(m hw.Machine, d board.Descriptor) *Sequencer {
	s := &Sequencer{m: m, d: d, fault: fault.New(m.LED, m.Delay)}
	s.fault.OnHalt = s.fail
	return s
}

// State reports the current phase and fault reason.
func (s *Sequencer) State() *State { return &s.st }

// Run is the reset entry point. It does not return: either the scheduler
// owns the CPU or the fault pattern does.
func Run(m hw.Machine, d board.Descriptor) fault.Never {
	return New(m, d).Run()
}

func (s *Sequencer) Run() fault.Never {
	s.fault.InstallAssertHook()

	ready, err := s.Sequence()
	if err != nil {
		return s.halt(err)
	}
	s.startScheduler(ready)

	// Only reached when the scheduler could not start.
	logx.Error("boot: scheduler returned")
	return fault.Idle(s.m.Delay)
}

// Sequence runs every step up to, not including, the scheduler hand-off.
func (s *Sequencer) Sequence() (taskReady, error) {
	mc := s.configureMPU()
	co := s.enableCaches(mc)
	hr, err := s.initPlatform(co)
	if err != nil {
		return taskReady{}, err
	}
	cl, err := s.configureClock(hr)
	if err != nil {
		return taskReady{}, err
	}
	br, err := s.bringUpBoard(cl)
	if err != nil {
		return taskReady{}, err
	}
	return s.createTask(br)
}

func (s *Sequencer) halt(err error) fault.Never {
	return s.fault.Halt(err)
}

// fail records the fault; it runs for step errors and failed assertions.
func (s *Sequencer) fail(err error) {
	logx.Error("boot: faulted in", s.st.phase)
	s.st.fail(err)
}

func (s *Sequencer) enter(p Phase) {
	if err := s.st.advance(p); err != nil {
		logx.Error("boot:", err)
		hw.Fail()
		return
	}
	logx.Info("boot:", p)
}

// MPU policy. Must run before any cache is enabled. Full-assert builds
// reject bases the hardware would round down.
func (s *Sequencer) configureMPU() mpuCommitted {
	if hw.AssertEnabled {
		hw.AssertParam(s.d.MPU.ValidateStrict() == nil)
	}
	for _, r := range s.d.MPU.Regions {
		logx.Debug("mpu:", r)
		if r.Misaligned() {
			logx.Warn("mpu: region", r.Number, "base", strx.Hex32(r.Base), "not aligned to", r.Size,
				"so the hardware uses", strx.Hex32(r.EffectiveBase()))
		}
	}
	mpu.Apply(s.m.MPU, s.d.MPU)
	s.enter(PreCache)
	return mpuCommitted{}
}

// L1 caches, instruction side first. Re-entry is a no-op.
func (s *Sequencer) enableCaches(mpuCommitted) cachesOn {
	if !s.m.Cache.ICacheEnabled() {
		s.m.Cache.EnableICache()
	}
	if !s.m.Cache.DCacheEnabled() {
		s.m.Cache.EnableDCache()
	}
	if s.st.phase == PreCache {
		s.enter(PreHAL)
	}
	return cachesOn{}
}

// HAL substrate: flash accelerator, priority grouping, 1 ms tick.
func (s *Sequencer) initPlatform(cachesOn) (halReady, error) {
	p := s.m.Platform
	p.EnableFlashAccelerator()
	p.SetPriorityGrouping(hw.PriorityGroup4)
	if err := p.InitTick(s.d.TickHz, s.d.TickPriority); err != nil {
		return halReady{}, errcode.Wrap(errcode.PlatformInit, "init_tick", err)
	}
	s.enter(PreClock)
	return halReady{}, nil
}

// Clock tree. Over-drive is requested after the regulator scale is set
// and before the switch lifts HCLK past the no-over-drive ceiling.
func (s *Sequencer) configureClock(halReady) (clockLocked, error) {
	c, p := s.m.Clock, s.d.Plan

	c.EnablePowerClock()
	c.SetRegulatorScale(p.Scale)
	if err := c.ConfigureOscillator(p.Osc()); err != nil {
		return clockLocked{}, errcode.Wrap(errcode.ClockConfig, "oscillator", err)
	}
	if p.OverDrive {
		if err := c.ActivateOverDrive(); err != nil {
			return clockLocked{}, errcode.Wrap(errcode.ClockConfig, "overdrive", err)
		}
	}

	latency := p.EffectiveLatency(s.d.Limits)
	if latency != p.FlashLatency {
		logx.Warn("clock: flash latency", p.FlashLatency, "WS too low for", p.HCLK(), "Hz, using", latency)
	}
	if err := c.SwitchSystemClock(p.Bus(), latency); err != nil {
		return clockLocked{}, errcode.Wrap(errcode.ClockConfig, "clock_switch", err)
	}

	f := c.Frequencies()
	logx.Info("clock: sysclk", f.SYSCLK, "hclk", f.HCLK, "pclk1", f.PCLK1, "pclk2", f.PCLK2)
	s.enter(PreBoard)
	return clockLocked{freq: f}, nil
}

// Board: indicator, SDRAM, LCD, default layer in SDRAM, self-test.
func (s *Sequencer) bringUpBoard(clockLocked) (boardReady, error) {
	if err := s.m.LED.ConfigureOutput(false); err != nil {
		logx.Warn("board: indicator:", err)
	}
	if err := errcode.Wrap(errcode.SDRAMInit, "sdram_init", s.m.SDRAM.Init(s.d.SDRAMTiming)); err != nil {
		if errcode.Of(err).Fatal() {
			return boardReady{}, err
		}
		logx.Warn("board:", err)
	}

	lcd := s.m.LCD
	if err := lcd.Init(); err != nil {
		return boardReady{}, errcode.Wrap(errcode.DisplayInit, "lcd_init", err)
	}
	if err := lcd.LayerDefaultInit(s.d.ActiveLayer, s.d.FramebufferBase); err != nil {
		return boardReady{}, errcode.Wrap(errcode.DisplayInit, "layer_init", err)
	}
	lcd.SelectLayer(s.d.ActiveLayer)
	lcd.DisplayOn()

	canvas := display.NewCanvas(lcd.Layer())
	if err := display.SelfTest(canvas); err != nil {
		logx.Warn("board: self-test:", err)
	}
	s.enter(PreTask)
	return boardReady{canvas: canvas}, nil
}

// Create the periodic indicator task. It is not started until the
// scheduler runs.
func (s *Sequencer) createTask(boardReady) (taskReady, error) {
	b := periodic.Blinker{Pin: s.m.LED, Period: s.d.BlinkPeriod}
	id := s.m.Kernel.CreateTask(b.Task(s.m.Kernel))
	if id == 0 {
		return taskReady{}, errcode.Wrap(errcode.TaskCreate, "create_task", hw.ErrNoTask)
	}
	return taskReady{id: id}, nil
}

func (s *Sequencer) startScheduler(t taskReady) {
	s.enter(Running)
	logx.Info("boot: starting scheduler, task", t.id)
	s.m.Kernel.Start()
}
