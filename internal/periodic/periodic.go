// Package periodic runs work on an absolute cadence: each deadline is the
// previous deadline plus the period, never "now plus the period", so the
// time spent in the task body does not accumulate as drift.
package periodic

import (
	"bringup-go/internal/fault"
	"bringup-go/internal/hw"
)

// DefaultPeriod is one second at the 1 kHz kernel tick.
const DefaultPeriod hw.Tick = 1000

// Deadline is the iterator state of an absolute-cadence loop. It is owned by
// exactly one task.
type Deadline struct {
	prev   hw.Tick
	period hw.Tick
}

// Start samples the kernel tick once; that sample is the origin t0.
func Start(k hw.Kernel, period hw.Tick) Deadline {
	return Deadline{prev: k.TickCount(), period: period}
}

// Prev is the last deadline reached (t0 before the first Wait).
func (d *Deadline) Prev() hw.Tick { return d.prev }

func (d *Deadline) Period() hw.Tick { return d.period }

// Next is the deadline the following Wait blocks until.
func (d *Deadline) Next() hw.Tick { return d.prev.Add(d.period) }

// Wait suspends until Next and advances the deadline by one period.
func (d *Deadline) Wait(k hw.Kernel) {
	k.DelayUntil(&d.prev, d.period)
}

// Blinker toggles an indicator once per period.
type Blinker struct {
	Pin    hw.Indicator
	Period hw.Tick
}

// Run is the task body. It never returns and is never cancelled.
func (b Blinker) Run(k hw.Kernel) fault.Never {
	d := Start(k, b.Period)
	for {
		d.Wait(k)
		b.Pin.Toggle()
	}
}

// Task describes the blinker for kernel registration.
func (b Blinker) Task(k hw.Kernel) hw.TaskDef {
	return hw.TaskDef{
		Name:       "LED1",
		Entry:      func() { b.Run(k) },
		Priority:   hw.PriorityNormal,
		StackWords: hw.MinimalStackWords,
	}
}
