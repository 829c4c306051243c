//go:build stm32f7

package stm32f7

import (
	"device/arm"
	"runtime"

	"bringup-go/internal/hw"
)

// kernel maps tasks onto goroutines and keeps time with the SysTick count.
// The goroutine scheduler is cooperative, so task priority is advisory.
type kernel struct {
	tasks   []hw.TaskDef
	started bool
}

func (k *kernel) CreateTask(def hw.TaskDef) hw.TaskID {
	if def.Entry == nil || k.started {
		return 0
	}
	k.tasks = append(k.tasks, def)
	return hw.TaskID(len(k.tasks))
}

func (k *kernel) TickCount() hw.Tick { return tickCount() }

func (k *kernel) DelayUntil(prev *hw.Tick, period hw.Tick) {
	wake, sleep := prev.NextWake(period, tickCount())
	*prev = wake
	if !sleep {
		return
	}
	for tickCount().Before(wake) {
		runtime.Gosched()
		arm.Asm("wfi")
	}
}

func (k *kernel) Start() {
	if len(k.tasks) == 0 {
		return
	}
	k.started = true
	for _, t := range k.tasks {
		go t.Entry()
	}
	select {}
}
