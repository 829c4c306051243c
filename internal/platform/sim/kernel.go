package sim

import (
	"fmt"
	"runtime"

	"bringup-go/internal/hw"
)

// kernel runs each task on its own goroutine but lets exactly one run at a
// time. A task runs until it blocks in DelayUntil; the scheduler then moves
// virtual time to the earliest wake-up and resumes that task.
type kernel struct {
	m       *Machine
	tasks   []*simTask
	current *simTask
	started bool

	yield chan struct{}
	stop  chan struct{}
}

type simTask struct {
	def    hw.TaskDef
	id     hw.TaskID
	resume chan struct{}
	wake   uint64
	waits  int
	done   bool
}

func (k *kernel) CreateTask(def hw.TaskDef) hw.TaskID {
	if k.m.opt.Faults.Has(TaskCreateFail) || def.Entry == nil {
		k.m.record("kernel", "create_failed", def.Name)
		return 0
	}
	t := &simTask{
		def:    def,
		id:     hw.TaskID(len(k.tasks) + 1),
		resume: make(chan struct{}),
		wake:   k.m.now,
	}
	k.tasks = append(k.tasks, t)
	k.m.record("kernel", "create", fmt.Sprintf("%s prio=%d stack=%d", def.Name, def.Priority, def.StackWords))
	return t.id
}

func (k *kernel) TickCount() hw.Tick { return k.m.tick() }

func (k *kernel) DelayUntil(prev *hw.Tick, period hw.Tick) {
	t := k.current
	if t == nil {
		// Outside the scheduler the call degrades to a busy wait.
		wake, sleep := prev.NextWake(period, k.m.tick())
		*prev = wake
		if sleep {
			k.m.advanceTo(k.m.tickToTime(wake))
		}
		return
	}
	if t.waits > 0 {
		k.m.now += uint64(k.m.opt.BodyMs)
	}
	t.waits++

	wake, sleep := prev.NextWake(period, k.m.tick())
	*prev = wake
	t.wake = k.m.now
	if sleep {
		t.wake = k.m.tickToTime(wake) + k.m.jitter()
	}
	k.yield <- struct{}{}
	k.park(t)
}

// park blocks the task goroutine until it is resumed or the run ends.
func (k *kernel) park(t *simTask) {
	select {
	case <-t.resume:
	case <-k.stop:
		runtime.Goexit()
	}
}

// Start runs the scheduler in the caller's goroutine. It returns only when
// no task was created or every task returned; the horizon stops it by
// unwinding through Machine.Run.
func (k *kernel) Start() {
	if len(k.tasks) == 0 {
		k.m.record("kernel", "start_failed", "no tasks")
		return
	}
	k.started = true
	k.yield = make(chan struct{})
	k.stop = make(chan struct{})
	defer close(k.stop)

	k.m.record("kernel", "start", fmt.Sprint(len(k.tasks)))
	for _, t := range k.tasks {
		go k.run(t)
	}
	for {
		t := k.next()
		if t == nil {
			return
		}
		k.m.advanceTo(t.wake)
		k.current = t
		t.resume <- struct{}{}
		<-k.yield
		k.current = nil
	}
}

func (k *kernel) run(t *simTask) {
	select {
	case <-t.resume:
	case <-k.stop:
		return
	}
	t.def.Entry()
	t.done = true
	k.yield <- struct{}{}
}

// next picks the earliest wake-up; ties go to the higher priority, then to
// the task created first.
func (k *kernel) next() *simTask {
	var best *simTask
	for _, t := range k.tasks {
		if t.done {
			continue
		}
		if best == nil || t.wake < best.wake ||
			(t.wake == best.wake && t.def.Priority > best.def.Priority) {
			best = t
		}
	}
	return best
}

// SchedulerStarted reports whether Start handed control to the tasks.
func (m *Machine) SchedulerStarted() bool { return m.kernel.started }

// Tasks lists the created task definitions.
func (m *Machine) Tasks() []hw.TaskDef {
	out := make([]hw.TaskDef, len(m.kernel.tasks))
	for i, t := range m.kernel.tasks {
		out[i] = t.def
	}
	return out
}
