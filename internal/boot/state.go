package boot

import (
	"errors"
	"fmt"

	"bringup-go/x/strconvx"
)

// Phase is the bring-up position. It only moves forward, except for the
// terminal move to Faulted.
type Phase uint8

const (
	PreMPU Phase = iota
	PreCache
	PreHAL
	PreClock
	PreBoard
	PreTask
	Running
	Faulted
)

func (p Phase) String() string {
	switch p {
	case PreMPU:
		return "pre_mpu"
	case PreCache:
		return "pre_cache"
	case PreHAL:
		return "pre_hal"
	case PreClock:
		return "pre_clock"
	case PreBoard:
		return "pre_board"
	case PreTask:
		return "pre_task"
	case Running:
		return "running"
	case Faulted:
		return "faulted"
	default:
		return "phase(" + strconvx.Itoa(int(p)) + ")"
	}
}

var ErrIllegalTransition = errors.New("illegal_phase_transition")

// State is the boot phase plus the reason for a fault. Only the sequencer
// writes it.
type State struct {
	phase  Phase
	reason error
}

func (s *State) Phase() Phase  { return s.phase }
func (s *State) Reason() error { return s.reason }

// advance moves to the next phase; to must be exactly one step ahead.
func (s *State) advance(to Phase) error {
	if s.phase == Faulted || to != s.phase+1 || to == Faulted {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.phase, to)
	}
	s.phase = to
	return nil
}

// fail is terminal; the first reason is kept.
func (s *State) fail(reason error) {
	if s.phase == Faulted {
		return
	}
	s.phase = Faulted
	s.reason = reason
}
