package boot

import (
	"errors"
	"testing"
)

func TestStateAdvancesOneStep(t *testing.T) {
	var s State
	for p := PreCache; p <= Running; p++ {
		if err := s.advance(p); err != nil {
			t.Fatal(err)
		}
	}
	if s.Phase() != Running {
		t.Fatalf("phase %s", s.Phase())
	}
}

func TestStateRejectsSkipsAndReverse(t *testing.T) {
	var s State
	if err := s.advance(PreHAL); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("skip: %v", err)
	}
	_ = s.advance(PreCache)
	if err := s.advance(PreMPU); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("reverse: %v", err)
	}
	if err := s.advance(PreCache); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("repeat: %v", err)
	}
}

func TestFaultIsTerminal(t *testing.T) {
	var s State
	first := errors.New("first")
	s.fail(first)
	s.fail(errors.New("second"))
	if s.Phase() != Faulted || s.Reason() != first {
		t.Fatalf("phase %s reason %v", s.Phase(), s.Reason())
	}
	if err := s.advance(PreCache); err == nil {
		t.Fatal("advanced out of Faulted")
	}
}

func TestPhaseString(t *testing.T) {
	want := []string{"pre_mpu", "pre_cache", "pre_hal", "pre_clock", "pre_board", "pre_task", "running", "faulted"}
	for p := PreMPU; p <= Faulted; p++ {
		if p.String() != want[p] {
			t.Errorf("%d: %s", p, p)
		}
	}
	if Phase(99).String() != "phase(99)" {
		t.Error(Phase(99).String())
	}
}
