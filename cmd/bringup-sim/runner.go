package main

import (
	"errors"
	"fmt"
	"io"

	"bringup-go/internal/board"
	"bringup-go/internal/boot"
	"bringup-go/internal/hw"
	"bringup-go/internal/platform/sim"
)

// outcome is the result of one simulated boot.
type outcome struct {
	Scenario sim.Scenario
	Phase    boot.Phase
	Reason   error
	Report   sim.Report
	// Violations are hardware rules the boot broke.
	Violations []string
}

// ErrExpectation marks a scenario whose indicator did not show the expected
// pattern.
var ErrExpectation = errors.New("unexpected indicator pattern")

func runScenario(s sim.Scenario, d board.Descriptor, trace io.Writer) (outcome, error) {
	o, err := s.Options()
	if err != nil {
		return outcome{}, err
	}
	defer hw.SetAssertHandler(nil)

	m := sim.New(o)
	seq := boot.New(m.Hardware(), d)
	m.Run(s.Horizon(), func() { seq.Run() })

	if trace != nil {
		for _, e := range m.Trace() {
			fmt.Fprintln(trace, e)
		}
	}

	out := outcome{
		Scenario:   s,
		Phase:      seq.State().Phase(),
		Reason:     seq.State().Reason(),
		Violations: m.Violations(),
	}
	period := uint64(d.BlinkPeriod)
	if out.Phase == boot.Faulted {
		// The fault burst has its own cadence; drift against 1 s means nothing.
		period = 100
	}
	out.Report = sim.Analyze(m.Edges(), period)

	if s.Expect != "" && out.Report.Pattern.String() != s.Expect {
		return out, fmt.Errorf("%s: %w: got %s, want %s", s.Name, ErrExpectation, out.Report.Pattern, s.Expect)
	}
	if len(out.Violations) > 0 {
		return out, fmt.Errorf("%s: %d hardware rule violations", s.Name, len(out.Violations))
	}
	return out, nil
}

func (o outcome) print(w io.Writer) {
	fmt.Fprintf(w, "%-18s phase=%-8s %s\n", o.Scenario.Name, o.Phase, o.Report)
	if o.Reason != nil {
		fmt.Fprintf(w, "%-18s reason: %v\n", "", o.Reason)
	}
	for _, v := range o.Violations {
		fmt.Fprintf(w, "%-18s violation: %s\n", "", v)
	}
}
