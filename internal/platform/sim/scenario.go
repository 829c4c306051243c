package sim

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Scenario is one named simulator run, loadable from YAML:
//
//	scenarios:
//	  - name: no_crystal
//	    faults: [no_crystal]
//	    horizon_ms: 10000
//	    expect: fault
type Scenario struct {
	Name      string   `yaml:"name"`
	Faults    []string `yaml:"faults,omitempty"`
	HorizonMs uint64   `yaml:"horizon_ms"`
	JitterMs  uint32   `yaml:"jitter_ms,omitempty"`
	BodyMs    uint32   `yaml:"body_ms,omitempty"`
	Seed      uint64   `yaml:"seed,omitempty"`
	Expect    string   `yaml:"expect,omitempty"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// DefaultHorizon is used when a scenario gives none.
const DefaultHorizon = 10_000

// LoadScenarios parses a scenario file. Unknown keys are rejected.
func LoadScenarios(data []byte) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("scenario file: %w", err)
	}
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d: missing name", i)
		}
		if _, err := ParseFaults(s.Faults); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if s.Expect != "" && !validExpect(s.Expect) {
			return nil, fmt.Errorf("scenario %s: unknown expectation %q", s.Name, s.Expect)
		}
	}
	return f.Scenarios, nil
}

// MarshalScenarios renders scenarios in the file format LoadScenarios reads.
func MarshalScenarios(s []Scenario) ([]byte, error) {
	return yaml.Marshal(scenarioFile{Scenarios: s})
}

func validExpect(s string) bool {
	for _, p := range []Pattern{Dark, Healthy, Faulting, Irregular} {
		if p.String() == s {
			return true
		}
	}
	return false
}

// Options converts the scenario into machine options.
func (s Scenario) Options() (Options, error) {
	f, err := ParseFaults(s.Faults)
	if err != nil {
		return Options{}, err
	}
	return Options{Faults: f, JitterMs: s.JitterMs, BodyMs: s.BodyMs, Seed: s.Seed}, nil
}

// Horizon is the run length in ms.
func (s Scenario) Horizon() uint64 {
	if s.HorizonMs == 0 {
		return DefaultHorizon
	}
	return s.HorizonMs
}

// Builtin covers the healthy board and every single injected fault.
func Builtin() []Scenario {
	return []Scenario{
		{Name: "healthy", HorizonMs: 10_500, Expect: "healthy"},
		{Name: "healthy_jitter", HorizonMs: 60_500, JitterMs: 1, BodyMs: 3, Seed: 7, Expect: "healthy"},
		{Name: "no_crystal", Faults: []string{"no_crystal"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "overdrive_fail", Faults: []string{"overdrive_fail"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "switch_fail", Faults: []string{"switch_fail"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "tick_fail", Faults: []string{"tick_fail"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "lcd_absent", Faults: []string{"lcd_absent"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "task_create_fail", Faults: []string{"task_create_fail"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "assert", Faults: []string{"assert"}, HorizonMs: 10_000, Expect: "fault"},
		{Name: "sdram_absent", Faults: []string{"sdram_absent"}, HorizonMs: 10_500, Expect: "healthy"},
	}
}
