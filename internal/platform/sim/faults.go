package sim

import (
	"fmt"
	"strings"
)

// Fault is a set of injected hardware failures.
type Fault uint16

const (
	NoCrystal      Fault = 1 << iota // HSE never reports ready
	OverDriveFail                    // over-drive ready flags never set
	SwitchFail                       // SYSCLK source switch not acknowledged
	TickFail                         // tick timer rejects its configuration
	LCDAbsent                        // LCD controller init fails
	SDRAMAbsent                      // FMC programs fine but nothing answers
	TaskCreateFail                   // kernel out of heap
	Assert                           // vendor parameter check fires in the clock switch
)

var faultNames = []struct {
	f    Fault
	name string
}{
	{NoCrystal, "no_crystal"},
	{OverDriveFail, "overdrive_fail"},
	{SwitchFail, "switch_fail"},
	{TickFail, "tick_fail"},
	{LCDAbsent, "lcd_absent"},
	{SDRAMAbsent, "sdram_absent"},
	{TaskCreateFail, "task_create_fail"},
	{Assert, "assert"},
}

func (f Fault) Has(x Fault) bool { return f&x != 0 }

func (f Fault) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, n := range faultNames {
		if f.Has(n.f) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// FaultNames lists every injectable fault by name.
func FaultNames() []string {
	out := make([]string, len(faultNames))
	for i, n := range faultNames {
		out[i] = n.name
	}
	return out
}

// ParseFaults accepts names as printed by String.
func ParseFaults(names []string) (Fault, error) {
	var f Fault
	for _, s := range names {
		s = strings.TrimSpace(s)
		if s == "" || s == "none" {
			continue
		}
		found := false
		for _, n := range faultNames {
			if n.name == s {
				f |= n.f
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown fault %q", s)
		}
	}
	return f, nil
}
