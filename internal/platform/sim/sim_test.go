package sim

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bringup-go/internal/clockplan"
	"bringup-go/internal/display"
	"bringup-go/internal/fault"
	"bringup-go/internal/hw"
	"bringup-go/internal/periodic"
)

func TestParseFaults(t *testing.T) {
	f, err := ParseFaults([]string{"no_crystal", " lcd_absent ", "", "none"})
	if err != nil {
		t.Fatal(err)
	}
	if f != NoCrystal|LCDAbsent {
		t.Fatalf("got %s", f)
	}
	if f.String() != "no_crystal,lcd_absent" {
		t.Fatalf("string %q", f.String())
	}
	if _, err := ParseFaults([]string{"smoke"}); err == nil {
		t.Fatal("unknown fault accepted")
	}
	if len(FaultNames()) != 8 {
		t.Fatalf("names %v", FaultNames())
	}
}

func TestRunStopsAtHorizon(t *testing.T) {
	m := New(Options{})
	hwm := m.Hardware()
	returned := m.Run(250, func() {
		for {
			hwm.Delay.Delay(100)
		}
	})
	if returned {
		t.Fatal("infinite loop reported as returned")
	}
	if m.Now() != 250 {
		t.Fatalf("now %d", m.Now())
	}
	if !m.Run(1000, func() {}) {
		t.Fatal("plain return not reported")
	}
}

func TestRunPropagatesOtherPanics(t *testing.T) {
	m := New(Options{})
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v", r)
		}
	}()
	m.Run(100, func() { panic("boom") })
}

func TestClockSwitchOrdersLatency(t *testing.T) {
	m := New(Options{})
	c := m.Hardware().Clock
	p := clockplan.F746Default

	c.EnablePowerClock()
	c.SetRegulatorScale(p.Scale)
	if err := c.ConfigureOscillator(p.Osc()); err != nil {
		t.Fatal(err)
	}
	if err := c.ActivateOverDrive(); err != nil {
		t.Fatal(err)
	}
	if err := c.SwitchSystemClock(p.Bus(), 6); err != nil {
		t.Fatal(err)
	}
	if got := c.Frequencies(); got != p.Frequencies() {
		t.Fatalf("freq %+v", got)
	}
	if m.Index("flash", "latency") > m.Index("rcc", "sysclk") {
		t.Fatal("latency raised after the frequency")
	}
	if v := m.Violations(); len(v) != 0 {
		t.Fatalf("violations %v", v)
	}
	if m.FlashLatency() != 6 || !m.OverDrive() || m.RegulatorScale() != hw.Scale1 {
		t.Fatal("state not committed")
	}
}

func TestClockFlagsUnsafeSwitch(t *testing.T) {
	m := New(Options{})
	c := m.Hardware().Clock
	p := clockplan.F746Default

	c.EnablePowerClock()
	if err := c.ConfigureOscillator(p.Osc()); err != nil {
		t.Fatal(err)
	}
	// Neither over-drive nor enough wait states.
	if err := c.SwitchSystemClock(p.Bus(), 5); err != nil {
		t.Fatal(err)
	}
	v := strings.Join(m.Violations(), "\n")
	for _, want := range []string{"wait states", "overdrive=false", "pclk1"} {
		if !strings.Contains(v, want) {
			t.Errorf("missing %q in\n%s", want, v)
		}
	}
}

func TestClockFaults(t *testing.T) {
	p := clockplan.F746Default

	m := New(Options{Faults: NoCrystal})
	c := m.Hardware().Clock
	c.EnablePowerClock()
	if err := c.ConfigureOscillator(p.Osc()); !errors.Is(err, hw.ErrTimeout) {
		t.Fatalf("no crystal: %v", err)
	}
	if m.Now() != HSETimeout {
		t.Fatalf("timeout took %d ms", m.Now())
	}
	if err := c.SwitchSystemClock(p.Bus(), 6); !errors.Is(err, hw.ErrNotReady) {
		t.Fatalf("switch to unlocked pll: %v", err)
	}
	if c.Frequencies().SYSCLK != HSIFrequency {
		t.Fatal("clock changed after failure")
	}

	m = New(Options{Faults: OverDriveFail})
	c = m.Hardware().Clock
	c.EnablePowerClock()
	if err := c.ActivateOverDrive(); !errors.Is(err, hw.ErrTimeout) {
		t.Fatalf("overdrive: %v", err)
	}

	m = New(Options{Faults: SwitchFail})
	c = m.Hardware().Clock
	c.EnablePowerClock()
	_ = c.ConfigureOscillator(p.Osc())
	if err := c.SwitchSystemClock(p.Bus(), 6); !errors.Is(err, hw.ErrTimeout) {
		t.Fatalf("switch: %v", err)
	}
}

func TestCacheBeforeMPUIsViolation(t *testing.T) {
	m := New(Options{})
	hwm := m.Hardware()
	hwm.Cache.EnableICache()
	hwm.MPU.Enable(hw.MPUPrivilegedDefault)
	hwm.Cache.EnableDCache()
	hwm.Cache.EnableDCache()
	if len(m.Violations()) != 1 {
		t.Fatalf("violations %v", m.Violations())
	}
	if i, d := m.CacheEnables(); i != 1 || d != 1 {
		t.Fatalf("enables %d %d", i, d)
	}
}

func TestUnconfiguredIndicatorIsDark(t *testing.T) {
	m := New(Options{})
	led := m.Hardware().LED
	led.Toggle()
	led.Toggle()
	if len(m.Edges()) != 0 {
		t.Fatal("edges from an input pin")
	}
	_ = led.ConfigureOutput(false)
	led.Toggle()
	if diff := cmp.Diff([]Edge{{At: 0, Level: true}}, m.Edges()); diff != "" {
		t.Fatal(diff)
	}
}

func TestLayerOverSDRAM(t *testing.T) {
	m := New(Options{})
	hwm := m.Hardware()
	if err := hwm.SDRAM.Init(hw.SDRAMTiming{RowCycle: 7, RefreshCount: 0x603}); err != nil {
		t.Fatal(err)
	}
	if err := hwm.LCD.Init(); err != nil {
		t.Fatal(err)
	}
	if err := hwm.LCD.LayerDefaultInit(1, 0xC0000000); err != nil {
		t.Fatal(err)
	}
	hwm.LCD.SelectLayer(1)
	if m.Screen() != nil {
		t.Fatal("screen visible before display on")
	}
	hwm.LCD.DisplayOn()

	c := display.NewCanvas(hwm.LCD.Layer())
	if err := display.SelfTest(c); err != nil {
		t.Fatal(err)
	}
	if err := display.VerifySelfTest(m.Screen()); err != nil {
		t.Fatal(err)
	}
	if m.sdram.mem[0] != display.ARGB8888(display.Green) {
		t.Fatalf("corner pixel %#x not in SDRAM", m.sdram.mem[0])
	}
}

func TestLayerWithoutSDRAMLosesWrites(t *testing.T) {
	m := New(Options{Faults: SDRAMAbsent})
	hwm := m.Hardware()
	if err := hwm.SDRAM.Init(hw.SDRAMTiming{RowCycle: 7, RefreshCount: 0x603}); !errors.Is(err, hw.ErrAbsent) {
		t.Fatalf("sdram: %v", err)
	}
	_ = hwm.LCD.Init()
	_ = hwm.LCD.LayerDefaultInit(1, 0xC0000000)
	hwm.LCD.SelectLayer(1)
	hwm.LCD.DisplayOn()
	_ = display.SelfTest(display.NewCanvas(hwm.LCD.Layer()))
	if err := display.VerifySelfTest(m.Screen()); err == nil {
		t.Fatal("self-test survived absent SDRAM")
	}
}

func TestLCDAbsent(t *testing.T) {
	m := New(Options{Faults: LCDAbsent})
	lcd := m.Hardware().LCD
	if err := lcd.Init(); !errors.Is(err, hw.ErrAbsent) {
		t.Fatalf("init: %v", err)
	}
	if err := lcd.LayerDefaultInit(0, 0xC0000000); !errors.Is(err, hw.ErrNotReady) {
		t.Fatalf("layer: %v", err)
	}
}

// armTick starts the 1 kHz tick with the counter at start.
func armTick(m *Machine, start hw.Tick) {
	m.now = 1 << 33
	m.plat.tickOn = true
	m.plat.tickStart = m.now - uint64(start)
}

func runBlinker(t *testing.T, m *Machine, horizon uint64) {
	t.Helper()
	hwm := m.Hardware()
	_ = hwm.LED.ConfigureOutput(false)
	b := periodic.Blinker{Pin: hwm.LED, Period: periodic.DefaultPeriod}
	if hwm.Kernel.CreateTask(b.Task(hwm.Kernel)) == 0 {
		t.Fatal("no task")
	}
	if m.Run(horizon, hwm.Kernel.Start) {
		t.Fatal("scheduler returned")
	}
}

func TestKernelCadenceAcrossTickWrap(t *testing.T) {
	m := New(Options{})
	armTick(m, hw.Tick(0xFFFFFFFF-1500))
	t0 := m.now
	runBlinker(t, m, t0+5500)

	var got []uint64
	for _, e := range m.Edges() {
		got = append(got, e.At-t0)
	}
	want := []uint64{1000, 2000, 3000, 4000, 5000}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("edges (-want +got):\n%s", diff)
	}
	if !m.SchedulerStarted() || len(m.Tasks()) != 1 {
		t.Fatal("scheduler state")
	}
}

func TestKernelJitterDoesNotAccumulate(t *testing.T) {
	m := New(Options{JitterMs: 1, BodyMs: 5, Seed: 3})
	armTick(m, 0)
	t0 := m.now
	runBlinker(t, m, t0+600_500)

	r := Analyze(m.Edges(), 1000)
	if r.Edges != 600 || r.Pattern != Healthy {
		t.Fatalf("report %s", r)
	}
	if r.MaxDrift > 1 {
		t.Fatalf("drift %d ms", r.MaxDrift)
	}
	if r.StdDev >= 1 || math.Abs(r.MeanGap-1000) >= 0.01 {
		t.Fatalf("period mean %.4f stddev %.4f", r.MeanGap, r.StdDev)
	}
}

func TestKernelStartWithoutTasks(t *testing.T) {
	m := New(Options{})
	if !m.Run(100, m.Hardware().Kernel.Start) {
		t.Fatal("empty scheduler should return")
	}
	if m.SchedulerStarted() {
		t.Fatal("started with no tasks")
	}
	if m.Index("kernel", "start_failed") < 0 {
		t.Fatal("start failure not traced")
	}
}

func TestKernelCreateFail(t *testing.T) {
	m := New(Options{Faults: TaskCreateFail})
	k := m.Hardware().Kernel
	if id := k.CreateTask(hw.TaskDef{Name: "x", Entry: func() {}}); id != 0 {
		t.Fatalf("id %d", id)
	}
}

func TestKernelInterleavesTasks(t *testing.T) {
	m := New(Options{})
	armTick(m, 0)
	t0 := m.now
	k := m.Hardware().Kernel
	var order []string
	mk := func(name string, period hw.Tick) hw.TaskDef {
		return hw.TaskDef{Name: name, Entry: func() {
			d := periodic.Start(k, period)
			for {
				d.Wait(k)
				order = append(order, name)
			}
		}}
	}
	k.CreateTask(mk("a", 300))
	k.CreateTask(mk("b", 500))
	m.Run(t0+1100, k.Start)
	want := []string{"a", "b", "a", "a", "b"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestAnalyze(t *testing.T) {
	edges := func(ts ...uint64) []Edge {
		out := make([]Edge, len(ts))
		for i, v := range ts {
			out[i] = Edge{At: v, Level: i%2 == 0}
		}
		return out
	}
	tests := []struct {
		name  string
		edges []Edge
		want  Pattern
		drift uint64
	}{
		{"dark", nil, Dark, 0},
		{"single", edges(5), Irregular, 0},
		{"healthy", edges(1004, 2004, 3004, 4004), Healthy, 0},
		{"healthy_jitter", edges(1000, 2001, 3000, 4001), Healthy, 1},
		{"fault", edges(10, 110, 210, 810, 910, 1010, 1610), Faulting, 0},
		{"fault_midcycle", edges(0, 600, 700, 800, 1400), Faulting, 0},
		{"slow", edges(0, 2000, 4000), Irregular, 2000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			period := uint64(1000)
			if tc.want == Faulting {
				period = uint64(fault.DefaultPattern.Gap)
			}
			r := Analyze(tc.edges, period)
			if r.Pattern != tc.want {
				t.Fatalf("pattern %s, want %s", r.Pattern, tc.want)
			}
			if tc.want != Faulting && r.MaxDrift != tc.drift {
				t.Fatalf("drift %d, want %d", r.MaxDrift, tc.drift)
			}
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	in := []byte(`
scenarios:
  - name: healthy
    horizon_ms: 5000
    expect: healthy
  - name: crystal
    faults: [no_crystal, sdram_absent]
    jitter_ms: 1
    expect: fault
`)
	got, err := LoadScenarios(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []Scenario{
		{Name: "healthy", HorizonMs: 5000, Expect: "healthy"},
		{Name: "crystal", Faults: []string{"no_crystal", "sdram_absent"}, JitterMs: 1, Expect: "fault"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	o, err := got[1].Options()
	if err != nil || o.Faults != NoCrystal|SDRAMAbsent || o.JitterMs != 1 {
		t.Fatalf("options %+v %v", o, err)
	}
	if got[1].Horizon() != DefaultHorizon {
		t.Fatalf("horizon %d", got[1].Horizon())
	}

	bad := map[string]string{
		"unknown key":   "scenarios:\n  - name: x\n    colour: red\n",
		"unknown fault": "scenarios:\n  - name: x\n    faults: [smoke]\n",
		"no name":       "scenarios:\n  - horizon_ms: 5\n",
		"bad expect":    "scenarios:\n  - name: x\n    expect: maybe\n",
	}
	for name, doc := range bad {
		if _, err := LoadScenarios([]byte(doc)); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}

func TestBuiltinScenariosRoundTrip(t *testing.T) {
	data, err := MarshalScenarios(Builtin())
	if err != nil {
		t.Fatal(err)
	}
	got, err := LoadScenarios(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Builtin(), got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
