package clockplan

import (
	"errors"
	"testing"

	"bringup-go/internal/hw"
)

func TestF746DefaultFrequencies(t *testing.T) {
	p := F746Default
	cases := map[string][2]uint32{
		"vco_in":  {p.VCOIn(), 1 * MHz},
		"vco_out": {p.VCOOut(), 400 * MHz},
		"sysclk":  {p.SYSCLK(), 200 * MHz},
		"hclk":    {p.HCLK(), 200 * MHz},
		"pclk1":   {p.PCLK1(), 50 * MHz},
		"pclk2":   {p.PCLK2(), 100 * MHz},
		"pll48":   {p.PLL48(), 50 * MHz},
	}
	for name, c := range cases {
		if c[0] != c[1] {
			t.Fatalf("%s: got %d want %d", name, c[0], c[1])
		}
	}
}

func TestF746DefaultBitExact(t *testing.T) {
	want := Plan{
		HSE: 25 * MHz, M: 25, N: 400, P: 2, Q: 8,
		AHBDiv: 1, APB1Div: 4, APB2Div: 2,
		Scale: hw.Scale1, FlashLatency: 5, OverDrive: true,
	}
	if F746Default != want {
		t.Fatalf("plan drifted: %+v", F746Default)
	}
}

func TestDocumentedFrequencyDisagrees(t *testing.T) {
	err := F746Default.Validate(F7Limits, DocumentedSYSCLK)
	if !errors.Is(err, ErrSYSCLKMismatch) {
		t.Fatalf("216 MHz claim should be flagged, got %v", err)
	}
}

func TestF746DefaultOnlyLatencyIsShort(t *testing.T) {
	err := F746Default.Validate(F7Limits, F746SYSCLK)
	if !errors.Is(err, ErrFlashLatency) {
		t.Fatalf("expected flash latency finding, got %v", err)
	}
	for _, other := range []error{
		ErrSYSCLKMismatch, ErrPLLDivider, ErrVCOInput, ErrVCOOutput, ErrBusDivider,
		ErrHCLKLimit, ErrPCLK1Limit, ErrPCLK2Limit, ErrOverDriveRequired,
	} {
		if errors.Is(err, other) {
			t.Fatalf("unexpected %v in %v", other, err)
		}
	}

	if F746Default.FlashLatency != 5 || F746Default.EffectiveLatency(F7Limits) != 6 {
		t.Fatalf("planned %d WS, programmed %d WS", F746Default.FlashLatency, F746Default.EffectiveLatency(F7Limits))
	}

	fixed := F746Default
	fixed.FlashLatency = F746Default.EffectiveLatency(F7Limits)
	if err := fixed.Validate(F7Limits, F746SYSCLK); err != nil {
		t.Fatalf("raised plan should validate: %v", err)
	}
}

func TestMinFlashLatency(t *testing.T) {
	cases := []struct {
		hclk uint32
		want uint8
	}{
		{16 * MHz, 0},
		{30 * MHz, 0},
		{31 * MHz, 1},
		{180 * MHz, 5},
		{200 * MHz, 6},
		{216 * MHz, 7},
		{400 * MHz, 7},
	}
	for _, c := range cases {
		if got := F7Limits.MinFlashLatency(c.hclk); got != c.want {
			t.Fatalf("MinFlashLatency(%d)=%d want %d", c.hclk, got, c.want)
		}
	}
}

func TestEffectiveLatencyNeverLowers(t *testing.T) {
	p := F746Default
	p.FlashLatency = 7
	if got := p.EffectiveLatency(F7Limits); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := F746Default.EffectiveLatency(F7Limits); got != 6 {
		t.Fatalf("got %d", got)
	}
}

func TestValidateFindsBrokenPlans(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Plan)
		want error
	}{
		{"m_range", func(p *Plan) { p.M = 1 }, ErrPLLDivider},
		{"vco_in", func(p *Plan) { p.M = 5 }, ErrVCOInput},
		{"p_value", func(p *Plan) { p.P = 3 }, ErrPLLDivider},
		{"vco_out", func(p *Plan) { p.N = 60 }, ErrVCOOutput},
		{"ahb", func(p *Plan) { p.AHBDiv = 3 }, ErrBusDivider},
		{"apb1", func(p *Plan) { p.APB1Div = 2 }, ErrPCLK1Limit},
		{"apb2", func(p *Plan) { p.APB2Div = 1 }, ErrPCLK2Limit},
		{"od_needed", func(p *Plan) { p.OverDrive = false }, ErrOverDriveRequired},
		{"od_scale3", func(p *Plan) { p.Scale = hw.Scale3 }, ErrOverDriveScale},
		{"hclk_scale2", func(p *Plan) { p.Scale = hw.Scale2 }, ErrHCLKLimit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := F746Default
			p.FlashLatency = 7
			c.mod(&p)
			err := p.Validate(F7Limits, p.SYSCLK())
			if !errors.Is(err, c.want) {
				t.Fatalf("want %v, got %v", c.want, err)
			}
		})
	}
}

func TestOscAndBusRequests(t *testing.T) {
	o := F746Default.Osc()
	if !o.HSEOn || !o.PLLOn || o.PLLSource != hw.SourceHSE || o.M != 25 || o.N != 400 || o.P != 2 || o.Q != 8 {
		t.Fatalf("osc request %+v", o)
	}
	b := F746Default.Bus()
	if b.SYSCLKSource != hw.SourcePLL || b.AHBDiv != 1 || b.APB1Div != 4 || b.APB2Div != 2 {
		t.Fatalf("bus request %+v", b)
	}
}

func TestZeroDividersDoNotPanic(t *testing.T) {
	var p Plan
	if p.SYSCLK() != 0 || p.PCLK2() != 0 {
		t.Fatal("zero plan should produce zero clocks")
	}
	if err := p.Validate(F7Limits, 0); err == nil {
		t.Fatal("zero plan must not validate")
	}
}
