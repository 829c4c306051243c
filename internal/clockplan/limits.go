package clockplan

import (
	"errors"
	"fmt"

	"bringup-go/internal/hw"
	"bringup-go/x/mathx"
)

var (
	ErrSYSCLKMismatch    = errors.New("sysclk_mismatch")
	ErrPLLDivider        = errors.New("pll_divider_out_of_range")
	ErrVCOInput          = errors.New("vco_input_out_of_range")
	ErrVCOOutput         = errors.New("vco_output_out_of_range")
	ErrBusDivider        = errors.New("bus_divider_invalid")
	ErrHCLKLimit         = errors.New("hclk_over_limit")
	ErrPCLK1Limit        = errors.New("pclk1_over_limit")
	ErrPCLK2Limit        = errors.New("pclk2_over_limit")
	ErrPLL48Limit        = errors.New("pll48_over_limit")
	ErrFlashLatency      = errors.New("flash_latency_too_low")
	ErrOverDriveRequired = errors.New("overdrive_required")
	ErrOverDriveScale    = errors.New("overdrive_unavailable_at_scale")
)

// Limits are the vendor envelope for one part family.
type Limits struct {
	MMin, MMax uint32
	NMin, NMax uint32
	Ps         []uint32
	QMin, QMax uint32

	VCOInMin, VCOInMax   uint32
	VCOOutMin, VCOOutMax uint32
	PLL48Max             uint32

	AHBDivs []uint32
	APBDivs []uint32

	// HCLK ceilings indexed by scale, without and with over-drive.
	HCLKMax         map[hw.Scale][2]uint32
	PCLK1Max        [2]uint32
	PCLK2Max        [2]uint32
	OverDriveScales []hw.Scale
	HzPerWaitState  uint32
	MaxFlashLatency uint8
}

// F7Limits: STM32F74x/75x, VDD 2.7–3.6 V.
var F7Limits = Limits{
	MMin: 2,
	MMax: 63,
	NMin: 50,
	NMax: 432,
	Ps:   []uint32{2, 4, 6, 8},
	QMin: 2,
	QMax: 15,

	VCOInMin:  1 * MHz,
	VCOInMax:  2 * MHz,
	VCOOutMin: 100 * MHz,
	VCOOutMax: 432 * MHz,
	PLL48Max:  75 * MHz,

	AHBDivs: []uint32{1, 2, 4, 8, 16, 64, 128, 256, 512},
	APBDivs: []uint32{1, 2, 4, 8, 16},

	HCLKMax: map[hw.Scale][2]uint32{
		hw.Scale1: {180 * MHz, 216 * MHz},
		hw.Scale2: {168 * MHz, 180 * MHz},
		hw.Scale3: {144 * MHz, 144 * MHz},
	},
	PCLK1Max:        [2]uint32{45 * MHz, 54 * MHz},
	PCLK2Max:        [2]uint32{90 * MHz, 108 * MHz},
	OverDriveScales: []hw.Scale{hw.Scale1, hw.Scale2},
	HzPerWaitState:  30 * MHz,
	MaxFlashLatency: 7,
}

// OverDriveCeiling is the highest HCLK reachable at scale without over-drive.
func (l Limits) OverDriveCeiling(s hw.Scale) uint32 { return l.HCLKMax[s][0] }

func od(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Validate checks every invariant of the plan against l and returns all
// violations joined. declared is the SYSCLK the plan claims to produce.
func (p Plan) Validate(l Limits, declared uint32) error {
	var errs []error
	add := func(base error, format string, a ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{base}, a...)...))
	}

	if !mathx.Between(p.M, l.MMin, l.MMax) {
		add(ErrPLLDivider, "M=%d not in [%d,%d]", p.M, l.MMin, l.MMax)
	}
	if !mathx.Between(p.N, l.NMin, l.NMax) {
		add(ErrPLLDivider, "N=%d not in [%d,%d]", p.N, l.NMin, l.NMax)
	}
	if !mathx.OneOf(p.P, l.Ps...) {
		add(ErrPLLDivider, "P=%d not in %v", p.P, l.Ps)
	}
	if !mathx.Between(p.Q, l.QMin, l.QMax) {
		add(ErrPLLDivider, "Q=%d not in [%d,%d]", p.Q, l.QMin, l.QMax)
	}
	if in := p.VCOIn(); !mathx.Between(in, l.VCOInMin, l.VCOInMax) {
		add(ErrVCOInput, "%d Hz", in)
	}
	if out := p.VCOOut(); !mathx.Between(out, l.VCOOutMin, l.VCOOutMax) {
		add(ErrVCOOutput, "%d Hz", out)
	}
	if f := p.PLL48(); f > l.PLL48Max {
		add(ErrPLL48Limit, "%d Hz", f)
	}
	if got := p.SYSCLK(); got != declared {
		add(ErrSYSCLKMismatch, "(%d/%d)*%d/%d = %d Hz, declared %d Hz",
			p.HSE, p.M, p.N, p.P, got, declared)
	}

	if !mathx.OneOf(p.AHBDiv, l.AHBDivs...) {
		add(ErrBusDivider, "AHB /%d", p.AHBDiv)
	}
	if !mathx.OneOf(p.APB1Div, l.APBDivs...) {
		add(ErrBusDivider, "APB1 /%d", p.APB1Div)
	}
	if !mathx.OneOf(p.APB2Div, l.APBDivs...) {
		add(ErrBusDivider, "APB2 /%d", p.APB2Div)
	}

	if p.OverDrive && !mathx.OneOf(p.Scale, l.OverDriveScales...) {
		add(ErrOverDriveScale, "%s", p.Scale)
	}
	ceil, ok := l.HCLKMax[p.Scale]
	if !ok {
		add(ErrHCLKLimit, "unknown regulator %s", p.Scale)
	} else {
		hclk := p.HCLK()
		if hclk > ceil[od(p.OverDrive)] {
			if !p.OverDrive && hclk <= ceil[1] {
				add(ErrOverDriveRequired, "HCLK %d Hz above %d Hz", hclk, ceil[0])
			} else {
				add(ErrHCLKLimit, "HCLK %d Hz above %d Hz", hclk, ceil[od(p.OverDrive)])
			}
		}
	}
	if f, max := p.PCLK1(), l.PCLK1Max[od(p.OverDrive)]; f > max {
		add(ErrPCLK1Limit, "%d Hz above %d Hz", f, max)
	}
	if f, max := p.PCLK2(), l.PCLK2Max[od(p.OverDrive)]; f > max {
		add(ErrPCLK2Limit, "%d Hz above %d Hz", f, max)
	}
	if min := l.MinFlashLatency(p.HCLK()); p.FlashLatency < min {
		add(ErrFlashLatency, "%d WS at %d Hz, need %d", p.FlashLatency, p.HCLK(), min)
	}
	return errors.Join(errs...)
}
