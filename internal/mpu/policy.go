package mpu

import (
	"errors"
	"fmt"

	"bringup-go/internal/hw"
)

// SRAMBase/SRAMSize: SRAM1+SRAM2 behind the AXI, backing stacks and the
// kernel heap.
const (
	SRAMBase = 0x20010000
	SRAMSize = Size256KB
)

// Policy is the ordered region list plus the control bits written on enable.
type Policy struct {
	Regions []RegionSpec
	Control hw.MPUControl
}

// SRAMRegion is region 0: write-through cacheable so other bus masters never
// see stale lines.
func SRAMRegion() RegionSpec {
	return RegionSpec{
		Number:           0,
		Enable:           true,
		Base:             SRAMBase,
		Size:             SRAMSize,
		Access:           FullAccess,
		Bufferable:       false,
		Cacheable:        true,
		Shareable:        false,
		ExecuteNever:     false,
		TEX:              TEX0,
		SubRegionDisable: 0x00,
	}
}

// FramebufferRegion maps an SDRAM window the LCD DMA reads with the same
// write-through attributes, not executable.
func FramebufferRegion(number uint8, base uint32, bytes uint64) RegionSpec {
	return RegionSpec{
		Number:       number,
		Enable:       true,
		Base:         base,
		Size:         SizeFor(bytes),
		Access:       FullAccess,
		Cacheable:    true,
		ExecuteNever: true,
		TEX:          TEX0,
	}
}

// DefaultPolicy programs the SRAM region with the privileged default map as
// background.
func DefaultPolicy() Policy {
	return Policy{
		Regions: []RegionSpec{SRAMRegion()},
		Control: hw.MPUPrivilegedDefault,
	}
}

// With returns a copy of p with r appended.
func (p Policy) With(r RegionSpec) Policy {
	regions := make([]RegionSpec, 0, len(p.Regions)+1)
	regions = append(regions, p.Regions...)
	p.Regions = append(regions, r)
	return p
}

// Validate checks each region and that region numbers are unique.
func (p Policy) Validate() error { return p.validate(RegionSpec.Validate) }

// ValidateStrict also rejects bases the hardware would round down.
func (p Policy) ValidateStrict() error { return p.validate(RegionSpec.ValidateStrict) }

func (p Policy) validate(check func(RegionSpec) error) error {
	var errs []error
	seen := make(map[uint8]bool, len(p.Regions))
	for _, r := range p.Regions {
		if err := check(r); err != nil {
			errs = append(errs, fmt.Errorf("region %d: %w", r.Number, err))
		}
		if seen[r.Number] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicate, r.Number))
		}
		seen[r.Number] = true
	}
	return errors.Join(errs...)
}

// Lookup returns the attributes that govern addr: the highest-numbered
// enabled region containing it wins. ok is false when only the background
// map applies.
func (p Policy) Lookup(addr uint32) (r RegionSpec, ok bool) {
	for _, c := range p.Regions {
		if c.Contains(addr) && (!ok || c.Number > r.Number) {
			r, ok = c, true
		}
	}
	return r, ok
}

// Apply disables the MPU, programs every region and re-enables it.
func Apply(m hw.MPU, p Policy) {
	m.Disable()
	for _, r := range p.Regions {
		m.ConfigureRegion(r.Encode())
	}
	m.Enable(p.Control)
}
