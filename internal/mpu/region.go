// Package mpu describes ARMv7-M memory protection regions and encodes them
// into RBAR/RASR words.
package mpu

import (
	"errors"
	"fmt"

	"github.com/inhies/go-bytesize"

	"bringup-go/internal/hw"
	"bringup-go/x/mathx"
)

// MaxRegions is the number of regions the Cortex-M7 MPU implements on F7.
const MaxRegions = 8

var (
	ErrRegionNumber   = errors.New("region_number_out_of_range")
	ErrRegionSize     = errors.New("region_size_invalid")
	ErrSubRegion      = errors.New("subregion_disable_needs_256B")
	ErrDuplicate      = errors.New("region_number_duplicate")
	ErrTEXLevel       = errors.New("tex_level_invalid")
	ErrAccessEncoding = errors.New("access_permission_invalid")
	ErrMisaligned     = errors.New("region_base_misaligned")
)

// SizeCode is the RASR.SIZE field: a region spans 2^(code+1) bytes.
type SizeCode uint8

const (
	Size32B   SizeCode = 0x04
	Size1KB   SizeCode = 0x09
	Size4KB   SizeCode = 0x0B
	Size64KB  SizeCode = 0x0F
	Size128KB SizeCode = 0x10
	Size256KB SizeCode = 0x11
	Size512KB SizeCode = 0x12
	Size1MB   SizeCode = 0x13
	Size8MB   SizeCode = 0x16
	Size4GB   SizeCode = 0x1F
)

// Bytes returns the region span; 4 GiB saturates at the uint64 value.
func (s SizeCode) Bytes() uint64 { return uint64(1) << (uint(s) + 1) }

func (s SizeCode) Valid() bool { return s >= Size32B && s <= Size4GB }

func (s SizeCode) String() string {
	if !s.Valid() {
		return fmt.Sprintf("size(%#x)", uint8(s))
	}
	return bytesize.New(float64(s.Bytes())).String()
}

// SizeFor returns the smallest code whose span covers n bytes.
func SizeFor(n uint64) SizeCode {
	if n <= 32 {
		return Size32B
	}
	code := SizeCode(mathx.Log2(mathx.CeilPow2(n)) - 1)
	if code > Size4GB {
		return Size4GB
	}
	return code
}

// AccessPermission is the RASR.AP field.
type AccessPermission uint8

const (
	NoAccess   AccessPermission = 0
	PrivRW     AccessPermission = 1
	PrivRWURO  AccessPermission = 2
	FullAccess AccessPermission = 3
	PrivRO     AccessPermission = 5
	PrivROURO  AccessPermission = 6
)

func (a AccessPermission) String() string {
	switch a {
	case NoAccess:
		return "no_access"
	case PrivRW:
		return "priv_rw"
	case PrivRWURO:
		return "priv_rw_user_ro"
	case FullAccess:
		return "full_access"
	case PrivRO:
		return "priv_ro"
	case PrivROURO:
		return "ro"
	default:
		return "ap?"
	}
}

// TEXLevel is the RASR.TEX field.
type TEXLevel uint8

const (
	TEX0 TEXLevel = 0
	TEX1 TEXLevel = 1
	TEX2 TEXLevel = 2
)

// RegionSpec is one MPU region as the application declares it.
type RegionSpec struct {
	Number           uint8
	Enable           bool
	Base             uint32
	Size             SizeCode
	Access           AccessPermission
	Bufferable       bool
	Cacheable        bool
	Shareable        bool
	ExecuteNever     bool
	TEX              TEXLevel
	SubRegionDisable uint8
}

// Validate checks the fields the hardware cannot represent. Base alignment
// is reported separately by Misaligned: the MPU ignores the low base bits.
func (r RegionSpec) Validate() error {
	var errs []error
	if r.Number >= MaxRegions {
		errs = append(errs, fmt.Errorf("%w: %d", ErrRegionNumber, r.Number))
	}
	if !r.Size.Valid() {
		errs = append(errs, fmt.Errorf("%w: %#x", ErrRegionSize, uint8(r.Size)))
	}
	if r.SubRegionDisable != 0 && r.Size < 0x07 {
		errs = append(errs, ErrSubRegion)
	}
	if r.TEX > TEX2 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrTEXLevel, r.TEX))
	}
	if r.Access == 4 || r.Access > PrivROURO {
		errs = append(errs, fmt.Errorf("%w: %d", ErrAccessEncoding, r.Access))
	}
	return errors.Join(errs...)
}

// ValidateStrict is Validate plus base alignment to the region size.
func (r RegionSpec) ValidateStrict() error {
	err := r.Validate()
	if r.Size.Valid() && r.Misaligned() {
		err = errors.Join(err, fmt.Errorf("%w: %#08x not a multiple of %s", ErrMisaligned, r.Base, r.Size))
	}
	return err
}

// Misaligned reports whether Base is not a multiple of the region size.
func (r RegionSpec) Misaligned() bool {
	return !mathx.AlignedTo(uint64(r.Base), r.Size.Bytes())
}

// EffectiveBase is the start address the hardware actually protects.
func (r RegionSpec) EffectiveBase() uint32 {
	return uint32(uint64(r.Base) &^ (r.Size.Bytes() - 1))
}

// Contains reports whether addr falls in an enabled part of the region.
func (r RegionSpec) Contains(addr uint32) bool {
	if !r.Enable || !r.Size.Valid() {
		return false
	}
	base := uint64(r.EffectiveBase())
	a := uint64(addr)
	if a < base || a >= base+r.Size.Bytes() {
		return false
	}
	if r.SubRegionDisable == 0 || r.Size < 0x07 {
		return true
	}
	sub := (a - base) / (r.Size.Bytes() / 8)
	return r.SubRegionDisable&(1<<sub) == 0
}

const (
	rasrEnable = 1 << 0
	rasrSize   = 1
	rasrSRD    = 8
	rasrB      = 1 << 16
	rasrC      = 1 << 17
	rasrS      = 1 << 18
	rasrTEX    = 19
	rasrAP     = 24
	rasrXN     = 1 << 28

	rbarAddrMask = 0xFFFFFFE0
)

// Encode produces the words written after selecting the region in RNR.
func (r RegionSpec) Encode() hw.MPURegion {
	rasr := uint32(r.Size&0x1F)<<rasrSize |
		uint32(r.SubRegionDisable)<<rasrSRD |
		uint32(r.TEX&0x7)<<rasrTEX |
		uint32(r.Access&0x7)<<rasrAP
	if r.Enable {
		rasr |= rasrEnable
	}
	if r.Bufferable {
		rasr |= rasrB
	}
	if r.Cacheable {
		rasr |= rasrC
	}
	if r.Shareable {
		rasr |= rasrS
	}
	if r.ExecuteNever {
		rasr |= rasrXN
	}
	return hw.MPURegion{
		Number: r.Number,
		RBAR:   r.Base & rbarAddrMask,
		RASR:   rasr,
	}
}

// Decode is the inverse of Encode.
func Decode(w hw.MPURegion) RegionSpec {
	return RegionSpec{
		Number:           w.Number,
		Enable:           w.RASR&rasrEnable != 0,
		Base:             w.RBAR & rbarAddrMask,
		Size:             SizeCode(w.RASR >> rasrSize & 0x1F),
		Access:           AccessPermission(w.RASR >> rasrAP & 0x7),
		Bufferable:       w.RASR&rasrB != 0,
		Cacheable:        w.RASR&rasrC != 0,
		Shareable:        w.RASR&rasrS != 0,
		ExecuteNever:     w.RASR&rasrXN != 0,
		TEX:              TEXLevel(w.RASR >> rasrTEX & 0x7),
		SubRegionDisable: uint8(w.RASR >> rasrSRD),
	}
}

// CachePolicy is the memory type selected by TEX/C/B.
type CachePolicy uint8

const (
	StronglyOrdered CachePolicy = iota
	Device
	WriteThrough
	WriteBack
	WriteBackAllocate
	NonCacheable
	Reserved
)

func (c CachePolicy) String() string {
	return [...]string{"strongly_ordered", "device", "write_through", "write_back",
		"write_back_allocate", "non_cacheable", "reserved"}[c]
}

// CoherentForDMA reports whether CPU writes reach memory without explicit
// cache maintenance, so another bus master reading the region sees them.
func (c CachePolicy) CoherentForDMA() bool {
	return c != WriteBack && c != WriteBackAllocate && c != Reserved
}

// Policy decodes the TEX/C/B triple (ARMv7-M ARM table B3-13, TEX < 4).
func (r RegionSpec) Policy() CachePolicy {
	switch {
	case r.TEX == TEX0 && !r.Cacheable && !r.Bufferable:
		return StronglyOrdered
	case r.TEX == TEX0 && !r.Cacheable && r.Bufferable:
		return Device
	case r.TEX == TEX0 && r.Cacheable && !r.Bufferable:
		return WriteThrough
	case r.TEX == TEX0 && r.Cacheable && r.Bufferable:
		return WriteBack
	case r.TEX == TEX1 && !r.Cacheable && !r.Bufferable:
		return NonCacheable
	case r.TEX == TEX1 && r.Cacheable && r.Bufferable:
		return WriteBackAllocate
	case r.TEX == TEX2 && !r.Cacheable && !r.Bufferable:
		return Device
	default:
		return Reserved
	}
}

func (r RegionSpec) String() string {
	return fmt.Sprintf("region %d: %#08x %s %s %s xn=%v shareable=%v",
		r.Number, r.Base, r.Size, r.Access, r.Policy(), r.ExecuteNever, r.Shareable)
}
