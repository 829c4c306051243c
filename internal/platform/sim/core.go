package sim

import (
	"fmt"
	"sort"

	"bringup-go/internal/hw"
	"bringup-go/internal/mpu"
	"bringup-go/x/strx"
)

// ---- MPU ----

type mpuBlock struct {
	m       *Machine
	enabled bool
	ctrl    hw.MPUControl
	regions map[uint8]hw.MPURegion
}

func (b *mpuBlock) Disable() {
	b.enabled = false
	b.m.record("mpu", "disable", "")
}

func (b *mpuBlock) ConfigureRegion(r hw.MPURegion) {
	if b.enabled {
		b.m.violate("mpu region %d written while enabled", r.Number)
	}
	if r.Number >= mpu.MaxRegions {
		b.m.violate("mpu region %d out of range", r.Number)
		return
	}
	if b.regions == nil {
		b.regions = make(map[uint8]hw.MPURegion)
	}
	b.regions[r.Number] = r
	b.m.record("mpu", "region", fmt.Sprintf("%d rbar=%s rasr=%s", r.Number, strx.Hex32(r.RBAR), strx.Hex32(r.RASR)))
}

func (b *mpuBlock) Enable(ctrl hw.MPUControl) {
	b.enabled = true
	b.ctrl = ctrl
	b.m.record("mpu", "enable", fmt.Sprintf("ctrl=%#x", uint32(ctrl)))
}

// MPUPolicy decodes the programmed regions, ordered by number.
func (m *Machine) MPUPolicy() mpu.Policy {
	p := mpu.Policy{Control: m.mpu.ctrl}
	nums := make([]int, 0, len(m.mpu.regions))
	for n := range m.mpu.regions {
		nums = append(nums, int(n))
	}
	sort.Ints(nums)
	for _, n := range nums {
		p.Regions = append(p.Regions, mpu.Decode(m.mpu.regions[uint8(n)]))
	}
	return p
}

func (m *Machine) MPUEnabled() bool { return m.mpu.enabled }

// ---- L1 caches ----

type cacheBlock struct {
	m        *Machine
	ic, dc   bool
	ienables int
	denables int
}

func (b *cacheBlock) EnableICache() {
	if b.ic {
		return
	}
	b.checkMPU("icache")
	b.ic = true
	b.ienables++
	b.m.record("cache", "icache_on", "")
}

func (b *cacheBlock) EnableDCache() {
	if b.dc {
		return
	}
	b.checkMPU("dcache")
	b.dc = true
	b.denables++
	b.m.record("cache", "dcache_on", "")
}

func (b *cacheBlock) checkMPU(which string) {
	if !b.m.mpu.enabled {
		b.m.violate("%s enabled before the MPU map", which)
	}
}

func (b *cacheBlock) ICacheEnabled() bool { return b.ic }
func (b *cacheBlock) DCacheEnabled() bool { return b.dc }

// CacheEnables counts effective enable operations per cache.
func (m *Machine) CacheEnables() (icache, dcache int) {
	return m.cache.ienables, m.cache.denables
}

// ---- HAL substrate ----

type platformBlock struct {
	m         *Machine
	art       bool
	group     hw.PriorityGroup
	tickHz    uint32
	tickPrio  uint8
	tickOn    bool
	tickStart uint64
}

func (b *platformBlock) EnableFlashAccelerator() {
	b.art = true
	b.m.record("flash", "accelerator_on", "")
}

func (b *platformBlock) SetPriorityGrouping(g hw.PriorityGroup) {
	b.group = g
	b.m.record("nvic", "priority_group", fmt.Sprint(uint32(g)))
}

// InitTick arms a 1 kHz tick; the model has millisecond resolution only.
func (b *platformBlock) InitTick(hz uint32, priority uint8) error {
	if b.m.opt.Faults.Has(TickFail) {
		b.m.record("systick", "init_failed", "")
		return hw.ErrNotReady
	}
	if hz != 1000 || priority > hw.LowestPriority {
		return hw.ErrInvalidParam
	}
	b.tickHz, b.tickPrio = hz, priority
	if !b.tickOn {
		b.tickOn = true
		b.tickStart = b.m.now
	}
	b.m.record("systick", "init", fmt.Sprintf("%dHz prio=%d", hz, priority))
	return nil
}

// tick is the kernel tick counter: ms since the tick was armed, wrapping.
func (m *Machine) tick() hw.Tick {
	if !m.plat.tickOn {
		return 0
	}
	return hw.Tick(m.now - m.plat.tickStart)
}

// tickToTime converts a tick value at or after the current one into
// virtual time.
func (m *Machine) tickToTime(t hw.Tick) uint64 {
	return m.now + uint64(t-m.tick())
}

// TickPriority is the configured SysTick priority.
func (m *Machine) TickPriority() uint8 { return m.plat.tickPrio }

// PriorityGroup is the configured NVIC grouping.
func (m *Machine) PriorityGroup() hw.PriorityGroup { return m.plat.group }

func (m *Machine) FlashAccelerator() bool { return m.plat.art }
