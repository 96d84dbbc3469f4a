package sbpf

import (
	"encoding/binary"
	"unsafe"

	"go.firedancer.io/quartz/pkg/util"
)

// Region is a span of host memory exposed to the guest at VA.
type Region struct {
	VA       uint64
	Mem      []byte
	Writable bool
}

// MemoryMap translates guest virtual addresses onto host memory. Mapping
// never copies: guest writes land directly in the mapped slices.
type MemoryMap struct {
	regions []Region
	next    uint64
}

func NewMemoryMap() *MemoryMap {
	return &MemoryMap{next: VaddrInput}
}

// Map exposes mem in the input region and returns its guest address. Memory
// that lies within an already mapped region resolves to the existing
// mapping, so aliasing host slices alias in guest space as well.
func (m *MemoryMap) Map(mem []byte, writable bool) uint64 {
	if va, ok := m.alias(mem, writable); ok {
		return va
	}
	va := m.next
	m.regions = append(m.regions, Region{VA: va, Mem: mem, Writable: writable})
	m.next = util.AlignUp(va+uint64(len(mem))+1, 8)
	return va
}

// MapAt exposes mem at a fixed guest address. The caller keeps fixed
// mappings disjoint from each other.
func (m *MemoryMap) MapAt(va uint64, mem []byte, writable bool) {
	m.regions = append(m.regions, Region{VA: va, Mem: mem, Writable: writable})
}

func (m *MemoryMap) Regions() []Region {
	return m.regions
}

func (m *MemoryMap) alias(mem []byte, writable bool) (uint64, bool) {
	if len(mem) == 0 {
		return 0, false
	}
	p := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	for i := range m.regions {
		r := &m.regions[i]
		if len(r.Mem) == 0 {
			continue
		}
		base := uintptr(unsafe.Pointer(unsafe.SliceData(r.Mem)))
		if p >= base && p+uintptr(len(mem)) <= base+uintptr(len(r.Mem)) {
			r.Writable = r.Writable || writable
			return r.VA + uint64(p-base), true
		}
	}
	return 0, false
}

func (m *MemoryMap) Translate(addr uint64, size uint64, write bool) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}

	for i := range m.regions {
		r := &m.regions[i]
		if addr < r.VA || addr-r.VA >= uint64(len(r.Mem)) {
			continue
		}
		off := addr - r.VA
		if size > uint64(len(r.Mem))-off {
			return nil, NewExcBadAccess(addr, size, write, "out-of-bounds access")
		}
		if write && !r.Writable {
			return nil, NewExcBadAccess(addr, size, write, "write to read-only region")
		}
		return r.Mem[off : off+size : off+size], nil
	}

	return nil, NewExcBadAccess(addr, size, write, "unmapped region")
}

func (m *MemoryMap) Read(addr uint64, p []byte) error {
	mem, err := m.Translate(addr, uint64(len(p)), false)
	if err != nil {
		return err
	}
	copy(p, mem)
	return nil
}

func (m *MemoryMap) Read8(addr uint64) (uint8, error) {
	mem, err := m.Translate(addr, 1, false)
	if err != nil {
		return 0, err
	}
	return mem[0], nil
}

func (m *MemoryMap) Read32(addr uint64) (uint32, error) {
	mem, err := m.Translate(addr, 4, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(mem), nil
}

func (m *MemoryMap) Read64(addr uint64) (uint64, error) {
	mem, err := m.Translate(addr, 8, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(mem), nil
}

func (m *MemoryMap) Write(addr uint64, p []byte) error {
	mem, err := m.Translate(addr, uint64(len(p)), true)
	if err != nil {
		return err
	}
	copy(mem, p)
	return nil
}

func (m *MemoryMap) Write8(addr uint64, x uint8) error {
	mem, err := m.Translate(addr, 1, true)
	if err != nil {
		return err
	}
	mem[0] = x
	return nil
}

func (m *MemoryMap) Write32(addr uint64, x uint32) error {
	mem, err := m.Translate(addr, 4, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(mem, x)
	return nil
}

func (m *MemoryMap) Write64(addr uint64, x uint64) error {
	mem, err := m.Translate(addr, 8, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(mem, x)
	return nil
}
