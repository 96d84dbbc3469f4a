package sbpf

import (
	"fmt"

	"go.firedancer.io/quartz/pkg/cu"
)

// Virtual address layout of the sBPF memory map. The high 32 bits select
// the region.
const (
	VaddrProgram = uint64(0x1_0000_0000)
	VaddrStack   = uint64(0x2_0000_0000)
	VaddrHeap    = uint64(0x3_0000_0000)
	VaddrInput   = uint64(0x4_0000_0000)
)

// VM is the view a syscall has of the calling program.
type VM interface {
	VMContext() any
	ComputeMeter() *cu.ComputeMeter

	Translate(addr uint64, size uint64, write bool) ([]byte, error)
	Read(addr uint64, p []byte) error
	Read8(addr uint64) (uint8, error)
	Read32(addr uint64) (uint32, error)
	Read64(addr uint64) (uint64, error)
	Write(addr uint64, p []byte) error
	Write8(addr uint64, x uint8) error
	Write32(addr uint64, x uint32) error
	Write64(addr uint64, x uint64) error
}

// Exception is a fault raised while servicing guest memory or syscalls.
type Exception struct {
	Detail error
}

func (e *Exception) Error() string {
	return fmt.Sprintf("exception: %s", e.Detail)
}

func (e *Exception) Unwrap() error {
	return e.Detail
}

type ExcBadAccess struct {
	Addr   uint64
	Size   uint64
	Write  bool
	Reason string
}

func NewExcBadAccess(addr uint64, size uint64, write bool, reason string) *Exception {
	return &Exception{Detail: ExcBadAccess{Addr: addr, Size: size, Write: write, Reason: reason}}
}

func (e ExcBadAccess) Error() string {
	kind := "read"
	if e.Write {
		kind = "write"
	}
	return fmt.Sprintf("bad memory access (%s %d bytes at %#x): %s", kind, e.Size, e.Addr, e.Reason)
}
