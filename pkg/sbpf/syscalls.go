package sbpf

import (
	"errors"

	"github.com/spaolacci/murmur3"
)

// ErrUnknownSyscall is returned when no handler is registered for a hash.
var ErrUnknownSyscall = errors.New("unknown syscall")

// SymbolHash returns the murmur3 32-bit hash of a symbol name.
func SymbolHash(s string) uint32 {
	return murmur3.Sum32([]byte(s))
}

// Syscall are callback handles from VM to Go.
type Syscall interface {
	Invoke(vm VM, r1, r2, r3, r4, r5 uint64) (r0 uint64, err error)
}

type SyscallRegistry map[uint32]Syscall

func NewSyscallRegistry() SyscallRegistry {
	return make(SyscallRegistry)
}

func (s SyscallRegistry) Register(name string, syscall Syscall) (hash uint32, ok bool) {
	hash = SymbolHash(name)
	if _, exist := s[hash]; exist {
		return 0, false // collision or duplicate
	}
	s[hash] = syscall
	ok = true
	return
}

func (s SyscallRegistry) ExistsByHash(hash uint32) bool {
	_, exists := s[hash]
	return exists
}

// Dispatch runs the handler registered under hash.
func (s SyscallRegistry) Dispatch(vm VM, hash uint32, r1, r2, r3, r4, r5 uint64) (uint64, error) {
	sc, ok := s[hash]
	if !ok {
		return 0, ErrUnknownSyscall
	}
	return sc.Invoke(vm, r1, r2, r3, r4, r5)
}

// Convenience Methods

type SyscallFunc0 func(vm VM) (r0 uint64, err error)

func (f SyscallFunc0) Invoke(vm VM, _, _, _, _, _ uint64) (r0 uint64, err error) {
	return f(vm)
}

type SyscallFunc1 func(vm VM, r1 uint64) (r0 uint64, err error)

func (f SyscallFunc1) Invoke(vm VM, r1, _, _, _, _ uint64) (r0 uint64, err error) {
	return f(vm, r1)
}

type SyscallFunc2 func(vm VM, r1, r2 uint64) (r0 uint64, err error)

func (f SyscallFunc2) Invoke(vm VM, r1, r2, _, _, _ uint64) (r0 uint64, err error) {
	return f(vm, r1, r2)
}

type SyscallFunc3 func(vm VM, r1, r2, r3 uint64) (r0 uint64, err error)

func (f SyscallFunc3) Invoke(vm VM, r1, r2, r3, _, _ uint64) (r0 uint64, err error) {
	return f(vm, r1, r2, r3)
}

type SyscallFunc4 func(vm VM, r1, r2, r3, r4 uint64) (r0 uint64, err error)

func (f SyscallFunc4) Invoke(vm VM, r1, r2, r3, r4, _ uint64) (r0 uint64, err error) {
	return f(vm, r1, r2, r3, r4)
}

type SyscallFunc5 func(vm VM, r1, r2, r3, r4, r5 uint64) (r0 uint64, err error)

func (f SyscallFunc5) Invoke(vm VM, r1, r2, r3, r4, r5 uint64) (r0 uint64, err error) {
	return f(vm, r1, r2, r3, r4, r5)
}
