// Package sealevel is an in-process implementation of the host side of
// the program ABI. It services the syscalls a runtime.HostRuntime issues,
// including nested cross-program calls into registered Go programs.
package sealevel

import (
	"go.firedancer.io/quartz/pkg/cu"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/sbpf"
)

// Host dispatches syscalls for one execution frame.
type Host struct {
	Syscalls sbpf.SyscallRegistry
	Ctx      *ExecutionCtx
}

var _ runtime.Host = (*Host)(nil)

func NewHost(ctx *ExecutionCtx) *Host {
	return &Host{Syscalls: Syscalls(), Ctx: ctx}
}

func (h *Host) Syscall(mem *sbpf.MemoryMap, hash uint32, r1, r2, r3, r4, r5 uint64) (uint64, error) {
	vm := &hostVM{MemoryMap: mem, ctx: h.Ctx}
	return h.Syscalls.Dispatch(vm, hash, r1, r2, r3, r4, r5)
}

// hostVM exposes a call frame's memory map as the calling VM.
type hostVM struct {
	*sbpf.MemoryMap
	ctx *ExecutionCtx
}

func (v *hostVM) VMContext() any {
	return v.ctx
}

func (v *hostVM) ComputeMeter() *cu.ComputeMeter {
	return v.ctx.ComputeMeter
}

func executionCtx(vm sbpf.VM) *ExecutionCtx {
	return vm.VMContext().(*ExecutionCtx)
}
