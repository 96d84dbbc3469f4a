package sealevel

import (
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/sbpf"
)

// Syscalls creates a registry of the syscalls the reference host serves.
func Syscalls() sbpf.SyscallRegistry {
	reg := sbpf.NewSyscallRegistry()
	reg.Register(runtime.SyscallLog, SyscallLog)
	reg.Register(runtime.SyscallLog64, SyscallLog64)
	reg.Register(runtime.SyscallLogPubkey, SyscallLogPubkey)
	reg.Register(runtime.SyscallLogComputeUnits, SyscallLogCUs)
	reg.Register(runtime.SyscallLogData, SyscallLogData)

	reg.Register(runtime.SyscallMemcpy, SyscallMemcpy)
	reg.Register(runtime.SyscallMemcmp, SyscallMemcmp)
	reg.Register(runtime.SyscallMemset, SyscallMemset)
	reg.Register(runtime.SyscallMemmove, SyscallMemmove)

	reg.Register(runtime.SyscallCreateProgramAddress, SyscallCreateProgramAddress)
	reg.Register(runtime.SyscallTryFindProgramAddress, SyscallTryFindProgramAddress)

	// Nested frames rebuild the registry from inside this handler.
	reg.Register(runtime.SyscallInvokeSignedC, sbpf.SyscallFunc5(SyscallInvokeSignedCImpl))
	return reg
}
