package sealevel

import (
	"go.firedancer.io/quartz/pkg/sbpf"
)

func MemOpConsume(execCtx *ExecutionCtx, n uint64) error {
	cost := n / CUCpiBytesPerUnit
	if cost < CUMemOpBaseCost {
		cost = CUMemOpBaseCost
	}
	return execCtx.ComputeMeter.Consume(cost)
}

func memmoveImplInternal(vm sbpf.VM, dst, src, n uint64) error {
	srcBuf, err := vm.Translate(src, n, false)
	if err != nil {
		return err
	}
	dstBuf, err := vm.Translate(dst, n, true)
	if err != nil {
		return err
	}
	copy(dstBuf, srcBuf)
	return nil
}

// SyscallMemcpyImpl is the implementation of the memcpy (sol_memcpy_) syscall.
// Overlapping src and dst ranges are rejected.
func SyscallMemcpyImpl(vm sbpf.VM, dst, src, n uint64) (uint64, error) {
	if err := MemOpConsume(executionCtx(vm), n); err != nil {
		return syscallCuErr()
	}
	if !isNonOverlapping(src, n, dst, n) {
		return syscallErr(SyscallErrCopyOverlapping)
	}
	if err := memmoveImplInternal(vm, dst, src, n); err != nil {
		return syscallErr(err)
	}
	return syscallSuccess(0)
}

var SyscallMemcpy = sbpf.SyscallFunc3(SyscallMemcpyImpl)

// SyscallMemmoveImpl is the implementation for the memmove (sol_memmove_) syscall.
func SyscallMemmoveImpl(vm sbpf.VM, dst, src, n uint64) (uint64, error) {
	if err := MemOpConsume(executionCtx(vm), n); err != nil {
		return syscallCuErr()
	}
	if err := memmoveImplInternal(vm, dst, src, n); err != nil {
		return syscallErr(err)
	}
	return syscallSuccess(0)
}

var SyscallMemmove = sbpf.SyscallFunc3(SyscallMemmoveImpl)

// SyscallMemcmpImpl is the implementation for the memcmp (sol_memcmp_) syscall.
func SyscallMemcmpImpl(vm sbpf.VM, addr1, addr2, n, resultAddr uint64) (uint64, error) {
	if err := MemOpConsume(executionCtx(vm), n); err != nil {
		return syscallCuErr()
	}

	slice1, err := vm.Translate(addr1, n, false)
	if err != nil {
		return syscallErr(err)
	}
	slice2, err := vm.Translate(addr2, n, false)
	if err != nil {
		return syscallErr(err)
	}

	cmpResult := int32(0)
	for i := uint64(0); i < n; i++ {
		if slice1[i] != slice2[i] {
			cmpResult = int32(slice1[i]) - int32(slice2[i])
			break
		}
	}
	if err = vm.Write32(resultAddr, uint32(cmpResult)); err != nil {
		return syscallErr(err)
	}
	return syscallSuccess(0)
}

var SyscallMemcmp = sbpf.SyscallFunc4(SyscallMemcmpImpl)

// SyscallMemsetImpl is the implementation for the memset (sol_memset_) syscall.
func SyscallMemsetImpl(vm sbpf.VM, dst, c, n uint64) (uint64, error) {
	if err := MemOpConsume(executionCtx(vm), n); err != nil {
		return syscallCuErr()
	}

	mem, err := vm.Translate(dst, n, true)
	if err != nil {
		return syscallErr(err)
	}
	for i := range mem {
		mem[i] = byte(c)
	}
	return syscallSuccess(0)
}

var SyscallMemset = sbpf.SyscallFunc3(SyscallMemsetImpl)
