package sealevel

import (
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/safemath"
	"go.firedancer.io/quartz/pkg/sbpf"
)

func SyscallLogImpl(vm sbpf.VM, ptr, strlen uint64) (uint64, error) {
	execCtx := executionCtx(vm)

	cost := strlen
	if cost < CUSyscallBaseCost {
		cost = CUSyscallBaseCost
	}
	if err := execCtx.ComputeMeter.Consume(cost); err != nil {
		return syscallCuErr()
	}

	msg, err := vm.Translate(ptr, strlen, false)
	if err != nil {
		return syscallErr(err)
	}
	execCtx.Log.Log("Program log: " + string(msg))
	return syscallSuccess(0)
}

var SyscallLog = sbpf.SyscallFunc2(SyscallLogImpl)

func SyscallLog64Impl(vm sbpf.VM, r1, r2, r3, r4, r5 uint64) (uint64, error) {
	execCtx := executionCtx(vm)
	if err := execCtx.ComputeMeter.Consume(CULog64Units); err != nil {
		return syscallCuErr()
	}

	execCtx.Log.Log(fmt.Sprintf("Program log: %#x, %#x, %#x, %#x, %#x", r1, r2, r3, r4, r5))
	return syscallSuccess(0)
}

var SyscallLog64 = sbpf.SyscallFunc5(SyscallLog64Impl)

func SyscallLogCUsImpl(vm sbpf.VM) (uint64, error) {
	execCtx := executionCtx(vm)
	if err := execCtx.ComputeMeter.Consume(CUSyscallBaseCost); err != nil {
		return syscallCuErr()
	}

	execCtx.Log.Log(fmt.Sprintf("Program consumption: %d units remaining", execCtx.ComputeMeter.Remaining()))
	return syscallSuccess(0)
}

var SyscallLogCUs = sbpf.SyscallFunc0(SyscallLogCUsImpl)

func SyscallLogPubkeyImpl(vm sbpf.VM, pubkeyAddr uint64) (uint64, error) {
	execCtx := executionCtx(vm)
	if err := execCtx.ComputeMeter.Consume(CULogPubkeyUnits); err != nil {
		return syscallCuErr()
	}

	var pubkey solana.PublicKey
	if err := vm.Read(pubkeyAddr, pubkey[:]); err != nil {
		return syscallErr(err)
	}

	execCtx.Log.Log("Program log: " + pubkey.String())
	return syscallSuccess(0)
}

var SyscallLogPubkey = sbpf.SyscallFunc1(SyscallLogPubkeyImpl)

func SyscallLogDataImpl(vm sbpf.VM, addr uint64, n uint64) (uint64, error) {
	execCtx := executionCtx(vm)
	if err := execCtx.ComputeMeter.Consume(CUSyscallBaseCost); err != nil {
		return syscallCuErr()
	}

	size, err := safemath.CheckedMulU64(n, 16)
	if err != nil {
		return syscallErr(err)
	}
	mem, err := vm.Translate(addr, size, false)
	if err != nil {
		return syscallErr(err)
	}

	if err = execCtx.ComputeMeter.Consume(safemath.SaturatingMulU64(n, CUSyscallBaseCost)); err != nil {
		return syscallCuErr()
	}

	decoder := bin.NewBinDecoder(mem)
	fields := make([]string, 0, n)
	for count := uint64(0); count < n; count++ {
		var vec VectorDescrC
		if err = vec.UnmarshalWithDecoder(decoder); err != nil {
			return syscallErr(err)
		}
		if err = execCtx.ComputeMeter.Consume(vec.Len); err != nil {
			return syscallCuErr()
		}

		data, err := vm.Translate(vec.Addr, vec.Len, false)
		if err != nil {
			return syscallErr(err)
		}
		fields = append(fields, base64.StdEncoding.EncodeToString(data))
	}

	execCtx.Log.Log("Program data: " + strings.Join(fields, " "))
	return syscallSuccess(0)
}

var SyscallLogData = sbpf.SyscallFunc2(SyscallLogDataImpl)
