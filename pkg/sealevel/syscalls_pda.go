package sealevel

import (
	"errors"

	bin "github.com/gagliardetto/binary"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/safemath"
	"go.firedancer.io/quartz/pkg/sbpf"
)

func translateSeeds(vm sbpf.VM, seedsAddr, seedsLen uint64) ([][]byte, error) {
	size := safemath.SaturatingMulU64(seedsLen, runtime.SolSignerSeedSize)
	seedsData, err := vm.Translate(seedsAddr, size, false)
	if err != nil {
		return nil, err
	}

	decoder := bin.NewBinDecoder(seedsData)
	seeds := make([][]byte, 0, seedsLen)
	for count := uint64(0); count < seedsLen; count++ {
		var vec VectorDescrC
		if err = vec.UnmarshalWithDecoder(decoder); err != nil {
			return nil, err
		}
		if vec.Len > pda.MaxSeedLen {
			return nil, SyscallErrMaxSeedLengthExceeded
		}

		data, err := vm.Translate(vec.Addr, vec.Len, false)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, data)
	}
	return seeds, nil
}

func translateAndValidateSeeds(vm sbpf.VM, seedsAddr, seedsLen uint64) ([][]byte, error) {
	if seedsLen > pda.MaxSeeds {
		return nil, SyscallErrMaxSeedLengthExceeded
	}
	return translateSeeds(vm, seedsAddr, seedsLen)
}

func SyscallCreateProgramAddressImpl(vm sbpf.VM, seedsAddr, seedsLen, programIDAddr, addressAddr uint64) (uint64, error) {
	execCtx := executionCtx(vm)
	if err := execCtx.ComputeMeter.Consume(CUCreateProgramAddressUnits); err != nil {
		return syscallCuErr()
	}

	seeds, err := translateAndValidateSeeds(vm, seedsAddr, seedsLen)
	if err != nil {
		return syscallErr(err)
	}
	programID, err := vm.Translate(programIDAddr, 32, false)
	if err != nil {
		return syscallErr(err)
	}

	newAddress, err := pda.CreateProgramAddressBytes(seeds, programID)
	if err != nil {
		return syscallSuccess(1)
	}

	if err = vm.Write(addressAddr, newAddress); err != nil {
		return syscallErr(err)
	}
	return syscallSuccess(0)
}

var SyscallCreateProgramAddress = sbpf.SyscallFunc4(SyscallCreateProgramAddressImpl)

func SyscallTryFindProgramAddressImpl(vm sbpf.VM, seedsAddr, seedsLen, programIDAddr, addressAddr, bumpSeedAddr uint64) (uint64, error) {
	execCtx := executionCtx(vm)

	seeds, err := translateAndValidateSeeds(vm, seedsAddr, seedsLen)
	if err != nil {
		return syscallErr(err)
	}
	programIDMem, err := vm.Translate(programIDAddr, 32, false)
	if err != nil {
		return syscallErr(err)
	}
	var programID [32]byte
	copy(programID[:], programIDMem)

	addr, bump, err := pda.FindProgramAddress(seeds, programID, func() error {
		return execCtx.ComputeMeter.Consume(CUCreateProgramAddressUnits)
	})
	switch {
	case errors.Is(err, pda.ErrInvalidSeeds), errors.Is(err, pda.ErrTooManySeeds):
		return syscallSuccess(1)
	case err != nil:
		return syscallErr(err)
	}

	if !isNonOverlapping(bumpSeedAddr, 1, addressAddr, 32) {
		return syscallErr(SyscallErrCopyOverlapping)
	}
	if err = vm.Write8(bumpSeedAddr, bump); err != nil {
		return syscallErr(err)
	}
	if err = vm.Write(addressAddr, addr[:]); err != nil {
		return syscallErr(err)
	}
	return syscallSuccess(0)
}

var SyscallTryFindProgramAddress = sbpf.SyscallFunc5(SyscallTryFindProgramAddressImpl)
