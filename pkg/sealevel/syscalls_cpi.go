package sealevel

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/safemath"
	"go.firedancer.io/quartz/pkg/sbpf"
	"k8s.io/klog/v2"
)

func translateInstructionC(vm sbpf.VM, addr uint64) (instruction.Instruction, error) {
	ixData, err := vm.Translate(addr, runtime.SolInstructionSize, false)
	if err != nil {
		return instruction.Instruction{}, err
	}

	var ix SolInstruction
	if err = ix.UnmarshalWithDecoder(bin.NewBinDecoder(ixData)); err != nil {
		return instruction.Instruction{}, err
	}
	if ix.AccountsLen > runtime.MaxCpiInstructionAccounts {
		return instruction.Instruction{}, SyscallErrTooManyAccounts
	}
	if ix.DataLen > runtime.MaxCpiInstructionDataLen {
		return instruction.Instruction{}, SyscallErrInstructionTooLarge
	}

	programID := new(solana.PublicKey)
	if err = vm.Read(ix.ProgramIDAddr, programID[:]); err != nil {
		return instruction.Instruction{}, err
	}

	metasData, err := vm.Translate(ix.AccountsAddr, ix.AccountsLen*runtime.SolAccountMetaSize, false)
	if err != nil {
		return instruction.Instruction{}, err
	}
	decoder := bin.NewBinDecoder(metasData)
	metas := make([]instruction.AccountMeta, ix.AccountsLen)
	for i := range metas {
		var am SolAccountMeta
		if err = am.UnmarshalWithDecoder(decoder); err != nil {
			return instruction.Instruction{}, err
		}
		if metas[i].IsSigner, err = toBool(am.IsSigner); err != nil {
			return instruction.Instruction{}, err
		}
		if metas[i].IsWritable, err = toBool(am.IsWritable); err != nil {
			return instruction.Instruction{}, err
		}
		if err = vm.Read(am.PubkeyAddr, metas[i].Pubkey[:]); err != nil {
			return instruction.Instruction{}, err
		}
	}

	data := make([]byte, ix.DataLen)
	if err = vm.Read(ix.DataAddr, data); err != nil {
		return instruction.Instruction{}, err
	}

	return instruction.Instruction{ProgramID: programID, Accounts: metas, Data: data}, nil
}

// translateSigners derives the addresses the calling program signs for.
func translateSigners(vm sbpf.VM, programID solana.PublicKey, signersSeedsAddr, signersSeedsLen uint64) ([]solana.PublicKey, error) {
	if signersSeedsLen == 0 {
		return nil, nil
	}
	if signersSeedsLen > runtime.MaxSigners {
		return nil, SyscallErrTooManySigners
	}

	ssLen := safemath.SaturatingMulU64(signersSeedsLen, runtime.SolSignerSeedsSize)
	signerSeedsMem, err := vm.Translate(signersSeedsAddr, ssLen, false)
	if err != nil {
		return nil, err
	}

	decoder := bin.NewBinDecoder(signerSeedsMem)
	pdas := make([]solana.PublicKey, 0, signersSeedsLen)
	for count := uint64(0); count < signersSeedsLen; count++ {
		var signer VectorDescrC
		if err = signer.UnmarshalWithDecoder(decoder); err != nil {
			return nil, err
		}
		if signer.Len > pda.MaxSeeds {
			return nil, SyscallErrMaxSeedLengthExceeded
		}

		seeds, err := translateSeeds(vm, signer.Addr, signer.Len)
		if err != nil {
			return nil, err
		}
		addr, err := pda.CreateProgramAddress(seeds, programID)
		if err != nil {
			return nil, err
		}
		pdas = append(pdas, addr)
	}
	return pdas, nil
}

// callerAccount is an account the caller passed in, together with the
// callee side copy of its state.
type callerAccount struct {
	infoAddrs    []uint64
	lamportsAddr uint64
	dataAddr     uint64
	ownerAddr    uint64
	isSigner     bool
	isWritable   bool

	view           *accounts.AccountInfo
	calleeWritable bool
}

func translateAccountInfosC(vm sbpf.VM, addr, n uint64) ([]*callerAccount, error) {
	if n > runtime.MaxCpiAccountInfos {
		return nil, SyscallErrTooManyAccounts
	}
	mem, err := vm.Translate(addr, n*runtime.SolAccountInfoSize, false)
	if err != nil {
		return nil, err
	}

	decoder := bin.NewBinDecoder(mem)
	var out []*callerAccount
	for i := uint64(0); i < n; i++ {
		var info SolAccountInfo
		if err = info.UnmarshalWithDecoder(decoder); err != nil {
			return nil, err
		}

		var key solana.PublicKey
		if err = vm.Read(info.KeyAddr, key[:]); err != nil {
			return nil, err
		}
		isSigner, err := toBool(info.IsSigner)
		if err != nil {
			return nil, err
		}
		isWritable, err := toBool(info.IsWritable)
		if err != nil {
			return nil, err
		}

		// Accounts passed more than once share one callee side state.
		infoAddr := addr + i*runtime.SolAccountInfoSize
		if dup := findCallerAccount(out, key); dup != nil {
			dup.infoAddrs = append(dup.infoAddrs, infoAddr)
			dup.isSigner = dup.isSigner || isSigner
			dup.isWritable = dup.isWritable || isWritable
			continue
		}

		executable, err := toBool(info.Executable)
		if err != nil {
			return nil, err
		}
		acct := &accounts.Account{Executable: executable, RentEpoch: info.RentEpoch}
		if acct.Lamports, err = vm.Read64(info.LamportsAddr); err != nil {
			return nil, err
		}
		if err = vm.Read(info.OwnerAddr, acct.Owner[:]); err != nil {
			return nil, err
		}
		acct.Data = make([]byte, info.DataLen)
		if err = vm.Read(info.DataAddr, acct.Data); err != nil {
			return nil, err
		}

		out = append(out, &callerAccount{
			infoAddrs:    []uint64{infoAddr},
			lamportsAddr: info.LamportsAddr,
			dataAddr:     info.DataAddr,
			ownerAddr:    info.OwnerAddr,
			isSigner:     isSigner,
			isWritable:   isWritable,
			view:         accounts.NewAccountInfo(key, acct, false, false),
		})
	}
	return out, nil
}

func findCallerAccount(accts []*callerAccount, key solana.PublicKey) *callerAccount {
	for _, a := range accts {
		if a.view.Key() == key {
			return a
		}
	}
	return nil
}

func containsKey(keys []solana.PublicKey, key solana.PublicKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// calleeViews checks that no role is more privileged than the caller's
// account, apart from signers proven by seeds, and returns one view per
// role.
func calleeViews(ix instruction.Instruction, callerAccts []*callerAccount, signers []solana.PublicKey) ([]*accounts.AccountInfo, error) {
	views := make([]*accounts.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		ca := findCallerAccount(callerAccts, meta.Pubkey)
		if ca == nil {
			klog.Errorf("Instruction references an unknown account %s", meta.Pubkey)
			return nil, fmt.Errorf("%w: %s", runtime.ErrMissingAccount, meta.Pubkey)
		}
		if meta.IsWritable && !ca.isWritable {
			klog.Errorf("%s's writable privilege escalated", meta.Pubkey)
			return nil, fmt.Errorf("%w: %s is read-only in caller", runtime.ErrPrivilegeEscalation, meta.Pubkey)
		}
		if meta.IsSigner && !ca.isSigner && !containsKey(signers, meta.Pubkey) {
			klog.Errorf("%s's signer privilege escalated", meta.Pubkey)
			return nil, fmt.Errorf("%w: %s did not sign", runtime.ErrPrivilegeEscalation, meta.Pubkey)
		}
		ca.calleeWritable = ca.calleeWritable || meta.IsWritable
		views[i] = ca.view.View(meta.IsSigner, meta.IsWritable)
	}
	return views, nil
}

// updateCallerAccounts writes the state of every account the callee could
// modify back into the caller's memory.
func updateCallerAccounts(vm sbpf.VM, callerAccts []*callerAccount) error {
	for _, ca := range callerAccts {
		if !ca.calleeWritable {
			continue
		}
		acct := ca.view.Account()
		data, err := vm.Translate(ca.dataAddr, uint64(len(acct.Data)), true)
		if err != nil {
			return runtime.ErrInvalidRealloc
		}
		copy(data, acct.Data)
		if err = vm.Write64(ca.lamportsAddr, acct.Lamports); err != nil {
			return err
		}
		if err = vm.Write(ca.ownerAddr, acct.Owner[:]); err != nil {
			return err
		}
		for _, infoAddr := range ca.infoAddrs {
			if err = vm.Write64(infoAddr+solAccountInfoDataLenOff, uint64(len(acct.Data))); err != nil {
				return err
			}
		}
	}
	return nil
}

// programResult returns err as a program error code where it has one.
func programResult(err error) (uint64, error) {
	if code, ok := runtime.ErrorCode(err); ok {
		return code, nil
	}
	return syscallErr(err)
}

// SyscallInvokeSignedCImpl is an implementation of the sol_invoke_signed_c syscall
func SyscallInvokeSignedCImpl(vm sbpf.VM, instructionAddr, accountInfosAddr, accountInfosLen, signerSeedsAddr, signerSeedsLen uint64) (uint64, error) {
	execCtx := executionCtx(vm)
	if err := execCtx.ComputeMeter.Consume(CUInvokeUnits); err != nil {
		return syscallCuErr()
	}

	ix, err := translateInstructionC(vm, instructionAddr)
	if err != nil {
		return programResult(err)
	}
	if err = execCtx.ComputeMeter.Consume(uint64(len(ix.Data)) / CUCpiBytesPerUnit); err != nil {
		return syscallCuErr()
	}
	programID := *ix.ProgramID

	signers, err := translateSigners(vm, execCtx.ProgramID, signerSeedsAddr, signerSeedsLen)
	if err != nil {
		return programResult(err)
	}

	callerAccts, err := translateAccountInfosC(vm, accountInfosAddr, accountInfosLen)
	if err != nil {
		return programResult(err)
	}

	program, ok := execCtx.Programs[programID]
	if !ok {
		if ca := findCallerAccount(callerAccts, programID); ca != nil && !ca.view.Executable() {
			return syscallErr(fmt.Errorf("%w: %s", runtime.ErrAccountNotExecutable, programID))
		}
		return syscallErr(fmt.Errorf("%w: %s", runtime.ErrUnsupportedProgramId, programID))
	}
	if execCtx.StackHeight+1 > runtime.MaxInvokeStackHeight {
		return syscallErr(runtime.ErrCallDepth)
	}

	views, err := calleeViews(ix, callerAccts, signers)
	if err != nil {
		return syscallErr(err)
	}

	klog.V(2).Infof("CPI %s -> %s, %d accounts, %d signers", execCtx.ProgramID, programID, len(views), len(signers))

	child := execCtx.child(programID)
	execCtx.Log.Log(fmt.Sprintf("Program %s invoke [%d]", programID, child.StackHeight))
	err = program(child.Runtime(), programID, views, ix.Data)
	if err != nil {
		execCtx.Log.Log(fmt.Sprintf("Program %s failed: %v", programID, err))
		return programResult(err)
	}
	execCtx.Log.Log(fmt.Sprintf("Program %s success", programID))

	if err = updateCallerAccounts(vm, callerAccts); err != nil {
		return programResult(err)
	}
	return syscallSuccess(0)
}
