package system

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/safemath"
	"k8s.io/klog/v2"
)

// Process executes a system instruction against live account views. It
// has the signature of a simulated program entrypoint. Nonce instructions
// need sysvar state the simulator does not model and are rejected.
func Process(programID solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error {
	if programID != ProgramID {
		return runtime.ErrIncorrectProgramId
	}

	_, instr, err := Decode(data)
	if err != nil {
		return err
	}

	signers := make(map[solana.PublicKey]struct{}, len(infos))
	for _, info := range infos {
		if info.IsSigner() {
			signers[info.Key()] = struct{}{}
		}
	}

	switch ix := instr.(type) {
	case *InstrCreateAccount:
		if err := checkNumAccounts(infos, 2); err != nil {
			return err
		}
		return createAccount(infos[0], infos[1], infos[1].Key(), ix.Lamports, ix.Space, ix.Owner, signers)

	case *InstrAssign:
		if err := checkNumAccounts(infos, 1); err != nil {
			return err
		}
		return assign(infos[0], infos[0].Key(), ix.Owner, signers)

	case *InstrTransfer:
		if err := checkNumAccounts(infos, 2); err != nil {
			return err
		}
		return transfer(infos[0], infos[1], ix.Lamports)

	case *InstrCreateAccountWithSeed:
		if err := checkNumAccounts(infos, 2); err != nil {
			return err
		}
		if err := checkAddressWithSeed(infos[1], ix.Base, ix.Seed, ix.Owner); err != nil {
			return err
		}
		return createAccount(infos[0], infos[1], ix.Base, ix.Lamports, ix.Space, ix.Owner, signers)

	case *InstrAllocate:
		if err := checkNumAccounts(infos, 1); err != nil {
			return err
		}
		return allocate(infos[0], infos[0].Key(), ix.Space, signers)

	case *InstrAllocateWithSeed:
		if err := checkNumAccounts(infos, 2); err != nil {
			return err
		}
		if err := checkAddressWithSeed(infos[0], ix.Base, ix.Seed, ix.Owner); err != nil {
			return err
		}
		return allocateAndAssign(infos[0], ix.Base, ix.Space, ix.Owner, signers)

	case *InstrAssignWithSeed:
		if err := checkNumAccounts(infos, 2); err != nil {
			return err
		}
		if err := checkAddressWithSeed(infos[0], ix.Base, ix.Seed, ix.Owner); err != nil {
			return err
		}
		return assign(infos[0], ix.Base, ix.Owner, signers)

	case *InstrTransferWithSeed:
		if err := checkNumAccounts(infos, 3); err != nil {
			return err
		}
		return transferWithSeed(infos[0], infos[1], infos[2], ix.FromSeed, ix.FromOwner, ix.Lamports)

	default:
		klog.V(2).Infof("system: %T is not supported by the simulator", instr)
		return runtime.ErrInvalidInstructionData
	}
}

func checkNumAccounts(infos []*accounts.AccountInfo, n int) error {
	if len(infos) < n {
		return runtime.ErrNotEnoughAccountKeys
	}
	return nil
}

func checkAddressWithSeed(acct *accounts.AccountInfo, base solana.PublicKey, seed string, owner solana.PublicKey) error {
	derived, err := pda.CreateWithSeed(base, seed, owner)
	if err != nil {
		return err
	}
	if acct.Key() != derived {
		klog.Errorf("Create: address %s does not match derived address %s", acct.Key(), derived)
		return ErrAddressWithSeedMismatch
	}
	return nil
}

func isSigner(signers map[solana.PublicKey]struct{}, key solana.PublicKey) bool {
	_, ok := signers[key]
	return ok
}

func createAccount(from, to *accounts.AccountInfo, authority solana.PublicKey, lamports, space uint64, owner solana.PublicKey, signers map[solana.PublicKey]struct{}) error {
	if to.Lamports() > 0 {
		klog.Errorf("CreateAccount: account %s already in use (non-zero lamports)", to.Key())
		return ErrAccountAlreadyInUse
	}
	if err := allocateAndAssign(to, authority, space, owner, signers); err != nil {
		return err
	}
	if !from.IsSigner() {
		return runtime.ErrMissingRequiredSignature
	}
	return transfer(from, to, lamports)
}

func allocateAndAssign(acct *accounts.AccountInfo, authority solana.PublicKey, space uint64, owner solana.PublicKey, signers map[solana.PublicKey]struct{}) error {
	if err := allocate(acct, authority, space, signers); err != nil {
		return err
	}
	return assign(acct, authority, owner, signers)
}

func allocate(acct *accounts.AccountInfo, authority solana.PublicKey, space uint64, signers map[solana.PublicKey]struct{}) error {
	if !isSigner(signers, authority) {
		klog.Errorf("Allocate: 'to' account %s must sign", authority)
		return runtime.ErrMissingRequiredSignature
	}
	if !acct.DataIsEmpty() || !acct.IsOwnedBy(ProgramID) {
		klog.Errorf("Allocate: account %s already in use", acct.Key())
		return ErrAccountAlreadyInUse
	}
	if space > MaxPermittedDataLen {
		klog.Errorf("Allocate: requested %d, max allowed %d", space, MaxPermittedDataLen)
		return ErrInvalidAccountDataLength
	}
	if !acct.IsWritable() {
		return runtime.ErrInvalidArgument
	}
	return acct.Resize(int(space))
}

func assign(acct *accounts.AccountInfo, authority solana.PublicKey, owner solana.PublicKey, signers map[solana.PublicKey]struct{}) error {
	if acct.IsOwnedBy(owner) {
		return nil
	}
	if !isSigner(signers, authority) {
		klog.Errorf("Assign: account %s must sign", authority)
		return runtime.ErrMissingRequiredSignature
	}
	if !acct.IsWritable() {
		return runtime.ErrInvalidArgument
	}
	if err := acct.CheckBorrowMutData(); err != nil {
		return err
	}
	acct.Assign(owner)
	return nil
}

func transferWithSeed(from, base, to *accounts.AccountInfo, seed string, fromOwner solana.PublicKey, lamports uint64) error {
	if !base.IsSigner() {
		klog.Errorf("Transfer: from account must sign")
		return runtime.ErrMissingRequiredSignature
	}
	if err := checkAddressWithSeed(from, base.Key(), seed, fromOwner); err != nil {
		return err
	}
	return transferUnsigned(from, to, lamports)
}

func transfer(from, to *accounts.AccountInfo, lamports uint64) error {
	if !from.IsSigner() {
		return runtime.ErrMissingRequiredSignature
	}
	return transferUnsigned(from, to, lamports)
}

// transferUnsigned releases the source borrow before taking the
// destination, so from and to may be views of one account.
func transferUnsigned(from, to *accounts.AccountInfo, lamports uint64) error {
	if !from.DataIsEmpty() {
		klog.Errorf("Transfer: 'from' must not carry data")
		return runtime.ErrInvalidArgument
	}
	if !from.IsWritable() || !to.IsWritable() {
		return runtime.ErrInvalidArgument
	}

	if err := to.CheckBorrowMutLamports(); err != nil {
		return err
	}
	if !from.SameAccount(to) {
		if _, err := safemath.CheckedAddU64(to.Lamports(), lamports); err != nil {
			return runtime.ErrArithmeticOverflow
		}
	}

	src, err := from.TryBorrowMutLamports()
	if err != nil {
		return err
	}
	balance := src.Value()
	if lamports > *balance {
		src.Release()
		klog.Errorf("Transfer: insufficient lamports %d, need %d", *balance, lamports)
		return ErrResultWithNegativeLamports
	}
	*balance -= lamports
	src.Release()

	dst, err := to.TryBorrowMutLamports()
	if err != nil {
		return err
	}
	defer dst.Release()

	sum, err := safemath.CheckedAddU64(*dst.Value(), lamports)
	if err != nil {
		return runtime.ErrArithmeticOverflow
	}
	*dst.Value() = sum
	return nil
}
