package accounts

import (
	"github.com/gagliardetto/solana-go"
)

// MaxPermittedDataIncrease is how far an account's data may grow past the
// length it had when its view was created.
const MaxPermittedDataIncrease = 10 * 1024

const (
	borrowFree      = 0
	borrowMaxShared = 0xFE
	borrowExclusive = 0xFF
)

type accountState struct {
	key            solana.PublicKey
	acct           *Account
	originalLen    int
	dataBorrow     uint8
	lamportsBorrow uint8
}

// AccountInfo is a live view over account state. Views created with View or
// Clone share the underlying state and borrow bookkeeping, so a borrow taken
// through one view is visible through every other. Views are not safe for
// concurrent use.
type AccountInfo struct {
	state      *accountState
	isSigner   bool
	isWritable bool
}

// NewAccountInfo wraps acct in a view. Writes through the view land in acct.
// The data slice is regrown if needed so that it carries
// MaxPermittedDataIncrease bytes of spare capacity.
func NewAccountInfo(key solana.PublicKey, acct *Account, isSigner, isWritable bool) *AccountInfo {
	if cap(acct.Data)-len(acct.Data) < MaxPermittedDataIncrease {
		padded := make([]byte, len(acct.Data), len(acct.Data)+MaxPermittedDataIncrease)
		copy(padded, acct.Data)
		acct.Data = padded
	}
	acct.Key = key
	return &AccountInfo{
		state: &accountState{
			key:         key,
			acct:        acct,
			originalLen: len(acct.Data),
		},
		isSigner:   isSigner,
		isWritable: isWritable,
	}
}

// View returns a new handle on the same state with different privileges.
func (a *AccountInfo) View(isSigner, isWritable bool) *AccountInfo {
	return &AccountInfo{state: a.state, isSigner: isSigner, isWritable: isWritable}
}

func (a *AccountInfo) Clone() *AccountInfo {
	return a.View(a.isSigner, a.isWritable)
}

// SameAccount reports whether both views share state.
func (a *AccountInfo) SameAccount(b *AccountInfo) bool {
	return a.state == b.state
}

func (a *AccountInfo) Key() solana.PublicKey {
	return a.state.key
}

func (a *AccountInfo) Owner() solana.PublicKey {
	return a.state.acct.Owner
}

func (a *AccountInfo) IsOwnedBy(owner solana.PublicKey) bool {
	return a.state.acct.Owner == owner
}

func (a *AccountInfo) IsSigner() bool {
	return a.isSigner
}

func (a *AccountInfo) IsWritable() bool {
	return a.isWritable
}

func (a *AccountInfo) Executable() bool {
	return a.state.acct.Executable
}

func (a *AccountInfo) RentEpoch() uint64 {
	return a.state.acct.RentEpoch
}

func (a *AccountInfo) Lamports() uint64 {
	return a.state.acct.Lamports
}

func (a *AccountInfo) DataLen() int {
	return len(a.state.acct.Data)
}

func (a *AccountInfo) DataIsEmpty() bool {
	return len(a.state.acct.Data) == 0
}

// Account returns the state backing the view.
func (a *AccountInfo) Account() *Account {
	return a.state.acct
}

// Assign changes the owner. Callers must hold no outstanding data borrow
// that depends on the previous owner.
func (a *AccountInfo) Assign(owner solana.PublicKey) {
	a.state.acct.Owner = owner
}

// Resize changes the data length. Growth is zero-filled and bounded by
// MaxPermittedDataIncrease over the original length.
func (a *AccountInfo) Resize(newLen int) error {
	if err := a.CheckBorrowMutData(); err != nil {
		return err
	}
	if newLen < 0 || newLen > a.state.originalLen+MaxPermittedDataIncrease {
		return ErrInvalidRealloc
	}

	acct := a.state.acct
	oldLen := len(acct.Data)
	if newLen > cap(acct.Data) {
		grown := make([]byte, newLen)
		copy(grown, acct.Data)
		acct.Data = grown
		return nil
	}
	acct.Data = acct.Data[:newLen]
	if newLen > oldLen {
		clear(acct.Data[oldLen:])
	}
	return nil
}

// The Unchecked accessors hand out raw views into the account state without
// touching borrow bookkeeping. They exist for encoding the state into a host
// call frame after the borrow checks were done.

func (a *AccountInfo) KeyUnchecked() *solana.PublicKey {
	return &a.state.key
}

func (a *AccountInfo) OwnerUnchecked() *[32]byte {
	return &a.state.acct.Owner
}

func (a *AccountInfo) LamportsUnchecked() *uint64 {
	return &a.state.acct.Lamports
}

func (a *AccountInfo) DataUnchecked() []byte {
	return a.state.acct.Data
}

// SetDataLenUnchecked reslices data within its current capacity.
func (a *AccountInfo) SetDataLenUnchecked(n int) {
	acct := a.state.acct
	acct.Data = acct.Data[:n]
}
