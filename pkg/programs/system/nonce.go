package system

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/runtime"
)

// AdvanceNonceAccount consumes a stored nonce and replaces it.
//
//	0. [WRITE] nonce account
//	1. [] recent blockhashes sysvar
//	2. [SIGNER] nonce authority
type AdvanceNonceAccount struct {
	Account           *accounts.AccountInfo
	RecentBlockhashes *accounts.AccountInfo
	Authority         *accounts.AccountInfo
}

func (a AdvanceNonceAccount) InvokeParts() parts3 {
	var data [nonceTagLen]byte
	putTag(data[:], InstrTypeAdvanceNonceAccount)

	return parts3{
		ProgramID: ProgramID,
		Accounts:  [3]*accounts.AccountInfo{a.Account, a.RecentBlockhashes, a.Authority},
		Metas: [3]instruction.AccountMeta{
			instruction.Writable(a.Account.Key()),
			instruction.Readonly(a.RecentBlockhashes.Key()),
			instruction.ReadonlySigner(a.Authority.Key()),
		},
		Data: instruction.FullData(data[:]),
	}
}

func (a AdvanceNonceAccount) Invoke() error {
	p := a.InvokeParts()
	return p.Invoke()
}

func (a AdvanceNonceAccount) InvokeSigned(signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (a AdvanceNonceAccount) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// WithdrawNonceAccount moves lamports out of a nonce account.
//
//	0. [WRITE] nonce account
//	1. [WRITE] recipient account
//	2. [] recent blockhashes sysvar
//	3. [] rent sysvar
//	4. [SIGNER] nonce authority
type WithdrawNonceAccount struct {
	Account           *accounts.AccountInfo
	Recipient         *accounts.AccountInfo
	RecentBlockhashes *accounts.AccountInfo
	Rent              *accounts.AccountInfo
	Authority         *accounts.AccountInfo
	Lamports          uint64
}

func (w WithdrawNonceAccount) InvokeParts() parts5 {
	var data [withdrawNonceLen]byte
	putTag(data[:], InstrTypeWithdrawNonceAccount)
	binary.LittleEndian.PutUint64(data[4:12], w.Lamports)

	return parts5{
		ProgramID: ProgramID,
		Accounts:  [5]*accounts.AccountInfo{w.Account, w.Recipient, w.RecentBlockhashes, w.Rent, w.Authority},
		Metas: [5]instruction.AccountMeta{
			instruction.Writable(w.Account.Key()),
			instruction.Writable(w.Recipient.Key()),
			instruction.Readonly(w.RecentBlockhashes.Key()),
			instruction.Readonly(w.Rent.Key()),
			instruction.ReadonlySigner(w.Authority.Key()),
		},
		Data: instruction.FullData(data[:]),
	}
}

func (w WithdrawNonceAccount) Invoke() error {
	p := w.InvokeParts()
	return p.Invoke()
}

func (w WithdrawNonceAccount) InvokeSigned(signers ...instruction.Signer) error {
	p := w.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (w WithdrawNonceAccount) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := w.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// InitializeNonceAccount stores a first nonce and sets the authority.
//
//	0. [WRITE] nonce account
//	1. [] recent blockhashes sysvar
//	2. [] rent sysvar
type InitializeNonceAccount struct {
	Account           *accounts.AccountInfo
	RecentBlockhashes *accounts.AccountInfo
	Rent              *accounts.AccountInfo
	Authority         solana.PublicKey
}

func (i InitializeNonceAccount) InvokeParts() parts3 {
	var data [nonceAuthorityLen]byte
	putTag(data[:], InstrTypeInitializeNonceAccount)
	copy(data[4:36], i.Authority[:])

	return parts3{
		ProgramID: ProgramID,
		Accounts:  [3]*accounts.AccountInfo{i.Account, i.RecentBlockhashes, i.Rent},
		Metas: [3]instruction.AccountMeta{
			instruction.Writable(i.Account.Key()),
			instruction.Readonly(i.RecentBlockhashes.Key()),
			instruction.Readonly(i.Rent.Key()),
		},
		Data: instruction.FullData(data[:]),
	}
}

func (i InitializeNonceAccount) Invoke() error {
	p := i.InvokeParts()
	return p.Invoke()
}

func (i InitializeNonceAccount) InvokeSigned(signers ...instruction.Signer) error {
	p := i.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (i InitializeNonceAccount) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := i.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// AuthorizeNonceAccount hands nonce authority to a new key.
//
//	0. [WRITE] nonce account
//	1. [SIGNER] current nonce authority
type AuthorizeNonceAccount struct {
	Account      *accounts.AccountInfo
	Authority    *accounts.AccountInfo
	NewAuthority solana.PublicKey
}

func (a AuthorizeNonceAccount) InvokeParts() parts2 {
	var data [nonceAuthorityLen]byte
	putTag(data[:], InstrTypeAuthorizeNonceAccount)
	copy(data[4:36], a.NewAuthority[:])

	return parts2{
		ProgramID: ProgramID,
		Accounts:  [2]*accounts.AccountInfo{a.Account, a.Authority},
		Metas: [2]instruction.AccountMeta{
			instruction.Writable(a.Account.Key()),
			instruction.ReadonlySigner(a.Authority.Key()),
		},
		Data: instruction.FullData(data[:]),
	}
}

func (a AuthorizeNonceAccount) Invoke() error {
	p := a.InvokeParts()
	return p.Invoke()
}

func (a AuthorizeNonceAccount) InvokeSigned(signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (a AuthorizeNonceAccount) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// UpgradeNonceAccount converts a legacy nonce account to the current
// layout.
//
//	0. [WRITE] nonce account
type UpgradeNonceAccount struct {
	Account *accounts.AccountInfo
}

func (u UpgradeNonceAccount) InvokeParts() parts1 {
	var data [nonceTagLen]byte
	putTag(data[:], InstrTypeUpgradeNonceAccount)

	return parts1{
		ProgramID: ProgramID,
		Accounts:  [1]*accounts.AccountInfo{u.Account},
		Metas:     [1]instruction.AccountMeta{instruction.Writable(u.Account.Key())},
		Data:      instruction.FullData(data[:]),
	}
}

func (u UpgradeNonceAccount) Invoke() error {
	p := u.InvokeParts()
	return p.Invoke()
}

func (u UpgradeNonceAccount) InvokeSigned(signers ...instruction.Signer) error {
	p := u.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (u UpgradeNonceAccount) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := u.InvokeParts()
	return p.InvokeWith(rt, signers...)
}
