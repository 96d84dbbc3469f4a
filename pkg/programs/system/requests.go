package system

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/cpi"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/runtime"
)

type (
	parts1 = cpi.InvokeParts[[1]*accounts.AccountInfo, [1]instruction.AccountMeta]
	parts2 = cpi.InvokeParts[[2]*accounts.AccountInfo, [2]instruction.AccountMeta]
	parts3 = cpi.InvokeParts[[3]*accounts.AccountInfo, [3]instruction.AccountMeta]
	parts5 = cpi.InvokeParts[[5]*accounts.AccountInfo, [5]instruction.AccountMeta]
)

// CreateAccount funds a new account and allocates and assigns it.
//
//	0. [WRITE, SIGNER] funding account
//	1. [WRITE, SIGNER] new account
type CreateAccount struct {
	From     *accounts.AccountInfo
	To       *accounts.AccountInfo
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey
}

func (c CreateAccount) InvokeParts() parts2 {
	var data [createAccountLen]byte
	putTag(data[:], InstrTypeCreateAccount)
	binary.LittleEndian.PutUint64(data[4:12], c.Lamports)
	binary.LittleEndian.PutUint64(data[12:20], c.Space)
	copy(data[20:52], c.Owner[:])

	return parts2{
		ProgramID: ProgramID,
		Accounts:  [2]*accounts.AccountInfo{c.From, c.To},
		Metas: [2]instruction.AccountMeta{
			instruction.WritableSigner(c.From.Key()),
			instruction.WritableSigner(c.To.Key()),
		},
		Data: instruction.FullData(data[:]),
	}
}

func (c CreateAccount) Invoke() error {
	p := c.InvokeParts()
	return p.Invoke()
}

func (c CreateAccount) InvokeSigned(signers ...instruction.Signer) error {
	p := c.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (c CreateAccount) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := c.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// Assign changes the owner of an account.
//
//	0. [WRITE, SIGNER] assigned account
type Assign struct {
	Account *accounts.AccountInfo
	Owner   solana.PublicKey
}

func (a Assign) InvokeParts() parts1 {
	var data [assignLen]byte
	putTag(data[:], InstrTypeAssign)
	copy(data[4:36], a.Owner[:])

	return parts1{
		ProgramID: ProgramID,
		Accounts:  [1]*accounts.AccountInfo{a.Account},
		Metas:     [1]instruction.AccountMeta{instruction.WritableSigner(a.Account.Key())},
		Data:      instruction.FullData(data[:]),
	}
}

func (a Assign) Invoke() error {
	p := a.InvokeParts()
	return p.Invoke()
}

func (a Assign) InvokeSigned(signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (a Assign) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// Transfer moves lamports between accounts.
//
//	0. [WRITE, SIGNER] funding account
//	1. [WRITE] recipient account
type Transfer struct {
	From     *accounts.AccountInfo
	To       *accounts.AccountInfo
	Lamports uint64
}

func (t Transfer) InvokeParts() parts2 {
	var data [transferLen]byte
	putTag(data[:], InstrTypeTransfer)
	binary.LittleEndian.PutUint64(data[4:12], t.Lamports)

	return parts2{
		ProgramID: ProgramID,
		Accounts:  [2]*accounts.AccountInfo{t.From, t.To},
		Metas: [2]instruction.AccountMeta{
			instruction.WritableSigner(t.From.Key()),
			instruction.Writable(t.To.Key()),
		},
		Data: instruction.FullData(data[:]),
	}
}

func (t Transfer) Invoke() error {
	p := t.InvokeParts()
	return p.Invoke()
}

func (t Transfer) InvokeSigned(signers ...instruction.Signer) error {
	p := t.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (t Transfer) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := t.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// Allocate sets the data length of an account.
//
//	0. [WRITE, SIGNER] account to allocate
type Allocate struct {
	Account *accounts.AccountInfo
	Space   uint64
}

func (a Allocate) InvokeParts() parts1 {
	var data [allocateLen]byte
	putTag(data[:], InstrTypeAllocate)
	binary.LittleEndian.PutUint64(data[4:12], a.Space)

	return parts1{
		ProgramID: ProgramID,
		Accounts:  [1]*accounts.AccountInfo{a.Account},
		Metas:     [1]instruction.AccountMeta{instruction.WritableSigner(a.Account.Key())},
		Data:      instruction.FullData(data[:]),
	}
}

func (a Allocate) Invoke() error {
	p := a.InvokeParts()
	return p.Invoke()
}

func (a Allocate) InvokeSigned(signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (a Allocate) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeWith(rt, signers...)
}
