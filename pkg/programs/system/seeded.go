package system

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/runtime"
)

// CreateAccountWithSeed creates an account at an address derived from a
// base key, a seed and an owner.
//
//	0. [WRITE, SIGNER] funding account
//	1. [WRITE] created account
//	2. [SIGNER] base account, the funding account if Base is nil
type CreateAccountWithSeed struct {
	From     *accounts.AccountInfo
	To       *accounts.AccountInfo
	Base     *accounts.AccountInfo
	Seed     string
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey
}

func (c CreateAccountWithSeed) base() *accounts.AccountInfo {
	if c.Base == nil {
		return c.From
	}
	return c.Base
}

func (c CreateAccountWithSeed) InvokeParts() parts3 {
	base := c.base()

	var data [createAccountWithSeedCap]byte
	putTag(data[:], InstrTypeCreateAccountWithSeed)
	baseKey := base.Key()
	copy(data[4:36], baseKey[:])
	off := putSeed(data[:], 36, c.Seed)
	binary.LittleEndian.PutUint64(data[off:off+8], c.Lamports)
	binary.LittleEndian.PutUint64(data[off+8:off+16], c.Space)
	off += 16
	off += copy(data[off:off+pubkeyLen], c.Owner[:])

	return parts3{
		ProgramID: ProgramID,
		Accounts:  [3]*accounts.AccountInfo{c.From, c.To, base},
		Metas: [3]instruction.AccountMeta{
			instruction.WritableSigner(c.From.Key()),
			instruction.Writable(c.To.Key()),
			instruction.ReadonlySigner(baseKey),
		},
		Data: instruction.TruncatedData(data[:], off),
	}
}

func (c CreateAccountWithSeed) Invoke() error {
	p := c.InvokeParts()
	return p.Invoke()
}

func (c CreateAccountWithSeed) InvokeSigned(signers ...instruction.Signer) error {
	p := c.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (c CreateAccountWithSeed) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := c.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// AllocateWithSeed allocates space for an account at a derived address.
//
//	0. [WRITE] allocated account
//	1. [SIGNER] base account
type AllocateWithSeed struct {
	Account *accounts.AccountInfo
	Base    *accounts.AccountInfo
	Seed    string
	Space   uint64
	Owner   solana.PublicKey
}

func (a AllocateWithSeed) InvokeParts() parts2 {
	var data [allocateWithSeedCap]byte
	putTag(data[:], InstrTypeAllocateWithSeed)
	baseKey := a.Base.Key()
	copy(data[4:36], baseKey[:])
	off := putSeed(data[:], 36, a.Seed)
	binary.LittleEndian.PutUint64(data[off:off+8], a.Space)
	off += 8
	off += copy(data[off:off+pubkeyLen], a.Owner[:])

	return parts2{
		ProgramID: ProgramID,
		Accounts:  [2]*accounts.AccountInfo{a.Account, a.Base},
		Metas: [2]instruction.AccountMeta{
			instruction.Writable(a.Account.Key()),
			instruction.ReadonlySigner(baseKey),
		},
		Data: instruction.TruncatedData(data[:], off),
	}
}

func (a AllocateWithSeed) Invoke() error {
	p := a.InvokeParts()
	return p.Invoke()
}

func (a AllocateWithSeed) InvokeSigned(signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (a AllocateWithSeed) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// AssignWithSeed assigns an account at a derived address to a program.
//
//	0. [WRITE] assigned account
//	1. [SIGNER] base account
type AssignWithSeed struct {
	Account *accounts.AccountInfo
	Base    *accounts.AccountInfo
	Seed    string
	Owner   solana.PublicKey
}

func (a AssignWithSeed) InvokeParts() parts2 {
	var data [assignWithSeedCap]byte
	putTag(data[:], InstrTypeAssignWithSeed)
	baseKey := a.Base.Key()
	copy(data[4:36], baseKey[:])
	off := putSeed(data[:], 36, a.Seed)
	off += copy(data[off:off+pubkeyLen], a.Owner[:])

	return parts2{
		ProgramID: ProgramID,
		Accounts:  [2]*accounts.AccountInfo{a.Account, a.Base},
		Metas: [2]instruction.AccountMeta{
			instruction.Writable(a.Account.Key()),
			instruction.ReadonlySigner(baseKey),
		},
		Data: instruction.TruncatedData(data[:], off),
	}
}

func (a AssignWithSeed) Invoke() error {
	p := a.InvokeParts()
	return p.Invoke()
}

func (a AssignWithSeed) InvokeSigned(signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (a AssignWithSeed) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := a.InvokeParts()
	return p.InvokeWith(rt, signers...)
}

// TransferWithSeed moves lamports out of an account at a derived address.
//
//	0. [WRITE] funding account
//	1. [SIGNER] base account
//	2. [WRITE] recipient account
type TransferWithSeed struct {
	From      *accounts.AccountInfo
	Base      *accounts.AccountInfo
	To        *accounts.AccountInfo
	Lamports  uint64
	Seed      string
	FromOwner solana.PublicKey
}

func (t TransferWithSeed) InvokeParts() parts3 {
	var data [transferWithSeedCap]byte
	putTag(data[:], InstrTypeTransferWithSeed)
	binary.LittleEndian.PutUint64(data[4:12], t.Lamports)
	off := putSeed(data[:], 12, t.Seed)
	off += copy(data[off:off+pubkeyLen], t.FromOwner[:])

	return parts3{
		ProgramID: ProgramID,
		Accounts:  [3]*accounts.AccountInfo{t.From, t.Base, t.To},
		Metas: [3]instruction.AccountMeta{
			instruction.Writable(t.From.Key()),
			instruction.ReadonlySigner(t.Base.Key()),
			instruction.Writable(t.To.Key()),
		},
		Data: instruction.TruncatedData(data[:], off),
	}
}

func (t TransferWithSeed) Invoke() error {
	p := t.InvokeParts()
	return p.Invoke()
}

func (t TransferWithSeed) InvokeSigned(signers ...instruction.Signer) error {
	p := t.InvokeParts()
	return p.InvokeSigned(signers...)
}

func (t TransferWithSeed) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	p := t.InvokeParts()
	return p.InvokeWith(rt, signers...)
}
