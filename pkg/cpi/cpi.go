// Package cpi builds cross-program calls. A request type fixes its account
// count at compile time by choosing array types for its views and roles;
// InvokeParts turns those arrays into an instruction without copying them.
package cpi

import (
	"unsafe"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/runtime/target"
)

type AccountInfos interface {
	~[1]*accounts.AccountInfo | ~[2]*accounts.AccountInfo | ~[3]*accounts.AccountInfo |
		~[4]*accounts.AccountInfo | ~[5]*accounts.AccountInfo | ~[6]*accounts.AccountInfo |
		~[7]*accounts.AccountInfo | ~[8]*accounts.AccountInfo
}

type AccountMetas interface {
	~[1]instruction.AccountMeta | ~[2]instruction.AccountMeta | ~[3]instruction.AccountMeta |
		~[4]instruction.AccountMeta | ~[5]instruction.AccountMeta | ~[6]instruction.AccountMeta |
		~[7]instruction.AccountMeta | ~[8]instruction.AccountMeta
}

// InvokeParts is a fully described call: the target, one view and one
// role per account in positional order, and the payload.
type InvokeParts[I AccountInfos, M AccountMetas] struct {
	ProgramID solana.PublicKey
	Accounts  I
	Metas     M
	Data      instruction.Data
}

// Invoker dispatches a call regardless of its account count.
type Invoker interface {
	Instruction() instruction.Instruction
	AccountInfos() []*accounts.AccountInfo
	Invoke() error
	InvokeSigned(signers ...instruction.Signer) error
	InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error
	InvokeUncheckedWith(rt runtime.Runtime, signers ...instruction.Signer) error
}

var _ Invoker = (*InvokeParts[[1]*accounts.AccountInfo, [1]instruction.AccountMeta])(nil)

// Instruction returns a descriptor that aliases p. It is valid while p is.
func (p *InvokeParts[I, M]) Instruction() instruction.Instruction {
	return instruction.Instruction{
		ProgramID: &p.ProgramID,
		Accounts:  unsafe.Slice(&p.Metas[0], len(p.Metas)),
		Data:      p.Data.Bytes(),
	}
}

// AccountInfos returns the views as a slice aliasing p.
func (p *InvokeParts[I, M]) AccountInfos() []*accounts.AccountInfo {
	return unsafe.Slice(&p.Accounts[0], len(p.Accounts))
}

// Invoke dispatches to the build's default runtime.
func (p *InvokeParts[I, M]) Invoke() error {
	return p.InvokeWith(target.Runtime())
}

func (p *InvokeParts[I, M]) InvokeSigned(signers ...instruction.Signer) error {
	return p.InvokeWith(target.Runtime(), signers...)
}

func (p *InvokeParts[I, M]) InvokeWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	return rt.InvokeSigned(p.Instruction(), p.AccountInfos(), signers)
}

// InvokeUncheckedWith skips validation; see runtime.Runtime.
func (p *InvokeParts[I, M]) InvokeUncheckedWith(rt runtime.Runtime, signers ...instruction.Signer) error {
	return rt.InvokeSignedUnchecked(p.Instruction(), p.AccountInfos(), signers)
}
