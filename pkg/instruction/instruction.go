// Package instruction holds the wire form of a cross-program call: the
// target program, the account roles in positional order, and the payload.
package instruction

import (
	"github.com/gagliardetto/solana-go"
)

// AccountMeta is the role an account plays in a call. Roles map
// positionally onto the account views passed alongside the instruction.
type AccountMeta struct {
	Pubkey     solana.PublicKey
	IsWritable bool
	IsSigner   bool
}

func Readonly(pubkey solana.PublicKey) AccountMeta {
	return AccountMeta{Pubkey: pubkey}
}

func Writable(pubkey solana.PublicKey) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsWritable: true}
}

func ReadonlySigner(pubkey solana.PublicKey) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: true}
}

func WritableSigner(pubkey solana.PublicKey) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsWritable: true, IsSigner: true}
}

// Instruction is the descriptor handed to a runtime. It borrows everything
// it points to and is only valid for a single dispatch.
type Instruction struct {
	ProgramID *solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Seed is one component of a program address derivation.
type Seed []byte

// Signer is the seed list proving that the calling program controls a
// derived address. The bump byte is the final seed.
type Signer []Seed

// NewSigner collects seeds into a signer.
func NewSigner(seeds ...[]byte) Signer {
	s := make(Signer, len(seeds))
	for i, seed := range seeds {
		s[i] = seed
	}
	return s
}

// Bytes returns the seeds as plain byte slices.
func (s Signer) Bytes() [][]byte {
	out := make([][]byte, len(s))
	for i, seed := range s {
		out[i] = seed
	}
	return out
}
