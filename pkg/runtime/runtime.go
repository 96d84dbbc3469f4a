// Package runtime dispatches cross-program calls and the other host
// services a program uses. Every backend implements Runtime: the host ABI
// (HostRuntime), an in-process simulator (package mock) and a no-op backend
// for measuring call-site overhead (BlackBox).
package runtime

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
)

type Runtime interface {
	Log(msg string)
	Log64(a1, a2, a3, a4, a5 uint64)
	LogPubkey(pubkey solana.PublicKey)
	LogData(data ...[]byte)
	LogComputeUnits()

	// Memory operations act on the first n bytes of their operands.
	Memcpy(dst, src []byte, n int) error
	Memmove(dst, src []byte, n int) error
	Memcmp(a, b []byte, n int) (int, error)
	Memset(dst []byte, c byte, n int) error

	// InvokeSigned validates the call with Validate before dispatching it.
	InvokeSigned(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error
	// InvokeSignedUnchecked dispatches without validation. The caller must
	// guarantee that infos line up with ix.Accounts and that no conflicting
	// borrow is outstanding on any of them.
	InvokeSignedUnchecked(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error

	CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error)
	FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error)
}

func Invoke(rt Runtime, ix instruction.Instruction, infos []*accounts.AccountInfo) error {
	return rt.InvokeSigned(ix, infos, nil)
}

// LogSlice logs every byte of b with its index.
func LogSlice(rt Runtime, b []byte) {
	for i, c := range b {
		rt.Log64(0, 0, 0, uint64(i), uint64(c))
	}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// LogParams logs the account views and payload an entrypoint received.
func LogParams(rt Runtime, infos []*accounts.AccountInfo, data []byte) {
	for i, info := range infos {
		rt.Log("AccountInfo")
		rt.Log64(0, 0, 0, 0, uint64(i))
		rt.Log("- Is signer")
		rt.Log64(0, 0, 0, 0, boolToU64(info.IsSigner()))
		rt.Log("- Key")
		rt.LogPubkey(info.Key())
		rt.Log("- Lamports")
		rt.Log64(0, 0, 0, 0, info.Lamports())
		rt.Log("- Account data length")
		rt.Log64(0, 0, 0, 0, uint64(info.DataLen()))
		rt.Log("- Owner")
		rt.LogPubkey(info.Owner())
	}
	rt.Log("Instruction data")
	LogSlice(rt, data)
}
