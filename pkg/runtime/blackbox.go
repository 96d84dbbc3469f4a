package runtime

import (
	goruntime "runtime"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
)

// BlackBox accepts every call and does nothing. Arguments are kept alive so
// the compiler cannot drop the work that produced them, which makes it
// suitable for measuring the cost of building calls.
type BlackBox struct{}

var _ Runtime = BlackBox{}

func (BlackBox) Log(msg string) {
	goruntime.KeepAlive(msg)
}

func (BlackBox) Log64(a1, a2, a3, a4, a5 uint64) {
	goruntime.KeepAlive(a1 ^ a2 ^ a3 ^ a4 ^ a5)
}

func (BlackBox) LogPubkey(pubkey solana.PublicKey) {
	goruntime.KeepAlive(pubkey)
}

func (BlackBox) LogData(data ...[]byte) {
	goruntime.KeepAlive(data)
}

func (BlackBox) LogComputeUnits() {}

func (BlackBox) Memcpy(dst, src []byte, n int) error {
	goruntime.KeepAlive(dst)
	goruntime.KeepAlive(src)
	goruntime.KeepAlive(n)
	return nil
}

func (BlackBox) Memmove(dst, src []byte, n int) error {
	goruntime.KeepAlive(dst)
	goruntime.KeepAlive(src)
	goruntime.KeepAlive(n)
	return nil
}

func (BlackBox) Memcmp(a, b []byte, n int) (int, error) {
	goruntime.KeepAlive(a)
	goruntime.KeepAlive(b)
	goruntime.KeepAlive(n)
	return 0, nil
}

func (BlackBox) Memset(dst []byte, c byte, n int) error {
	goruntime.KeepAlive(dst)
	goruntime.KeepAlive(c)
	goruntime.KeepAlive(n)
	return nil
}

func (BlackBox) InvokeSigned(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error {
	goruntime.KeepAlive(ix)
	goruntime.KeepAlive(infos)
	goruntime.KeepAlive(signers)
	return nil
}

func (b BlackBox) InvokeSignedUnchecked(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error {
	return b.InvokeSigned(ix, infos, signers)
}

// CreateProgramAddress returns the zero address.
func (BlackBox) CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	goruntime.KeepAlive(seeds)
	goruntime.KeepAlive(programID)
	return solana.PublicKey{}, nil
}

// FindProgramAddress returns the zero address and bump.
func (BlackBox) FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	goruntime.KeepAlive(seeds)
	goruntime.KeepAlive(programID)
	return solana.PublicKey{}, 0, nil
}
