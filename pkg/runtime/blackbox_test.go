package runtime_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/programs/system"
	"go.firedancer.io/quartz/pkg/runtime"
)

func TestBlackBox(t *testing.T) {
	var rt runtime.Runtime = runtime.BlackBox{}
	info := newInfo(true)
	unknown := solana.NewWallet().PublicKey()
	ix := instruction.Instruction{ProgramID: &unknown, Accounts: []instruction.AccountMeta{instruction.WritableSigner(info.Key())}}

	// Calls that every other backend rejects.
	assert.NoError(t, rt.InvokeSigned(ix, []*accounts.AccountInfo{info}, nil))
	assert.NoError(t, rt.InvokeSignedUnchecked(ix, nil, nil))

	buf := []byte{1, 2, 3}
	assert.NoError(t, rt.Memcpy(buf[1:], buf, 2))
	assert.NoError(t, rt.Memset(buf, 9, 3))
	assert.Equal(t, []byte{1, 2, 3}, buf)

	cmp, err := rt.Memcmp([]byte{1}, []byte{2}, 1)
	assert.NoError(t, err)
	assert.Zero(t, cmp)

	addr, bump, err := rt.FindProgramAddress([][]byte{[]byte("x")}, solana.SystemProgramID)
	assert.NoError(t, err)
	assert.True(t, addr.IsZero())
	assert.Zero(t, bump)

	rt.Log("ignored")
	rt.LogData([]byte("ignored"))
	runtime.LogSlice(rt, buf)
	runtime.LogParams(rt, []*accounts.AccountInfo{info}, buf)
}

func BenchmarkBlackBoxInvoke(b *testing.B) {
	var rt runtime.Runtime = runtime.BlackBox{}
	info := newInfo(true)
	program := solana.SystemProgramID
	ix := instruction.Instruction{ProgramID: &program, Accounts: []instruction.AccountMeta{instruction.Writable(info.Key())}}
	infos := []*accounts.AccountInfo{info}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = rt.InvokeSigned(ix, infos, nil)
	}
}

func TestBlackBoxInvoke_Allocs(t *testing.T) {
	var rt runtime.Runtime = runtime.BlackBox{}
	from, to, base := newInfo(true), newInfo(true), newInfo(false)
	owner := solana.NewWallet().PublicKey()

	transfer := testing.AllocsPerRun(100, func() {
		_ = system.Transfer{From: from, To: to, Lamports: 1}.InvokeWith(rt)
	})
	assert.LessOrEqual(t, transfer, 2.0)

	seeded := testing.AllocsPerRun(100, func() {
		_ = system.CreateAccountWithSeed{
			From:     from,
			To:       to,
			Base:     base,
			Seed:     "vault",
			Lamports: 1,
			Space:    64,
			Owner:    owner,
		}.InvokeWith(rt)
	})
	assert.LessOrEqual(t, seeded, 2.0)
}
