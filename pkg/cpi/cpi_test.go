package cpi_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/cpi"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/runtime/mock"
)

type pair = cpi.InvokeParts[[2]*accounts.AccountInfo, [2]instruction.AccountMeta]

var echoID = solana.MustPublicKeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")

func setup(t *testing.T) (*mock.Runtime, *pair, *[]byte) {
	t.Helper()
	rt := mock.New()
	var got []byte
	rt.AddProgram(echoID, "echo", func(_ solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error {
		got = append([]byte(nil), data...)
		*infos[1].LamportsUnchecked() += 1
		return nil
	})

	keys := [2]solana.PublicKey{solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()}
	p := &pair{ProgramID: echoID, Data: instruction.FullData([]byte{1, 2})}
	for i, key := range keys {
		rt.AddAccount(key, &accounts.Account{})
		info, err := rt.AccountInfo(key, i == 0, true)
		require.NoError(t, err)
		p.Accounts[i] = info
	}
	p.Metas[0] = instruction.WritableSigner(keys[0])
	p.Metas[1] = instruction.Writable(keys[1])
	return rt, p, &got
}

func TestInvokeParts_InstructionAliases(t *testing.T) {
	_, p, _ := setup(t)
	ix := p.Instruction()
	require.Len(t, ix.Accounts, 2)
	assert.Same(t, &p.ProgramID, ix.ProgramID)
	assert.Same(t, &p.Metas[0], &ix.Accounts[0])

	infos := p.AccountInfos()
	require.Len(t, infos, 2)
	assert.Same(t, p.Accounts[1], infos[1])
}

func TestInvokeParts_TruncatedData(t *testing.T) {
	var p cpi.InvokeParts[[1]*accounts.AccountInfo, [1]instruction.AccountMeta]
	p.Data = instruction.TruncatedData(make([]byte, 8), 3)
	assert.Len(t, p.Instruction().Data, 3)
}

func TestInvokeParts_InvokeWith(t *testing.T) {
	rt, p, got := setup(t)
	require.NoError(t, p.InvokeWith(rt))
	assert.Equal(t, []byte{1, 2}, *got)
	assert.Equal(t, uint64(1), p.Accounts[1].Lamports())

	require.NoError(t, p.InvokeUncheckedWith(rt))
	assert.Equal(t, uint64(2), p.Accounts[1].Lamports())
}

func TestInvokeParts_ValidationFailure(t *testing.T) {
	rt, p, _ := setup(t)
	p.Accounts[0], p.Accounts[1] = p.Accounts[1], p.Accounts[0]
	assert.ErrorIs(t, p.InvokeWith(rt), runtime.ErrInvalidArgument)
}

func TestInvokeParts_AsInvoker(t *testing.T) {
	rt, p, _ := setup(t)
	var inv cpi.Invoker = p
	assert.NoError(t, inv.InvokeWith(rt))
	assert.Len(t, rt.Logs(), 2)
}
