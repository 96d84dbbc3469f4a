package sealevel

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/cu"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/programs/system"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/sbpf"
)

var callerID = solana.MustPublicKeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")

func newTestCtx(t *testing.T) (*ExecutionCtx, *LogRecorder) {
	t.Helper()
	ctx := NewExecutionCtx(callerID, 200_000)
	return ctx, ctx.Log.(*LogRecorder)
}

func newInfo(lamports uint64, dataLen int, signer, writable bool) *accounts.AccountInfo {
	acct := &accounts.Account{Lamports: lamports, Data: make([]byte, dataLen), Owner: system.ProgramID}
	return accounts.NewAccountInfo(solana.NewWallet().PublicKey(), acct, signer, writable)
}

func TestHost_Logs(t *testing.T) {
	ctx, log := newTestCtx(t)
	rt := ctx.Runtime()
	key := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

	rt.Log("hello")
	rt.Log64(1, 2, 3, 4, 5)
	rt.LogPubkey(key)
	rt.LogData([]byte("ab"), []byte{1})
	rt.LogComputeUnits()

	assert.Equal(t, []string{
		"Program log: hello",
		"Program log: 0x1, 0x2, 0x3, 0x4, 0x5",
		"Program log: 11111111111111111111111111111111",
		"Program data: YWI= AQ==",
		"Program consumption: 199297 units remaining",
	}, log.Lines())
}

func TestHost_MemOps(t *testing.T) {
	ctx, _ := newTestCtx(t)
	rt := ctx.Runtime()

	dst := make([]byte, 4)
	require.NoError(t, rt.Memcpy(dst, []byte{1, 2, 3, 4}, 3))
	assert.Equal(t, []byte{1, 2, 3, 0}, dst)

	buf := []byte{1, 2, 3, 4, 5}
	assert.ErrorIs(t, rt.Memcpy(buf[1:], buf, 3), runtime.ErrCopyOverlapping)
	require.NoError(t, rt.Memmove(buf[1:], buf, 3))
	assert.Equal(t, []byte{1, 1, 2, 3, 5}, buf)

	cmp, err := rt.Memcmp([]byte{1, 2, 3}, []byte{1, 2, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, -2, cmp)
	cmp, err = rt.Memcmp([]byte{1, 2, 3}, []byte{1, 2, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)

	require.NoError(t, rt.Memset(dst, 0xAB, 2))
	assert.Equal(t, []byte{0xAB, 0xAB, 3, 0}, dst)

	assert.ErrorIs(t, rt.Memset(dst, 0, 5), runtime.ErrAccessViolation)
}

func TestHost_ProgramAddress(t *testing.T) {
	ctx, _ := newTestCtx(t)
	rt := ctx.Runtime()
	seeds := [][]byte{[]byte("vault"), callerID[:]}

	wantAddr, wantBump, err := pda.FindProgramAddress(seeds, callerID, nil)
	require.NoError(t, err)

	addr, bump, err := rt.FindProgramAddress(seeds, callerID)
	require.NoError(t, err)
	assert.Equal(t, wantAddr, addr)
	assert.Equal(t, wantBump, bump)

	created, err := rt.CreateProgramAddress(append(seeds, []byte{bump}), callerID)
	require.NoError(t, err)
	assert.Equal(t, wantAddr, created)

	long := make([]byte, 33)
	_, err = rt.CreateProgramAddress([][]byte{long}, callerID)
	assert.ErrorIs(t, err, SyscallErrMaxSeedLengthExceeded)
}

func TestHost_InvokeSystemTransfer(t *testing.T) {
	ctx, log := newTestCtx(t)
	ctx.AddProgram(system.ProgramID, Native(system.Process))
	rt := ctx.Runtime()

	from := newInfo(1000, 0, true, true)
	to := newInfo(5, 0, false, true)

	require.NoError(t, system.Transfer{From: from, To: to, Lamports: 500}.InvokeWith(rt))
	assert.Equal(t, uint64(500), from.Lamports())
	assert.Equal(t, uint64(505), to.Lamports())
	assert.Equal(t, []string{
		"Program 11111111111111111111111111111111 invoke [2]",
		"Program 11111111111111111111111111111111 success",
	}, log.Lines())

	err := system.Transfer{From: from, To: to, Lamports: 501}.InvokeWith(rt)
	assert.Equal(t, system.ErrResultWithNegativeLamports, err)
	assert.Equal(t, uint64(500), from.Lamports())
}

func TestHost_InvokeCreateAccountReallocs(t *testing.T) {
	ctx, _ := newTestCtx(t)
	ctx.AddProgram(system.ProgramID, Native(system.Process))
	rt := ctx.Runtime()

	owner := solana.NewWallet().PublicKey()
	from := newInfo(1000, 0, true, true)
	to := newInfo(0, 0, true, true)

	req := system.CreateAccount{From: from, To: to, Lamports: 100, Space: 48, Owner: owner}
	require.NoError(t, req.InvokeWith(rt))
	assert.Equal(t, 48, to.DataLen())
	assert.True(t, to.IsOwnedBy(owner))
	assert.Equal(t, uint64(100), to.Lamports())
	assert.Equal(t, uint64(900), from.Lamports())
}

func TestHost_InvokeWritesDataBack(t *testing.T) {
	ctx, _ := newTestCtx(t)
	writer := solana.NewWallet().PublicKey()
	ctx.AddProgram(writer, func(rt runtime.Runtime, _ solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error {
		if err := infos[0].Resize(infos[0].DataLen() + len(data)); err != nil {
			return err
		}
		ref, err := infos[0].TryBorrowMutData()
		if err != nil {
			return err
		}
		defer ref.Release()
		copy(ref.Value()[2:], data)
		rt.Log("wrote")
		return nil
	})
	rt := ctx.Runtime()

	target := newInfo(0, 2, false, true)
	ix := instruction.Instruction{
		ProgramID: &writer,
		Accounts:  []instruction.AccountMeta{instruction.Writable(target.Key())},
		Data:      []byte{7, 8, 9},
	}
	require.NoError(t, rt.InvokeSigned(ix, []*accounts.AccountInfo{target}, nil))

	ref, err := target.TryBorrowData()
	require.NoError(t, err)
	defer ref.Release()
	assert.Equal(t, []byte{0, 0, 7, 8, 9}, ref.Value())
	assert.Contains(t, ctx.Log.(*LogRecorder).Lines(), "Program log: wrote")
}

func TestHost_InvokePrivilegeEscalation(t *testing.T) {
	ctx, _ := newTestCtx(t)
	ctx.AddProgram(system.ProgramID, Native(system.Process))
	rt := ctx.Runtime()

	from := newInfo(1000, 0, false, true)
	to := newInfo(0, 0, false, true)
	err := system.Transfer{From: from, To: to, Lamports: 1}.InvokeWith(rt)
	assert.ErrorIs(t, err, runtime.ErrPrivilegeEscalation)

	readonly := newInfo(1000, 0, true, false)
	err = system.Transfer{From: readonly, To: to, Lamports: 1}.InvokeWith(rt)
	assert.ErrorIs(t, err, runtime.ErrPrivilegeEscalation)
}

func TestHost_InvokeSignedWithSeeds(t *testing.T) {
	ctx, _ := newTestCtx(t)
	ctx.AddProgram(system.ProgramID, Native(system.Process))
	rt := ctx.Runtime()

	vaultKey, bump, err := pda.FindProgramAddress([][]byte{[]byte("vault")}, callerID, nil)
	require.NoError(t, err)
	vault := accounts.NewAccountInfo(vaultKey, &accounts.Account{Lamports: 300, Owner: system.ProgramID}, false, true)
	to := newInfo(0, 0, false, true)

	req := system.Transfer{From: vault, To: to, Lamports: 120}
	assert.ErrorIs(t, req.InvokeWith(rt), runtime.ErrPrivilegeEscalation)

	signer := instruction.NewSigner([]byte("vault"), []byte{bump})
	require.NoError(t, req.InvokeWith(rt, signer))
	assert.Equal(t, uint64(180), vault.Lamports())
	assert.Equal(t, uint64(120), to.Lamports())
}

func TestHost_InvokeUnknownProgram(t *testing.T) {
	ctx, _ := newTestCtx(t)
	rt := ctx.Runtime()

	from, to := newInfo(1, 0, true, true), newInfo(0, 0, false, true)
	err := system.Transfer{From: from, To: to, Lamports: 1}.InvokeWith(rt)
	assert.ErrorIs(t, err, runtime.ErrUnsupportedProgramId)
}

func TestHost_InvokeCustomError(t *testing.T) {
	ctx, log := newTestCtx(t)
	failing := solana.NewWallet().PublicKey()
	ctx.AddProgram(failing, func(runtime.Runtime, solana.PublicKey, []*accounts.AccountInfo, []byte) error {
		return runtime.CustomError(42)
	})

	err := ctx.Runtime().InvokeSigned(instruction.Instruction{ProgramID: &failing}, nil, nil)
	assert.Equal(t, runtime.CustomError(42), err)
	assert.Equal(t, "Program "+failing.String()+" failed: custom program error: 0x2a", log.Lines()[1])
}

func TestHost_InvokeDepthLimit(t *testing.T) {
	ctx, log := newTestCtx(t)
	recursive := solana.NewWallet().PublicKey()
	ctx.AddProgram(recursive, func(rt runtime.Runtime, programID solana.PublicKey, _ []*accounts.AccountInfo, _ []byte) error {
		return rt.InvokeSigned(instruction.Instruction{ProgramID: &programID}, nil, nil)
	})

	err := ctx.Runtime().InvokeSigned(instruction.Instruction{ProgramID: &recursive}, nil, nil)
	assert.ErrorIs(t, err, runtime.ErrCallDepth)

	var invokes int
	for _, line := range log.Lines() {
		if line == "Program "+recursive.String()+" invoke [5]" {
			invokes++
		}
	}
	assert.Equal(t, 1, invokes)
	assert.Len(t, log.Lines(), 8)
}

func TestSyscalls_Registered(t *testing.T) {
	reg := Syscalls()
	for _, name := range []string{
		runtime.SyscallLog,
		runtime.SyscallLog64,
		runtime.SyscallLogPubkey,
		runtime.SyscallLogComputeUnits,
		runtime.SyscallLogData,
		runtime.SyscallMemcpy,
		runtime.SyscallMemmove,
		runtime.SyscallMemcmp,
		runtime.SyscallMemset,
		runtime.SyscallCreateProgramAddress,
		runtime.SyscallTryFindProgramAddress,
		runtime.SyscallInvokeSignedC,
	} {
		assert.True(t, reg.ExistsByHash(sbpf.SymbolHash(name)), name)
	}
	assert.Len(t, reg, 12)
}

func TestHost_NestedInvokeUsesFreshRegistry(t *testing.T) {
	ctx, log := newTestCtx(t)
	outer := solana.NewWallet().PublicKey()
	inner := solana.NewWallet().PublicKey()
	ctx.AddProgram(inner, func(rt runtime.Runtime, _ solana.PublicKey, _ []*accounts.AccountInfo, _ []byte) error {
		rt.Log("inner")
		return nil
	})
	ctx.AddProgram(outer, func(rt runtime.Runtime, _ solana.PublicKey, _ []*accounts.AccountInfo, _ []byte) error {
		return rt.InvokeSigned(instruction.Instruction{ProgramID: &inner}, nil, nil)
	})

	require.NoError(t, ctx.Runtime().InvokeSigned(instruction.Instruction{ProgramID: &outer}, nil, nil))
	assert.Contains(t, log.Lines(), "Program "+inner.String()+" invoke [3]")
	assert.Contains(t, log.Lines(), "Program log: inner")
}

func TestNewExecutionCtx_DefaultBudget(t *testing.T) {
	ctx := NewExecutionCtx(callerID, 0)
	assert.Equal(t, uint64(cu.DefaultBudget), ctx.ComputeMeter.Remaining())

	ctx.Runtime().Log("x")
	assert.Equal(t, uint64(CUSyscallBaseCost), ctx.ComputeMeter.Used())
	assert.False(t, ctx.ComputeMeter.Exceeded())
}
