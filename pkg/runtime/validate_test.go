package runtime_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/runtime"
)

func newInfo(writable bool) *accounts.AccountInfo {
	return accounts.NewAccountInfo(solana.NewWallet().PublicKey(), &accounts.Account{Lamports: 1}, false, writable)
}

func TestValidate(t *testing.T) {
	program := solana.SystemProgramID
	a, b := newInfo(true), newInfo(false)
	ix := instruction.Instruction{
		ProgramID: &program,
		Accounts:  []instruction.AccountMeta{instruction.Writable(a.Key()), instruction.Readonly(b.Key())},
	}

	t.Run("Ok", func(t *testing.T) {
		assert.NoError(t, runtime.Validate(ix, []*accounts.AccountInfo{a, b}))
	})

	t.Run("ExtraInfosAllowed", func(t *testing.T) {
		assert.NoError(t, runtime.Validate(ix, []*accounts.AccountInfo{a, b, newInfo(false)}))
	})

	t.Run("MissingProgram", func(t *testing.T) {
		noProgram := instruction.Instruction{Accounts: ix.Accounts}
		assert.ErrorIs(t, runtime.Validate(noProgram, []*accounts.AccountInfo{a, b}), runtime.ErrIncorrectProgramId)
		assert.ErrorIs(t, runtime.Validate(instruction.Instruction{}, nil), runtime.ErrIncorrectProgramId)
	})

	t.Run("Arity", func(t *testing.T) {
		assert.ErrorIs(t, runtime.Validate(ix, []*accounts.AccountInfo{a}), runtime.ErrNotEnoughAccountKeys)
		assert.ErrorIs(t, runtime.Validate(ix, nil), runtime.ErrNotEnoughAccountKeys)
	})

	t.Run("KeyMismatch", func(t *testing.T) {
		assert.ErrorIs(t, runtime.Validate(ix, []*accounts.AccountInfo{b, a}), runtime.ErrInvalidArgument)
	})

	t.Run("MismatchReportedBeforeBorrow", func(t *testing.T) {
		ref, err := a.TryBorrowMutData()
		require.NoError(t, err)
		defer ref.Release()
		assert.ErrorIs(t, runtime.Validate(ix, []*accounts.AccountInfo{a, newInfo(false)}), runtime.ErrInvalidArgument)
	})

	t.Run("WritableRoleNeedsExclusiveBorrow", func(t *testing.T) {
		ref, err := a.TryBorrowData()
		require.NoError(t, err)
		err = runtime.Validate(ix, []*accounts.AccountInfo{a, b})
		assert.ErrorIs(t, err, accounts.ErrAccountBorrowFailed)
		assert.ErrorIs(t, err, accounts.ErrDataBorrowShared)
		ref.Release()

		lamports, err := a.TryBorrowLamports()
		require.NoError(t, err)
		assert.ErrorIs(t, runtime.Validate(ix, []*accounts.AccountInfo{a, b}), accounts.ErrLamportsBorrowShared)
		lamports.Release()
	})

	t.Run("ReadonlyRoleAllowsSharedBorrow", func(t *testing.T) {
		ref, err := b.TryBorrowData()
		require.NoError(t, err)
		assert.NoError(t, runtime.Validate(ix, []*accounts.AccountInfo{a, b}))
		ref.Release()

		mut, err := b.TryBorrowMutLamports()
		require.NoError(t, err)
		assert.ErrorIs(t, runtime.Validate(ix, []*accounts.AccountInfo{a, b}), accounts.ErrLamportsBorrowExclusive)
		mut.Release()
	})

	t.Run("PrivilegesNotChecked", func(t *testing.T) {
		readonly := a.View(false, false)
		assert.NoError(t, runtime.Validate(ix, []*accounts.AccountInfo{readonly, b}))
	})
}

func TestValidate_DoesNotTakeBorrows(t *testing.T) {
	program := solana.SystemProgramID
	a := newInfo(true)
	ix := instruction.Instruction{ProgramID: &program, Accounts: []instruction.AccountMeta{instruction.Writable(a.Key())}}

	require.NoError(t, runtime.Validate(ix, []*accounts.AccountInfo{a}))
	assert.NoError(t, a.CheckBorrowMutData())
	assert.NoError(t, a.CheckBorrowMutLamports())
}
