package rent

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/quartz/pkg/accounts"
)

func TestMinimumBalance(t *testing.T) {
	assert.Equal(t, uint64(890_880), Default.MinimumBalance(0))
	assert.Equal(t, uint64(946_560), Default.MinimumBalance(8))
	assert.True(t, Default.IsExempt(890_880, 0))
	assert.False(t, Default.IsExempt(890_879, 0))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateUninitialized, Default.StateOf(&accounts.Account{}).Kind)
	assert.Equal(t, StateRentExempt, Default.StateOf(&accounts.Account{Lamports: 1_000_000}).Kind)

	paying := Default.StateOf(&accounts.Account{Lamports: 10, Data: make([]byte, 3)})
	assert.Equal(t, State{Kind: StateRentPaying, Lamports: 10, DataSize: 3}, paying)
	assert.Equal(t, "rent-paying", paying.String())
}

func TestCheckTransition(t *testing.T) {
	exempt := State{Kind: StateRentExempt}
	uninit := State{Kind: StateUninitialized}
	paying := State{Kind: StateRentPaying, Lamports: 10, DataSize: 3}

	assert.NoError(t, CheckTransition(uninit, exempt))
	assert.NoError(t, CheckTransition(paying, uninit))
	assert.NoError(t, CheckTransition(paying, State{Kind: StateRentPaying, Lamports: 9, DataSize: 3}))

	assert.ErrorIs(t, CheckTransition(uninit, paying), ErrInsufficientFundsForRent)
	assert.ErrorIs(t, CheckTransition(exempt, paying), ErrInsufficientFundsForRent)
	assert.ErrorIs(t, CheckTransition(paying, State{Kind: StateRentPaying, Lamports: 11, DataSize: 3}), ErrInsufficientFundsForRent)
	assert.ErrorIs(t, CheckTransition(paying, State{Kind: StateRentPaying, Lamports: 5, DataSize: 4}), ErrInsufficientFundsForRent)
}

func TestRentDecode(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	require.NoError(t, enc.WriteUint64(3480, bin.LE))
	require.NoError(t, enc.WriteFloat64(2.0, bin.LE))
	require.NoError(t, enc.WriteByte(50))

	var r Rent
	require.NoError(t, r.UnmarshalWithDecoder(bin.NewBinDecoder(buf.Bytes())))
	assert.Equal(t, Default, r)

	assert.Error(t, r.UnmarshalWithDecoder(bin.NewBinDecoder(buf.Bytes()[:9])))
}
