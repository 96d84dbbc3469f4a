package accounts

import (
	"bytes"
	"path/filepath"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, dataLen int) (*AccountInfo, *Account) {
	t.Helper()
	acct := &Account{Lamports: 1000, Data: make([]byte, dataLen), Owner: solana.SystemProgramID}
	info := NewAccountInfo(solana.NewWallet().PublicKey(), acct, true, true)
	return info, acct
}

func TestAccountInfo_SharedBorrows(t *testing.T) {
	info, _ := newTestAccount(t, 8)

	r1, err := info.TryBorrowData()
	require.NoError(t, err)
	r2, err := info.TryBorrowData()
	require.NoError(t, err)

	assert.NoError(t, info.CheckBorrowData())
	assert.ErrorIs(t, info.CheckBorrowMutData(), ErrDataBorrowShared)
	_, err = info.TryBorrowMutData()
	assert.ErrorIs(t, err, ErrAccountBorrowFailed)

	r1.Release()
	r1.Release()
	assert.ErrorIs(t, info.CheckBorrowMutData(), ErrDataBorrowShared)
	r2.Release()
	assert.NoError(t, info.CheckBorrowMutData())
}

func TestAccountInfo_ExclusiveBorrowVisibleThroughClones(t *testing.T) {
	info, acct := newTestAccount(t, 4)
	clone := info.Clone()
	readonly := info.View(false, false)

	ref, err := clone.TryBorrowMutData()
	require.NoError(t, err)
	ref.Value()[0] = 0xAA

	assert.ErrorIs(t, info.CheckBorrowData(), ErrDataBorrowExclusive)
	assert.ErrorIs(t, readonly.CheckBorrowMutData(), ErrDataBorrowExclusive)
	assert.NoError(t, readonly.CheckBorrowLamports())

	ref.Release()
	assert.NoError(t, info.CheckBorrowData())
	assert.Equal(t, byte(0xAA), acct.Data[0])
	assert.True(t, readonly.SameAccount(info))
	assert.False(t, readonly.IsWritable())
}

func TestAccountInfo_LamportsBorrow(t *testing.T) {
	info, acct := newTestAccount(t, 0)

	ref, err := info.TryBorrowMutLamports()
	require.NoError(t, err)
	*ref.Value() -= 400

	_, err = info.TryBorrowLamports()
	assert.ErrorIs(t, err, ErrLamportsBorrowExclusive)
	assert.NoError(t, info.CheckBorrowMutData())

	ref.Release()
	assert.Equal(t, uint64(600), acct.Lamports)
	assert.Equal(t, uint64(600), info.Lamports())

	shared, err := info.TryBorrowLamports()
	require.NoError(t, err)
	assert.ErrorIs(t, info.CheckBorrowMutLamports(), ErrLamportsBorrowShared)
	shared.Release()
}

func TestAccountInfo_SharedBorrowLimit(t *testing.T) {
	info, _ := newTestAccount(t, 1)

	refs := make([]Ref[[]byte], 0, borrowMaxShared)
	for i := 0; i < borrowMaxShared; i++ {
		ref, err := info.TryBorrowData()
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	_, err := info.TryBorrowData()
	assert.ErrorIs(t, err, ErrDataBorrowShared)

	for i := range refs {
		refs[i].Release()
	}
	assert.NoError(t, info.CheckBorrowMutData())
}

func TestAccountInfo_Resize(t *testing.T) {
	info, acct := newTestAccount(t, 16)
	acct.Data[15] = 7

	require.NoError(t, info.Resize(16+MaxPermittedDataIncrease))
	assert.Equal(t, 16+MaxPermittedDataIncrease, info.DataLen())
	assert.Equal(t, byte(7), acct.Data[15])
	assert.Equal(t, byte(0), acct.Data[16])

	assert.ErrorIs(t, info.Resize(17+MaxPermittedDataIncrease), ErrInvalidRealloc)

	require.NoError(t, info.Resize(4))
	assert.Equal(t, 4, info.DataLen())
	require.NoError(t, info.Resize(16))
	assert.Equal(t, byte(0), acct.Data[15])

	ref, err := info.TryBorrowData()
	require.NoError(t, err)
	assert.ErrorIs(t, info.Resize(8), ErrAccountBorrowFailed)
	ref.Release()
}

func TestAccount_Codec(t *testing.T) {
	acct := Account{
		Key:        solana.NewWallet().PublicKey(),
		Lamports:   42,
		Data:       []byte{1, 2, 3},
		Owner:      solana.SystemProgramID,
		Executable: true,
		RentEpoch:  9,
	}

	buf := new(bytes.Buffer)
	require.NoError(t, acct.MarshalWithEncoder(bin.NewBinEncoder(buf)))

	var decoded Account
	require.NoError(t, decoded.UnmarshalWithDecoder(bin.NewBinDecoder(buf.Bytes())))
	assert.Equal(t, acct, decoded)
}

func TestMemAccounts_CopiesOnSet(t *testing.T) {
	store := NewMemAccounts()
	key := solana.NewWallet().PublicKey()
	acct := &Account{Lamports: 5, Data: []byte{1}}

	require.NoError(t, store.SetAccount((*[32]byte)(&key), acct))
	acct.Data[0] = 9

	got, err := store.GetAccount((*[32]byte)(&key))
	require.NoError(t, err)
	assert.Equal(t, byte(1), got.Data[0])
	assert.Len(t, store.Keys(), 1)

	missing := solana.NewWallet().PublicKey()
	got, err = store.GetAccount((*[32]byte)(&missing))
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemAccounts_KeysOrdered(t *testing.T) {
	store := NewMemAccounts()
	for _, b := range []byte{3, 1, 2, 1} {
		var key [32]byte
		key[0] = b
		require.NoError(t, store.SetAccount(&key, &Account{Lamports: uint64(b)}))
	}

	keys := store.Keys()
	require.Len(t, keys, 3)
	for i, key := range keys {
		assert.Equal(t, byte(i+1), key[0])
	}
}

func TestPersistentAccountsDb(t *testing.T) {
	db, err := OpenAccountsDb(filepath.Join(t.TempDir(), "accounts"))
	require.NoError(t, err)
	defer db.Close()

	key := solana.NewWallet().PublicKey()
	acct := &Account{Key: key, Lamports: 77, Data: bytes.Repeat([]byte{4, 5}, 512), Owner: solana.SystemProgramID}
	require.NoError(t, db.SetAccount((*[32]byte)(&key), acct))

	got, err := db.GetAccount((*[32]byte)(&key))
	require.NoError(t, err)
	assert.Equal(t, acct, got)

	missing := solana.NewWallet().PublicKey()
	got, err = db.GetAccount((*[32]byte)(&missing))
	assert.NoError(t, err)
	assert.Nil(t, got)
}
