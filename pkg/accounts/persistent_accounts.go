package accounts

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/klauspost/compress/zstd"
	"github.com/lotusdblabs/lotusdb/v2"
	"github.com/mr-tron/base58"
)

// PersistentAccountsDb stores zstd compressed accounts in a lotusdb
// directory keyed by pubkey.
type PersistentAccountsDb struct {
	db  *lotusdb.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func OpenAccountsDb(dir string) (*PersistentAccountsDb, error) {
	options := lotusdb.DefaultOptions
	options.DirPath = dir

	db, err := lotusdb.Open(options)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PersistentAccountsDb{db: db, enc: enc, dec: dec}, nil
}

// GetAccount returns nil without an error for unknown keys, like MemAccounts.
func (m *PersistentAccountsDb) GetAccount(pubkey *[32]byte) (*Account, error) {
	acctBytes, err := m.db.Get(pubkey[:])
	if errors.Is(err, lotusdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error whilst retrieving account %s: %w", base58.Encode(pubkey[:]), err)
	}

	acctBytes, err = m.dec.DecodeAll(acctBytes, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress account %s: %w", base58.Encode(pubkey[:]), err)
	}

	decoder := bin.NewBinDecoder(acctBytes)
	acct := new(Account)

	err = acct.UnmarshalWithDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize account %s: %w", base58.Encode(pubkey[:]), err)
	}

	return acct, nil
}

func (m *PersistentAccountsDb) SetAccount(pubkey *[32]byte, acct *Account) error {
	writer := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(writer)

	err := acct.MarshalWithEncoder(encoder)
	if err != nil {
		return fmt.Errorf("failed to serialize account %s: %w", base58.Encode(pubkey[:]), err)
	}

	err = m.db.Put(pubkey[:], m.enc.EncodeAll(writer.Bytes(), nil))
	if err != nil {
		return fmt.Errorf("error setting account for %s: %w", base58.Encode(pubkey[:]), err)
	}

	return nil
}

func (m *PersistentAccountsDb) Close() error {
	m.dec.Close()
	_ = m.enc.Close()
	return m.db.Close()
}
