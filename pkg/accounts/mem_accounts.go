package accounts

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/btree"
)

type memEntry struct {
	key  [32]byte
	acct *Account
}

// MemAccounts is an in-memory store ordered by key. It keeps its own
// copies, so callers may keep mutating an account after handing it over.
// It is safe for concurrent use.
type MemAccounts struct {
	tree *btree.BTreeG[memEntry]
}

func NewMemAccounts() MemAccounts {
	return MemAccounts{
		tree: btree.NewBTreeG(func(a, b memEntry) bool {
			return bytes.Compare(a.key[:], b.key[:]) < 0
		}),
	}
}

func (m MemAccounts) GetAccount(pubkey *[32]byte) (*Account, error) {
	e, ok := m.tree.Get(memEntry{key: *pubkey})
	if !ok {
		return nil, nil
	}
	return e.acct.Clone(), nil
}

func (m MemAccounts) SetAccount(pubkey *[32]byte, acc *Account) error {
	m.tree.Set(memEntry{key: *pubkey, acct: acc.Clone()})
	return nil
}

// Keys returns the stored keys in ascending order.
func (m MemAccounts) Keys() []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, m.tree.Len())
	m.tree.Scan(func(e memEntry) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}
