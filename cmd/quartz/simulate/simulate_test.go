package simulate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/scenario"
)

func buildSet(t *testing.T) *scenario.Set {
	t.Helper()
	s, err := scenario.Load(strings.NewReader("accounts: [{name: a, lamports: 7, writable: true}]"))
	require.NoError(t, err)
	set, err := s.BuildAccounts(scenario.Detached, nil)
	require.NoError(t, err)
	return set
}

func TestCommitResults(t *testing.T) {
	set := buildSet(t)
	key := set.Info("a").Key()

	t.Run("SkipsOnUnexpectedStep", func(t *testing.T) {
		store := accounts.NewMemAccounts()
		results := []scenario.Result{
			{Index: 0, Op: "transfer", OK: true},
			{Index: 1, Op: "transfer", Err: errors.New("boom"), OK: false},
		}
		committed, err := commitResults(set, store, results)
		require.NoError(t, err)
		assert.False(t, committed)

		acct, err := store.GetAccount((*[32]byte)(&key))
		require.NoError(t, err)
		assert.Nil(t, acct)
	})

	t.Run("WritesWhenAllOK", func(t *testing.T) {
		store := accounts.NewMemAccounts()
		results := []scenario.Result{
			{Index: 0, Op: "transfer", OK: true},
			// An expected failure still counts as behaving.
			{Index: 1, Op: "transfer", Err: errors.New("boom"), OK: true},
		}
		committed, err := commitResults(set, store, results)
		require.NoError(t, err)
		assert.True(t, committed)

		acct, err := store.GetAccount((*[32]byte)(&key))
		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, uint64(7), acct.Lamports)
	})
}
