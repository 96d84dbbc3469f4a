package util

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"go.firedancer.io/quartz/pkg/accounts"
)

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp(0, 8))
	assert.Equal(t, uint64(8), AlignUp(1, 8))
	assert.Equal(t, uint64(16), AlignUp(16, 8))
}

func TestDedupePubkeys(t *testing.T) {
	a := solana.PublicKey{1}
	b := solana.PublicKey{2}
	out := DedupePubkeys([]solana.PublicKey{b, a, b, a})
	assert.Equal(t, []solana.PublicKey{a, b}, out)
	assert.True(t, PubkeyCmp(a, b))
	assert.False(t, PubkeyCmp(b, a))
}

func TestOverlapping(t *testing.T) {
	buf := make([]byte, 16)
	assert.True(t, Overlapping(buf[0:8], buf[4:12]))
	assert.False(t, Overlapping(buf[0:8], buf[8:16]))
	assert.False(t, Overlapping(buf[0:0], buf))
	assert.False(t, Overlapping(buf, make([]byte, 16)))
}

func TestCalculateAcctHash(t *testing.T) {
	acct := accounts.Account{Key: solana.PublicKey{1}, Lamports: 10, Data: []byte{1, 2}}
	h1 := CalculateAcctHash(acct)
	assert.Len(t, h1, 32)

	acct.Lamports++
	assert.NotEqual(t, h1, CalculateAcctHash(acct))
}
