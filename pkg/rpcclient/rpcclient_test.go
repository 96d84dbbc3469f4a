package rpcclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, value string) *RpcClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getAccountInfo", req.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) +
			`,"result":{"context":{"slot":42},"value":` + value + `}}`))
	}))
	t.Cleanup(srv.Close)
	return NewRpcClient(srv.URL)
}

func TestGetAccount(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")
	c := serve(t, `{"data":["AQID","base64"],"executable":false,"lamports":1500,"owner":"`+owner.String()+`","rentEpoch":0,"space":3}`)

	key := solana.NewWallet().PublicKey()
	acct, err := c.GetAccount((*[32]byte)(&key))
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, key, acct.Key)
	assert.Equal(t, uint64(1500), acct.Lamports)
	assert.Equal(t, []byte{1, 2, 3}, acct.Data)
	assert.Equal(t, [32]byte(owner), acct.Owner)
}

func TestGetAccount_Missing(t *testing.T) {
	c := serve(t, `null`)
	key := solana.NewWallet().PublicKey()
	acct, err := c.GetAccount((*[32]byte)(&key))
	assert.NoError(t, err)
	assert.Nil(t, acct)
}

func TestSetAccountRejected(t *testing.T) {
	c := NewRpcClient("http://127.0.0.1:0")
	var key [32]byte
	assert.ErrorIs(t, c.SetAccount(&key, nil), ErrReadOnly)
}
