// Package rpcclient reads accounts from a cluster over JSON-RPC.
package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.firedancer.io/quartz/pkg/accounts"
	"k8s.io/klog/v2"
)

var ErrReadOnly = errors.New("rpc account source is read-only")

// RpcClient is an accounts.Accounts that fetches accounts at the latest
// confirmed state. Rent epochs are not carried over.
type RpcClient struct {
	client  *rpc.Client
	timeout time.Duration
}

var _ accounts.Accounts = (*RpcClient)(nil)

func NewRpcClient(endpoint string) *RpcClient {
	client := rpc.New(endpoint)
	return &RpcClient{client: client, timeout: 30 * time.Second}
}

// GetAccount returns nil without an error for accounts that do not exist.
func (c *RpcClient) GetAccount(pubkey *[32]byte) (*accounts.Account, error) {
	key := solana.PublicKey(*pubkey)
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	out, err := c.client.GetAccountInfoWithOpts(ctx, key, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", key, err)
	}

	value := out.Value
	klog.V(3).Infof("fetched %s at slot %d: %d lamports", key, out.Context.Slot, value.Lamports)
	return &accounts.Account{
		Key:        key,
		Lamports:   value.Lamports,
		Data:       value.Data.GetBinary(),
		Owner:      value.Owner,
		Executable: value.Executable,
	}, nil
}

func (c *RpcClient) SetAccount(*[32]byte, *accounts.Account) error {
	return ErrReadOnly
}
