// Package rent computes rent exemption and the rent state of accounts.
package rent

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"go.firedancer.io/quartz/pkg/accounts"
)

// AccountStorageOverhead is the per account size charged on top of its data.
const AccountStorageOverhead = 128

var ErrInsufficientFundsForRent = errors.New("InsufficientFundsForRent")

// Rent mirrors the rent sysvar.
type Rent struct {
	LamportsPerUint8Year uint64
	ExemptionThreshold   float64
	BurnPercent          byte
}

// Default is the rent configuration of mainnet-beta.
var Default = Rent{
	LamportsPerUint8Year: 3480,
	ExemptionThreshold:   2.0,
	BurnPercent:          50,
}

func (r *Rent) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	r.LamportsPerUint8Year, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LamportsPerUint8Year when decoding Rent: %w", err)
	}
	r.ExemptionThreshold, err = decoder.ReadFloat64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read ExemptionThreshold when decoding Rent: %w", err)
	}
	r.BurnPercent, err = decoder.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read BurnPercent when decoding Rent: %w", err)
	}
	return
}

// MinimumBalance is the balance an account with dataLen bytes needs to be
// exempt from rent.
func (r *Rent) MinimumBalance(dataLen uint64) uint64 {
	bytes := AccountStorageOverhead + dataLen
	return uint64(float64(bytes*r.LamportsPerUint8Year) * r.ExemptionThreshold)
}

func (r *Rent) IsExempt(lamports, dataLen uint64) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

const (
	StateUninitialized = iota
	StateRentPaying
	StateRentExempt
)

type State struct {
	Kind     int
	Lamports uint64
	DataSize uint64
}

func (s State) String() string {
	switch s.Kind {
	case StateUninitialized:
		return "uninitialized"
	case StateRentPaying:
		return "rent-paying"
	}
	return "rent-exempt"
}

func (r *Rent) StateOf(acct *accounts.Account) State {
	dataLen := uint64(len(acct.Data))
	switch {
	case acct.Lamports == 0:
		return State{Kind: StateUninitialized}
	case r.IsExempt(acct.Lamports, dataLen):
		return State{Kind: StateRentExempt}
	}
	return State{Kind: StateRentPaying, Lamports: acct.Lamports, DataSize: dataLen}
}

// CheckTransition reports whether an account may go from pre to post. An
// account may only end up rent-paying if it already was, kept its size and
// did not gain lamports.
func CheckTransition(pre, post State) error {
	if post.Kind != StateRentPaying {
		return nil
	}
	if pre.Kind == StateRentPaying && post.DataSize == pre.DataSize && post.Lamports <= pre.Lamports {
		return nil
	}
	return fmt.Errorf("%w: %s account became rent-paying", ErrInsufficientFundsForRent, pre)
}
