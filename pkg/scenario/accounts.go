package scenario

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/programs/system"
	"go.firedancer.io/quartz/pkg/rent"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/util"
)

// Registrar makes an account known to a backend and returns its base view.
type Registrar func(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo

// Detached registers nothing. Views it returns belong to no backend.
func Detached(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo {
	return accounts.NewAccountInfo(key, acct, false, false)
}

// Set holds the views top level calls are made with, by account name.
type Set struct {
	Names   []string
	infos   map[string]*accounts.AccountInfo
	signers map[string]instruction.Signer
}

func newSet() *Set {
	return &Set{
		infos:   make(map[string]*accounts.AccountInfo),
		signers: make(map[string]instruction.Signer),
	}
}

func (s *Set) Info(name string) *accounts.AccountInfo {
	return s.infos[name]
}

// Signer returns the seeds that prove control of a program derived account.
func (s *Set) Signer(name string) (instruction.Signer, error) {
	signer, ok := s.signers[name]
	if !ok {
		return nil, fmt.Errorf("account %s is not program derived", name)
	}
	return signer, nil
}

func (s *Set) add(name string, info *accounts.AccountInfo) {
	s.Names = append(s.Names, name)
	s.infos[name] = info
}

// Commit writes every account to store.
func (s *Set) Commit(store accounts.Accounts) error {
	for _, name := range s.Names {
		info := s.infos[name]
		key := info.Key()
		if err := store.SetAccount((*[32]byte)(&key), info.Account()); err != nil {
			return fmt.Errorf("failed to commit %s: %w", name, err)
		}
	}
	return nil
}

// BuildAccounts creates the accounts of s through reg. Accounts marked
// for loading are read from store, which may be nil otherwise.
func (s *Scenario) BuildAccounts(reg Registrar, store accounts.Accounts) (*Set, error) {
	set := newSet()
	keys := make([]solana.PublicKey, 0, len(s.Accounts))
	for i := range s.Accounts {
		spec := &s.Accounts[i]
		key, err := s.keyOf(spec, set)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", spec.Name, err)
		}
		keys = append(keys, key)
		if len(util.DedupePubkeys(slices.Clone(keys))) != len(keys) {
			return nil, fmt.Errorf("account %s: %w %s", spec.Name, ErrDuplicateKey, key)
		}

		acct, err := spec.account(key, store)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", spec.Name, err)
		}
		set.add(spec.Name, reg(key, acct).View(spec.Signer, spec.Writable))
	}
	return set, nil
}

func (s *Scenario) keyOf(spec *AccountSpec, set *Set) (solana.PublicKey, error) {
	switch {
	case spec.Key != nil:
		return spec.Key.PublicKey(), nil

	case len(spec.PDA) > 0:
		seeds := make([][]byte, len(spec.PDA))
		for i, seed := range spec.PDA {
			seeds[i] = []byte(seed)
		}
		key, bump, err := pda.FindProgramAddress(seeds, s.ProgramID.PublicKey(), nil)
		if err != nil {
			return solana.PublicKey{}, err
		}
		set.signers[spec.Name] = instruction.NewSigner(append(seeds, []byte{bump})...)
		return key, nil

	case spec.WithSeed != nil:
		base := set.Info(spec.WithSeed.Base)
		if base == nil {
			return solana.PublicKey{}, fmt.Errorf("base %s must be declared first", spec.WithSeed.Base)
		}
		return pda.CreateWithSeed(base.Key(), spec.WithSeed.Seed, spec.WithSeed.Owner.PublicKey())
	}
	return pda.CreateWithSeed(s.ProgramID.PublicKey(), spec.Name, system.ProgramID)
}

func (spec *AccountSpec) account(key solana.PublicKey, store accounts.Accounts) (*accounts.Account, error) {
	if spec.Load {
		if store == nil {
			return nil, fmt.Errorf("no account store to load from")
		}
		acct, err := store.GetAccount((*[32]byte)(&key))
		if err != nil {
			return nil, err
		}
		if acct == nil {
			return nil, fmt.Errorf("%w: %s", runtime.ErrMissingAccount, key)
		}
		return acct, nil
	}

	data := make([]byte, spec.Space)
	if spec.Data != nil {
		data = bytes.Clone(spec.Data)
	}
	lamports := spec.Lamports
	if spec.RentExempt {
		lamports = max(lamports, rent.Default.MinimumBalance(uint64(len(data))))
	}
	return &accounts.Account{
		Lamports:   lamports,
		Data:       data,
		Owner:      spec.Owner,
		Executable: spec.Executable,
	}, nil
}
