// Package scenario describes a sequence of system program calls in YAML and
// runs it against any runtime backend. It backs the quartz CLI.
package scenario

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/samber/lo"
	"go.firedancer.io/quartz/pkg/pda"
	"gopkg.in/yaml.v3"
)

// Key is a public key written in base58.
type Key solana.PublicKey

func (k *Key) UnmarshalYAML(node *yaml.Node) error {
	b, err := base58.Decode(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid key %q: %w", node.Line, node.Value, err)
	}
	if len(b) != solana.PublicKeyLength {
		return fmt.Errorf("line %d: key %q is %d bytes long", node.Line, node.Value, len(b))
	}
	copy(k[:], b)
	return nil
}

func (k Key) MarshalYAML() (any, error) {
	return solana.PublicKey(k).String(), nil
}

func (k Key) PublicKey() solana.PublicKey {
	return solana.PublicKey(k)
}

// HexBytes is a byte string written in hex.
type HexBytes []byte

func (h *HexBytes) UnmarshalYAML(node *yaml.Node) error {
	b, err := hex.DecodeString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid hex: %w", node.Line, err)
	}
	*h = b
	return nil
}

type Scenario struct {
	// Backend is one of mock, host or blackbox.
	Backend       string `yaml:"backend"`
	ComputeBudget uint64 `yaml:"compute_budget"`
	// Unmetered lets calls run past the compute budget. Usage is still
	// reported.
	Unmetered bool `yaml:"unmetered"`

	// ProgramID is the program top level calls are made on behalf of.
	// Signer seeds and derived accounts use it.
	ProgramID Key           `yaml:"program_id"`
	Accounts  []AccountSpec `yaml:"accounts"`
	Steps     []Step        `yaml:"steps"`
}

// AccountSpec describes an account and the view top level calls get of it.
// Without an explicit key or derivation the account lives at the address
// derived from ProgramID with its name as seed.
type AccountSpec struct {
	Name       string      `yaml:"name"`
	Key        *Key        `yaml:"key"`
	WithSeed   *WithSeed   `yaml:"with_seed"`
	PDA        []string    `yaml:"pda"`
	Lamports   uint64      `yaml:"lamports"`
	Space      uint64      `yaml:"space"`
	Data       HexBytes    `yaml:"data"`
	Owner      Key         `yaml:"owner"`
	Executable bool        `yaml:"executable"`
	Signer     bool        `yaml:"signer"`
	Writable   bool        `yaml:"writable"`
	// RentExempt tops up Lamports to the rent exempt minimum.
	RentExempt bool        `yaml:"rent_exempt"`

	// Load reads the account from the account store instead.
	Load bool `yaml:"load"`
}

// WithSeed places an account at the address derived from another account.
type WithSeed struct {
	Base  string `yaml:"base"`
	Seed  string `yaml:"seed"`
	Owner Key    `yaml:"owner"`
}

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrUnknownOp      = errors.New("unknown op")
	ErrUnknownAccount = errors.New("unknown account")
	ErrDuplicateKey   = errors.New("duplicate account key")
)

// Load decodes and checks a scenario.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := new(Scenario)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) check() error {
	switch s.Backend {
	case "":
		s.Backend = BackendMock
	case BackendMock, BackendHost, BackendBlackBox:
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, s.Backend)
	}

	names := lo.Map(s.Accounts, func(a AccountSpec, _ int) string { return a.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return fmt.Errorf("duplicate accounts: %v", dups)
	}
	if lo.Contains(names, "") {
		return fmt.Errorf("account without a name")
	}

	for _, acct := range s.Accounts {
		if acct.WithSeed != nil && !lo.Contains(names, acct.WithSeed.Base) {
			return fmt.Errorf("account %s: %w %q", acct.Name, ErrUnknownAccount, acct.WithSeed.Base)
		}
		if err := checkSeeds(acct.seeds()...); err != nil {
			return fmt.Errorf("account %s: %w", acct.Name, err)
		}
	}

	for i, step := range s.Steps {
		if _, ok := ops[step.Op]; !ok {
			return fmt.Errorf("step %d: %w %q", i, ErrUnknownOp, step.Op)
		}
		if err := checkSeeds(step.Seed); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		for _, ref := range step.refs() {
			if !lo.Contains(names, ref) {
				return fmt.Errorf("step %d: %w %q", i, ErrUnknownAccount, ref)
			}
		}
	}
	return nil
}

// seeds returns the seeds the account address is derived from.
func (a *AccountSpec) seeds() []string {
	switch {
	case a.Key != nil:
		return nil
	case len(a.PDA) > 0:
		return a.PDA
	case a.WithSeed != nil:
		return []string{a.WithSeed.Seed}
	}
	return []string{a.Name}
}

func checkSeeds(seeds ...string) error {
	for _, seed := range seeds {
		if len(seed) > pda.MaxSeedLen {
			return fmt.Errorf("seed %q: %w", seed, pda.ErrMaxSeedLengthExceeded)
		}
	}
	return nil
}
