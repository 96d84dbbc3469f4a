package scenario

import (
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/pda"
)

const programKey = "Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo"

const fundingScenario = `
program_id: ` + programKey + `
accounts:
  - name: payer
    lamports: 1000000
    signer: true
    writable: true
  - name: dest
    writable: true
  - name: vault
    pda: [vault]
    writable: true
  - name: seeded
    with_seed: {base: payer, seed: s1, owner: ` + programKey + `}
    writable: true
steps:
  - op: transfer
    from: payer
    to: dest
    lamports: 100
  - op: create_account_with_seed
    from: payer
    to: seeded
    seed: s1
    lamports: 500
    space: 8
    owner: ` + programKey + `
  - op: create_account
    from: payer
    to: vault
    lamports: 2000
    space: 16
    owner: ` + programKey + `
    sign_for: [vault]
  - op: transfer
    from: payer
    to: dest
    lamports: 10000000
    expect_error: "0x1"
`

func load(t *testing.T, doc string) *Scenario {
	t.Helper()
	s, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	return s
}

func runOn(t *testing.T, backend string) (*Set, []Result, Backend) {
	t.Helper()
	s := load(t, fundingScenario)
	s.Backend = backend
	b, err := s.NewBackend()
	require.NoError(t, err)
	set, err := s.BuildAccounts(b.Register, nil)
	require.NoError(t, err)
	return set, s.Run(b.Runtime(), set), b
}

func TestRun(t *testing.T) {
	program := solana.MustPublicKeyFromBase58(programKey)
	for _, backend := range []string{BackendMock, BackendHost} {
		t.Run(backend, func(t *testing.T) {
			set, results, b := runOn(t, backend)
			require.Len(t, results, 4)
			for _, res := range results {
				assert.True(t, res.OK, "step %d (%s): %v", res.Index, res.Op, res.Err)
			}

			assert.Equal(t, uint64(997_400), set.Info("payer").Lamports())
			assert.Equal(t, uint64(100), set.Info("dest").Lamports())

			seeded := set.Info("seeded")
			assert.Equal(t, uint64(500), seeded.Lamports())
			assert.Equal(t, 8, seeded.DataLen())
			assert.True(t, seeded.IsOwnedBy(program))

			vault := set.Info("vault")
			assert.Equal(t, uint64(2000), vault.Lamports())
			assert.Equal(t, 16, vault.DataLen())
			assert.True(t, vault.IsOwnedBy(program))

			assert.NotEmpty(t, b.Logs())
		})
	}
}

func TestRun_BlackBox(t *testing.T) {
	set, results, b := runOn(t, BackendBlackBox)
	require.Len(t, results, 4)
	assert.True(t, results[0].OK)
	assert.False(t, results[3].OK, "failure expected by the scenario cannot happen")
	assert.Equal(t, uint64(1_000_000), set.Info("payer").Lamports())
	assert.Empty(t, b.Logs())
}

func TestBuildAccounts_Keys(t *testing.T) {
	s := load(t, fundingScenario)
	set, err := s.BuildAccounts(Detached, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"payer", "dest", "vault", "seeded"}, set.Names)

	program := s.ProgramID.PublicKey()
	payerKey, err := pda.CreateWithSeed(program, "payer", solana.SystemProgramID)
	require.NoError(t, err)
	assert.Equal(t, payerKey, set.Info("payer").Key())

	vaultKey, _, err := pda.FindProgramAddress([][]byte{[]byte("vault")}, program, nil)
	require.NoError(t, err)
	assert.Equal(t, vaultKey, set.Info("vault").Key())

	seededKey, err := pda.CreateWithSeed(payerKey, "s1", program)
	require.NoError(t, err)
	assert.Equal(t, seededKey, set.Info("seeded").Key())

	_, err = set.Signer("vault")
	assert.NoError(t, err)
	_, err = set.Signer("payer")
	assert.Error(t, err)

	assert.True(t, set.Info("payer").IsSigner())
	assert.False(t, set.Info("dest").IsSigner())
}

func TestBuildAccounts_DuplicateKey(t *testing.T) {
	key := solana.NewWallet().PublicKey().String()
	s := load(t, "accounts: [{name: a, key: "+key+"}, {name: b}, {name: c, key: "+key+"}]")
	_, err := s.BuildAccounts(Detached, nil)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.ErrorContains(t, err, "account c")

	// A derived address colliding with an explicit one is caught too.
	derived, err := pda.CreateWithSeed(s.ProgramID.PublicKey(), "b", solana.SystemProgramID)
	require.NoError(t, err)
	s = load(t, "accounts: [{name: b}, {name: x, key: "+derived.String()+"}]")
	_, err = s.BuildAccounts(Detached, nil)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestCommitAndLoad(t *testing.T) {
	store := accounts.NewMemAccounts()
	set, _, _ := runOn(t, BackendMock)
	require.NoError(t, set.Commit(store))

	s := load(t, `
program_id: `+programKey+`
accounts:
  - name: dest
    load: true
    writable: true
  - name: missing
    load: true
`)
	_, err := s.BuildAccounts(Detached, store)
	assert.ErrorContains(t, err, "missing")

	s.Accounts = s.Accounts[:1]
	loaded, err := s.BuildAccounts(Detached, store)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), loaded.Info("dest").Lamports())
}

func TestLoad_Errors(t *testing.T) {
	long := strings.Repeat("s", pda.MaxSeedLen+1)
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"UnknownField", "colour: blue", "colour"},
		{"BadKey", "program_id: notakey0", "invalid key"},
		{"ShortKey", "program_id: 1111", "bytes long"},
		{"Backend", "backend: quantum", ErrUnknownBackend.Error()},
		{"Duplicate", "accounts: [{name: a}, {name: a}]", "duplicate"},
		{"Unnamed", "accounts: [{lamports: 1}]", "without a name"},
		{"Op", "steps: [{op: withdraw}]", ErrUnknownOp.Error()},
		{"Reference", "accounts: [{name: a}]\nsteps: [{op: transfer, from: a, to: b}]", ErrUnknownAccount.Error()},
		{"BadHex", "accounts: [{name: a, data: zz}]", "invalid hex"},
		{"StepSeed", "accounts: [{name: a}]\nsteps: [{op: allocate_with_seed, account: a, base: a, seed: " + long + "}]", pda.ErrMaxSeedLengthExceeded.Error()},
		{"WithSeed", "accounts: [{name: a}, {name: b, with_seed: {base: a, seed: " + long + "}}]", pda.ErrMaxSeedLengthExceeded.Error()},
		{"PDASeed", "accounts: [{name: a, pda: [" + long + "]}]", pda.ErrMaxSeedLengthExceeded.Error()},
		{"NameAsSeed", "accounts: [{name: " + long + "}]", pda.ErrMaxSeedLengthExceeded.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_SeedAtLimit(t *testing.T) {
	seed := strings.Repeat("s", pda.MaxSeedLen)
	s, err := Load(strings.NewReader("accounts: [{name: " + seed + ", key: 11111111111111111111111111111111}, {name: b, pda: [" + seed + "]}]"))
	require.NoError(t, err)
	_, err = s.BuildAccounts(Detached, nil)
	assert.NoError(t, err)
}

func TestStep_Request(t *testing.T) {
	s := load(t, fundingScenario)
	set, err := s.BuildAccounts(Detached, nil)
	require.NoError(t, err)

	inv, err := s.Steps[0].Request(set)
	require.NoError(t, err)
	ix := inv.Instruction()
	assert.Equal(t, solana.SystemProgramID, *ix.ProgramID)
	assert.Equal(t, []byte{2, 0, 0, 0, 100, 0, 0, 0, 0, 0, 0, 0}, ix.Data)

	_, err = (&Step{Op: "assign"}).Request(set)
	assert.ErrorContains(t, err, "missing account")
}

func TestOps(t *testing.T) {
	assert.Equal(t, []string{
		"allocate", "allocate_with_seed", "assign", "assign_with_seed",
		"create_account", "create_account_with_seed", "transfer", "transfer_with_seed",
	}, Ops())
}

func TestBuildAccounts_RentExempt(t *testing.T) {
	s := load(t, `
accounts:
  - name: funded
    space: 8
    rent_exempt: true
  - name: rich
    lamports: 5000000
    rent_exempt: true
`)
	set, err := s.BuildAccounts(Detached, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(946_560), set.Info("funded").Lamports())
	assert.Equal(t, uint64(5_000_000), set.Info("rich").Lamports())
}
