package encode

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/samber/lo"
	"github.com/segmentio/textio"
	"github.com/spf13/cobra"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/scenario"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "encode <op>",
	Short: "Print the instruction a system program call encodes to",
	Long: "Ops: " + strings.Join(scenario.Ops(), ", ") + "\n\n" +
		"Accounts not given on the command line get addresses derived from\n" +
		"their role name.",
	Args: cobra.ExactArgs(1),
	Run:  run,
}

var (
	from      string
	to        string
	base      string
	account   string
	owner     string
	fromOwner string
	seed      string
	lamports  uint64
	space     uint64
	format    string
)

func init() {
	Cmd.Flags().StringVar(&from, "from", "", "Funding account")
	Cmd.Flags().StringVar(&to, "to", "", "Recipient or created account")
	Cmd.Flags().StringVar(&base, "base", "", "Base account of derived addresses")
	Cmd.Flags().StringVar(&account, "account", "", "Account to assign or allocate")
	Cmd.Flags().StringVar(&owner, "owner", "", "New owner program")
	Cmd.Flags().StringVar(&fromOwner, "from-owner", "", "Owner used to derive the funding address")
	Cmd.Flags().StringVar(&seed, "seed", "", "Address derivation seed")
	Cmd.Flags().Uint64Var(&lamports, "lamports", 0, "Lamports to move")
	Cmd.Flags().Uint64Var(&space, "space", 0, "Bytes to allocate")
	Cmd.Flags().StringVarP(&format, "format", "f", "hex", "Payload format (hex, base58)")
}

func parseKey(flag, s string) scenario.Key {
	if s == "" {
		return scenario.Key{}
	}
	k, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		klog.Exitf("--%s: %v", flag, err)
	}
	return scenario.Key(k)
}

func run(c *cobra.Command, args []string) {
	roles := []lo.Tuple2[string, string]{
		lo.T2("from", from),
		lo.T2("to", to),
		lo.T2("base", base),
		lo.T2("account", account),
	}
	s := &scenario.Scenario{
		Accounts: lo.Map(roles, func(r lo.Tuple2[string, string], _ int) scenario.AccountSpec {
			spec := scenario.AccountSpec{Name: r.A}
			if r.B != "" {
				k := parseKey(r.A, r.B)
				spec.Key = &k
			}
			return spec
		}),
	}
	set, err := s.BuildAccounts(scenario.Detached, nil)
	if err != nil {
		klog.Exitf("failed to build accounts: %v", err)
	}

	st := scenario.Step{
		Op:        args[0],
		From:      "from",
		To:        "to",
		Account:   "account",
		Base:      "base",
		Lamports:  lamports,
		Space:     space,
		Seed:      seed,
		Owner:     parseKey("owner", owner),
		FromOwner: parseKey("from-owner", fromOwner),
	}
	if st.Op == "create_account_with_seed" && base == "" {
		st.Base = ""
	}
	inv, err := st.Request(set)
	if err != nil {
		klog.Exitf("%v", err)
	}
	ix := inv.Instruction()

	var payload string
	switch format {
	case "hex":
		payload = hex.EncodeToString(ix.Data)
	case "base58":
		payload = base58.Encode(ix.Data)
	default:
		klog.Exitf("unknown format %q", format)
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "program: %s\n", ix.ProgramID)
	fmt.Fprintln(out, "accounts:")
	pw := textio.NewPrefixWriter(out, "    ")
	lines := lo.Map(ix.Accounts, func(meta instruction.AccountMeta, i int) string {
		return fmt.Sprintf("%d. %s %s", i, meta.Pubkey, flags(meta))
	})
	fmt.Fprintln(pw, strings.Join(lines, "\n"))
	_ = pw.Flush()
	fmt.Fprintf(out, "data (%d bytes): %s\n", len(ix.Data), payload)
}

func flags(meta instruction.AccountMeta) string {
	var f []string
	if meta.IsWritable {
		f = append(f, "WRITE")
	}
	if meta.IsSigner {
		f = append(f, "SIGNER")
	}
	if len(f) == 0 {
		return "[]"
	}
	return "[" + strings.Join(f, ", ") + "]"
}
