package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/mr-tron/base58"
	"github.com/samber/lo"
	"github.com/segmentio/textio"
	"github.com/spf13/cobra"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/rent"
	"go.firedancer.io/quartz/pkg/rpcclient"
	"go.firedancer.io/quartz/pkg/scenario"
	"go.firedancer.io/quartz/pkg/util"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Run a scenario of system program calls",
	Args:  cobra.ExactArgs(1),
	Run:   run,
}

var (
	backend    string
	accountsDb string
	rpcURL     string
	commit     bool
	showLogs   bool
)

func init() {
	Cmd.Flags().StringVarP(&backend, "backend", "b", "", "Override the scenario backend (mock, host, blackbox)")
	Cmd.Flags().StringVar(&accountsDb, "accounts-db", "", "lotusdb directory to load accounts from")
	Cmd.Flags().StringVar(&rpcURL, "rpc", "", "JSON-RPC endpoint to load accounts from instead")
	Cmd.Flags().BoolVarP(&commit, "commit", "c", false, "Write accounts back to --accounts-db afterwards")
	Cmd.Flags().BoolVar(&showLogs, "logs", true, "Print program logs")
}

func run(c *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		klog.Exitf("failed to open scenario: %v", err)
	}
	s, err := scenario.Load(f)
	f.Close()
	if err != nil {
		klog.Exitf("%s: %v", args[0], err)
	}
	if backend != "" {
		s.Backend = backend
	}

	var store accounts.Accounts
	if accountsDb != "" && rpcURL != "" {
		klog.Exitf("--accounts-db and --rpc are mutually exclusive")
	}
	if rpcURL != "" {
		if commit {
			klog.Exitf("cannot --commit to an RPC endpoint")
		}
		store = rpcclient.NewRpcClient(rpcURL)
	} else if accountsDb != "" {
		db, err := accounts.OpenAccountsDb(accountsDb)
		if err != nil {
			klog.Exitf("failed to open accounts db %s: %v", accountsDb, err)
		}
		defer db.Close()
		store = db
	} else if commit {
		klog.Exitf("--commit needs --accounts-db")
	}

	b, err := s.NewBackend()
	if err != nil {
		klog.Exitf("backend %q: %v", s.Backend, err)
	}
	set, err := s.BuildAccounts(b.Register, store)
	if err != nil {
		klog.Exitf("failed to build accounts: %v", err)
	}
	klog.Infof("running %d steps on %s backend", len(s.Steps), s.Backend)

	pre := rentStates(set)
	results := s.Run(b.Runtime(), set)

	out := c.OutOrStdout()
	printResults(out, results)
	if showLogs {
		printLogs(out, b.Logs())
	}
	printAccounts(out, set, pre)
	used, exceeded := b.ComputeUsage()
	fmt.Fprintf(out, "compute: %d units used", used)
	if exceeded {
		fmt.Fprint(out, ", budget exceeded")
	}
	fmt.Fprintln(out)

	failed := countFailed(results)
	if commit {
		committed, err := commitResults(set, store, results)
		if err != nil {
			klog.Exitf("failed to commit accounts: %v", err)
		}
		if committed {
			klog.Infof("committed %d accounts to %s", len(set.Names), accountsDb)
		} else {
			klog.Warningf("not committing to %s: %d steps did not behave as expected", accountsDb, failed)
		}
	}

	if failed > 0 {
		klog.Exitf("%d of %d steps did not behave as expected", failed, len(results))
	}
}

func countFailed(results []scenario.Result) int {
	return lo.CountBy(results, func(r scenario.Result) bool { return !r.OK })
}

// commitResults writes set to store only if every step behaved as expected.
func commitResults(set *scenario.Set, store accounts.Accounts, results []scenario.Result) (bool, error) {
	if countFailed(results) > 0 {
		return false, nil
	}
	if err := set.Commit(store); err != nil {
		return false, err
	}
	return true, nil
}

func printResults(w io.Writer, results []scenario.Result) {
	for _, res := range results {
		status := "ok"
		if !res.OK {
			status = "UNEXPECTED"
		}
		if res.Err != nil {
			fmt.Fprintf(w, "step %d %-24s %s: %v\n", res.Index, res.Op, status, res.Err)
		} else {
			fmt.Fprintf(w, "step %d %-24s %s\n", res.Index, res.Op, status)
		}
	}
}

func printLogs(w io.Writer, logs []string) {
	if len(logs) == 0 {
		return
	}
	fmt.Fprintln(w, "logs:")
	pw := textio.NewPrefixWriter(w, "    ")
	for _, line := range logs {
		fmt.Fprintln(pw, line)
	}
	_ = pw.Flush()
}

func rentStates(set *scenario.Set) []rent.State {
	return lo.Map(set.Names, func(name string, _ int) rent.State {
		return rent.Default.StateOf(set.Info(name).Account())
	})
}

func printAccounts(w io.Writer, set *scenario.Set, pre []rent.State) {
	fmt.Fprintln(w, "accounts:")
	pw := textio.NewPrefixWriter(w, "    ")
	for i, name := range set.Names {
		info := set.Info(name)
		digest := util.CalculateAcctHash(*info.Account())
		post := rent.Default.StateOf(info.Account())
		fmt.Fprintf(pw, "%-12s %-44s lamports=%d len=%d owner=%s %s hash=%s\n",
			name, info.Key(), info.Lamports(), info.DataLen(), info.Owner(), post, base58.Encode(digest))
		if err := rent.CheckTransition(pre[i], post); err != nil {
			fmt.Fprintf(pw, "  warning: %v\n", err)
		}
	}
	_ = pw.Flush()
}
