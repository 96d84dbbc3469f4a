package scenario

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.firedancer.io/quartz/pkg/cpi"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/programs/system"
	"go.firedancer.io/quartz/pkg/runtime"
	"k8s.io/klog/v2"
)

// Step is one system program call.
type Step struct {
	Op        string `yaml:"op"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Base      string `yaml:"base"`
	Account   string `yaml:"account"`
	Lamports  uint64 `yaml:"lamports"`
	Space     uint64 `yaml:"space"`
	Owner     Key    `yaml:"owner"`
	Seed      string `yaml:"seed"`
	FromOwner Key    `yaml:"from_owner"`

	// SignFor names program derived accounts the caller signs for.
	SignFor []string `yaml:"sign_for"`
	// ExpectError is a fragment of the error the step must fail with.
	ExpectError string `yaml:"expect_error"`
	// Unchecked dispatches without validating the call.
	Unchecked bool `yaml:"unchecked"`
}

type role uint8

const (
	roleFrom role = iota
	roleTo
	roleBase
	roleAccount
)

func (st *Step) name(r role) string {
	switch r {
	case roleFrom:
		return st.From
	case roleTo:
		return st.To
	case roleBase:
		return st.Base
	}
	return st.Account
}

type opSpec struct {
	roles []role
	build func(st *Step, set *Set) cpi.Invoker
}

var ops = map[string]opSpec{
	"create_account": {
		roles: []role{roleFrom, roleTo},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.CreateAccount{
				From:     set.Info(st.From),
				To:       set.Info(st.To),
				Lamports: st.Lamports,
				Space:    st.Space,
				Owner:    st.Owner.PublicKey(),
			}.InvokeParts()
			return &p
		},
	},
	"assign": {
		roles: []role{roleAccount},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.Assign{Account: set.Info(st.Account), Owner: st.Owner.PublicKey()}.InvokeParts()
			return &p
		},
	},
	"transfer": {
		roles: []role{roleFrom, roleTo},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.Transfer{From: set.Info(st.From), To: set.Info(st.To), Lamports: st.Lamports}.InvokeParts()
			return &p
		},
	},
	"allocate": {
		roles: []role{roleAccount},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.Allocate{Account: set.Info(st.Account), Space: st.Space}.InvokeParts()
			return &p
		},
	},
	"create_account_with_seed": {
		roles: []role{roleFrom, roleTo},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.CreateAccountWithSeed{
				From:     set.Info(st.From),
				To:       set.Info(st.To),
				Base:     set.Info(st.Base),
				Seed:     st.Seed,
				Lamports: st.Lamports,
				Space:    st.Space,
				Owner:    st.Owner.PublicKey(),
			}.InvokeParts()
			return &p
		},
	},
	"allocate_with_seed": {
		roles: []role{roleAccount, roleBase},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.AllocateWithSeed{
				Account: set.Info(st.Account),
				Base:    set.Info(st.Base),
				Seed:    st.Seed,
				Space:   st.Space,
				Owner:   st.Owner.PublicKey(),
			}.InvokeParts()
			return &p
		},
	},
	"assign_with_seed": {
		roles: []role{roleAccount, roleBase},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.AssignWithSeed{
				Account: set.Info(st.Account),
				Base:    set.Info(st.Base),
				Seed:    st.Seed,
				Owner:   st.Owner.PublicKey(),
			}.InvokeParts()
			return &p
		},
	},
	"transfer_with_seed": {
		roles: []role{roleFrom, roleBase, roleTo},
		build: func(st *Step, set *Set) cpi.Invoker {
			p := system.TransferWithSeed{
				From:      set.Info(st.From),
				Base:      set.Info(st.Base),
				To:        set.Info(st.To),
				Lamports:  st.Lamports,
				Seed:      st.Seed,
				FromOwner: st.FromOwner.PublicKey(),
			}.InvokeParts()
			return &p
		},
	},
}

// refs lists the account names the step refers to.
func (st *Step) refs() []string {
	var names []string
	for _, name := range []string{st.From, st.To, st.Base, st.Account} {
		if name != "" {
			names = append(names, name)
		}
	}
	return append(names, st.SignFor...)
}

// Request builds the call a step makes.
func (st *Step) Request(set *Set) (cpi.Invoker, error) {
	spec, ok := ops[st.Op]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	for _, r := range spec.roles {
		name := st.name(r)
		if name == "" {
			return nil, fmt.Errorf("%s: missing account", st.Op)
		}
		if set.Info(name) == nil {
			return nil, fmt.Errorf("%s: %w %q", st.Op, ErrUnknownAccount, name)
		}
	}
	if st.Base != "" && set.Info(st.Base) == nil {
		return nil, fmt.Errorf("%s: %w %q", st.Op, ErrUnknownAccount, st.Base)
	}
	return spec.build(st, set), nil
}

type Result struct {
	Index int
	Op    string
	Err   error
	// OK reports whether the step failed exactly when it was expected to.
	OK bool
}

// Run executes every step in order on rt.
func (s *Scenario) Run(rt runtime.Runtime, set *Set) []Result {
	results := make([]Result, 0, len(s.Steps))
	for i := range s.Steps {
		st := &s.Steps[i]
		err := st.run(rt, set)
		res := Result{Index: i, Op: st.Op, Err: err, OK: st.matches(err)}
		if !res.OK {
			klog.V(2).Infof("step %d (%s): %v", i, st.Op, err)
		}
		results = append(results, res)
	}
	return results
}

func (st *Step) run(rt runtime.Runtime, set *Set) error {
	inv, err := st.Request(set)
	if err != nil {
		return err
	}
	signers := make([]instruction.Signer, 0, len(st.SignFor))
	for _, name := range st.SignFor {
		signer, err := set.Signer(name)
		if err != nil {
			return err
		}
		signers = append(signers, signer)
	}
	if st.Unchecked {
		return inv.InvokeUncheckedWith(rt, signers...)
	}
	return inv.InvokeWith(rt, signers...)
}

func (st *Step) matches(err error) bool {
	if st.ExpectError == "" {
		return err == nil
	}
	return err != nil && strings.Contains(err.Error(), st.ExpectError)
}

// Ops lists the supported step ops in order.
func Ops() []string {
	names := lo.Keys(ops)
	slices.Sort(names)
	return names
}
