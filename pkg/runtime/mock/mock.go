// Package mock is an in-process stand-in for the host. Programs are Go
// functions registered by address; accounts live in a registry and are
// handed out as live views. Calls between registered programs nest
// synchronously, the way they would on chain.
package mock

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/cu"
	"go.firedancer.io/quartz/pkg/runtime"
	"k8s.io/klog/v2"
)

// CUInvokeUnits is charged for every dispatched call.
const CUInvokeUnits = 1000

// ProgramFunc is a program entrypoint. programID is the address the program
// was invoked at.
type ProgramFunc func(programID solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error

var invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "quartz",
	Subsystem: "mock",
	Name:      "invocations_total",
	Help:      "Cross-program calls dispatched by the simulated runtime, by outcome.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(invocations)
}

type entry struct {
	name    string
	program ProgramFunc
	account *accounts.AccountInfo
}

type Runtime struct {
	mu      sync.Mutex
	entries map[solana.PublicKey]*entry
	logs    []string
	dumped  int
	meter   cu.ComputeMeter
	stack   []solana.PublicKey

	budget    uint64
	unmetered bool
	store     accounts.Accounts
	caller    solana.PublicKey
}

var _ runtime.Runtime = (*Runtime)(nil)

type Option func(*Runtime)

// WithComputeBudget sets the compute units available across all calls.
// Zero keeps cu.DefaultBudget.
func WithComputeBudget(budget uint64) Option {
	return func(r *Runtime) {
		r.budget = budget
	}
}

// WithUnmeteredCompute keeps charging compute units but lets calls run
// past the budget.
func WithUnmeteredCompute() Option {
	return func(r *Runtime) {
		r.unmetered = true
	}
}

// WithAccountStore persists committed accounts to store and makes
// LoadAccount read from it.
func WithAccountStore(store accounts.Accounts) Option {
	return func(r *Runtime) {
		r.store = store
	}
}

// WithProgramID sets the program that calls made outside any registered
// program are attributed to. Signer seeds of top level calls are derived
// against it.
func WithProgramID(programID solana.PublicKey) Option {
	return func(r *Runtime) {
		r.caller = programID
	}
}

func New(opts ...Option) *Runtime {
	r := new(Runtime)
	r.reset(opts)
	return r
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process wide runtime, creating it on first use.
func Default() *Runtime {
	defaultOnce.Do(func() {
		defaultRuntime = New()
	})
	return defaultRuntime
}

// Reset drops every registered program, account and log line.
func (r *Runtime) Reset(opts ...Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset(opts)
}

func (r *Runtime) reset(opts []Option) {
	r.entries = make(map[solana.PublicKey]*entry)
	r.logs = nil
	r.dumped = 0
	r.stack = nil
	r.budget = 0
	r.unmetered = false
	r.store = nil
	r.caller = solana.PublicKey{}
	for _, opt := range opts {
		opt(r)
	}
	if r.budget == 0 {
		r.meter = cu.NewComputeMeterDefault()
	} else {
		r.meter = cu.NewComputeMeter(r.budget)
	}
	if r.unmetered {
		r.meter.Disable()
	}
}

func (r *Runtime) AddProgram(programID solana.PublicKey, name string, fn ProgramFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[programID] = &entry{name: name, program: fn}
	klog.V(3).Infof("mock: registered program %s at %s", name, programID)
}

// AddAccount registers acct under key. The registry keeps acct itself,
// grown to carry accounts.MaxPermittedDataIncrease bytes of slack.
func (r *Runtime) AddAccount(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo {
	info := accounts.NewAccountInfo(key, acct, false, false)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = &entry{account: info}
	return info
}

// LoadAccount registers the account stored under key in the account store.
func (r *Runtime) LoadAccount(key solana.PublicKey) (*accounts.AccountInfo, error) {
	r.mu.Lock()
	store := r.store
	r.mu.Unlock()
	if store == nil {
		return nil, fmt.Errorf("mock: no account store configured")
	}

	acct, err := store.GetAccount((*[32]byte)(&key))
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, fmt.Errorf("%w: %s", runtime.ErrMissingAccount, key)
	}
	return r.AddAccount(key, acct), nil
}

// AccountInfo returns a view of a registered account with the given
// privileges. Views of one account share borrow state.
func (r *Runtime) AccountInfo(key solana.PublicKey, isSigner, isWritable bool) (*accounts.AccountInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok || e.account == nil {
		return nil, fmt.Errorf("%w: %s", runtime.ErrMissingAccount, key)
	}
	return e.account.View(isSigner, isWritable), nil
}

// Commit writes the state behind info to the account store, if any.
func (r *Runtime) Commit(info *accounts.AccountInfo) error {
	r.mu.Lock()
	store := r.store
	r.mu.Unlock()
	if store == nil {
		return nil
	}
	key := info.Key()
	return store.SetAccount((*[32]byte)(&key), info.Account())
}

// CommitAll writes every registered account to the account store.
func (r *Runtime) CommitAll() error {
	r.mu.Lock()
	infos := make([]*accounts.AccountInfo, 0, len(r.entries))
	for _, e := range r.entries {
		if e.account != nil {
			infos = append(infos, e.account)
		}
	}
	r.mu.Unlock()

	for _, info := range infos {
		if err := r.Commit(info); err != nil {
			return err
		}
	}
	return nil
}

// ProgramName returns the name a program was registered with.
func (r *Runtime) ProgramName(programID solana.PublicKey) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[programID]
	if !ok || e.program == nil {
		return "", false
	}
	return e.name, true
}

// Logs returns a copy of the log lines recorded so far.
func (r *Runtime) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.logs...)
}

func (r *Runtime) ComputeUnitsRemaining() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meter.Remaining()
}

// ComputeUsage reports the units charged so far and whether any call
// ran past the budget.
func (r *Runtime) ComputeUsage() (used uint64, exceeded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meter.Used(), r.meter.Exceeded()
}

// StackHeight is the number of active nested calls.
func (r *Runtime) StackHeight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

func (r *Runtime) log(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, msg)
}

// flushLocked dumps log lines not dumped by an earlier failure.
func (r *Runtime) flushLocked() {
	if r.dumped == len(r.logs) {
		return
	}
	klog.Errorf("mock: call failed, program log follows")
	for _, line := range r.logs[r.dumped:] {
		klog.Errorf("  %s", line)
	}
	r.dumped = len(r.logs)
}
