package scenario

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/programs/system"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/runtime/mock"
	"go.firedancer.io/quartz/pkg/sealevel"
)

const (
	BackendMock     = "mock"
	BackendHost     = "host"
	BackendBlackBox = "blackbox"
)

// Backend is a runtime together with the place its accounts live.
type Backend interface {
	Runtime() runtime.Runtime
	Register(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo
	Logs() []string
	// ComputeUsage reports the units charged so far and whether the
	// budget was overrun.
	ComputeUsage() (used uint64, exceeded bool)
}

// NewBackend returns a fresh backend of the kind s asks for, with the
// system program installed.
func (s *Scenario) NewBackend() (Backend, error) {
	switch s.Backend {
	case BackendMock, "":
		opts := []mock.Option{mock.WithComputeBudget(s.ComputeBudget), mock.WithProgramID(s.ProgramID.PublicKey())}
		if s.Unmetered {
			opts = append(opts, mock.WithUnmeteredCompute())
		}
		rt := mock.New(opts...)
		rt.AddProgram(system.ProgramID, "system", system.Process)
		return mockBackend{rt}, nil
	case BackendHost:
		ctx := sealevel.NewExecutionCtx(s.ProgramID.PublicKey(), s.ComputeBudget)
		if s.Unmetered {
			ctx.ComputeMeter.Disable()
		}
		ctx.AddProgram(system.ProgramID, sealevel.Native(system.Process))
		return hostBackend{ctx}, nil
	case BackendBlackBox:
		return blackBoxBackend{}, nil
	}
	return nil, ErrUnknownBackend
}

type mockBackend struct {
	rt *mock.Runtime
}

func (b mockBackend) Runtime() runtime.Runtime {
	return b.rt
}

func (b mockBackend) Register(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo {
	return b.rt.AddAccount(key, acct)
}

func (b mockBackend) Logs() []string {
	return b.rt.Logs()
}

func (b mockBackend) ComputeUsage() (uint64, bool) {
	return b.rt.ComputeUsage()
}

type hostBackend struct {
	ctx *sealevel.ExecutionCtx
}

func (b hostBackend) Runtime() runtime.Runtime {
	return b.ctx.Runtime()
}

func (b hostBackend) Register(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo {
	return Detached(key, acct)
}

func (b hostBackend) Logs() []string {
	if rec, ok := b.ctx.Log.(*sealevel.LogRecorder); ok {
		return rec.Lines()
	}
	return nil
}

func (b hostBackend) ComputeUsage() (uint64, bool) {
	return b.ctx.ComputeMeter.Used(), b.ctx.ComputeMeter.Exceeded()
}

type blackBoxBackend struct{}

func (blackBoxBackend) Runtime() runtime.Runtime {
	return runtime.BlackBox{}
}

func (blackBoxBackend) Register(key solana.PublicKey, acct *accounts.Account) *accounts.AccountInfo {
	return Detached(key, acct)
}

func (blackBoxBackend) Logs() []string {
	return nil
}

func (blackBoxBackend) ComputeUsage() (uint64, bool) {
	return 0, false
}
