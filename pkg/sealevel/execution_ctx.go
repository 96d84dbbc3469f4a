package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/cu"
	"go.firedancer.io/quartz/pkg/runtime"
)

// Program is a program the reference host can dispatch to. rt is the
// runtime the program uses for its own syscalls and nested calls.
type Program func(rt runtime.Runtime, programID solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error

// Native adapts an entrypoint that makes no syscalls of its own.
func Native(fn func(programID solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error) Program {
	return func(_ runtime.Runtime, programID solana.PublicKey, infos []*accounts.AccountInfo, data []byte) error {
		return fn(programID, infos, data)
	}
}

// ExecutionCtx is the state of one executing program frame. Nested frames
// share the log, the compute meter and the program registry.
type ExecutionCtx struct {
	Log          Logger
	ComputeMeter *cu.ComputeMeter
	ProgramID    solana.PublicKey
	StackHeight  int
	Programs     map[solana.PublicKey]Program
}

// NewExecutionCtx returns the context of a top level frame executing
// programID. A zero budget selects cu.DefaultBudget.
func NewExecutionCtx(programID solana.PublicKey, budget uint64) *ExecutionCtx {
	meter := cu.NewComputeMeterDefault()
	if budget != 0 {
		meter = cu.NewComputeMeter(budget)
	}
	return &ExecutionCtx{
		Log:          new(LogRecorder),
		ComputeMeter: &meter,
		ProgramID:    programID,
		StackHeight:  1,
		Programs:     make(map[solana.PublicKey]Program),
	}
}

func (e *ExecutionCtx) AddProgram(programID solana.PublicKey, program Program) {
	e.Programs[programID] = program
}

// Runtime returns a production backend whose host is this frame.
func (e *ExecutionCtx) Runtime() *runtime.HostRuntime {
	return runtime.NewHostRuntime(NewHost(e))
}

func (e *ExecutionCtx) child(programID solana.PublicKey) *ExecutionCtx {
	return &ExecutionCtx{
		Log:          e.Log,
		ComputeMeter: e.ComputeMeter,
		ProgramID:    programID,
		StackHeight:  e.StackHeight + 1,
		Programs:     e.Programs,
	}
}
