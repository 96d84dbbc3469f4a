package mock

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/runtime"
)

func (r *Runtime) InvokeSigned(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error {
	if err := runtime.Validate(ix, infos); err != nil {
		return err
	}
	return r.InvokeSignedUnchecked(ix, infos, signers)
}

func (r *Runtime) InvokeSignedUnchecked(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error {
	if ix.ProgramID == nil {
		return runtime.ErrIncorrectProgramId
	}
	programID := *ix.ProgramID

	r.mu.Lock()
	e, ok := r.entries[programID]
	caller := r.caller
	if len(r.stack) > 0 {
		caller = r.stack[len(r.stack)-1]
	}
	height := len(r.stack) + 1

	var err error
	switch {
	case !ok:
		err = fmt.Errorf("%w: %s", runtime.ErrUnsupportedProgramId, programID)
		invocations.WithLabelValues("unsupported_program").Inc()
	case e.program == nil:
		err = fmt.Errorf("%w: %s", runtime.ErrAccountNotExecutable, programID)
		invocations.WithLabelValues("not_executable").Inc()
	case height > runtime.MaxInvokeStackHeight:
		err = runtime.ErrCallDepth
		invocations.WithLabelValues("call_depth").Inc()
	default:
		err = r.meter.Consume(CUInvokeUnits)
	}
	if err != nil {
		r.logs = append(r.logs, fmt.Sprintf("Program %s failed: %v", programID, err))
		r.flushLocked()
		r.mu.Unlock()
		return err
	}

	r.stack = append(r.stack, programID)
	r.logs = append(r.logs, fmt.Sprintf("Program %s invoke [%d]", programID, height))
	r.mu.Unlock()

	views, err := calleeViews(ix, infos, signers, caller)
	if err == nil {
		saved := snapshot(views)
		if err = e.program(programID, views, ix.Data); err != nil {
			for _, s := range saved {
				s.restore()
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		r.logs = append(r.logs, fmt.Sprintf("Program %s failed: %v", programID, err))
		r.flushLocked()
		invocations.WithLabelValues("failed").Inc()
		return err
	}
	r.logs = append(r.logs, fmt.Sprintf("Program %s success", programID))
	invocations.WithLabelValues("success").Inc()
	return nil
}

// calleeViews hands the callee one view per account role, carrying the
// role's privileges. A role may not be more privileged than the caller's
// view, except that signers may be proven by seeds of the calling program.
func calleeViews(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer, caller solana.PublicKey) ([]*accounts.AccountInfo, error) {
	var signerKeys []solana.PublicKey
	for _, signer := range signers {
		addr, err := pda.CreateProgramAddress(signer.Bytes(), caller)
		if err != nil {
			return nil, err
		}
		signerKeys = append(signerKeys, addr)
	}

	views := make([]*accounts.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		info := findInfo(infos, meta.Pubkey)
		if info == nil {
			return nil, fmt.Errorf("%w: %s", runtime.ErrMissingAccount, meta.Pubkey)
		}
		if meta.IsWritable && !info.IsWritable() {
			return nil, fmt.Errorf("%w: %s is read-only in caller", runtime.ErrPrivilegeEscalation, meta.Pubkey)
		}
		if meta.IsSigner && !info.IsSigner() && !containsKey(signerKeys, meta.Pubkey) {
			return nil, fmt.Errorf("%w: %s did not sign", runtime.ErrPrivilegeEscalation, meta.Pubkey)
		}
		views[i] = info.View(meta.IsSigner, meta.IsWritable)
	}
	return views, nil
}

// savedAccount is the state of a writable account before the callee ran.
type savedAccount struct {
	acct     *accounts.Account
	lamports uint64
	owner    [32]byte
	data     []byte
}

// snapshot records every account the callee may write. Views of one
// account share its state, so each account is recorded once.
func snapshot(views []*accounts.AccountInfo) []savedAccount {
	var saved []savedAccount
	for _, view := range views {
		if !view.IsWritable() {
			continue
		}
		acct := view.Account()
		dup := false
		for _, s := range saved {
			if s.acct == acct {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		saved = append(saved, savedAccount{
			acct:     acct,
			lamports: acct.Lamports,
			owner:    acct.Owner,
			data:     bytes.Clone(acct.Data),
		})
	}
	return saved
}

// restore rolls the account back, reusing its buffer when it still fits.
func (s savedAccount) restore() {
	s.acct.Lamports = s.lamports
	s.acct.Owner = s.owner
	if cap(s.acct.Data) >= len(s.data) {
		s.acct.Data = s.acct.Data[:len(s.data)]
		copy(s.acct.Data, s.data)
	} else {
		s.acct.Data = s.data
	}
}

func findInfo(infos []*accounts.AccountInfo, key solana.PublicKey) *accounts.AccountInfo {
	for _, info := range infos {
		if *info.KeyUnchecked() == key {
			return info
		}
	}
	return nil
}

func containsKey(keys []solana.PublicKey, key solana.PublicKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
