package runtime

import (
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
)

// Validate checks that infos can back ix: ix names a program, there is a
// view for every role, view i carries the key of role i, and every view can
// be borrowed the way its role requires. Borrows are only checked, never taken.
func Validate(ix instruction.Instruction, infos []*accounts.AccountInfo) error {
	if ix.ProgramID == nil {
		return ErrIncorrectProgramId
	}
	if len(infos) < len(ix.Accounts) {
		return ErrNotEnoughAccountKeys
	}

	for i := range ix.Accounts {
		if *infos[i].KeyUnchecked() != ix.Accounts[i].Pubkey {
			return ErrInvalidArgument
		}
	}

	for i := range ix.Accounts {
		info := infos[i]
		if ix.Accounts[i].IsWritable {
			if err := info.CheckBorrowMutData(); err != nil {
				return err
			}
			if err := info.CheckBorrowMutLamports(); err != nil {
				return err
			}
		} else {
			if err := info.CheckBorrowData(); err != nil {
				return err
			}
			if err := info.CheckBorrowLamports(); err != nil {
				return err
			}
		}
	}

	return nil
}
