package runtime

import (
	"errors"
	"fmt"

	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/pda"
)

// Program errors with a builtin wire code.
var (
	ErrInvalidArgument                        = errors.New("InvalidArgument")
	ErrInvalidInstructionData                 = errors.New("InvalidInstructionData")
	ErrInvalidAccountData                     = errors.New("InvalidAccountData")
	ErrAccountDataTooSmall                    = errors.New("AccountDataTooSmall")
	ErrInsufficientFunds                      = errors.New("InsufficientFunds")
	ErrIncorrectProgramId                     = errors.New("IncorrectProgramId")
	ErrMissingRequiredSignature               = errors.New("MissingRequiredSignature")
	ErrAccountAlreadyInitialized              = errors.New("AccountAlreadyInitialized")
	ErrUninitializedAccount                   = errors.New("UninitializedAccount")
	ErrNotEnoughAccountKeys                   = errors.New("NotEnoughAccountKeys")
	ErrAccountBorrowFailed                    = accounts.ErrAccountBorrowFailed
	ErrMaxSeedLengthExceeded                  = pda.ErrMaxSeedLengthExceeded
	ErrInvalidSeeds                           = pda.ErrInvalidSeeds
	ErrBorshIoError                           = errors.New("BorshIoError")
	ErrAccountNotRentExempt                   = errors.New("AccountNotRentExempt")
	ErrUnsupportedSysvar                      = errors.New("UnsupportedSysvar")
	ErrIllegalOwner                           = pda.ErrIllegalOwner
	ErrMaxAccountsDataAllocationsExceeded     = errors.New("MaxAccountsDataAllocationsExceeded")
	ErrInvalidRealloc                         = accounts.ErrInvalidRealloc
	ErrMaxInstructionTraceLengthExceeded      = errors.New("MaxInstructionTraceLengthExceeded")
	ErrBuiltinProgramsMustConsumeComputeUnits = errors.New("BuiltinProgramsMustConsumeComputeUnits")
	ErrInvalidAccountOwner                    = errors.New("InvalidAccountOwner")
	ErrArithmeticOverflow                     = errors.New("ArithmeticOverflow")
	ErrImmutable                              = errors.New("Immutable")
	ErrIncorrectAuthority                     = errors.New("IncorrectAuthority")
)

// Dispatch failures. These abort the call chain and have no wire code.
var (
	ErrUnsupportedProgramId = errors.New("UnsupportedProgramId")
	ErrAccountNotExecutable = errors.New("AccountNotExecutable")
	ErrCallDepth            = errors.New("CallDepth")
	ErrPrivilegeEscalation  = errors.New("PrivilegeEscalation")
	ErrMissingAccount       = errors.New("MissingAccount")
	ErrAccessViolation      = errors.New("AccessViolation")
	ErrCopyOverlapping      = errors.New("Overlapping copy")
)

// CustomError is a program specific error code.
type CustomError uint32

func (e CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", uint32(e))
}

// HostError carries a code the host reported that maps to no known error.
type HostError struct {
	Code uint64
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host error code %#x", e.Code)
}

const builtinShift = 32

// builtinErrors is indexed by the high word of the wire code. Index 1 is
// Custom(0), which does not fit in the low word.
var builtinErrors = [...]error{
	2:  ErrInvalidArgument,
	3:  ErrInvalidInstructionData,
	4:  ErrInvalidAccountData,
	5:  ErrAccountDataTooSmall,
	6:  ErrInsufficientFunds,
	7:  ErrIncorrectProgramId,
	8:  ErrMissingRequiredSignature,
	9:  ErrAccountAlreadyInitialized,
	10: ErrUninitializedAccount,
	11: ErrNotEnoughAccountKeys,
	12: ErrAccountBorrowFailed,
	13: ErrMaxSeedLengthExceeded,
	14: ErrInvalidSeeds,
	15: ErrBorshIoError,
	16: ErrAccountNotRentExempt,
	17: ErrUnsupportedSysvar,
	18: ErrIllegalOwner,
	19: ErrMaxAccountsDataAllocationsExceeded,
	20: ErrInvalidRealloc,
	21: ErrMaxInstructionTraceLengthExceeded,
	22: ErrBuiltinProgramsMustConsumeComputeUnits,
	23: ErrInvalidAccountOwner,
	24: ErrArithmeticOverflow,
	25: ErrImmutable,
	26: ErrIncorrectAuthority,
}

// ErrorFromCode decodes a program error code returned by the host.
func ErrorFromCode(code uint64) error {
	if code == 0 {
		return nil
	}
	hi := code >> builtinShift
	if hi == 0 {
		return CustomError(uint32(code))
	}
	if code&0xFFFF_FFFF == 0 {
		if hi == 1 {
			return CustomError(0)
		}
		if hi < uint64(len(builtinErrors)) && builtinErrors[hi] != nil {
			return builtinErrors[hi]
		}
	}
	return &HostError{Code: code}
}

// ErrorCode encodes err as a program error code. ok is false when err has
// no wire representation.
func ErrorCode(err error) (code uint64, ok bool) {
	if err == nil {
		return 0, true
	}

	var custom CustomError
	if errors.As(err, &custom) {
		if custom == 0 {
			return 1 << builtinShift, true
		}
		return uint64(custom), true
	}

	var hostErr *HostError
	if errors.As(err, &hostErr) {
		return hostErr.Code, true
	}

	for i, builtin := range builtinErrors {
		if builtin != nil && errors.Is(err, builtin) {
			return uint64(i) << builtinShift, true
		}
	}
	return 0, false
}
