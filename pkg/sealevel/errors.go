package sealevel

import "errors"

// Syscall failures. They abort the calling program and have no program
// error code.
var (
	SyscallErrCopyOverlapping       = errors.New("Overlapping copy")
	SyscallErrMaxSeedLengthExceeded = errors.New("MaxSeedLengthExceeded")
	SyscallErrTooManySigners        = errors.New("TooManySigners")
	SyscallErrInvalidLength         = errors.New("InvalidLength")
	SyscallErrMalformedBool         = errors.New("MalformedBool")
	SyscallErrTooManyAccounts       = errors.New("MaxInstructionAccountInfosExceeded")
	SyscallErrInstructionTooLarge   = errors.New("InstructionTooLarge")
)
