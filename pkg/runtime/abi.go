package runtime

// Syscall symbols resolved by the host.
const (
	SyscallLog                   = "sol_log_"
	SyscallLog64                 = "sol_log_64_"
	SyscallLogPubkey             = "sol_log_pubkey"
	SyscallLogComputeUnits       = "sol_log_compute_units_"
	SyscallLogData               = "sol_log_data"
	SyscallMemcpy                = "sol_memcpy_"
	SyscallMemmove               = "sol_memmove_"
	SyscallMemcmp                = "sol_memcmp_"
	SyscallMemset                = "sol_memset_"
	SyscallCreateProgramAddress  = "sol_create_program_address"
	SyscallTryFindProgramAddress = "sol_try_find_program_address"
	SyscallInvokeSignedC         = "sol_invoke_signed_c"
)

// C ABI struct sizes, all little endian and 8 byte aligned.
const (
	SolInstructionSize  = 40 // program_id, accounts, accounts_len, data, data_len
	SolAccountMetaSize  = 16 // pubkey, is_writable, is_signer, pad
	SolAccountInfoSize  = 56 // key, lamports, data_len, data, owner, rent_epoch, flags
	SolSignerSeedsSize  = 16 // addr, len
	SolSignerSeedSize   = 16 // addr, len
	SolAccountInfoFlags = 48 // offset of is_signer
)

// Limits the host enforces on a cross-program call.
const (
	MaxSigners                = 16
	MaxCpiInstructionDataLen  = 10 * 1024
	MaxCpiInstructionAccounts = 255
	MaxCpiAccountInfos        = 128
	MaxInvokeStackHeight      = 5
)
