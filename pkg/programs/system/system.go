// Package system builds calls to the system program and provides a Go
// implementation of its account management instructions for the simulated
// runtime.
package system

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/runtime"
)

var ProgramID = solana.SystemProgramID

// Well known accounts the nonce instructions take.
var (
	SysvarRecentBlockhashesAddr = solana.SysVarRecentBlockHashesPubkey
	SysvarRentAddr              = solana.SysVarRentPubkey
)

// MaxPermittedDataLen bounds the space an account may be allocated with.
const MaxPermittedDataLen = 10 * 1024 * 1024

const (
	InstrTypeCreateAccount = iota
	InstrTypeAssign
	InstrTypeTransfer
	InstrTypeCreateAccountWithSeed
	InstrTypeAdvanceNonceAccount
	InstrTypeWithdrawNonceAccount
	InstrTypeInitializeNonceAccount
	InstrTypeAuthorizeNonceAccount
	InstrTypeAllocate
	InstrTypeAllocateWithSeed
	InstrTypeAssignWithSeed
	InstrTypeTransferWithSeed
	InstrTypeUpgradeNonceAccount
)

// System program errors, as custom program error codes.
var (
	ErrAccountAlreadyInUse           = runtime.CustomError(0)
	ErrResultWithNegativeLamports    = runtime.CustomError(1)
	ErrInvalidProgramId              = runtime.CustomError(2)
	ErrInvalidAccountDataLength      = runtime.CustomError(3)
	ErrMaxSeedLengthExceeded         = runtime.CustomError(4)
	ErrAddressWithSeedMismatch       = runtime.CustomError(5)
	ErrNonceNoRecentBlockhashes      = runtime.CustomError(6)
	ErrNonceBlockhashNotExpired      = runtime.CustomError(7)
	ErrNonceUnexpectedBlockhashValue = runtime.CustomError(8)
)

// Payload capacities. Seeded layouts reserve room for the longest seed.
const (
	tagLen     = 4
	pubkeyLen  = solana.PublicKeyLength
	u64Len     = 8
	seedHeader = pubkeyLen + u64Len

	createAccountLen         = tagLen + u64Len + u64Len + pubkeyLen
	assignLen                = tagLen + pubkeyLen
	transferLen              = tagLen + u64Len
	createAccountWithSeedCap = tagLen + seedHeader + pda.MaxSeedLen + u64Len + u64Len + pubkeyLen
	nonceTagLen              = tagLen
	withdrawNonceLen         = tagLen + u64Len
	nonceAuthorityLen        = tagLen + pubkeyLen
	allocateLen              = tagLen + u64Len
	allocateWithSeedCap      = tagLen + seedHeader + pda.MaxSeedLen + u64Len + pubkeyLen
	assignWithSeedCap        = tagLen + seedHeader + pda.MaxSeedLen + pubkeyLen
	transferWithSeedCap      = tagLen + u64Len + u64Len + pda.MaxSeedLen + pubkeyLen
)

func putTag(buf []byte, tag uint32) {
	binary.LittleEndian.PutUint32(buf[0:tagLen], tag)
}

// putSeed writes a length prefixed seed at off and returns the offset just
// past it. Seeds longer than pda.MaxSeedLen are a programming error.
func putSeed(buf []byte, off int, seed string) int {
	if len(seed) > pda.MaxSeedLen {
		panic("system: seed longer than 32 bytes")
	}
	binary.LittleEndian.PutUint64(buf[off:off+u64Len], uint64(len(seed)))
	off += u64Len
	return off + copy(buf[off:], seed)
}
