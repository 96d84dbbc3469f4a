// Package pda derives program addresses: off-curve addresses a program can
// sign for, and the base/seed/owner addresses used by the seeded system
// instructions.
package pda

import (
	"bytes"
	"errors"
	"math"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/minio/sha256-simd"
)

const MaxSeeds = 16
const MaxSeedLen = 32
const PublicKeyLength = 32
const Marker = "ProgramDerivedAddress"

var (
	ErrMaxSeedLengthExceeded = errors.New("Length of the seed is too long for address generation")
	ErrTooManySeeds          = errors.New("Max seeds (16) exceeded")
	ErrAddressLength         = errors.New("Wrong key length; addresses are 32 bytes long")
	ErrInvalidSeeds          = errors.New("Provided seeds do not result in a valid address")
	ErrIllegalOwner          = errors.New("Provided owner is not allowed")
)

// CreateProgramAddressBytes hashes seeds and program id into an address,
// failing if the result lies on the ed25519 curve.
func CreateProgramAddressBytes(seeds [][]byte, programID []byte) ([]byte, error) {
	if len(seeds) > MaxSeeds {
		return nil, ErrTooManySeeds
	}

	if len(programID) != PublicKeyLength {
		return nil, ErrAddressLength
	}

	hasher := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return nil, ErrMaxSeedLengthExceeded
		}
		hasher.Write(seed)
	}

	hasher.Write(programID)
	hasher.Write([]byte(Marker))
	hash := hasher.Sum(nil)

	if IsOnCurve(hash) {
		return nil, ErrInvalidSeeds
	}

	return hash, nil
}

func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, err := CreateProgramAddressBytes(seeds, programID[:])
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(addr), nil
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the
// first valid address together with its bump. attempt is called once per
// candidate bump, so callers can meter the search.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey, attempt func() error) (solana.PublicKey, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return solana.PublicKey{}, 0, ErrTooManySeeds
	}

	seedsWithBump := make([][]byte, len(seeds)+1)
	copy(seedsWithBump, seeds)

	var bump [1]byte
	for bumpSeed := uint8(math.MaxUint8); bumpSeed > 0; bumpSeed-- {
		if attempt != nil {
			if err := attempt(); err != nil {
				return solana.PublicKey{}, 0, err
			}
		}
		bump[0] = bumpSeed
		seedsWithBump[len(seeds)] = bump[:]

		addr, err := CreateProgramAddress(seedsWithBump, programID)
		if err == nil {
			return addr, bumpSeed, nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return solana.PublicKey{}, 0, err
		}
	}

	return solana.PublicKey{}, 0, ErrInvalidSeeds
}

// CreateWithSeed derives sha256(base || seed || owner), rejecting owners
// that end in the program address marker.
func CreateWithSeed(base solana.PublicKey, seed string, owner solana.PublicKey) (solana.PublicKey, error) {
	if len(seed) > MaxSeedLen {
		return solana.PublicKey{}, ErrMaxSeedLengthExceeded
	}

	if bytes.HasSuffix(owner[:], []byte(Marker)) {
		return solana.PublicKey{}, ErrIllegalOwner
	}

	hasher := sha256.New()
	hasher.Write(base[:])
	hasher.Write([]byte(seed))
	hasher.Write(owner[:])
	return solana.PublicKeyFromBytes(hasher.Sum(nil)), nil
}

// IsOnCurve checks if 'b' is on the ed25519 curve
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	onCurve := err == nil
	return onCurve
}
