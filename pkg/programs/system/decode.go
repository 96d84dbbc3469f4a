package system

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/runtime"
)

// maxPacketDataLen bounds how far a decoder may read into a payload.
const maxPacketDataLen = 1232

type InstrCreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey
}

type InstrAssign struct {
	Owner solana.PublicKey
}

type InstrTransfer struct {
	Lamports uint64
}

type InstrCreateAccountWithSeed struct {
	Base     solana.PublicKey
	Seed     string
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey
}

type InstrAdvanceNonceAccount struct{}

type InstrWithdrawNonceAccount struct {
	Lamports uint64
}

type InstrInitializeNonceAccount struct {
	Authority solana.PublicKey
}

type InstrAuthorizeNonceAccount struct {
	NewAuthority solana.PublicKey
}

type InstrAllocate struct {
	Space uint64
}

type InstrAllocateWithSeed struct {
	Base  solana.PublicKey
	Seed  string
	Space uint64
	Owner solana.PublicKey
}

type InstrAssignWithSeed struct {
	Base  solana.PublicKey
	Seed  string
	Owner solana.PublicKey
}

type InstrTransferWithSeed struct {
	Lamports  uint64
	FromSeed  string
	FromOwner solana.PublicKey
}

type InstrUpgradeNonceAccount struct{}

// Instr is a decoded system instruction, without its tag.
type Instr interface {
	UnmarshalWithDecoder(decoder *bin.Decoder) error
}

// Decode reads the tag and the instruction that follows it.
func Decode(data []byte) (uint32, Instr, error) {
	decoder := bin.NewBinDecoder(data)
	tag, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return 0, nil, runtime.ErrInvalidInstructionData
	}

	var instr Instr
	switch tag {
	case InstrTypeCreateAccount:
		instr = new(InstrCreateAccount)
	case InstrTypeAssign:
		instr = new(InstrAssign)
	case InstrTypeTransfer:
		instr = new(InstrTransfer)
	case InstrTypeCreateAccountWithSeed:
		instr = new(InstrCreateAccountWithSeed)
	case InstrTypeAdvanceNonceAccount:
		instr = new(InstrAdvanceNonceAccount)
	case InstrTypeWithdrawNonceAccount:
		instr = new(InstrWithdrawNonceAccount)
	case InstrTypeInitializeNonceAccount:
		instr = new(InstrInitializeNonceAccount)
	case InstrTypeAuthorizeNonceAccount:
		instr = new(InstrAuthorizeNonceAccount)
	case InstrTypeAllocate:
		instr = new(InstrAllocate)
	case InstrTypeAllocateWithSeed:
		instr = new(InstrAllocateWithSeed)
	case InstrTypeAssignWithSeed:
		instr = new(InstrAssignWithSeed)
	case InstrTypeTransferWithSeed:
		instr = new(InstrTransferWithSeed)
	case InstrTypeUpgradeNonceAccount:
		instr = new(InstrUpgradeNonceAccount)
	default:
		return tag, nil, runtime.ErrInvalidInstructionData
	}

	if err := instr.UnmarshalWithDecoder(decoder); err != nil {
		return tag, nil, runtime.ErrInvalidInstructionData
	}
	return tag, instr, nil
}

func checkWithinDeserializationLimit(decoder *bin.Decoder) error {
	if decoder.Position() > maxPacketDataLen {
		return runtime.ErrInvalidInstructionData
	}
	return nil
}

func readPubkey(decoder *bin.Decoder, out *solana.PublicKey) error {
	b, err := decoder.ReadBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(out[:], b)
	return nil
}

func (instr *InstrCreateAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	instr.Lamports, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	instr.Space, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	if err = readPubkey(decoder, &instr.Owner); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrAssign) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := readPubkey(decoder, &instr.Owner); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrTransfer) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	instr.Lamports, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrCreateAccountWithSeed) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	err := readPubkey(decoder, &instr.Base)
	if err != nil {
		return err
	}
	instr.Seed, err = decoder.ReadRustString()
	if err != nil {
		return err
	}
	instr.Lamports, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	instr.Space, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	if err = readPubkey(decoder, &instr.Owner); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrAdvanceNonceAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrWithdrawNonceAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	instr.Lamports, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrInitializeNonceAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := readPubkey(decoder, &instr.Authority); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrAuthorizeNonceAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := readPubkey(decoder, &instr.NewAuthority); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrAllocate) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	instr.Space, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrAllocateWithSeed) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	err := readPubkey(decoder, &instr.Base)
	if err != nil {
		return err
	}
	instr.Seed, err = decoder.ReadRustString()
	if err != nil {
		return err
	}
	instr.Space, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	if err = readPubkey(decoder, &instr.Owner); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrAssignWithSeed) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	err := readPubkey(decoder, &instr.Base)
	if err != nil {
		return err
	}
	instr.Seed, err = decoder.ReadRustString()
	if err != nil {
		return err
	}
	if err = readPubkey(decoder, &instr.Owner); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrTransferWithSeed) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	instr.Lamports, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	instr.FromSeed, err = decoder.ReadRustString()
	if err != nil {
		return err
	}
	if err = readPubkey(decoder, &instr.FromOwner); err != nil {
		return err
	}
	return checkWithinDeserializationLimit(decoder)
}

func (instr *InstrUpgradeNonceAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return checkWithinDeserializationLimit(decoder)
}
