package sealevel

import (
	bin "github.com/gagliardetto/binary"
	"go.firedancer.io/quartz/pkg/runtime"
)

// VectorDescrC is a (pointer, length) pair, as used for seeds and log data.
type VectorDescrC struct {
	Addr uint64
	Len  uint64
}

type SolInstruction struct {
	ProgramIDAddr uint64
	AccountsAddr  uint64
	AccountsLen   uint64
	DataAddr      uint64
	DataLen       uint64
}

type SolAccountMeta struct {
	PubkeyAddr uint64
	IsWritable byte
	IsSigner   byte
}

type SolAccountInfo struct {
	KeyAddr      uint64
	LamportsAddr uint64
	DataLen      uint64
	DataAddr     uint64
	OwnerAddr    uint64
	RentEpoch    uint64
	IsSigner     byte
	IsWritable   byte
	Executable   byte
}

// solAccountInfoDataLenOff is the offset of data_len in SolAccountInfo.
const solAccountInfoDataLenOff = 16

func (v *VectorDescrC) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if v.Addr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	v.Len, err = decoder.ReadUint64(bin.LE)
	return
}

func (ix *SolInstruction) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if ix.ProgramIDAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if ix.AccountsAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if ix.AccountsLen, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if ix.DataAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	ix.DataLen, err = decoder.ReadUint64(bin.LE)
	return
}

func (m *SolAccountMeta) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if m.PubkeyAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if m.IsWritable, err = decoder.ReadUint8(); err != nil {
		return
	}
	if m.IsSigner, err = decoder.ReadUint8(); err != nil {
		return
	}
	_, err = decoder.ReadNBytes(runtime.SolAccountMetaSize - 10)
	return
}

func (a *SolAccountInfo) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if a.KeyAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if a.LamportsAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if a.DataLen, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if a.DataAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if a.OwnerAddr, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if a.RentEpoch, err = decoder.ReadUint64(bin.LE); err != nil {
		return
	}
	if a.IsSigner, err = decoder.ReadUint8(); err != nil {
		return
	}
	if a.IsWritable, err = decoder.ReadUint8(); err != nil {
		return
	}
	if a.Executable, err = decoder.ReadUint8(); err != nil {
		return
	}
	_, err = decoder.ReadNBytes(runtime.SolAccountInfoSize - runtime.SolAccountInfoFlags - 3)
	return
}

func toBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, SyscallErrMalformedBool
}
