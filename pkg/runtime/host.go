package runtime

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/accounts"
	"go.firedancer.io/quartz/pkg/instruction"
	"go.firedancer.io/quartz/pkg/sbpf"
	"go.firedancer.io/quartz/pkg/util"
	"k8s.io/klog/v2"
)

// Host is the low level syscall interface of the execution environment.
// mem describes the guest memory the arguments point into.
type Host interface {
	Syscall(mem *sbpf.MemoryMap, hash uint32, r1, r2, r3, r4, r5 uint64) (r0 uint64, err error)
}

var (
	hashLog                  = sbpf.SymbolHash(SyscallLog)
	hashLog64                = sbpf.SymbolHash(SyscallLog64)
	hashLogPubkey            = sbpf.SymbolHash(SyscallLogPubkey)
	hashLogComputeUnits      = sbpf.SymbolHash(SyscallLogComputeUnits)
	hashLogData              = sbpf.SymbolHash(SyscallLogData)
	hashMemcpy               = sbpf.SymbolHash(SyscallMemcpy)
	hashMemmove              = sbpf.SymbolHash(SyscallMemmove)
	hashMemcmp               = sbpf.SymbolHash(SyscallMemcmp)
	hashMemset               = sbpf.SymbolHash(SyscallMemset)
	hashCreateProgramAddress = sbpf.SymbolHash(SyscallCreateProgramAddress)
	hashTryFindProgramAddr   = sbpf.SymbolHash(SyscallTryFindProgramAddress)
	hashInvokeSignedC        = sbpf.SymbolHash(SyscallInvokeSignedC)
)

// HostRuntime encodes calls into the host's C ABI. Account state is mapped
// into the call frame in place; only the descriptor structs are written to a
// scratch region.
type HostRuntime struct {
	host Host
}

var _ Runtime = (*HostRuntime)(nil)

func NewHostRuntime(host Host) *HostRuntime {
	return &HostRuntime{host: host}
}

func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func lamportsBytes(info *accounts.AccountInfo) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(info.LamportsUnchecked())), 8)
}

func (h *HostRuntime) logCall(name string, mem *sbpf.MemoryMap, hash uint32, r1, r2, r3, r4, r5 uint64) {
	if _, err := h.host.Syscall(mem, hash, r1, r2, r3, r4, r5); err != nil {
		klog.Errorf("%s failed: %v", name, err)
	}
}

func (h *HostRuntime) Log(msg string) {
	mem := sbpf.NewMemoryMap()
	va := mem.Map(stringBytes(msg), false)
	h.logCall(SyscallLog, mem, hashLog, va, uint64(len(msg)), 0, 0, 0)
}

func (h *HostRuntime) Log64(a1, a2, a3, a4, a5 uint64) {
	h.logCall(SyscallLog64, sbpf.NewMemoryMap(), hashLog64, a1, a2, a3, a4, a5)
}

func (h *HostRuntime) LogPubkey(pubkey solana.PublicKey) {
	mem := sbpf.NewMemoryMap()
	va := mem.Map(pubkey[:], false)
	h.logCall(SyscallLogPubkey, mem, hashLogPubkey, va, 0, 0, 0, 0)
}

func (h *HostRuntime) LogComputeUnits() {
	h.logCall(SyscallLogComputeUnits, sbpf.NewMemoryMap(), hashLogComputeUnits, 0, 0, 0, 0, 0)
}

func (h *HostRuntime) LogData(data ...[]byte) {
	mem := sbpf.NewMemoryMap()
	var scratch bytes.Buffer
	enc := bin.NewBinEncoder(&scratch)
	for _, d := range data {
		_ = enc.WriteUint64(mem.Map(d, false), bin.LE)
		_ = enc.WriteUint64(uint64(len(d)), bin.LE)
	}
	mem.MapAt(sbpf.VaddrHeap, scratch.Bytes(), false)
	h.logCall(SyscallLogData, mem, hashLogData, sbpf.VaddrHeap, uint64(len(data)), 0, 0, 0)
}

func checkLen(n int, bufs ...[]byte) error {
	if n < 0 {
		return ErrAccessViolation
	}
	for _, b := range bufs {
		if n > len(b) {
			return ErrAccessViolation
		}
	}
	return nil
}

func (h *HostRuntime) Memcpy(dst, src []byte, n int) error {
	if err := checkLen(n, dst, src); err != nil {
		return err
	}
	if util.Overlapping(dst[:n], src[:n]) {
		return ErrCopyOverlapping
	}
	mem := sbpf.NewMemoryMap()
	dstVA := mem.Map(dst[:n], true)
	srcVA := mem.Map(src[:n], false)
	_, err := h.host.Syscall(mem, hashMemcpy, dstVA, srcVA, uint64(n), 0, 0)
	return err
}

func (h *HostRuntime) Memmove(dst, src []byte, n int) error {
	if err := checkLen(n, dst, src); err != nil {
		return err
	}
	mem := sbpf.NewMemoryMap()
	dstVA := mem.Map(dst[:n], true)
	srcVA := mem.Map(src[:n], false)
	_, err := h.host.Syscall(mem, hashMemmove, dstVA, srcVA, uint64(n), 0, 0)
	return err
}

func (h *HostRuntime) Memcmp(a, b []byte, n int) (int, error) {
	if err := checkLen(n, a, b); err != nil {
		return 0, err
	}
	mem := sbpf.NewMemoryMap()
	aVA := mem.Map(a[:n], false)
	bVA := mem.Map(b[:n], false)
	var result [4]byte
	mem.MapAt(sbpf.VaddrHeap, result[:], true)
	if _, err := h.host.Syscall(mem, hashMemcmp, aVA, bVA, uint64(n), sbpf.VaddrHeap, 0); err != nil {
		return 0, err
	}
	return int(int32(binary.LittleEndian.Uint32(result[:]))), nil
}

func (h *HostRuntime) Memset(dst []byte, c byte, n int) error {
	if err := checkLen(n, dst); err != nil {
		return err
	}
	mem := sbpf.NewMemoryMap()
	dstVA := mem.Map(dst[:n], true)
	_, err := h.host.Syscall(mem, hashMemset, dstVA, uint64(c), uint64(n), 0, 0)
	return err
}

// encodeSeeds writes a SolSignerSeed array for seeds into enc.
func encodeSeeds(enc *bin.Encoder, mem *sbpf.MemoryMap, seeds [][]byte) {
	for _, seed := range seeds {
		_ = enc.WriteUint64(mem.Map(seed, false), bin.LE)
		_ = enc.WriteUint64(uint64(len(seed)), bin.LE)
	}
}

func (h *HostRuntime) CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	mem := sbpf.NewMemoryMap()
	programVA := mem.Map(programID[:], false)

	var scratch bytes.Buffer
	enc := bin.NewBinEncoder(&scratch)
	encodeSeeds(enc, mem, seeds)
	addrOff := uint64(scratch.Len())
	_ = enc.WriteBytes(make([]byte, solana.PublicKeyLength), false)

	frame := scratch.Bytes()
	mem.MapAt(sbpf.VaddrHeap, frame, true)
	r0, err := h.host.Syscall(mem, hashCreateProgramAddress, sbpf.VaddrHeap, uint64(len(seeds)), programVA, sbpf.VaddrHeap+addrOff, 0)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if r0 != 0 {
		return solana.PublicKey{}, ErrInvalidSeeds
	}
	return solana.PublicKeyFromBytes(frame[addrOff : addrOff+solana.PublicKeyLength]), nil
}

func (h *HostRuntime) FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	mem := sbpf.NewMemoryMap()
	programVA := mem.Map(programID[:], false)

	var scratch bytes.Buffer
	enc := bin.NewBinEncoder(&scratch)
	encodeSeeds(enc, mem, seeds)
	addrOff := uint64(scratch.Len())
	bumpOff := addrOff + solana.PublicKeyLength
	_ = enc.WriteBytes(make([]byte, solana.PublicKeyLength+8), false)

	frame := scratch.Bytes()
	mem.MapAt(sbpf.VaddrHeap, frame, true)
	r0, err := h.host.Syscall(mem, hashTryFindProgramAddr, sbpf.VaddrHeap, uint64(len(seeds)), programVA, sbpf.VaddrHeap+addrOff, sbpf.VaddrHeap+bumpOff)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	if r0 != 0 {
		return solana.PublicKey{}, 0, ErrInvalidSeeds
	}
	return solana.PublicKeyFromBytes(frame[addrOff:bumpOff]), frame[bumpOff], nil
}

func (h *HostRuntime) InvokeSigned(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error {
	if err := Validate(ix, infos); err != nil {
		return err
	}
	return h.InvokeSignedUnchecked(ix, infos, signers)
}

// InvokeSignedUnchecked lays out a sol_invoke_signed_c frame:
//
//	SolInstruction | SolAccountMeta[n] | SolAccountInfo[m] | SolSignerSeeds[s] | SolSignerSeed[...]
//
// in the heap region, with every pointer referring to the caller's own
// memory. Data length changes the host writes back are applied to the views.
func (h *HostRuntime) InvokeSignedUnchecked(ix instruction.Instruction, infos []*accounts.AccountInfo, signers []instruction.Signer) error {
	if ix.ProgramID == nil {
		return ErrIncorrectProgramId
	}
	mem := sbpf.NewMemoryMap()

	metasOff := uint64(SolInstructionSize)
	infosOff := metasOff + uint64(len(ix.Accounts))*SolAccountMetaSize
	signersOff := infosOff + uint64(len(infos))*SolAccountInfoSize
	seedsOff := signersOff + uint64(len(signers))*SolSignerSeedsSize

	var scratch bytes.Buffer
	enc := bin.NewBinEncoder(&scratch)

	// SolInstruction
	_ = enc.WriteUint64(mem.Map(ix.ProgramID[:], false), bin.LE)
	_ = enc.WriteUint64(sbpf.VaddrHeap+metasOff, bin.LE)
	_ = enc.WriteUint64(uint64(len(ix.Accounts)), bin.LE)
	_ = enc.WriteUint64(mem.Map(ix.Data, false), bin.LE)
	_ = enc.WriteUint64(uint64(len(ix.Data)), bin.LE)

	for i := range ix.Accounts {
		meta := &ix.Accounts[i]
		_ = enc.WriteUint64(mem.Map(meta.Pubkey[:], false), bin.LE)
		_ = enc.WriteBool(meta.IsWritable)
		_ = enc.WriteBool(meta.IsSigner)
		_ = enc.WriteBytes(make([]byte, 6), false)
	}

	for _, info := range infos {
		writable := info.IsWritable()
		data := info.DataUnchecked()
		_ = enc.WriteUint64(mem.Map(info.KeyUnchecked()[:], false), bin.LE)
		_ = enc.WriteUint64(mem.Map(lamportsBytes(info), writable), bin.LE)
		_ = enc.WriteUint64(uint64(len(data)), bin.LE)
		_ = enc.WriteUint64(mem.Map(data[:cap(data)], writable), bin.LE)
		_ = enc.WriteUint64(mem.Map(info.OwnerUnchecked()[:], writable), bin.LE)
		_ = enc.WriteUint64(info.RentEpoch(), bin.LE)
		_ = enc.WriteBool(info.IsSigner())
		_ = enc.WriteBool(writable)
		_ = enc.WriteBool(info.Executable())
		_ = enc.WriteBytes(make([]byte, 5), false)
	}

	seedVA := sbpf.VaddrHeap + seedsOff
	for _, signer := range signers {
		_ = enc.WriteUint64(seedVA, bin.LE)
		_ = enc.WriteUint64(uint64(len(signer)), bin.LE)
		seedVA += uint64(len(signer)) * SolSignerSeedSize
	}
	for _, signer := range signers {
		encodeSeeds(enc, mem, signer.Bytes())
	}

	frame := scratch.Bytes()
	mem.MapAt(sbpf.VaddrHeap, frame, true)

	r0, err := h.host.Syscall(mem, hashInvokeSignedC,
		sbpf.VaddrHeap, sbpf.VaddrHeap+infosOff, uint64(len(infos)), sbpf.VaddrHeap+signersOff, uint64(len(signers)))
	if err != nil {
		return err
	}

	for i, info := range infos {
		if !info.IsWritable() {
			continue
		}
		off := infosOff + uint64(i)*SolAccountInfoSize + 16
		newLen := binary.LittleEndian.Uint64(frame[off : off+8])
		data := info.DataUnchecked()
		if newLen == uint64(len(data)) {
			continue
		}
		if newLen > uint64(cap(data)) {
			return ErrInvalidRealloc
		}
		info.SetDataLenUnchecked(int(newLen))
	}

	return ErrorFromCode(r0)
}
