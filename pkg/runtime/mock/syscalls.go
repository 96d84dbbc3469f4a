package mock

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/quartz/pkg/pda"
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/util"
)

func (r *Runtime) Log(msg string) {
	r.log("Program log: " + msg)
}

func (r *Runtime) Log64(a1, a2, a3, a4, a5 uint64) {
	r.log(fmt.Sprintf("Program log: %#x, %#x, %#x, %#x, %#x", a1, a2, a3, a4, a5))
}

func (r *Runtime) LogPubkey(pubkey solana.PublicKey) {
	r.log("Program log: " + pubkey.String())
}

func (r *Runtime) LogData(data ...[]byte) {
	encoded := make([]string, len(data))
	for i, d := range data {
		encoded[i] = base64.StdEncoding.EncodeToString(d)
	}
	r.log("Program data: " + strings.Join(encoded, " "))
}

func (r *Runtime) LogComputeUnits() {
	r.log(fmt.Sprintf("Program consumption: %d units remaining", r.ComputeUnitsRemaining()))
}

func checkLen(n int, bufs ...[]byte) error {
	if n < 0 {
		return runtime.ErrAccessViolation
	}
	for _, b := range bufs {
		if n > len(b) {
			return runtime.ErrAccessViolation
		}
	}
	return nil
}

func (r *Runtime) Memcpy(dst, src []byte, n int) error {
	if err := checkLen(n, dst, src); err != nil {
		return err
	}
	if util.Overlapping(dst[:n], src[:n]) {
		return runtime.ErrCopyOverlapping
	}
	copy(dst[:n], src[:n])
	return nil
}

func (r *Runtime) Memmove(dst, src []byte, n int) error {
	if err := checkLen(n, dst, src); err != nil {
		return err
	}
	copy(dst[:n], src[:n])
	return nil
}

func (r *Runtime) Memcmp(a, b []byte, n int) (int, error) {
	if err := checkLen(n, a, b); err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i]), nil
		}
	}
	return 0, nil
}

func (r *Runtime) Memset(dst []byte, c byte, n int) error {
	if err := checkLen(n, dst); err != nil {
		return err
	}
	for i := range dst[:n] {
		dst[i] = c
	}
	return nil
}

func (r *Runtime) CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	return pda.CreateProgramAddress(seeds, programID)
}

func (r *Runtime) FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.FindProgramAddress(seeds, programID, nil)
}
