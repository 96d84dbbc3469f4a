package sealevel

import (
	"math"

	"go.firedancer.io/quartz/pkg/cu"
)

func isNonOverlapping(src, srcLen, dst, dstLen uint64) bool {
	if src > dst {
		return src-dst >= dstLen
	}
	return dst-src >= srcLen
}

func syscallErr(err error) (uint64, error) {
	return math.MaxUint64, err
}

func syscallCuErr() (uint64, error) {
	return math.MaxUint64, cu.ErrComputeExceeded
}

func syscallSuccess(result uint64) (uint64, error) {
	return result, nil
}
