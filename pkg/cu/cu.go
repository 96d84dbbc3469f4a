package cu

import (
	"errors"

	"go.firedancer.io/quartz/pkg/safemath"
	"k8s.io/klog/v2"
)

// DefaultBudget is the per-instruction compute limit applied when no budget is configured.
const DefaultBudget = 200_000

var ErrComputeExceeded = errors.New("Compute exceeded")

type ComputeMeter struct {
	computeMeter    uint64
	startingBalance uint64
	exceeded        bool
	disable         bool
}

func NewComputeMeter(budget uint64) ComputeMeter {
	return ComputeMeter{computeMeter: budget, startingBalance: budget}
}

func NewComputeMeterDefault() ComputeMeter {
	return NewComputeMeter(DefaultBudget)
}

// Consume charges cost against the meter. The meter saturates at zero and
// stays exceeded once an overrun happened.
func (cm *ComputeMeter) Consume(cost uint64) error {
	over := cm.computeMeter < cost
	cm.computeMeter = safemath.SaturatingSubU64(cm.computeMeter, cost)

	if over {
		cm.exceeded = true
		if cm.disable {
			klog.V(2).Infof("CU limit exceeded in Consume, but skipping")
		} else {
			return ErrComputeExceeded
		}
	}

	return nil
}

func (cm *ComputeMeter) Used() uint64 {
	return cm.startingBalance - cm.computeMeter
}

func (cm *ComputeMeter) Exceeded() bool {
	return cm.exceeded
}

func (cm *ComputeMeter) Remaining() uint64 {
	return cm.computeMeter
}

// Disable turns budget overruns into log lines instead of errors.
func (cm *ComputeMeter) Disable() {
	cm.disable = true
}
