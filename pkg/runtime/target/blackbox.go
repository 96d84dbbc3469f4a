//go:build !quartz_mock && !quartz_host

package target

import "go.firedancer.io/quartz/pkg/runtime"

const Name = "blackbox"

func Runtime() runtime.Runtime {
	return runtime.BlackBox{}
}
