//go:build quartz_host

package target

import (
	"sync/atomic"

	"go.firedancer.io/quartz/pkg/runtime"
)

const Name = "host"

var installed atomic.Pointer[runtime.HostRuntime]

// InstallHost sets the host that Runtime dispatches to.
func InstallHost(host runtime.Host) {
	installed.Store(runtime.NewHostRuntime(host))
}

// Runtime panics if no host was installed.
func Runtime() runtime.Runtime {
	rt := installed.Load()
	if rt == nil {
		panic("target: no host installed")
	}
	return rt
}
