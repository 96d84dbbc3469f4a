//go:build quartz_mock && !quartz_host

package target

import (
	"go.firedancer.io/quartz/pkg/runtime"
	"go.firedancer.io/quartz/pkg/runtime/mock"
)

const Name = "mock"

func Runtime() runtime.Runtime {
	return mock.Default()
}
