//go:build !quartz_mock && !quartz_host

package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.firedancer.io/quartz/pkg/runtime"
)

func TestDefaultTargetIsBlackBox(t *testing.T) {
	assert.Equal(t, "blackbox", Name)
	assert.IsType(t, runtime.BlackBox{}, Runtime())
}
