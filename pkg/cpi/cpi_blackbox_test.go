//go:build !quartz_mock && !quartz_host

package cpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvokeParts_DefaultTarget(t *testing.T) {
	_, p, got := setup(t)
	assert.NoError(t, p.Invoke())
	assert.NoError(t, p.InvokeSigned())
	assert.Nil(t, *got)
}
