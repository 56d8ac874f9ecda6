package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidConfigurationNamesField(t *testing.T) {
	err := InvalidConfiguration("noise_variance", "must be >= 0, got %g", -1.0)

	assert.Equal(t, "noise_variance: must be >= 0, got -1", err.Error())
	assert.True(t, IsCode(err, CodeInvalidConfiguration))
	assert.Equal(t, "noise_variance", GetField(err))
}

func TestWrapPreservesCode(t *testing.T) {
	base := CapacityExceeded("column 3 needs 12 rows, only 10 exist")
	wrapped := Wrap(base, "simulate failed")

	assert.Equal(t, CodeCapacityExceeded, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "column 3")
}

func TestWrapForeignError(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("disk full"), "write %s", "out.json")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "write out.json: disk full", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
	assert.Equal(t, "", GetField(fmt.Errorf("plain")))
}

func TestGetFieldThroughWrap(t *testing.T) {
	err := Wrap(InvalidConfiguration("seed", "bad"), "loading scenario")

	assert.Equal(t, "seed", GetField(err))
	assert.Equal(t, CodeInvalidConfiguration, GetCode(err))
}
