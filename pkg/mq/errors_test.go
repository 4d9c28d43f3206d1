package mq

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRequeue(t *testing.T) {
	cause := errors.New("database unavailable")

	assert.True(t, shouldRequeue(Temporary(cause)))
	assert.True(t, shouldRequeue(fmt.Errorf("notify: %w", Temporary(cause))))
	assert.False(t, shouldRequeue(cause))
	assert.False(t, shouldRequeue(errors.New("malformed payload")))
}

func TestTempError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Temporary(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "timeout", err.Error())
}
