package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("cannot read sales data", "check the path", ErrMissingSource)

	assert.Equal(t, "cannot read sales data: sales input file not found", err.Error())
	assert.True(t, errors.Is(err, ErrMissingSource))
	assert.Equal(t, "check the path", HintFor(fmt.Errorf("run failed: %w", err)))
	assert.Empty(t, HintFor(errors.New("plain")))
}
