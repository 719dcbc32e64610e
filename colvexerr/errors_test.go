package colvexerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	e := New(InvalidInput, "index %d out of range", 7)
	assert.Equal(t, "InvalidInput: index 7 out of range", e.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk gone")
	e := Wrap(IO, cause, "fetch segment %d", 3)
	require.ErrorIs(t, e, cause)
	assert.True(t, Is(e, IO))
	assert.False(t, Is(e, InvalidInput))
}

func TestIsOnPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("boom"), IO))
}
