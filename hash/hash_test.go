package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfIsDeterministic(t *testing.T) {
	a := Of([]byte("hello segment"))
	b := Of([]byte("hello segment"))
	assert.Equal(t, a, b)
	assert.False(t, a.IsZero())
}

func TestVerifyDetectsCorruption(t *testing.T) {
	data := []byte("segment bytes")
	sum := Of(data)
	require.NoError(t, Verify(data, sum))

	corrupt := append([]byte{}, data...)
	corrupt[0] ^= 0xFF
	require.Error(t, Verify(corrupt, sum))
}

func TestZeroChecksum(t *testing.T) {
	var z Checksum
	assert.True(t, z.IsZero())
}
