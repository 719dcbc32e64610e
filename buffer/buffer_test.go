package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBufferRetainRelease(t *testing.T) {
	bb := NewByteBuffer([]byte{1, 2, 3, 4})
	assert.Equal(t, int32(1), bb.RefCount())

	other := bb.Retain()
	assert.Equal(t, int32(2), bb.RefCount())

	other.Release()
	assert.Equal(t, int32(1), bb.RefCount())
}

func TestByteBufferSliceSharesBacking(t *testing.T) {
	bb := NewByteBuffer([]byte{1, 2, 3, 4, 5})
	sub, err := bb.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, sub.Bytes())

	_, err = bb.Slice(3, 1)
	require.Error(t, err)
	_, err = bb.Slice(0, 10)
	require.Error(t, err)
}

func TestTypedBufferRoundTrip(t *testing.T) {
	buf := NewBuffer([]int32{10, 20, 30})
	assert.Equal(t, 3, buf.Len())
	assert.Equal(t, int32(20), buf.At(1))

	sliced := buf.Slice(1, 3)
	assert.Equal(t, []int32{20, 30}, sliced.Values())
}

func TestReinterpretCastSameWidth(t *testing.T) {
	buf := NewBuffer([]uint32{0x3f800000})
	floats := ReinterpretCast[uint32, float32](buf)
	assert.Equal(t, float32(1.0), floats.At(0))
}

func TestBufferMutFreezeAndTryIntoMut(t *testing.T) {
	mb := NewBufferMut[int64](0)
	mb.Push(1)
	mb.Push(2)
	mb.Push(3)
	frozen := mb.Freeze()
	assert.Equal(t, []int64{1, 2, 3}, frozen.Values())

	upgraded := TryIntoMut(frozen)
	upgraded.Push(4)
	assert.Equal(t, []int64{1, 2, 3, 4}, upgraded.Values())
	// original is untouched
	assert.Equal(t, []int64{1, 2, 3}, frozen.Values())
}
