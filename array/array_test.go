package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/buffer"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func TestPrimitiveArrayRoundTrip(t *testing.T) {
	a, err := NewPrimitiveFromInt64(scalar.I32, []int64{1, -2, 3}, NonNullable(3))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())

	s, err := a.ScalarAt(1)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), s.Value().AsPValue().AsI64())

	sliced, err := a.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, sliced.Len())
	s2, err := sliced.ScalarAt(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s2.Value().AsPValue().AsI64())
}

func TestPrimitiveArrayWithNulls(t *testing.T) {
	v := FromMask(mask.FromBools([]bool{true, false, true}))
	a, err := NewPrimitiveFromInt64(scalar.I64, []int64{10, 0, 30}, v)
	require.NoError(t, err)

	s, err := a.ScalarAt(1)
	require.NoError(t, err)
	assert.True(t, s.IsNull())
}

func TestBoolArray(t *testing.T) {
	a, err := NewBool(mask.FromBools([]bool{true, false, true}), NonNullable(3))
	require.NoError(t, err)
	s, err := a.ScalarAt(0)
	require.NoError(t, err)
	assert.True(t, s.Value().AsBool())
}

func TestVarBinArray(t *testing.T) {
	bytes := buffer.NewByteBuffer([]byte("helloworld"))
	offsets := []int32{0, 5, 10}
	a, err := NewVarBin(scalar.Utf8(false), bytes, offsets, NonNullable(2))
	require.NoError(t, err)
	s, err := a.ScalarAt(1)
	require.NoError(t, err)
	assert.Equal(t, "world", s.Value().AsUtf8())
}

func TestStructArray(t *testing.T) {
	dt := scalar.Struct([]scalar.Field{
		{Name: "a", DType: scalar.Primitive(scalar.I32, false)},
	}, false)
	field, err := NewPrimitiveFromInt64(scalar.I32, []int64{7, 8}, NonNullable(2))
	require.NoError(t, err)
	sa, err := NewStruct(dt, []Array{field}, NonNullable(2))
	require.NoError(t, err)
	s, err := sa.ScalarAt(1)
	require.NoError(t, err)
	items := s.Value().AsList()
	assert.Equal(t, int64(8), items[0].AsPValue().AsI64())
}

func TestListArray(t *testing.T) {
	elemType := scalar.Primitive(scalar.I32, false)
	elements, err := NewPrimitiveFromInt64(scalar.I32, []int64{1, 2, 3, 4}, NonNullable(4))
	require.NoError(t, err)
	dt := scalar.List(elemType, false)
	la, err := NewList(dt, []int32{0, 2, 4}, elements, NonNullable(2))
	require.NoError(t, err)

	s, err := la.ScalarAt(1)
	require.NoError(t, err)
	items := s.Value().AsList()
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].AsPValue().AsI64())
}

func TestChunkedArray(t *testing.T) {
	dt := scalar.Primitive(scalar.I32, false)
	c1, err := NewPrimitiveFromInt64(scalar.I32, []int64{1, 2}, NonNullable(2))
	require.NoError(t, err)
	c2, err := NewPrimitiveFromInt64(scalar.I32, []int64{3, 4, 5}, NonNullable(3))
	require.NoError(t, err)
	chunked, err := NewChunked(dt, []Array{c1, c2})
	require.NoError(t, err)
	assert.Equal(t, 5, chunked.Len())

	s, err := chunked.ScalarAt(3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.Value().AsPValue().AsI64())

	sliced, err := chunked.Slice(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, sliced.Len())
	s2, err := sliced.ScalarAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s2.Value().AsPValue().AsI64())
}

func TestNullArray(t *testing.T) {
	n := NewNull(4)
	s, err := n.ScalarAt(0)
	require.NoError(t, err)
	assert.True(t, s.IsNull())
}
