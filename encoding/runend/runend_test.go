package runend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/scalar"
)

func TestConstructorAndScalarAt(t *testing.T) {
	ends, err := array.NewPrimitiveFromInt64(scalar.U32, []int64{2, 5, 10}, array.NonNullable(3))
	require.NoError(t, err)
	values, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 2, 3}, array.NonNullable(3))
	require.NoError(t, err)

	a, err := New(ends, values)
	require.NoError(t, err)
	assert.Equal(t, 10, a.Len())

	want := map[int]int64{0: 1, 1: 1, 2: 2, 3: 2, 4: 2, 5: 3, 9: 3}
	for idx, v := range want {
		s, err := a.ScalarAt(idx)
		require.NoError(t, err)
		assert.Equal(t, v, s.Value().AsPValue().AsI64(), "row %d", idx)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 1, 2, 2, 2, 3, 3, 3, 3, 3}, array.NonNullable(10))
	require.NoError(t, err)
	re, err := Encode(src)
	require.NoError(t, err)
	assert.Equal(t, 3, re.Ends().Len())
	assert.Equal(t, 10, re.Len())

	for i := 0; i < 10; i++ {
		want, err := src.ScalarAt(i)
		require.NoError(t, err)
		got, err := re.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want.Value().AsPValue().AsI64(), got.Value().AsPValue().AsI64(), "row %d", i)
	}
}

func TestToCanonical(t *testing.T) {
	ends, err := array.NewPrimitiveFromInt64(scalar.U32, []int64{2, 5, 10}, array.NonNullable(3))
	require.NoError(t, err)
	values, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 2, 3}, array.NonNullable(3))
	require.NoError(t, err)
	a, err := New(ends, values)
	require.NoError(t, err)

	canon, err := a.ToCanonical()
	require.NoError(t, err)
	prim, ok := canon.(*array.PrimitiveArray)
	require.True(t, ok)
	assert.Equal(t, 10, prim.Len())
	s5, _ := prim.ScalarAt(5)
	assert.Equal(t, int64(3), s5.Value().AsPValue().AsI64())
}

func TestSliceShiftsOffset(t *testing.T) {
	ends, err := array.NewPrimitiveFromInt64(scalar.U32, []int64{2, 5, 10}, array.NonNullable(3))
	require.NoError(t, err)
	values, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 2, 3}, array.NonNullable(3))
	require.NoError(t, err)
	a, err := New(ends, values)
	require.NoError(t, err)

	sliced, err := a.Slice(3, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, sliced.Len())
	s0, _ := sliced.ScalarAt(0)
	s3, _ := sliced.ScalarAt(3)
	assert.Equal(t, int64(2), s0.Value().AsPValue().AsI64())
	assert.Equal(t, int64(3), s3.Value().AsPValue().AsI64())
}

func TestTakeKernel(t *testing.T) {
	ends, err := array.NewPrimitiveFromInt64(scalar.U32, []int64{2, 5, 10}, array.NonNullable(3))
	require.NoError(t, err)
	values, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 2, 3}, array.NonNullable(3))
	require.NoError(t, err)
	a, err := New(ends, values)
	require.NoError(t, err)

	taken, err := compute.Take(a, []int{9, 0, 3})
	require.NoError(t, err)
	s0, _ := taken.ScalarAt(0)
	s1, _ := taken.ScalarAt(1)
	s2, _ := taken.ScalarAt(2)
	assert.Equal(t, int64(3), s0.Value().AsPValue().AsI64())
	assert.Equal(t, int64(1), s1.Value().AsPValue().AsI64())
	assert.Equal(t, int64(2), s2.Value().AsPValue().AsI64())
}
