package dictcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func i32(v int64) scalar.Scalar {
	s, _ := scalar.New(scalar.Primitive(scalar.I32, true), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I32, v)))
	return s
}

func buildTestArray(t *testing.T) (array.Array, *Array) {
	t.Helper()
	src, err := array.NewPrimitiveFromInt64(
		scalar.I32,
		[]int64{7, 7, 3, 7, 9, 3, 0},
		array.FromMask(mask.FromBools([]bool{true, true, true, true, true, true, false})),
	)
	require.NoError(t, err)
	dict, err := Encode(src)
	require.NoError(t, err)
	return src, dict
}

func TestEncodeRoundTrip(t *testing.T) {
	src, dict := buildTestArray(t)
	assert.Equal(t, 7, dict.Len())
	assert.LessOrEqual(t, dict.Values().Len(), 3)

	for i := 0; i < src.Len(); i++ {
		want, err := src.ScalarAt(i)
		require.NoError(t, err)
		got, err := dict.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want.IsNull(), got.IsNull(), "row %d", i)
		if !want.IsNull() {
			assert.Equal(t, want.Value().AsPValue().AsI64(), got.Value().AsPValue().AsI64(), "row %d", i)
		}
	}
}

func TestSliceAndTake(t *testing.T) {
	_, dict := buildTestArray(t)

	sliced, err := dict.Slice(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, sliced.Len())
	s0, _ := sliced.ScalarAt(0)
	assert.Equal(t, int64(3), s0.Value().AsPValue().AsI64())

	taken, err := compute.Take(dict, []int{4, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, taken.Len())
	t0, _ := taken.ScalarAt(0)
	t1, _ := taken.ScalarAt(1)
	t2, _ := taken.ScalarAt(2)
	assert.Equal(t, int64(9), t0.Value().AsPValue().AsI64())
	assert.Equal(t, int64(7), t1.Value().AsPValue().AsI64())
	assert.Equal(t, int64(3), t2.Value().AsPValue().AsI64())
}

func TestToCanonical(t *testing.T) {
	src, dict := buildTestArray(t)
	canon, err := dict.ToCanonical()
	require.NoError(t, err)
	for i := 0; i < src.Len(); i++ {
		want, err := src.ScalarAt(i)
		require.NoError(t, err)
		got, err := canon.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want.IsNull(), got.IsNull(), "row %d", i)
	}
}

func TestCompareAgainstConstant(t *testing.T) {
	_, dict := buildTestArray(t)
	rhs := constcodec.New(i32(7), dict.Len())
	out, err := compute.Compare(dict, rhs, compute.OpEq)
	require.NoError(t, err)
	require.Equal(t, 7, out.Len())

	want := []bool{true, true, false, true, false, false, false}
	for i, w := range want {
		s, err := out.ScalarAt(i)
		require.NoError(t, err)
		if i == 6 {
			assert.True(t, s.IsNull(), "row %d should be null", i)
			continue
		}
		assert.Equal(t, w, s.Value().AsBool(), "row %d", i)
	}
}
