package bitpacked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/scalar"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	values := []int64{0, 1, 2, 5, 7, 3, 6, 4}
	a, err := From(scalar.U8, values, 3, array.NonNullable(len(values)))
	require.NoError(t, err)
	assert.Equal(t, len(values), a.Len())
	assert.False(t, a.HasPatches())

	for i, want := range values {
		s, err := a.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, s.Value().AsPValue().AsI64())
	}
}

func TestPackWithPatches(t *testing.T) {
	values := []int64{1, 2, 300, 4, 5}
	a, err := From(scalar.U16, values, 3, array.NonNullable(len(values)))
	require.NoError(t, err)
	assert.True(t, a.HasPatches())

	s, err := a.ScalarAt(2)
	require.NoError(t, err)
	assert.Equal(t, int64(300), s.Value().AsPValue().AsI64())
}

func TestSignedRoundTrip(t *testing.T) {
	values := []int64{-3, -1, 0, 1, 2, 3}
	a, err := From(scalar.I32, values, 3, array.NonNullable(len(values)))
	require.NoError(t, err)
	for i, want := range values {
		s, err := a.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, s.Value().AsPValue().AsI64())
	}
}

func TestToCanonical(t *testing.T) {
	values := []int64{10, 20, 30, 40}
	a, err := From(scalar.U8, values, 6, array.NonNullable(len(values)))
	require.NoError(t, err)
	canon, err := a.ToCanonical()
	require.NoError(t, err)
	prim, ok := canon.(*array.PrimitiveArray)
	require.True(t, ok)
	for i, want := range values {
		s, err := prim.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want, s.Value().AsPValue().AsI64())
	}
}

func TestSlicePreservesValues(t *testing.T) {
	values := []int64{1, 2, 300, 4, 5}
	a, err := From(scalar.U16, values, 3, array.NonNullable(len(values)))
	require.NoError(t, err)

	sliced, err := a.Slice(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, sliced.Len())
	want := values[1:4]
	for i := range want {
		s, err := sliced.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, want[i], s.Value().AsPValue().AsI64())
	}
}

func TestTakeFastPathMatchesSlowPath(t *testing.T) {
	values := make([]int64, 30)
	for i := range values {
		values[i] = int64(i)
	}
	a, err := From(scalar.U8, values, 5, array.NonNullable(len(values)))
	require.NoError(t, err)

	// len(indices)*UnpackChunkThreshold(8) <= 30: takes the per-index path.
	slow, err := compute.Take(a, []int{2, 0, 19})
	require.NoError(t, err)
	s, _ := slow.ScalarAt(0)
	assert.Equal(t, int64(2), s.Value().AsPValue().AsI64())

	// Build enough indices to cross the unpack-whole-array threshold.
	many := make([]int, 19)
	for i := range many {
		many[i] = i
	}
	fast, err := compute.Take(a, many)
	require.NoError(t, err)
	assert.Equal(t, 19, fast.Len())
	for i := range many {
		s, err := fast.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, values[i], s.Value().AsPValue().AsI64())
	}
}

func TestSearchSortedUnsigned(t *testing.T) {
	values := []int64{1, 3, 5, 7, 9, 11, 13, 15}
	a, err := From(scalar.U8, values, 4, array.NonNullable(len(values)))
	require.NoError(t, err)

	needle, err := scalar.New(scalar.Primitive(scalar.U8, false), scalar.PrimitiveValue(scalar.PValueFromU64(scalar.U8, 7)))
	require.NoError(t, err)
	res, err := compute.SearchSorted(a, needle, compute.SideLeft)
	require.NoError(t, err)
	assert.Equal(t, compute.ResultFound, res.Kind)
	assert.Equal(t, 3, res.Index)
}
