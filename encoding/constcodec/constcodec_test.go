package constcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func i32(v int64) scalar.Scalar {
	s, _ := scalar.New(scalar.Primitive(scalar.I32, false), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I32, v)))
	return s
}

func TestScalarAtAndSlice(t *testing.T) {
	a := New(i32(42), 5000)
	s, err := a.ScalarAt(17)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.Value().AsPValue().AsI64())

	sliced, err := a.Slice(10, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, sliced.Len())
}

func TestSearchSorted(t *testing.T) {
	a := New(i32(42), 5000)
	res, err := compute.SearchSorted(a, i32(33), compute.SideLeft)
	require.NoError(t, err)
	assert.Equal(t, compute.ResultNotFound, res.Kind)
	assert.Equal(t, 0, res.Index)

	res, err = compute.SearchSorted(a, i32(55), compute.SideLeft)
	require.NoError(t, err)
	assert.Equal(t, compute.ResultNotFound, res.Kind)
	assert.Equal(t, 5000, res.Index)

	res, err = compute.SearchSorted(a, i32(42), compute.SideLeft)
	require.NoError(t, err)
	assert.Equal(t, compute.ResultFound, res.Kind)
	assert.Equal(t, 0, res.Index)

	res, err = compute.SearchSorted(a, i32(42), compute.SideRight)
	require.NoError(t, err)
	assert.Equal(t, compute.ResultFound, res.Kind)
	assert.Equal(t, 5000, res.Index)
}

func TestTakeAndFilter(t *testing.T) {
	a := New(i32(7), 10)
	taken, err := compute.Take(a, []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, taken.Len())

	sel := mask.FromBools([]bool{true, false, true, false, true, false, true, false, true, false})
	filtered, err := compute.Filter(a, sel)
	require.NoError(t, err)
	assert.Equal(t, 5, filtered.Len())
}

func TestCompareConstantVsConstant(t *testing.T) {
	lhs := New(i32(42), 4)
	rhs := New(i32(42), 4)
	out, err := compute.Compare(lhs, rhs, compute.OpEq)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	s, err := out.ScalarAt(0)
	require.NoError(t, err)
	assert.True(t, s.Value().AsBool())

	rhs2 := New(i32(10), 4)
	out2, err := compute.Compare(lhs, rhs2, compute.OpEq)
	require.NoError(t, err)
	s2, err := out2.ScalarAt(0)
	require.NoError(t, err)
	assert.False(t, s2.Value().AsBool())
}

func TestCompareAgainstPlainArrayFallsBackToGeneric(t *testing.T) {
	lhs := New(i32(42), 3)
	rhs, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{42, 0, 42}, array.NonNullable(3))
	require.NoError(t, err)

	out, err := compute.Compare(lhs, rhs, compute.OpEq)
	require.NoError(t, err)
	s0, _ := out.ScalarAt(0)
	s1, _ := out.ScalarAt(1)
	assert.True(t, s0.Value().AsBool())
	assert.False(t, s1.Value().AsBool())
}

func TestToCanonical(t *testing.T) {
	a := New(i32(5), 3)
	canon, err := a.ToCanonical()
	require.NoError(t, err)
	prim, ok := canon.(*array.PrimitiveArray)
	require.True(t, ok)
	assert.Equal(t, 3, prim.Len())
}
