package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func ints(t *testing.T, ptype scalar.PType, vals ...int64) array.Array {
	t.Helper()
	a, err := array.NewPrimitiveFromInt64(ptype, vals, array.NonNullable(len(vals)))
	require.NoError(t, err)
	return a
}

func TestCompareEq(t *testing.T) {
	a := ints(t, scalar.I32, 1, 2, 3)
	b := ints(t, scalar.I32, 1, 5, 3)
	out, err := Compare(a, b, OpEq)
	require.NoError(t, err)
	bo := out.(*array.BoolArray)
	assert.Equal(t, []bool{true, false, true}, []bool{bo.Values().Value(0), bo.Values().Value(1), bo.Values().Value(2)})
}

func TestOperatorSwapInverse(t *testing.T) {
	assert.Equal(t, OpLt, OpGt.Swap())
	assert.Equal(t, OpNotEq, OpEq.Inverse())
}

func TestTakeAndFilter(t *testing.T) {
	a := ints(t, scalar.I64, 10, 20, 30, 40)
	taken, err := Take(a, []int{3, 0})
	require.NoError(t, err)
	s0, _ := taken.ScalarAt(0)
	s1, _ := taken.ScalarAt(1)
	assert.Equal(t, int64(40), s0.Value().AsPValue().AsI64())
	assert.Equal(t, int64(10), s1.Value().AsPValue().AsI64())

	sel := mask.FromBools([]bool{true, false, true, false})
	filtered, err := Filter(a, sel)
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Len())
}

func TestSearchSorted(t *testing.T) {
	a := ints(t, scalar.I32, 1, 3, 5, 7, 9)
	needle, err := scalar.New(scalar.Primitive(scalar.I32, false), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I32, 5)))
	require.NoError(t, err)
	res, err := SearchSorted(a, needle, SideLeft)
	require.NoError(t, err)
	assert.Equal(t, ResultFound, res.Kind)
	assert.Equal(t, 2, res.Index)
}

func TestNumericAdd(t *testing.T) {
	a := ints(t, scalar.I32, 1, 2, 3)
	b := ints(t, scalar.I32, 10, 20, 30)
	out, err := Add(a, b)
	require.NoError(t, err)
	s, err := out.ScalarAt(1)
	require.NoError(t, err)
	assert.Equal(t, int64(22), s.Value().AsPValue().AsI64())
}

func TestIsSortedAndConstant(t *testing.T) {
	sorted := ints(t, scalar.I32, 1, 2, 2, 3)
	ok, err := IsSorted(sorted, false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsSorted(sorted, true)
	require.NoError(t, err)
	assert.False(t, ok)

	constArr := ints(t, scalar.I32, 7, 7, 7)
	c, err := IsConstant(constArr)
	require.NoError(t, err)
	assert.True(t, c)
}

func TestSumAndMinMax(t *testing.T) {
	a := ints(t, scalar.I64, 1, 2, 3, 4)
	sum, err := Sum(a)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Value().AsPValue().AsI64())

	mm, err := MinMax(a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mm.Min.Value().AsPValue().AsI64())
	assert.Equal(t, int64(4), mm.Max.Value().AsPValue().AsI64())
}

func TestAndKleeneTruthTable(t *testing.T) {
	valsA := mask.FromBools([]bool{true, false})
	a, err := array.NewBool(valsA, array.NonNullable(2))
	require.NoError(t, err)
	validityB := array.FromMask(mask.FromBools([]bool{true, false}))
	b, err := array.NewBool(mask.FromBools([]bool{true, true}), validityB)
	require.NoError(t, err)

	out, err := AndKleene(a, b)
	require.NoError(t, err)
	s0, _ := out.ScalarAt(0)
	assert.True(t, s0.Value().AsBool())
	s1, _ := out.ScalarAt(1)
	assert.False(t, s1.IsNull())
	assert.False(t, s1.Value().AsBool())
}

func TestLikePattern(t *testing.T) {
	dt := scalar.Utf8(false)
	s1, _ := scalar.New(dt, scalar.Utf8Value("hello"))
	s2, _ := scalar.New(dt, scalar.Utf8Value("world"))
	arr, err := array.FromScalars(dt, []scalar.Scalar{s1, s2})
	require.NoError(t, err)

	out, err := Like(arr, "hel%", LikeOptions{})
	require.NoError(t, err)
	r0, _ := out.ScalarAt(0)
	r1, _ := out.ScalarAt(1)
	assert.True(t, r0.Value().AsBool())
	assert.False(t, r1.Value().AsBool())
}
