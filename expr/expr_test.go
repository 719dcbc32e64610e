package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func structDType() scalar.DType {
	return scalar.Struct([]scalar.Field{
		{Name: "a", DType: scalar.Primitive(scalar.I32, false)},
		{Name: "b", DType: scalar.Primitive(scalar.I32, false)},
	}, false)
}

func testStructArray(t *testing.T) *array.StructArray {
	t.Helper()
	a, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{0, 1, 2}, array.NonNullable(3))
	require.NoError(t, err)
	b, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{4, 5, 6}, array.NonNullable(3))
	require.NoError(t, err)
	st, err := array.NewStruct(structDType(), []array.Array{a, b}, array.NonNullable(3))
	require.NoError(t, err)
	return st
}

func i32Lit(v int64) scalar.Scalar {
	s, _ := scalar.New(scalar.Primitive(scalar.I32, false), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I32, v)))
	return s
}

func TestIdentity(t *testing.T) {
	st := testStructArray(t)
	out, err := Ident.Evaluate(st)
	require.NoError(t, err)
	assert.Same(t, array.Array(st), out)
}

func TestGetItem(t *testing.T) {
	st := testStructArray(t)
	out, err := GetItem("a", Ident).Evaluate(st)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
	s, err := out.ScalarAt(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Value().AsPValue().AsI64())

	dt, err := GetItem("a", Ident).ReturnDType(structDType())
	require.NoError(t, err)
	assert.Equal(t, scalar.I32, dt.PType())
}

func TestSelectInclude(t *testing.T) {
	st := testStructArray(t)
	out, err := Select([]string{"a"}, Ident).Evaluate(st)
	require.NoError(t, err)
	outStruct, ok := out.(*array.StructArray)
	require.True(t, ok)
	assert.Len(t, outStruct.DType().Fields(), 1)
	assert.Equal(t, "a", outStruct.DType().Fields()[0].Name)
}

func TestSelectExclude(t *testing.T) {
	st := testStructArray(t)
	out, err := SelectExclude([]string{"a"}, Ident).Evaluate(st)
	require.NoError(t, err)
	outStruct, ok := out.(*array.StructArray)
	require.True(t, ok)
	assert.Len(t, outStruct.DType().Fields(), 1)
	assert.Equal(t, "b", outStruct.DType().Fields()[0].Name)
}

func TestIsNullAllValid(t *testing.T) {
	a, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 2, 3}, array.NonNullable(3))
	require.NoError(t, err)
	out, err := IsNull(Ident).Evaluate(a)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		s, err := out.ScalarAt(i)
		require.NoError(t, err)
		assert.False(t, s.Value().AsBool())
	}
}

func TestIsNullMixed(t *testing.T) {
	a, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{1, 0, 3}, array.FromMask(mask.FromBools([]bool{true, false, true})))
	require.NoError(t, err)
	out, err := IsNull(Ident).Evaluate(a)
	require.NoError(t, err)
	want := []bool{false, true, false}
	for i, w := range want {
		s, err := out.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, w, s.Value().AsBool())
	}
	assert.False(t, out.DType().IsNullable())
}

func TestBinaryExprComparison(t *testing.T) {
	st := testStructArray(t)
	e := BinaryExpr(GetItem("a", Ident), OpGte, Literal(i32Lit(1)))
	out, err := e.Evaluate(st)
	require.NoError(t, err)
	want := []bool{false, true, true}
	for i, w := range want {
		s, err := out.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, w, s.Value().AsBool())
	}
}

func TestBinaryNumeric(t *testing.T) {
	st := testStructArray(t)
	e := BinaryNumeric(GetItem("a", Ident), NumericAdd, Literal(i32Lit(10)))
	out, err := e.Evaluate(st)
	require.NoError(t, err)
	want := []int64{10, 11, 12}
	for i, w := range want {
		s, err := out.ScalarAt(i)
		require.NoError(t, err)
		assert.Equal(t, w, s.Value().AsPValue().AsI64())
	}
}

func TestCNFFlattensTopLevelAnd(t *testing.T) {
	e := And(And(Ident, Ident), Ident)
	conjuncts := CNF(e)
	assert.Len(t, conjuncts, 3)
}

func TestCNFDistributesOrOverAnd(t *testing.T) {
	a, b, c := GetItem("a", Ident), GetItem("b", Ident), Literal(i32Lit(0))
	e := Or(a, And(b, c))
	conjuncts := CNF(e)
	require.Len(t, conjuncts, 2)
	for _, conjunct := range conjuncts {
		bin, ok := conjunct.(binaryExpr)
		require.True(t, ok)
		assert.Equal(t, OpOr, bin.op)
	}
}
