package scalar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/colvexerr"
)

func TestDTypeEqualAndString(t *testing.T) {
	a := Primitive(I32, true)
	b := Primitive(I32, true)
	assert.True(t, a.Equal(b))
	assert.Equal(t, "i32?", a.String())

	c := Primitive(I32, false)
	assert.False(t, a.Equal(c))
}

func TestStructCheckedRejectsDuplicateFields(t *testing.T) {
	_, err := StructChecked([]Field{
		{Name: "a", DType: Bool(false)},
		{Name: "a", DType: Bool(false)},
	}, false)
	require.Error(t, err)
}

func TestValueIsInstanceOf(t *testing.T) {
	boolList := List(Bool(true), false)
	v := ListValue([]Value{BoolValue(true), NullValue()})
	assert.True(t, v.IsInstanceOf(boolList))

	nonNullBoolList := List(Bool(false), false)
	assert.False(t, v.IsInstanceOf(nonNullBoolList))

	assert.True(t, NullValue().IsInstanceOf(Bool(true)))
	assert.False(t, NullValue().IsInstanceOf(Bool(false)))
}

func TestCompareOrdersNullsLast(t *testing.T) {
	dt := Primitive(I32, true)
	s1, err := New(dt, PrimitiveValue(PValueFromI64(I32, 1)))
	require.NoError(t, err)
	s2, err := New(dt, PrimitiveValue(PValueFromI64(I32, 2)))
	require.NoError(t, err)
	null := Null(dt)

	cmp, err := Compare(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Compare(s2, null)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Compare(null, null)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestCompareMismatchedKinds(t *testing.T) {
	a, _ := New(Primitive(I32, false), PrimitiveValue(PValueFromI64(I32, 1)))
	b, _ := New(Utf8(false), Utf8Value("x"))
	_, err := Compare(a, b)
	require.Error(t, err)
}

func TestCastNarrowingOverflowIsArithmeticError(t *testing.T) {
	big, err := New(Primitive(I64, false), PrimitiveValue(PValueFromI64(I64, 1<<40)))
	require.NoError(t, err)
	_, err = Cast(big, Primitive(I32, false))
	require.Error(t, err)
	require.True(t, colvexerr.Is(err, colvexerr.Arithmetic))
}

func TestCastWideningSucceeds(t *testing.T) {
	small, err := New(Primitive(I32, false), PrimitiveValue(PValueFromI64(I32, 42)))
	require.NoError(t, err)
	wide, err := Cast(small, Primitive(I64, false))
	require.NoError(t, err)
	assert.Equal(t, int64(42), wide.Value().AsPValue().AsI64())
}

func TestWireRoundTripPrimitive(t *testing.T) {
	dt := Primitive(I64, false)
	s, err := New(dt, PrimitiveValue(PValueFromI64(I64, -12345)))
	require.NoError(t, err)

	data := Encode(s)
	decoded, n, err := Decode(dt, data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, int64(-12345), decoded.Value().AsPValue().AsI64())
}

func TestWireRoundTripStructAndNull(t *testing.T) {
	dt := Struct([]Field{
		{Name: "a", DType: Primitive(I32, true)},
		{Name: "b", DType: Utf8(true)},
	}, false)
	v := ListValue([]Value{NullValue(), Utf8Value("hi")})
	s, err := New(dt, v)
	require.NoError(t, err)

	data := Encode(s)
	decoded, _, err := Decode(dt, data)
	require.NoError(t, err)
	items := decoded.Value().AsList()
	assert.True(t, items[0].IsNull())
	assert.Equal(t, "hi", items[1].AsUtf8())
}

func TestWireRoundTripDecimal128(t *testing.T) {
	dt := Decimal(10, 2, DecimalI128, false)
	s, err := New(dt, DecimalVal(DecimalFromInt64(DecimalI128, -4250)))
	require.NoError(t, err)
	data := Encode(s)
	decoded, _, err := Decode(dt, data)
	require.NoError(t, err)
	assert.Equal(t, "-4250", decoded.Value().AsDecimal().BigInt().String())
	assert.Equal(t, "-42.5", decoded.Decimal().String())
}

func TestFloat16RoundTrip(t *testing.T) {
	bits := f64ToF16(3.5)
	assert.InDelta(t, 3.5, f16ToF64(bits), 0.001)
}
