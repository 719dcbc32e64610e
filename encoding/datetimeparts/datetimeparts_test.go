package datetimeparts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/scalar"
)

func dtpFromTimestamp(t *testing.T, ts int64) *Array {
	t.Helper()
	dtype := NewTimestampDType(Seconds, "UTC", false)
	storage, err := array.NewPrimitiveFromInt64(scalar.I64, []int64{ts}, array.NonNullable(1))
	require.NoError(t, err)
	ext := array.NewExtension(dtype, storage)
	dtp, err := Encode(ext)
	require.NoError(t, err)
	return dtp
}

func trueCount(t *testing.T, a array.Array) int {
	t.Helper()
	b, ok := a.(*array.BoolArray)
	require.True(t, ok)
	return b.Values().TrueCount()
}

func TestSplitCombineRoundTrip(t *testing.T) {
	cases := []int64{0, 86400, 86401, -1, -86400, 1_700_000_000}
	for _, ts := range cases {
		parts := Split(ts, Seconds)
		assert.Equal(t, ts, Combine(parts, Seconds), "ts=%d", ts)
		assert.True(t, parts.Seconds >= 0 && parts.Seconds < secondsPerDay)
		assert.True(t, parts.Subseconds == 0)
	}
}

func TestScalarAtRoundTrip(t *testing.T) {
	dtp := dtpFromTimestamp(t, 86401)
	s, err := dtp.ScalarAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(86401), s.Value().AsPValue().AsI64())
}

func TestCompareEq(t *testing.T) {
	lhs := dtpFromTimestamp(t, 86400)
	rhs := dtpFromTimestamp(t, 86400)
	out, err := compute.Compare(lhs, rhs, compute.OpEq)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))

	rhs2 := dtpFromTimestamp(t, 0)
	out2, err := compute.Compare(lhs, rhs2, compute.OpEq)
	require.NoError(t, err)
	assert.Equal(t, 0, trueCount(t, out2))
}

func TestCompareNe(t *testing.T) {
	lhs := dtpFromTimestamp(t, 86400)
	rhs := dtpFromTimestamp(t, 86401)
	out, err := compute.Compare(lhs, rhs, compute.OpNotEq)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))

	rhs2 := dtpFromTimestamp(t, 86400)
	out2, err := compute.Compare(lhs, rhs2, compute.OpNotEq)
	require.NoError(t, err)
	assert.Equal(t, 0, trueCount(t, out2))
}

func TestCompareLt(t *testing.T) {
	lhs := dtpFromTimestamp(t, 0)
	rhs := dtpFromTimestamp(t, 86400)
	out, err := compute.Compare(lhs, rhs, compute.OpLt)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))
}

func TestCompareGt(t *testing.T) {
	lhs := dtpFromTimestamp(t, 86400)
	rhs := dtpFromTimestamp(t, 0)
	out, err := compute.Compare(lhs, rhs, compute.OpGt)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))
}

// TestCompareNarrowing transcribes compare_date_time_parts_narrowing: a
// constant rhs timestamp of 2^62 seconds has a day count that doesn't fit
// in the lhs's i32 days component, so every comparison degenerates to the
// narrowing-failure constant rather than inspecting days at all.
func TestCompareNarrowing(t *testing.T) {
	dtype := NewTimestampDType(Seconds, "UTC", false)
	daysArr, err := array.NewPrimitiveFromInt64(scalar.I32, []int64{0}, array.NonNullable(1))
	require.NoError(t, err)
	secondsArr, err := array.NewPrimitiveFromInt64(scalar.U32, []int64{0}, array.NonNullable(1))
	require.NoError(t, err)
	subsecondsArr, err := array.NewPrimitiveFromInt64(scalar.I64, []int64{0}, array.NonNullable(1))
	require.NoError(t, err)
	lhs, err := New(dtype, daysArr, secondsArr, subsecondsArr)
	require.NoError(t, err)

	rhsValue, err := scalar.New(dtype, scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I64, int64(1)<<62)))
	require.NoError(t, err)
	rhs := constcodec.New(rhsValue, 1)

	out, err := compute.Compare(lhs, rhs, compute.OpEq)
	require.NoError(t, err)
	assert.Equal(t, 0, trueCount(t, out))

	out, err = compute.Compare(lhs, rhs, compute.OpNotEq)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))

	out, err = compute.Compare(lhs, rhs, compute.OpLt)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))

	out, err = compute.Compare(lhs, rhs, compute.OpLte)
	require.NoError(t, err)
	assert.Equal(t, 1, trueCount(t, out))
}

func TestToCanonical(t *testing.T) {
	dtp := dtpFromTimestamp(t, 123456)
	canon, err := dtp.ToCanonical()
	require.NoError(t, err)
	ext, ok := canon.(*array.ExtensionArray)
	require.True(t, ok)
	s, err := ext.ScalarAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(123456), s.Value().AsPValue().AsI64())
}
