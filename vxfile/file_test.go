package vxfile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/layout"
	"github.com/colvex/colvex/scalar"
)

func testTableDType() scalar.DType {
	return scalar.Struct([]scalar.Field{
		{Name: "id", DType: scalar.Primitive(scalar.I64, false)},
		{Name: "score", DType: scalar.Primitive(scalar.I32, false)},
	}, false)
}

func testChunk(t *testing.T, ids, scores []int64) *array.StructArray {
	t.Helper()
	idArr, err := array.NewPrimitiveFromInt64(scalar.I64, ids, array.NonNullable(len(ids)))
	require.NoError(t, err)
	scoreArr, err := array.NewPrimitiveFromInt64(scalar.I32, scores, array.NonNullable(len(scores)))
	require.NoError(t, err)
	st, err := array.NewStruct(testTableDType(), []array.Array{idArr, scoreArr}, array.NonNullable(len(ids)))
	require.NoError(t, err)
	return st
}

func buildTestFile(t *testing.T) []byte {
	t.Helper()
	tw, err := layout.NewTableWriter(testTableDType(), config.Default().ZoneMap)
	require.NoError(t, err)
	segments := layout.NewMemorySegments()

	require.NoError(t, tw.PushChunk(segments, testChunk(t, []int64{1, 2, 3}, []int64{10, 20, 30})))
	require.NoError(t, tw.PushChunk(segments, testChunk(t, []int64{4, 5}, []int64{40, 50})))

	root, err := tw.Finish()
	require.NoError(t, err)

	w := NewWriter(segments, root)
	data, err := w.Bytes()
	require.NoError(t, err)
	return data
}

func TestOpenRoundTrip(t *testing.T) {
	data := buildTestFile(t)

	f, err := Open(data)
	require.NoError(t, err)
	require.True(t, f.DType().Equal(testTableDType()))
	require.Equal(t, uint64(5), f.RowCount())
}

func TestOpenRejectsBadMagic(t *testing.T) {
	data := buildTestFile(t)
	corrupt := append([]byte(nil), data...)
	corrupt[len(corrupt)-1] = 'X'
	_, err := Open(corrupt)
	require.Error(t, err)
}

func TestOpenRejectsTruncation(t *testing.T) {
	data := buildTestFile(t)
	_, err := Open(data[:len(data)-1])
	require.Error(t, err)
}

func TestOpenRejectsCorruptSegment(t *testing.T) {
	data := buildTestFile(t)
	corrupt := append([]byte(nil), data...)
	corrupt[0] ^= 0xFF

	f, err := Open(corrupt)
	require.NoError(t, err)

	stream, err := f.Scan().IntoArrayStream()
	require.NoError(t, err)
	defer stream.Close()

	sawError := false
	for {
		_, ok, err := stream.Next()
		if err != nil {
			sawError = true
			break
		}
		if !ok {
			break
		}
	}
	require.True(t, sawError, "expected corrupted segment bytes to fail checksum verification")
}

func TestScanProjectionAndFilter(t *testing.T) {
	data := buildTestFile(t)
	f, err := Open(data)
	require.NoError(t, err)

	stream, err := f.Scan().
		WithProjection(expr.Select([]string{"id"}, expr.Ident)).
		WithFilter(expr.BinaryExpr(expr.GetItem("score", expr.Ident), expr.OpGt, expr.Literal(scoreLit(t, 20)))).
		IntoArrayStream()
	require.NoError(t, err)
	defer stream.Close()

	totalRows := 0
	for {
		arr, ok, err := stream.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		st, ok := arr.(*array.StructArray)
		require.True(t, ok)
		_, hasID := st.FieldByName("id")
		require.True(t, hasID)
		_, hasScore := st.FieldByName("score")
		require.False(t, hasScore)
		totalRows += arr.Len()
	}
	require.Equal(t, 3, totalRows)
}

func TestScanRowIndices(t *testing.T) {
	data := buildTestFile(t)
	f, err := Open(data)
	require.NoError(t, err)

	stream, err := f.Scan().WithRowIndices([]uint64{0, 4}).IntoArrayStream()
	require.NoError(t, err)
	defer stream.Close()

	total := 0
	for {
		arr, ok, err := stream.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		total += arr.Len()
	}
	require.Equal(t, 2, total)
}

func TestScanSplitByRowCount(t *testing.T) {
	data := buildTestFile(t)
	f, err := Open(data)
	require.NoError(t, err)

	stream, err := f.Scan().WithSplitBy(SplitByRowCount(2)).IntoArrayStream()
	require.NoError(t, err)
	defer stream.Close()

	var splitSizes []int
	for {
		arr, ok, err := stream.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		splitSizes = append(splitSizes, arr.Len())
	}
	require.Equal(t, []int{2, 2, 1}, splitSizes)
}

func scoreLit(t *testing.T, v int64) scalar.Scalar {
	t.Helper()
	s, err := scalar.New(scalar.Primitive(scalar.I32, false), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I32, v)))
	require.NoError(t, err)
	return s
}
