package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func i64Lit(v int64) scalar.Scalar {
	s, _ := scalar.New(scalar.Primitive(scalar.I64, false), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I64, v)))
	return s
}

func i64Array(t *testing.T, vals []int64) array.Array {
	t.Helper()
	a, err := array.NewPrimitiveFromInt64(scalar.I64, vals, array.NonNullable(len(vals)))
	require.NoError(t, err)
	return a
}

func tableDType() scalar.DType {
	return scalar.Struct([]scalar.Field{
		{Name: "id", DType: scalar.Primitive(scalar.I64, false)},
		{Name: "value", DType: scalar.Primitive(scalar.I64, false)},
	}, false)
}

func buildChunkedColumn(t *testing.T, chunks [][]int64) (*ChunkedLayout, *MemorySegments) {
	t.Helper()
	segments := NewMemorySegments()
	cw := NewColumnWriter(scalar.Primitive(scalar.I64, false), config.Default().ZoneMap)
	for _, c := range chunks {
		require.NoError(t, cw.PushChunk(segments, i64Array(t, c)))
	}
	cl, err := cw.Finish()
	require.NoError(t, err)
	return cl, segments
}

func TestFlatLayoutRoundTrip(t *testing.T) {
	segments := NewMemorySegments()
	w := NewFlatLayoutWriter(scalar.Primitive(scalar.I64, false))
	fl, err := w.Write(segments, i64Array(t, []int64{1, 2, 3, 4}))
	require.NoError(t, err)

	reader, err := fl.Reader(segments)
	require.NoError(t, err)

	proj, err := reader.ProjectionEvaluation(RowRange{Start: 1, End: 3}, expr.Ident)
	require.NoError(t, err)
	result, err := proj.Invoke(mask.AllTrue(2))
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())
	v0, err := result.ScalarAt(0)
	require.NoError(t, err)
	require.Equal(t, int64(2), v0.Value().AsPValue().AsI64())
}

func TestChunkedLayoutPruning(t *testing.T) {
	cl, segments := buildChunkedColumn(t, [][]int64{{1, 2, 3}, {10, 20, 30}, {100, 200}})

	reader, err := cl.Reader(segments)
	require.NoError(t, err)

	filterExpr := expr.BinaryExpr(expr.Ident, expr.OpGt, expr.Literal(i64Lit(50)))

	pruning, err := reader.PruningEvaluation(RowRange{Start: 0, End: cl.RowCount()}, filterExpr)
	require.NoError(t, err)
	pruned, err := pruning.Invoke(mask.AllTrue(int(cl.RowCount())))
	require.NoError(t, err)

	// Chunks 0 and 1 (rows [0,6)) cannot satisfy value > 50: pruning must
	// rule out all of their rows, leaving only chunk 2 (rows [6,8)).
	for i := 0; i < 6; i++ {
		require.False(t, pruned.Value(i), "row %d should have been pruned", i)
	}
}

func TestChunkedLayoutFilterAndProjection(t *testing.T) {
	cl, segments := buildChunkedColumn(t, [][]int64{{1, 2, 3}, {10, 20, 30}})

	reader, err := cl.Reader(segments)
	require.NoError(t, err)

	filterExpr := expr.BinaryExpr(expr.Ident, expr.OpGte, expr.Literal(i64Lit(10)))
	rr := RowRange{Start: 0, End: cl.RowCount()}

	maskEval, err := reader.FilterEvaluation(rr, filterExpr)
	require.NoError(t, err)
	m, err := maskEval.Invoke(mask.AllTrue(int(cl.RowCount())))
	require.NoError(t, err)
	require.Equal(t, 3, m.TrueCount())

	projEval, err := reader.ProjectionEvaluation(rr, expr.Ident)
	require.NoError(t, err)
	result, err := projEval.Invoke(m)
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())
}

func TestColumnarLayoutProjectsSingleField(t *testing.T) {
	segments := NewMemorySegments()
	tw, err := NewTableWriter(tableDType(), config.Default().ZoneMap)
	require.NoError(t, err)

	idArr := i64Array(t, []int64{1, 2, 3})
	valArr := i64Array(t, []int64{40, 50, 60})
	chunk, err := array.NewStruct(tableDType(), []array.Array{idArr, valArr}, array.NonNullable(3))
	require.NoError(t, err)
	require.NoError(t, tw.PushChunk(segments, chunk))

	root, err := tw.Finish()
	require.NoError(t, err)

	reader, err := root.Reader(segments)
	require.NoError(t, err)

	rr := RowRange{Start: 0, End: 3}
	projEval, err := reader.ProjectionEvaluation(rr, expr.GetItem("value", expr.Ident))
	require.NoError(t, err)
	result, err := projEval.Invoke(mask.AllTrue(3))
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())
	v, err := result.ScalarAt(1)
	require.NoError(t, err)
	require.Equal(t, int64(50), v.Value().AsPValue().AsI64())
}

func TestFilterLayoutReaderCachesConjuncts(t *testing.T) {
	cl, segments := buildChunkedColumn(t, [][]int64{{1, 2, 3}, {10, 20, 30}})
	baseReader, err := cl.Reader(segments)
	require.NoError(t, err)

	fr := NewFilterLayoutReader(baseReader)
	e := expr.BinaryExpr(
		expr.BinaryExpr(expr.Ident, expr.OpGte, expr.Literal(i64Lit(2))),
		expr.OpAnd,
		expr.BinaryExpr(expr.Ident, expr.OpLte, expr.Literal(i64Lit(20))),
	)

	rr := RowRange{Start: 0, End: cl.RowCount()}
	maskEval, err := fr.FilterEvaluation(rr, e)
	require.NoError(t, err)
	m, err := maskEval.Invoke(mask.AllTrue(int(cl.RowCount())))
	require.NoError(t, err)
	require.Equal(t, 4, m.TrueCount())

	// Evaluating the same expression again should hit the cached
	// per-expression conjunct state rather than re-decomposing it.
	maskEval2, err := fr.FilterEvaluation(rr, e)
	require.NoError(t, err)
	m2, err := maskEval2.Invoke(mask.AllTrue(int(cl.RowCount())))
	require.NoError(t, err)
	require.Equal(t, m.TrueCount(), m2.TrueCount())
	require.Len(t, fr.cache, 1)
}
