package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// ChunkedLayout is an ordered set of child layouts (chunks) of the same
// dtype, optionally with a zone-map child carrying per-chunk statistics
// (spec §4.11). Row count is the sum of its children's row counts.
type ChunkedLayout struct {
	dtype    scalar.DType
	children []Layout
	offsets  []uint64 // cumulative row offsets, len(children)+1
	zoneMap  *ZoneMap
}

// NewChunkedLayout composes children (each covering a contiguous row
// range in order) into one chunked layout, optionally carrying a zone map
// with one row per child.
func NewChunkedLayout(dtype scalar.DType, children []Layout, zoneMap *ZoneMap) (*ChunkedLayout, error) {
	offsets := make([]uint64, len(children)+1)
	for i, c := range children {
		if !c.DType().Equal(dtype) {
			return nil, colvexerr.New(colvexerr.MismatchedTypes, "chunked layout: child %d dtype %s != %s", i, c.DType(), dtype)
		}
		offsets[i+1] = offsets[i] + c.RowCount()
	}
	return &ChunkedLayout{dtype: dtype, children: children, offsets: offsets, zoneMap: zoneMap}, nil
}

func (l *ChunkedLayout) Kind() Kind          { return KindChunked }
func (l *ChunkedLayout) RowCount() uint64    { return l.offsets[len(l.offsets)-1] }
func (l *ChunkedLayout) DType() scalar.DType { return l.dtype }
func (l *ChunkedLayout) NumChildren() int    { return len(l.children) }
func (l *ChunkedLayout) Child(i int) Layout  { return l.children[i] }
func (l *ChunkedLayout) ZoneMap() *ZoneMap   { return l.zoneMap }

func (l *ChunkedLayout) childRange(i int) RowRange {
	return RowRange{Start: l.offsets[i], End: l.offsets[i+1]}
}

// ChunkRange exposes a child's row range to callers outside this package
// (the scan builder's default split policy reuses the write-time chunk
// boundaries rather than recomputing its own).
func (l *ChunkedLayout) ChunkRange(i int) RowRange { return l.childRange(i) }

func (l *ChunkedLayout) Reader(segments SegmentSource) (Reader, error) {
	return &chunkedReader{layout: l, segments: segments}, nil
}

type chunkedReader struct {
	layout   *ChunkedLayout
	segments SegmentSource
}

func (r *chunkedReader) PruningEvaluation(rr RowRange, e expr.Expr) (PruningEvaluation, error) {
	if err := checkRowRange(rr, r.layout.RowCount()); err != nil {
		return nil, err
	}
	return &chunkedPruningEval{reader: r, rowRange: rr, expr: e}, nil
}

func (r *chunkedReader) FilterEvaluation(rr RowRange, e expr.Expr) (MaskEvaluation, error) {
	if err := checkRowRange(rr, r.layout.RowCount()); err != nil {
		return nil, err
	}
	return &chunkedMaskEval{reader: r, rowRange: rr, expr: e}, nil
}

func (r *chunkedReader) ProjectionEvaluation(rr RowRange, e expr.Expr) (ArrayEvaluation, error) {
	if err := checkRowRange(rr, r.layout.RowCount()); err != nil {
		return nil, err
	}
	return &chunkedArrayEval{reader: r, rowRange: rr, expr: e}, nil
}

// relevantChildren returns, for each child overlapping rr, its index and
// the intersected row range expressed in the child's own local
// coordinates (spec §4.12's chunked layer: "compute its logical row range
// within the parent... If the requested row_range is disjoint from a
// chunk, skip").
func (r *chunkedReader) relevantChildren(rr RowRange) []childSpan {
	var spans []childSpan
	for i := range r.layout.children {
		childGlobal := r.layout.childRange(i)
		if rr.IsDisjoint(childGlobal) {
			continue
		}
		overlap := rr.Intersect(childGlobal)
		local := RowRange{Start: overlap.Start - childGlobal.Start, End: overlap.End - childGlobal.Start}
		spans = append(spans, childSpan{index: i, global: overlap, local: local})
	}
	return spans
}

type childSpan struct {
	index  int
	global RowRange
	local  RowRange
}

// prunedChunks evaluates the zone map (if any) against e's prune-able
// form and returns the set of child indices that can be skipped entirely,
// without reading their segments (spec §4.12: "If a zone map exists and a
// pruning predicate is available, evaluate the predicate over zone-map
// statistics to exclude chunks before reading").
func (r *chunkedReader) prunedChunks(e expr.Expr) (map[int]bool, error) {
	pruned := map[int]bool{}
	zm := r.layout.zoneMap
	if zm == nil {
		return pruned, nil
	}
	predicate, ok := ExtractPruningPredicate(e)
	if !ok {
		return pruned, nil
	}
	for i := range r.layout.children {
		excluded, err := predicate.PruneChunk(zm, i)
		if err != nil {
			return nil, err
		}
		if excluded {
			pruned[i] = true
		}
	}
	return pruned, nil
}

// PruningPredicate is implemented by expressions that can decide, from a
// ZoneMap row alone, whether every row of a chunk is certain to fail the
// predicate (spec §4.12). Comparison expressions over a single field
// implement this; most expressions do not and pruning falls back to a
// no-op for them.
type PruningPredicate interface {
	// PruneChunk reports whether chunk i can be skipped entirely: every
	// row in it is guaranteed not to satisfy the expression.
	PruneChunk(zm *ZoneMap, chunk int) (bool, error)
}

type chunkedPruningEval struct {
	reader   *chunkedReader
	rowRange RowRange
	expr     expr.Expr
}

func (e *chunkedPruningEval) Invoke(m mask.Mask) (mask.Mask, error) {
	if m.IsAllFalse() {
		return m, nil
	}
	pruned, err := e.reader.prunedChunks(e.expr)
	if err != nil {
		return mask.Mask{}, err
	}
	if len(pruned) == 0 {
		return m, nil
	}

	vals := make([]bool, m.Len())
	for i := 0; i < m.Len(); i++ {
		vals[i] = m.Value(i)
	}
	for _, span := range e.reader.relevantChildren(e.rowRange) {
		if !pruned[span.index] {
			continue
		}
		for row := span.global.Start; row < span.global.End; row++ {
			vals[row-e.rowRange.Start] = false
		}
	}
	return mask.FromBools(vals), nil
}

type chunkedMaskEval struct {
	reader   *chunkedReader
	rowRange RowRange
	expr     expr.Expr
}

// Invoke schedules a child evaluation for every non-pruned, non-disjoint
// chunk with the intersected row range and mask, stitching results back
// into rowRange's coordinate space preserving order (spec §4.12).
func (e *chunkedMaskEval) Invoke(m mask.Mask) (mask.Mask, error) {
	pruned, err := e.reader.prunedChunks(e.expr)
	if err != nil {
		return mask.Mask{}, err
	}

	vals := make([]bool, m.Len())
	for _, span := range e.reader.relevantChildren(e.rowRange) {
		localOuter := m.Slice(int(span.global.Start-e.rowRange.Start), int(span.global.End-e.rowRange.Start))
		if pruned[span.index] || localOuter.IsAllFalse() {
			continue
		}
		child := e.reader.layout.children[span.index]
		childReader, err := child.Reader(e.reader.segments)
		if err != nil {
			return mask.Mask{}, err
		}
		childEval, err := childReader.FilterEvaluation(span.local, e.expr)
		if err != nil {
			return mask.Mask{}, err
		}
		childMask, err := childEval.Invoke(localOuter)
		if err != nil {
			return mask.Mask{}, err
		}
		for i := 0; i < childMask.Len(); i++ {
			vals[int(span.global.Start-e.rowRange.Start)+i] = childMask.Value(i)
		}
	}
	return mask.FromBools(vals), nil
}

type chunkedArrayEval struct {
	reader   *chunkedReader
	rowRange RowRange
	expr     expr.Expr
}

// Invoke projects every non-disjoint chunk and concatenates the results
// in order into a ChunkedArray (spec §4.12: "Stitch results preserving
// order").
func (e *chunkedArrayEval) Invoke(m mask.Mask) (array.Array, error) {
	spans := e.reader.relevantChildren(e.rowRange)
	var chunks []array.Array
	var dtype scalar.DType
	haveDType := false

	for _, span := range spans {
		localOuter := m.Slice(int(span.global.Start-e.rowRange.Start), int(span.global.End-e.rowRange.Start))
		child := e.reader.layout.children[span.index]
		childReader, err := child.Reader(e.reader.segments)
		if err != nil {
			return nil, err
		}
		childEval, err := childReader.ProjectionEvaluation(span.local, e.expr)
		if err != nil {
			return nil, err
		}
		arr, err := childEval.Invoke(localOuter)
		if err != nil {
			return nil, err
		}
		if arr.Len() == 0 {
			continue
		}
		if !haveDType {
			dtype = arr.DType()
			haveDType = true
		}
		chunks = append(chunks, arr)
	}

	if !haveDType {
		dtype, err := e.expr.ReturnDType(e.reader.layout.dtype)
		if err != nil {
			return nil, err
		}
		empty, err := array.FromScalars(dtype, nil)
		if err != nil {
			return nil, err
		}
		return empty, nil
	}

	return array.NewChunked(dtype, chunks)
}
