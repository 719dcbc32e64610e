package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// FlatLayout is a single segment holding one encoded array for a known
// dtype and row count (spec §4.11).
type FlatLayout struct {
	dtype    scalar.DType
	rowCount uint64
	segment  SegmentID
}

// NewFlatLayout wraps a segment already written into segments.
func NewFlatLayout(dtype scalar.DType, rowCount uint64, segment SegmentID) *FlatLayout {
	return &FlatLayout{dtype: dtype, rowCount: rowCount, segment: segment}
}

func (l *FlatLayout) Kind() Kind           { return KindFlat }
func (l *FlatLayout) RowCount() uint64     { return l.rowCount }
func (l *FlatLayout) DType() scalar.DType  { return l.dtype }
func (l *FlatLayout) Segment() SegmentID   { return l.segment }

func (l *FlatLayout) Reader(segments SegmentSource) (Reader, error) {
	return &flatReader{layout: l, segments: segments, cfg: config.Default().Flat}, nil
}

// ReaderWithConfig overrides the density threshold a flat reader uses to
// pick between the dense and sparse filter paths (spec §4.12).
func (l *FlatLayout) ReaderWithConfig(segments SegmentSource, cfg config.Flat) Reader {
	return &flatReader{layout: l, segments: segments, cfg: cfg}
}

type flatReader struct {
	layout   *FlatLayout
	segments SegmentSource
	cfg      config.Flat
}

func (r *flatReader) array() (array.Array, error) {
	data, err := r.segments.ReadSegment(r.layout.segment)
	if err != nil {
		return nil, err
	}
	return DecodeArray(r.layout.dtype, data)
}

func (r *flatReader) sliced(rr RowRange) (array.Array, error) {
	if err := checkRowRange(rr, r.layout.rowCount); err != nil {
		return nil, err
	}
	a, err := r.array()
	if err != nil {
		return nil, err
	}
	if rr.Start == 0 && int(rr.End) == a.Len() {
		return a, nil
	}
	return a.Slice(int(rr.Start), int(rr.End))
}

// PruningEvaluation: a flat layout carries no zone map of its own, so
// pruning is always a no-op (spec §4.12).
func (r *flatReader) PruningEvaluation(rr RowRange, e expr.Expr) (PruningEvaluation, error) {
	return NoOpPruning{}, nil
}

func (r *flatReader) FilterEvaluation(rr RowRange, e expr.Expr) (MaskEvaluation, error) {
	if err := checkRowRange(rr, r.layout.rowCount); err != nil {
		return nil, err
	}
	return &flatFilterEval{reader: r, rowRange: rr, expr: e}, nil
}

func (r *flatReader) ProjectionEvaluation(rr RowRange, e expr.Expr) (ArrayEvaluation, error) {
	if err := checkRowRange(rr, r.layout.rowCount); err != nil {
		return nil, err
	}
	return &flatProjectionEval{reader: r, rowRange: rr, expr: e}, nil
}

type flatFilterEval struct {
	reader   *flatReader
	rowRange RowRange
	expr     expr.Expr
}

// Invoke implements the flat layer's dense/sparse filter path split at
// density threshold (spec §4.12): below threshold, filter the array down
// to selected rows first and rank-intersect; at or above, evaluate over
// every row and bitwise-AND.
func (e *flatFilterEval) Invoke(m mask.Mask) (mask.Mask, error) {
	a, err := e.reader.sliced(e.rowRange)
	if err != nil {
		return mask.Mask{}, err
	}
	if a.Len() != m.Len() {
		return mask.Mask{}, colvexerr.New(colvexerr.InvalidInput, "flat filter: mask len %d != array len %d", m.Len(), a.Len())
	}

	if m.Density() < e.reader.cfg.DensityThreshold {
		filtered, err := compute.Filter(a, m)
		if err != nil {
			return mask.Mask{}, err
		}
		result, err := e.expr.Evaluate(filtered)
		if err != nil {
			return mask.Mask{}, err
		}
		sub, err := boolMaskOf(result)
		if err != nil {
			return mask.Mask{}, err
		}
		return intersectByRank(m, sub), nil
	}

	result, err := e.expr.Evaluate(a)
	if err != nil {
		return mask.Mask{}, err
	}
	full, err := boolMaskOf(result)
	if err != nil {
		return mask.Mask{}, err
	}
	return mask.BitAnd(m, full), nil
}

type flatProjectionEval struct {
	reader   *flatReader
	rowRange RowRange
	expr     expr.Expr
}

func (e *flatProjectionEval) Invoke(m mask.Mask) (array.Array, error) {
	a, err := e.reader.sliced(e.rowRange)
	if err != nil {
		return nil, err
	}
	if !m.IsAllTrue() {
		if a.Len() != m.Len() {
			return nil, colvexerr.New(colvexerr.InvalidInput, "flat projection: mask len %d != array len %d", m.Len(), a.Len())
		}
		a, err = compute.Filter(a, m)
		if err != nil {
			return nil, err
		}
	}
	if expr.Equal(e.expr, expr.Ident) {
		return a, nil
	}
	return e.expr.Evaluate(a)
}

// FlatLayoutWriter builds a flat layout from a single array, writing its
// content to a segment store (spec §4.11's writer pipeline base case).
type FlatLayoutWriter struct {
	dtype scalar.DType
}

func NewFlatLayoutWriter(dtype scalar.DType) *FlatLayoutWriter {
	return &FlatLayoutWriter{dtype: dtype}
}

// Write encodes a into a fresh segment and returns the resulting layout.
func (w *FlatLayoutWriter) Write(segments *MemorySegments, a array.Array) (*FlatLayout, error) {
	if !a.DType().Equal(w.dtype) {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "flat layout writer: array dtype %s != declared %s", a.DType(), w.dtype)
	}
	data, err := EncodeArray(a)
	if err != nil {
		return nil, err
	}
	id := segments.Put(data)
	return NewFlatLayout(w.dtype, uint64(a.Len()), id), nil
}
