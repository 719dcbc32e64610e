package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Kind identifies a layout node's shape, matching the byte-exact layout
// kind IDs persisted in the footer (spec §4.11: flat=1, chunked=2,
// columnar=3, inline_schema=4).
type Kind byte

const (
	KindFlat     Kind = 1
	KindChunked  Kind = 2
	KindColumnar Kind = 3
	KindInline   Kind = 4
)

// RowRange is a half-open [Start, End) range of logical row positions,
// the unit every evaluation operates over (spec §4.12).
type RowRange struct {
	Start uint64
	End   uint64
}

// Len returns the number of rows the range covers.
func (r RowRange) Len() int { return int(r.End - r.Start) }

// IsDisjoint reports whether r shares no rows with o.
func (r RowRange) IsDisjoint(o RowRange) bool {
	return r.End <= o.Start || o.End <= r.Start
}

// Intersect returns the overlap of r and o; callers must check IsDisjoint
// first, since an empty intersection is returned as a zero-length range
// rather than an error.
func (r RowRange) Intersect(o RowRange) RowRange {
	start := r.Start
	if o.Start > start {
		start = o.Start
	}
	end := r.End
	if o.End < end {
		end = o.End
	}
	if end < start {
		end = start
	}
	return RowRange{Start: start, End: end}
}

// PruningEvaluation narrows an input selection mask using only
// statistics or zone maps, without decoding any values (spec §4.12). A
// no-op evaluation returns the input mask unchanged.
type PruningEvaluation interface {
	Invoke(m mask.Mask) (mask.Mask, error)
}

// MaskEvaluation refines an input mask by actually evaluating a filter
// expression over the layout's data (spec §4.12).
type MaskEvaluation interface {
	Invoke(m mask.Mask) (mask.Mask, error)
}

// ArrayEvaluation projects the rows selected by an input mask into an
// output array (spec §4.12).
type ArrayEvaluation interface {
	Invoke(m mask.Mask) (array.Array, error)
}

// NoOpPruning is a PruningEvaluation that returns its input mask
// unchanged, used whenever a layout kind has no statistics to prune with
// (spec: "A no-op evaluation returns the input unchanged").
type NoOpPruning struct{}

func (NoOpPruning) Invoke(m mask.Mask) (mask.Mask, error) { return m, nil }

// Layout is one node of the layout tree: it knows its own row count and
// dtype, and can produce a Reader bound to a segment source to actually
// evaluate expressions against its data (spec §4.11, §4.12).
type Layout interface {
	Kind() Kind
	RowCount() uint64
	DType() scalar.DType
	// Reader binds this layout to a segment source, returning the object
	// that can produce Pruning/Filter/Projection evaluations.
	Reader(segments SegmentSource) (Reader, error)
}

// Reader produces the three evaluations spec §4.12 defines for any row
// range and expression, over a particular layout node bound to a segment
// source.
type Reader interface {
	PruningEvaluation(rr RowRange, e expr.Expr) (PruningEvaluation, error)
	FilterEvaluation(rr RowRange, e expr.Expr) (MaskEvaluation, error)
	ProjectionEvaluation(rr RowRange, e expr.Expr) (ArrayEvaluation, error)
}

func checkRowRange(rr RowRange, rowCount uint64) error {
	if rr.Start > rr.End || rr.End > rowCount {
		return colvexerr.New(colvexerr.InvalidInput, "layout: row range [%d,%d) out of bounds for row count %d", rr.Start, rr.End, rowCount)
	}
	return nil
}
