package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// ColumnarLayout is a struct of named child layouts sharing one row count
// (spec §4.11: "columns are composed into a columnar layout").
type ColumnarLayout struct {
	dtype    scalar.DType
	names    []string
	children []Layout
	rowCount uint64
}

// NewColumnarLayout composes children (one per field of dtype, in field
// order) into a columnar layout.
func NewColumnarLayout(dtype scalar.DType, children []Layout) (*ColumnarLayout, error) {
	fields := dtype.Fields()
	if len(fields) != len(children) {
		return nil, colvexerr.New(colvexerr.InvalidInput, "columnar layout: %d fields but %d children", len(fields), len(children))
	}
	names := make([]string, len(fields))
	var rowCount uint64
	for i, f := range fields {
		if !children[i].DType().Equal(f.DType) {
			return nil, colvexerr.New(colvexerr.MismatchedTypes, "columnar layout: field %q dtype %s != child dtype %s", f.Name, f.DType, children[i].DType())
		}
		if i == 0 {
			rowCount = children[i].RowCount()
		} else if children[i].RowCount() != rowCount {
			return nil, colvexerr.New(colvexerr.InvalidInput, "columnar layout: field %q row count %d != %d", f.Name, children[i].RowCount(), rowCount)
		}
		names[i] = f.Name
	}
	return &ColumnarLayout{dtype: dtype, names: names, children: children, rowCount: rowCount}, nil
}

func (l *ColumnarLayout) Kind() Kind           { return KindColumnar }
func (l *ColumnarLayout) RowCount() uint64     { return l.rowCount }
func (l *ColumnarLayout) DType() scalar.DType  { return l.dtype }
func (l *ColumnarLayout) NumFields() int         { return len(l.children) }
func (l *ColumnarLayout) FieldName(i int) string { return l.names[i] }
func (l *ColumnarLayout) Child(i int) Layout     { return l.children[i] }

func (l *ColumnarLayout) childByName(name string) (Layout, bool) {
	for i, n := range l.names {
		if n == name {
			return l.children[i], true
		}
	}
	return nil, false
}

func (l *ColumnarLayout) Reader(segments SegmentSource) (Reader, error) {
	return &columnarReader{layout: l, segments: segments}, nil
}

type columnarReader struct {
	layout   *ColumnarLayout
	segments SegmentSource
}

// PruningEvaluation is a no-op at the columnar level: each column's own
// reader (typically a chunked layout with a zone map) prunes on its own
// terms once fetched. Combining per-column zone-map pruning into one
// cross-column mask ahead of time is not implemented in this port.
func (r *columnarReader) PruningEvaluation(rr RowRange, e expr.Expr) (PruningEvaluation, error) {
	if err := checkRowRange(rr, r.layout.RowCount()); err != nil {
		return nil, err
	}
	return NoOpPruning{}, nil
}

func (r *columnarReader) FilterEvaluation(rr RowRange, e expr.Expr) (MaskEvaluation, error) {
	if err := checkRowRange(rr, r.layout.RowCount()); err != nil {
		return nil, err
	}
	return &columnarMaskEval{reader: r, rowRange: rr, expr: e}, nil
}

func (r *columnarReader) ProjectionEvaluation(rr RowRange, e expr.Expr) (ArrayEvaluation, error) {
	if err := checkRowRange(rr, r.layout.RowCount()); err != nil {
		return nil, err
	}
	return &columnarArrayEval{reader: r, rowRange: rr, expr: e}, nil
}

// requiredFields walks e's tree and collects which top-level struct
// fields it reads, so only those columns need to be fetched and
// assembled before evaluating e. An Identity leaf (the whole row) forces
// every field to be required; a literal-only expression requires none.
// This is a simplified stand-in for full per-field expression splitting
// (spec §4.12 discusses projection pushdown in general terms without
// prescribing its exact decomposition).
func requiredFields(e expr.Expr, allNames []string) []string {
	if expr.Equal(e, expr.Ident) {
		out := make([]string, len(allNames))
		copy(out, allNames)
		return out
	}
	if field, child, ok := expr.AsGetItem(e); ok && expr.Equal(child, expr.Ident) {
		return []string{field}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, c := range e.Children() {
		for _, f := range requiredFields(c, allNames) {
			if _, dup := seen[f]; !dup {
				seen[f] = struct{}{}
				out = append(out, f)
			}
		}
	}
	return out
}

// assembleFields fetches the projection of every required field over rr
// and wraps them into a struct array, so a cross-column expression can be
// evaluated against it.
func (r *columnarReader) assembleFields(rr RowRange, names []string, m mask.Mask) (*array.StructArray, error) {
	fields := make([]array.Array, len(names))
	declFields := make([]scalar.Field, len(names))
	for i, name := range names {
		child, ok := r.layout.childByName(name)
		if !ok {
			return nil, colvexerr.New(colvexerr.InvalidInput, "columnar layout: no field %q", name)
		}
		childReader, err := child.Reader(r.segments)
		if err != nil {
			return nil, err
		}
		eval, err := childReader.ProjectionEvaluation(rr, expr.Ident)
		if err != nil {
			return nil, err
		}
		arr, err := eval.Invoke(m)
		if err != nil {
			return nil, err
		}
		fields[i] = arr
		declFields[i] = scalar.Field{Name: name, DType: arr.DType()}
	}
	dtype := scalar.Struct(declFields, false)
	n := int(rr.Len())
	if len(fields) > 0 {
		n = fields[0].Len()
	}
	return array.NewStruct(dtype, fields, array.NonNullable(n))
}

type columnarMaskEval struct {
	reader   *columnarReader
	rowRange RowRange
	expr     expr.Expr
}

func (e *columnarMaskEval) Invoke(m mask.Mask) (mask.Mask, error) {
	names := requiredFields(e.expr, e.reader.layout.names)
	if len(names) == 0 && len(e.reader.layout.names) > 0 {
		names = e.reader.layout.names[:1]
	}
	scope, err := e.reader.assembleFields(e.rowRange, names, m)
	if err != nil {
		return mask.Mask{}, err
	}
	result, err := e.expr.Evaluate(scope)
	if err != nil {
		return mask.Mask{}, err
	}
	full, err := boolMaskOf(result)
	if err != nil {
		return mask.Mask{}, err
	}
	return mask.BitAnd(m, full), nil
}

type columnarArrayEval struct {
	reader   *columnarReader
	rowRange RowRange
	expr     expr.Expr
}

func (e *columnarArrayEval) Invoke(m mask.Mask) (array.Array, error) {
	// Single-field projection (e.g. get_item("col", $)) pushes straight
	// through to that column's own reader without assembling a struct.
	if field, child, ok := expr.AsGetItem(e.expr); ok && expr.Equal(child, expr.Ident) {
		colChild, ok := e.reader.layout.childByName(field)
		if !ok {
			return nil, colvexerr.New(colvexerr.InvalidInput, "columnar layout: no field %q", field)
		}
		childReader, err := colChild.Reader(e.reader.segments)
		if err != nil {
			return nil, err
		}
		eval, err := childReader.ProjectionEvaluation(e.rowRange, expr.Ident)
		if err != nil {
			return nil, err
		}
		return eval.Invoke(m)
	}

	names := requiredFields(e.expr, e.reader.layout.names)
	if len(names) == 0 {
		names = e.reader.layout.names
	}
	scope, err := e.reader.assembleFields(e.rowRange, names, m)
	if err != nil {
		return nil, err
	}
	if expr.Equal(e.expr, expr.Ident) {
		return scope, nil
	}
	return e.expr.Evaluate(scope)
}

// ColumnarLayoutWriter builds a columnar layout from per-field child
// layouts already written by their own writers (spec §4.11).
type ColumnarLayoutWriter struct {
	dtype scalar.DType
}

func NewColumnarLayoutWriter(dtype scalar.DType) *ColumnarLayoutWriter {
	return &ColumnarLayoutWriter{dtype: dtype}
}

// Write composes one child layout per field (in dtype field order) into a
// ColumnarLayout.
func (w *ColumnarLayoutWriter) Write(children []Layout) (*ColumnarLayout, error) {
	return NewColumnarLayout(w.dtype, children)
}
