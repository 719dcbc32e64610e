package layout

import "github.com/colvex/colvex/scalar"

// InlineSchemaLayout wraps a child layout together with an explicit dtype
// for that point in the tree, rather than relying on the parent to carry
// it (spec §4.11's "inline_schema" layout kind). No evaluation behavior
// differs from the child; this exists purely so the footer can
// self-describe a subtree's dtype without threading it down from the
// root, which matters once a struct field's dtype is only known at
// write time (e.g. an extension or a column appended after the rest of
// the table was already typed).
//
// No vortex-file source describing this layout kind survived retrieval;
// this is a best-effort reconstruction from its name and kind ID alone
// (spec §4.11 lists it only as "inline_schema=4" with no further detail).
type InlineSchemaLayout struct {
	dtype scalar.DType
	child Layout
}

// NewInlineSchemaLayout wraps child, declaring dtype explicitly at this
// point in the layout tree.
func NewInlineSchemaLayout(dtype scalar.DType, child Layout) *InlineSchemaLayout {
	return &InlineSchemaLayout{dtype: dtype, child: child}
}

func (l *InlineSchemaLayout) Kind() Kind           { return KindInline }
func (l *InlineSchemaLayout) RowCount() uint64      { return l.child.RowCount() }
func (l *InlineSchemaLayout) DType() scalar.DType   { return l.dtype }
func (l *InlineSchemaLayout) Child() Layout         { return l.child }

func (l *InlineSchemaLayout) Reader(segments SegmentSource) (Reader, error) {
	return l.child.Reader(segments)
}
