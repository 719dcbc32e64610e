package expr

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// getItem projects a single named field out of a struct's evaluation.
// Grounded on vortex-expr's GetItem node (used throughout select.rs/
// is_null.rs tests as get_item(name, child)).
type getItem struct {
	field string
	child Expr
}

// GetItem projects field out of child's evaluation, which must be a
// struct.
func GetItem(field string, child Expr) Expr { return getItem{field: field, child: child} }

func (g getItem) Evaluate(scope array.Array) (array.Array, error) {
	evaluated, err := g.child.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	st, ok := evaluated.(*array.StructArray)
	if !ok {
		canon, err := evaluated.ToCanonical()
		if err != nil {
			return nil, err
		}
		st, ok = canon.(*array.StructArray)
		if !ok {
			return nil, colvexerr.New(colvexerr.MismatchedTypes, "get_item(%q): child did not evaluate to a struct", g.field)
		}
	}
	field, ok := st.FieldByName(g.field)
	if !ok {
		return nil, colvexerr.New(colvexerr.InvalidInput, "get_item: no field %q in struct", g.field)
	}
	return field, nil
}

func (g getItem) ReturnDType(scopeDType scalar.DType) (scalar.DType, error) {
	childDType, err := g.child.ReturnDType(scopeDType)
	if err != nil {
		return scalar.DType{}, err
	}
	if _, err := requireStruct(childDType, "get_item"); err != nil {
		return scalar.DType{}, err
	}
	fieldDType, ok := childDType.FieldByName(g.field)
	if !ok {
		return scalar.DType{}, colvexerr.New(colvexerr.InvalidInput, "get_item: no field %q in struct dtype", g.field)
	}
	if childDType.IsNullable() {
		fieldDType = fieldDType.AsNullable()
	}
	return fieldDType, nil
}

func (g getItem) Children() []Expr { return []Expr{g.child} }

func (g getItem) ReplacingChildren(children []Expr) Expr {
	if len(children) != 1 {
		panic("expr: GetItem takes exactly one child")
	}
	return GetItem(g.field, children[0])
}

func (g getItem) String() string { return g.child.String() + "." + g.field }

// AsGetItem decomposes e into its field name and child if it is a GetItem
// node, for callers that need to inspect a projection's shape without a
// concrete exported type.
func AsGetItem(e Expr) (field string, child Expr, ok bool) {
	g, ok := e.(getItem)
	if !ok {
		return "", nil, false
	}
	return g.field, g.child, true
}
