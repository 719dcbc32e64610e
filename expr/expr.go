// Package expr implements colvex's expression system (spec §4.10): an
// immutable tree of nodes evaluating to an array when applied to a scope
// array, plus CNF normalization for the filter layout layer. Grounded on
// vortex-expr's VortexExpr trait (select.rs, is_null.rs) and its Display/
// return_dtype/children/replacing_children surface.
package expr

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// Expr is an immutable expression node. Every node can evaluate itself
// against a scope array, report its result dtype given the scope's dtype,
// and expose/replace its children for tree rewrites (e.g. CNF
// normalization, projection pushdown).
type Expr interface {
	Evaluate(scope array.Array) (array.Array, error)
	ReturnDType(scopeDType scalar.DType) (scalar.DType, error)
	Children() []Expr
	ReplacingChildren(children []Expr) Expr
	String() string
}

// Identity returns the scope array unchanged; every other expression's
// leaves eventually project from it.
type identity struct{}

// Ident is the shared Identity node (stateless, so one instance suffices).
var Ident Expr = identity{}

func (identity) Evaluate(scope array.Array) (array.Array, error) { return scope, nil }
func (identity) ReturnDType(scopeDType scalar.DType) (scalar.DType, error) {
	return scopeDType, nil
}
func (identity) Children() []Expr             { return nil }
func (identity) ReplacingChildren([]Expr) Expr { return Ident }
func (identity) String() string                { return "$" }

// literal is a constant of a known dtype, broadcast to the scope's length
// on evaluation.
type literal struct {
	value scalar.Scalar
}

// Literal wraps a constant scalar as an expression node.
func Literal(value scalar.Scalar) Expr { return literal{value: value} }

func (l literal) Evaluate(scope array.Array) (array.Array, error) {
	return array.FromScalars(l.value.DType(), repeat(l.value, scope.Len()))
}

func (l literal) ReturnDType(scalar.DType) (scalar.DType, error) { return l.value.DType(), nil }
func (l literal) Children() []Expr                               { return nil }
func (l literal) ReplacingChildren(children []Expr) Expr {
	if len(children) != 0 {
		panic("expr: Literal takes no children")
	}
	return l
}
func (l literal) String() string { return l.value.String() }

func repeat(v scalar.Scalar, n int) []scalar.Scalar {
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Equal reports whether two expression trees are structurally identical,
// used by the rewrite passes (CNF, projection pushdown) to detect when a
// replace was a no-op. Grounded on VortexExpr's PartialEq derive pattern
// (compare node-specific fields, then recurse into children).
func Equal(a, b Expr) bool {
	if a.String() != b.String() {
		return false
	}
	ac, bc := a.Children(), b.Children()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// AsLiteral decomposes e into its constant value if it is a Literal node.
func AsLiteral(e Expr) (scalar.Scalar, bool) {
	l, ok := e.(literal)
	if !ok {
		return scalar.Scalar{}, false
	}
	return l.value, true
}

func requireStruct(dtype scalar.DType, context string) (scalar.DType, error) {
	if dtype.Kind() != scalar.KindStruct {
		return scalar.DType{}, colvexerr.New(colvexerr.MismatchedTypes, "%s: expected struct dtype, got %s", context, dtype)
	}
	return dtype, nil
}
