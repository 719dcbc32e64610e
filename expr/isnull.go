package expr

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// isNull reports, per row, whether child's evaluation is null. Grounded
// directly on vortex-expr's is_null.rs, including its AllTrue/AllFalse
// mask shortcut (no per-row boolean array materialized when the whole
// column is uniformly valid or invalid).
type isNull struct {
	child Expr
}

// IsNull returns a non-nullable Bool expression, true at child's nulls.
func IsNull(child Expr) Expr { return isNull{child: child} }

func (n isNull) Evaluate(scope array.Array) (array.Array, error) {
	evaluated, err := n.child.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	m := evaluated.ValidityMask()
	switch {
	case m.IsAllTrue():
		return array.NewBool(mask.AllFalse(m.Len()), array.NonNullable(m.Len()))
	case m.IsAllFalse():
		return array.NewBool(mask.AllTrue(m.Len()), array.NonNullable(m.Len()))
	default:
		vals := make([]bool, m.Len())
		for i := 0; i < m.Len(); i++ {
			vals[i] = !m.Value(i)
		}
		return array.NewBool(mask.FromBools(vals), array.NonNullable(m.Len()))
	}
}

func (n isNull) ReturnDType(scopeDType scalar.DType) (scalar.DType, error) {
	return scalar.Bool(false), nil
}

func (n isNull) Children() []Expr { return []Expr{n.child} }

func (n isNull) ReplacingChildren(children []Expr) Expr {
	if len(children) != 1 {
		panic("expr: IsNull takes exactly one child")
	}
	return IsNull(children[0])
}

func (n isNull) String() string { return "is_null(" + n.child.String() + ")" }

// AsIsNull decomposes e into its child if it is an IsNull node.
func AsIsNull(e Expr) (child Expr, ok bool) {
	n, ok := e.(isNull)
	if !ok {
		return nil, false
	}
	return n.child, true
}
