package expr

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/scalar"
)

// binaryExpr is a comparison or boolean binary node (spec §4.10:
// BinaryExpr(lhs, op, rhs), op in {Eq,NotEq,Lt,Lte,Gt,Gte,And,Or}).
// Grounded on vortex-expr's BinaryExpr node (no surviving source for this
// file specifically; the op set and evaluate-both-sides-then-dispatch
// shape follows compute/compare.go and compute/boolean.go, which this
// node is a thin expression-tree wrapper around).
type binaryExpr struct {
	lhs, rhs Expr
	op       BinaryOp
}

// BinaryOp is the closed set of binary expression operators.
type BinaryOp int

const (
	OpEq BinaryOp = iota
	OpNotEq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

func (op BinaryOp) isComparison() bool {
	switch op {
	case OpEq, OpNotEq, OpLt, OpLte, OpGt, OpGte:
		return true
	default:
		return false
	}
}

func (op BinaryOp) toCompareOperator() compute.Operator {
	switch op {
	case OpEq:
		return compute.OpEq
	case OpNotEq:
		return compute.OpNotEq
	case OpLt:
		return compute.OpLt
	case OpLte:
		return compute.OpLte
	case OpGt:
		return compute.OpGt
	case OpGte:
		return compute.OpGte
	default:
		panic("expr: not a comparison operator")
	}
}

func (op BinaryOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// BinaryExpr builds a comparison or boolean binary expression node.
func BinaryExpr(lhs Expr, op BinaryOp, rhs Expr) Expr {
	return binaryExpr{lhs: lhs, rhs: rhs, op: op}
}

// And and Or are BinaryExpr convenience constructors, used heavily by CNF
// normalization to rebuild conjunct/disjunct trees.
func And(lhs, rhs Expr) Expr { return BinaryExpr(lhs, OpAnd, rhs) }
func Or(lhs, rhs Expr) Expr  { return BinaryExpr(lhs, OpOr, rhs) }

func (b binaryExpr) Evaluate(scope array.Array) (array.Array, error) {
	lhs, err := b.lhs.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	rhs, err := b.rhs.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	if b.op.isComparison() {
		return compute.Compare(lhs, rhs, b.op.toCompareOperator())
	}
	switch b.op {
	case OpAnd:
		return compute.And(lhs, rhs)
	case OpOr:
		return compute.Or(lhs, rhs)
	default:
		panic("expr: unreachable binary op")
	}
}

func (b binaryExpr) ReturnDType(scopeDType scalar.DType) (scalar.DType, error) {
	nullable := false
	for _, child := range []Expr{b.lhs, b.rhs} {
		dt, err := child.ReturnDType(scopeDType)
		if err != nil {
			return scalar.DType{}, err
		}
		nullable = nullable || dt.IsNullable()
	}
	return scalar.Bool(nullable), nil
}

func (b binaryExpr) Children() []Expr { return []Expr{b.lhs, b.rhs} }

func (b binaryExpr) ReplacingChildren(children []Expr) Expr {
	if len(children) != 2 {
		panic("expr: BinaryExpr takes exactly two children")
	}
	return binaryExpr{lhs: children[0], rhs: children[1], op: b.op}
}

func (b binaryExpr) String() string {
	return "(" + b.lhs.String() + " " + b.op.String() + " " + b.rhs.String() + ")"
}

// AsBinary decomposes e into its operands and operator if it is a
// BinaryExpr node, for callers (e.g. layout's zone-map pruning) that need
// to inspect a comparison's shape without a concrete exported type.
func AsBinary(e Expr) (lhs Expr, op BinaryOp, rhs Expr, ok bool) {
	b, ok := e.(binaryExpr)
	if !ok {
		return nil, 0, nil, false
	}
	return b.lhs, b.op, b.rhs, true
}

// IsComparison reports whether op is one of Eq/NotEq/Lt/Lte/Gt/Gte.
func IsComparison(op BinaryOp) bool { return op.isComparison() }
