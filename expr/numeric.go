package expr

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/scalar"
)

// NumericOp is the closed set of arithmetic expression operators (spec
// §4.10). RSub/RDiv are the reversed-operand forms a query planner emits
// when it normalizes "literal OP column" into "column OP literal" for
// kernel dispatch purposes, then needs to remember the original order.
type NumericOp int

const (
	NumericAdd NumericOp = iota
	NumericSub
	NumericRSub
	NumericMul
	NumericDiv
	NumericRDiv
)

func (op NumericOp) String() string {
	switch op {
	case NumericAdd:
		return "+"
	case NumericSub:
		return "-"
	case NumericRSub:
		return "r-"
	case NumericMul:
		return "*"
	case NumericDiv:
		return "/"
	case NumericRDiv:
		return "r/"
	default:
		return "?"
	}
}

// binaryNumeric is an arithmetic binary node (spec §4.10: BinaryNumeric
// (lhs, op, rhs)). Grounded on compute/numeric.go's NumericOperator
// algebra; RSub/RDiv evaluate by swapping operands around the
// corresponding forward compute call, since compute.Numeric itself only
// knows Add/Sub/Mul/Div.
type binaryNumeric struct {
	lhs, rhs Expr
	op       NumericOp
}

// BinaryNumeric builds an arithmetic binary expression node.
func BinaryNumeric(lhs Expr, op NumericOp, rhs Expr) Expr {
	return binaryNumeric{lhs: lhs, rhs: rhs, op: op}
}

func (b binaryNumeric) Evaluate(scope array.Array) (array.Array, error) {
	lhs, err := b.lhs.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	rhs, err := b.rhs.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	switch b.op {
	case NumericAdd:
		return compute.Add(lhs, rhs)
	case NumericSub:
		return compute.Sub(lhs, rhs)
	case NumericRSub:
		return compute.Sub(rhs, lhs)
	case NumericMul:
		return compute.Mul(lhs, rhs)
	case NumericDiv:
		return compute.Div(lhs, rhs)
	case NumericRDiv:
		return compute.Div(rhs, lhs)
	default:
		panic("expr: unreachable numeric op")
	}
}

func (b binaryNumeric) ReturnDType(scopeDType scalar.DType) (scalar.DType, error) {
	lhsDType, err := b.lhs.ReturnDType(scopeDType)
	if err != nil {
		return scalar.DType{}, err
	}
	rhsDType, err := b.rhs.ReturnDType(scopeDType)
	if err != nil {
		return scalar.DType{}, err
	}
	return scalar.Primitive(lhsDType.PType(), lhsDType.IsNullable() || rhsDType.IsNullable()), nil
}

func (b binaryNumeric) Children() []Expr { return []Expr{b.lhs, b.rhs} }

func (b binaryNumeric) ReplacingChildren(children []Expr) Expr {
	if len(children) != 2 {
		panic("expr: BinaryNumeric takes exactly two children")
	}
	return binaryNumeric{lhs: children[0], rhs: children[1], op: b.op}
}

func (b binaryNumeric) String() string {
	return "(" + b.lhs.String() + " " + b.op.String() + " " + b.rhs.String() + ")"
}

// AsBinaryNumeric decomposes e into its operands and operator if it is a
// BinaryNumeric node.
func AsBinaryNumeric(e Expr) (lhs Expr, op NumericOp, rhs Expr, ok bool) {
	b, ok := e.(binaryNumeric)
	if !ok {
		return nil, 0, nil, false
	}
	return b.lhs, b.op, b.rhs, true
}
