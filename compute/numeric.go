package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// NumericOperator is a pointwise arithmetic operator (grounded on
// compute/numeric.rs's NumericOperator).
type NumericOperator int

const (
	NumAdd NumericOperator = iota
	NumSub
	NumMul
	NumDiv
)

var numericFn = register("numeric", numericFallback)

// RegisterNumericKernel adds an encoding-specific arithmetic kernel (e.g.
// encoding/forcodec folding a constant add into its reference value).
func RegisterNumericKernel(k KernelFunc) { numericFn.Register(k) }

// Numeric evaluates lhs OP rhs elementwise over two arrays of the same
// primitive DType (spec §4.1).
func Numeric(lhs, rhs array.Array, op NumericOperator) (array.Array, error) {
	if lhs.Len() != rhs.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "numeric: length mismatch %d vs %d", lhs.Len(), rhs.Len())
	}
	if lhs.DType().Kind() != scalar.KindPrimitive || rhs.DType().Kind() != scalar.KindPrimitive {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "numeric: both operands must be Primitive")
	}
	return numericFn.InvokeArray(Args{Inputs: []array.Array{lhs, rhs}, Scalar: op})
}

// Add, Sub, Mul, Div are Numeric convenience wrappers.
func Add(lhs, rhs array.Array) (array.Array, error) { return Numeric(lhs, rhs, NumAdd) }
func Sub(lhs, rhs array.Array) (array.Array, error) { return Numeric(lhs, rhs, NumSub) }
func Mul(lhs, rhs array.Array) (array.Array, error) { return Numeric(lhs, rhs, NumMul) }
func Div(lhs, rhs array.Array) (array.Array, error) { return Numeric(lhs, rhs, NumDiv) }

func numericFallback(args Args) (any, bool, error) {
	lhs, rhs := args.Inputs[0], args.Inputs[1]
	op := args.Scalar.(NumericOperator)
	n := lhs.Len()
	ptype := lhs.DType().PType()
	nullable := lhs.DType().IsNullable() || rhs.DType().IsNullable()
	dtype := scalar.Primitive(ptype, nullable)

	scalars := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		a, err := lhs.ScalarAt(i)
		if err != nil {
			return nil, true, err
		}
		b, err := rhs.ScalarAt(i)
		if err != nil {
			return nil, true, err
		}
		if a.IsNull() || b.IsNull() {
			scalars[i] = scalar.Null(dtype)
			continue
		}
		r, err := applyNumeric(op, ptype, a.Value().AsPValue(), b.Value().AsPValue())
		if err != nil {
			return nil, true, err
		}
		s, err := scalar.New(dtype, scalar.PrimitiveValue(r))
		if err != nil {
			return nil, true, err
		}
		scalars[i] = s
	}
	out, err := array.FromScalars(dtype, scalars)
	return out, true, err
}

func applyNumeric(op NumericOperator, ptype scalar.PType, a, b scalar.PValue) (scalar.PValue, error) {
	if ptype.IsFloat() {
		x, y := a.AsF64(), b.AsF64()
		var r float64
		switch op {
		case NumAdd:
			r = x + y
		case NumSub:
			r = x - y
		case NumMul:
			r = x * y
		case NumDiv:
			r = x / y
		}
		return scalar.PValueFromF64(ptype, r), nil
	}
	if ptype.IsSignedInt() {
		x, y := a.AsI64(), b.AsI64()
		var r int64
		switch op {
		case NumAdd:
			r = x + y
		case NumSub:
			r = x - y
		case NumMul:
			r = x * y
		case NumDiv:
			if y == 0 {
				return scalar.PValue{}, colvexerr.New(colvexerr.Arithmetic, "division by zero")
			}
			r = x / y
		}
		return scalar.PValueFromI64(ptype, r), nil
	}
	x, y := a.AsU64(), b.AsU64()
	var r uint64
	switch op {
	case NumAdd:
		r = x + y
	case NumSub:
		r = x - y
	case NumMul:
		r = x * y
	case NumDiv:
		if y == 0 {
			return scalar.PValue{}, colvexerr.New(colvexerr.Arithmetic, "division by zero")
		}
		r = x / y
	}
	return scalar.PValueFromU64(ptype, r), nil
}
