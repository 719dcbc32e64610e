package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

var compareFn = register("compare", compareFallback)

// RegisterCompareKernel adds an encoding-specific comparison kernel.
func RegisterCompareKernel(k KernelFunc) { compareFn.Register(k) }

// Compare evaluates lhs OP rhs elementwise, returning a canonical
// BoolArray. Implements the two-stage dispatch of spec §4.1: first the
// direct (lhs, rhs) kernel order, then the same kernels with sides
// swapped and the operator's Swap() applied, then the canonical
// elementwise fallback.
func Compare(lhs, rhs array.Array, op Operator) (array.Array, error) {
	if lhs.Len() != rhs.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "compare: length mismatch %d vs %d", lhs.Len(), rhs.Len())
	}

	if out, handled, err := compareFn.TryKernels(Args{Inputs: []array.Array{lhs, rhs}, Op: op}); handled {
		if err != nil {
			return nil, err
		}
		return asArray(out).ToCanonical()
	}

	if out, handled, err := compareFn.TryKernels(Args{Inputs: []array.Array{rhs, lhs}, Op: op.Swap()}); handled {
		if err != nil {
			return nil, err
		}
		return asArray(out).ToCanonical()
	}

	return compareFallback2(lhs, rhs, op)
}

func compareFallback(args Args) (any, bool, error) {
	if len(args.Inputs) != 2 {
		return nil, false, nil
	}
	out, err := compareFallback2(args.Inputs[0], args.Inputs[1], args.Op)
	return out, true, err
}

func compareFallback2(lhs, rhs array.Array, op Operator) (array.Array, error) {
	n := lhs.Len()
	vals := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		a, err := lhs.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		b, err := rhs.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if a.IsNull() || b.IsNull() {
			continue
		}
		cmp, err := scalar.Compare(a, b)
		if err != nil {
			return nil, err
		}
		vals[i] = applyOp(op, cmp)
		valid[i] = true
	}
	out, err := array.NewBool(mask.FromBools(vals), array.FromMask(mask.FromBools(valid)))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyOp(op Operator, cmp int) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpNotEq:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	default:
		return false
	}
}
