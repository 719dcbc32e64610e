package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/scalar"
)

var castFn = register("cast", castFallback)

// RegisterCastKernel adds an encoding-specific cast kernel.
func RegisterCastKernel(k KernelFunc) { castFn.Register(k) }

// Cast converts src to DType to, elementwise, via scalar.Cast's rules
// (spec §4.1).
func Cast(src array.Array, to scalar.DType) (array.Array, error) {
	return castFn.InvokeArray(Args{Inputs: []array.Array{src}, Scalar: to})
}

func castFallback(args Args) (any, bool, error) {
	src := args.Inputs[0]
	to := args.Scalar.(scalar.DType)
	n := src.Len()
	scalars := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return nil, true, err
		}
		casted, err := scalar.Cast(s, to)
		if err != nil {
			return nil, true, err
		}
		scalars[i] = casted
	}
	out, err := array.FromScalars(to, scalars)
	return out, true, err
}
