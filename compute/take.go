package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

var takeFn = register("take", takeFallback)

// RegisterTakeKernel adds an encoding-specific take kernel (e.g.
// encoding/bitpacked's UNPACK_CHUNK_THRESHOLD-guided unpack-then-gather
// path, spec §4.6).
func RegisterTakeKernel(k KernelFunc) { takeFn.Register(k) }

// Take gathers the rows at indices from src, producing an array of the
// same DType and len(indices) rows (spec §4.1).
func Take(src array.Array, indices []int) (array.Array, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= src.Len() {
			return nil, colvexerr.New(colvexerr.InvalidInput, "take: index %d out of range for len %d", idx, src.Len())
		}
	}
	return takeFn.InvokeArray(Args{Inputs: []array.Array{src}, Scalar: indices})
}

func takeFallback(args Args) (any, bool, error) {
	src := args.Inputs[0]
	indices := args.Scalar.([]int)
	out, err := takeScalars(src, indices)
	return out, true, err
}

func takeScalars(src array.Array, indices []int) (array.Array, error) {
	scalars := make([]scalar.Scalar, len(indices))
	for i, idx := range indices {
		s, err := src.ScalarAt(idx)
		if err != nil {
			return nil, err
		}
		scalars[i] = s
	}
	return array.FromScalars(src.DType(), scalars)
}
