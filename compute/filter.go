package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
)

var filterFn = register("filter", filterFallback)

// RegisterFilterKernel adds an encoding-specific filter kernel.
func RegisterFilterKernel(k KernelFunc) { filterFn.Register(k) }

// Filter selects the rows where sel is true, producing a (shorter) array
// of the same DType (spec §4.1). Dispatches to Take under the hood once
// the selection is resolved to row indices, since every encoding that can
// implement an efficient take gets an efficient filter for free.
func Filter(src array.Array, sel mask.Mask) (array.Array, error) {
	if src.Len() != sel.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "filter: selection length %d != array length %d", sel.Len(), src.Len())
	}
	if sel.IsAllTrue() {
		return src, nil
	}
	if sel.IsAllFalse() {
		return Take(src, nil)
	}

	return filterFn.InvokeArray(Args{Inputs: []array.Array{src}, Scalar: sel})
}

func filterFallback(args Args) (any, bool, error) {
	src := args.Inputs[0]
	sel := args.Scalar.(mask.Mask)
	out, err := Take(src, sel.Indices())
	return out, true, err
}
