package constcodec

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func init() {
	compute.RegisterTakeKernel(takeKernel)
	compute.RegisterFilterKernel(filterKernel)
	compute.RegisterSearchSortedKernel(searchSortedKernel)
	compute.RegisterCompareKernel(compareKernel)
}

// takeKernel gathers from a constant array without touching a single
// index: the result is just as many copies of the same value
// (compute.rs's TakeFn::take).
func takeKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	indices, ok := args.Scalar.([]int)
	if !ok {
		return nil, false, nil
	}
	return New(src.value, len(indices)), true, nil
}

// filterKernel recounts the selection instead of resolving it into row
// indices first (compute.rs's FilterFn::filter via predicate.true_count).
func filterKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	sel, ok := args.Scalar.(mask.Mask)
	if !ok {
		return nil, false, nil
	}
	return New(src.value, sel.TrueCount()), true, nil
}

// searchSortedKernel degenerates a search over a (trivially sorted)
// constant array to a three-way comparison against the single repeated
// value (compute.rs's SearchSortedFn::search_sorted).
func searchSortedKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	sa, ok := args.Scalar.(compute.SearchSortedArgs)
	if !ok {
		return nil, false, nil
	}
	cmp, err := scalar.Compare(src.value, sa.Value)
	if err != nil {
		// Kinds that partial_cmp can't order at all fall back to treating
		// the constant as less than the probe, matching
		// partial_cmp().unwrap_or(Ordering::Less).
		cmp = -1
	}
	switch {
	case cmp > 0:
		return compute.SearchResult{Kind: compute.ResultNotFound, Index: 0}, true, nil
	case cmp < 0:
		return compute.SearchResult{Kind: compute.ResultNotFound, Index: src.len}, true, nil
	default:
		if sa.Side == compute.SideLeft {
			return compute.SearchResult{Kind: compute.ResultFound, Index: 0}, true, nil
		}
		return compute.SearchResult{Kind: compute.ResultFound, Index: src.len}, true, nil
	}
}

// compareKernel implements MaybeCompareFn: a constant lhs compared
// against any rhs that is itself constant (directly, or per
// Stat::IsConstant) collapses to a single comparison, broadcast back out
// as a constant boolean array.
func compareKernel(args compute.Args) (any, bool, error) {
	lhs, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	rhs := args.Inputs[1]
	rhsValue, ok := AsConstant(rhs)
	if !ok {
		return nil, false, nil
	}
	if lhs.value.IsNull() || rhsValue.IsNull() {
		return New(scalar.Null(scalar.Bool(true)), lhs.len), true, nil
	}
	cmp, err := scalar.Compare(lhs.value, rhsValue)
	if err != nil {
		return nil, true, err
	}
	var b bool
	switch args.Op {
	case compute.OpEq:
		b = cmp == 0
	case compute.OpNotEq:
		b = cmp != 0
	case compute.OpGt:
		b = cmp > 0
	case compute.OpGte:
		b = cmp >= 0
	case compute.OpLt:
		b = cmp < 0
	case compute.OpLte:
		b = cmp <= 0
	}
	boolScalar, err := scalar.New(scalar.Bool(true), scalar.BoolValue(b))
	if err != nil {
		return nil, true, err
	}
	return New(boolScalar, lhs.len), true, nil
}
