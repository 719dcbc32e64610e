package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/scalar"
)

// SearchSortedSide selects which insertion point binary search returns
// for a run of equal values (grounded on
// encodings/fastlanes/.../search_sorted.rs's SearchSortedSide).
type SearchSortedSide int

const (
	SideLeft SearchSortedSide = iota
	SideRight
)

// SearchResultKind distinguishes an exact match from an insertion point.
type SearchResultKind int

const (
	ResultFound SearchResultKind = iota
	ResultNotFound
)

// SearchResult is the outcome of SearchSorted: either Found(index) or
// NotFound(insertion point).
type SearchResult struct {
	Kind  SearchResultKind
	Index int
}

// SearchSortedArgs is the Args.Scalar payload search_sorted kernels
// receive: the probe value and which side of a run of equal values to
// resolve to.
type SearchSortedArgs struct {
	Value scalar.Scalar
	Side  SearchSortedSide
}

var searchSortedFn = register("search_sorted", searchSortedFallback)

// RegisterSearchSortedKernel adds an encoding-specific search_sorted
// kernel (e.g. encoding/bitpacked's and encoding/forcodec's representable
// vs. non-representable probe handling).
func RegisterSearchSortedKernel(k KernelFunc) { searchSortedFn.Register(k) }

// SearchSorted assumes src is sorted ascending and returns value's
// position (spec §4.1).
func SearchSorted(src array.Array, value scalar.Scalar, side SearchSortedSide) (SearchResult, error) {
	out, err := searchSortedFn.Invoke(Args{Inputs: []array.Array{src}, Scalar: SearchSortedArgs{value, side}})
	if err != nil {
		return SearchResult{}, err
	}
	return out.(SearchResult), nil
}

func searchSortedFallback(args Args) (any, bool, error) {
	src := args.Inputs[0]
	sa := args.Scalar.(SearchSortedArgs)
	res, err := searchSortedLinear(src, sa.Value, sa.Side)
	return res, true, err
}

func searchSortedLinear(src array.Array, value scalar.Scalar, side SearchSortedSide) (SearchResult, error) {
	lo, hi := 0, src.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		s, err := src.ScalarAt(mid)
		if err != nil {
			return SearchResult{}, err
		}
		cmp, err := scalar.Compare(s, value)
		if err != nil {
			return SearchResult{}, err
		}
		var less bool
		if side == SideLeft {
			less = cmp < 0
		} else {
			less = cmp <= 0
		}
		if less {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	found := lo
	if side == SideRight {
		found = lo - 1
	}
	if found >= 0 && found < src.Len() {
		s, err := src.ScalarAt(found)
		if err != nil {
			return SearchResult{}, err
		}
		cmp, err := scalar.Compare(s, value)
		if err == nil && cmp == 0 {
			return SearchResult{Kind: ResultFound, Index: lo}, nil
		}
	}
	return SearchResult{Kind: ResultNotFound, Index: lo}, nil
}

// SearchSortedMany runs SearchSorted for every value in values, the way
// spec §4.1 batches multiple probes against one sorted array.
func SearchSortedMany(src array.Array, values []scalar.Scalar, side SearchSortedSide) ([]SearchResult, error) {
	out := make([]SearchResult, len(values))
	for i, v := range values {
		r, err := SearchSorted(src, v, side)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
