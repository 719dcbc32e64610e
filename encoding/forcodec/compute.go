package forcodec

import (
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func init() {
	compute.RegisterTakeKernel(takeKernel)
	compute.RegisterFilterKernel(filterKernel)
	compute.RegisterSearchSortedKernel(searchSortedKernel)
}

// takeKernel delegates to the inner encoded array and re-wraps the result
// with the same reference/shift, matching for/compute.rs's TakeFn (take
// the encoded child, keep reference_scalar/shift as-is).
func takeKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	indices, ok := args.Scalar.([]int)
	if !ok {
		return nil, false, nil
	}
	taken, err := compute.Take(src.encoded, indices)
	if err != nil {
		return nil, true, err
	}
	out, err := New(src.ptype, src.reference, src.shift, taken)
	return out, true, err
}

// filterKernel mirrors takeKernel for row-mask selection (for/compute.rs's
// FilterFn).
func filterKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	sel, ok := args.Scalar.(mask.Mask)
	if !ok {
		return nil, false, nil
	}
	filtered, err := compute.Filter(src.encoded, sel)
	if err != nil {
		return nil, true, err
	}
	out, err := New(src.ptype, src.reference, src.shift, filtered)
	return out, true, err
}

// searchSortedKernel translates the probe into the compressed space
// (spec §4.5): subtract the reference and right-shift by shift, using
// wrapping arithmetic. A probe smaller than reference is immediately
// NotFound(0). If the shift is lossy for this probe (the round trip
// through encode/decode doesn't reproduce it), the probe isn't
// representable in the compressed domain: search for the next
// representable value on the Left side instead, and report the result
// as NotFound regardless of what the inner search returns.
func searchSortedKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	sa, ok := args.Scalar.(compute.SearchSortedArgs)
	if !ok {
		return nil, false, nil
	}
	if sa.Value.IsNull() {
		return nil, false, nil
	}

	width := src.ptype.BitWidth()
	probe := sa.Value.Value().AsPValue().AsI64()
	if probe < src.reference {
		return compute.SearchResult{Kind: compute.ResultNotFound, Index: 0}, true, nil
	}

	encodedValue := wrappingShr(truncateToWidth(probe-src.reference, width), src.shift, width)
	decodedValue := src.decode(encodedValue)
	representable := decodedValue == probe

	side := sa.Side
	target := encodedValue
	if !representable {
		side = compute.SideLeft
		target = truncateToWidth(encodedValue+1, width)
	}

	targetScalar, err := scalar.New(scalar.Primitive(src.ptype, sa.Value.DType().IsNullable()), scalar.PrimitiveValue(scalar.PValueFromI64(src.ptype, target)))
	if err != nil {
		return nil, true, err
	}

	res, err := compute.SearchSorted(src.encoded, targetScalar, side)
	if err != nil {
		return nil, true, err
	}
	if representable && res.Kind == compute.ResultFound {
		return res, true, nil
	}
	return compute.SearchResult{Kind: compute.ResultNotFound, Index: res.Index}, true, nil
}

func wrappingShr(v int64, shift uint8, width int) int64 {
	if shift == 0 {
		return v
	}
	if int(shift) >= width {
		return 0
	}
	// Values in this encoding are always non-negative magnitudes
	// (post-reference-subtraction), so a logical right shift suffices.
	return int64(uint64(v) >> shift)
}
