package bitpacked

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

func (a *Array) ScalarAt(i int) (scalar.Scalar, error) {
	if !a.validity.IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	dtype := a.DType()
	v := a.logicalValueAt(i)
	var pv scalar.PValue
	if a.ptype.IsSignedInt() {
		pv = scalar.PValueFromI64(a.ptype, v)
	} else {
		pv = scalar.PValueFromU64(a.ptype, uint64(v))
	}
	return scalar.New(dtype, scalar.PrimitiveValue(pv))
}

// Slice is zero-copy: it re-slices the packed buffer to begin at the block
// holding row start and sets the offset into that block, per spec §4.6's
// offset-based slicing.
func (a *Array) Slice(start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "bitpacked: slice [%d,%d) out of range for len %d", start, stop, a.Len())
	}
	pos := int(a.offset) + start
	newOffset := pos % BlockSize
	skip := (pos / BlockSize) * (BlockSize * int(a.bitWidth) / 8)
	packed, err := a.packed.Slice(skip, skip+packedByteSize(stop-start, newOffset, int(a.bitWidth)))
	if err != nil {
		return nil, err
	}

	var newPatches *array.PrimitiveArray
	var newPatchIdx []int
	if a.patches != nil {
		var newPatchVals []int64
		for pi, row := range a.patchIdx {
			if row >= start && row < stop {
				raw := a.patches.RawAt(pi)
				v := int64(raw)
				if a.ptype.IsSignedInt() {
					v = signExtendTo(raw, a.ptype.BitWidth())
				}
				newPatchIdx = append(newPatchIdx, row-start)
				newPatchVals = append(newPatchVals, v)
			}
		}
		if len(newPatchVals) > 0 {
			var err error
			newPatches, err = array.NewPrimitiveFromInt64(a.ptype, newPatchVals, array.NonNullable(len(newPatchVals)))
			if err != nil {
				return nil, err
			}
		}
	}

	return &Array{
		ptype: a.ptype, bitWidth: a.bitWidth, offset: uint16(newOffset),
		length: stop - start, packed: packed, validity: a.validity.Slice(start, stop),
		patches: newPatches, patchIdx: newPatchIdx,
	}, nil
}

func (a *Array) ToCanonical() (array.Array, error) {
	return array.NewPrimitiveFromInt64(a.ptype, a.toInt64Slice(), a.validity)
}

func (a *Array) toInt64Slice() []int64 {
	out := make([]int64, a.Len())
	for i := 0; i < a.Len(); i++ {
		out[i] = a.logicalValueAt(i)
	}
	return out
}

var _ array.Array = (*Array)(nil)

func init() {
	compute.RegisterTakeKernel(takeKernel)
	compute.RegisterSearchSortedKernel(searchSortedKernel)
}

// takeKernel implements spec §4.6's UNPACK_CHUNK_THRESHOLD heuristic: once
// gathering one index at a time would cost more than unpacking the whole
// array once, canonicalize first and delegate (grounded on
// bitpacking/compute/take.rs's UNPACK_CHUNK_THRESHOLD=8 check).
func takeKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	indices, ok := args.Scalar.([]int)
	if !ok {
		return nil, false, nil
	}

	if len(indices)*UnpackChunkThreshold > src.Len() {
		canon, err := src.ToCanonical()
		if err != nil {
			return nil, true, err
		}
		out, err := compute.Take(canon, indices)
		return out, true, err
	}

	out := make([]int64, len(indices))
	valid := make([]bool, len(indices))
	for i, idx := range indices {
		out[i] = src.logicalValueAt(idx)
		valid[i] = src.validity.IsValid(idx)
	}

	validity := array.NonNullable(len(valid))
	if src.validity.Nullable() {
		validity = array.FromMask(mask.FromBools(valid))
	}
	result, err := array.NewPrimitiveFromInt64(src.ptype, out, validity)
	return result, true, err
}

// searchSortedKernel resolves the probe against the packed values directly
// without allocating a canonical copy (grounded on
// bitpacking/compute/search_sorted.rs). Raw packed magnitudes only sort
// the same way as the logical values for unsigned, patch-free arrays;
// signed ptypes and arrays with patches fall through to the generic
// ScalarAt-based binary search instead.
func searchSortedKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	if src.ptype.IsSignedInt() || src.HasPatches() {
		return nil, false, nil
	}
	sa, ok := args.Scalar.(compute.SearchSortedArgs)
	if !ok {
		return nil, false, nil
	}
	if sa.Value.IsNull() {
		return nil, false, nil
	}
	needle := sa.Value.Value().AsPValue().AsU64()

	lo, hi := 0, src.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		v := src.unpackAt(mid)
		var less bool
		if sa.Side == compute.SideLeft {
			less = v < needle
		} else {
			less = v <= needle
		}
		if less {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	found := lo
	if sa.Side == compute.SideRight {
		found = lo - 1
	}
	if found >= 0 && found < src.Len() && src.unpackAt(found) == needle {
		return compute.SearchResult{Kind: compute.ResultFound, Index: lo}, true, nil
	}
	return compute.SearchResult{Kind: compute.ResultNotFound, Index: lo}, true, nil
}
