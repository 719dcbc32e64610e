package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
)

// boolMaskOf canonicalizes a into a boolean mask, treating nulls as false
// (spec §6.2: "with_filter(expr): optional boolean expression; nullable
// booleans treated as false").
func boolMaskOf(a array.Array) (mask.Mask, error) {
	canon, err := a.ToCanonical()
	if err != nil {
		return mask.Mask{}, err
	}
	b, ok := canon.(*array.BoolArray)
	if !ok {
		return mask.Mask{}, colvexerr.New(colvexerr.MismatchedTypes, "expected bool array, got %T", canon)
	}
	return mask.BitAnd(b.Values(), b.ValidityMask()), nil
}

// intersectByRank combines a selection mask (outer) with a mask computed
// only over outer's selected rows (sub, whose length equals
// outer.TrueCount()), producing a mask over outer's full length that is
// true only where outer was true and the corresponding ranked entry of
// sub is true. Grounded on vortex_mask's Mask::intersect_by_rank, used by
// the flat layer's sparse filter path (spec §4.12).
func intersectByRank(outer, sub mask.Mask) mask.Mask {
	if outer.TrueCount() != sub.Len() {
		panic("layout: intersectByRank length mismatch")
	}
	vals := make([]bool, outer.Len())
	rank := 0
	for i := 0; i < outer.Len(); i++ {
		if !outer.Value(i) {
			continue
		}
		vals[i] = sub.Value(rank)
		rank++
	}
	return mask.FromBools(vals)
}
