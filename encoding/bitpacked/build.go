package bitpacked

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/buffer"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// From packs values at bitWidth bits each, starting at block offset 0, with
// exceptions collected into a sparse patches side-array wherever a value's
// two's complement representation doesn't fit in bitWidth bits (spec
// §4.6).
func From(ptype scalar.PType, values []int64, bitWidth uint8, validity array.Validity) (*Array, error) {
	if !ptype.IsUnsignedInt() && !ptype.IsSignedInt() {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "bitpacked: unsupported ptype %s", ptype)
	}
	if bitWidth > 64 {
		return nil, colvexerr.New(colvexerr.InvalidInput, "bitpacked: unsupported bit width %d", bitWidth)
	}

	size := packedByteSize(len(values), 0, int(bitWidth))
	raw := make([]byte, size)

	mask := uint64(1)<<bitWidth - 1
	if bitWidth == 64 {
		mask = ^uint64(0)
	}

	signed := ptype.IsSignedInt()
	var patchIdx []int
	var patchVals []int64
	for i, v := range values {
		fits := false
		if signed {
			// Fits iff truncating to bitWidth bits and sign-extending back
			// reproduces v exactly (spec §4.6: patches hold whatever
			// doesn't fit the packed width, not a value range per se).
			fits = bitWidth >= 64 || signExtendTo(uint64(v)&mask, int(bitWidth)) == v
		} else {
			fits = uint64(v) <= mask
		}

		u := uint64(v) & mask
		if !fits {
			patchIdx = append(patchIdx, i)
			patchVals = append(patchVals, v)
		}
		packBits(raw, i, int(bitWidth), u)
	}

	var patches *array.PrimitiveArray
	if len(patchVals) > 0 {
		var err error
		patches, err = array.NewPrimitiveFromInt64(ptype, patchVals, array.NonNullable(len(patchVals)))
		if err != nil {
			return nil, err
		}
	}

	return &Array{
		ptype: ptype, bitWidth: bitWidth, offset: 0, length: len(values),
		packed: buffer.NewByteBuffer(raw), validity: validity,
		patches: patches, patchIdx: patchIdx,
	}, nil
}
