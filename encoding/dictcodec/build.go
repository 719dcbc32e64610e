package dictcodec

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Encode builds a dictionary array from src: one codes entry per row
// (null rows get a null code), one values entry per distinct valid
// value, in first-occurrence order. Codes are packed at the narrowest
// unsigned width that fits the distinct count, the same width-selection
// a BtrBlocks-style compressor would make when choosing between u8/u16/
// u32 codes based on the sample's distinct count (spec §4.9's
// count_distinct_values input).
func Encode(src array.Array) (*Array, error) {
	n := src.Len()
	seen := make(map[string]int)
	var distinct []scalar.Scalar
	codes := make([]int64, n)
	valid := make([]bool, n)

	for i := 0; i < n; i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		key := s.String()
		idx, ok := seen[key]
		if !ok {
			idx = len(distinct)
			seen[key] = idx
			distinct = append(distinct, s)
		}
		codes[i] = int64(idx)
		valid[i] = true
	}

	codesPType := codesWidth(len(distinct))
	codesValidity := array.NonNullable(n)
	if src.DType().IsNullable() {
		codesValidity = array.FromMask(mask.FromBools(valid))
	}
	codesArr, err := array.NewPrimitiveFromInt64(codesPType, codes, codesValidity)
	if err != nil {
		return nil, err
	}

	valuesArr, err := array.FromScalars(src.DType().AsNonNullable(), distinct)
	if err != nil {
		return nil, err
	}

	return New(codesArr, valuesArr)
}

func codesWidth(distinctCount int) scalar.PType {
	switch {
	case distinctCount <= 1<<8:
		return scalar.U8
	case distinctCount <= 1<<16:
		return scalar.U16
	default:
		return scalar.U32
	}
}
