package forcodec

import (
	"math/bits"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/scalar"
)

// From builds a frame-of-reference array from logical values: reference
// is their minimum, shift is the number of trailing zero bits common to
// every (value - reference) magnitude, chosen so every value round-trips
// exactly through encode/decode.
func From(ptype scalar.PType, values []int64, validity array.Validity) (*Array, error) {
	if len(values) == 0 {
		encoded, err := array.NewPrimitiveFromInt64(ptype, nil, validity)
		if err != nil {
			return nil, err
		}
		return New(ptype, 0, 0, encoded)
	}

	width := ptype.BitWidth()
	var reference int64
	haveReference := false
	for i, v := range values {
		if !validity.IsValid(i) {
			continue
		}
		if !haveReference || v < reference {
			reference = v
			haveReference = true
		}
	}

	shift := uint8(width - 1)
	for i, v := range values {
		if !validity.IsValid(i) {
			continue
		}
		magnitude := truncateToWidth(v-reference, width)
		if magnitude == 0 {
			continue
		}
		tz := uint8(bits.TrailingZeros64(uint64(magnitude)))
		if tz < shift {
			shift = tz
		}
	}

	encodedValues := make([]int64, len(values))
	for i, v := range values {
		if !validity.IsValid(i) {
			continue
		}
		magnitude := truncateToWidth(v-reference, width)
		encodedValues[i] = wrappingShr(magnitude, shift, width)
	}

	encoded, err := array.NewPrimitiveFromInt64(ptype, encodedValues, validity)
	if err != nil {
		return nil, err
	}
	return New(ptype, reference, shift, encoded)
}
