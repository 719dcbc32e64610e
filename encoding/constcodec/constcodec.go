// Package constcodec implements colvex's constant encoding (spec §2.5):
// a single scalar repeated len times, with no storage array at all.
// Grounded on vortex-array/src/array/constant/compute.rs: ScalarAt, Take
// and Slice are all O(1), Filter just recounts the selection, and
// SearchSorted degenerates to a three-way comparison against the one
// repeated value.
package constcodec

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Array is len copies of value.
type Array struct {
	value scalar.Scalar
	len   int
}

// New builds a constant array of len copies of value.
func New(value scalar.Scalar, len int) *Array {
	return &Array{value: value, len: len}
}

func (a *Array) Len() int                   { return a.len }
func (a *Array) DType() scalar.DType        { return a.value.DType() }
func (a *Array) Encoding() array.EncodingID { return array.EncodingID("colvex.constant") }

func (a *Array) ScalarValue() scalar.Scalar { return a.value }

func (a *Array) ScalarAt(i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.len {
		return scalar.Scalar{}, colvexerr.New(colvexerr.InvalidInput, "constant: index %d out of range for len %d", i, a.len)
	}
	return a.value, nil
}

func (a *Array) Slice(start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.len {
		return nil, colvexerr.New(colvexerr.InvalidInput, "constant: slice [%d,%d) out of range for len %d", start, stop, a.len)
	}
	return New(a.value, stop-start), nil
}

func (a *Array) ToCanonical() (array.Array, error) {
	scalars := make([]scalar.Scalar, a.len)
	for i := range scalars {
		scalars[i] = a.value
	}
	return array.FromScalars(a.DType(), scalars)
}

func (a *Array) ValidityMask() mask.Mask {
	if a.value.IsNull() {
		return mask.FromBools(make([]bool, a.len))
	}
	bools := make([]bool, a.len)
	for i := range bools {
		bools[i] = true
	}
	return mask.FromBools(bools)
}

// Statistics reports this array's fixed statistics directly: min, max and
// IsSorted all follow immediately from being a single repeated value,
// without needing a lazily computed pass (array.rs's ConstantArray stats
// provider answers every query from the scalar itself).
func (a *Array) Statistics() *array.Statistics {
	stats := array.NewStatistics()
	stats.SetFlag(array.StatIsConstant, true)
	stats.SetFlag(array.StatIsSorted, true)
	stats.SetFlag(array.StatIsStrictSorted, a.len <= 1)
	if a.value.IsNull() {
		stats.SetInt(array.StatNullCount, int64(a.len))
	} else {
		stats.SetInt(array.StatNullCount, 0)
		stats.SetBound(array.StatMin, array.Bound{Value: a.value, Precision: array.Exact})
		stats.SetBound(array.StatMax, array.Bound{Value: a.value, Precision: array.Exact})
		if a.value.DType().Kind() == scalar.KindBool && a.value.Value().AsBool() {
			stats.SetInt(array.StatTrueCount, int64(a.len))
		} else {
			stats.SetInt(array.StatTrueCount, 0)
		}
	}
	return stats
}

// AsConstant reports whether a is (or, via statistics, is known to
// behave as) a constant array, returning its repeated scalar value. This
// mirrors compute.rs's `as_constant()`: true for this encoding directly,
// for any encoding whose Stat::IsConstant is known true (maybe_compare's
// other fallback), and for any single-row array, which trivially holds
// one repeated value regardless of its encoding.
func AsConstant(a array.Array) (scalar.Scalar, bool) {
	if ca, ok := a.(*Array); ok {
		return ca.value, true
	}
	isConst, _ := a.Statistics().Flag(array.StatIsConstant)
	if (isConst || a.Len() == 1) && a.Len() > 0 {
		s, err := a.ScalarAt(0)
		if err != nil {
			return scalar.Scalar{}, false
		}
		return s, true
	}
	return scalar.Scalar{}, false
}

var _ array.Array = (*Array)(nil)
