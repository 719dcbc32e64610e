package array

import (
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// BoolArray is the canonical boolean encoding (spec §3.3), storing values
// as a mask.Mask (itself a three-state/bitset boolean vector) alongside a
// parallel validity mask.
type BoolArray struct {
	baseArray
	values mask.Mask
}

func NewBool(values mask.Mask, validity Validity) (*BoolArray, error) {
	if values.Len() != validity.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "bool array: values len %d != validity len %d", values.Len(), validity.Len())
	}
	return &BoolArray{baseArray: newBase(scalar.Bool(validity.Nullable()), validity), values: values}, nil
}

func (a *BoolArray) Encoding() EncodingID { return EncodingBool }

func (a *BoolArray) ScalarAt(i int) (scalar.Scalar, error) {
	if !a.validity.IsValid(i) {
		return scalar.Null(a.dtype), nil
	}
	return scalar.New(a.dtype, scalar.BoolValue(a.values.Value(i)))
}

func (a *BoolArray) Slice(start, stop int) (Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "bool array: slice [%d,%d) out of range for len %d", start, stop, a.Len())
	}
	return &BoolArray{
		baseArray: newBase(a.dtype, a.validity.Slice(start, stop)),
		values:    a.values.Slice(start, stop),
	}, nil
}

func (a *BoolArray) ToCanonical() (Array, error) { return a, nil }

func (a *BoolArray) Values() mask.Mask { return a.values }

var _ Array = (*BoolArray)(nil)
