package array

import (
	"github.com/colvex/colvex/scalar"
)

// NullArray is the canonical all-null encoding (spec §3.3): every row is
// null, with no backing storage beyond a length.
type NullArray struct {
	baseArray
}

func NewNull(n int) *NullArray {
	return &NullArray{baseArray: newBase(scalar.Null(), AllInvalid(n))}
}

func (a *NullArray) Encoding() EncodingID { return EncodingNull }

func (a *NullArray) ScalarAt(i int) (scalar.Scalar, error) {
	return scalar.Null(a.dtype), nil
}

func (a *NullArray) Slice(start, stop int) (Array, error) {
	return NewNull(stop - start), nil
}

func (a *NullArray) ToCanonical() (Array, error) { return a, nil }

var _ Array = (*NullArray)(nil)
