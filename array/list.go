package array

import (
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// ListArray is the canonical nested-list encoding (spec §3.3): an int32
// offsets slice (len+1 entries) over a single shared elements array, plus
// validity. Grounded on arrays/list/mod.rs's {offsets, elements,
// validity} layout.
type ListArray struct {
	baseArray
	offsets  []int32
	elements Array
}

func NewList(dtype scalar.DType, offsets []int32, elements Array, validity Validity) (*ListArray, error) {
	if len(offsets) != validity.Len()+1 {
		return nil, colvexerr.New(colvexerr.InvalidInput, "list array: offsets len %d != validity len %d + 1", len(offsets), validity.Len())
	}
	if int(offsets[len(offsets)-1]) > elements.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "list array: final offset %d exceeds elements len %d", offsets[len(offsets)-1], elements.Len())
	}
	return &ListArray{baseArray: newBase(dtype, validity), offsets: offsets, elements: elements}, nil
}

func (a *ListArray) Encoding() EncodingID { return EncodingList }

func (a *ListArray) Elements() Array { return a.elements }

// Offsets returns the raw offsets slice (len()+1 entries) delimiting each
// row's span over Elements().
func (a *ListArray) Offsets() []int32 { return a.offsets }

func (a *ListArray) ScalarAt(i int) (scalar.Scalar, error) {
	if !a.validity.IsValid(i) {
		return scalar.Null(a.dtype), nil
	}
	start, stop := a.offsets[i], a.offsets[i+1]
	items := make([]scalar.Value, 0, stop-start)
	for j := start; j < stop; j++ {
		s, err := a.elements.ScalarAt(int(j))
		if err != nil {
			return scalar.Scalar{}, err
		}
		items = append(items, s.Value())
	}
	return scalar.New(a.dtype, scalar.ListValue(items))
}

func (a *ListArray) Slice(start, stop int) (Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "list array: slice [%d,%d) out of range for len %d", start, stop, a.Len())
	}
	newOffsets := make([]int32, stop-start+1)
	copy(newOffsets, a.offsets[start:stop+1])
	return &ListArray{
		baseArray: newBase(a.dtype, a.validity.Slice(start, stop)),
		offsets:   newOffsets,
		elements:  a.elements,
	}, nil
}

func (a *ListArray) ToCanonical() (Array, error) { return a, nil }

var _ Array = (*ListArray)(nil)
