// Package dictcodec implements colvex's dictionary encoding (spec §2.5):
// a small array of distinct values plus a (typically much larger) array
// of unsigned integer codes, one per row, indexing into it. No source
// for this crate survived retrieval (only its name is named in §2.5), so
// the shape here follows the same codes/values convention every
// dictionary-encoded columnar format (Arrow's DictionaryArray included)
// uses, and borrows this module's own sibling encodings'
// (encoding/runend, encoding/forcodec) conventions for structure and
// kernel registration style.
package dictcodec

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Array is codes.Len() logical rows, each row's value being
// values.ScalarAt(codes[i]). Validity lives entirely on codes: a null
// code means a null row, and values holds only valid, distinct entries.
type Array struct {
	dtype  scalar.DType
	codes  array.Array // unsigned integer
	values array.Array
}

// New builds a dictionary array from a codes/values pair.
func New(codes, values array.Array) (*Array, error) {
	if !codes.DType().PType().IsUnsignedInt() {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "dictcodec: codes must be an unsigned integer array, got %s", codes.DType())
	}
	dtype := values.DType()
	if codes.DType().IsNullable() {
		dtype = dtype.AsNullable()
	}
	return &Array{dtype: dtype, codes: codes, values: values}, nil
}

func (a *Array) Len() int                      { return a.codes.Len() }
func (a *Array) DType() scalar.DType            { return a.dtype }
func (a *Array) Encoding() array.EncodingID     { return array.EncodingID("colvex.dict") }
func (a *Array) Statistics() *array.Statistics  { return array.NewStatistics() }
func (a *Array) ValidityMask() mask.Mask        { return a.codes.ValidityMask() }

func (a *Array) Codes() array.Array  { return a.codes }
func (a *Array) Values() array.Array { return a.values }

func (a *Array) codeAt(i int) (int, bool, error) {
	c, err := a.codes.ScalarAt(i)
	if err != nil {
		return 0, false, err
	}
	if c.IsNull() {
		return 0, false, nil
	}
	return int(c.Value().AsPValue().AsU64()), true, nil
}

func (a *Array) ScalarAt(i int) (scalar.Scalar, error) {
	idx, valid, err := a.codeAt(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if !valid {
		return scalar.Null(a.dtype), nil
	}
	v, err := a.values.ScalarAt(idx)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.New(a.dtype, v.Value())
}

func (a *Array) Slice(start, stop int) (array.Array, error) {
	sliced, err := a.codes.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return New(sliced, a.values)
}

func (a *Array) ToCanonical() (array.Array, error) {
	n := a.Len()
	scalars := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		scalars[i] = s
	}
	return array.FromScalars(a.dtype, scalars)
}

var _ array.Array = (*Array)(nil)
