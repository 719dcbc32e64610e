// Package forcodec implements colvex's frame-of-reference integer codec
// (spec §4.5), grounded on encodings/fastlanes/src/for/compute.rs: a
// column of integers with a common minimum ("reference") and a common
// trailing-zero-bit count ("shift") is stored as
// `(value - reference) >> shift` per element, wrapping in the array's
// ptype. Decoding reverses this: `(encoded[i] << shift) + reference`,
// also wrapping.
package forcodec

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Array is the frame-of-reference encoding: an inner, typically
// bit-packed or primitive, encoded array of shifted-and-subtracted
// magnitudes, plus the reference value and shift that recover the
// original values.
type Array struct {
	ptype     scalar.PType
	reference int64
	shift     uint8
	encoded   array.Array
}

// New wraps encoded (any integer array of the same ptype) with the
// reference and shift that recover logical values via
// `(encoded[i] << shift) + reference`.
func New(ptype scalar.PType, reference int64, shift uint8, encoded array.Array) (*Array, error) {
	if !ptype.IsInteger() {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "forcodec: ptype must be an integer type, got %s", ptype)
	}
	if encoded.DType().PType() != ptype {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "forcodec: encoded ptype %s does not match %s", encoded.DType().PType(), ptype)
	}
	return &Array{ptype: ptype, reference: reference, shift: shift, encoded: encoded}, nil
}

func (a *Array) Len() int                      { return a.encoded.Len() }
func (a *Array) DType() scalar.DType           { return a.encoded.DType() }
func (a *Array) Encoding() array.EncodingID    { return array.EncodingID("colvex.for") }
func (a *Array) ValidityMask() mask.Mask       { return a.encoded.ValidityMask() }
func (a *Array) Statistics() *array.Statistics { return array.NewStatistics() }

func (a *Array) Reference() int64      { return a.reference }
func (a *Array) Shift() uint8          { return a.shift }
func (a *Array) Encoded() array.Array  { return a.encoded }

// decode applies the wrapping shift-and-add reconstruction to one raw
// encoded magnitude (spec §4.5's "Logical value = (encoded[i] << shift) +
// reference, using wrapping arithmetic in the array's ptype").
func (a *Array) decode(encoded int64) int64 {
	width := a.ptype.BitWidth()
	shifted := wrappingShl(encoded, a.shift, width)
	return wrappingAdd(shifted, a.reference, width)
}

func (a *Array) ScalarAt(i int) (scalar.Scalar, error) {
	es, err := a.encoded.ScalarAt(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if es.IsNull() {
		return scalar.Null(a.DType()), nil
	}
	v := a.decode(es.Value().AsPValue().AsI64())
	pv := scalar.PValueFromI64(a.ptype, v)
	return scalar.New(a.DType(), scalar.PrimitiveValue(pv))
}

func (a *Array) Slice(start, stop int) (array.Array, error) {
	sub, err := a.encoded.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return &Array{ptype: a.ptype, reference: a.reference, shift: a.shift, encoded: sub}, nil
}

func (a *Array) ToCanonical() (array.Array, error) {
	out := make([]int64, a.Len())
	for i := range out {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		out[i] = s.Value().AsPValue().AsI64()
	}
	validity := array.FromMask(a.ValidityMask())
	if !a.DType().IsNullable() {
		validity = array.NonNullable(a.Len())
	}
	return array.NewPrimitiveFromInt64(a.ptype, out, validity)
}

var _ array.Array = (*Array)(nil)

func wrappingShl(v int64, shift uint8, width int) int64 {
	if shift == 0 {
		return v
	}
	if int(shift) >= width {
		return 0
	}
	return truncateToWidth(v<<shift, width)
}

func wrappingAdd(a, b int64, width int) int64 {
	return truncateToWidth(a+b, width)
}

func truncateToWidth(v int64, width int) int64 {
	if width >= 64 {
		return v
	}
	shift := 64 - width
	return (v << shift) >> shift
}
