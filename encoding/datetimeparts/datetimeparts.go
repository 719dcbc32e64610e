// Package datetimeparts implements colvex's date-time-parts codec (spec
// §4.7), grounded on encodings/datetime-parts/src/compute/compare.rs
// (the only surviving source from this crate): a Timestamp column is
// stored as three component arrays — days (i32), seconds within the day
// (u32), and subseconds within the second in the column's own TimeUnit
// (i64) — so that most comparisons against a constant timestamp can be
// decided by comparing days alone, without ever materializing the full
// timestamp.
package datetimeparts

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Array is a Timestamp column split into its three parts. Validity is
// carried entirely by Days(); Seconds() and Subseconds() are always
// non-nullable (their value at a null row is never read).
type Array struct {
	dtype      scalar.DType
	days       array.Array
	seconds    array.Array
	subseconds array.Array
}

// New builds a date-time-parts array from its three component arrays.
// dtype must be a Timestamp extension DType (array.rs's try_new).
func New(dtype scalar.DType, days, seconds, subseconds array.Array) (*Array, error) {
	if dtype.Kind() != scalar.KindExtension || dtype.ExtensionID() != scalar.ExtTimestamp {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "datetimeparts: dtype must be a Timestamp extension, got %s", dtype)
	}
	if days.DType().PType() != scalar.I32 {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "datetimeparts: days must be i32, got %s", days.DType())
	}
	if seconds.DType().PType() != scalar.U32 {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "datetimeparts: seconds must be u32, got %s", seconds.DType())
	}
	if subseconds.DType().PType() != scalar.I64 {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "datetimeparts: subseconds must be i64, got %s", subseconds.DType())
	}
	if days.Len() != seconds.Len() || days.Len() != subseconds.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "datetimeparts: component length mismatch %d/%d/%d", days.Len(), seconds.Len(), subseconds.Len())
	}
	return &Array{dtype: dtype, days: days, seconds: seconds, subseconds: subseconds}, nil
}

func (a *Array) Len() int                      { return a.days.Len() }
func (a *Array) DType() scalar.DType            { return a.dtype }
func (a *Array) Encoding() array.EncodingID     { return array.EncodingID("colvex.datetimeparts") }
func (a *Array) Statistics() *array.Statistics  { return array.NewStatistics() }
func (a *Array) ValidityMask() mask.Mask        { return a.days.ValidityMask() }

func (a *Array) Days() array.Array       { return a.days }
func (a *Array) Seconds() array.Array    { return a.seconds }
func (a *Array) Subseconds() array.Array { return a.subseconds }

// Metadata decodes this array's TemporalMetadata from its dtype.
func (a *Array) Metadata() TemporalMetadata {
	return DecodeTemporalMetadata(a.dtype.ExtensionMetadata())
}

func (a *Array) ScalarAt(i int) (scalar.Scalar, error) {
	d, err := a.days.ScalarAt(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if d.IsNull() {
		return scalar.Null(a.dtype), nil
	}
	s, err := a.seconds.ScalarAt(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	ss, err := a.subseconds.ScalarAt(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	parts := TimestampParts{
		Days:       d.Value().AsPValue().AsI64(),
		Seconds:    int64(s.Value().AsPValue().AsU64()),
		Subseconds: ss.Value().AsPValue().AsI64(),
	}
	ts := Combine(parts, a.Metadata().Unit)
	return scalar.New(a.dtype, scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I64, ts)))
}

func (a *Array) Slice(start, stop int) (array.Array, error) {
	days, err := a.days.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	seconds, err := a.seconds.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	subseconds, err := a.subseconds.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return New(a.dtype, days, seconds, subseconds)
}

func (a *Array) ToCanonical() (array.Array, error) {
	n := a.Len()
	vals := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		valid[i] = true
		vals[i] = s.Value().AsPValue().AsI64()
	}
	validity := array.NonNullable(n)
	if a.dtype.IsNullable() {
		validity = array.FromMask(mask.FromBools(valid))
	}
	storage, err := array.NewPrimitiveFromInt64(scalar.I64, vals, validity)
	if err != nil {
		return nil, err
	}
	return array.NewExtension(a.dtype, storage), nil
}

var _ array.Array = (*Array)(nil)
