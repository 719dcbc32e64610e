// Package runend implements colvex's run-end encoding (spec §4.7),
// grounded on encodings/runend/src/array.rs: a column is represented as
// a strictly sorted array of run ends plus one value per run. Logical
// row i falls in run k where ends[k-1] <= i < ends[k]; ScalarAt resolves
// i to its run via a Right-biased binary search over ends.
package runend

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Array is the run-end encoding: ends[k] is the exclusive upper bound
// (relative to offset) of the k-th run, values[k] is that run's value.
type Array struct {
	ends   array.Array // unsigned integer, non-nullable, strictly sorted
	values array.Array // Bool or Primitive
	offset int
	length int
}

// New builds a run-end array from a complete (offset 0) ends/values pair;
// length is taken from the last run end, mirroring try_new's
// scalar_at(ends, ends.len()-1).
func New(ends, values array.Array) (*Array, error) {
	length := 0
	if ends.Len() > 0 {
		s, err := ends.ScalarAt(ends.Len() - 1)
		if err != nil {
			return nil, err
		}
		length = int(s.Value().AsPValue().AsU64())
	}
	return WithOffsetAndLength(ends, values, 0, length)
}

// WithOffsetAndLength builds a run-end array with an explicit offset,
// produced by Slice (spec §4.7's zero-copy offset slicing, grounded on
// array.rs's with_offset_and_length).
func WithOffsetAndLength(ends, values array.Array, offset, length int) (*Array, error) {
	if ends.DType().IsNullable() || !ends.DType().PType().IsUnsignedInt() {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "runend: ends must be a non-nullable unsigned integer array")
	}
	if offset != 0 && ends.Len() > 0 {
		s, err := ends.ScalarAt(0)
		if err != nil {
			return nil, err
		}
		if int(s.Value().AsPValue().AsU64()) <= offset {
			return nil, colvexerr.New(colvexerr.InvalidInput, "runend: first run end must exceed offset %d", offset)
		}
	}
	return &Array{ends: ends, values: values, offset: offset, length: length}, nil
}

func (a *Array) Len() int                      { return a.length }
func (a *Array) DType() scalar.DType           { return a.values.DType() }
func (a *Array) Encoding() array.EncodingID    { return array.EncodingID("colvex.runend") }
func (a *Array) Statistics() *array.Statistics { return array.NewStatistics() }

func (a *Array) Ends() array.Array   { return a.ends }
func (a *Array) Values() array.Array { return a.values }
func (a *Array) Offset() int         { return a.offset }

// FindPhysicalIndex converts a logical row index into the index of the
// run (and so the row of Values()) it belongs to, via a Right-biased
// search over Ends() (array.rs's find_physical_index/to_ends_index): an
// exact match on an end boundary belongs to the following run, since
// ends[k] is exclusive.
func (a *Array) FindPhysicalIndex(i int) (int, error) {
	res, err := compute.SearchSorted(a.ends, scalarU64(a.ends.DType().PType(), uint64(i+a.offset)), compute.SideRight)
	if err != nil {
		return 0, err
	}
	return res.Index, nil
}

func scalarU64(ptype scalar.PType, v uint64) scalar.Scalar {
	s, _ := scalar.New(scalar.Primitive(ptype, false), scalar.PrimitiveValue(scalar.PValueFromU64(ptype, v)))
	return s
}

func (a *Array) ScalarAt(i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.length {
		return scalar.Scalar{}, colvexerr.New(colvexerr.InvalidInput, "runend: index %d out of range for len %d", i, a.length)
	}
	phys, err := a.FindPhysicalIndex(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return a.values.ScalarAt(phys)
}

func (a *Array) ValidityMask() mask.Mask {
	bools := make([]bool, a.length)
	for i := range bools {
		bools[i] = true
	}
	if vm := a.values.ValidityMask(); !vm.IsAllTrue() {
		for i := range bools {
			phys, err := a.FindPhysicalIndex(i)
			if err != nil {
				continue
			}
			bools[i] = vm.Value(phys)
		}
	}
	return mask.FromBools(bools)
}

func (a *Array) Slice(start, stop int) (array.Array, error) {
	if start < 0 || stop < start || stop > a.length {
		return nil, colvexerr.New(colvexerr.InvalidInput, "runend: slice [%d,%d) out of range for len %d", start, stop, a.length)
	}
	return WithOffsetAndLength(a.ends, a.values, a.offset+start, stop-start)
}

func (a *Array) ToCanonical() (array.Array, error) {
	switch a.values.DType().Kind() {
	case scalar.KindBool:
		return a.decodeBool()
	case scalar.KindPrimitive:
		return a.decodePrimitive()
	default:
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "runend: only Bool and Primitive values are supported, got %s", a.values.DType())
	}
}

func (a *Array) decodePrimitive() (array.Array, error) {
	ptype := a.values.DType().PType()
	out := make([]int64, a.length)
	valid := make([]bool, a.length)
	for i := 0; i < a.length; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		valid[i] = true
		out[i] = s.Value().AsPValue().AsI64()
	}
	validity := array.NonNullable(a.length)
	if a.values.DType().IsNullable() {
		validity = array.FromMask(mask.FromBools(valid))
	}
	return array.NewPrimitiveFromInt64(ptype, out, validity)
}

func (a *Array) decodeBool() (array.Array, error) {
	bools := make([]bool, a.length)
	valid := make([]bool, a.length)
	for i := 0; i < a.length; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		valid[i] = true
		bools[i] = s.Value().AsBool()
	}
	validity := array.NonNullable(a.length)
	if a.values.DType().IsNullable() {
		validity = array.FromMask(mask.FromBools(valid))
	}
	return array.NewBool(mask.FromBools(bools), validity)
}

var _ array.Array = (*Array)(nil)
