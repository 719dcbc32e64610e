package runend

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/scalar"
)

// Encode run-end encodes a Primitive or Bool array by collapsing runs of
// consecutive equal, equally-valid rows into a single (end, value) pair
// (array.rs's RunEndArray::encode).
func Encode(src array.Array) (*Array, error) {
	n := src.Len()
	if n == 0 {
		ends, err := array.NewPrimitiveFromInt64(scalar.U64, nil, array.NonNullable(0))
		if err != nil {
			return nil, err
		}
		return New(ends, src)
	}

	var endPositions []int64
	var valueRows []int
	runStart := 0
	for i := 1; i <= n; i++ {
		if i < n && rowsEqual(src, i, runStart) {
			continue
		}
		endPositions = append(endPositions, int64(i))
		valueRows = append(valueRows, runStart)
		runStart = i
	}

	endsArr, err := array.NewPrimitiveFromInt64(scalar.U64, endPositions, array.NonNullable(len(endPositions)))
	if err != nil {
		return nil, err
	}

	valueScalars := make([]scalar.Scalar, len(valueRows))
	for i, r := range valueRows {
		s, err := src.ScalarAt(r)
		if err != nil {
			return nil, err
		}
		valueScalars[i] = s
	}
	values, err := array.FromScalars(src.DType(), valueScalars)
	if err != nil {
		return nil, err
	}

	return New(endsArr, values)
}

// rowsEqual reports whether rows i and j of src hold the same value and
// validity (runs only merge equal, equally-valid rows).
func rowsEqual(src array.Array, i, j int) bool {
	si, err := src.ScalarAt(i)
	if err != nil {
		return false
	}
	sj, err := src.ScalarAt(j)
	if err != nil {
		return false
	}
	if si.IsNull() != sj.IsNull() {
		return false
	}
	if si.IsNull() {
		return true
	}
	cmp, err := scalar.Compare(si, sj)
	return err == nil && cmp == 0
}
