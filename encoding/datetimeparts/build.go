package datetimeparts

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Encode splits a canonical Timestamp extension array (i64 storage,
// spec §2.4) into its days/seconds/subseconds components (array.rs's
// TryFrom<TemporalArray>).
func Encode(ts *array.ExtensionArray) (*Array, error) {
	dtype := ts.DType()
	if dtype.ExtensionID() != scalar.ExtTimestamp {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "datetimeparts: Encode requires a Timestamp extension array, got %s", dtype)
	}
	unit := DecodeTemporalMetadata(dtype.ExtensionMetadata()).Unit

	storage := ts.Storage()
	n := storage.Len()
	days := make([]int64, n)
	seconds := make([]int64, n)
	subseconds := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		s, err := storage.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		valid[i] = true
		parts := Split(s.Value().AsPValue().AsI64(), unit)
		days[i] = parts.Days
		seconds[i] = parts.Seconds
		subseconds[i] = parts.Subseconds
	}

	daysValidity := array.NonNullable(n)
	if dtype.IsNullable() {
		daysValidity = array.FromMask(mask.FromBools(valid))
	}
	daysArr, err := array.NewPrimitiveFromInt64(scalar.I32, days, daysValidity)
	if err != nil {
		return nil, err
	}
	secondsArr, err := array.NewPrimitiveFromInt64(scalar.U32, seconds, array.NonNullable(n))
	if err != nil {
		return nil, err
	}
	subsecondsArr, err := array.NewPrimitiveFromInt64(scalar.I64, subseconds, array.NonNullable(n))
	if err != nil {
		return nil, err
	}
	return New(dtype, daysArr, secondsArr, subsecondsArr)
}
