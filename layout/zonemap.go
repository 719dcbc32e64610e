package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compress"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// Zone-map column names, stable across files (the footer references them
// by name, not by position).
const (
	statMin           = "min"
	statMax           = "max"
	statNullCount     = "null_count"
	statMinTruncated  = "min_is_truncated"
	statMaxTruncated  = "max_is_truncated"
)

// ZoneMap carries one row of statistics per chunk of a chunked layout
// (spec §3.6, §4.8): min/max (possibly truncated, for variable-length
// types), and null count. Grounded on vortex-layout's ZoneMap/StatsTable,
// flattened to the three stats that matter for pruning the comparison
// operators this port supports (Eq/NotEq/Lt/Lte/Gt/Gte).
type ZoneMap struct {
	array array.Array // StructArray with the columns above, one row per chunk
}

func (z *ZoneMap) Array() array.Array { return z.array }

// NewZoneMapFromArray wraps an already-materialized struct array (e.g.
// one just decoded from a footer) as a ZoneMap, without re-deriving it
// from chunk statistics.
func NewZoneMapFromArray(a array.Array) *ZoneMap { return &ZoneMap{array: a} }

func (z *ZoneMap) column(name string) (array.Array, bool) {
	st, ok := z.array.(*array.StructArray)
	if !ok {
		return nil, false
	}
	return st.FieldByName(name)
}

// Bound returns the min or max scalar for chunk i, and whether that bound
// is truncated (spec §4.8). Pruning ignores the flag: a truncated min is
// a prefix and a truncated max is rounded up, so both still bound the
// chunk's values.
func (z *ZoneMap) Bound(i int, stat string, truncatedCol string) (scalar.Scalar, bool, error) {
	col, ok := z.column(stat)
	if !ok {
		return scalar.Scalar{}, false, nil
	}
	s, err := col.ScalarAt(i)
	if err != nil {
		return scalar.Scalar{}, false, err
	}
	truncated := false
	if tc, ok := z.column(truncatedCol); ok {
		ts, err := tc.ScalarAt(i)
		if err != nil {
			return scalar.Scalar{}, false, err
		}
		truncated = !ts.IsNull() && ts.Value().AsBool()
	}
	return s, truncated, nil
}

// NullCount returns the null count recorded for chunk i, or false if the
// column is absent (the writer omits the null_count column when no chunk
// holds a null).
func (z *ZoneMap) NullCount(i int) (int64, bool, error) {
	col, ok := z.column(statNullCount)
	if !ok {
		return 0, false, nil
	}
	s, err := col.ScalarAt(i)
	if err != nil {
		return 0, false, err
	}
	if s.IsNull() {
		return 0, false, nil
	}
	return s.Value().AsPValue().AsI64(), true, nil
}

// ZoneMapAccumulator accumulates one zone-map row per chunk as a column
// writer observes chunks (spec §4.11's ColumnWriter / §3.6).
type ZoneMapAccumulator struct {
	dtype      scalar.DType
	maxVarSize int
	mins, maxs []scalar.Scalar
	minTrunc, maxTrunc []bool
	nullCounts []int64
	anyNull    bool
}

// NewZoneMapAccumulator starts accumulating statistics for columns of dtype.
func NewZoneMapAccumulator(dtype scalar.DType, cfg config.ZoneMap) *ZoneMapAccumulator {
	return &ZoneMapAccumulator{dtype: dtype, maxVarSize: cfg.MaxVariableLengthStatSize}
}

// PushChunk records the min/max/null-count of one chunk.
func (a *ZoneMapAccumulator) PushChunk(chunk array.Array) error {
	stats, err := compress.GenerateStats(chunk, false)
	if err != nil {
		return err
	}

	min, minTrunc := stats.Min, false
	max, maxTrunc := stats.Max, false
	if isVariableLength(a.dtype) && stats.NullCount < chunk.Len() {
		min, minTrunc, err = truncateLowerBound(min, a.maxVarSize)
		if err != nil {
			return err
		}
		var ok bool
		max, ok, maxTrunc, err = truncateUpperBound(max, a.maxVarSize)
		if err != nil {
			return err
		}
		if !ok {
			max = scalar.Null(a.dtype)
		}
	}

	a.mins = append(a.mins, min)
	a.maxs = append(a.maxs, max)
	a.minTrunc = append(a.minTrunc, minTrunc)
	a.maxTrunc = append(a.maxTrunc, maxTrunc)
	a.nullCounts = append(a.nullCounts, int64(stats.NullCount))
	if stats.NullCount > 0 {
		a.anyNull = true
	}
	return nil
}

func isVariableLength(dt scalar.DType) bool {
	return dt.Kind() == scalar.KindUtf8 || dt.Kind() == scalar.KindBinary
}

// Finish materializes the accumulated rows into a ZoneMap, or returns nil
// if no chunk was ever pushed.
func (a *ZoneMapAccumulator) Finish() (*ZoneMap, error) {
	n := len(a.mins)
	if n == 0 {
		return nil, nil
	}

	names := []string{statMin}
	fields := []array.Array{}
	minArr, err := scalarArray(a.dtype.AsNullable(), a.mins)
	if err != nil {
		return nil, err
	}
	fields = append(fields, minArr)
	if isVariableLength(a.dtype) {
		names = append(names, statMinTruncated)
		truncArr, err := boolArray(a.minTrunc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, truncArr)
	}

	names = append(names, statMax)
	maxArr, err := scalarArray(a.dtype.AsNullable(), a.maxs)
	if err != nil {
		return nil, err
	}
	fields = append(fields, maxArr)
	if isVariableLength(a.dtype) {
		names = append(names, statMaxTruncated)
		truncArr, err := boolArray(a.maxTrunc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, truncArr)
	}

	if a.anyNull {
		names = append(names, statNullCount)
		ncArr, err := array.NewPrimitiveFromInt64(scalar.I64, a.nullCounts, array.NonNullable(n))
		if err != nil {
			return nil, err
		}
		fields = append(fields, ncArr)
	}

	structFields := make([]scalar.Field, len(names))
	for i, name := range names {
		structFields[i] = scalar.Field{Name: name, DType: fields[i].DType()}
	}
	structDType := scalar.Struct(structFields, false)
	st, err := array.NewStruct(structDType, fields, array.NonNullable(n))
	if err != nil {
		return nil, err
	}
	return &ZoneMap{array: st}, nil
}

func scalarArray(dtype scalar.DType, scalars []scalar.Scalar) (array.Array, error) {
	return array.FromScalars(dtype, scalars)
}

func boolArray(vals []bool) (array.Array, error) {
	return array.NewBool(mask.FromBools(vals), array.NonNullable(len(vals)))
}

func truncateLowerBound(s scalar.Scalar, maxSize int) (scalar.Scalar, bool, error) {
	raw, isStr, err := variableLengthBytes(s)
	if err != nil || !isStr || len(raw) <= maxSize {
		return s, false, nil
	}
	truncated := raw[:maxSize]
	out, err := rewrapVariableLength(s, truncated)
	if err != nil {
		return scalar.Scalar{}, false, err
	}
	return out, true, nil
}

// truncateUpperBound returns the smallest string-or-binary value >= s
// whose length is <= maxSize (spec §4.8): truncate to maxSize bytes, then
// increment the last byte that is not already 0xFF, dropping the bytes
// after it. If every byte is 0xFF, no such bound exists.
func truncateUpperBound(s scalar.Scalar, maxSize int) (scalar.Scalar, bool, bool, error) {
	raw, isStr, err := variableLengthBytes(s)
	if err != nil || !isStr || len(raw) <= maxSize {
		return s, true, false, nil
	}
	trunc := append([]byte(nil), raw[:maxSize]...)
	for i := len(trunc) - 1; i >= 0; i-- {
		if trunc[i] != 0xFF {
			trunc[i]++
			trunc = trunc[:i+1]
			out, err := rewrapVariableLength(s, trunc)
			if err != nil {
				return scalar.Scalar{}, false, false, err
			}
			return out, true, true, nil
		}
	}
	return scalar.Scalar{}, false, true, nil
}

func variableLengthBytes(s scalar.Scalar) ([]byte, bool, error) {
	if s.IsNull() {
		return nil, false, nil
	}
	switch s.DType().Kind() {
	case scalar.KindUtf8:
		return []byte(s.Value().AsUtf8()), true, nil
	case scalar.KindBinary:
		return s.Value().AsBytes(), true, nil
	default:
		return nil, false, nil
	}
}

func rewrapVariableLength(s scalar.Scalar, raw []byte) (scalar.Scalar, error) {
	if s.DType().Kind() == scalar.KindUtf8 {
		return scalar.New(s.DType(), scalar.Utf8Value(string(raw)))
	}
	return scalar.New(s.DType(), scalar.BytesValue(raw))
}

