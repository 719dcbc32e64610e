package compress

import (
	"testing"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/encoding/bitpacked"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/encoding/dictcodec"
	"github.com/colvex/colvex/encoding/forcodec"
	"github.com/colvex/colvex/encoding/runend"
	"github.com/colvex/colvex/scalar"
)

func i32Array(t *testing.T, vals []int64) *array.PrimitiveArray {
	t.Helper()
	a, err := array.NewPrimitiveFromInt64(scalar.I32, vals, array.NonNullable(len(vals)))
	if err != nil {
		t.Fatalf("NewPrimitiveFromInt64: %v", err)
	}
	return a
}

func TestConstantSchemeChosenForRepeatedValue(t *testing.T) {
	vals := make([]int64, 200)
	for i := range vals {
		vals[i] = 7
	}
	src := i32Array(t, vals)
	out, err := IntCompressor(src, config.Default().Compressor, false, 3)
	if err != nil {
		t.Fatalf("IntCompressor: %v", err)
	}
	if _, ok := out.(*constcodec.Array); !ok {
		t.Fatalf("expected *constcodec.Array, got %T", out)
	}
}

func TestRunEndSchemeChosenForLongRuns(t *testing.T) {
	var vals []int64
	for i := 0; i < 5; i++ {
		for j := 0; j < 100; j++ {
			vals = append(vals, int64(i))
		}
	}
	src := i32Array(t, vals)
	out, err := IntCompressor(src, config.Default().Compressor, false, 3)
	if err != nil {
		t.Fatalf("IntCompressor: %v", err)
	}
	if _, ok := out.(*runend.Array); !ok {
		t.Fatalf("expected *runend.Array, got %T", out)
	}
}

func TestDictSchemeChosenForLowCardinality(t *testing.T) {
	var vals []int64
	for i := 0; i < 500; i++ {
		vals = append(vals, int64(i%3)*1000003)
	}
	src := i32Array(t, vals)
	out, err := IntCompressor(src, config.Default().Compressor, false, 3)
	if err != nil {
		t.Fatalf("IntCompressor: %v", err)
	}
	if _, ok := out.(*dictcodec.Array); !ok {
		t.Fatalf("expected *dictcodec.Array, got %T", out)
	}
}

func TestDictSchemeExcludedWhenDictionaryExcluded(t *testing.T) {
	var vals []int64
	for i := 0; i < 500; i++ {
		vals = append(vals, int64(i%3)*1000003)
	}
	src := i32Array(t, vals)
	out, err := IntCompressor(src, config.Default().Compressor, true, 3)
	if err != nil {
		t.Fatalf("IntCompressor: %v", err)
	}
	if _, ok := out.(*dictcodec.Array); ok {
		t.Fatalf("dict scheme should have been excluded, got %T", out)
	}
}

func TestNarrowRangeIsCompressed(t *testing.T) {
	var vals []int64
	for i := 0; i < 2000; i++ {
		vals = append(vals, int64(i%5))
	}
	src := i32Array(t, vals)
	out, err := IntCompressor(src, config.Default().Compressor, false, 3)
	if err != nil {
		t.Fatalf("IntCompressor: %v", err)
	}
	switch out.(type) {
	case *bitpacked.Array, *forcodec.Array, *constcodec.Array, *runend.Array, *dictcodec.Array:
		// any of these is a legitimate winner depending on ratio; the point
		// of this test is that compression actually happened.
	default:
		t.Fatalf("expected a compressed encoding, got canonical %T back", out)
	}
	if nbytes(out) >= nbytes(src) {
		t.Fatalf("compressed output (%d bytes) not smaller than source (%d bytes)", nbytes(out), nbytes(src))
	}
}

func TestCompressNeverGrowsOutputBeyondSource(t *testing.T) {
	// High-entropy, high-cardinality data: whichever scheme wins (or the
	// canonical fallback), the discard-if-not-smaller rule means the result
	// is never larger than the source and every value round-trips exactly.
	vals := make([]int64, 64)
	for i := range vals {
		vals[i] = int64(i) * 2654435761 % (1 << 31)
	}
	src := i32Array(t, vals)
	out, err := IntCompressor(src, config.Default().Compressor, false, 3)
	if err != nil {
		t.Fatalf("IntCompressor: %v", err)
	}
	if nbytes(out) > nbytes(src) {
		t.Fatalf("compressed output (%d bytes) larger than source (%d bytes)", nbytes(out), nbytes(src))
	}
	for i, want := range vals {
		s, err := out.ScalarAt(i)
		if err != nil {
			t.Fatalf("ScalarAt(%d): %v", i, err)
		}
		if got := s.Value().AsPValue().AsI64(); got != want {
			t.Fatalf("row %d: got %d, want %d", i, got, want)
		}
	}
}

func TestTopLevelCompressDispatchesPrimitive(t *testing.T) {
	vals := make([]int64, 200)
	for i := range vals {
		vals[i] = 42
	}
	src := i32Array(t, vals)
	out, err := Compress(src, config.Default())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if _, ok := out.(*constcodec.Array); !ok {
		t.Fatalf("expected *constcodec.Array, got %T", out)
	}
}

func TestTopLevelCompressRecursesIntoStruct(t *testing.T) {
	vals := make([]int64, 200)
	for i := range vals {
		vals[i] = 9
	}
	field := i32Array(t, vals)
	dtype := scalar.Struct([]scalar.Field{{Name: "a", DType: field.DType()}}, false)
	st, err := array.NewStruct(dtype, []array.Array{field}, array.NonNullable(200))
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	out, err := Compress(st, config.Default())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	outStruct, ok := out.(*array.StructArray)
	if !ok {
		t.Fatalf("expected *array.StructArray, got %T", out)
	}
	if _, ok := outStruct.Field(0).(*constcodec.Array); !ok {
		t.Fatalf("expected compressed field, got %T", outStruct.Field(0))
	}
}

func TestGenerateStatsCountsDistinctAndBounds(t *testing.T) {
	src := i32Array(t, []int64{3, 1, 4, 1, 5, 9, 2, 6})
	stats, err := GenerateStats(src, true)
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	if stats.DistinctCount != 7 {
		t.Fatalf("expected 7 distinct values, got %d", stats.DistinctCount)
	}
	minVal := stats.Min.Value().AsPValue().AsI64()
	maxVal := stats.Max.Value().AsPValue().AsI64()
	if minVal != 1 || maxVal != 9 {
		t.Fatalf("expected min=1 max=9, got min=%d max=%d", minVal, maxVal)
	}
}

func TestSampleShortCircuitsSmallSource(t *testing.T) {
	src := i32Array(t, []int64{1, 2, 3})
	stats, err := GenerateStats(src, true)
	if err != nil {
		t.Fatalf("GenerateStats: %v", err)
	}
	sample, err := stats.Sample(config.Default().Compressor)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if sample.Source.Len() != 3 {
		t.Fatalf("expected sample to keep full 3-element source, got len %d", sample.Source.Len())
	}
}

func TestChooseBitWidthCoversSignedAndUnsigned(t *testing.T) {
	if w := chooseBitWidth([]int64{0, 1, 2, 3}, false); w != 2 {
		t.Fatalf("expected bit width 2 for unsigned 0..3, got %d", w)
	}
	if w := chooseBitWidth([]int64{-4, -1, 0, 3}, true); w < 3 {
		t.Fatalf("expected bit width >= 3 for signed range, got %d", w)
	}
}
