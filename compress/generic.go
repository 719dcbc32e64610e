package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/encoding/dictcodec"
	"github.com/colvex/colvex/encoding/runend"
	"github.com/colvex/colvex/scalar"
)

// constantScheme covers every type family: a source with no nulls and
// exactly one distinct value (or which has no valid rows at all)
// collapses to one repeated scalar, in O(1) space. Grounded on
// vortex-btrblocks's per-family ConstantScheme variant (is_constant() ==
// true, excluded from ratio estimation on samples).
type constantScheme struct{}

func (constantScheme) Name() string      { return "constant" }
func (constantScheme) IsConstant() bool  { return true }

func (constantScheme) Applicable(stats Stats) bool {
	if stats.Source.Len() == 0 {
		return false
	}
	if stats.NullCount == stats.Source.Len() {
		return true
	}
	return stats.DistinctCounted && stats.DistinctCount == 1 && stats.NullCount == 0
}

func (constantScheme) Compress(stats Stats, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	n := stats.Source.Len()
	if stats.NullCount == n {
		return constcodec.New(scalar.Null(stats.Source.DType()), n), nil
	}
	return constcodec.New(stats.Min, n), nil
}

// runEndScheme covers every type family: long runs of repeated values
// collapse to one (end, value) pair per run. Grounded on runend.Encode
// and the run-length family's place in spec §4.9's per-type scheme list.
type runEndScheme struct{}

func (runEndScheme) Name() string     { return "runend" }
func (runEndScheme) IsConstant() bool { return false }
func (runEndScheme) Applicable(Stats) bool { return true }

func (runEndScheme) Compress(stats Stats, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	return runend.Encode(stats.Source)
}

// dictScheme covers every type family: a small set of distinct values
// repeated across many rows is stored once plus a code array. Excluded
// entirely when the caller has turned off distinct-value counting (spec
// §4.9 step 1: "skipped when dictionary encoding is excluded").
type dictScheme struct{}

func (dictScheme) Name() string     { return dictSchemeName }
func (dictScheme) IsConstant() bool { return false }

func (dictScheme) Applicable(stats Stats) bool {
	return stats.DistinctCounted && stats.DistinctCount > 0 && stats.DistinctCount < stats.Source.Len()
}

func (dictScheme) Compress(stats Stats, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	return dictcodec.Encode(stats.Source)
}

// genericSchemes is the candidate list shared by every type family that
// has no type-specific codec of its own (e.g. strings, and floats beyond
// what FloatCompressor adds); int adds For/BitPacked on top of this set.
func genericSchemes() []Scheme {
	return []Scheme{constantScheme{}, runEndScheme{}, dictScheme{}}
}
