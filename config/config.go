// Package config collects the tunables that spec.md's design notes (§9)
// flag as empirically chosen and that should remain configurable: the
// compressor's sampling policy, cascade budget, the patches and bit-packed
// chunking thresholds, and the reader's selectivity quantile and density
// threshold. Values load from TOML via github.com/BurntSushi/toml; a host
// that never loads a file gets the documented defaults.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/colvex/colvex/colvexerr"
)

// Config bundles every tunable named in spec.md. Fields are grouped by the
// component that owns them.
type Config struct {
	Compressor Compressor `toml:"compressor"`
	BitPacked  BitPacked  `toml:"bitpacked"`
	Patches    Patches    `toml:"patches"`
	Filter     Filter     `toml:"filter"`
	Flat       Flat       `toml:"flat"`
	ZoneMap    ZoneMap    `toml:"zone_map"`
}

// Compressor controls the BtrBlocks-style adaptive compressor (spec §4.9).
type Compressor struct {
	// SampleCount is how many samples are drawn when estimating a scheme's
	// compression ratio. Spec default: 10.
	SampleCount int `toml:"sample_count"`
	// SampleSize is the element count per sample. Spec default: 64.
	SampleSize int `toml:"sample_size"`
	// MaxCascade bounds recursive cascading compression. Spec default: 3.
	MaxCascade int `toml:"max_cascade"`
	// MinRatio is the minimum compression ratio (uncompressed/compressed)
	// a scheme must beat to be chosen over canonical. Spec: "> 1.0".
	MinRatio float64 `toml:"min_ratio"`
}

// BitPacked controls the FastLanes bit-packed codec's take kernel (spec §4.4).
type BitPacked struct {
	// UnpackChunkThreshold: default 8. No package reads this field; the
	// bit-packed take kernel uses its own UnpackChunkThreshold constant (8)
	// and unpacks the whole array once len(indices)*8 exceeds its length,
	// otherwise it unpacks each index on its own. There is no per-block
	// bulk unpack.
	UnpackChunkThreshold int `toml:"unpack_chunk_threshold"`
}

// Patches controls the sparse-exception-set representation shared by
// compressed encodings (spec §3.4, design note (c)).
type Patches struct {
	// SparseVsMapThreshold: default 128. No package reads this field;
	// bit-packed patches are always an index list plus a values array,
	// whatever their count.
	SparseVsMapThreshold int `toml:"sparse_vs_map_threshold"`
}

// Filter controls the reorderable CNF filter layer (spec §4.12).
type Filter struct {
	// SelectivityQuantile: default 0.1. No package reads this field; the
	// filter layout reader orders conjuncts by a fixed 0.1 quantile.
	SelectivityQuantile float64 `toml:"selectivity_quantile"`
}

// Flat controls the flat layout's filter-path choice (spec §4.12).
type Flat struct {
	// DensityThreshold: below this true/len ratio the sparse (filter-then-evaluate)
	// path is used; at or above it the dense (evaluate-then-intersect) path is
	// used. Spec default: 0.2.
	DensityThreshold float64 `toml:"density_threshold"`
}

// ZoneMap controls the chunked layout's per-chunk statistics accumulator
// (spec §4.8).
type ZoneMap struct {
	// MaxVariableLengthStatSize bounds the byte length of a min/max stat
	// recorded for utf8/binary columns; longer values are truncated to a
	// safe bound and flagged. Spec gives no numeric default; chosen to
	// keep zone map rows small while remaining useful for pruning.
	MaxVariableLengthStatSize int `toml:"max_variable_length_stat_size"`
}

// Default returns the configuration matching every default named in spec.md.
func Default() Config {
	return Config{
		Compressor: Compressor{
			SampleCount: 10,
			SampleSize:  64,
			MaxCascade:  3,
			MinRatio:    1.0,
		},
		BitPacked: BitPacked{
			UnpackChunkThreshold: 8,
		},
		Patches: Patches{
			SparseVsMapThreshold: 128,
		},
		Filter: Filter{
			SelectivityQuantile: 0.1,
		},
		Flat: Flat{
			DensityThreshold: 0.2,
		},
		ZoneMap: ZoneMap{
			MaxVariableLengthStatSize: 32,
		},
	}
}

// Load reads a TOML configuration, starting from Default() and overriding
// whichever fields the document sets.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, colvexerr.Wrap(colvexerr.InvalidSerde, err, "decode config toml")
	}
	return cfg, nil
}
