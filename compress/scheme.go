package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
)

// Scheme is one candidate compression encoding for a type family (spec
// §4.9). Grounded on vortex-btrblocks's Scheme trait, flattened from its
// generic StatsType/CodeType associated types into one concrete
// interface since every scheme in this port shares the same Stats shape.
type Scheme interface {
	// Name identifies the scheme for logging and exclusion lists.
	Name() string
	// IsConstant reports whether this is the Constant scheme, which is
	// never chosen while estimating a ratio on a sample (spec §4.9 step
	// 2: "forbidden (e.g. Constant is never chosen on a sample)").
	IsConstant() bool
	// Applicable reports whether this scheme can even attempt stats
	// (e.g. the integer-only For/BitPacked schemes reject float sources).
	Applicable(stats Stats) bool
	// Compress builds the encoded array for stats.Source, optionally
	// recursing into children with allowedCascading-1 remaining budget.
	Compress(stats Stats, cfg config.Compressor, allowedCascading int) (array.Array, error)
}

// chooseScheme picks the candidate with the best estimated ratio above
// 1.0, or nil if none beats the canonical default (spec §4.9 step 3).
func chooseScheme(schemes []Scheme, stats Stats, cfg config.Compressor, allowedCascading int) (Scheme, error) {
	bestRatio := cfg.MinRatio
	var best Scheme

	for _, sch := range schemes {
		if !sch.Applicable(stats) {
			continue
		}
		if stats.IsSample && sch.IsConstant() {
			continue
		}
		ratio, err := estimateRatio(sch, stats, cfg, allowedCascading)
		if err != nil {
			return nil, err
		}
		if ratio > bestRatio {
			bestRatio = ratio
			best = sch
		}
	}
	return best, nil
}

// estimateRatio samples stats (unless it is already a sample), compresses
// the sample under sch, and divides uncompressed by compressed byte size
// (spec §4.9 step 2).
func estimateRatio(sch Scheme, stats Stats, cfg config.Compressor, allowedCascading int) (float64, error) {
	sample := stats
	if !stats.IsSample {
		var err error
		sample, err = stats.Sample(cfg)
		if err != nil {
			return 0, err
		}
	}
	compressed, err := sch.Compress(sample, cfg, allowedCascading)
	if err != nil {
		return 0, err
	}
	before := nbytes(sample.Source)
	after := nbytes(compressed)
	if after <= 0 {
		after = 1
	}
	return float64(before) / float64(after), nil
}

// compressWithSchemes is the shared Compressor::compress body every
// type-family compressor (int/float/string) drives: generate stats
// (skipping distinct-value counting when the dictionary scheme is
// excluded), choose a scheme, compress with it or fall back to the
// canonical array, then discard the result if it didn't actually shrink
// (spec §4.9 steps 1, 3, 4, 5).
func compressWithSchemes(schemes []Scheme, full array.Array, cfg config.Compressor, dictionaryExcluded bool, allowedCascading int) (array.Array, error) {
	if full.Len() == 0 {
		return full, nil
	}

	stats, err := GenerateStats(full, !dictionaryExcluded)
	if err != nil {
		return nil, err
	}

	best, err := chooseScheme(schemes, stats, cfg, allowedCascading)
	if err != nil {
		return nil, err
	}

	var output array.Array
	if best == nil {
		output = full
	} else {
		output, err = best.Compress(stats, cfg, allowedCascading)
		if err != nil {
			return nil, err
		}
	}

	if nbytes(output) < nbytes(full) {
		return output, nil
	}
	return full, nil
}
