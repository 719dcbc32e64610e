package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/scalar"
)

// Stats is the per-array bundle every scheme's ratio estimate and
// compress step reads from, rather than re-scanning the source array
// itself. Grounded on vortex-btrblocks's CompressorStats trait
// (generate/generate_opts/sample/sample_opts), generalized into one
// concrete struct since this port shares one Stats shape across every
// type family instead of a per-compressor associated type.
type Stats struct {
	Source             array.Array
	Min, Max           scalar.Scalar
	NullCount          int
	DistinctCount      int
	DistinctCounted    bool
	IsSample           bool
}

// GenerateStats scans src once, computing the bounds every scheme needs.
// countDistinct mirrors GenerateStatsOptions.count_distinct_values: the
// caller skips it when the dictionary scheme is excluded, since counting
// distinct values is the one stat only that scheme actually reads (spec
// §4.9 step 1).
func GenerateStats(src array.Array, countDistinct bool) (Stats, error) {
	n := src.Len()
	var min, max scalar.Scalar
	haveBound := false
	nullCount := 0
	seen := map[string]struct{}{}

	for i := 0; i < n; i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return Stats{}, err
		}
		if s.IsNull() {
			nullCount++
			continue
		}
		if countDistinct {
			seen[s.String()] = struct{}{}
		}
		if !haveBound {
			min, max = s, s
			haveBound = true
			continue
		}
		if cmp, err := scalar.Compare(s, min); err == nil && cmp < 0 {
			min = s
		}
		if cmp, err := scalar.Compare(s, max); err == nil && cmp > 0 {
			max = s
		}
	}

	return Stats{
		Source:          src,
		Min:             min,
		Max:             max,
		NullCount:       nullCount,
		DistinctCount:   len(seen),
		DistinctCounted: countDistinct,
	}, nil
}

// Sample draws cfg.SampleCount contiguous runs of cfg.SampleSize elements,
// spread evenly across the source, and concatenates them into one
// in-memory array before regenerating stats over just the sample (spec
// §4.9 step 2: "sampling (default: 10 samples of 64 elements)"). If the
// source holds no more than SampleCount*SampleSize elements, it returns
// the full stats, marked IsSample, without drawing anything.
func (s Stats) Sample(cfg config.Compressor) (Stats, error) {
	n := s.Source.Len()
	total := cfg.SampleSize * cfg.SampleCount
	if n <= total {
		sampled := s
		sampled.IsSample = true
		return sampled, nil
	}

	stride := n / cfg.SampleCount
	var scalars []scalar.Scalar
	for i := 0; i < cfg.SampleCount; i++ {
		start := i * stride
		stop := start + cfg.SampleSize
		if stop > n {
			stop = n
		}
		for j := start; j < stop; j++ {
			v, err := s.Source.ScalarAt(j)
			if err != nil {
				return Stats{}, err
			}
			scalars = append(scalars, v)
		}
	}
	sampleArr, err := array.FromScalars(s.Source.DType(), scalars)
	if err != nil {
		return Stats{}, err
	}
	sampled, err := GenerateStats(sampleArr, s.DistinctCounted)
	if err != nil {
		return Stats{}, err
	}
	sampled.IsSample = true
	return sampled, nil
}
