package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/encoding/datetimeparts"
)

// compressTemporal splits a canonical Timestamp extension array into its
// days/seconds/subseconds components and compresses each independently
// through the integer compressor, since all three components are integer
// columns (spec §4.7, §4.9's "compress_temporal" dispatch in
// BtrBlocksCompressor::compress_canonical).
func compressTemporal(ts *array.ExtensionArray, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	parts, err := datetimeparts.Encode(ts)
	if err != nil {
		return nil, err
	}

	days, err := IntCompressor(parts.Days(), cfg, false, allowedCascading)
	if err != nil {
		return nil, err
	}
	seconds, err := IntCompressor(parts.Seconds(), cfg, false, allowedCascading)
	if err != nil {
		return nil, err
	}
	subseconds, err := IntCompressor(parts.Subseconds(), cfg, false, allowedCascading)
	if err != nil {
		return nil, err
	}

	return datetimeparts.New(ts.DType(), days, seconds, subseconds)
}
