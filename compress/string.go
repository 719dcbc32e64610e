package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
)

// StringCompressor mirrors vortex-btrblocks's StringCompressor: like
// Float, it adds no scheme beyond the generic set (Constant/RunEnd/Dict
// already cover the dominant low-cardinality and repeated-run string
// cases BtrBlocks targets; spec §4.9).
func StringCompressor(a array.Array, cfg config.Compressor, dictionaryExcluded bool, allowedCascading int) (array.Array, error) {
	return compressWithSchemes(genericSchemes(), a, cfg, dictionaryExcluded, allowedCascading)
}
