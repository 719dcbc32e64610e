package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
)

// FloatCompressor mirrors vortex-btrblocks's FloatCompressor: unlike Int,
// it adds no type-specific scheme of its own (no FoR/BitPacked equivalent
// for floating point), so it is just the generic scheme set (spec §4.9).
func FloatCompressor(a array.Array, cfg config.Compressor, dictionaryExcluded bool, allowedCascading int) (array.Array, error) {
	return compressWithSchemes(genericSchemes(), a, cfg, dictionaryExcluded, allowedCascading)
}
