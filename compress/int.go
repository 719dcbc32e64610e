package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/encoding/bitpacked"
	"github.com/colvex/colvex/encoding/forcodec"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// forScheme: frame-of-reference, recursively re-compressing its shifted
// magnitudes with one unit less cascading budget so a narrow range of
// large values can still bit-pack down further. Grounded on
// forcodec.From plus vortex-btrblocks's cascading-compression pattern
// (spec §4.9 step 4: "the scheme may recursively compress its own
// children via the type-appropriate compressor").
type forScheme struct{}

func (forScheme) Name() string     { return "for" }
func (forScheme) IsConstant() bool { return false }
func (forScheme) Applicable(stats Stats) bool {
	return stats.Source.DType().Kind() == scalar.KindPrimitive && stats.Source.DType().PType().IsInteger()
}

func (forScheme) Compress(stats Stats, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	values, validity, err := extractInt64(stats.Source)
	if err != nil {
		return nil, err
	}
	forArr, err := forcodec.From(stats.Source.DType().PType(), values, validity)
	if err != nil {
		return nil, err
	}
	if allowedCascading <= 0 {
		return forArr, nil
	}
	compressedChild, err := IntCompressor(forArr.Encoded(), cfg, false, allowedCascading-1)
	if err != nil {
		return nil, err
	}
	return forcodec.New(forArr.DType().PType(), forArr.Reference(), forArr.Shift(), compressedChild)
}

// bitpackedScheme: fixed-width packing at the narrowest width covering
// every value of stats.Source, so no value needs a patch (spec
// §4.4/§4.9). Grounded on bitpacked.From.
type bitpackedScheme struct{}

func (bitpackedScheme) Name() string     { return "bitpacked" }
func (bitpackedScheme) IsConstant() bool { return false }
func (bitpackedScheme) Applicable(stats Stats) bool {
	return stats.Source.DType().Kind() == scalar.KindPrimitive && stats.Source.DType().PType().IsInteger()
}

func (bitpackedScheme) Compress(stats Stats, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	values, validity, err := extractInt64(stats.Source)
	if err != nil {
		return nil, err
	}
	ptype := stats.Source.DType().PType()
	width := chooseBitWidth(values, ptype.IsSignedInt())
	return bitpacked.From(ptype, values, width, validity)
}

// chooseBitWidth returns the narrowest bit width that represents every
// value in values without patches, capped at the ptype's native width.
func chooseBitWidth(values []int64, signed bool) uint8 {
	var width uint8
	for _, v := range values {
		w := bitsNeeded(v, signed)
		if w > width {
			width = w
		}
	}
	if width == 0 {
		width = 1
	}
	return width
}

func bitsNeeded(v int64, signed bool) uint8 {
	if signed {
		if v < 0 {
			v = ^v
		}
		w := uint8(1)
		for v != 0 {
			v >>= 1
			w++
		}
		return w
	}
	u := uint64(v)
	w := uint8(0)
	for u != 0 {
		u >>= 1
		w++
	}
	if w == 0 {
		w = 1
	}
	return w
}

// extractInt64 scans a (possibly not-yet-canonical) integer array into a
// plain int64 slice plus validity, the shape For/BitPacked's builders
// need.
func extractInt64(a array.Array) ([]int64, array.Validity, error) {
	n := a.Len()
	values := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, array.Validity{}, err
		}
		if s.IsNull() {
			continue
		}
		valid[i] = true
		pv := s.Value().AsPValue()
		if a.DType().PType().IsSignedInt() {
			values[i] = pv.AsI64()
		} else {
			values[i] = int64(pv.AsU64())
		}
	}
	validity := array.NonNullable(n)
	if a.DType().IsNullable() {
		validity = array.FromMask(mask.FromBools(valid))
	}
	return values, validity, nil
}

// IntCompressor mirrors vortex-btrblocks's IntCompressor: it tries
// Constant, RunEnd, Dict, FoR, and BitPacked, in that registration
// order, and falls back to the canonical (already-decoded) array (spec
// §4.9). dictionaryExcluded disables the Dict scheme and skips its stats
// collection (passed through from BtrBlocksCompressor when a dict-free
// encoding tree is required, e.g. re-compressing a dictionary's own
// values array to avoid double-dictionary nesting).
func IntCompressor(a array.Array, cfg config.Compressor, dictionaryExcluded bool, allowedCascading int) (array.Array, error) {
	schemes := []Scheme{constantScheme{}, runEndScheme{}, dictScheme{}, forScheme{}, bitpackedScheme{}}
	return compressWithSchemes(schemes, a, cfg, dictionaryExcluded, allowedCascading)
}
