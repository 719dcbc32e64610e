// Package compress implements colvex's adaptive, BtrBlocks-style
// compressor (spec §4.9): for each array, a small set of per-type-family
// schemes compete on an estimated compression ratio (measured over
// samples of the data), the best one is applied, and cascading lets a
// scheme recompress its own children up to a fixed depth. Grounded on
// vortex-btrblocks/src/lib.rs, the only surviving source for this
// concern.
package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/scalar"
)

// Compress walks a canonical array and replaces each leaf with its best
// compressed encoding, recursing into struct fields and list elements.
// This is BtrBlocksCompressor::compress_canonical's top-level dispatch:
// Null and Bool pass through uncompressed (no scheme covers them in this
// port, matching vortex-btrblocks which only dispatches Primitive,
// Struct, List, Utf8/Binary and Timestamp); Primitive is routed to the
// int or float compressor by ptype; Struct and List recurse; a
// VarBinView/VarBin of Utf8 dtype goes to the string compressor, Binary
// passes through; an Extension whose ID is Timestamp goes to the
// temporal compressor, any other extension recurses into its storage.
func Compress(a array.Array, cfg config.Config) (array.Array, error) {
	return compressAt(a, cfg.Compressor, cfg.Compressor.MaxCascade)
}

func compressAt(a array.Array, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	// Chunked arrays are compressed chunk-by-chunk, ahead of canonicalization,
	// so each chunk keeps its own independently chosen scheme rather than
	// being flattened into one array first.
	if chunked, ok := a.(*array.ChunkedArray); ok {
		return compressChunked(chunked, cfg, allowedCascading)
	}

	canon, err := a.ToCanonical()
	if err != nil {
		return nil, err
	}

	switch v := canon.(type) {
	case *array.NullArray:
		return v, nil
	case *array.BoolArray:
		return v, nil
	case *array.PrimitiveArray:
		return compressPrimitive(v, cfg, allowedCascading)
	case *array.StructArray:
		return compressStruct(v, cfg, allowedCascading)
	case *array.ListArray:
		return compressList(v, cfg, allowedCascading)
	case *array.VarBinArray:
		if v.DType().Kind() == scalar.KindUtf8 {
			return StringCompressor(v, cfg, false, allowedCascading)
		}
		return v, nil
	case *array.VarBinViewArray:
		if v.DType().Kind() == scalar.KindUtf8 {
			return StringCompressor(v, cfg, false, allowedCascading)
		}
		return v, nil
	case *array.ExtensionArray:
		return compressExtension(v, cfg, allowedCascading)
	default:
		return nil, colvexerr.New(colvexerr.InvalidInput, "compress: unhandled canonical array type %T", canon)
	}
}

func compressPrimitive(v *array.PrimitiveArray, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	pt := v.DType().PType()
	switch {
	case pt.IsInteger():
		return IntCompressor(v, cfg, false, allowedCascading)
	case pt.IsFloat():
		return FloatCompressor(v, cfg, false, allowedCascading)
	default:
		return v, nil
	}
}

func compressStruct(v *array.StructArray, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	declared := v.DType().Fields()
	fields := make([]array.Array, len(declared))
	for i := range declared {
		compressed, err := compressAt(v.Field(i), cfg, allowedCascading)
		if err != nil {
			return nil, err
		}
		fields[i] = compressed
	}
	validity := array.NonNullable(v.Len())
	if v.DType().IsNullable() {
		validity = array.FromMask(v.ValidityMask())
	}
	return array.NewStruct(v.DType(), fields, validity)
}

func compressList(v *array.ListArray, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	elements, err := compressAt(v.Elements(), cfg, allowedCascading)
	if err != nil {
		return nil, err
	}
	validity := array.NonNullable(v.Len())
	if v.DType().IsNullable() {
		validity = array.FromMask(v.ValidityMask())
	}
	return array.NewList(v.DType(), v.Offsets(), elements, validity)
}

func compressExtension(v *array.ExtensionArray, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	if v.DType().ExtensionID() == scalar.ExtTimestamp {
		return compressTemporal(v, cfg, allowedCascading)
	}
	storage, err := compressAt(v.Storage(), cfg, allowedCascading)
	if err != nil {
		return nil, err
	}
	return array.NewExtension(v.DType(), storage), nil
}

func compressChunked(v *array.ChunkedArray, cfg config.Compressor, allowedCascading int) (array.Array, error) {
	chunks := make([]array.Array, v.NumChunks())
	for i := range chunks {
		compressed, err := compressAt(v.Chunk(i), cfg, allowedCascading)
		if err != nil {
			return nil, err
		}
		chunks[i] = compressed
	}
	return array.NewChunked(v.DType(), chunks)
}
