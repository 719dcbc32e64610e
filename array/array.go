// Package array implements colvex's array abstraction (spec §3): a common
// interface over canonical (Arrow-like) and compressed encodings, with
// lazily computed statistics and validity shared across both.
package array

import (
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// EncodingID names an array's physical encoding, e.g. "colvex.primitive"
// or "colvex.bitpacked" (grounded on vortex's EncodingId, a namespaced
// string identifying the array's VTable).
type EncodingID string

// Array is the common interface every canonical and compressed encoding
// implements (spec §3.2). Implementations are immutable and safe to share
// across goroutines; Slice shares backing data buffers (encodings with
// offsets or views copy those for the sliced range).
type Array interface {
	Len() int
	DType() scalar.DType
	Encoding() EncodingID

	// ScalarAt returns the logical value at row i, decoding lazily if the
	// array is compressed.
	ScalarAt(i int) (scalar.Scalar, error)

	// Slice returns the logical subrange [start, stop), sharing storage.
	Slice(start, stop int) (Array, error)

	// ToCanonical decompresses (if necessary) into one of the canonical
	// encodings in this package.
	ToCanonical() (Array, error)

	// ValidityMask returns a mask.Mask with true at every valid (non-null)
	// row.
	ValidityMask() mask.Mask

	// Statistics returns this array's lazily populated statistics cache.
	Statistics() *Statistics
}

// IsCanonical reports whether enc identifies one of this package's
// canonical encodings (as opposed to a compressed one living under
// encoding/*).
func IsCanonical(enc EncodingID) bool {
	switch enc {
	case EncodingNull, EncodingBool, EncodingPrimitive, EncodingDecimal,
		EncodingVarBin, EncodingVarBinView, EncodingStruct, EncodingList,
		EncodingExtension, EncodingChunked:
		return true
	default:
		return false
	}
}

const (
	EncodingNull      EncodingID = "colvex.null"
	EncodingBool      EncodingID = "colvex.bool"
	EncodingPrimitive EncodingID = "colvex.primitive"
	EncodingDecimal   EncodingID = "colvex.decimal"
	EncodingVarBin    EncodingID = "colvex.varbin"
	EncodingVarBinView EncodingID = "colvex.varbinview"
	EncodingStruct    EncodingID = "colvex.struct"
	EncodingList      EncodingID = "colvex.list"
	EncodingExtension EncodingID = "colvex.extension"
	EncodingChunked   EncodingID = "colvex.chunked"
)

// baseArray factors the fields/behavior every canonical encoding shares
// (length, dtype, validity, stats), the way PrimitiveArray/BoolArray/etc.
// in arrays/*/mod.rs each embed the same bookkeeping fields.
type baseArray struct {
	dtype    scalar.DType
	validity Validity
	stats    *Statistics
}

func newBase(dtype scalar.DType, validity Validity) baseArray {
	return baseArray{dtype: dtype, validity: validity, stats: NewStatistics()}
}

func (b *baseArray) Len() int               { return b.validity.Len() }
func (b *baseArray) DType() scalar.DType    { return b.dtype }
func (b *baseArray) ValidityMask() mask.Mask { return b.validity.Mask() }
func (b *baseArray) Statistics() *Statistics { return b.stats }
