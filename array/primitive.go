package array

import (
	"github.com/colvex/colvex/buffer"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// PrimitiveArray is the canonical fixed-width numeric encoding (spec
// §3.3), grounded on arrays/primitive/mod.rs: a raw aligned ByteBuffer
// reinterpreted according to the DType's PType, plus a validity mask.
type PrimitiveArray struct {
	baseArray
	buf buffer.ByteBuffer
}

// NewPrimitive wraps a raw byte buffer already holding validity.Len()
// elements of the given PType, little-endian, tightly packed.
func NewPrimitive(ptype scalar.PType, buf buffer.ByteBuffer, validity Validity) (*PrimitiveArray, error) {
	width := ptype.BitWidth() / 8
	if width > 0 && buf.Len() != validity.Len()*width {
		return nil, colvexerr.New(colvexerr.InvalidInput, "primitive array: buffer len %d != %d elements of width %d", buf.Len(), validity.Len(), width)
	}
	return &PrimitiveArray{
		baseArray: newBase(scalar.Primitive(ptype, validity.Nullable()), validity),
		buf:       buf,
	}, nil
}

// NewPrimitiveFromInt64 builds a PrimitiveArray from logical int64 values,
// packing them at ptype's width.
func NewPrimitiveFromInt64(ptype scalar.PType, values []int64, validity Validity) (*PrimitiveArray, error) {
	width := ptype.BitWidth() / 8
	raw := make([]byte, len(values)*width)
	for i, v := range values {
		putLE(raw[i*width:(i+1)*width], uint64(v), width)
	}
	return NewPrimitive(ptype, buffer.NewByteBuffer(raw), validity)
}

func putLE(b []byte, v uint64, width int) {
	for i := 0; i < width; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getLE(b []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func (a *PrimitiveArray) Encoding() EncodingID { return EncodingPrimitive }

func (a *PrimitiveArray) PType() scalar.PType { return a.dtype.PType() }

func (a *PrimitiveArray) ByteBuffer() buffer.ByteBuffer { return a.buf }

// RawAt returns the raw bit pattern at row i (interpretation depends on
// PType(): unsigned integer bits, or the IEEE-754/float16 bit pattern).
func (a *PrimitiveArray) RawAt(i int) uint64 {
	width := a.PType().BitWidth() / 8
	b := a.buf.Bytes()[i*width : (i+1)*width]
	return getLE(b, width)
}

func (a *PrimitiveArray) ScalarAt(i int) (scalar.Scalar, error) {
	if !a.validity.IsValid(i) {
		return scalar.Null(a.dtype), nil
	}
	pt := a.PType()
	raw := a.RawAt(i)
	var pv scalar.PValue
	if pt.IsSignedInt() {
		pv = scalar.PValueFromI64(pt, signExtend(raw, pt.BitWidth()))
	} else {
		pv = scalar.PValueFromU64(pt, raw)
	}
	return scalar.New(a.dtype, scalar.PrimitiveValue(pv))
}

func signExtend(raw uint64, bits int) int64 {
	shift := 64 - bits
	return int64(raw<<shift) >> shift
}

func (a *PrimitiveArray) Slice(start, stop int) (Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "primitive array: slice [%d,%d) out of range for len %d", start, stop, a.Len())
	}
	width := a.PType().BitWidth() / 8
	sub, err := a.buf.Slice(start*width, stop*width)
	if err != nil {
		return nil, err
	}
	return &PrimitiveArray{
		baseArray: newBase(a.dtype, a.validity.Slice(start, stop)),
		buf:       sub,
	}, nil
}

func (a *PrimitiveArray) ToCanonical() (Array, error) { return a, nil }

var _ Array = (*PrimitiveArray)(nil)
