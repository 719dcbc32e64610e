package array

import (
	"math/big"

	"github.com/colvex/colvex/buffer"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// decimalByteWidth returns the fixed storage width, in bytes, for w.
func decimalByteWidth(w scalar.DecimalWidth) int {
	switch w {
	case scalar.DecimalI8:
		return 1
	case scalar.DecimalI16:
		return 2
	case scalar.DecimalI32:
		return 4
	case scalar.DecimalI64:
		return 8
	case scalar.DecimalI128:
		return 16
	case scalar.DecimalI256:
		return 32
	default:
		return 16
	}
}

// DecimalArray is the canonical fixed-point encoding (spec §3.3): a raw
// little-endian two's-complement buffer at the DType's DecimalWidth, plus
// a validity mask. Grounded on PrimitiveArray's layout, widened to
// support 128/256-bit storage via math/big.
type DecimalArray struct {
	baseArray
	buf buffer.ByteBuffer
}

func NewDecimal(dtype scalar.DType, buf buffer.ByteBuffer, validity Validity) (*DecimalArray, error) {
	width := decimalByteWidth(dtype.DecimalWidth())
	if buf.Len() != validity.Len()*width {
		return nil, colvexerr.New(colvexerr.InvalidInput, "decimal array: buffer len %d != %d elements of width %d", buf.Len(), validity.Len(), width)
	}
	return &DecimalArray{baseArray: newBase(dtype, validity), buf: buf}, nil
}

func (a *DecimalArray) Encoding() EncodingID { return EncodingDecimal }

func (a *DecimalArray) width() int { return decimalByteWidth(a.dtype.DecimalWidth()) }

func (a *DecimalArray) ScalarAt(i int) (scalar.Scalar, error) {
	if !a.validity.IsValid(i) {
		return scalar.Null(a.dtype), nil
	}
	w := a.width()
	b := a.buf.Bytes()[i*w : (i+1)*w]
	bi := leToBigInt(b)
	return scalar.New(a.dtype, scalar.DecimalVal(scalar.DecimalFromBigInt(a.dtype.DecimalWidth(), bi)))
}

func leToBigInt(b []byte) *big.Int {
	width := len(b)
	neg := b[width-1]&0x80 != 0
	be := make([]byte, width)
	for i := 0; i < width; i++ {
		be[width-1-i] = b[i]
	}
	v := new(big.Int).SetBytes(be)
	if neg {
		max := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
		v.Sub(v, max)
	}
	return v
}

func (a *DecimalArray) Slice(start, stop int) (Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "decimal array: slice [%d,%d) out of range for len %d", start, stop, a.Len())
	}
	w := a.width()
	sub, err := a.buf.Slice(start*w, stop*w)
	if err != nil {
		return nil, err
	}
	return &DecimalArray{baseArray: newBase(a.dtype, a.validity.Slice(start, stop)), buf: sub}, nil
}

func (a *DecimalArray) ToCanonical() (Array, error) { return a, nil }

var _ Array = (*DecimalArray)(nil)
