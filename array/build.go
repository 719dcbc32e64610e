package array

import (
	"math/big"

	"github.com/colvex/colvex/buffer"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// FromScalars materializes a slice of per-row scalars into the matching
// canonical encoding, inferring validity from each scalar's IsNull().
// Used by compute kernels (take, filter's canonical fallback) to build a
// result array scalar-by-scalar.
func FromScalars(dtype scalar.DType, scalars []scalar.Scalar) (Array, error) {
	valid := make([]bool, len(scalars))
	for i, s := range scalars {
		valid[i] = !s.IsNull()
	}
	return scalarsToCanonical(dtype, scalars, valid)
}

// scalarsToCanonical materializes a slice of per-row scalars (already
// known valid/invalid via validMask) into the matching canonical
// encoding. Used by ChunkedArray.ToCanonical and by compute kernels that
// build their output scalar-by-scalar before the fast paths take over.
func scalarsToCanonical(dtype scalar.DType, scalars []scalar.Scalar, validMask []bool) (Array, error) {
	n := len(scalars)
	validity := validityFromBools(validMask, dtype.IsNullable())

	switch dtype.Kind() {
	case scalar.KindNull:
		return NewNull(n), nil
	case scalar.KindBool:
		vals := make([]bool, n)
		for i, s := range scalars {
			if !s.IsNull() {
				vals[i] = s.Value().AsBool()
			}
		}
		return NewBool(mask.FromBools(vals), validity)
	case scalar.KindPrimitive:
		vals := make([]int64, n)
		for i, s := range scalars {
			if !s.IsNull() {
				pv := s.Value().AsPValue()
				if dtype.PType().IsFloat() {
					vals[i] = int64(pv.AsU64())
				} else if dtype.PType().IsSignedInt() {
					vals[i] = pv.AsI64()
				} else {
					vals[i] = int64(pv.AsU64())
				}
			}
		}
		return NewPrimitiveFromInt64(dtype.PType(), vals, validity)
	case scalar.KindDecimal:
		width := decimalByteWidth(dtype.DecimalWidth())
		raw := make([]byte, n*width)
		for i, s := range scalars {
			if !s.IsNull() {
				bi := s.Value().AsDecimal().BigInt()
				copy(raw[i*width:(i+1)*width], bigIntToLE(bi, width))
			}
		}
		return NewDecimal(dtype, buffer.NewByteBuffer(raw), validity)
	case scalar.KindUtf8, scalar.KindBinary:
		offsets := make([]int32, n+1)
		var bytesBuf []byte
		for i, s := range scalars {
			if !s.IsNull() {
				var raw []byte
				if dtype.Kind() == scalar.KindUtf8 {
					raw = []byte(s.Value().AsUtf8())
				} else {
					raw = s.Value().AsBytes()
				}
				bytesBuf = append(bytesBuf, raw...)
			}
			offsets[i+1] = int32(len(bytesBuf))
		}
		return NewVarBin(dtype, buffer.NewByteBuffer(bytesBuf), offsets, validity)
	case scalar.KindList:
		offsets := make([]int32, n+1)
		var elemScalars []scalar.Scalar
		var elemValid []bool
		for i, s := range scalars {
			if !s.IsNull() {
				for _, it := range s.Value().AsList() {
					es, err := scalar.New(dtype.ElemType(), it)
					if err != nil {
						return nil, err
					}
					elemScalars = append(elemScalars, es)
					elemValid = append(elemValid, !it.IsNull())
				}
			}
			offsets[i+1] = int32(len(elemScalars))
		}
		elements, err := scalarsToCanonical(dtype.ElemType(), elemScalars, elemValid)
		if err != nil {
			return nil, err
		}
		return NewList(dtype, offsets, elements, validity)
	case scalar.KindStruct:
		fields := dtype.Fields()
		fieldArrays := make([]Array, len(fields))
		for fi, f := range fields {
			fieldScalars := make([]scalar.Scalar, n)
			fieldValid := make([]bool, n)
			for i, s := range scalars {
				if s.IsNull() {
					fieldScalars[i] = scalar.Null(f.DType)
					fieldValid[i] = false
					continue
				}
				items := s.Value().AsList()
				es, err := scalar.New(f.DType, items[fi])
				if err != nil {
					return nil, err
				}
				fieldScalars[i] = es
				fieldValid[i] = !items[fi].IsNull()
			}
			fa, err := scalarsToCanonical(f.DType, fieldScalars, fieldValid)
			if err != nil {
				return nil, err
			}
			fieldArrays[fi] = fa
		}
		return NewStruct(dtype, fieldArrays, validity)
	case scalar.KindExtension:
		storage, err := scalarsToCanonical(dtype.StorageType(), scalars, validMask)
		if err != nil {
			return nil, err
		}
		return NewExtension(dtype, storage), nil
	default:
		return nil, colvexerr.New(colvexerr.NotSupported, "scalarsToCanonical: unsupported dtype kind %v", dtype.Kind())
	}
}

func validityFromBools(valid []bool, nullable bool) Validity {
	if !nullable {
		return NonNullable(len(valid))
	}
	return FromMask(mask.FromBools(valid))
}

// bigIntToLE is decimal.go's leToBigInt inverse: two's-complement
// little-endian encoding at a fixed width.
func bigIntToLE(v *big.Int, width int) []byte {
	b := make([]byte, width)
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	be := abs.Bytes()
	for i := 0; i < len(be) && i < width; i++ {
		b[i] = be[len(be)-1-i]
	}
	if neg {
		carry := byte(1)
		for i := 0; i < width; i++ {
			b[i] = ^b[i]
			sum := int(b[i]) + int(carry)
			b[i] = byte(sum)
			carry = byte(sum >> 8)
		}
	}
	return b
}
