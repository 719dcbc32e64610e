package scalar

import (
	"encoding/binary"
	"math/big"

	"github.com/colvex/colvex/colvexerr"
)

// wireTag identifies a serialized Value's variant (spec §6.3):
// null | bool | i32 | i64 | u32 | u64 | f16 | f32 | f64 | bytes | utf8 |
// list[value] | decimal{i128_le_bytes | i256_le_bytes}.
type wireTag byte

const (
	wireNull wireTag = iota
	wireBool
	wireI32
	wireI64
	wireU32
	wireU64
	wireF16
	wireF32
	wireF64
	wireBytes
	wireUtf8
	wireList
	wireDecimal128
	wireDecimal256
)

// Encode serializes a Scalar's value. The DType is not written; it is
// expected to travel out-of-band (e.g. as part of a schema). The value is
// tagged with enough
// information (wireTag) for Decode to validate it against a DType.
func Encode(s Scalar) []byte {
	var buf []byte
	buf = appendValue(buf, s.dtype, s.value)
	return buf
}

func appendValue(buf []byte, dt DType, v Value) []byte {
	if v.IsNull() {
		return append(buf, byte(wireNull))
	}
	storage := dt.StorageType()
	switch storage.Kind() {
	case KindBool:
		b := byte(0)
		if v.AsBool() {
			b = 1
		}
		return append(buf, byte(wireBool), b)
	case KindPrimitive:
		return appendPValue(buf, v.AsPValue())
	case KindDecimal:
		return appendDecimal(buf, storage.DecimalWidth(), v.AsDecimal())
	case KindUtf8:
		return appendLenPrefixed(buf, wireUtf8, []byte(v.AsUtf8()))
	case KindBinary:
		return appendLenPrefixed(buf, wireBytes, v.AsBytes())
	case KindList:
		buf = append(buf, byte(wireList))
		items := v.AsList()
		buf = appendU32(buf, uint32(len(items)))
		for _, it := range items {
			buf = appendValue(buf, storage.ElemType(), it)
		}
		return buf
	case KindStruct:
		buf = append(buf, byte(wireList))
		items := v.AsList()
		buf = appendU32(buf, uint32(len(items)))
		fields := storage.Fields()
		for i, it := range items {
			buf = appendValue(buf, fields[i].DType, it)
		}
		return buf
	default:
		return append(buf, byte(wireNull))
	}
}

func appendPValue(buf []byte, p PValue) []byte {
	switch p.PType {
	case I8, I16, I32:
		return append(appendI32(buf, wireI32, int32(p.AsI64())))
	case I64:
		return appendI64(buf, wireI64, p.AsI64())
	case U8, U16, U32:
		return appendU32T(buf, wireU32, uint32(p.AsU64()))
	case U64:
		return appendU64(buf, wireU64, p.AsU64())
	case F16:
		buf = append(buf, byte(wireF16))
		return appendU16(buf, uint16(p.bits))
	case F32:
		buf = append(buf, byte(wireF32))
		return appendU32(buf, uint32(p.bits))
	case F64:
		buf = append(buf, byte(wireF64))
		return appendU64Raw(buf, p.bits)
	default:
		return append(buf, byte(wireNull))
	}
}

func appendDecimal(buf []byte, w DecimalWidth, d DecimalValue) []byte {
	bi := d.BigInt()
	if w == DecimalI256 {
		buf = append(buf, byte(wireDecimal256))
		return appendBigIntLE(buf, bi, 32)
	}
	buf = append(buf, byte(wireDecimal128))
	return appendBigIntLE(buf, bi, 16)
}

func appendBigIntLE(buf []byte, v *big.Int, width int) []byte {
	b := make([]byte, width)
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	be := abs.Bytes()
	for i := 0; i < len(be) && i < width; i++ {
		b[i] = be[len(be)-1-i]
	}
	if neg {
		// two's complement negate in place
		carry := byte(1)
		for i := 0; i < width; i++ {
			b[i] = ^b[i]
			sum := int(b[i]) + int(carry)
			b[i] = byte(sum)
			carry = byte(sum >> 8)
		}
	}
	return append(buf, b...)
}

func appendLenPrefixed(buf []byte, tag wireTag, data []byte) []byte {
	buf = append(buf, byte(tag))
	buf = appendU32(buf, uint32(len(data)))
	return append(buf, data...)
}

func appendI32(buf []byte, tag wireTag, v int32) []byte {
	buf = append(buf, byte(tag))
	return appendU32(buf, uint32(v))
}
func appendI64(buf []byte, tag wireTag, v int64) []byte {
	buf = append(buf, byte(tag))
	return appendU64Raw(buf, uint64(v))
}
func appendU32T(buf []byte, tag wireTag, v uint32) []byte {
	buf = append(buf, byte(tag))
	return appendU32(buf, v)
}
func appendU64(buf []byte, tag wireTag, v uint64) []byte {
	buf = append(buf, byte(tag))
	return appendU64Raw(buf, v)
}
func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}
func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}
func appendU64Raw(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// Decode deserializes a wire-encoded Value and validates it against dtype,
// with upcast tolerance from narrower integer widths (spec §6.3): e.g. a
// wire i32 may be decoded against a Primitive(i64) DType.
func Decode(dtype DType, data []byte) (Scalar, int, error) {
	v, n, err := decodeValue(dtype, data)
	if err != nil {
		return Scalar{}, 0, err
	}
	s, err := New(dtype, v)
	if err != nil {
		return Scalar{}, 0, err
	}
	return s, n, nil
}

func decodeValue(dt DType, data []byte) (Value, int, error) {
	if len(data) < 1 {
		return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated scalar wire data")
	}
	tag := wireTag(data[0])
	storage := dt.StorageType()
	switch tag {
	case wireNull:
		return NullValue(), 1, nil
	case wireBool:
		if len(data) < 2 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated bool scalar")
		}
		return BoolValue(data[1] != 0), 2, nil
	case wireI32:
		if len(data) < 5 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated i32 scalar")
		}
		v := int32(binary.LittleEndian.Uint32(data[1:5]))
		return PrimitiveValue(PValueFromI64(storage.PType(), int64(v))), 5, nil
	case wireI64:
		if len(data) < 9 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated i64 scalar")
		}
		v := int64(binary.LittleEndian.Uint64(data[1:9]))
		return PrimitiveValue(PValueFromI64(storage.PType(), v)), 9, nil
	case wireU32:
		if len(data) < 5 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated u32 scalar")
		}
		v := binary.LittleEndian.Uint32(data[1:5])
		return PrimitiveValue(PValueFromU64(storage.PType(), uint64(v))), 5, nil
	case wireU64:
		if len(data) < 9 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated u64 scalar")
		}
		v := binary.LittleEndian.Uint64(data[1:9])
		return PrimitiveValue(PValueFromU64(storage.PType(), v)), 9, nil
	case wireF16:
		if len(data) < 3 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated f16 scalar")
		}
		v := binary.LittleEndian.Uint16(data[1:3])
		return PrimitiveValue(PValue{PType: F16, bits: uint64(v)}), 3, nil
	case wireF32:
		if len(data) < 5 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated f32 scalar")
		}
		v := binary.LittleEndian.Uint32(data[1:5])
		return PrimitiveValue(PValue{PType: F32, bits: uint64(v)}), 5, nil
	case wireF64:
		if len(data) < 9 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated f64 scalar")
		}
		v := binary.LittleEndian.Uint64(data[1:9])
		return PrimitiveValue(PValue{PType: F64, bits: v}), 9, nil
	case wireBytes, wireUtf8:
		if len(data) < 5 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated bytes/utf8 scalar")
		}
		n := binary.LittleEndian.Uint32(data[1:5])
		end := 5 + int(n)
		if len(data) < end {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated bytes/utf8 payload")
		}
		payload := data[5:end]
		if tag == wireUtf8 {
			return Utf8Value(string(payload)), end, nil
		}
		return BytesValue(payload), end, nil
	case wireList:
		if len(data) < 5 {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated list scalar")
		}
		count := binary.LittleEndian.Uint32(data[1:5])
		offset := 5
		items := make([]Value, 0, count)
		childType := elemChildType(storage)
		fields := storage.Fields()
		for i := 0; i < int(count); i++ {
			ct := childType
			if storage.Kind() == KindStruct {
				ct = fields[i].DType
			}
			v, n, err := decodeValue(ct, data[offset:])
			if err != nil {
				return Value{}, 0, err
			}
			items = append(items, v)
			offset += n
		}
		return ListValue(items), offset, nil
	case wireDecimal128, wireDecimal256:
		width := 16
		w := DecimalI128
		if tag == wireDecimal256 {
			width = 32
			w = DecimalI256
		}
		if len(data) < 1+width {
			return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "truncated decimal scalar")
		}
		bi := bigIntFromLE(data[1 : 1+width])
		return DecimalVal(DecimalFromBigInt(w, bi)), 1 + width, nil
	default:
		return Value{}, 0, colvexerr.New(colvexerr.InvalidSerde, "unknown scalar wire tag %d", tag)
	}
}

func elemChildType(dt DType) DType {
	if dt.Kind() == KindList {
		return dt.ElemType()
	}
	return dt
}

func bigIntFromLE(b []byte) *big.Int {
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
