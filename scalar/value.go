package scalar

import (
	"fmt"
	"math"
	"math/big"
)

// valueKind tags the Value union. Distinct from DType.Kind because a
// Primitive DType's Value still needs to know which numeric width it holds
// (PValue), and Decimal needs one of six integer widths.
type valueKind int

const (
	vNull valueKind = iota
	vBool
	vPValue
	vDecimal
	vBytes
	vUtf8
	vList
)

// PValue is a tagged numeric union covering every PType, including f16
// (stored as its raw 16-bit pattern, per spec §3.2).
type PValue struct {
	PType PType
	bits  uint64 // raw bit pattern for the active ptype
}

func PValueFromU64(p PType, v uint64) PValue { return PValue{PType: p, bits: v} }
func PValueFromI64(p PType, v int64) PValue  { return PValue{PType: p, bits: uint64(v)} }
func PValueFromF64(p PType, v float64) PValue {
	switch p {
	case F32:
		return PValue{PType: p, bits: uint64(math.Float32bits(float32(v)))}
	default:
		return PValue{PType: p, bits: math.Float64bits(v)}
	}
}

// AsU64 reinterprets the stored bit pattern as u64 (valid for unsigned ptypes).
func (p PValue) AsU64() uint64 { return p.bits }

// AsI64 reinterprets the stored bit pattern as i64 (valid for signed ptypes).
func (p PValue) AsI64() int64 { return int64(p.bits) }

// AsF64 reinterprets the stored bit pattern as the ptype's float value.
func (p PValue) AsF64() float64 {
	switch p.PType {
	case F32:
		return float64(math.Float32frombits(uint32(p.bits)))
	case F16:
		return f16ToF64(uint16(p.bits))
	default:
		return math.Float64frombits(p.bits)
	}
}

func (p PValue) String() string {
	switch {
	case p.PType.IsFloat():
		return fmt.Sprintf("%v", p.AsF64())
	case p.PType.IsSignedInt():
		return fmt.Sprintf("%d", p.AsI64())
	default:
		return fmt.Sprintf("%d", p.AsU64())
	}
}

// DecimalValue holds a decimal's unscaled integer, sized to the declared
// storage width. Widths up to i64 use the native int64 fast path; i128/i256
// use math/big.Int, matching spec §3.2's six supported widths.
type DecimalValue struct {
	Width DecimalWidth
	small int64
	big   *big.Int // used only for DecimalI128/DecimalI256
}

func DecimalFromInt64(w DecimalWidth, v int64) DecimalValue { return DecimalValue{Width: w, small: v} }
func DecimalFromBigInt(w DecimalWidth, v *big.Int) DecimalValue {
	return DecimalValue{Width: w, big: new(big.Int).Set(v)}
}

// BigInt returns the decimal's unscaled value as a big.Int, regardless of
// storage width.
func (d DecimalValue) BigInt() *big.Int {
	if d.big != nil {
		return new(big.Int).Set(d.big)
	}
	return big.NewInt(d.small)
}

// Value is the sum-of-variants payload carried by a Scalar (spec §3.2):
// null marker; bool; primitive; decimal; byte buffer; utf8 buffer; list of
// scalar values. Value alone is not comparable across DTypes; see Scalar.
type Value struct {
	kind    valueKind
	boolean bool
	pvalue  PValue
	decimal DecimalValue
	bytes   []byte
	str     string
	list    []Value
}

func NullValue() Value                 { return Value{kind: vNull} }
func BoolValue(b bool) Value           { return Value{kind: vBool, boolean: b} }
func PrimitiveValue(p PValue) Value    { return Value{kind: vPValue, pvalue: p} }
func DecimalVal(d DecimalValue) Value  { return Value{kind: vDecimal, decimal: d} }
func BytesValue(b []byte) Value        { return Value{kind: vBytes, bytes: append([]byte{}, b...)} }
func Utf8Value(s string) Value         { return Value{kind: vUtf8, str: s} }
func ListValue(vals []Value) Value     { return Value{kind: vList, list: vals} }

func (v Value) IsNull() bool { return v.kind == vNull }
func (v Value) AsBool() bool { return v.boolean }
func (v Value) AsPValue() PValue { return v.pvalue }
func (v Value) AsDecimal() DecimalValue { return v.decimal }
func (v Value) AsBytes() []byte { return v.bytes }
func (v Value) AsUtf8() string { return v.str }
func (v Value) AsList() []Value { return v.list }

// IsInstanceOf reports whether v is structurally an instance of dtype (or
// null, if dtype is nullable), following vortex-scalar's InnerScalarValue
// ::is_instance_of rules.
func (v Value) IsInstanceOf(dt DType) bool {
	storage := dt.StorageType()
	if v.kind == vNull {
		return storage.IsNullable()
	}
	switch storage.Kind() {
	case KindBool:
		return v.kind == vBool
	case KindPrimitive:
		return v.kind == vPValue && v.pvalue.PType == storage.PType()
	case KindDecimal:
		return v.kind == vDecimal
	case KindUtf8:
		return v.kind == vUtf8
	case KindBinary:
		return v.kind == vBytes
	case KindList:
		if v.kind != vList {
			return false
		}
		for _, e := range v.list {
			if !e.IsInstanceOf(storage.ElemType()) {
				return false
			}
		}
		return true
	case KindStruct:
		if v.kind != vList {
			return false
		}
		fields := storage.Fields()
		if len(v.list) != len(fields) {
			return false
		}
		for i, e := range v.list {
			if !e.IsInstanceOf(fields[i].DType) {
				return false
			}
		}
		return true
	case KindNull:
		return false
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case vNull:
		return "null"
	case vBool:
		return fmt.Sprintf("%v", v.boolean)
	case vPValue:
		return v.pvalue.String()
	case vDecimal:
		return v.decimal.BigInt().String()
	case vBytes:
		return fmt.Sprintf("%x", v.bytes)
	case vUtf8:
		return v.str
	case vList:
		return fmt.Sprintf("%v", v.list)
	default:
		return "?"
	}
}
