// Package scalar implements colvex's logical value model: DType (spec.md
// §3.1) and Scalar/Value (§3.2). Grounded on vortex-scalar/src/value.rs
// (the InnerScalarValue tagged union and its is_instance_of rules) and
// vortex-scalar/src/display.rs for Display formatting.
package scalar

import (
	"fmt"
	"strings"

	"github.com/colvex/colvex/colvexerr"
)

// Kind discriminates the closed sum of logical types.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindPrimitive
	KindDecimal
	KindUtf8
	KindBinary
	KindStruct
	KindList
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindPrimitive:
		return "primitive"
	case KindDecimal:
		return "decimal"
	case KindUtf8:
		return "utf8"
	case KindBinary:
		return "binary"
	case KindStruct:
		return "struct"
	case KindList:
		return "list"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// PType enumerates the primitive numeric storage types.
type PType int

const (
	U8 PType = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F16
	F32
	F64
)

var ptypeNames = map[PType]string{
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	F16: "f16", F32: "f32", F64: "f64",
}

func (p PType) String() string { return ptypeNames[p] }

// IsSignedInt reports whether p is a signed integer type.
func (p PType) IsSignedInt() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsUnsignedInt reports whether p is an unsigned integer type.
func (p PType) IsUnsignedInt() bool {
	switch p {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether p is any integer type (signed or unsigned).
func (p PType) IsInteger() bool { return p.IsSignedInt() || p.IsUnsignedInt() }

// IsFloat reports whether p is a floating point type.
func (p PType) IsFloat() bool {
	switch p {
	case F16, F32, F64:
		return true
	default:
		return false
	}
}

// BitWidth returns the storage width of p in bits.
func (p PType) BitWidth() int {
	switch p {
	case U8, I8:
		return 8
	case U16, I16, F16:
		return 16
	case U32, I32, F32:
		return 32
	case U64, I64, F64:
		return 64
	default:
		return 0
	}
}

// ToUnsigned maps a signed integer ptype to its equal-width unsigned
// counterpart; used by encodings that store signed values as their unsigned
// bit pattern (spec §4.4).
func (p PType) ToUnsigned() PType {
	switch p {
	case I8:
		return U8
	case I16:
		return U16
	case I32:
		return U32
	case I64:
		return U64
	default:
		return p
	}
}

// DecimalWidth enumerates the storage widths a Decimal DType may use.
type DecimalWidth int

const (
	DecimalI8 DecimalWidth = iota
	DecimalI16
	DecimalI32
	DecimalI64
	DecimalI128
	DecimalI256
)

// ExtensionID names a recognized extension type; unrecognized IDs are still
// legal (their behavior reduces to the storage DType) but these stable IDs
// are what date/time/timestamp extensions use.
type ExtensionID string

const (
	ExtDate      ExtensionID = "colvex.date"
	ExtTime      ExtensionID = "colvex.time"
	ExtTimestamp ExtensionID = "colvex.timestamp"
)

// Field is one (name, dtype) pair of a Struct DType; field order is
// significant and preserved.
type Field struct {
	Name  string
	DType DType
}

// DType is the closed sum of logical types described in spec.md §3.1.
// Nullability is carried on every variant. DType is an immutable value
// type: copying it is always safe and cheap to moderate (Struct/List/
// Extension carry slices/pointers to immutable children).
type DType struct {
	kind        Kind
	nullable    bool
	ptype       PType         // KindPrimitive
	decWidth    DecimalWidth  // KindDecimal
	precision   int           // KindDecimal
	scale       int           // KindDecimal
	fields      []Field       // KindStruct
	elem        *DType        // KindList
	extID       ExtensionID   // KindExtension
	extStorage  *DType        // KindExtension
	extMetadata []byte        // KindExtension
}

// Null returns the Null DType (always nullable; null is the only value).
func Null() DType { return DType{kind: KindNull, nullable: true} }

// Bool returns a Bool DType with the given nullability.
func Bool(nullable bool) DType { return DType{kind: KindBool, nullable: nullable} }

// Primitive returns a Primitive DType over ptype with the given nullability.
func Primitive(ptype PType, nullable bool) DType {
	return DType{kind: KindPrimitive, ptype: ptype, nullable: nullable}
}

// Decimal returns a Decimal DType. width is stored as given; it is not
// derived from precision.
func Decimal(precision, scale int, width DecimalWidth, nullable bool) DType {
	return DType{kind: KindDecimal, precision: precision, scale: scale, decWidth: width, nullable: nullable}
}

// Utf8 returns a Utf8 DType with the given nullability.
func Utf8(nullable bool) DType { return DType{kind: KindUtf8, nullable: nullable} }

// Binary returns a Binary DType with the given nullability.
func Binary(nullable bool) DType { return DType{kind: KindBinary, nullable: nullable} }

// Struct returns a Struct DType over the given ordered fields. Field names
// must be unique (spec §3.1 invariant); Struct does not check this (use
// StructChecked for a checked constructor).
func Struct(fields []Field, nullable bool) DType {
	return DType{kind: KindStruct, fields: fields, nullable: nullable}
}

// StructChecked validates field-name uniqueness before constructing a
// Struct DType.
func StructChecked(fields []Field, nullable bool) (DType, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return DType{}, colvexerr.New(colvexerr.InvalidInput, "duplicate struct field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return Struct(fields, nullable), nil
}

// List returns a List DType over elem.
func List(elem DType, nullable bool) DType {
	return DType{kind: KindList, elem: &elem, nullable: nullable}
}

// Extension returns an Extension DType wrapping a storage DType plus an
// opaque metadata blob.
func Extension(id ExtensionID, storage DType, metadata []byte) DType {
	return DType{kind: KindExtension, extID: id, extStorage: &storage, extMetadata: metadata, nullable: storage.nullable}
}

func (d DType) Kind() Kind         { return d.kind }
func (d DType) IsNullable() bool   { return d.nullable }
func (d DType) PType() PType       { return d.ptype }
func (d DType) Precision() int     { return d.precision }
func (d DType) Scale() int         { return d.scale }
func (d DType) DecimalWidth() DecimalWidth { return d.decWidth }
func (d DType) Fields() []Field    { return d.fields }
func (d DType) ElemType() DType    { return *d.elem }
func (d DType) ExtensionID() ExtensionID { return d.extID }
func (d DType) StorageType() DType {
	if d.kind == KindExtension {
		return *d.extStorage
	}
	return d
}
func (d DType) ExtensionMetadata() []byte { return d.extMetadata }

// IsNull reports whether d is exactly the Null DType.
func (d DType) IsNull() bool { return d.kind == KindNull }

// AsNullable returns a copy of d with nullability forced to true.
func (d DType) AsNullable() DType {
	d2 := d
	d2.nullable = true
	return d2
}

// AsNonNullable returns a copy of d with nullability forced to false.
func (d DType) AsNonNullable() DType {
	d2 := d
	d2.nullable = false
	return d2
}

// FieldByName returns the field's DType and whether it was found, for a
// Struct DType.
func (d DType) FieldByName(name string) (DType, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f.DType, true
		}
	}
	return DType{}, false
}

// Equal reports structural equality of two DTypes, including nullability.
func (d DType) Equal(o DType) bool {
	if d.kind != o.kind || d.nullable != o.nullable {
		return false
	}
	switch d.kind {
	case KindPrimitive:
		return d.ptype == o.ptype
	case KindDecimal:
		return d.precision == o.precision && d.scale == o.scale && d.decWidth == o.decWidth
	case KindStruct:
		if len(d.fields) != len(o.fields) {
			return false
		}
		for i, f := range d.fields {
			if f.Name != o.fields[i].Name || !f.DType.Equal(o.fields[i].DType) {
				return false
			}
		}
		return true
	case KindList:
		return d.elem.Equal(*o.elem)
	case KindExtension:
		return d.extID == o.extID && d.extStorage.Equal(*o.extStorage)
	default:
		return true
	}
}

// String renders d for display/debugging.
func (d DType) String() string {
	null := ""
	if d.nullable {
		null = "?"
	}
	switch d.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool" + null
	case KindPrimitive:
		return d.ptype.String() + null
	case KindDecimal:
		return fmt.Sprintf("decimal(%d,%d)%s", d.precision, d.scale, null)
	case KindUtf8:
		return "utf8" + null
	case KindBinary:
		return "binary" + null
	case KindStruct:
		parts := make([]string, len(d.fields))
		for i, f := range d.fields {
			parts[i] = f.Name + ": " + f.DType.String()
		}
		return "struct(" + strings.Join(parts, ", ") + ")" + null
	case KindList:
		return "list(" + d.elem.String() + ")" + null
	case KindExtension:
		return fmt.Sprintf("extension(%s, %s)%s", d.extID, d.extStorage.String(), null)
	default:
		return "?"
	}
}
