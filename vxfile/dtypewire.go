package vxfile

import (
	"encoding/binary"

	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// EncodeDType serializes dt into the schema region's wire form (spec
// §4.11: "the schema region is a serialized DType"). No DType-specific
// wire format survived retrieval in original_source, so this reuses the
// tag-byte-per-node approach scalar/wire.go already established for
// values, recursing over DType's own Kind union instead of Value's.
func EncodeDType(dt scalar.DType) []byte {
	var buf []byte
	return appendDType(buf, dt)
}

func appendDType(buf []byte, dt scalar.DType) []byte {
	buf = append(buf, byte(dt.Kind()))
	nullableByte := byte(0)
	if dt.IsNullable() {
		nullableByte = 1
	}
	buf = append(buf, nullableByte)

	switch dt.Kind() {
	case scalar.KindNull, scalar.KindBool, scalar.KindUtf8, scalar.KindBinary:
		// No further payload.
	case scalar.KindPrimitive:
		buf = append(buf, byte(dt.PType()))
	case scalar.KindDecimal:
		buf = append(buf, byte(dt.DecimalWidth()))
		buf = appendUvarint(buf, uint64(dt.Precision()))
		buf = appendUvarint(buf, uint64(dt.Scale()))
	case scalar.KindStruct:
		fields := dt.Fields()
		buf = appendUvarint(buf, uint64(len(fields)))
		for _, f := range fields {
			buf = appendLenPrefixedString(buf, f.Name)
			buf = appendDType(buf, f.DType)
		}
	case scalar.KindList:
		buf = appendDType(buf, dt.ElemType())
	case scalar.KindExtension:
		buf = appendLenPrefixedString(buf, string(dt.ExtensionID()))
		buf = appendDType(buf, dt.StorageType())
		buf = appendLenPrefixedBytes(buf, dt.ExtensionMetadata())
	}
	return buf
}

// DecodeDType parses a DType from the front of data, returning the
// remaining bytes.
func DecodeDType(data []byte) (scalar.DType, []byte, error) {
	if len(data) < 2 {
		return scalar.DType{}, nil, colvexerr.New(colvexerr.InvalidSerde, "dtype: truncated header")
	}
	kind := scalar.Kind(data[0])
	nullable := data[1] != 0
	rest := data[2:]

	switch kind {
	case scalar.KindNull:
		return scalar.Null(), rest, nil
	case scalar.KindBool:
		return scalar.Bool(nullable), rest, nil
	case scalar.KindUtf8:
		return scalar.Utf8(nullable), rest, nil
	case scalar.KindBinary:
		return scalar.Binary(nullable), rest, nil
	case scalar.KindPrimitive:
		if len(rest) < 1 {
			return scalar.DType{}, nil, colvexerr.New(colvexerr.InvalidSerde, "dtype: truncated primitive")
		}
		return scalar.Primitive(scalar.PType(rest[0]), nullable), rest[1:], nil
	case scalar.KindDecimal:
		if len(rest) < 1 {
			return scalar.DType{}, nil, colvexerr.New(colvexerr.InvalidSerde, "dtype: truncated decimal")
		}
		width := scalar.DecimalWidth(rest[0])
		rest = rest[1:]
		precision, rest, err := readUvarint(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		scale, rest, err := readUvarint(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		return scalar.Decimal(int(precision), int(scale), width, nullable), rest, nil
	case scalar.KindStruct:
		count, rest, err := readUvarint(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		fields := make([]scalar.Field, count)
		for i := range fields {
			var name string
			name, rest, err = readLenPrefixedString(rest)
			if err != nil {
				return scalar.DType{}, nil, err
			}
			var fieldDType scalar.DType
			fieldDType, rest, err = DecodeDType(rest)
			if err != nil {
				return scalar.DType{}, nil, err
			}
			fields[i] = scalar.Field{Name: name, DType: fieldDType}
		}
		return scalar.Struct(fields, nullable), rest, nil
	case scalar.KindList:
		elem, rest, err := DecodeDType(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		return scalar.List(elem, nullable), rest, nil
	case scalar.KindExtension:
		id, rest, err := readLenPrefixedString(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		storage, rest, err := DecodeDType(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		metadata, rest, err := readLenPrefixedBytes(rest)
		if err != nil {
			return scalar.DType{}, nil, err
		}
		return scalar.Extension(scalar.ExtensionID(id), storage, metadata), rest, nil
	default:
		return scalar.DType{}, nil, colvexerr.New(colvexerr.InvalidSerde, "dtype: unknown kind tag %d", kind)
	}
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func readUvarint(data []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, colvexerr.New(colvexerr.InvalidSerde, "wire: truncated or invalid varint")
	}
	return v, data[n:], nil
}

func appendLenPrefixedBytes(buf []byte, data []byte) []byte {
	buf = appendUvarint(buf, uint64(len(data)))
	return append(buf, data...)
}

func readLenPrefixedBytes(data []byte) ([]byte, []byte, error) {
	n, rest, err := readUvarint(data)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < n {
		return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "wire: truncated length-prefixed payload")
	}
	return rest[:n], rest[n:], nil
}

func appendLenPrefixedString(buf []byte, s string) []byte {
	return appendLenPrefixedBytes(buf, []byte(s))
}

func readLenPrefixedString(data []byte) (string, []byte, error) {
	raw, rest, err := readLenPrefixedBytes(data)
	if err != nil {
		return "", nil, err
	}
	return string(raw), rest, nil
}
