package vxfile

import (
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/layout"
	"github.com/colvex/colvex/scalar"
)

// EncodeLayout serializes a layout tree (spec §4.11: "the footer region
// is a serialized layout tree whose leaves reference byte ranges within
// the data region"). Child dtypes are never stored: they are always
// derivable from the enclosing node's own dtype (a struct field's dtype
// for a columnar child, the same dtype for a chunked child), matching
// how this package's layout constructors (NewFlatLayout et al.) already
// require a dtype up front rather than discovering it from a segment.
func EncodeLayout(l layout.Layout) ([]byte, error) {
	return appendLayout(nil, l)
}

func appendLayout(buf []byte, l layout.Layout) ([]byte, error) {
	buf = append(buf, byte(l.Kind()))

	switch node := l.(type) {
	case *layout.FlatLayout:
		id := node.Segment()
		buf = append(buf, id[:]...)
		buf = appendUvarint(buf, node.RowCount())
		return buf, nil

	case *layout.ChunkedLayout:
		buf = appendUvarint(buf, uint64(node.NumChildren()))
		if zm := node.ZoneMap(); zm != nil {
			buf = append(buf, 1)
			buf = appendDType(buf, zm.Array().DType())
			zmBytes, err := layout.EncodeArray(zm.Array())
			if err != nil {
				return nil, err
			}
			buf = appendLenPrefixedBytes(buf, zmBytes)
		} else {
			buf = append(buf, 0)
		}
		for i := 0; i < node.NumChildren(); i++ {
			var err error
			buf, err = appendLayout(buf, node.Child(i))
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case *layout.ColumnarLayout:
		buf = appendUvarint(buf, uint64(node.NumFields()))
		for i := 0; i < node.NumFields(); i++ {
			buf = appendLenPrefixedString(buf, node.FieldName(i))
			var err error
			buf, err = appendLayout(buf, node.Child(i))
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case *layout.InlineSchemaLayout:
		buf = appendDType(buf, node.DType())
		return appendLayout(buf, node.Child())

	default:
		return nil, colvexerr.New(colvexerr.NotSupported, "layout wire: unrecognized layout node %T", l)
	}
}

// DecodeLayout parses a layout tree from the front of data given dtype,
// the dtype the root of this subtree must carry, returning the remaining
// bytes.
func DecodeLayout(dtype scalar.DType, data []byte) (layout.Layout, []byte, error) {
	if len(data) < 1 {
		return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "layout wire: truncated kind tag")
	}
	kind := layout.Kind(data[0])
	rest := data[1:]

	switch kind {
	case layout.KindFlat:
		if len(rest) < 16 {
			return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "layout wire: truncated segment id")
		}
		var id layout.SegmentID
		copy(id[:], rest[:16])
		rest = rest[16:]
		rowCount, rest, err := readUvarint(rest)
		if err != nil {
			return nil, nil, err
		}
		return layout.NewFlatLayout(dtype, rowCount, id), rest, nil

	case layout.KindChunked:
		numChildren, rest, err := readUvarint(rest)
		if err != nil {
			return nil, nil, err
		}
		if len(rest) < 1 {
			return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "layout wire: truncated zone map flag")
		}
		hasZoneMap := rest[0] != 0
		rest = rest[1:]

		var zm *layout.ZoneMap
		if hasZoneMap {
			var zmDType scalar.DType
			zmDType, rest, err = DecodeDType(rest)
			if err != nil {
				return nil, nil, err
			}
			var zmBytes []byte
			zmBytes, rest, err = readLenPrefixedBytes(rest)
			if err != nil {
				return nil, nil, err
			}
			zmArray, err := layout.DecodeArray(zmDType, zmBytes)
			if err != nil {
				return nil, nil, err
			}
			zm = layout.NewZoneMapFromArray(zmArray)
		}

		children := make([]layout.Layout, numChildren)
		for i := range children {
			var child layout.Layout
			child, rest, err = DecodeLayout(dtype, rest)
			if err != nil {
				return nil, nil, err
			}
			children[i] = child
		}
		chunked, err := layout.NewChunkedLayout(dtype, children, zm)
		if err != nil {
			return nil, nil, err
		}
		return chunked, rest, nil

	case layout.KindColumnar:
		numFields, rest, err := readUvarint(rest)
		if err != nil {
			return nil, nil, err
		}
		fields := dtype.Fields()
		if uint64(len(fields)) != numFields {
			return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "layout wire: columnar field count %d != dtype field count %d", numFields, len(fields))
		}
		children := make([]layout.Layout, numFields)
		for i := range children {
			var name string
			name, rest, err = readLenPrefixedString(rest)
			if err != nil {
				return nil, nil, err
			}
			if name != fields[i].Name {
				return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "layout wire: columnar field %d name %q != dtype field name %q", i, name, fields[i].Name)
			}
			var child layout.Layout
			child, rest, err = DecodeLayout(fields[i].DType, rest)
			if err != nil {
				return nil, nil, err
			}
			children[i] = child
		}
		columnar, err := layout.NewColumnarLayout(dtype, children)
		if err != nil {
			return nil, nil, err
		}
		return columnar, rest, nil

	case layout.KindInline:
		innerDType, rest, err := DecodeDType(rest)
		if err != nil {
			return nil, nil, err
		}
		child, rest, err := DecodeLayout(innerDType, rest)
		if err != nil {
			return nil, nil, err
		}
		return layout.NewInlineSchemaLayout(innerDType, child), rest, nil

	default:
		return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "layout wire: unknown kind tag %d", kind)
	}
}
