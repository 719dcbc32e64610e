package layout

import (
	"encoding/binary"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// EncodeArray serializes an array's logical contents into a segment,
// row-by-row, reusing scalar.Encode/scalar.Decode (spec §6.3) rather than
// inventing a dedicated per-encoding wire codec: no segment/byte-layout
// source survived retrieval for any individual compressed encoding, and
// every array already knows how to produce its rows as Scalars via
// ScalarAt. This keeps the file format closed over one wire codec instead
// of one per encoding, at the cost of not persisting the encoding itself
// (a flat layout's segment always decodes back to the matching canonical
// array, never a compressed one - compression is an in-memory concern
// applied by callers via the compress package before or after a round
// trip through a file).
func EncodeArray(a array.Array) ([]byte, error) {
	n := a.Len()
	buf := make([]byte, 4, 4+n*9)
	binary.LittleEndian.PutUint32(buf, uint32(n))
	for i := 0; i < n; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		buf = append(buf, scalar.Encode(s)...)
	}
	return buf, nil
}

// DecodeArray reconstructs a canonical array of dtype from bytes written
// by EncodeArray.
func DecodeArray(dtype scalar.DType, data []byte) (array.Array, error) {
	if len(data) < 4 {
		return nil, colvexerr.New(colvexerr.InvalidSerde, "array segment: truncated length prefix")
	}
	n := int(binary.LittleEndian.Uint32(data[:4]))
	offset := 4
	scalars := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		s, consumed, err := scalar.Decode(dtype, data[offset:])
		if err != nil {
			return nil, err
		}
		scalars[i] = s
		offset += consumed
	}
	return array.FromScalars(dtype, scalars)
}
