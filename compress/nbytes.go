package compress

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/encoding/bitpacked"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/encoding/datetimeparts"
	"github.com/colvex/colvex/encoding/dictcodec"
	"github.com/colvex/colvex/encoding/forcodec"
	"github.com/colvex/colvex/encoding/runend"
	"github.com/colvex/colvex/scalar"
)

// nbytes approximates an array's in-memory footprint, recursing into
// children for every nested encoding this module knows about (its own
// canonical encodings plus every compressed encoding/* package).
// Grounded on vortex_array::nbytes::NBytes, the trait every BtrBlocks
// scheme compares before/after with to accept or discard a candidate
// (spec §4.9 step 5, "if the output is not smaller than the input,
// discard it").
func nbytes(a array.Array) int {
	switch v := a.(type) {
	case *array.PrimitiveArray:
		return v.ByteBuffer().Len()
	case *array.BoolArray:
		return (v.Len() + 7) / 8
	case *array.VarBinArray:
		n := v.Len()
		total := 0
		for i := 0; i < n; i++ {
			total += v.ByteLength(i)
		}
		return total + 4*(n+1)
	case *array.VarBinViewArray:
		return v.Len() * 16
	case *array.NullArray:
		return 0
	case *array.StructArray:
		total := 0
		for i := range v.DType().Fields() {
			total += nbytes(v.Field(i))
		}
		return total
	case *array.ListArray:
		return nbytes(v.Elements()) + 4*(v.Len()+1)
	case *array.ExtensionArray:
		return nbytes(v.Storage())
	case *array.ChunkedArray:
		total := 0
		for i := 0; i < v.NumChunks(); i++ {
			total += nbytes(v.Chunk(i))
		}
		return total
	case *bitpacked.Array:
		n := int(v.BitWidth())*v.Len()/8 + 1
		if v.HasPatches() {
			n += v.Len() / 8
		}
		return n
	case *forcodec.Array:
		return nbytes(v.Encoded())
	case *runend.Array:
		return nbytes(v.Ends()) + nbytes(v.Values())
	case *dictcodec.Array:
		return nbytes(v.Codes()) + nbytes(v.Values())
	case *constcodec.Array:
		return scalarSize(v.ScalarValue())
	case *datetimeparts.Array:
		return nbytes(v.Days()) + nbytes(v.Seconds()) + nbytes(v.Subseconds())
	default:
		canon, err := a.ToCanonical()
		if err != nil || canon == a {
			return a.Len() * 8
		}
		return nbytes(canon)
	}
}

func scalarSize(s scalar.Scalar) int {
	switch s.DType().Kind() {
	case scalar.KindBool:
		return 1
	case scalar.KindPrimitive:
		return s.DType().PType().BitWidth() / 8
	default:
		return 16
	}
}
