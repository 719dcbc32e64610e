package array

import (
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// ChunkedArray concatenates a sequence of same-DType chunks into one
// logical array without copying, the way vortex's ChunkedArray lets a
// file reader expose many layout chunks as one logical column (spec
// §3.3, §4.11's Chunked layout).
type ChunkedArray struct {
	dtype   scalar.DType
	chunks  []Array
	offsets []int // cumulative offsets, len(chunks)+1
}

func NewChunked(dtype scalar.DType, chunks []Array) (*ChunkedArray, error) {
	offsets := make([]int, len(chunks)+1)
	for i, c := range chunks {
		if !c.DType().Equal(dtype) {
			return nil, colvexerr.New(colvexerr.MismatchedTypes, "chunked array: chunk %d has dtype %s, expected %s", i, c.DType(), dtype)
		}
		offsets[i+1] = offsets[i] + c.Len()
	}
	return &ChunkedArray{dtype: dtype, chunks: chunks, offsets: offsets}, nil
}

func (a *ChunkedArray) Encoding() EncodingID { return EncodingChunked }
func (a *ChunkedArray) DType() scalar.DType  { return a.dtype }
func (a *ChunkedArray) Len() int             { return a.offsets[len(a.offsets)-1] }
func (a *ChunkedArray) NumChunks() int       { return len(a.chunks) }
func (a *ChunkedArray) Chunk(i int) Array    { return a.chunks[i] }

// chunkFor returns the chunk index containing logical row i and the
// row's offset within that chunk.
func (a *ChunkedArray) chunkFor(i int) (int, int) {
	lo, hi := 0, len(a.chunks)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if a.offsets[mid] <= i {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, i - a.offsets[lo]
}

func (a *ChunkedArray) ScalarAt(i int) (scalar.Scalar, error) {
	ci, off := a.chunkFor(i)
	return a.chunks[ci].ScalarAt(off)
}

func (a *ChunkedArray) Slice(start, stop int) (Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "chunked array: slice [%d,%d) out of range for len %d", start, stop, a.Len())
	}
	startChunk, startOff := a.chunkFor(start)
	var endChunk, endOff int
	if stop == a.Len() {
		endChunk, endOff = len(a.chunks)-1, a.chunks[len(a.chunks)-1].Len()
	} else {
		endChunk, endOff = a.chunkFor(stop)
	}

	var newChunks []Array
	for ci := startChunk; ci <= endChunk; ci++ {
		lo, hi := 0, a.chunks[ci].Len()
		if ci == startChunk {
			lo = startOff
		}
		if ci == endChunk {
			hi = endOff
		}
		if lo == hi {
			continue
		}
		sliced, err := a.chunks[ci].Slice(lo, hi)
		if err != nil {
			return nil, err
		}
		newChunks = append(newChunks, sliced)
	}
	return NewChunked(a.dtype, newChunks)
}

func (a *ChunkedArray) ToCanonical() (Array, error) {
	var allValid []bool
	var scalars []scalar.Scalar
	for _, c := range a.chunks {
		canon, err := c.ToCanonical()
		if err != nil {
			return nil, err
		}
		for i := 0; i < canon.Len(); i++ {
			s, err := canon.ScalarAt(i)
			if err != nil {
				return nil, err
			}
			scalars = append(scalars, s)
			allValid = append(allValid, !s.IsNull())
		}
	}
	return scalarsToCanonical(a.dtype, scalars, allValid)
}

func (a *ChunkedArray) ValidityMask() mask.Mask {
	vals := make([]bool, a.Len())
	idx := 0
	for _, c := range a.chunks {
		m := c.ValidityMask()
		for i := 0; i < c.Len(); i++ {
			vals[idx] = m.Value(i)
			idx++
		}
	}
	return mask.FromBools(vals)
}

func (a *ChunkedArray) Statistics() *Statistics {
	stats := NewStatistics()
	for _, c := range a.chunks {
		stats.Merge(c.Statistics())
	}
	return stats
}

var _ Array = (*ChunkedArray)(nil)
