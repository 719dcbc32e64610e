package vxfile

import (
	"github.com/colvex/colvex/layout"
	"github.com/colvex/colvex/sloppy"
)

// SplitPolicy decides how a scan's row range is broken into the
// independent splits a stream yields one array per (spec §4.12's
// "optional split policy", §6.2 `with_split_by`).
type SplitPolicy interface {
	splitRanges(f *File) ([]layout.RowRange, error)
}

// defaultSplitPolicy reuses the layout's own write-time chunk boundaries
// rather than recomputing a new set: the root layout is a ColumnarLayout
// wrapping one ChunkedLayout per field (TableWriter writes every column
// from the same incoming chunk stream, so columns share chunk
// boundaries), or a bare ChunkedLayout, in which case its own boundaries
// are used directly. Anything else scans as a single split.
type defaultSplitPolicy struct{}

func (defaultSplitPolicy) splitRanges(f *File) ([]layout.RowRange, error) {
	root := f.footer
	if col, ok := root.(*layout.ColumnarLayout); ok && col.NumFields() > 0 {
		if chunked, ok := col.Child(0).(*layout.ChunkedLayout); ok {
			return chunkRanges(chunked), nil
		}
	}
	if chunked, ok := root.(*layout.ChunkedLayout); ok {
		return chunkRanges(chunked), nil
	}
	return []layout.RowRange{{Start: 0, End: f.RowCount()}}, nil
}

func chunkRanges(l *layout.ChunkedLayout) []layout.RowRange {
	ranges := make([]layout.RowRange, l.NumChildren())
	for i := range ranges {
		ranges[i] = l.ChunkRange(i)
	}
	return ranges
}

// rowCountSplitPolicy splits the file's full row range into fixed-size
// windows of n rows each (spec §4.12: `SplitBy::RowCount(n)`).
type rowCountSplitPolicy struct {
	n uint64
}

// SplitByRowCount returns a split policy that breaks a scan into windows
// of n rows each, the last window possibly shorter.
func SplitByRowCount(n uint64) SplitPolicy {
	if n == 0 {
		n = 1
	}
	return rowCountSplitPolicy{n: n}
}

func (s rowCountSplitPolicy) splitRanges(f *File) ([]layout.RowRange, error) {
	total := f.RowCount()
	var ranges []layout.RowRange
	for start := uint64(0); start < total; start += s.n {
		end := start + s.n
		if end > total {
			end = total
		}
		ranges = append(ranges, layout.RowRange{Start: start, End: end})
	}
	if len(ranges) == 0 {
		ranges = append(ranges, layout.RowRange{Start: 0, End: 0})
	}
	return ranges, nil
}

// contentHashSplitPolicy breaks a scan at content-defined boundaries over
// the file schema's first column (each row keyed by the bytes of its
// scalar's string form, whatever the projection), adapting
// dolt's buzhash-based prolly-tree boundary detection (here via the
// sloppy package) to the read path: a small edit to the underlying data
// perturbs only the splits near it rather than shifting every downstream
// boundary.
type contentHashSplitPolicy struct {
	averageBits uint
	minRows     int
	maxRows     int
}

// SplitByContentHash returns a split policy that targets an average
// split size of 2^averageBits rows, bounded to [minRows, maxRows],
// choosing boundaries from a rolling hash over row content rather than a
// fixed stride.
func SplitByContentHash(averageBits uint, minRows, maxRows int) SplitPolicy {
	return contentHashSplitPolicy{averageBits: averageBits, minRows: minRows, maxRows: maxRows}
}

func (s contentHashSplitPolicy) splitRanges(f *File) ([]layout.RowRange, error) {
	total := f.RowCount()
	if total == 0 {
		return []layout.RowRange{{Start: 0, End: 0}}, nil
	}

	names := f.dtype.Fields()
	if len(names) == 0 {
		return rowCountSplitPolicy{n: uint64(s.maxRows)}.splitRanges(f)
	}

	reader, err := f.footer.Reader(f.segments)
	if err != nil {
		return nil, err
	}
	keyCol, err := reader.ProjectionEvaluation(layout.RowRange{Start: 0, End: total}, identGetItem(names[0].Name))
	if err != nil {
		return nil, err
	}
	keyArray, err := keyCol.Invoke(allTrueMask(int(total)))
	if err != nil {
		return nil, err
	}
	canon, err := keyArray.ToCanonical()
	if err != nil {
		return nil, err
	}

	chunker := sloppy.NewChunker(s.averageBits, s.minRows, s.maxRows)
	var ranges []layout.RowRange
	start := uint64(0)
	for i := 0; i < canon.Len(); i++ {
		v, err := canon.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if chunker.Next([]byte(v.String())) {
			end := uint64(i) + 1
			ranges = append(ranges, layout.RowRange{Start: start, End: end})
			start = end
		}
	}
	if start < total {
		ranges = append(ranges, layout.RowRange{Start: start, End: total})
	}
	return ranges, nil
}
