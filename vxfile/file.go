package vxfile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/layout"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// File is an opened colvex file: its schema and footer (layout tree) have
// been parsed, and its segments are reachable through segments (spec
// §6.1, §6.2's `open(segment_source, path) -> File`).
type File struct {
	dtype    scalar.DType
	footer   layout.Layout
	segments layout.SegmentSource
}

// Open parses the trailing EOF region, postscript, segment table, schema
// and footer out of raw, a complete file image, and wraps its data region
// behind a layout.SegmentSource. raw must hold the entire file; colvex
// files are not designed to be opened incrementally from a stream (spec
// §6.1 describes a random-access reader, not a sequential one).
func Open(raw []byte) (*File, error) {
	if len(raw) < EOFSize+PostscriptSize {
		return nil, colvexerr.New(colvexerr.InvalidSerde, "colvex file: too short (%d bytes)", len(raw))
	}

	eof := raw[len(raw)-EOFSize:]
	if err := checkEOF(eof); err != nil {
		return nil, err
	}

	psBytes := raw[len(raw)-EOFSize-PostscriptSize : len(raw)-EOFSize]
	ps, err := decodePostscript(psBytes)
	if err != nil {
		return nil, err
	}

	end := uint64(len(raw)) - EOFSize - PostscriptSize
	if ps.segmentTableOffset > ps.schemaOffset || ps.schemaOffset > ps.footerOffset || ps.footerOffset+ps.footerLen > end {
		return nil, colvexerr.New(colvexerr.InvalidSerde, "colvex file: postscript offsets out of range")
	}
	if ps.footerLen > MaxFooterSize {
		return nil, colvexerr.New(colvexerr.InvalidSerde, "colvex file: footer size %d exceeds maximum %d", ps.footerLen, MaxFooterSize)
	}

	segTableBytes := raw[ps.segmentTableOffset:ps.schemaOffset]
	segTable, err := decodeSegmentTable(segTableBytes)
	if err != nil {
		return nil, err
	}

	schemaBytes := raw[ps.schemaOffset:ps.footerOffset]
	dtype, rest, err := DecodeDType(schemaBytes)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, colvexerr.New(colvexerr.InvalidSerde, "colvex file: %d trailing bytes in schema region", len(rest))
	}

	footerBytes := raw[ps.footerOffset : ps.footerOffset+ps.footerLen]
	footer, rest, err := DecodeLayout(dtype, footerBytes)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, colvexerr.New(colvexerr.InvalidSerde, "colvex file: %d trailing bytes in footer region", len(rest))
	}

	data := raw[:ps.segmentTableOffset]
	segments := newFileSegmentSource(data, segTable)

	return &File{dtype: dtype, footer: footer, segments: segments}, nil
}

// DType returns the file's root schema.
func (f *File) DType() scalar.DType { return f.dtype }

// RowCount returns the file's total row count.
func (f *File) RowCount() uint64 { return f.footer.RowCount() }

// Scan returns a builder for a read over this file (spec §6.2).
func (f *File) Scan() *ScanBuilder {
	return &ScanBuilder{
		file:       f,
		projection: expr.Ident,
	}
}

// ScanBuilder accumulates scan options (spec §6.2's builder surface:
// with_projection / with_filter / with_row_indices / with_split_by /
// with_canonicalize).
type ScanBuilder struct {
	file         *File
	projection   expr.Expr
	filter       expr.Expr
	rowIndices   []uint64
	splitPolicy  SplitPolicy
	canonicalize bool
}

// WithProjection sets the projection expression; its result dtype must be
// a struct (checked lazily, at stream construction).
func (b *ScanBuilder) WithProjection(e expr.Expr) *ScanBuilder {
	b.projection = e
	return b
}

// WithFilter sets an optional boolean filter expression; a null result is
// treated as false (spec §6.2).
func (b *ScanBuilder) WithFilter(e expr.Expr) *ScanBuilder {
	b.filter = e
	return b
}

// WithRowIndices restricts the scan to an explicit, sorted, unique set of
// row indices, applied as a pre-filter before the filter expression.
func (b *ScanBuilder) WithRowIndices(indices []uint64) *ScanBuilder {
	b.rowIndices = indices
	return b
}

// WithSplitBy overrides the default split policy.
func (b *ScanBuilder) WithSplitBy(policy SplitPolicy) *ScanBuilder {
	b.splitPolicy = policy
	return b
}

// WithCanonicalize requests that every yielded array be canonicalized
// before it reaches the consumer.
func (b *ScanBuilder) WithCanonicalize(v bool) *ScanBuilder {
	b.canonicalize = v
	return b
}

// IntoArrayStream validates the builder and returns a stream yielding one
// array per split (spec §6.2's `into_array_stream`).
func (b *ScanBuilder) IntoArrayStream() (*ArrayStream, error) {
	projDType, err := b.projection.ReturnDType(b.file.dtype)
	if err != nil {
		return nil, err
	}
	if projDType.Kind() != scalar.KindStruct {
		return nil, colvexerr.New(colvexerr.InvalidInput, "scan: projection must return a struct, got %s", projDType)
	}

	policy := b.splitPolicy
	if policy == nil {
		policy = defaultSplitPolicy{}
	}
	ranges, err := policy.splitRanges(b.file)
	if err != nil {
		return nil, err
	}
	if len(b.rowIndices) > 0 {
		ranges = intersectRowIndices(ranges, b.rowIndices)
	}

	reader, err := b.file.footer.Reader(b.file.segments)
	if err != nil {
		return nil, err
	}

	return newArrayStream(reader, ranges, b.projection, b.filter, b.rowIndices, b.canonicalize), nil
}

// intersectRowIndices drops any split that contains none of the
// requested row indices, since those rows can never select anything.
// indices must be sorted and unique (spec §6.2).
func intersectRowIndices(ranges []layout.RowRange, indices []uint64) []layout.RowRange {
	var out []layout.RowRange
	j := 0
	for _, rr := range ranges {
		for j < len(indices) && indices[j] < rr.Start {
			j++
		}
		if j < len(indices) && indices[j] < rr.End {
			out = append(out, rr)
		}
	}
	return out
}

// streamPrefetch bounds how many splits are evaluated concurrently ahead
// of the consumer (spec §5: "splits are independent and may be driven in
// parallel by the host executor").
const streamPrefetch = 4

// ArrayStream yields one projected array per split, in split order (spec
// §5's ordering guarantee: "Outputs of a chunked scan preserve chunk
// order"). Splits are evaluated by a bounded pool of goroutines ahead of
// the consumer via errgroup, then delivered to Next in order.
type ArrayStream struct {
	results chan streamResult
	cancel  func()
}

type streamResult struct {
	arr array.Array
	err error
}

func newArrayStream(reader layout.Reader, ranges []layout.RowRange, projection, filter expr.Expr, rowIndices []uint64, canonicalize bool) *ArrayStream {
	out := make(chan streamResult, streamPrefetch)
	g, ctx := errgroup.WithContext(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(out)
		sem := make(chan struct{}, streamPrefetch)
		slots := make([]chan streamResult, len(ranges))
		for i := range slots {
			slots[i] = make(chan streamResult, 1)
		}
		for i, rr := range ranges {
			i, rr := i, rr
			select {
			case sem <- struct{}{}:
			case <-done:
				return
			}
			g.Go(func() error {
				defer func() { <-sem }()
				arr, err := evalSplit(reader, rr, projection, filter, rowIndices, canonicalize)
				select {
				case slots[i] <- streamResult{arr: arr, err: err}:
				case <-done:
				}
				return nil
			})
		}
		for i := range slots {
			select {
			case r := <-slots[i]:
				select {
				case out <- r:
				case <-done:
					return
				}
				if r.err != nil {
					return
				}
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
		_ = g.Wait()
	}()

	return &ArrayStream{results: out, cancel: func() { close(done) }}
}

// Next returns the next split's projected array, or ok=false once every
// split has been delivered (or the stream was cancelled).
func (s *ArrayStream) Next() (a array.Array, ok bool, err error) {
	r, open := <-s.results
	if !open {
		return nil, false, nil
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return r.arr, true, nil
}

// Close stops the stream: splits not yet started are never evaluated and
// results not yet delivered are discarded, so nothing reaches Next after
// Close returns. A split whose evaluation is already running finishes,
// and its result is dropped.
func (s *ArrayStream) Close() {
	s.cancel()
	for range s.results {
	}
}

func evalSplit(reader layout.Reader, rr layout.RowRange, projection, filter expr.Expr, rowIndices []uint64, canonicalize bool) (array.Array, error) {
	m := mask.AllTrue(rr.Len())
	if len(rowIndices) > 0 {
		m = rowIndexMask(rr, rowIndices)
	}

	if filter != nil {
		pruneEval, err := reader.PruningEvaluation(rr, filter)
		if err != nil {
			return nil, err
		}
		m, err = pruneEval.Invoke(m)
		if err != nil {
			return nil, err
		}
		if !m.IsAllFalse() {
			filterEval, err := reader.FilterEvaluation(rr, filter)
			if err != nil {
				return nil, err
			}
			m, err = filterEval.Invoke(m)
			if err != nil {
				return nil, err
			}
		}
	}

	projEval, err := reader.ProjectionEvaluation(rr, projection)
	if err != nil {
		return nil, err
	}
	result, err := projEval.Invoke(m)
	if err != nil {
		return nil, err
	}
	if canonicalize {
		return result.ToCanonical()
	}
	return result, nil
}

func rowIndexMask(rr layout.RowRange, indices []uint64) mask.Mask {
	vals := make([]bool, rr.Len())
	for _, idx := range indices {
		if idx >= rr.Start && idx < rr.End {
			vals[idx-rr.Start] = true
		}
	}
	return mask.FromBools(vals)
}

func identGetItem(field string) expr.Expr {
	return expr.GetItem(field, expr.Ident)
}

func allTrueMask(n int) mask.Mask {
	return mask.AllTrue(n)
}
