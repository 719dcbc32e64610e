package layout

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/config"
	"github.com/colvex/colvex/scalar"
)

// ColumnWriter accumulates a stream of equal-dtype chunks for one column,
// writing each as a flat layout and tracking zone-map statistics, then
// emits a chunked layout (spec §4.11: "For each column, a ColumnWriter
// accumulates chunk byte ranges and per-chunk statistics... a chunked
// layout is emitted per column").
type ColumnWriter struct {
	dtype   scalar.DType
	flat    *FlatLayoutWriter
	zoneAcc *ZoneMapAccumulator
	chunks  []Layout
}

// NewColumnWriter starts a column writer for dtype.
func NewColumnWriter(dtype scalar.DType, cfg config.ZoneMap) *ColumnWriter {
	return &ColumnWriter{
		dtype:   dtype,
		flat:    NewFlatLayoutWriter(dtype),
		zoneAcc: NewZoneMapAccumulator(dtype, cfg),
	}
}

// PushChunk writes chunk to a fresh segment and folds its statistics into
// the column's zone map.
func (w *ColumnWriter) PushChunk(segments *MemorySegments, chunk array.Array) error {
	flatLayout, err := w.flat.Write(segments, chunk)
	if err != nil {
		return err
	}
	if err := w.zoneAcc.PushChunk(chunk); err != nil {
		return err
	}
	w.chunks = append(w.chunks, flatLayout)
	return nil
}

// Finish composes the written chunks (and their zone map, if any chunk
// was pushed) into a chunked layout.
func (w *ColumnWriter) Finish() (*ChunkedLayout, error) {
	zm, err := w.zoneAcc.Finish()
	if err != nil {
		return nil, err
	}
	return NewChunkedLayout(w.dtype, w.chunks, zm)
}

// TableWriter accumulates a stream of equal-shape struct-array chunks,
// one ColumnWriter per field, and composes the result into a columnar
// layout (spec §4.11: "columns are composed into a columnar layout; the
// root is written").
type TableWriter struct {
	dtype   scalar.DType
	names   []string
	columns []*ColumnWriter
}

// NewTableWriter starts a table writer for structDType, which must be a
// struct dtype.
func NewTableWriter(structDType scalar.DType, cfg config.ZoneMap) (*TableWriter, error) {
	if structDType.Kind() != scalar.KindStruct {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "table writer: expected struct dtype, got %s", structDType)
	}
	fields := structDType.Fields()
	names := make([]string, len(fields))
	columns := make([]*ColumnWriter, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		columns[i] = NewColumnWriter(f.DType, cfg)
	}
	return &TableWriter{dtype: structDType, names: names, columns: columns}, nil
}

// PushChunk splits chunk into its fields and pushes each into its
// column's writer.
func (w *TableWriter) PushChunk(segments *MemorySegments, chunk *array.StructArray) error {
	if !chunk.DType().Equal(w.dtype) {
		return colvexerr.New(colvexerr.MismatchedTypes, "table writer: chunk dtype %s != declared %s", chunk.DType(), w.dtype)
	}
	for i, name := range w.names {
		field, ok := chunk.FieldByName(name)
		if !ok {
			return colvexerr.New(colvexerr.InvalidInput, "table writer: chunk missing field %q", name)
		}
		if err := w.columns[i].PushChunk(segments, field); err != nil {
			return err
		}
	}
	return nil
}

// Finish composes every column's chunked layout into the table's
// columnar layout.
func (w *TableWriter) Finish() (*ColumnarLayout, error) {
	children := make([]Layout, len(w.columns))
	for i, c := range w.columns {
		chunked, err := c.Finish()
		if err != nil {
			return nil, err
		}
		children[i] = chunked
	}
	return NewColumnarLayout(w.dtype, children)
}
