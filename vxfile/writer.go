package vxfile

import (
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/hash"
	"github.com/colvex/colvex/layout"
)

// Writer assembles a finished table layout and its backing segments into
// one contiguous colvex file image (spec §4.11's writer pipeline: "the
// root is written; then the schema; then the postscript; then EOF").
type Writer struct {
	segments *layout.MemorySegments
	root     layout.Layout
}

// NewWriter wraps the output of a layout.TableWriter (its finished
// columnar layout plus the MemorySegments its chunks were written into)
// ready to be serialized.
func NewWriter(segments *layout.MemorySegments, root layout.Layout) *Writer {
	return &Writer{segments: segments, root: root}
}

// Bytes serializes the file: data region, segment table, schema region,
// footer region, postscript, EOF, in that order (spec §4.11, §6.1).
func (w *Writer) Bytes() ([]byte, error) {
	entries := w.segments.All()

	var data []byte
	table := make([]segmentTableEntry, len(entries))
	for i, e := range entries {
		table[i] = segmentTableEntry{
			id:       e.ID,
			offset:   uint64(len(data)),
			length:   uint64(len(e.Data)),
			checksum: hash.Of(e.Data),
		}
		data = append(data, e.Data...)
	}
	segTableOffset := uint64(len(data))
	segTableBytes := encodeSegmentTable(table)

	schemaOffset := segTableOffset + uint64(len(segTableBytes))
	schemaBytes := appendDType(nil, w.root.DType())

	footerOffset := schemaOffset + uint64(len(schemaBytes))
	footerBytes, err := EncodeLayout(w.root)
	if err != nil {
		return nil, err
	}
	if uint64(len(footerBytes)) > MaxFooterSize {
		return nil, colvexerr.New(colvexerr.InvalidInput, "colvex file: footer size %d exceeds maximum %d", len(footerBytes), MaxFooterSize)
	}

	ps := postscript{
		segmentTableOffset: segTableOffset,
		schemaOffset:       schemaOffset,
		footerOffset:       footerOffset,
		footerLen:          uint64(len(footerBytes)),
	}

	out := make([]byte, 0, footerOffset+uint64(len(footerBytes))+PostscriptSize+EOFSize)
	out = append(out, data...)
	out = append(out, segTableBytes...)
	out = append(out, schemaBytes...)
	out = append(out, footerBytes...)
	out = append(out, ps.encode()...)
	out = append(out, encodeEOF()...)
	return out, nil
}
