// Package sloppy implements content-defined chunk boundaries for the writer's
// split policy. It adapts the teacher's rolling-hash content chunker (noms's
// own prolly-tree boundary detection, which used a buzhash rolling hash over
// value bytes to decide where a chunk ends) to colvex's row-oriented write
// path: rather than chunking an immutable value DAG, it decides where to cut
// a stream of equal-shape row chunks so that a small edit to the input tends
// to perturb only nearby chunks, not the whole file.
package sloppy

import (
	"github.com/silvasur/buzhash"
)

// DefaultWindow is the rolling-hash window size, in bytes of row key
// material considered at each boundary decision.
const DefaultWindow = 64

// Chunker decides content-defined chunk boundaries over a sequence of rows.
// Callers feed it the byte representation of each row's boundary key (e.g.
// its first column's canonical encoding) via Next; a boundary is signalled
// when the rolling hash's low bits match a target pattern, bounded by
// [minRows, maxRows] so pathological inputs cannot produce unbounded or
// degenerate chunk sizes.
type Chunker struct {
	hash          *buzhash.BuzHash
	bitsPerChunk  uint
	rowsInChunk   int
	minRows       int
	maxRows       int
}

// NewChunker builds a content-defined chunker targeting an average chunk
// size of 2^averageBits rows, never producing a chunk smaller than minRows
// or larger than maxRows.
func NewChunker(averageBits uint, minRows, maxRows int) *Chunker {
	if minRows < 1 {
		minRows = 1
	}
	if maxRows < minRows {
		maxRows = minRows
	}
	return &Chunker{
		hash:         buzhash.NewBuzHash(DefaultWindow),
		bitsPerChunk: averageBits,
		minRows:      minRows,
		maxRows:      maxRows,
	}
}

// Next feeds the next row's boundary key and reports whether a chunk should
// end after this row.
func (c *Chunker) Next(rowKey []byte) bool {
	c.rowsInChunk++
	c.hash.Write(rowKey)

	if c.rowsInChunk >= c.maxRows {
		c.rowsInChunk = 0
		c.hash.Reset()
		return true
	}
	if c.rowsInChunk < c.minRows {
		return false
	}

	mask := uint32(1)<<c.bitsPerChunk - 1
	if c.hash.Sum32()&mask == mask {
		c.rowsInChunk = 0
		c.hash.Reset()
		return true
	}
	return false
}
