// Package vxfile implements colvex's standalone on-disk file format (spec
// §4.11, §6.1): magic bytes, version, postscript, schema, footer (layout
// tree), and segment data regions, plus the scan builder surface (spec
// §6.2). Grounded on
// `_examples/original_source/vortex-file/src/lib.rs`'s documented section
// table and `forever_constant` module for every byte-exact constant.
package vxfile

import (
	"encoding/binary"

	"github.com/colvex/colvex/colvexerr"
)

const (
	// FileExtension is the conventional extension for colvex files.
	FileExtension = ".vortex"

	// MagicBytes opens the EOF region; ASCII "VTXF".
	MagicBytes = "VTXF"

	// Version is the current file format version. A reader refuses to
	// open a file whose major version (this whole field, since there is
	// only one version so far) does not match (spec §6.1).
	Version uint32 = 1

	// EOFSize is the length of the trailing region a reader reads first:
	// version (4 bytes) followed by magic bytes (4 bytes).
	EOFSize = 8

	// MaxFooterSize bounds how large the footer (layout tree) region may
	// be, matching the Rust format's u16::MAX - 8.
	MaxFooterSize = 65527

	// PostscriptSize is the fixed-size trailer preceding the EOF region:
	// four little-endian uint64 offsets (segment table, schema, footer
	// start, footer length). The original format's postscript also
	// encodes two offsets in 32 bytes via a flatbuffer message; this port
	// reuses the same 32-byte budget without flatbuffers, spending it on
	// an explicit fourth offset (the segment table) that this format
	// needs because segments are addressed by id rather than by raw
	// offset (see segments.go).
	PostscriptSize = 32
)

// postscript is the fixed trailer giving the offsets of every variable
// length region preceding it.
type postscript struct {
	segmentTableOffset uint64
	schemaOffset       uint64
	footerOffset       uint64
	footerLen          uint64
}

func (p postscript) encode() []byte {
	buf := make([]byte, PostscriptSize)
	binary.LittleEndian.PutUint64(buf[0:8], p.segmentTableOffset)
	binary.LittleEndian.PutUint64(buf[8:16], p.schemaOffset)
	binary.LittleEndian.PutUint64(buf[16:24], p.footerOffset)
	binary.LittleEndian.PutUint64(buf[24:32], p.footerLen)
	return buf
}

func decodePostscript(buf []byte) (postscript, error) {
	if len(buf) != PostscriptSize {
		return postscript{}, colvexerr.New(colvexerr.InvalidSerde, "postscript: expected %d bytes, got %d", PostscriptSize, len(buf))
	}
	return postscript{
		segmentTableOffset: binary.LittleEndian.Uint64(buf[0:8]),
		schemaOffset:       binary.LittleEndian.Uint64(buf[8:16]),
		footerOffset:       binary.LittleEndian.Uint64(buf[16:24]),
		footerLen:          binary.LittleEndian.Uint64(buf[24:32]),
	}, nil
}

func encodeEOF() []byte {
	buf := make([]byte, EOFSize)
	binary.LittleEndian.PutUint32(buf[0:4], Version)
	copy(buf[4:8], MagicBytes)
	return buf
}

// checkEOF validates the trailing EOFSize bytes of a file, refusing to
// open a file with the wrong magic or an unsupported version (spec
// §6.1).
func checkEOF(buf []byte) error {
	if len(buf) != EOFSize {
		return colvexerr.New(colvexerr.InvalidSerde, "eof region: expected %d bytes, got %d", EOFSize, len(buf))
	}
	version := binary.LittleEndian.Uint32(buf[0:4])
	magic := string(buf[4:8])
	if magic != MagicBytes {
		return colvexerr.New(colvexerr.InvalidSerde, "not a colvex file: bad magic bytes %q", magic)
	}
	if version != Version {
		return colvexerr.New(colvexerr.NotSupported, "colvex file version %d unsupported (reader supports %d)", version, Version)
	}
	return nil
}
