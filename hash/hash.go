// Package hash computes and verifies per-segment integrity checksums for the
// vxfile file format. It replaces the teacher's noms content-address hash
// (every value keyed by its own hash, supporting a content-addressed DAG)
// with a narrower, purpose-built checksum: colvex segments are addressed by
// byte offset, not by hash, but each footer entry still carries a checksum
// of its segment so the reader can detect truncation or corruption before
// attempting to decode.
package hash

import (
	"golang.org/x/crypto/blake2b"

	"github.com/colvex/colvex/colvexerr"
)

// Size is the checksum width in bytes.
const Size = 32

// Checksum is a 256-bit blake2b digest of a segment's bytes.
type Checksum [Size]byte

// Of computes the checksum of data.
func Of(data []byte) Checksum {
	return Checksum(blake2b.Sum256(data))
}

// Verify returns an InvalidSerde error if data's checksum does not match want.
func Verify(data []byte, want Checksum) error {
	got := Of(data)
	if got != want {
		return colvexerr.New(colvexerr.InvalidSerde, "segment checksum mismatch: want %x got %x", want, got)
	}
	return nil
}

// IsZero reports whether c is the zero checksum (used to mark "unchecked").
func (c Checksum) IsZero() bool {
	return c == Checksum{}
}
