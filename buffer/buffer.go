// Package buffer implements colvex's aligned, reference-counted byte
// buffers (spec §4.2): ByteBuffer plus typed Buffer[T]/BufferMut[T] views.
// Grounded on spec.md's description of the Rust vortex_buffer crate (no Go
// source survived retrieval for this concern); alignment and refcounting
// are expressed with the standard library since nothing in the pack offers
// a more specialized aligned-buffer primitive.
package buffer

import (
	"sync/atomic"

	"github.com/colvex/colvex/colvexerr"
)

// Align is the alignment, in bytes, that typed buffers guarantee — large
// enough for the widest SIMD lane a commodity platform uses.
const Align = 64

// ByteBuffer is a shared, aligned, immutable byte slice. Multiple owners
// share the same backing array via a refcount; the count exists purely so
// BufferMut.TryIntoMut can detect unique ownership, since Go's GC already
// reclaims the backing array once all owners are dropped.
type ByteBuffer struct {
	data    []byte
	refs    *int32
}

// NewByteBuffer wraps data, padding/copying into an aligned allocation if
// necessary.
func NewByteBuffer(data []byte) ByteBuffer {
	aligned := alignAlloc(len(data))
	copy(aligned, data)
	one := int32(1)
	return ByteBuffer{data: aligned[:len(data)], refs: &one}
}

// EmptyByteBuffer returns a zero-length buffer.
func EmptyByteBuffer() ByteBuffer { return NewByteBuffer(nil) }

func alignAlloc(n int) []byte {
	// Go's allocator does not expose an alignment hint for byte slices
	// below a page; over-allocate and slice from the first aligned
	// offset, matching the guarantee typed buffers need for SIMD-style
	// gathers without depending on platform intrinsics.
	buf := make([]byte, n+Align)
	addr := uintptrOf(buf)
	pad := (Align - int(addr%Align)) % Align
	return buf[pad : pad+n : pad+n]
}

func (b ByteBuffer) Bytes() []byte { return b.data }
func (b ByteBuffer) Len() int      { return len(b.data) }

// Retain increments the shared refcount, returning a new handle to the
// same backing bytes.
func (b ByteBuffer) Retain() ByteBuffer {
	atomic.AddInt32(b.refs, 1)
	return b
}

// Release decrements the shared refcount. Go's GC, not Release, reclaims
// memory; Release exists only so RefCount()/TryIntoMut can reason about
// unique ownership.
func (b ByteBuffer) Release() {
	atomic.AddInt32(b.refs, -1)
}

// RefCount returns the current number of outstanding handles.
func (b ByteBuffer) RefCount() int32 {
	return atomic.LoadInt32(b.refs)
}

// Slice returns the logical subrange [start, stop), sharing the backing
// array (O(1), no copy).
func (b ByteBuffer) Slice(start, stop int) (ByteBuffer, error) {
	if start < 0 || stop < start || stop > len(b.data) {
		return ByteBuffer{}, colvexerr.New(colvexerr.InvalidInput, "slice [%d,%d) out of range for buffer of len %d", start, stop, len(b.data))
	}
	return ByteBuffer{data: b.data[start:stop], refs: b.refs}, nil
}
