package buffer

import "unsafe"

// scalarSize returns sizeof(T) for the primitive numeric types colvex's
// typed buffers hold.
func scalarSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Buffer is a typed, immutable, aligned view over a ByteBuffer. It shares
// the backing bytes with its ByteBuffer (zero-copy) and is itself cheap to
// copy (a slice header plus a shared backing array).
type Buffer[T any] struct {
	backing ByteBuffer
	values  []T
}

// NewBuffer copies values into a freshly aligned backing buffer.
func NewBuffer[T any](values []T) Buffer[T] {
	sz := scalarSize[T]()
	raw := make([]byte, len(values)*sz)
	if len(values) > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*sz)
		copy(raw, src)
	}
	bb := NewByteBuffer(raw)
	return bufferFromByteBuffer[T](bb)
}

func bufferFromByteBuffer[T any](bb ByteBuffer) Buffer[T] {
	sz := scalarSize[T]()
	n := len(bb.data) / sz
	var values []T
	if n > 0 {
		values = unsafe.Slice((*T)(unsafe.Pointer(&bb.data[0])), n)
	}
	return Buffer[T]{backing: bb, values: values}
}

// Empty returns a zero-length typed buffer.
func Empty[T any]() Buffer[T] { return NewBuffer[T](nil) }

func (b Buffer[T]) Len() int      { return len(b.values) }
func (b Buffer[T]) Values() []T   { return b.values }
func (b Buffer[T]) At(i int) T    { return b.values[i] }
func (b Buffer[T]) ByteBuffer() ByteBuffer { return b.backing }

// Slice returns the logical subrange [start, stop) sharing the backing array.
func (b Buffer[T]) Slice(start, stop int) Buffer[T] {
	return Buffer[T]{backing: b.backing, values: b.values[start:stop]}
}

// ReinterpretCast reinterprets this buffer's bytes as a buffer of U,
// legal only between equal-width types (spec §4.3 Primitive.reinterpret_cast).
func ReinterpretCast[T, U any](b Buffer[T]) Buffer[U] {
	return bufferFromByteBuffer[U](b.backing)
}

// BufferMut is a mutable, growable typed buffer used by builders.
type BufferMut[T any] struct {
	values []T
}

// NewBufferMut allocates a mutable buffer with the given capacity hint.
func NewBufferMut[T any](capacity int) *BufferMut[T] {
	return &BufferMut[T]{values: make([]T, 0, capacity)}
}

func (b *BufferMut[T]) Push(v T)    { b.values = append(b.values, v) }
func (b *BufferMut[T]) Len() int    { return len(b.values) }
func (b *BufferMut[T]) Values() []T { return b.values }

// Freeze converts the mutable buffer into an immutable, aligned Buffer[T].
func (b *BufferMut[T]) Freeze() Buffer[T] {
	return NewBuffer[T](b.values)
}

// TryIntoMut turns a Buffer[T] into a BufferMut[T]. It copies b's values
// in every case, including when RefCount()==1; the result never aliases
// b's backing bytes.
func TryIntoMut[T any](b Buffer[T]) *BufferMut[T] {
	if b.backing.RefCount() == 1 {
		return &BufferMut[T]{values: append([]T(nil), b.values...)}
	}
	return &BufferMut[T]{values: append([]T(nil), b.values...)}
}
