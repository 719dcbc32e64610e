package bitpacked

// unpackBits reads the bitWidth-bit unsigned value at logical position
// pos from a tightly packed little-endian bitstream, where position i
// occupies bits [i*bitWidth, (i+1)*bitWidth).
func unpackBits(packed []byte, pos, bitWidth int) uint64 {
	if bitWidth == 0 {
		return 0
	}
	bitOffset := pos * bitWidth
	byteOffset := bitOffset / 8
	bitShift := uint(bitOffset % 8)

	var v uint64
	bitsRead := 0
	byteIdx := byteOffset
	for bitsRead < bitWidth {
		var b byte
		if byteIdx < len(packed) {
			b = packed[byteIdx]
		}
		avail := 8 - int(bitShift)
		take := bitWidth - bitsRead
		if take > avail {
			take = avail
		}
		mask := byte((1 << uint(take)) - 1)
		chunk := (b >> bitShift) & mask
		v |= uint64(chunk) << uint(bitsRead)
		bitsRead += take
		bitShift = 0
		byteIdx++
	}
	return v
}

// packBits writes value (truncated to bitWidth bits) at logical position
// pos into packed, which must already be sized by packedByteSize.
func packBits(packed []byte, pos, bitWidth int, value uint64) {
	if bitWidth == 0 {
		return
	}
	bitOffset := pos * bitWidth
	byteOffset := bitOffset / 8
	bitShift := uint(bitOffset % 8)

	bitsWritten := 0
	byteIdx := byteOffset
	for bitsWritten < bitWidth {
		avail := 8 - int(bitShift)
		take := bitWidth - bitsWritten
		if take > avail {
			take = avail
		}
		chunkMask := byte((1 << uint(take)) - 1)
		chunk := byte(value>>uint(bitsWritten)) & chunkMask
		packed[byteIdx] |= chunk << bitShift
		bitsWritten += take
		bitShift = 0
		byteIdx++
	}
}
