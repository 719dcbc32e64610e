package sloppy

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func keyFor(i int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(i))
	return b
}

func TestChunkerRespectsMaxRows(t *testing.T) {
	c := NewChunker(2, 1, 4)
	boundaries := 0
	sinceLast := 0
	for i := 0; i < 100; i++ {
		sinceLast++
		if c.Next(keyFor(i)) {
			assert.LessOrEqual(t, sinceLast, 4)
			sinceLast = 0
			boundaries++
		}
	}
	assert.Greater(t, boundaries, 0)
}

func TestChunkerRespectsMinRows(t *testing.T) {
	c := NewChunker(20, 3, 1000)
	sinceLast := 0
	for i := 0; i < 200; i++ {
		sinceLast++
		if c.Next(keyFor(i)) {
			assert.GreaterOrEqual(t, sinceLast, 3)
			sinceLast = 0
		}
	}
}

func TestChunkerDeterministic(t *testing.T) {
	run := func() []bool {
		c := NewChunker(4, 1, 50)
		var out []bool
		for i := 0; i < 60; i++ {
			out = append(out, c.Next(keyFor(i)))
		}
		return out
	}
	assert.Equal(t, run(), run())
}
