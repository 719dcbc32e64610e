package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBoolsCollapsesUniform(t *testing.T) {
	assert.True(t, FromBools([]bool{true, true, true}).IsAllTrue())
	assert.True(t, FromBools([]bool{false, false}).IsAllFalse())

	mixed := FromBools([]bool{true, false, true})
	assert.False(t, mixed.IsAllTrue())
	assert.False(t, mixed.IsAllFalse())
	assert.Equal(t, 2, mixed.TrueCount())
}

func TestFromIndices(t *testing.T) {
	m := FromIndices(5, []int{1, 3})
	assert.Equal(t, []int{1, 3}, m.Indices())
	assert.Equal(t, 2, m.TrueCount())
}

func TestBitAndOrNot(t *testing.T) {
	a := FromBools([]bool{true, true, false, false})
	b := FromBools([]bool{true, false, true, false})

	assert.Equal(t, []int{0}, BitAnd(a, b).Indices())
	assert.Equal(t, []int{0, 1, 2}, BitOr(a, b).Indices())
	assert.Equal(t, []int{2, 3}, Not(a).Indices())
}

func TestBitAndShortCircuitsOnAllFalse(t *testing.T) {
	allFalse := AllFalse(4)
	other := FromBools([]bool{true, true, true, true})
	assert.True(t, BitAnd(allFalse, other).IsAllFalse())
	assert.True(t, BitAnd(other, allFalse).IsAllFalse())
}

func TestDensity(t *testing.T) {
	m := FromBools([]bool{true, true, false, false})
	assert.InDelta(t, 0.5, m.Density(), 1e-9)
}

func TestSlice(t *testing.T) {
	m := FromBools([]bool{true, false, true, true, false})
	sub := m.Slice(1, 4)
	assert.Equal(t, []int{1, 2}, sub.Indices())
}
