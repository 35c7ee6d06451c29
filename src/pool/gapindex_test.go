package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGapIndexAddKeepsSizeAscendingOrder(t *testing.T) {
	bases := map[int]uint64{0: 10, 1: 5, 2: 5, 3: 20}
	baseOf := func(i int) uint64 { return bases[i] }

	var g gapIndex
	g.add(10, 0, baseOf)
	g.add(5, 1, baseOf)
	g.add(20, 3, baseOf)

	assert.Equal(t, []gapEntry{{5, 1}, {10, 0}, {20, 3}}, g.entries)
}

func TestGapIndexAddBreaksSizeTiesByBaseAddress(t *testing.T) {
	bases := map[int]uint64{0: 100, 1: 10}
	baseOf := func(i int) uint64 { return bases[i] }

	var g gapIndex
	g.add(5, 0, baseOf) // base 100
	g.add(5, 1, baseOf) // base 10, same size, lower address

	assert.Equal(t, []gapEntry{{5, 1}, {5, 0}}, g.entries)
}

func TestGapIndexRemoveShiftsRemainingEntriesDown(t *testing.T) {
	baseOf := func(int) uint64 { return 0 }

	var g gapIndex
	g.add(1, 0, baseOf)
	g.add(2, 1, baseOf)
	g.add(3, 2, baseOf)

	assert.True(t, g.remove(1))
	assert.Equal(t, []gapEntry{{1, 0}, {3, 2}}, g.entries)
}

func TestGapIndexRemoveUnknownNodeReportsFalse(t *testing.T) {
	var g gapIndex
	assert.False(t, g.remove(42))
}
