package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ucd-os-crimson-s18/poolalloc/src/registry"
	"github.com/ucd-os-crimson-s18/poolalloc/src/status"
)

func TestGrowNodeTableDoublesCapacityPastFillFactor(t *testing.T) {
	r := registry.New()
	assert.NoError(t, r.Init())

	p, err := Open(1_000_000, status.FirstFit, r)
	assert.NoError(t, err)

	startCap := len(p.nodes.nodes)
	assert.Equal(t, NodeTableInitCapacity, startCap)

	// Force enough splits to cross the 0.75 fill factor.
	for i := 0; i < 35; i++ {
		h, err := p.NewAlloc(1)
		assert.NoError(t, err)
		assert.NotNil(t, h)
	}

	assert.Equal(t, startCap*nodeTableExpandFactor, len(p.nodes.nodes))
}

func TestGrowNodeTableRebuildsGapIndexWithoutDoubleCounting(t *testing.T) {
	r := registry.New()
	assert.NoError(t, r.Init())

	p, err := Open(1_000_000, status.FirstFit, r)
	assert.NoError(t, err)

	for i := 0; i < 35; i++ {
		_, err := p.NewAlloc(1)
		assert.NoError(t, err)
	}

	// Exactly one gap survives every split: the ever-shrinking trailing
	// remainder. A rebuild that forgot to reset the counter before
	// re-walking would double it.
	assert.EqualValues(t, 1, p.GapCount())
	assert.Equal(t, 1, p.gaps.len())
}

func TestGrowGapIndexDoublesCapacityPastFillFactor(t *testing.T) {
	r := registry.New()
	assert.NoError(t, r.Init())

	p, err := Open(1_000_000, status.BestFit, r)
	assert.NoError(t, err)

	startCap := cap(p.gaps.entries)
	assert.Equal(t, GapIndexInitCapacity, startCap)

	var handles []*AllocationHandle
	for i := 0; i < 80; i++ {
		h, err := p.NewAlloc(1)
		assert.NoError(t, err)
		handles = append(handles, h)
	}
	// Free every other allocation so each freed node is isolated between
	// two still-allocated neighbors — no coalescing collapses the count —
	// letting enough distinct gaps coexist to cross the gap index's own
	// load factor independently of the node table's.
	for i := 0; i < len(handles); i += 2 {
		assert.NoError(t, p.DelAlloc(handles[i]))
	}

	assert.Greater(t, cap(p.gaps.entries), startCap)
}
