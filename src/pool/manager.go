// Package pool is the in-pool region allocator: node table, gap index,
// first-fit/best-fit policy, coalescing, and the growth policy for its
// auxiliary tables. This is the core spec.md describes; everything else in
// this repository (region, registry, report) is a collaborator it calls
// into or is called by.
package pool

import (
	"fmt"
	"os"

	"github.com/ucd-os-crimson-s18/poolalloc/src/region"
	"github.com/ucd-os-crimson-s18/poolalloc/src/registry"
	"github.com/ucd-os-crimson-s18/poolalloc/src/status"
)

// errClosed is returned by Inspect and NewAlloc on a pool whose handle has
// already been invalidated by a successful Close. DelAlloc and Bytes report
// a closed pool with plain status.ErrNotFound, and Close with
// status.ErrNotFreed.
var errClosed = fmt.Errorf("%w: pool is closed", status.ErrNotFound)

// Pool owns one backing region and its node table / gap index, and tracks
// the pool-wide counters spec.md §3 names.
type Pool struct {
	region *region.Region

	totalSize  uint64
	policy     status.Policy
	allocBytes uint64
	allocCount uint
	gapCount   uint

	nodes nodeTable
	gaps  gapIndex
	head  int

	reg    *registry.Registry
	regID  int
	closed bool
}

// AllocationHandle is a stable, generation-tagged surrogate for an
// allocated node. It remains valid across node-table growth — per spec.md
// §5's aliasing contract — because it names a node table slot by index
// and generation rather than by address.
type AllocationHandle struct {
	index      int
	generation uint64
}

// Open acquires a backing region of size bytes, initializes the node
// table and gap index with a single gap node spanning the whole region,
// and registers the pool with reg. It returns a nil handle on any
// sub-allocation failure, having released whatever it had already
// acquired — spec.md §4.1's "all partial acquisitions are released" rule.
func Open(size uint, policy status.Policy, reg *registry.Registry) (*Pool, error) {
	if size == 0 {
		return nil, fmt.Errorf("pool: size must be > 0")
	}
	if policy != status.FirstFit && policy != status.BestFit {
		return nil, fmt.Errorf("pool: unknown policy %v", policy)
	}
	if reg == nil {
		reg = registry.Default
	}

	r, err := region.Acquire(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrFail, err)
	}

	p := &Pool{
		region:    r,
		totalSize: uint64(size),
		policy:    policy,
		head:      0,
		reg:       reg,
	}

	p.nodes.nodes = make([]node, NodeTableInitCapacity)
	p.nodes.nodes[0] = node{base: 0, size: uint64(size), used: true, allocated: false, next: nilIndex, prev: nilIndex}
	p.nodes.used = 1

	p.gaps.entries = make([]gapEntry, 0, GapIndexInitCapacity)
	p.addGap(uint64(size), 0)

	id, err := reg.Add(p)
	if err != nil {
		_ = r.Release()
		return nil, fmt.Errorf("%w: registering pool: %v", status.ErrFail, err)
	}
	p.regID = id

	return p, nil
}

// Close releases the pool's backing region, node table, and gap index,
// and removes it from the registry — but only if the pool has zero live
// allocations and exactly one gap, per spec.md §4.1. Violating either
// precondition leaves the pool untouched and returns ErrNotFreed.
func (p *Pool) Close() error {
	if p.closed {
		return status.ErrNotFreed
	}
	if p.allocCount != 0 || p.gapCount != 1 {
		return status.ErrNotFreed
	}

	if err := p.region.Release(); err != nil {
		return fmt.Errorf("%w: %v", status.ErrFail, err)
	}

	p.reg.Remove(p.regID)
	p.nodes.nodes = nil
	p.gaps.entries = nil
	p.closed = true

	return nil
}

// NewAlloc carves size bytes out of the best available gap per the pool's
// policy, splitting off a new gap node for any remainder. It returns a nil
// handle (with a nil error) whenever spec.md describes the outcome as
// "null" rather than a fault: a zero-size request, no gaps at all, or no
// gap big enough. A non-nil error reports a closed pool or a hard fault:
// node-table growth failing, the gap index missing the selected node, or
// no free node slot for the split.
func (p *Pool) NewAlloc(size uint64) (*AllocationHandle, error) {
	if p.closed {
		return nil, errClosed
	}
	if size == 0 {
		return nil, nil
	}
	if p.gapCount == 0 {
		return nil, nil
	}

	if err := p.growNodeTable(); err != nil {
		fmt.Fprintf(os.Stderr, "pool: node table growth failed, request for %d bytes denied\n", size)
		return nil, fmt.Errorf("%w: %v", status.ErrFail, err)
	}

	idx, ok := p.selectGap(size)
	if !ok {
		return nil, nil
	}

	n := &p.nodes.nodes[idx]
	origSize := n.size

	if !p.removeGap(idx) {
		return nil, fmt.Errorf("%w: gap index missing selected node", status.ErrFail)
	}

	n.allocated = true
	n.size = size

	if origSize > size {
		if err := p.split(idx, size, origSize-size); err != nil {
			return nil, err
		}
	}

	p.allocCount++
	p.allocBytes += size

	return &AllocationHandle{index: idx, generation: n.generation}, nil
}

// selectGap picks the source node for a size-byte request per the pool's
// policy: first-fit walks the address list for the first sufficient gap,
// best-fit walks the (size-ascending) gap index for the first sufficient
// entry, which — because the index also breaks size ties by ascending
// base address — naturally ties toward the lowest address.
func (p *Pool) selectGap(size uint64) (int, bool) {
	switch p.policy {
	case status.BestFit:
		for _, e := range p.gaps.entries {
			if e.size >= size {
				return e.node, true
			}
		}
		return 0, false

	default: // FirstFit
		found := nilIndex
		p.nodes.walkList(p.head, func(idx int, n *node) bool {
			if !n.allocated && n.size >= size {
				found = idx
				return false
			}
			return true
		})
		if found == nilIndex {
			return 0, false
		}
		return found, true
	}
}

// split carves a new gap node of size remSize out of the bytes
// immediately after the just-allocated node at allocIdx, and splices it
// into both the address list and the gap index.
func (p *Pool) split(allocIdx int, allocSize, remSize uint64) error {
	freeIdx, ok := p.nodes.firstFreeSlot()
	if !ok {
		return fmt.Errorf("%w: no free node slot for split", status.ErrFail)
	}

	alloc := &p.nodes.nodes[allocIdx]
	succ := alloc.next

	gen := p.nodes.nodes[freeIdx].generation
	p.nodes.nodes[freeIdx] = node{
		base:       alloc.base + allocSize,
		size:       remSize,
		used:       true,
		allocated:  false,
		next:       succ,
		prev:       allocIdx,
		generation: gen,
	}
	p.nodes.used++

	alloc.next = freeIdx
	if succ != nilIndex {
		p.nodes.nodes[succ].prev = freeIdx
	}

	p.addGap(remSize, freeIdx)
	return nil
}

// DelAlloc releases the allocation handle identifies, coalescing it
// forward and then backward with any adjacent gaps, per spec.md §4.3.
func (p *Pool) DelAlloc(h *AllocationHandle) error {
	if p.closed || h == nil {
		return status.ErrNotFound
	}

	idx := h.index
	if idx < 0 || idx >= len(p.nodes.nodes) {
		return status.ErrNotFound
	}
	n := &p.nodes.nodes[idx]
	if !n.used || !n.allocated || n.generation != h.generation {
		return status.ErrNotFound
	}

	n.allocated = false
	p.allocCount--
	p.allocBytes -= n.size

	if err := p.coalesceForward(idx); err != nil {
		return err
	}
	idx, err := p.coalesceBackward(idx)
	if err != nil {
		return err
	}
	n = &p.nodes.nodes[idx]

	p.addGap(n.size, idx)
	return nil
}

// coalesceForward merges idx's successor into idx, if the successor is
// also a gap.
func (p *Pool) coalesceForward(idx int) error {
	n := &p.nodes.nodes[idx]
	succIdx := n.next
	if succIdx == nilIndex || p.nodes.nodes[succIdx].allocated {
		return nil
	}
	succ := &p.nodes.nodes[succIdx]

	if !p.removeGap(succIdx) {
		return fmt.Errorf("%w: gap index missing forward neighbor", status.ErrFail)
	}

	n.size += succ.size
	n.next = succ.next
	if succ.next != nilIndex {
		p.nodes.nodes[succ.next].prev = idx
	}
	p.deactivate(succIdx)
	return nil
}

// coalesceBackward merges idx into its predecessor, if the predecessor is
// also a gap, and returns the index of the surviving node (the predecessor
// if a merge happened, idx otherwise).
func (p *Pool) coalesceBackward(idx int) (int, error) {
	n := &p.nodes.nodes[idx]
	predIdx := n.prev
	if predIdx == nilIndex || p.nodes.nodes[predIdx].allocated {
		return idx, nil
	}
	pred := &p.nodes.nodes[predIdx]

	if !p.removeGap(predIdx) {
		return idx, fmt.Errorf("%w: gap index missing backward neighbor", status.ErrFail)
	}

	pred.size += n.size
	pred.next = n.next
	if n.next != nilIndex {
		p.nodes.nodes[n.next].prev = predIdx
	}
	p.deactivate(idx)
	return predIdx, nil
}

// deactivate frees a merged-away node slot for reuse and bumps its
// generation so any (already-invalid) outstanding handle referencing it
// can never again match a live allocation.
func (p *Pool) deactivate(idx int) {
	n := &p.nodes.nodes[idx]
	n.used = false
	n.generation++
	n.next = nilIndex
	n.prev = nilIndex
	p.nodes.used--
}

// addGap inserts a gap-index entry for nodeIdx, growing the index first if
// needed.
func (p *Pool) addGap(size uint64, nodeIdx int) {
	p.growGapIndex()
	p.gaps.add(size, nodeIdx, func(i int) uint64 { return p.nodes.nodes[i].base })
	p.gapCount++
}

// removeGap deletes the gap-index entry for nodeIdx.
func (p *Pool) removeGap(nodeIdx int) bool {
	if !p.gaps.remove(nodeIdx) {
		return false
	}
	p.gapCount--
	return true
}

// AllocCount, AllocBytes, and GapCount expose the pool-wide counters
// spec.md §3 names, for callers (and the report package) to inspect
// without reaching into internals.
func (p *Pool) AllocCount() uint      { return p.allocCount }
func (p *Pool) AllocBytes() uint64    { return p.allocBytes }
func (p *Pool) GapCount() uint        { return p.gapCount }
func (p *Pool) TotalSize() uint64     { return p.totalSize }
func (p *Pool) Policy() status.Policy { return p.policy }

// Bytes returns the caller-usable byte slice an allocation handle refers
// to. It is a thin convenience over the region's own Slice, resolving the
// handle the same way DelAlloc does.
func (p *Pool) Bytes(h *AllocationHandle) ([]byte, error) {
	if p.closed || h == nil {
		return nil, status.ErrNotFound
	}
	if h.index < 0 || h.index >= len(p.nodes.nodes) {
		return nil, status.ErrNotFound
	}
	n := &p.nodes.nodes[h.index]
	if !n.used || !n.allocated || n.generation != h.generation {
		return nil, status.ErrNotFound
	}
	return p.region.Slice(int(n.base), int(n.size)), nil
}
