package pool

// gapEntry is one record in the gap index: the size of an unallocated node
// and the node table slot it refers to.
type gapEntry struct {
	size uint64
	node int
}

// gapIndex is the dynamically grown flat array holding exactly the
// currently-unallocated nodes, kept sorted by (size ascending, then base
// address ascending). It is a flat array rather than a heap by design —
// spec.md §4.4 calls out that gap counts are expected to stay small enough
// that O(n) add/remove is not the bottleneck, and that the strict size
// ordering keeps a future O(log n) best-fit swap a drop-in change.
type gapIndex struct {
	entries []gapEntry
}

func (g *gapIndex) len() int {
	return len(g.entries)
}

// add appends the new entry and restores sort order with a single
// bubble-up pass, exactly as spec.md §4.4 describes. Growth is the
// caller's responsibility (see growth.go's growGapIndex), invoked before
// add so the append below never needs its own capacity check.
func (g *gapIndex) add(size uint64, nodeIdx int, baseOf func(int) uint64) {
	g.entries = append(g.entries, gapEntry{size: size, node: nodeIdx})

	i := len(g.entries) - 1
	for i > 0 {
		cur, prev := g.entries[i], g.entries[i-1]
		swap := cur.size < prev.size ||
			(cur.size == prev.size && baseOf(cur.node) < baseOf(prev.node))
		if !swap {
			break
		}
		g.entries[i], g.entries[i-1] = g.entries[i-1], g.entries[i]
		i--
	}
}

// remove deletes the entry referencing nodeIdx, shifting subsequent
// entries down by one. It reports whether an entry was found; the caller
// treats "not found" as the hard fault spec.md §4.3 describes (the gap
// index is supposed to contain exactly the unallocated nodes, so a miss
// here means an invariant has already broken).
func (g *gapIndex) remove(nodeIdx int) bool {
	for i := range g.entries {
		if g.entries[i].node == nodeIdx {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			return true
		}
	}
	return false
}
