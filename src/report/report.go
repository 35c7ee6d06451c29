// Package report renders a pool's layout as an external, human-readable
// view. Spec.md calls inspection/reporting helpers out of scope for the
// core; this package is exactly that arm's-length consumer — it only ever
// sees a *pool.Pool through its exported Inspect/counter methods, never
// its internals.
package report

import (
	"fmt"
	"strings"

	"github.com/ucd-os-crimson-s18/poolalloc/src/pool"
)

// Layout renders one line per segment, in address order: an index, the
// segment size, and whether it is allocated or a gap.
func Layout(p *pool.Pool) (string, error) {
	segs, err := p.Inspect()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, s := range segs {
		kind := "gap"
		if s.Allocated {
			kind = "alloc"
		}
		fmt.Fprintf(&b, "[%d] size=%d %s\n", i, s.Size, kind)
	}
	return b.String(), nil
}

// Summary renders a one-line overview of a pool's counters, the compact
// form useful when printing many pools side by side.
func Summary(p *pool.Pool) (string, error) {
	segs, err := p.Inspect()
	if err != nil {
		return "", err
	}

	var largestGap uint64
	for _, s := range segs {
		if !s.Allocated && s.Size > largestGap {
			largestGap = s.Size
		}
	}

	return fmt.Sprintf(
		"policy=%s total=%d allocs=%d alloc-bytes=%d gaps=%d largest-gap=%d",
		p.Policy(), p.TotalSize(), p.AllocCount(), p.AllocBytes(), p.GapCount(), largestGap,
	), nil
}
