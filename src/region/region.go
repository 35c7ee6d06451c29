// Package region acquires and releases the backing byte region a pool
// carves its allocations from. It mirrors the teacher's buddyInit/
// buddyDestroy: an anonymous, private mmap of the requested size, released
// with a single munmap on close.
package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Region is a contiguous OS-backed byte buffer. It has no notion of
// sub-allocation; that is the pool package's job. Region only owns
// acquiring and releasing the bytes.
type Region struct {
	mem []byte
}

// Acquire mmaps size bytes of anonymous, private memory. size must be > 0.
func Acquire(size uint) (*Region, error) {
	if size == 0 {
		return nil, fmt.Errorf("region: size must be > 0")
	}

	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("region: mmap failed: %w", err)
	}

	return &Region{mem: mem}, nil
}

// Release unmaps the region. It is a no-op on an already-released region.
func (r *Region) Release() error {
	if r == nil || r.mem == nil {
		return nil
	}

	err := unix.Munmap(r.mem)
	r.mem = nil
	if err != nil {
		return fmt.Errorf("region: munmap failed: %w", err)
	}
	return nil
}

// Size reports the total number of bytes in the region.
func (r *Region) Size() int {
	return len(r.mem)
}

// Slice returns the caller-usable bytes for [base, base+size) within the
// region. It does not bounds-check beyond what the underlying slice
// operation already enforces — the pool package is the sole caller and is
// trusted to pass in-bounds offsets derived from its own node table.
func (r *Region) Slice(base, size int) []byte {
	return r.mem[base : base+size]
}
