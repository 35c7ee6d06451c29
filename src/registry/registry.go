// Package registry implements the pool registry spec.md treats as an
// external collaborator: a process-wide, flat table of pool handles, grown
// by the same load-factor policy the core uses for its own tables. It is
// grounded directly on original_source/mem_pool.c's pool_store /
// pool_store_size / pool_store_capacity globals and mem_init/mem_free.
package registry

import (
	"github.com/ucd-os-crimson-s18/poolalloc/src/status"
)

// Handle is the opaque reference a registry entry holds. The pool package
// satisfies this with *pool.Pool; registry itself has no notion of what a
// pool is beyond "something with a stable identity".
type Handle interface{}

const (
	initCapacity = 20
	fillFactor   = 0.75
	expandFactor = 2
)

// Registry is an injectable collaborator, per spec.md §9's note that the
// registry "may be hidden behind an injectable collaborator to permit
// multiple independent instances in tests" — the package-level default
// instance below satisfies the minimum external contract of spec.md §6.
//
// Like the core, registry provides no synchronization of its own — spec.md
// §1/§5 name thread safety as a system-wide non-goal, not something the
// core alone forgoes while its collaborators pick it back up.
type Registry struct {
	slots    []Handle
	size     uint
	capacity uint
}

// New constructs an uninitialized Registry value. Init must be called
// before Add/Find/Remove are used.
func New() *Registry {
	return &Registry{}
}

// Init allocates the registry's initial table. Calling Init again before
// Shutdown is a called-again error, matching mem_init's single-call
// contract.
func (r *Registry) Init() error {
	if r.capacity > 0 {
		return status.ErrCalledAgain
	}

	r.slots = make([]Handle, initCapacity)
	r.capacity = initCapacity
	r.size = 0
	return nil
}

// Shutdown releases the registry's table. Calling Shutdown before Init (or
// twice in a row) is a called-again error, matching mem_free's contract.
func (r *Registry) Shutdown() error {
	if r.capacity == 0 {
		return status.ErrCalledAgain
	}

	r.slots = nil
	r.size = 0
	r.capacity = 0
	return nil
}

// Add registers a handle and returns its slot id, growing the table first
// if its load factor crosses the fill threshold. The capacity is
// monotonic — it never shrinks — so slot ids stay meaningful for the
// registry's lifetime, per spec.md §5's resource-discipline note.
func (r *Registry) Add(h Handle) (int, error) {
	if r.capacity == 0 {
		return 0, status.ErrFail
	}

	if float64(r.size)/float64(r.capacity) > fillFactor {
		newCap := r.capacity * expandFactor
		grown := make([]Handle, newCap)
		copy(grown, r.slots)
		r.slots = grown
		r.capacity = newCap
	}

	for i := range r.slots {
		if r.slots[i] == nil {
			r.slots[i] = h
			r.size++
			return i, nil
		}
	}
	return 0, status.ErrFail
}

// Find returns the handle registered at id, if any.
func (r *Registry) Find(id int) (Handle, bool) {
	if id < 0 || id >= len(r.slots) || r.slots[id] == nil {
		return nil, false
	}
	return r.slots[id], true
}

// Remove vacates the slot at id. It does not shrink the registry's
// capacity.
func (r *Registry) Remove(id int) {
	if id < 0 || id >= len(r.slots) || r.slots[id] == nil {
		return
	}
	r.slots[id] = nil
	r.size--
}

// Default is the process-wide registry instance the free functions below
// delegate to, satisfying spec.md §6's minimum external contract
// (registry-init / registry-shutdown as free functions).
var Default = New()

func Init() error     { return Default.Init() }
func Shutdown() error { return Default.Shutdown() }
