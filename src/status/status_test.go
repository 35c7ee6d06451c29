package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "fail", Fail.String())
	assert.Equal(t, "not-freed", NotFreed.String())
	assert.Equal(t, "called-again", CalledAgain.String())
}

func TestPolicyOrdinalsAreStable(t *testing.T) {
	// The exact values here are part of the public contract (spec.md §6):
	// first-fit = 0, best-fit = 1.
	assert.Equal(t, Policy(0), FirstFit)
	assert.Equal(t, Policy(1), BestFit)
}

func TestErrorIsMatchesWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("alloc failed: %w", ErrFail)
	assert.True(t, errors.Is(wrapped, ErrFail))
	assert.False(t, errors.Is(wrapped, ErrNotFreed))
}

func TestErrNotFoundIsDistinctFromOrdinalTaxonomy(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrFail))
	assert.False(t, errors.Is(ErrNotFound, ErrNotFreed))
}
