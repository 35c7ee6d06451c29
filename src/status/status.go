// Package status defines the small ordinal outcome taxonomy shared by the
// pool, registry, and report packages, so callers can distinguish outcomes
// with errors.Is instead of string matching.
package status

import "errors"

// Status is a stable, ordinal outcome code. The ordering is part of the
// public contract and must not change.
type Status int

const (
	OK Status = iota
	Fail
	NotFreed
	CalledAgain
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Fail:
		return "fail"
	case NotFreed:
		return "not-freed"
	case CalledAgain:
		return "called-again"
	default:
		return "unknown"
	}
}

// Error wraps a Status so it can be returned as an error and compared with
// errors.Is against the package-level sentinels below.
type Error struct {
	Status Status
	msg    string
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Status.String()
}

// Is lets errors.Is(err, ErrFail) etc. match any *Error with the same Status,
// not just the exact sentinel value — useful once callers wrap these with
// fmt.Errorf("%w", ...).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status
}

func newError(s Status, msg string) *Error {
	return &Error{Status: s, msg: msg}
}

// Sentinel errors for the outcomes spec'd in the status taxonomy.
var (
	ErrFail        = newError(Fail, "fail")
	ErrNotFreed    = newError(NotFreed, "not-freed")
	ErrCalledAgain = newError(CalledAgain, "called-again")
)

// ErrNotFound reports that a handle did not resolve to a live node or
// registry entry. It is distinct from the ordinal taxonomy above (spec.md's
// "not-found" error kind) but still a stable sentinel comparable via
// errors.Is.
var ErrNotFound = errors.New("pool: handle not found")

// Policy selects the gap-selection strategy for new-alloc. Two values only,
// encoded exactly as spec.md's external-interfaces table requires: this
// ordering is observable to callers and must not change.
type Policy int

const (
	FirstFit Policy = iota
	BestFit
)

func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first-fit"
	case BestFit:
		return "best-fit"
	default:
		return "unknown-policy"
	}
}
