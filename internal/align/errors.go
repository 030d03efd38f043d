package align

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidPenalties is returned when the user-supplied Penalties
	// violate the preconditions match <= mismatch, match <= gapopen,
	// match <= gapext, gapopen >= gapext.
	ErrInvalidPenalties = errors.New("align: invalid penalties")

	// ErrEmptyInput is returned when the query or the graph is empty.
	ErrEmptyInput = errors.New("align: empty query or graph")

	// ErrBadStart is returned when the requested start vertex does not
	// exist, or the start offset falls outside the vertex's label.
	ErrBadStart = errors.New("align: bad start position")

	// ErrNoAlignment is returned when the search exceeds MaxScore without
	// reaching the sink with the query fully consumed.
	ErrNoAlignment = errors.New("align: no alignment found within score bound")
)

// InternalError wraps an impossible internal state (a missing backtrace
// cell, negative invalid-segment counters, ...). It is never expected to be
// returned for well-formed inputs; callers may errors.As it to recover the
// score at which the inconsistency was detected.
type InternalError struct {
	Score   uint32
	Message string
}

func (e *InternalError) Error() string {
	return "align: internal invariant violated at score " + strconv.FormatUint(uint64(e.Score), 10) + ": " + e.Message
}
