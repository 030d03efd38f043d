// Package poa implements the partial-order alignment graph updater: it
// splices a single-shot alignment's edit string and path into a growing
// POA graph, representing a multiple sequence alignment as a DAG of
// single-character nodes (spec §6/§9).
package poa

import "errors"

var (
	// ErrEmptySeed is returned when NewSeed is given an empty initial query.
	ErrEmptySeed = errors.New("poa: empty seed sequence")

	// ErrInternalInvariant indicates a splice encountered an alignment whose
	// edit string does not consume the expected number of path vertices —
	// an impossible state for a well-formed Alignment produced by this
	// module's own aligner.
	ErrInternalInvariant = errors.New("poa: internal invariant violated during splice")
)
