// Package graph implements the immutable reference variation graph: a DAG of
// labeled vertices used as the alignment target.
package graph

import "errors"

var (
	// ErrMalformedGFA indicates a GFA record with too few fields, a
	// duplicate segment name, or a stream that could not be read.
	ErrMalformedGFA = errors.New("graph: malformed GFA record")

	// ErrUnsupportedGraph indicates a cycle reachable from the start vertex,
	// a link edge whose overlap is not 0, or a link whose orientations are
	// not both "+".
	ErrUnsupportedGraph = errors.New("graph: unsupported graph topology")

	// ErrUnknownVertex indicates a referenced vertex id is not present in
	// the graph.
	ErrUnknownVertex = errors.New("graph: unknown vertex id")

	// ErrEmptyGraph indicates a graph with no vertices.
	ErrEmptyGraph = errors.New("graph: graph has no vertices")
)
