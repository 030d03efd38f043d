// Package gwfa is the public facade over internal/align, internal/graph,
// and internal/poa: a one-shot graph aligner (Aligner) and an incremental
// multiple-sequence-alignment aligner (MsaAligner), mirroring the teacher's
// top-level wfa.Aligner entry point (spec.md §6).
package gwfa

import (
	"context"
	"io"

	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/graph"
)

// Alignment is the result of one Align call: the edit string over
// {M,X,I,D}, the path of vertex names walked from start to sink, and the
// offsets within the start/end vertex labels consumed.
type Alignment = align.Alignment

// Penalties is the user-facing gap-affine (or dual-affine) cost model.
type Penalties = align.Penalties

// DefaultPenalties mirrors common aligner defaults (match 0, mismatch 4,
// gap-open 6, gap-extend 2).
var DefaultPenalties = align.DefaultPenalties

// Aligner is a one-shot sequence-to-graph aligner bound to a single
// reference graph, built once from a GFA stream (spec.md §6
// "Aligner(penalties, graph_text_stream) -> Aligner").
type Aligner struct {
	inner *align.Aligner
}

// New parses graphText as the GFA subset described in spec.md §6 and
// returns an Aligner bound to the resulting graph and penalties.
func New(penalties *Penalties, graphText io.Reader) (*Aligner, error) {
	g, err := graph.ParseGFA(graphText)
	if err != nil {
		return nil, err
	}
	inner, err := align.NewAligner(g, penalties)
	if err != nil {
		return nil, err
	}
	return &Aligner{inner: inner}, nil
}

// Align runs the wavefront search from (startNode, startOffset), consuming
// query fully before reaching the sink. The score bound is derived from the
// query length and the worst per-base penalty (spec.md §6: "max_score
// (caller-supplied or derived from query_len * max_penalty)"); use
// AlignWithBound to supply an explicit one.
func (a *Aligner) Align(ctx context.Context, query []byte, startNode string, startOffset int32) (*Alignment, error) {
	return a.inner.Align(ctx, query, startNode, startOffset, a.inner.MaxScoreFor(query))
}

// AlignWithBound is Align with an explicit score bound, for callers that
// want to cap search cost below the default derived bound.
func (a *Aligner) AlignWithBound(ctx context.Context, query []byte, startNode string, startOffset int32, maxScore uint32) (*Alignment, error) {
	return a.inner.Align(ctx, query, startNode, startOffset, maxScore)
}
