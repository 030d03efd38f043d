package gwfa

import (
	"context"
	"io"

	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/poa"
)

// MsaAligner incrementally builds a multiple sequence alignment: each
// aligned query is spliced into a growing partial-order-alignment graph
// (spec.md §6 "MsaAligner(penalties, initial_query)").
type MsaAligner struct {
	penalties *Penalties
	poa       *poa.POAGraph
}

// NewMsa seeds a POA graph spelling initialQuery as sequence 0.
func NewMsa(penalties *Penalties, initialQuery string) (*MsaAligner, error) {
	p, err := poa.NewSeed(initialQuery)
	if err != nil {
		return nil, err
	}
	return &MsaAligner{penalties: penalties, poa: p}, nil
}

func (m *MsaAligner) alignerFor() (*align.Aligner, error) {
	return align.NewAligner(m.poa.Graph(), m.penalties)
}

// AlignOnly aligns query against the current POA graph without mutating it
// (spec.md §6 "align_only"). The search starts at the graph's synthetic
// source vertex (empty label) rather than any one content vertex, since
// repeated splicing can leave more than one entry point into the POA (a
// leading insertion wires a new vertex directly from source, alongside the
// original chain) — starting at source lets the aligner's own zero-cost
// jump mechanism fan out into every entry point for free.
func (m *MsaAligner) AlignOnly(ctx context.Context, query string) (*Alignment, error) {
	a, err := m.alignerFor()
	if err != nil {
		return nil, err
	}
	g := m.poa.Graph()
	q := []byte(query)
	return a.Align(ctx, q, g.Name(g.Source()), 0, a.MaxScoreFor(q))
}

// Align aligns query against the current POA graph and splices the result
// back in as a new sequence (spec.md §6 "align").
func (m *MsaAligner) Align(ctx context.Context, query string) (*Alignment, error) {
	aln, err := m.AlignOnly(ctx, query)
	if err != nil {
		return nil, err
	}
	sid := m.poa.NextSequenceID()
	if err := poa.Splice(m.poa, aln, []byte(query), sid); err != nil {
		return nil, err
	}
	return aln, nil
}

// WriteGfa emits the current POA graph as GFA (spec.md §6 "write_gfa").
func (m *MsaAligner) WriteGfa(w io.Writer) error { return poa.WriteGFA(w, m.poa) }

// WriteMsaFasta emits the current POA graph as a FASTA multiple sequence
// alignment (spec.md §6 "write_msa_fasta").
func (m *MsaAligner) WriteMsaFasta(w io.Writer) error { return poa.WriteMSAFasta(w, m.poa) }

// WriteDot emits the current POA graph as a Graphviz digraph (spec.md §6
// "write_dot").
func (m *MsaAligner) WriteDot(w io.Writer) error { return poa.WriteDot(w, m.poa) }

// Consensus returns the highest-weight source-to-sink path's sequence
// (spec.md §6 "consensus").
func (m *MsaAligner) Consensus() (string, error) { return poa.Consensus(m.poa) }
