package poa

import (
	"fmt"

	"github.com/shenwei356/gwfa/internal/graph"
)

// POAGraph is a partial-order alignment graph: each vertex holds exactly
// one reference-alphabet character, and every spliced sequence is threaded
// through the graph as a walk from source to sink. SequenceIDs records, per
// vertex, which sequences (by index, in the order they were aligned) pass
// through it.
//
// Unlike the production systems this spec is drawn from, vertices here are
// never compacted into multi-character runs: the aligner in this module
// already generalizes to a graph of arbitrary-length labels, so a POA
// vertex is simply a one-character instance of that same graph — simpler
// to splice correctly, at the cost of the compaction pass spec §9 flags as
// a separate concern ("validate this at runtime").
type POAGraph struct {
	g       *graph.Graph
	seqIDs  map[int]map[int]struct{} // vertex id -> set of sequence ids
	nextSeq int
	insSeq  int
}

// NewSeed builds a POA graph whose only path spells initialQuery, assigned
// sequence id 0.
func NewSeed(initialQuery string) (*POAGraph, error) {
	if len(initialQuery) == 0 {
		return nil, ErrEmptySeed
	}
	b := graph.NewBuilder()
	prev := -1
	ids := make([]int, len(initialQuery))
	for i := 0; i < len(initialQuery); i++ {
		name := fmt.Sprintf("n%d", i)
		id := b.AddVertex(name, initialQuery[i:i+1])
		ids[i] = id
		if i == 0 {
			b.LinkToSource(id)
		} else {
			b.AddEdge(prev, id, 0)
		}
		prev = id
	}
	b.LinkToSink(prev)

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	seqIDs := make(map[int]map[int]struct{}, g.NumVertices())
	for _, id := range ids {
		seqIDs[id] = map[int]struct{}{0: {}}
	}
	return &POAGraph{g: g, seqIDs: seqIDs, nextSeq: 1}, nil
}

// Graph returns the current alignment target: the POA graph as of the last
// completed Splice.
func (p *POAGraph) Graph() *graph.Graph { return p.g }

// SequenceIDs returns the set of sequence ids threaded through vertex id.
func (p *POAGraph) SequenceIDs(id int) map[int]struct{} { return p.seqIDs[id] }

// NextSequenceID returns the id the next Splice call should use, then
// reserves it.
func (p *POAGraph) NextSequenceID() int {
	id := p.nextSeq
	p.nextSeq++
	return id
}
