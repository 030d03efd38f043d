package poa

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shenwei356/gwfa/internal/graph"
)

// WriteGFA emits the POA graph as GFA S/L records (spec §6). Each POA
// vertex is already a single character, so this is the same format a
// "flattened" multi-character emitter would produce, just less compact.
func WriteGFA(w io.Writer, poa *POAGraph) error {
	return graph.WriteGFA(w, poa.g)
}

// WriteDot emits a Graphviz digraph (spec §6 "digraph G { <id>
// [label=\"<seq>\"] ... <u>-><v> ... }"), grounded on the teacher's
// visualization.go Graphviz emission style before it was adapted away from
// a single-target wavefront plot into this POA-graph plot.
func WriteDot(w io.Writer, poa *POAGraph) error {
	g := poa.g
	if _, err := fmt.Fprintln(w, "digraph G {"); err != nil {
		return err
	}
	for id := 0; id < g.NumVertices(); id++ {
		if id == g.Source() || id == g.Sink() {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s [label=%q];\n", g.Name(id), g.Label(id)); err != nil {
			return err
		}
	}
	for id := 0; id < g.NumVertices(); id++ {
		if id == g.Source() || id == g.Sink() {
			continue
		}
		for _, succ := range g.Successors(id) {
			if succ == g.Sink() {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %s -> %s;\n", g.Name(id), g.Name(succ)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteMSAFasta emits the aligned sequences as FASTA, one row per sequence
// id, columns assigned by level in a topological order of the POA (spec §6:
// "aligned columns are assigned equal column indices via the equivalence
// relation induced by the POA associated_vtxs sets"). Source/sink carry no
// character and are never assigned a column, so no trimming pass is needed
// on top of that.
func WriteMSAFasta(w io.Writer, poa *POAGraph) error {
	g := poa.g
	order, err := graph.TopologicalOrder(g)
	if err != nil {
		return err
	}

	level := make(map[int]int, g.NumVertices())
	maxLevel := -1
	for _, v := range order {
		if v == g.Source() || v == g.Sink() {
			continue
		}
		l := 0
		for _, p := range g.Predecessors(v) {
			if p == g.Source() {
				continue
			}
			if pl, ok := level[p]; ok && pl+1 > l {
				l = pl + 1
			}
		}
		level[v] = l
		if l > maxLevel {
			maxLevel = l
		}
	}

	columns := make([][]int, maxLevel+1)
	for v, l := range level {
		columns[l] = append(columns[l], v)
	}

	seqSet := make(map[int]struct{})
	for v := range level {
		for sid := range poa.seqIDs[v] {
			seqSet[sid] = struct{}{}
		}
	}
	seqs := make([]int, 0, len(seqSet))
	for sid := range seqSet {
		seqs = append(seqs, sid)
	}
	sort.Ints(seqs)

	for _, sid := range seqs {
		var row strings.Builder
		for _, col := range columns {
			ch := byte('-')
			for _, v := range col {
				if _, ok := poa.seqIDs[v][sid]; ok {
					ch = g.Label(v)[0]
					break
				}
			}
			row.WriteByte(ch)
		}
		if _, err := fmt.Fprintf(w, ">seq%d\n%s\n", sid, row.String()); err != nil {
			return err
		}
	}
	return nil
}

// Consensus returns the highest-weight source-to-sink path's sequence,
// where a vertex's weight is the number of sequences threaded through it —
// a topologically-ordered longest-weighted-path DP (spec §6 consensus()).
func Consensus(poa *POAGraph) (string, error) {
	g := poa.g
	order, err := graph.TopologicalOrder(g)
	if err != nil {
		return "", err
	}

	bestWeight := make(map[int]int, g.NumVertices())
	bestPrev := make(map[int]int, g.NumVertices())
	for _, v := range order {
		best, bestP := 0, -1
		for _, p := range g.Predecessors(v) {
			if bw, ok := bestWeight[p]; ok && bw > best {
				best, bestP = bw, p
			}
		}
		w := 0
		if v != g.Source() && v != g.Sink() {
			w = len(poa.seqIDs[v])
		}
		bestWeight[v] = best + w
		bestPrev[v] = bestP
	}

	var rev []byte
	for cur := g.Sink(); cur != g.Source(); {
		if cur != g.Sink() {
			rev = append(rev, g.Label(cur)[0])
		}
		p, ok := bestPrev[cur]
		if !ok || p < 0 {
			break
		}
		cur = p
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return string(rev), nil
}
