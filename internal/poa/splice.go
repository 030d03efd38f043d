package poa

import (
	"fmt"

	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/graph"
)

// Splice mutates poa to thread aln (the result of aligning query against
// poa.Graph()) through the POA graph as sequenceID, producing a new
// immutable graph.Graph (spec §6 MsaAligner.align's contract).
//
// aln.Path always begins at the source and ends at the sink; every M/X/D
// edit consumes exactly the next content vertex in Path (labels here are
// one character, so a content vertex is always fully consumed by exactly
// one such edit). An M threads sequenceID through that vertex, an X adds a
// new vertex holding the query base as a branch parallel to it, and a D
// skips it. Every I edit inserts a new vertex between whichever two Path
// vertices the walk currently sits between.
func Splice(poa *POAGraph, aln *align.Alignment, query []byte, sequenceID int) error {
	old := poa.g
	b := graph.NewBuilder()

	nameToNew := make(map[string]int, old.NumVertices())
	newSeqIDs := make(map[int]map[int]struct{}, old.NumVertices())
	seen := make(map[[2]int]bool) // dedups edges already present from the copy pass

	for id := 0; id < old.NumVertices(); id++ {
		if id == old.Source() || id == old.Sink() {
			continue
		}
		name := old.Name(id)
		nid := b.AddVertex(name, old.Label(id))
		nameToNew[name] = nid
		cp := make(map[int]struct{}, len(poa.seqIDs[id]))
		for sid := range poa.seqIDs[id] {
			cp[sid] = struct{}{}
		}
		newSeqIDs[nid] = cp
	}
	for id := 0; id < old.NumVertices(); id++ {
		if id == old.Source() || id == old.Sink() {
			continue
		}
		nid := nameToNew[old.Name(id)]
		for _, succ := range old.Successors(id) {
			if succ == old.Sink() {
				b.LinkToSink(nid)
				seen[[2]int{nid, -2}] = true
				continue
			}
			to := nameToNew[old.Name(succ)]
			b.AddEdge(nid, to, 0)
			seen[[2]int{nid, to}] = true
		}
	}
	for _, succ := range old.Successors(old.Source()) {
		to := nameToNew[old.Name(succ)]
		b.LinkToSource(to)
		seen[[2]int{-1, to}] = true
	}

	resolve := func(name string) int {
		if name == old.Name(old.Source()) {
			return -1 // source: insertion point "before the first vertex"
		}
		if name == old.Name(old.Sink()) {
			return -2 // sink: insertion point "after the last vertex"
		}
		return nameToNew[name]
	}

	// connect links from->to, skipping an edge the copy pass already laid
	// down: the common case is an M/X at the very start or end of Edits
	// reusing an edge that was already there before this sequence existed.
	connect := func(from, to int) {
		key := [2]int{from, to}
		if seen[key] {
			return
		}
		seen[key] = true
		switch {
		case from == -1 && to == -2:
			return // no direct source-sink edge can arise; nothing to link
		case from == -1:
			b.LinkToSource(to)
		case to == -2:
			b.LinkToSink(from)
		default:
			b.AddEdge(from, to, 0)
		}
	}

	// anchor is the most recently resolved node in this sequence's own
	// walk (real vertex or newly-spliced insertion), pending a forward
	// edge to whatever comes next. A run of consecutive 'I's chains
	// through anchor instead of each fanning out from the same start
	// point, so a multi-character insertion becomes one new path, not
	// several parallel single-character bypasses.
	anchor := -1
	pathIdx := 1
	queryPos := 0
	for i := 0; i < len(aln.Edits); i++ {
		if pathIdx >= len(aln.Path) {
			return ErrInternalInvariant
		}
		switch aln.Edits[i] {
		case 'M':
			nid := resolve(aln.Path[pathIdx])
			connect(anchor, nid)
			newSeqIDs[nid][sequenceID] = struct{}{}
			anchor = nid
			pathIdx++
			queryPos++
		case 'X':
			if queryPos >= len(query) {
				return ErrInternalInvariant
			}
			name := fmt.Sprintf("seq%d_sub%d", sequenceID, poa.insSeq)
			poa.insSeq++
			nid := b.AddVertex(name, string(query[queryPos]))
			newSeqIDs[nid] = map[int]struct{}{sequenceID: {}}
			connect(anchor, nid)
			anchor = nid
			pathIdx++
			queryPos++
		case 'D':
			pathIdx++
		case 'I':
			if queryPos >= len(query) {
				return ErrInternalInvariant
			}
			name := fmt.Sprintf("seq%d_ins%d", sequenceID, poa.insSeq)
			poa.insSeq++
			nid := b.AddVertex(name, string(query[queryPos]))
			newSeqIDs[nid] = map[int]struct{}{sequenceID: {}}
			connect(anchor, nid)
			anchor = nid
			queryPos++
		default:
			return ErrInternalInvariant
		}
	}
	if pathIdx != len(aln.Path)-1 {
		return ErrInternalInvariant
	}
	connect(anchor, -2)

	g, err := b.Build()
	if err != nil {
		return err
	}
	poa.g = g
	poa.seqIDs = newSeqIDs
	return nil
}
