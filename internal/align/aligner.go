package align

import (
	"context"

	"github.com/shenwei356/gwfa/internal/graph"
)

// Aligner runs the score-driven wavefront search of spec §4 against one
// fixed reference graph. It generalizes the teacher's single-target
// WaveFrontAligner (shenwei356-wfa wfa.go) to a graph of vertices, each with
// its own diagonal coordinate system, linked by zero-cost "jumps" at vertex
// boundaries.
type Aligner struct {
	graph     *graph.Graph
	penalties *Penalties
	ip        *InternalPenalties
	topoOrder []int
	maxLabel  int
}

// NewAligner validates penalties and precomputes a topological order of g
// (processing active vertices in this fixed order each score step
// guarantees every predecessor's jumps are recorded before its successors
// are processed, regardless of activation timing).
func NewAligner(g *graph.Graph, p *Penalties) (*Aligner, error) {
	ip, err := NewInternalPenalties(p)
	if err != nil {
		return nil, err
	}
	order, err := graph.TopologicalOrder(g)
	if err != nil {
		return nil, err
	}
	maxLabel := 0
	for v := 0; v < g.NumVertices(); v++ {
		if n := len(g.Label(v)); n > maxLabel {
			maxLabel = n
		}
	}
	return &Aligner{graph: g, penalties: p, ip: ip, topoOrder: order, maxLabel: maxLabel}, nil
}

// MaxScoreFor derives a score bound for aligning query: the length times the
// worst per-base internal penalty, plus one gap open (spec §6: "max_score
// ... derived from query_len * max_penalty"). The bound depends on the
// query alone: it does not account for the reference length, so an
// alignment that needs more deletions than that budget covers (a path to
// the sink much longer than the query) exceeds it and fails with
// ErrNoAlignment.
func (a *Aligner) MaxScoreFor(query []byte) uint32 {
	perBase := a.ip.Mismatch
	if a.ip.GapExt > perBase {
		perBase = a.ip.GapExt
	}
	if a.ip.dual && a.ip.GapExt2 > perBase {
		perBase = a.ip.GapExt2
	}
	return uint32(len(query))*perBase + a.ip.GapOpen + 1
}

// searchState is the per-call mutable state of one alignment: the stores,
// the vertex bookkeeping, and the query being aligned. A fresh searchState
// is created per Align call so concurrent Aligners never share state (spec
// §5: "two simultaneous alignments require two independent cores").
type searchState struct {
	a       *Aligner
	query   []byte
	window  uint32
	store   *store
	vd      *VerticesData
	scratch *Scratchpad

	winnerFound bool
	winnerScore uint32
	winnerDiag  int32
}

// Align runs the search from (startVertexName, startOffset) to the sink,
// consuming query fully, bounded by maxScore.
func (a *Aligner) Align(ctx context.Context, query []byte, startVertexName string, startOffset int32, maxScore uint32) (*Alignment, error) {
	if len(query) == 0 || a.graph.NumVertices() <= 2 {
		return nil, ErrEmptyInput
	}
	startVertex, ok := a.graph.VertexByName(startVertexName)
	if !ok {
		return nil, ErrBadStart
	}
	if startOffset < 0 || int(startOffset) > len(a.graph.Label(startVertex)) {
		return nil, ErrBadStart
	}

	window := a.ip.Window()
	queryLen := int32(len(query))
	bound := queryLen + int32(a.maxLabel) + 2

	st := &searchState{
		a:       a,
		query:   query,
		window:  window,
		store:   newStore(window),
		vd:      NewVerticesData(window, int(a.ip.GapExt)),
		scratch: NewScratchpad(int(-bound), int(bound)),
	}

	st.vd.Activate(startVertex)
	startDiag := int32(0) - startOffset
	st.store.set(MatrixM, startVertex, 0, int(startDiag), Cell{
		Diag: startDiag, Offset: 0, FromMatrix: MatrixNone, Prev: noPrevPos,
	})

	sink := a.graph.Sink()
	for s := uint32(0); s <= maxScore; s++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		st.store.advance(s)
		st.vd.clearJumpSlot(s)

		for _, v := range a.topoOrder {
			if !st.vd.IsActive(v) {
				continue
			}
			st.processVertex(v, s)
		}

		if c, ok := st.store.get(MatrixM, sink, s, int(queryLen)); ok && c.isSet() {
			st.winnerFound = true
			st.winnerScore = s
			st.winnerDiag = queryLen
			break
		}

		st.vd.Expand()
		st.vd.Compact()
	}

	if !st.winnerFound {
		return nil, ErrNoAlignment
	}

	return a.backtrace(st, sink, st.winnerScore, st.winnerDiag)
}

// processVertex runs the five steps of spec §4.3 for vertex v at score s.
// Order within a vertex: gap matrices first (their recurrences only ever
// read strictly earlier scores), then M (which additionally absorbs I/D at
// the SAME score for a zero-cost gap close), then match extension, then
// jump detection.
func (st *searchState) processVertex(v int, s uint32) {
	st.computeNextI(v, s)
	st.computeNextD(v, s)
	if st.a.ip.dual {
		st.computeNextI2(v, s)
		st.computeNextD2(v, s)
	}
	st.computeNextM(v, s)
	st.matchExtend(v, s)
	st.detectJumps(v, s)
}

// computeNextI writes I(v,d,s) from the open recurrence (M at s-gapo-gape,
// diag+1) and the extend recurrence (I or IJumps at s-gape, diag+1).
func (st *searchState) computeNextI(v int, s uint32) {
	delta := st.a.ip.GapOpen + st.a.ip.GapExt
	if uint32(delta) <= s {
		lo, hi, ok := st.store.krange(MatrixM, v, s-uint32(delta))
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixM, v, s-uint32(delta), d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixI, v, d+1, Cell{Diag: int32(d + 1), Offset: c.Offset, FromMatrix: MatrixM, Prev: encodePrevPos(v, s-uint32(delta), MatrixM)})
			}
		}
	}
	if uint32(st.a.ip.GapExt) <= s {
		ps := s - uint32(st.a.ip.GapExt)
		for _, m := range [...]Matrix{MatrixI, MatrixIJumps} {
			lo, hi, ok := st.store.krange(m, v, ps)
			if !ok {
				continue
			}
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(m, v, ps, d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixI, v, d+1, Cell{Diag: int32(d + 1), Offset: c.Offset, FromMatrix: MatrixI, Prev: encodePrevPos(v, ps, m)})
			}
		}
	}
	st.commitScratch(MatrixI, v, s)
}

// computeNextD writes D(v,d,s) from the open recurrence (M at s-gapo-gape,
// diag-1, offset+1) and the extend recurrence (D at s-gape, diag-1,
// offset+1).
func (st *searchState) computeNextD(v int, s uint32) {
	delta := st.a.ip.GapOpen + st.a.ip.GapExt
	if uint32(delta) <= s {
		lo, hi, ok := st.store.krange(MatrixM, v, s-uint32(delta))
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixM, v, s-uint32(delta), d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixD, v, d-1, Cell{Diag: int32(d - 1), Offset: c.Offset + 1, FromMatrix: MatrixM, Prev: encodePrevPos(v, s-uint32(delta), MatrixM)})
			}
		}
	}
	if uint32(st.a.ip.GapExt) <= s {
		ps := s - uint32(st.a.ip.GapExt)
		lo, hi, ok := st.store.krange(MatrixD, v, ps)
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixD, v, ps, d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixD, v, d-1, Cell{Diag: int32(d - 1), Offset: c.Offset + 1, FromMatrix: MatrixD, Prev: encodePrevPos(v, ps, MatrixD)})
			}
		}
	}
	st.commitScratch(MatrixD, v, s)
}

// computeNextI2/computeNextD2 mirror computeNextI/computeNextD with the
// second affine piece's costs. Dual-affine is treated as a lower-assurance
// extension per spec §9 and is never exercised unless Penalties.DualAffine
// was set.
func (st *searchState) computeNextI2(v int, s uint32) {
	delta := st.a.ip.GapOpen2 + st.a.ip.GapExt2
	if uint32(delta) <= s {
		lo, hi, ok := st.store.krange(MatrixM, v, s-uint32(delta))
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixM, v, s-uint32(delta), d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixI2, v, d+1, Cell{Diag: int32(d + 1), Offset: c.Offset, FromMatrix: MatrixM, Prev: encodePrevPos(v, s-uint32(delta), MatrixM)})
			}
		}
	}
	if uint32(st.a.ip.GapExt2) <= s {
		ps := s - uint32(st.a.ip.GapExt2)
		lo, hi, ok := st.store.krange(MatrixI2, v, ps)
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixI2, v, ps, d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixI2, v, d+1, Cell{Diag: int32(d + 1), Offset: c.Offset, FromMatrix: MatrixI2, Prev: encodePrevPos(v, ps, MatrixI2)})
			}
		}
	}
	st.commitScratch(MatrixI2, v, s)
}

func (st *searchState) computeNextD2(v int, s uint32) {
	delta := st.a.ip.GapOpen2 + st.a.ip.GapExt2
	if uint32(delta) <= s {
		lo, hi, ok := st.store.krange(MatrixM, v, s-uint32(delta))
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixM, v, s-uint32(delta), d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixD2, v, d-1, Cell{Diag: int32(d - 1), Offset: c.Offset + 1, FromMatrix: MatrixM, Prev: encodePrevPos(v, s-uint32(delta), MatrixM)})
			}
		}
	}
	if uint32(st.a.ip.GapExt2) <= s {
		ps := s - uint32(st.a.ip.GapExt2)
		lo, hi, ok := st.store.krange(MatrixD2, v, ps)
		if ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixD2, v, ps, d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixD2, v, d-1, Cell{Diag: int32(d - 1), Offset: c.Offset + 1, FromMatrix: MatrixD2, Prev: encodePrevPos(v, ps, MatrixD2)})
			}
		}
	}
	st.commitScratch(MatrixD2, v, s)
}

// computeNextM gathers a mismatch extension of the previous M, a zero-cost
// carry from whichever gap matrix closed at this score, and any jump-in
// seeds predecessors already wrote directly into M(v,s,*) this round.
func (st *searchState) computeNextM(v int, s uint32) {
	if lo, hi, ok := st.store.krange(MatrixM, v, s); ok {
		for d := lo; d <= hi; d++ {
			if c, ok := st.store.get(MatrixM, v, s, d); ok && c.isSet() {
				st.scratch.Combine(d, c)
			}
		}
	}

	if uint32(st.a.ip.Mismatch) <= s {
		ps := s - uint32(st.a.ip.Mismatch)
		if lo, hi, ok := st.store.krange(MatrixM, v, ps); ok {
			for d := lo; d <= hi; d++ {
				c, ok := st.store.get(MatrixM, v, ps, d)
				if !ok || !c.isSet() {
					continue
				}
				st.combineGated(MatrixM, v, d, Cell{Diag: int32(d), Offset: c.Offset + 1, FromMatrix: MatrixM, Prev: encodePrevPos(v, ps, MatrixM)})
			}
		}
	}

	gapMatrices := []Matrix{MatrixI, MatrixIJumps, MatrixD}
	if st.a.ip.dual {
		gapMatrices = []Matrix{MatrixI, MatrixIJumps, MatrixD, MatrixI2, MatrixI2Jumps, MatrixD2}
	}
	for _, m := range gapMatrices {
		lo, hi, ok := st.store.krange(m, v, s)
		if !ok {
			continue
		}
		for d := lo; d <= hi; d++ {
			c, ok := st.store.get(m, v, s, d)
			if !ok || !c.isSet() {
				continue
			}
			st.combineGated(MatrixM, v, d, Cell{Diag: int32(d), Offset: c.Offset, FromMatrix: m, Prev: encodePrevPos(v, s, m)})
		}
	}

	st.commitScratch(MatrixM, v, s)
}

// combineGated checks valid_diagonal before feeding a candidate cell into
// the scratchpad (spec §4.4): a dominated diagonal is never recomputed.
func (st *searchState) combineGated(m Matrix, v, d int, cand Cell) {
	if !st.vd.ValidDiagonal(m, v, d) {
		return
	}
	st.scratch.Combine(d, cand)
}

// commitScratch writes every touched scratch diagonal into the store for
// (m, v, s) and resets the scratchpad for the next matrix.
func (st *searchState) commitScratch(m Matrix, v int, s uint32) {
	for _, d := range st.scratch.Touched() {
		c, ok := st.scratch.Get(d)
		if !ok {
			continue
		}
		st.store.set(m, v, s, d, c)
	}
	st.scratch.Reset()
}

// matchExtend walks the label tail and the query tail character by
// character for every live M diagonal of v at s, extending offset for
// free while they agree (spec §4.4 "match extension").
func (st *searchState) matchExtend(v int, s uint32) {
	label := st.a.graph.Label(v)
	lo, hi, ok := st.store.krange(MatrixM, v, s)
	if !ok {
		return
	}
	for d := lo; d <= hi; d++ {
		c, ok := st.store.get(MatrixM, v, s, d)
		if !ok || !c.isSet() {
			continue
		}
		offset := c.Offset
		for {
			qpos := d + int(offset)
			if offset >= int32(len(label)) || qpos < 0 || qpos >= len(st.query) {
				break
			}
			if label[offset] != st.query[qpos] {
				break
			}
			offset++
		}
		if offset != c.Offset {
			c.Offset = offset
			st.store.set(MatrixM, v, s, d, c)
		}
	}
}

// detectJumps emits jumps out of v for every M or I diagonal that has fully
// consumed v's label (spec §4.3 step 3), activating successors and
// recording invalid segments (spec §4.3 step 5 / table).
func (st *searchState) detectJumps(v int, s uint32) {
	labelLen := int32(len(st.a.graph.Label(v)))
	delta := int(st.a.ip.GapOpen + st.a.ip.GapExt)
	gape := int(st.a.ip.GapExt)

	if lo, hi, ok := st.store.krange(MatrixM, v, s); ok {
		for d := lo; d <= hi; d++ {
			c, ok := st.store.get(MatrixM, v, s, d)
			if !ok || !c.isSet() || c.Offset != labelLen {
				continue
			}
			for _, w := range st.a.graph.Successors(v) {
				st.vd.Activate(w)
				td := d + int(labelLen)
				st.store.set(MatrixM, w, s, td, Cell{
					Diag: int32(td), Offset: 0, FromMatrix: MatrixMJumps,
					Prev: encodePrevPos(v, s, MatrixM),
				})
				st.vd.RecordMJump(w, s, td, encodePrevPos(v, s, MatrixM))
			}
			// The sink has no successor to continue the diagonal, so its own
			// gap cells (trailing insertions) must stay reachable.
			if len(st.a.graph.Successors(v)) > 0 {
				st.vd.invalidateMJump(v, d, delta)
			}
		}
	}

	if lo, hi, ok := st.store.krange(MatrixI, v, s); ok {
		for d := lo; d <= hi; d++ {
			c, ok := st.store.get(MatrixI, v, s, d)
			if !ok || !c.isSet() || c.Offset != labelLen {
				continue
			}
			for _, w := range st.a.graph.Successors(v) {
				st.vd.Activate(w)
				td := d + int(labelLen)
				st.store.set(MatrixIJumps, w, s, td, Cell{
					Diag: int32(td), Offset: 0, FromMatrix: MatrixIJumps,
					Prev: encodePrevPos(v, s, MatrixI),
				})
				st.vd.RecordIJump(w, s, td, encodePrevPos(v, s, MatrixI))
			}
			if len(st.a.graph.Successors(v)) > 0 {
				st.vd.invalidateIJump(v, d, delta, gape)
			}
		}
	}
}
