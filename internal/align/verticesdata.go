package align

// InvalidSegment is a contiguous range of diagonals in one (vertex, matrix)
// that cannot yield a better cell for the remaining score steps (spec §3).
// RemDown/RemUp count down by 1 each score step; on reaching 0 the segment
// grows by one diagonal in that direction and the counter resets to the
// table value from spec §4.3. StartDiag > EndDiag encodes an initially
// empty segment that becomes non-empty as its counters tick down to 0.
type InvalidSegment struct {
	StartDiag, EndDiag int
	RemDown, RemUp     int
}

func (s InvalidSegment) empty() bool { return s.StartDiag > s.EndDiag }

func (s InvalidSegment) contains(d int) bool { return !s.empty() && d >= s.StartDiag && d <= s.EndDiag }

// VerticesData holds, for every active vertex, the invalid-diagonal
// segments of its M/I/D matrices and the per-scope-slot jump positions used
// to reconstruct jumps during backtrace (spec §3).
type VerticesData struct {
	window uint32
	gape   int // InternalPenalties.GapExt, the default reset value for rem counters

	m map[int][]InvalidSegment
	i map[int][]InvalidSegment
	d map[int][]InvalidSegment

	// mJumpPositions[vertex][score%W] / iJumpPositions[vertex][score%W]
	// record the prevPos of every jump cell landing on vertex during that
	// scope slot (spec §3). Backtrace does not read them: it resolves jump
	// hops from each jump Cell's own Prev tag.
	mJumpPositions map[int][][]jumpRecord
	iJumpPositions map[int][][]jumpRecord

	active map[int]bool
	order  []int // activation order, stable for identical input (spec §5)
}

type jumpRecord struct {
	diag int
	prev prevPos
}

// NewVerticesData allocates bookkeeping for a search with the given scope
// window and gap-extend default.
func NewVerticesData(window uint32, gapExt int) *VerticesData {
	return &VerticesData{
		window:         window,
		gape:           gapExt,
		m:              make(map[int][]InvalidSegment),
		i:              make(map[int][]InvalidSegment),
		d:              make(map[int][]InvalidSegment),
		mJumpPositions: make(map[int][][]jumpRecord),
		iJumpPositions: make(map[int][][]jumpRecord),
		active:         make(map[int]bool),
	}
}

// Activate marks vertex as active (the first time a jump reaches it); once
// active it stays active for the rest of the alignment (spec §3
// lifecycle). Returns true if this call newly activated it.
func (vd *VerticesData) Activate(vertex int) bool {
	if vd.active[vertex] {
		return false
	}
	vd.active[vertex] = true
	vd.order = append(vd.order, vertex)
	vd.mJumpPositions[vertex] = make([][]jumpRecord, vd.window)
	vd.iJumpPositions[vertex] = make([][]jumpRecord, vd.window)
	return true
}

// IsActive reports whether vertex has been activated.
func (vd *VerticesData) IsActive(vertex int) bool { return vd.active[vertex] }

// ActiveVertices returns the active vertex ids in activation order.
func (vd *VerticesData) ActiveVertices() []int { return vd.order }

// ValidDiagonal reports whether d is NOT within an invalid segment of
// vertex's matrix m (spec §4.4 valid_diagonal<M|I|D>).
func (vd *VerticesData) ValidDiagonal(m Matrix, vertex, d int) bool {
	var segs []InvalidSegment
	switch m {
	case MatrixM, MatrixMJumps:
		segs = vd.m[vertex]
	case MatrixI, MatrixIJumps:
		segs = vd.i[vertex]
	case MatrixD:
		segs = vd.d[vertex]
	default:
		return true
	}
	for _, s := range segs {
		if s.contains(d) {
			return false
		}
	}
	return true
}

// invalidateMJump records the three segments spec §4.3's table prescribes
// for a jump taken out of diagonal d in matrix M of vertex.
func (vd *VerticesData) invalidateMJump(vertex, d, gapOpenExt int) {
	vd.m[vertex] = append(vd.m[vertex], InvalidSegment{StartDiag: d, EndDiag: d, RemDown: gapOpenExt, RemUp: gapOpenExt})
	vd.i[vertex] = append(vd.i[vertex], InvalidSegment{StartDiag: d + 1, EndDiag: d, RemDown: 2 * gapOpenExt, RemUp: gapOpenExt})
	vd.d[vertex] = append(vd.d[vertex], InvalidSegment{StartDiag: d, EndDiag: d - 1, RemDown: gapOpenExt, RemUp: 2 * gapOpenExt})
}

// invalidateIJump records the three segments spec §4.3's table prescribes
// for a jump taken out of diagonal d in matrix I of vertex.
func (vd *VerticesData) invalidateIJump(vertex, d, gapOpenExt, gape int) {
	vd.m[vertex] = append(vd.m[vertex], InvalidSegment{StartDiag: d, EndDiag: d, RemDown: gapOpenExt, RemUp: gape})
	vd.i[vertex] = append(vd.i[vertex], InvalidSegment{StartDiag: d, EndDiag: d, RemDown: 2*gapOpenExt + gape, RemUp: gape})
	vd.d[vertex] = append(vd.d[vertex], InvalidSegment{StartDiag: d, EndDiag: d - 1, RemDown: gapOpenExt, RemUp: gapOpenExt + gape})
}

// RecordMJump and RecordIJump append a finished diagonal's jump position
// into the current scope slot.
func (vd *VerticesData) RecordMJump(vertex int, score uint32, diag int, prev prevPos) {
	idx := score % vd.window
	vd.mJumpPositions[vertex][idx] = append(vd.mJumpPositions[vertex][idx], jumpRecord{diag: diag, prev: prev})
}

func (vd *VerticesData) RecordIJump(vertex int, score uint32, diag int, prev prevPos) {
	idx := score % vd.window
	vd.iJumpPositions[vertex][idx] = append(vd.iJumpPositions[vertex][idx], jumpRecord{diag: diag, prev: prev})
}

// clearJumpSlot is called by the driver before writing into a scope slot
// that is about to be reused for a new score.
func (vd *VerticesData) clearJumpSlot(score uint32) {
	idx := score % vd.window
	for _, v := range vd.order {
		vd.mJumpPositions[v][idx] = vd.mJumpPositions[v][idx][:0]
		vd.iJumpPositions[v][idx] = vd.iJumpPositions[v][idx][:0]
	}
}

// Expand ticks every segment's counters down by one, growing the diagonal
// range by one in whichever direction reaches zero and resetting that
// counter to GapExt (spec §4.4).
func (vd *VerticesData) Expand() {
	for _, m := range []map[int][]InvalidSegment{vd.m, vd.i, vd.d} {
		for v, segs := range m {
			for idx := range segs {
				s := &segs[idx]
				s.RemDown--
				if s.RemDown <= 0 {
					s.StartDiag--
					s.RemDown = vd.gape
				}
				s.RemUp--
				if s.RemUp <= 0 {
					s.EndDiag++
					s.RemUp = vd.gape
				}
			}
			m[v] = segs
		}
	}
}

// Compact sorts each vertex/matrix's segments by StartDiag and merges
// overlapping-or-adjacent ones, taking the union of their diagonal range
// and the smaller (sooner-to-fire) of their two rem counters. The counters
// are not adjusted by each piece's distance to the merged boundary, so a
// merged segment grows at the same time as, or earlier than, it would if the
// farther piece's counter were increased by that distance times gape.
func (vd *VerticesData) Compact() {
	for _, m := range []map[int][]InvalidSegment{vd.m, vd.i, vd.d} {
		for v, segs := range m {
			m[v] = compactSegments(segs)
		}
	}
}

func compactSegments(segs []InvalidSegment) []InvalidSegment {
	if len(segs) < 2 {
		return segs
	}
	sortSegments(segs)
	out := segs[:1]
	for _, s := range segs[1:] {
		last := &out[len(out)-1]
		if s.StartDiag <= last.EndDiag+1 {
			if s.EndDiag > last.EndDiag {
				last.EndDiag = s.EndDiag
			}
			if s.StartDiag < last.StartDiag {
				last.StartDiag = s.StartDiag
			}
			if s.RemDown < last.RemDown {
				last.RemDown = s.RemDown
			}
			if s.RemUp < last.RemUp {
				last.RemUp = s.RemUp
			}
		} else {
			out = append(out, s)
		}
	}
	return out
}

func sortSegments(segs []InvalidSegment) {
	for i := 1; i < len(segs); i++ {
		for j := i; j > 0 && segs[j].StartDiag < segs[j-1].StartDiag; j-- {
			segs[j], segs[j-1] = segs[j-1], segs[j]
		}
	}
}
