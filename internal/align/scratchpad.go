package align

// Scratchpad is a Wavefront[Cell] paired with the list of diagonals touched
// since the last Reset (spec §3/§4.2): it tracks which diagonals have been
// written during the current sweep, so Reset can restore exactly the
// touched cells in O(touched) rather than O(range), and so Combine can
// keep the maximum-offset contribution per diagonal when several
// predecessor matrices land on the same diagonal (sparsify, spec §4.3).
type Scratchpad struct {
	wf      *Wavefront[Cell]
	touched []int
}

// NewScratchpad allocates a Scratchpad covering [minDiag, maxDiag].
func NewScratchpad(minDiag, maxDiag int) *Scratchpad {
	return &Scratchpad{
		wf:      NewWavefront(minDiag, maxDiag, emptyCell),
		touched: make([]int, 0, maxDiag-minDiag+1),
	}
}

// Grow replaces the backing Wavefront if [minDiag,maxDiag] no longer fits,
// discarding any touched state (callers always Reset before reuse).
func (s *Scratchpad) Grow(minDiag, maxDiag int) {
	if s.wf != nil && minDiag >= s.wf.MinDiag && maxDiag <= s.wf.MaxDiag {
		return
	}
	s.wf = NewWavefront(minDiag, maxDiag, emptyCell)
	s.touched = s.touched[:0]
}

// AccessAlloc returns a mutable pointer to the cell at diagonal d,
// registering d as touched the first time it is seen since Reset (spec
// §4.2 access_alloc).
func (s *Scratchpad) AccessAlloc(d int) *Cell {
	c, ok := s.wf.At(d)
	if !ok {
		return nil
	}
	if c.Offset == -1 {
		s.touched = append(s.touched, d)
	}
	return &s.wf.cells[d-s.wf.MinDiag]
}

// Combine writes cand into diagonal d, keeping whichever of the existing
// and candidate cell has the larger Offset (spec "sparsify ... keeping the
// per-diagonal maximum offset").
func (s *Scratchpad) Combine(d int, cand Cell) {
	cur := s.AccessAlloc(d)
	if cur == nil {
		return
	}
	if !cur.isSet() || cand.Offset > cur.Offset {
		*cur = cand
	}
}

// Get returns the cell at diagonal d, and whether it has been set.
func (s *Scratchpad) Get(d int) (Cell, bool) {
	c, ok := s.wf.At(d)
	return c, ok && c.isSet()
}

// Touched returns the diagonals written since the last Reset.
func (s *Scratchpad) Touched() []int { return s.touched }

// Reset restores every touched cell to empty in O(touched).
func (s *Scratchpad) Reset() {
	for _, d := range s.touched {
		s.wf.Set(d, emptyCell)
	}
	s.touched = s.touched[:0]
}
