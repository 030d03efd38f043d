package align

// Scope is the bounded score-window ring described in spec §3: a ring keyed
// by score mod W, holding per-matrix per-active-vertex wavefronts for the
// matrices whose recurrences only ever look back at most W scores
// (I, D, I2, D2, IJumps). Content for a slot is logically erased when the
// driver advances to a score that reuses that slot — here, by clearing the
// slot's maps in slot (reached through store.advance).
//
// This generalizes the teacher's Component (shenwei356-wfa wfa_component.go),
// which keeps an unboundedly-growing []*WaveFront indexed by absolute score
// because a single linear target never needs more than one vertex's worth
// of bookkeeping; the graph aligner bounds memory with the ring spec §3
// specifies instead.
type Scope struct {
	window uint32
	slots  []scopeSlot
}

type scopeSlot struct {
	score uint32
	valid bool
	data  map[Matrix]map[int]*cellMap // matrix -> vertex -> diagonal cells
}

// NewScope allocates a ring with the given window size W.
func NewScope(window uint32) *Scope {
	if window == 0 {
		window = 1
	}
	slots := make([]scopeSlot, window)
	for i := range slots {
		slots[i].data = make(map[Matrix]map[int]*cellMap)
	}
	return &Scope{window: window, slots: slots}
}

func (s *Scope) slot(score uint32) *scopeSlot {
	slot := &s.slots[score%s.window]
	if !slot.valid || slot.score != score {
		for k := range slot.data {
			delete(slot.data, k)
		}
		slot.score = score
		slot.valid = true
	}
	return slot
}

// Set records cell c at (matrix, vertex, diag) for score.
func (s *Scope) Set(m Matrix, vertex int, score uint32, diag int, c Cell) {
	slot := s.slot(score)
	vm, ok := slot.data[m]
	if !ok {
		vm = make(map[int]*cellMap)
		slot.data[m] = vm
	}
	cm, ok := vm[vertex]
	if !ok {
		cm = newCellMap()
		vm[vertex] = cm
	}
	cm.set(diag, c)
}

// Get returns the cell at (matrix, vertex, diag) for score, if that slot
// still holds score's data (spec invariant: "reading a slot whose score has
// been overwritten is forbidden" — here it simply reports not-found).
func (s *Scope) Get(m Matrix, vertex int, score uint32, diag int) (Cell, bool) {
	slot := &s.slots[score%s.window]
	if !slot.valid || slot.score != score {
		return Cell{}, false
	}
	vm, ok := slot.data[m]
	if !ok {
		return Cell{}, false
	}
	cm, ok := vm[vertex]
	if !ok {
		return Cell{}, false
	}
	return cm.get(diag)
}

// KRange returns the [lo,hi] diagonal range recorded for (matrix, vertex)
// at score, and whether anything was recorded at all.
func (s *Scope) KRange(m Matrix, vertex int, score uint32) (int, int, bool) {
	slot := &s.slots[score%s.window]
	if !slot.valid || slot.score != score {
		return 0, 0, false
	}
	vm, ok := slot.data[m]
	if !ok {
		return 0, 0, false
	}
	cm, ok := vm[vertex]
	if !ok {
		return 0, 0, false
	}
	return cm.krange()
}

// Diags returns the diagonals recorded for (matrix, vertex) at score.
func (s *Scope) Diags(m Matrix, vertex int, score uint32) []int {
	slot := &s.slots[score%s.window]
	if !slot.valid || slot.score != score {
		return nil
	}
	vm, ok := slot.data[m]
	if !ok {
		return nil
	}
	cm, ok := vm[vertex]
	if !ok {
		return nil
	}
	return cm.diags()
}
