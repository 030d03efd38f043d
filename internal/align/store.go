package align

// store dispatches Cell reads/writes to Scope and/or BeyondScope according
// to Matrix.inScope()/inBeyondScope(), so the driver and backtrace can
// address a cell purely by (matrix, vertex, score, diag) without knowing
// which underlying structure holds it.
type store struct {
	scope *Scope
	bs    *BeyondScope
}

func newStore(window uint32) *store {
	return &store{scope: NewScope(window), bs: NewBeyondScope()}
}

func (st *store) advance(score uint32) { st.scope.slot(score) }

func (st *store) set(m Matrix, vertex int, score uint32, diag int, c Cell) {
	if m.inScope() {
		st.scope.Set(m, vertex, score, diag, c)
	}
	if m.inBeyondScope() {
		st.bs.Set(m, vertex, score, diag, c)
	}
}

func (st *store) get(m Matrix, vertex int, score uint32, diag int) (Cell, bool) {
	if m.inBeyondScope() {
		if c, ok := st.bs.Get(m, vertex, score, diag); ok {
			return c, true
		}
	}
	if m.inScope() {
		return st.scope.Get(m, vertex, score, diag)
	}
	return Cell{}, false
}

func (st *store) krange(m Matrix, vertex int, score uint32) (int, int, bool) {
	if m.inBeyondScope() {
		if lo, hi, ok := st.bs.KRange(m, vertex, score); ok {
			return lo, hi, true
		}
	}
	if m.inScope() {
		return st.scope.KRange(m, vertex, score)
	}
	return 0, 0, false
}

func (st *store) diags(m Matrix, vertex int, score uint32) []int {
	if m.inBeyondScope() {
		if ds := st.bs.Diags(m, vertex, score); ds != nil {
			return ds
		}
	}
	if m.inScope() {
		return st.scope.Diags(m, vertex, score)
	}
	return nil
}
