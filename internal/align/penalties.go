package align

// Penalties is the user-facing gap-affine (or dual-affine) cost model.
// Smaller total penalty is better (minimization). GapOpen2/GapExt2 are
// optional: leaving both zero disables the second affine piece.
type Penalties struct {
	Match    uint32
	Mismatch uint32
	GapOpen  uint32
	GapExt   uint32

	// GapOpen2/GapExt2 enable a second, typically cheaper-per-base, affine
	// piece (dual-affine). Leave both zero to disable — see spec §9: this
	// is treated as a future-extension path, tested in isolation rather
	// than exercised by every property test.
	GapOpen2 uint32
	GapExt2  uint32
}

// DualAffine reports whether the second affine piece is configured.
func (p *Penalties) DualAffine() bool { return p.GapOpen2 > 0 || p.GapExt2 > 0 }

// DefaultPenalties mirrors common aligner defaults (e.g. minimap2-style):
// match 0, mismatch 4, gap-open 6, gap-extend 2.
var DefaultPenalties = &Penalties{
	Match:    0,
	Mismatch: 4,
	GapOpen:  6,
	GapExt:   2,
}

// InternalPenalties is the rescaled cost model the aligner core actually
// computes in: Match' = 0, so exact-match extension along a diagonal is
// free within a wave (spec §4.1).
type InternalPenalties struct {
	Mismatch uint32
	GapOpen  uint32
	GapExt   uint32
	GapOpen2 uint32
	GapExt2  uint32

	dual bool
}

// NewInternalPenalties validates p and returns its rescaled equivalent.
// Preconditions (spec §4.1): match <= mismatch, match <= gapopen,
// match <= gapext, gapopen >= gapext. Violating any of them returns
// ErrInvalidPenalties.
func NewInternalPenalties(p *Penalties) (*InternalPenalties, error) {
	if p.Match > p.Mismatch || p.Match > p.GapOpen || p.Match > p.GapExt || p.GapOpen < p.GapExt {
		return nil, ErrInvalidPenalties
	}
	ip := &InternalPenalties{
		Mismatch: 2*p.Mismatch - 2*p.Match,
		GapOpen:  2 * p.GapOpen,
		GapExt:   2*p.GapExt - p.Match,
		dual:     p.DualAffine(),
	}
	if ip.dual {
		if p.Match > p.GapOpen2 || p.Match > p.GapExt2 || p.GapOpen2 < p.GapExt2 {
			return nil, ErrInvalidPenalties
		}
		ip.GapOpen2 = 2 * p.GapOpen2
		ip.GapExt2 = 2*p.GapExt2 - p.Match
	}
	return ip, nil
}

// Window is the bounded number of past scores (spec §3 "Scope (window W)")
// for which complete wavefronts must be retained: large enough that every
// backward lookup the recurrences make (at most GapOpen+GapExt, or the
// dual-affine equivalent) lands inside it.
func (ip *InternalPenalties) Window() uint32 {
	w := ip.GapOpen + ip.GapExt
	if ip.dual {
		if d := ip.GapOpen2 + ip.GapExt2; d > w {
			w = d
		}
	}
	return w + 2
}
