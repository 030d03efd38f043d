package align

// Alignment is the result of a single alignment: the edit string over
// {M,X,I,D}, the graph path traversed (vertex names, in traversal order),
// the offsets into the start/end vertices' labels, and the authoritative
// score (spec §6 Alignment type).
type Alignment struct {
	Edits       string
	Path        []string
	StartOffset int32
	EndOffset   int32
	Score       uint32
}

// Recompute scores Edits under the user's original (non-rescaled)
// Penalties and overwrites Score with the result — this, not any score the
// search tracked internally, is the authoritative value (spec §4.1).
func (a *Alignment) Recompute(p *Penalties) error {
	var score uint64
	var gapRun byte // 0, 'I', or 'D': which gap kind the current run is
	for i := 0; i < len(a.Edits); i++ {
		op := a.Edits[i]
		switch op {
		case 'M':
			score += uint64(p.Match)
			gapRun = 0
		case 'X':
			score += uint64(p.Mismatch)
			gapRun = 0
		case 'I', 'D':
			if gapRun == op {
				score += uint64(p.GapExt)
			} else {
				score += uint64(p.GapOpen) + uint64(p.GapExt)
				gapRun = op
			}
		default:
			return &InternalError{Score: a.Score, Message: "alignment: unknown edit op " + string(op)}
		}
	}
	a.Score = uint32(score)
	return nil
}
