package align

// backtraceFrame names one link in the chain walked backward from the
// winning sink cell: which matrix, vertex, score and diagonal it sits at.
type backtraceFrame struct {
	matrix Matrix
	vertex int
	score  uint32
	diag   int32
}

// backtrace walks cell.Prev links backward from the winning M cell at
// (sinkVertex, score, diag), emitting the edit string and graph path per
// the transition table of spec §4.6.
func (a *Aligner) backtrace(st *searchState, sinkVertex int, score uint32, diag int32) (*Alignment, error) {
	cur := backtraceFrame{matrix: MatrixM, vertex: sinkVertex, score: score, diag: diag}

	var edits []byte
	pathRev := []int{sinkVertex}
	var startOffset int32
	var endOffset int32
	endOffsetSet := false

	for {
		cell, ok := st.store.get(cur.matrix, cur.vertex, cur.score, int(cur.diag))
		if !ok {
			return nil, &InternalError{Score: cur.score, Message: "backtrace: missing cell at " + cur.matrix.String()}
		}

		switch cur.matrix {
		case MatrixM:
			switch cell.FromMatrix {
			case MatrixNone:
				startOffset = -cur.diag
				edits = appendMatches(edits, int(cell.Offset))
				return a.finishBacktrace(edits, pathRev, startOffset, endOffset, score)

			case MatrixM:
				ps := cur.score - a.ip.Mismatch
				pd := cur.diag
				pc, ok := st.store.get(MatrixM, cur.vertex, ps, int(pd))
				if !ok {
					return nil, &InternalError{Score: cur.score, Message: "backtrace: missing mismatch predecessor"}
				}
				k := int(cell.Offset - pc.Offset - 1)
				edits = appendMatches(edits, k)
				edits = append(edits, 'X')
				cur = backtraceFrame{MatrixM, cur.vertex, ps, pd}

			case MatrixMJumps:
				pv, ps, pm := cell.Prev.decode()
				if cur.vertex == sinkVertex && !endOffsetSet {
					endOffset = int32(len(a.graph.Label(pv)))
					endOffsetSet = true
				}
				pd := cur.diag - int32(len(a.graph.Label(pv)))
				edits = appendMatches(edits, int(cell.Offset))
				pathRev = append(pathRev, pv)
				cur = backtraceFrame{pm, pv, ps, pd}

			case MatrixI, MatrixD, MatrixIJumps, MatrixI2, MatrixI2Jumps, MatrixD2:
				gm := cell.FromMatrix
				gc, ok := st.store.get(gm, cur.vertex, cur.score, int(cur.diag))
				if !ok {
					return nil, &InternalError{Score: cur.score, Message: "backtrace: missing gap-close predecessor"}
				}
				k := int(cell.Offset - gc.Offset)
				edits = appendMatches(edits, k)
				cur = backtraceFrame{gm, cur.vertex, cur.score, cur.diag}

			default:
				return nil, &InternalError{Score: cur.score, Message: "backtrace: unexpected predecessor of M"}
			}

		case MatrixI, MatrixD, MatrixI2, MatrixD2:
			op := byte('I')
			if cur.matrix == MatrixD || cur.matrix == MatrixD2 {
				op = 'D'
			}
			shift := int32(-1)
			if cur.matrix == MatrixD || cur.matrix == MatrixD2 {
				shift = 1
			}
			switch cell.FromMatrix {
			case MatrixM:
				gapOpen, gapExt := a.ip.GapOpen, a.ip.GapExt
				if cur.matrix == MatrixI2 || cur.matrix == MatrixD2 {
					gapOpen, gapExt = a.ip.GapOpen2, a.ip.GapExt2
				}
				edits = append(edits, op)
				cur = backtraceFrame{MatrixM, cur.vertex, cur.score - gapOpen - gapExt, cur.diag + shift}
			case cur.matrix:
				gapExt := a.ip.GapExt
				if cur.matrix == MatrixI2 || cur.matrix == MatrixD2 {
					gapExt = a.ip.GapExt2
				}
				edits = append(edits, op)
				cur = backtraceFrame{cur.matrix, cur.vertex, cur.score - gapExt, cur.diag + shift}
			default:
				return nil, &InternalError{Score: cur.score, Message: "backtrace: unexpected predecessor of gap matrix"}
			}

		case MatrixIJumps, MatrixI2Jumps:
			pv, ps, pm := cell.Prev.decode()
			pd := cur.diag - int32(len(a.graph.Label(pv)))
			pathRev = append(pathRev, pv)
			cur = backtraceFrame{pm, pv, ps, pd}

		default:
			return nil, &InternalError{Score: cur.score, Message: "backtrace: unreachable matrix"}
		}
	}
}

// appendMatches appends n 'M' bytes to edits (k == 0 is a no-op, not an
// error: a gap can close with zero intervening matches).
func appendMatches(edits []byte, n int) []byte {
	for i := 0; i < n; i++ {
		edits = append(edits, 'M')
	}
	return edits
}

// finishBacktrace reverses the edit string and path (built walking
// backward) and assembles the Alignment.
func (a *Aligner) finishBacktrace(edits []byte, pathRev []int, startOffset, endOffset int32, score uint32) (*Alignment, error) {
	reverseBytes(edits)
	reverseInts(pathRev)

	path := make([]string, len(pathRev))
	for i, v := range pathRev {
		path[i] = a.graph.Name(v)
	}

	aln := &Alignment{
		Edits:       string(edits),
		Path:        path,
		StartOffset: startOffset,
		EndOffset:   endOffset,
		Score:       score,
	}
	if err := aln.Recompute(a.penalties); err != nil {
		return nil, err
	}
	return aln, nil
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
