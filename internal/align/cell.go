package align

// Matrix identifies which of the eight DP matrices a Cell belongs to. The
// set is exhaustive (spec §9: "the eight-valued enum is exhaustive") and is
// dispatched on by a small switch table rather than by inheritance.
type Matrix uint8

const (
	MatrixNone Matrix = iota
	MatrixM
	MatrixMJumps
	MatrixI
	MatrixIJumps
	MatrixD
	MatrixI2
	MatrixI2Jumps
	MatrixD2
)

func (m Matrix) String() string {
	switch m {
	case MatrixM:
		return "M"
	case MatrixMJumps:
		return "MJumps"
	case MatrixI:
		return "I"
	case MatrixIJumps:
		return "IJumps"
	case MatrixD:
		return "D"
	case MatrixI2:
		return "I2"
	case MatrixI2Jumps:
		return "I2Jumps"
	case MatrixD2:
		return "D2"
	default:
		return "None"
	}
}

// inBeyondScope reports whether cells of this matrix can be referenced
// during backtrace beyond the scope window, and so must be mirrored into
// BeyondScope. Besides {M, MJumps, IJumps, I2Jumps} (spec §3), this also
// covers the plain gap matrices {I, D, I2, D2}: an M cell can absorb a gap
// close at a score arbitrarily far behind winnerScore (other vertices keep
// accumulating score after the gap closes), so backtrace's re-read of that
// gap cell needs the same permanent lifetime as a jump cell, not just the
// bounded window the forward recurrences themselves rely on.
func (m Matrix) inBeyondScope() bool {
	switch m {
	case MatrixM, MatrixMJumps, MatrixIJumps, MatrixI2Jumps, MatrixI, MatrixD, MatrixI2, MatrixD2:
		return true
	default:
		return false
	}
}

// inScope reports whether cells of this matrix live in the bounded score
// ring (spec §3: "per matrix ∈ {I, D, I2, D2, IJumps}"), used by the
// forward open/extend recurrences which only ever look back a bounded
// number of scores. These matrices are also mirrored into BeyondScope (see
// inBeyondScope) so backtrace can still find them once evicted from Scope.
func (m Matrix) inScope() bool {
	switch m {
	case MatrixI, MatrixD, MatrixI2, MatrixD2, MatrixIJumps:
		return true
	default:
		return false
	}
}

// prevPos is the 64-bit packed logical reference to a predecessor cell
// (spec §9: "encode it as an integer tag ... into an append-only cell store
// held by BeyondScope. Do not use raw memory addresses into ring-reused
// buffers"). Layout, from the low bit up: 8 bits matrix, 24 bits vertex id,
// 32 bits score. Diagonal is not part of the tag: the caller already knows
// which diagonal it is walking (it is recovering offset/diag from the Cell
// itself), so only (vertex, score, matrix) plus the Cell's own Diag field
// are needed to relocate the source wavefront.
type prevPos uint64

const noPrevPos prevPos = 0

func encodePrevPos(vertex int, score uint32, m Matrix) prevPos {
	return prevPos(uint64(m)&0xff | uint64(uint32(vertex)&0xffffff)<<8 | uint64(score)<<32)
}

func (p prevPos) decode() (vertex int, score uint32, m Matrix) {
	m = Matrix(p & 0xff)
	vertex = int((p >> 8) & 0xffffff)
	score = uint32(p >> 32)
	return
}

func (p prevPos) valid() bool { return p != noPrevPos }

// Cell is the atomic state of one diagonal in one matrix of one vertex
// (spec §3). Cells are trivially copyable; Wavefront[Cell] never runs a
// constructor on resize, only clear().
type Cell struct {
	Diag       int32
	Offset     int32 // -1 means "unset" (spec §4.2 sentinel)
	FromMatrix Matrix
	Prev       prevPos
}

// emptyCell is the sentinel "unset" value used by Scratchpad/Wavefront
// resets (spec §4.2: "reset() resets touched cells to {offset = -1}").
var emptyCell = Cell{Offset: -1}

func (c Cell) isSet() bool { return c.Offset >= 0 }
